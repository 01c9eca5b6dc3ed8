// Package hash wraps xxHash64 for the content fingerprints mdf.Cache uses
// to name and validate a persisted BackupIndex cache file.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of data, interpreted as an opaque byte string.
func ID(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// IDString computes the xxHash64 of a string without a []byte conversion.
func IDString(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Digest incrementally hashes content too large to hold in memory at
// once, such as the first N pages of a source file sampled by
// mdf.Cache's fingerprint.
type Digest struct {
	d *xxhash.Digest
}

// NewDigest returns a ready-to-use incremental xxHash64 digest.
func NewDigest() *Digest {
	return &Digest{d: xxhash.New()}
}

// Write feeds more content into the digest. It never returns an error.
func (h *Digest) Write(p []byte) (int, error) {
	return h.d.Write(p)
}

// Sum64 returns the digest's current hash value.
func (h *Digest) Sum64() uint64 {
	return h.d.Sum64()
}
