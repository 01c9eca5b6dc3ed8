package mdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rroohhh/mtfgo/compress"
	"github.com/rroohhh/mtfgo/cursor"
	"github.com/rroohhh/mtfgo/endian"
	"github.com/rroohhh/mtfgo/errs"
	"github.com/rroohhh/mtfgo/internal/hash"
	"github.com/rroohhh/mtfgo/internal/options"
	"github.com/rroohhh/mtfgo/internal/pool"
)

// cacheMagic and cacheFormatVersion identify and version the on-disk
// cache format; a mismatch on either makes the cache stale.
var cacheMagic = [4]byte{'M', 'T', 'F', 'X'}

const cacheFormatVersion uint16 = 2

// fingerprintPages is how much of the payload's prefix contributes to
// its cache fingerprint.
const fingerprintPages = 10

// fingerprint returns the 64-bit content hash the cache filename is
// keyed on: the first 10 pages of payload, concatenated with its
// length.
func fingerprint(payload []byte) uint64 {
	n := fingerprintPages * PageSize
	if n > len(payload) {
		n = len(payload)
	}

	d := hash.NewDigest()
	_, _ = d.Write(payload[:n])

	var lenBuf [8]byte
	endian.GetLittleEndianEngine().PutUint64(lenBuf[:], uint64(len(payload)))
	_, _ = d.Write(lenBuf[:])

	return d.Sum64()
}

// cacheFilename returns the cache file's base name for payload.
func cacheFilename(payload []byte) string {
	return fmt.Sprintf(".mtf_backup_index_%016x", fingerprint(payload))
}

// Cache persists a BackupIndex to disk so that subsequent opens of the
// same payload can skip the forward scan.
type Cache struct {
	dir          string
	compression  compress.Type
	forceRebuild bool
}

// NewCache builds a Cache from the given options. An empty dir uses the
// process's current working directory, matching the original source's
// hard-coded behavior unless overridden with WithCacheDir.
func NewCache(opts ...Option) *Cache {
	c := &Cache{compression: compress.TypeZstd}
	_ = options.Apply(c, opts...)

	return c
}

func (c *Cache) path(payload []byte) string {
	return filepath.Join(c.dir, cacheFilename(payload))
}

// Load reads and deserializes the cached BackupIndex for payload, if
// present and compatible. A missing file is not an error: ok is false.
func (c *Cache) Load(payload []byte) (idx *BackupIndex, ok bool, err error) {
	if c.forceRebuild {
		return nil, false, nil
	}

	raw, err := os.ReadFile(c.path(payload))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}

		return nil, false, err
	}

	codec, err := compress.CreateCodec(c.compression)
	if err != nil {
		return nil, false, err
	}

	decompressed, err := codec.Decompress(raw)
	if err != nil {
		return nil, false, fmt.Errorf("decompressing index cache: %w", err)
	}

	idx, err = deserializeIndex(decompressed)
	if err != nil {
		return nil, false, err
	}

	return idx, true, nil
}

// Store serializes idx and atomically replaces payload's cache file: a
// temp file in the same directory is written, fsynced, then renamed over
// the final name, so concurrent builders racing on the same payload
// always leave a valid cache behind.
func (c *Cache) Store(payload []byte, idx *BackupIndex) error {
	serialized := serializeIndex(idx)

	codec, err := compress.CreateCodec(c.compression)
	if err != nil {
		return err
	}

	compressed, err := codec.Compress(serialized)
	if err != nil {
		return fmt.Errorf("compressing index cache: %w", err)
	}

	final := c.path(payload)
	dir := filepath.Dir(final)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(final)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)

		return err
	}

	return os.Rename(tmpName, final)
}

// serializeIndex flattens idx into the versioned binary layout:
//
//	magic[4] version(u16) divisor(u32) numFiles(u32)
//	for each file: maxPageID(u32) seen(u8) outerLen(u32)
//	  for each outer bucket: entryCount(u32)
//	    for each entry: start(u32) stop(u32) base(u32)
//
// This uses direct engine.AppendUintNN calls rather than encoding/gob, which would
// bring reflection overhead to a format that is otherwise a flat,
// versioned, cache-friendly run of fixed-size records.
func serializeIndex(idx *BackupIndex) []byte {
	buf := pool.GetCacheBuffer()
	defer pool.PutCacheBuffer(buf)

	engine := endian.GetLittleEndianEngine()

	buf.MustWrite(cacheMagic[:])
	buf.B = engine.AppendUint16(buf.B, cacheFormatVersion)
	buf.B = engine.AppendUint32(buf.B, uint32(divisor))
	buf.B = engine.AppendUint32(buf.B, uint32(len(idx.idx)))

	for fileIdx, outer := range idx.idx {
		maxPageID := uint32(0)
		if fileIdx < len(idx.maxPageID) {
			maxPageID = idx.maxPageID[fileIdx]
		}
		seen := fileIdx < len(idx.seen) && idx.seen[fileIdx]

		rec := pool.GetRecordBuffer()
		rec.B = engine.AppendUint32(rec.B, maxPageID)
		if seen {
			rec.B = append(rec.B, 1)
		} else {
			rec.B = append(rec.B, 0)
		}
		rec.B = engine.AppendUint32(rec.B, uint32(len(outer)))

		for _, bucket := range outer {
			rec.B = engine.AppendUint32(rec.B, uint32(len(bucket)))
			for _, e := range bucket {
				rec.B = engine.AppendUint32(rec.B, e.Start)
				rec.B = engine.AppendUint32(rec.B, e.Stop)
				rec.B = engine.AppendUint32(rec.B, e.Base)
			}
		}

		buf.MustWrite(rec.Bytes())
		pool.PutRecordBuffer(rec)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out
}

func deserializeIndex(data []byte) (*BackupIndex, error) {
	c := cursor.New(data)

	magic, err := c.ReadExact(4)
	if err != nil {
		return nil, err
	}
	if string(magic) != string(cacheMagic[:]) {
		return nil, fmt.Errorf("index cache: bad magic: %w", errs.ErrStaleCache)
	}

	version, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	if version != cacheFormatVersion {
		return nil, fmt.Errorf("index cache: version %d: %w", version, errs.ErrStaleCache)
	}

	storedDivisor, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	if storedDivisor != uint32(divisor) {
		return nil, fmt.Errorf("index cache: divisor %d: %w", storedDivisor, errs.ErrStaleCache)
	}

	numFiles, err := c.ReadU32()
	if err != nil {
		return nil, err
	}

	idx := &BackupIndex{
		idx:       make([][][]indexEntry, numFiles),
		maxPageID: make([]uint32, numFiles),
		seen:      make([]bool, numFiles),
	}

	for i := range int(numFiles) {
		maxPageID, err := c.ReadU32()
		if err != nil {
			return nil, err
		}
		idx.maxPageID[i] = maxPageID

		seenByte, err := c.ReadU8()
		if err != nil {
			return nil, err
		}
		idx.seen[i] = seenByte != 0

		outerLen, err := c.ReadU32()
		if err != nil {
			return nil, err
		}

		outer := make([][]indexEntry, outerLen)
		for j := range int(outerLen) {
			entryCount, err := c.ReadU32()
			if err != nil {
				return nil, err
			}

			bucket := make([]indexEntry, entryCount)
			for k := range int(entryCount) {
				start, err := c.ReadU32()
				if err != nil {
					return nil, err
				}
				stop, err := c.ReadU32()
				if err != nil {
					return nil, err
				}
				base, err := c.ReadU32()
				if err != nil {
					return nil, err
				}

				bucket[k] = indexEntry{Start: start, Stop: stop, Base: base}
			}

			outer[j] = bucket
		}

		idx.idx[i] = outer
	}

	return idx, nil
}
