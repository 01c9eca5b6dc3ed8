//go:build cgo

package compress

import (
	"github.com/valyala/gozstd"
)

// Compress compresses a serialized BackupIndex using cgo zstd bindings,
// favoring compression ratio over encoder warmup cost: the cache is
// written once per BackupIndex build and read many times.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
