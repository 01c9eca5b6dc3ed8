package compress

// ZstdCompressor compresses a persisted BackupIndex cache file with
// Zstandard. Two build-tag-selected implementations back this
// type: zstd_cgo.go wraps valyala/gozstd when cgo is available, and
// zstd_pure.go falls back to klauspost/compress/zstd otherwise.
//
// A cache file is written once, after a full backup scan, and read many
// times on subsequent opens, so trading encode time for a better ratio
// is the right default.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Returns:
//   - ZstdCompressor: New Zstd compressor instance
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(data)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
