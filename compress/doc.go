// Package compress provides the compression codecs used to persist a
// mdf.BackupIndex cache file to disk.
//
// # Overview
//
// Building a BackupIndex requires a forward scan of the whole backup
// container. mdf.Cache persists the resulting index next to a
// content hash of the source file so that later opens can skip the
// scan. The serialized index is a flat run of fixed-size records, which
// compresses well; this package supplies the algorithm choices:
//
//   - None: no compression, useful for debugging the cache format
//   - Zstd: best ratio, suited to a cache written once and read often
//   - S2: fast to produce, suited to caches rewritten frequently
//   - LZ4: fastest to decompress, suited to latency-sensitive opens
//
// # Architecture
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// CreateCodec(Type) constructs the Codec named by a Type value. mdf.Cache
// decodes a cache file with the Codec of its own configured Type; the
// algorithm is not recorded in the file, so Cache.Load reports an error
// for a cache file written under a different mdf.WithCacheCompression
// setting.
//
// # Zstd build variants
//
// ZstdCompressor has two implementations selected by build tag:
// zstd_cgo.go wraps github.com/valyala/gozstd when cgo is enabled for a
// faster encoder, and zstd_pure.go falls back to
// github.com/klauspost/compress/zstd for CGO_ENABLED=0 builds.
package compress
