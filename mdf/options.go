package mdf

import (
	"github.com/rroohhh/mtfgo/compress"
	"github.com/rroohhh/mtfgo/internal/options"
)

// Option configures a Cache, built on the generic functional-options
// helper in internal/options.
type Option = options.Option[*Cache]

// WithCacheDir sets the directory the index cache file is read from and
// written to. The original source hard-codes the process's working
// directory; a reusable library needs a configurable location for
// callers that don't control or want to pollute their CWD — this is
// additive, the default remains the working directory.
func WithCacheDir(dir string) Option {
	return options.NoError(func(c *Cache) {
		c.dir = dir
	})
}

// WithCacheCompression selects the codec used to compress the
// serialized index before it is written to disk. The default is
// compress.TypeZstd.
func WithCacheCompression(t compress.Type) Option {
	return options.NoError(func(c *Cache) {
		c.compression = t
	})
}

// WithForceRebuild skips loading an existing cache file and always
// rebuilds the index from a fresh scan, overwriting whatever was on
// disk once the rebuild completes.
func WithForceRebuild() Option {
	return options.NoError(func(c *Cache) {
		c.forceRebuild = true
	})
}
