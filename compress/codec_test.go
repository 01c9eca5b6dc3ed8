package compress

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestType_String(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{TypeNone, "none"},
		{TypeZstd, "zstd"},
		{TypeS2, "s2"},
		{TypeLZ4, "lz4"},
		{Type(0xFF), "Type(255)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestCreateCodec_AllTypes(t *testing.T) {
	types := []Type{TypeNone, TypeZstd, TypeS2, TypeLZ4}

	for _, typ := range types {
		t.Run(typ.String(), func(t *testing.T) {
			c, err := CreateCodec(typ)
			require.NoError(t, err)
			require.NotNil(t, c)
		})
	}
}

func TestCreateCodec_Unknown(t *testing.T) {
	_, err := CreateCodec(Type(0xFF))
	require.Error(t, err)
}

func TestCodec_RoundTrip(t *testing.T) {
	payloads := map[string][]byte{
		"empty":     {},
		"small":     []byte("MTF backup index cache payload"),
		"repetitive": bytes.Repeat([]byte{0xAB}, 4096),
		"page-sized": bytes.Repeat([]byte("0123456789ABCDEF"), 512), // 8192 bytes
	}

	for _, typ := range []Type{TypeNone, TypeZstd, TypeS2, TypeLZ4} {
		for name, data := range payloads {
			t.Run(fmt.Sprintf("%s/%s", typ, name), func(t *testing.T) {
				c, err := CreateCodec(typ)
				require.NoError(t, err)

				compressed, err := c.Compress(data)
				require.NoError(t, err)

				decompressed, err := c.Decompress(compressed)
				require.NoError(t, err)

				if len(data) == 0 {
					require.Empty(t, decompressed)
				} else {
					require.Equal(t, data, decompressed)
				}
			})
		}
	}
}

func TestNoOpCompressor_IsIdentity(t *testing.T) {
	c := NewNoOpCompressor()
	data := []byte("index cache bytes")

	compressed, err := c.Compress(data)
	require.NoError(t, err)
	require.Equal(t, data, compressed)

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, data, decompressed)
}

func TestCompressionStats_Ratio(t *testing.T) {
	s := CompressionStats{Algorithm: TypeZstd, OriginalSize: 1000, CompressedSize: 250}
	require.InDelta(t, 0.25, s.Ratio(), 0.0001)

	zero := CompressionStats{}
	require.Equal(t, float64(0), zero.Ratio())
}
