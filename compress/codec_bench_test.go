package compress

import (
	"bytes"
	"testing"
)

// pageSizedPayload approximates a run of serialized BackupIndex records,
// the shape of data CreateCodec is actually asked to compress.
func pageSizedPayload(n int) []byte {
	return bytes.Repeat([]byte("FILE\x00PAGE\x01\x02\x03\x04\x05\x06\x07\x08"), n)
}

func BenchmarkCompress(b *testing.B) {
	payload := pageSizedPayload(1024)

	for _, typ := range []Type{TypeNone, TypeLZ4, TypeS2, TypeZstd} {
		b.Run(typ.String(), func(b *testing.B) {
			c, err := CreateCodec(typ)
			if err != nil {
				b.Fatal(err)
			}

			b.ReportAllocs()
			b.SetBytes(int64(len(payload)))

			for i := 0; i < b.N; i++ {
				if _, err := c.Compress(payload); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDecompress(b *testing.B) {
	payload := pageSizedPayload(1024)

	for _, typ := range []Type{TypeNone, TypeLZ4, TypeS2, TypeZstd} {
		b.Run(typ.String(), func(b *testing.B) {
			c, err := CreateCodec(typ)
			if err != nil {
				b.Fatal(err)
			}

			compressed, err := c.Compress(payload)
			if err != nil {
				b.Fatal(err)
			}

			b.ReportAllocs()
			b.SetBytes(int64(len(payload)))

			for i := 0; i < b.N; i++ {
				if _, err := c.Decompress(compressed); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
