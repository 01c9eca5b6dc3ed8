//go:build !unix

package mtfgo

import "os"

// mapping on non-unix platforms falls back to reading the whole file into
// memory, since golang.org/x/sys/unix's Mmap has no portable equivalent
// here. The borrowing contract (all returned slices stay valid until
// Close) still holds.
type mapping struct {
	data []byte
}

func mapFile(f *os.File) (*mapping, error) {
	data, err := os.ReadFile(f.Name())
	if err != nil {
		return nil, err
	}

	return &mapping{data: data}, nil
}

func (m *mapping) Bytes() []byte { return m.data }

func (m *mapping) Close() error { return nil }
