// Package cursor provides a positioned, allocation-free reader over a
// byte slice.
//
// Cursor never copies the underlying slice; ReadExact returns a sub-slice
// that borrows from it. Positions can be saved and restored cheaply since
// a Cursor carries only a slice header and an int.
package cursor

import (
	"fmt"

	"github.com/rroohhh/mtfgo/endian"
	"github.com/rroohhh/mtfgo/errs"
)

// Cursor is a positioned view over a byte slice. All multi-byte fields in
// MTF are little-endian. The byte order is held as an endian.EndianEngine;
// New always uses the little-endian engine.
type Cursor struct {
	data   []byte
	pos    int
	engine endian.EndianEngine
}

// New creates a Cursor positioned at the start of data, reading
// multi-byte fields as little-endian.
func New(data []byte) *Cursor {
	return &Cursor{data: data, engine: endian.GetLittleEndianEngine()}
}

// Len returns the length of the underlying slice.
func (c *Cursor) Len() int { return len(c.data) }

// Position returns the current read offset.
func (c *Cursor) Position() int { return c.pos }

// SetPosition moves the cursor. Positions past the end of the data are
// permitted; subsequent reads will fail with ErrUnexpectedEnd.
func (c *Cursor) SetPosition(pos int) { c.pos = pos }

// Remaining returns the number of bytes left to read, or 0 if the cursor
// is already past the end.
func (c *Cursor) Remaining() int {
	if c.pos >= len(c.data) {
		return 0
	}

	return len(c.data) - c.pos
}

// ReadExact returns the next n bytes, advancing the cursor. The returned
// slice borrows from the underlying data.
func (c *Cursor) ReadExact(n int) ([]byte, error) {
	if n < 0 || c.pos < 0 || c.pos+n > len(c.data) {
		return nil, fmt.Errorf("read %d bytes at offset %d: %w", n, c.pos, errs.ErrUnexpectedEnd)
	}

	b := c.data[c.pos : c.pos+n]
	c.pos += n

	return b, nil
}

// ReadU8 reads a single byte.
func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.ReadExact(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// ReadI8 reads a signed byte.
func (c *Cursor) ReadI8() (int8, error) {
	b, err := c.ReadU8()
	return int8(b), err
}

// ReadU16 reads a little-endian uint16.
func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.ReadExact(2)
	if err != nil {
		return 0, err
	}

	return c.engine.Uint16(b), nil
}

// ReadU32 reads a little-endian uint32.
func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.ReadExact(4)
	if err != nil {
		return 0, err
	}

	return c.engine.Uint32(b), nil
}

// ReadU64 reads a little-endian uint64.
func (c *Cursor) ReadU64() (uint64, error) {
	b, err := c.ReadExact(8)
	if err != nil {
		return 0, err
	}

	return c.engine.Uint64(b), nil
}

// Bytes returns the full underlying slice the cursor was built from.
func (c *Cursor) Bytes() []byte { return c.data }
