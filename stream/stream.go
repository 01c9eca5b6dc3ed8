// Package stream decodes the variable-length data streams attached to a
// DBLK: a 22-byte checksummed header followed by a 4-byte-padded payload.
package stream

import (
	"fmt"
	"io"

	"github.com/rroohhh/mtfgo/cursor"
	"github.com/rroohhh/mtfgo/errs"
	"github.com/rroohhh/mtfgo/format"
)

// HeaderSize is the fixed size of a stream header.
const HeaderSize = 22

// SPAD is the stream-padding sentinel that terminates a DBLK's stream list.
const SPAD = "SPAD"

// dblkKindTags are the four-character tags that, when seen where a stream
// id is expected, mean "this DBLK has no streams".
var dblkKindTags = map[string]struct{}{
	"TAPE": {}, "SSET": {}, "VOLB": {}, "DIRB": {}, "FILE": {},
	"CFIL": {}, "ESPB": {}, "ESET": {}, "EOTM": {}, "SFMB": {},
}

// Header is the 22-byte stream header.
type Header struct {
	ID                   string
	FileSystemAttrs      uint16
	MediaFormatAttrs     uint16
	Length               uint64
	EncryptionAlgorithm  uint16
	CompressionAlgorithm uint16
}

// Stream is one decoded stream: its header plus the [base, base+Length)
// offsets of its payload within the enclosing mapped input.
type Stream struct {
	Header Header
	base   int
}

// Data returns the stream's payload as a slice borrowed from data, the
// full mapped input the stream was parsed from. The slice is clamped to
// data's bounds.
func (s Stream) Data(data []byte) []byte {
	start := s.base
	end := s.base + int(s.Header.Length)
	if end > len(data) {
		end = len(data)
	}
	if start > len(data) {
		start = len(data)
	}

	return data[start:end]
}

// ReadOwned copies the stream's payload out of r, independent of any
// mmap's lifetime (ported from the original source's Stream::read, which
// the Rust implementation exposes for callers that need an owned copy).
func (s Stream) ReadOwned(r io.ReaderAt) ([]byte, error) {
	buf := make([]byte, s.Header.Length)
	if _, err := r.ReadAt(buf, int64(s.base)); err != nil {
		return nil, err
	}

	return buf, nil
}

// decode parses one stream header at the cursor's current position. It
// returns (stream, true, nil) on a real stream, (zero, false, nil) when
// the "header" read was actually the next DBLK's kind tag (the cursor is
// rewound in that case), and a non-nil error on a short read or checksum
// failure.
func decode(c *cursor.Cursor) (Stream, bool, error) {
	orig := c.Position()

	raw, err := c.ReadExact(HeaderSize)
	if err != nil {
		return Stream{}, false, err
	}

	base := c.Position()

	hc := cursor.New(raw)

	rawID, _ := hc.ReadU32()
	id := string([]byte{byte(rawID), byte(rawID >> 8), byte(rawID >> 16), byte(rawID >> 24)})

	if _, isDBLKTag := dblkKindTags[id]; isDBLKTag {
		c.SetPosition(orig)

		return Stream{}, false, nil
	}

	if !format.VerifyChecksum(raw) {
		return Stream{}, false, fmt.Errorf("stream header at offset %d: %w", orig, errs.ErrChecksumMismatch)
	}

	fsAttrs, _ := hc.ReadU16()
	mfAttrs, _ := hc.ReadU16()
	length, _ := hc.ReadU64()
	encAlg, _ := hc.ReadU16()
	comprAlg, _ := hc.ReadU16()

	return Stream{
		Header: Header{
			ID:                   id,
			FileSystemAttrs:      fsAttrs,
			MediaFormatAttrs:     mfAttrs,
			Length:               length,
			EncryptionAlgorithm:  encAlg,
			CompressionAlgorithm: comprAlg,
		},
		base: base,
	}, true, nil
}

// padding returns the number of zero bytes following a stream payload of
// the given length, to round up to the next 4-byte boundary.
func padding(length uint64) uint64 {
	rem := length % 4
	if rem == 0 {
		return 0
	}

	return 4 - rem
}

// DecodeAll decodes every stream attached to one DBLK, starting at the
// cursor's current position (which the caller has set to
// base + OffsetToFirstEvent). It stops on the DBLK-tag sentinel, on SPAD,
// or when a step makes no forward progress.
func DecodeAll(c *cursor.Cursor) ([]Stream, error) {
	var streams []Stream

	for {
		preHeaderPos := c.Position()

		s, ok, err := decode(c)
		if err != nil {
			return nil, err
		}
		if !ok {
			return streams, nil
		}

		next := c.Position() + int(s.Header.Length)
		next += int(padding(s.Header.Length))

		if next <= preHeaderPos {
			// No progress possible from here.
			return streams, nil
		}

		c.SetPosition(next)
		if c.Position() != next {
			// SetPosition accepts offsets past the end, so this does not
			// trigger; a payload that runs past the end of the mapped
			// input surfaces as ErrUnexpectedEnd from the next header read.
			return streams, nil
		}

		streams = append(streams, s)

		if s.Header.ID == SPAD {
			return streams, nil
		}
	}
}
