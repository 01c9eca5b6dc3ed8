package dblk

import (
	"fmt"
	"unicode/utf16"

	"github.com/rroohhh/mtfgo/cursor"
	"github.com/rroohhh/mtfgo/errs"
	"github.com/rroohhh/mtfgo/format"
)

// TapeAddress is an in-block string pointer, relative to the start of the
// enclosing DBLK. Size == 0 denotes "absent".
type TapeAddress struct {
	Size   uint16
	Offset uint16
	base   int
}

// parseTapeAddress decodes a packed u32 (size:u16, offset:u16) against the
// DBLK's base position.
func parseTapeAddress(raw uint32, base int) TapeAddress {
	return TapeAddress{
		Size:   uint16(raw),
		Offset: uint16(raw >> 16),
		base:   base,
	}
}

// ReadString resolves the address's bytes relative to the cursor's
// underlying data using a scoped save/restore of the cursor position, then
// decodes them per ty. It returns ("", false, nil) when the address is
// absent (Size == 0).
func (a TapeAddress) ReadString(ty format.StringType, c *cursor.Cursor) (string, bool, error) {
	if a.Size == 0 {
		return "", false, nil
	}

	saved := c.Position()
	c.SetPosition(a.base + int(a.Offset))

	raw, err := c.ReadExact(int(a.Size))
	if err != nil {
		c.SetPosition(saved)

		return "", false, err
	}

	// ReadExact borrows from the underlying slice; copy it out before
	// restoring the cursor so the caller doesn't alias a position we're
	// about to move away from.
	data := append([]byte(nil), raw...)
	c.SetPosition(saved)

	s, err := decodeString(ty, data)
	if err != nil {
		return "", false, err
	}

	return s, true, nil
}

func decodeString(ty format.StringType, data []byte) (string, error) {
	switch ty {
	case format.StringTypeNone:
		if len(data) > 0 {
			return "", fmt.Errorf("string type NONE but size %d: %w", len(data), errs.ErrEncoding)
		}

		return "", nil
	case format.StringTypeANSI:
		// 8-bit-clean: each byte is its own code point (Latin-1), not
		// validated as UTF-8 — MTF producers use arbitrary code pages.
		runes := make([]rune, len(data))
		for i, b := range data {
			runes[i] = rune(b)
		}

		return string(runes), nil
	case format.StringTypeUTF16LE:
		if len(data)%2 != 0 {
			return "", fmt.Errorf("odd byte length %d for UTF16LE string: %w", len(data), errs.ErrEncoding)
		}

		units := make([]uint16, len(data)/2)
		for i := range units {
			units[i] = uint16(data[2*i]) | uint16(data[2*i+1])<<8
		}

		return string(utf16.Decode(units)), nil
	default:
		return "", fmt.Errorf("string type %d: %w", ty, errs.ErrBadTag)
	}
}
