package dblk

import (
	"fmt"

	"github.com/rroohhh/mtfgo/cursor"
	"github.com/rroohhh/mtfgo/errs"
	"github.com/rroohhh/mtfgo/format"
)

// HeaderSize is the fixed size of the common DBLK header.
const HeaderSize = 52

// Header is the 52-byte common header shared by every DBLK kind.
type Header struct {
	Kind                Kind
	Attrs               Attrs
	OffsetToFirstEvent  uint16
	OSID                format.OS
	OSVersion           uint8
	DisplaySize         uint64
	FormatLogicalAddr   uint64
	ControlBlockID      uint32
	OSSpecificData      TapeAddress
	StringType          format.StringType
	HeaderChecksum      uint16
}

// parseHeader decodes the 52-byte common header starting at the cursor's
// current position. base is the DBLK's start offset (needed to resolve the
// OSSpecificData TapeAddress and, later, per-body TapeAddresses).
func parseHeader(c *cursor.Cursor) (Header, int, error) {
	base := c.Position()

	raw, err := c.ReadExact(HeaderSize)
	if err != nil {
		return Header{}, base, err
	}

	if !format.VerifyChecksum(raw) {
		return Header{}, base, fmt.Errorf("dblk at offset %d: %w", base, errs.ErrChecksumMismatch)
	}

	hc := cursor.New(raw)

	rawKind, _ := hc.ReadU32()
	kind := Kind(rawKind)

	rawAttrs, _ := hc.ReadU32()
	attrs, err := parseAttrs(rawAttrs, kind)
	if err != nil {
		return Header{}, base, err
	}

	offsetToFirstEvent, _ := hc.ReadU16()
	osID, _ := hc.ReadU8()
	osVersion, _ := hc.ReadU8()
	displaySize, _ := hc.ReadU64()
	formatLogicalAddr, _ := hc.ReadU64()
	_, _ = hc.ReadU16() // reserved_for_mbc
	_, _ = hc.ReadExact(6)
	controlBlockID, _ := hc.ReadU32()
	_, _ = hc.ReadExact(4)

	osSpecificRaw, _ := hc.ReadU32()
	osSpecificData := parseTapeAddress(osSpecificRaw, base)

	rawStringType, _ := hc.ReadU8()
	stringType, err := format.ParseStringType(rawStringType)
	if err != nil {
		return Header{}, base, err
	}

	_, _ = hc.ReadExact(1) // reserved
	headerChecksum, _ := hc.ReadU16()

	return Header{
		Kind:               kind,
		Attrs:              attrs,
		OffsetToFirstEvent: offsetToFirstEvent,
		OSID:               format.ParseOS(osID),
		OSVersion:          osVersion,
		DisplaySize:        displaySize,
		FormatLogicalAddr:  formatLogicalAddr,
		ControlBlockID:     controlBlockID,
		OSSpecificData:     osSpecificData,
		StringType:         stringType,
		HeaderChecksum:     headerChecksum,
	}, base, nil
}
