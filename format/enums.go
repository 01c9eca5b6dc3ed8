package format

import (
	"fmt"

	"github.com/rroohhh/mtfgo/errs"
)

// OS identifies the operating system that wrote a DBLK.
type OS uint8

const (
	OSNetWare    OS = 1
	OSNetWareSMS OS = 13
	OSWindowsNT  OS = 14
	OSDOSWin3x   OS = 24
	OSOS2        OS = 25
	OSWin95      OS = 26
	OSMacintosh  OS = 27
	OSUnix       OS = 28
)

// ParseOS maps a raw os_id byte onto the OS taxonomy. Values in 33..=127
// are "to be assigned"; everything else unrecognized is vendor-specific.
// Neither case is an error — the raw id itself is always preserved.
func ParseOS(id uint8) OS {
	return OS(id)
}

// IsToBeAssigned reports whether the raw id falls in the reserved
// "ToBeAssigned" range (33..=127) and is not one of the named constants.
func (o OS) IsToBeAssigned() bool {
	v := uint8(o)

	return v >= 33 && v <= 127 && !o.isNamed()
}

// IsVendorSpecific reports whether the raw id is outside every named and
// reserved range.
func (o OS) IsVendorSpecific() bool {
	return !o.isNamed() && !o.IsToBeAssigned()
}

func (o OS) isNamed() bool {
	switch o {
	case OSNetWare, OSNetWareSMS, OSWindowsNT, OSDOSWin3x, OSOS2, OSWin95, OSMacintosh, OSUnix:
		return true
	default:
		return false
	}
}

func (o OS) String() string {
	switch {
	case o.isNamed():
		names := map[OS]string{
			OSNetWare: "NetWare", OSNetWareSMS: "NetWare-SMS", OSWindowsNT: "WindowsNT",
			OSDOSWin3x: "DOS/Win3.x", OSOS2: "OS/2", OSWin95: "Win95",
			OSMacintosh: "Macintosh", OSUnix: "Unix",
		}

		return names[o]
	case o.IsToBeAssigned():
		return fmt.Sprintf("ToBeAssigned(%d)", uint8(o))
	default:
		return fmt.Sprintf("VendorSpecific(%d)", uint8(o))
	}
}

// StringType is the in-block string encoding carried in the common DBLK
// header and applied to every TapeAddress resolved inside that block.
type StringType uint8

const (
	StringTypeNone    StringType = 0
	StringTypeANSI    StringType = 1
	StringTypeUTF16LE StringType = 2
)

// ParseStringType validates a raw string_type byte.
func ParseStringType(v uint8) (StringType, error) {
	switch StringType(v) {
	case StringTypeNone, StringTypeANSI, StringTypeUTF16LE:
		return StringType(v), nil
	default:
		return 0, fmt.Errorf("string type %d: %w", v, errs.ErrBadTag)
	}
}

func (s StringType) String() string {
	switch s {
	case StringTypeNone:
		return "NONE"
	case StringTypeANSI:
		return "ANSI"
	case StringTypeUTF16LE:
		return "UTF16LE"
	default:
		return fmt.Sprintf("StringType(%d)", uint8(s))
	}
}

// MediaBasedCatalogType is the TAPE DBLK's catalog-type field.
type MediaBasedCatalogType uint16

const (
	MediaCatalogNone     MediaBasedCatalogType = 0
	MediaCatalogType1    MediaBasedCatalogType = 1
	MediaCatalogType2    MediaBasedCatalogType = 2
	MediaCatalogUnknown3 MediaBasedCatalogType = 3
)

// ParseMediaBasedCatalogType validates a raw media_based_catalog_type word.
func ParseMediaBasedCatalogType(v uint16) (MediaBasedCatalogType, error) {
	if v > uint16(MediaCatalogUnknown3) {
		return 0, fmt.Errorf("media based catalog type %d: %w", v, errs.ErrBadTag)
	}

	return MediaBasedCatalogType(v), nil
}
