package dblk

import (
	"fmt"

	"github.com/rroohhh/mtfgo/errs"
)

// Kind is the 4-byte ASCII tag identifying a DBLK's type.
type Kind uint32

const (
	KindTAPE Kind = 0x45504154
	KindSSET Kind = 0x54455353
	KindVOLB Kind = 0x424C4F56
	KindDIRB Kind = 0x42524944
	KindFILE Kind = 0x454C4946
	KindCFIL Kind = 0x4C494643
	KindESPB Kind = 0x42505345
	KindESET Kind = 0x54455345
	KindEOTM Kind = 0x4D544F45
	KindSFMB Kind = 0x424D4653
)

// knownKinds lists every recognized tag. An unrecognized tag yields an
// UNKNOWN body rather than an error.
var knownKinds = map[Kind]string{
	KindTAPE: "TAPE", KindSSET: "SSET", KindVOLB: "VOLB", KindDIRB: "DIRB",
	KindFILE: "FILE", KindCFIL: "CFIL", KindESPB: "ESPB", KindESET: "ESET",
	KindEOTM: "EOTM", KindSFMB: "SFMB",
}

// String renders the kind as its four ASCII characters, little-endian
// stored (byte 0 is the low byte of the tag value).
func (k Kind) String() string {
	if name, ok := knownKinds[k]; ok {
		return name
	}

	b := [4]byte{byte(k), byte(k >> 8), byte(k >> 16), byte(k >> 24)}

	return string(b[:])
}

// IsKnown reports whether the tag is one of the ten recognized kinds.
func (k Kind) IsKnown() bool {
	_, ok := knownKinds[k]

	return ok
}

// commonAttrsMask covers the three bits shared by every DBLK kind:
// CONTINUATION, COMPRESSION, EOS_AT_EOM. Bit 1 is unused in the common
// mask and reserved per kind.
const commonAttrsMask uint32 = AttrContinuation | AttrCompression | AttrEOSAtEOM

const (
	AttrContinuation uint32 = 1 << 0
	AttrCompression  uint32 = 1 << 2
	AttrEOSAtEOM     uint32 = 1 << 3
)

// Kind-specific high bits (bit 16+) and the open question about
// DIRB/FILE/CFIL/ESPB sharing the "any common" mask.
const (
	AttrTapeSetMapExists uint32 = 1 << 16
	AttrTapeFDDAllowed   uint32 = 1 << 17

	AttrSSetFDDExists uint32 = 1 << 16
	AttrSSetEncrypted uint32 = 1 << 17

	AttrESetFDDAborted   uint32 = 1 << 16
	AttrESetEndOfFamily  uint32 = 1 << 17
	AttrESetAbortedSet   uint32 = 1 << 18
	AttrEOTMNoESetPBA    uint32 = 1 << 16
	AttrEOTMInvalidESPBA uint32 = 1 << 17
)

// validMaskForKind returns the full set of bits defined for a given DBLK
// kind. Kinds with no kind-specific bits (including the DIRB/FILE/CFIL/ESPB
// family) use the common mask only.
func validMaskForKind(k Kind) uint32 {
	switch k {
	case KindTAPE:
		return commonAttrsMask | AttrTapeSetMapExists | AttrTapeFDDAllowed
	case KindSSET:
		return commonAttrsMask | AttrSSetFDDExists | AttrSSetEncrypted
	case KindESET:
		return commonAttrsMask | AttrESetFDDAborted | AttrESetEndOfFamily | AttrESetAbortedSet
	case KindEOTM:
		return commonAttrsMask | AttrEOTMNoESetPBA | AttrEOTMInvalidESPBA
	default:
		return commonAttrsMask
	}
}

// Attrs is a validated DBLK attribute bitfield. The raw value is kept
// verbatim; parseAttrs rejects any set bit that is not defined for the
// DBLK kind, so an Attrs value only carries defined bits.
type Attrs struct {
	Raw  uint32
	kind Kind
}

// parseAttrs validates raw against the bits defined for kind.
func parseAttrs(raw uint32, kind Kind) (Attrs, error) {
	mask := validMaskForKind(kind)
	if raw&^mask != 0 {
		return Attrs{}, fmt.Errorf("attrs %#x has undefined bits %#x for kind %s: %w", raw, raw&^mask, kind, errs.ErrBadFlags)
	}

	return Attrs{Raw: raw, kind: kind}, nil
}

func (a Attrs) Has(bit uint32) bool { return a.Raw&bit != 0 }

func (a Attrs) Continuation() bool { return a.Has(AttrContinuation) }
func (a Attrs) Compression() bool  { return a.Has(AttrCompression) }
func (a Attrs) EOSAtEOM() bool     { return a.Has(AttrEOSAtEOM) }
