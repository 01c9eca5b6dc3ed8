// Package dblk decodes MTF descriptor blocks (DBLKs): the 52-byte common
// header and each kind's type-specific body, including the out-of-band
// string table addressed by in-block TapeAddress pointers.
package dblk

import (
	"github.com/rroohhh/mtfgo/cursor"
)

// DBLK is one descriptor block: its common header plus decoded body.
type DBLK struct {
	Header Header
	Body   Body
}

// Context carries the most recently seen DBLK of each kind that later
// blocks may depend on (currently only SFMB depends on TAPE, for its
// soft_filemark_block_size). The iterator owns one Context and threads it
// into every Decode call, per the "small record of optional
// references" design note.
type Context struct {
	Tape *DBLK
	SSet *DBLK
	Volb *DBLK
	Dirb *DBLK
	File *DBLK
	SFMB *DBLK
}

// update records dblk as the latest block of its kind, if that kind is
// tracked by the context. dblk is taken by value on purpose: each call
// gets its own copy, so &dblk below points at a block private to this
// call rather than aliasing the caller's variable.
func (ctx *Context) update(dblk DBLK) {
	switch dblk.Header.Kind {
	case KindTAPE:
		ctx.Tape = &dblk
	case KindSSET:
		ctx.SSet = &dblk
	case KindVOLB:
		ctx.Volb = &dblk
	case KindDIRB:
		ctx.Dirb = &dblk
	case KindFILE:
		ctx.File = &dblk
	case KindSFMB:
		ctx.SFMB = &dblk
	}
}

// Decode parses one DBLK starting at the cursor's current position. On
// return the cursor has consumed the header and body but not the trailing
// stream list — the caller repositions to
// base + Header.OffsetToFirstEvent before decoding streams.
func Decode(c *cursor.Cursor, ctx *Context) (DBLK, error) {
	header, base, err := parseHeader(c)
	if err != nil {
		return DBLK{}, err
	}

	body, err := decodeBody(c, base, header, ctx)
	if err != nil {
		return DBLK{}, err
	}

	dblk := DBLK{Header: header, Body: body}
	ctx.update(dblk)

	return dblk, nil
}

func decodeBody(c *cursor.Cursor, base int, header Header, ctx *Context) (Body, error) {
	switch header.Kind {
	case KindTAPE:
		tape, err := parseTapeBody(c, base, header)
		if err != nil {
			return Body{}, err
		}

		return Body{Tape: tape}, nil

	case KindSSET:
		sset, err := parseSSetBody(c, base, header)
		if err != nil {
			return Body{}, err
		}

		return Body{SSet: sset}, nil

	case KindVOLB:
		volb, err := parseVolbBody(c, base, header)
		if err != nil {
			return Body{}, err
		}

		return Body{Volb: volb}, nil

	case KindSFMB:
		var tapeBlockSize *SoftFileMarkBlockSize
		if ctx.Tape != nil && ctx.Tape.Body.Tape != nil {
			tapeBlockSize = &ctx.Tape.Body.Tape.SoftFilemarkBlockSize
		}

		sfmb, err := parseSFMBBody(c, tapeBlockSize)
		if err != nil {
			return Body{}, err
		}

		return Body{SFMB: sfmb}, nil

	case KindDIRB, KindFILE, KindCFIL, KindESPB, KindESET, KindEOTM:
		// Recognized but not decoded by this core: framed
		// only, body length implied by OffsetToFirstEvent.
		return Body{}, nil

	default:
		return Body{Unknown: &UnknownBody{Tag: header.Kind.String()}}, nil
	}
}
