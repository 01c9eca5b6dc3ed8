// Package mtfgo reads the Microsoft Tape Format (MTF) backup container:
// a forward walk over descriptor blocks (DBLKs) and their attached
// streams, with particular attention to backups that embed a SQL Server
// MDF image inside an "MQDA" stream (see the mdf subpackage).
//
// # Basic usage
//
//	p, err := mtfgo.Open("backup.bkf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	for block, err := range p.All() {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for _, s := range block.Streams {
//	        if s.Header.ID == "MQDA" {
//	            // hand s.Data(mapped), where mapped is the slice
//	            // returned by p.Bytes(), to mdf.NewPageProvider
//	        }
//	    }
//	}
package mtfgo

import (
	"iter"
	"os"

	"github.com/rroohhh/mtfgo/cursor"
	"github.com/rroohhh/mtfgo/dblk"
	"github.com/rroohhh/mtfgo/stream"
)

// DBLKWithStreams pairs one decoded DBLK with the streams attached to it,
// in on-media order.
type DBLKWithStreams struct {
	DBLK    dblk.DBLK
	Streams []stream.Stream
}

// Parser walks a memory-mapped MTF input, producing DBLKs and their
// streams in the order they appear on media. It is forward-only: there is
// no random access into DBLKs.
type Parser struct {
	file *os.File
	m    *mapping
	ctx  dblk.Context
	pos  int
}

// Open opens filename and lazily establishes a read-only memory mapping
// over it on first use.
func Open(filename string) (*Parser, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return &Parser{file: f}, nil
}

// Bytes returns the full mapped input. All DBLK bodies and stream payloads
// borrow from this slice; it stays valid until Close.
func (p *Parser) Bytes() ([]byte, error) {
	if err := p.ensureMapped(); err != nil {
		return nil, err
	}

	return p.m.Bytes(), nil
}

func (p *Parser) ensureMapped() error {
	if p.m != nil {
		return nil
	}

	m, err := mapFile(p.file)
	if err != nil {
		return err
	}

	p.m = m

	return nil
}

// Close tears down the memory mapping and closes the underlying file.
// Any slices borrowed from the mapping must not be used afterward.
func (p *Parser) Close() error {
	var mErr error
	if p.m != nil {
		mErr = p.m.Close()
	}

	fErr := p.file.Close()
	if mErr != nil {
		return mErr
	}

	return fErr
}

// Next parses the next DBLK and its streams. It returns (zero, false, nil)
// once the cursor stops making forward progress — the no-progress guard
// that stands in for explicit end-of-file detection.
func (p *Parser) Next() (DBLKWithStreams, bool, error) {
	if err := p.ensureMapped(); err != nil {
		return DBLKWithStreams{}, false, err
	}

	c := cursor.New(p.m.Bytes())
	c.SetPosition(p.pos)

	block, err := p.parseOne(c)
	if err != nil {
		return DBLKWithStreams{}, false, err
	}

	if c.Position() == p.pos {
		return DBLKWithStreams{}, false, nil
	}

	p.pos = c.Position()

	return block, true, nil
}

func (p *Parser) parseOne(c *cursor.Cursor) (DBLKWithStreams, error) {
	dblkPos := c.Position()

	d, err := dblk.Decode(c, &p.ctx)
	if err != nil {
		return DBLKWithStreams{}, err
	}

	c.SetPosition(dblkPos + int(d.Header.OffsetToFirstEvent))

	streams, err := stream.DecodeAll(c)
	if err != nil {
		return DBLKWithStreams{}, err
	}

	return DBLKWithStreams{DBLK: d, Streams: streams}, nil
}

// Iterate calls fn for each DBLK in order, stopping early if fn returns
// false or an error occurs. It is the non-iterator-syntax counterpart to
// All, for call sites that don't want a range-over-func loop.
func (p *Parser) Iterate(fn func(DBLKWithStreams) (bool, error)) error {
	for {
		block, ok, err := p.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		cont, err := fn(block)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}

// All returns an iterator over every DBLK in the input, in media order,
// paired with any error encountered while decoding it. Iteration stops
// after the first error. This favors iterator-style consumption over eagerly
// collecting into a slice.
func (p *Parser) All() iter.Seq2[DBLKWithStreams, error] {
	return func(yield func(DBLKWithStreams, error) bool) {
		for {
			block, ok, err := p.Next()
			if err != nil {
				yield(DBLKWithStreams{}, err)

				return
			}
			if !ok {
				return
			}

			if !yield(block, nil) {
				return
			}
		}
	}
}
