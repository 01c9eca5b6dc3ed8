// Package mdf indexes a SQL Server MDF image embedded in an MTF MQDA
// stream: a forward scan builds a sparse two-level index from
// (file_id, page_id) to payload offset, optionally persisted to a local
// cache keyed by the payload's content.
package mdf

import (
	"fmt"

	"github.com/rroohhh/mtfgo/cursor"
	"github.com/rroohhh/mtfgo/errs"
)

// PageSize is the fixed size of an MDF database page.
const PageSize = 8192

// headerSize is the portion of a page that PageHeader exposes.
const headerSize = 96

// pageIDOffset and fileIDOffset locate the page's self-identifying
// PageID within the 96-byte header: a 4-byte little-endian page number
// followed by a 2-byte little-endian file number, the layout SQL Server
// calls m_pageId.
const (
	pageIDOffset = 32
	fileIDOffset = 36
)

// PagePointer addresses one database page. FileID 0 denotes an
// uninitialized page and is never indexed.
type PagePointer struct {
	FileID uint16
	PageID uint32
}

func (p PagePointer) String() string {
	return fmt.Sprintf("(file_id=%d, page_id=%d)", p.FileID, p.PageID)
}

// PageHeader is the fixed-offset prefix of a RawPage that identifies it.
type PageHeader struct {
	Ptr PagePointer
}

// parsePagePointer reads only the two fields of a page header needed for
// indexing, without materializing the rest of the 96-byte header.
func parsePagePointer(page []byte) (PagePointer, error) {
	if len(page) < headerSize {
		return PagePointer{}, fmt.Errorf("page header: %w", errs.ErrUnexpectedEnd)
	}

	c := cursor.New(page)
	c.SetPosition(pageIDOffset)

	pageID, err := c.ReadU32()
	if err != nil {
		return PagePointer{}, err
	}

	c.SetPosition(fileIDOffset)

	fileID, err := c.ReadU16()
	if err != nil {
		return PagePointer{}, err
	}

	return PagePointer{FileID: fileID, PageID: pageID}, nil
}

// parsePageHeader parses the full PageHeader prefix of a page.
func parsePageHeader(page []byte) (PageHeader, error) {
	ptr, err := parsePagePointer(page)
	if err != nil {
		return PageHeader{}, err
	}

	return PageHeader{Ptr: ptr}, nil
}

// RawPage is one undecoded 8192-byte database page together with its
// parsed header. Record-level decoding of the page body is out of scope.
type RawPage struct {
	Header PageHeader
	Data   []byte
}
