package mdf

import (
	"errors"
	"fmt"

	"github.com/rroohhh/mtfgo/errs"
)

// preambleSize is the number of filler bytes at the start of an MQDA
// stream's payload that precede the first page.
const preambleSize = 2

// CorruptIndexError reports that a page's on-disk header did not match
// the pointer the index said it lived at — a corrupted cache or index
// that the process cannot proceed safely past. Get panics with this
// type rather than returning an error; callers that want a softer
// failure mode can recover() at the call site.
type CorruptIndexError struct {
	Want PagePointer
	Got  PagePointer
}

func (e *CorruptIndexError) Error() string {
	return fmt.Sprintf("mdf: index corruption: expected page %s, found %s on disk", e.Want, e.Got)
}

// PageProvider answers random-access page lookups over an MDF payload
// using a BackupIndex, building or loading one on construction.
type PageProvider struct {
	data  []byte
	index *BackupIndex
}

// NewPageProvider strips streamData's 2-byte preamble and builds (or
// loads from cache) a BackupIndex over the remainder. streamData is the
// payload of the stream whose header id is "MQDA"; passing any other
// stream's data produces a meaningless index.
func NewPageProvider(streamData []byte, opts ...Option) (*PageProvider, error) {
	if len(streamData) < preambleSize {
		streamData = nil
	} else {
		streamData = streamData[preambleSize:]
	}

	cache := NewCache(opts...)

	// A stale cache (errs.ErrStaleCache) is rebuilt and overwritten below.
	if idx, ok, err := cache.Load(streamData); err != nil && !errors.Is(err, errs.ErrStaleCache) {
		return nil, err
	} else if ok {
		return &PageProvider{data: streamData, index: idx}, nil
	}

	idx, err := BuildBackupIndex(streamData)
	if err != nil {
		return nil, err
	}

	if err := cache.Store(streamData, idx); err != nil {
		return nil, err
	}

	return &PageProvider{data: streamData, index: idx}, nil
}

// NumPages returns max_page_id+1 for fileID, the count of pages observed
// for that file while building the index, and false if fileID was never
// observed.
func (p *PageProvider) NumPages(fileID uint16) (int, bool) {
	return p.index.NumPages(fileID)
}

// FileIDs returns every file_id observed while building the index, in
// ascending order.
func (p *PageProvider) FileIDs() []uint16 {
	return p.index.FileIDs()
}

// Get looks up ptr and returns the corresponding RawPage. It reports
// (RawPage{}, false) if ptr was never observed while building the index,
// or if the looked-up page offset falls outside the payload. A match
// whose on-disk header disagrees with ptr is index corruption and
// panics with *CorruptIndexError.
func (p *PageProvider) Get(ptr PagePointer) (RawPage, bool) {
	pageIdx, ok := p.index.Lookup(ptr)
	if !ok {
		return RawPage{}, false
	}

	start := int(pageIdx) * PageSize
	end := start + PageSize
	if end > len(p.data) {
		return RawPage{}, false
	}

	page := p.data[start:end]

	header, err := parsePageHeader(page)
	if err != nil {
		panic(&CorruptIndexError{Want: ptr, Got: PagePointer{}})
	}

	if header.Ptr != ptr {
		panic(&CorruptIndexError{Want: ptr, Got: header.Ptr})
	}

	return RawPage{Header: header, Data: page}, true
}
