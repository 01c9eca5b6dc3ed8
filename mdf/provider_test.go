package mdf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func withPreamble(payload []byte) []byte {
	return append([]byte{0xAA, 0xBB}, payload...)
}

func TestNewPageProvider_StripsPreambleAndBuildsIndex(t *testing.T) {
	payload := buildPayload([2]int{1, 7}, [2]int{1, 8})
	streamData := withPreamble(payload)

	p, err := NewPageProvider(streamData, WithCacheDir(t.TempDir()))
	require.NoError(t, err)

	n, ok := p.NumPages(1)
	require.True(t, ok)
	require.Equal(t, 9, n) // max page_id observed for file 1 is 8

	_, ok = p.NumPages(2)
	require.False(t, ok)

	page, ok := p.Get(PagePointer{FileID: 1, PageID: 7})
	require.True(t, ok)
	require.Equal(t, PagePointer{FileID: 1, PageID: 7}, page.Header.Ptr)
}

// TestNewPageProvider_RoundTrip is property 4: every observed (file_id,
// page_id) resolves through Get to a page whose own header matches it.
func TestNewPageProvider_RoundTrip(t *testing.T) {
	pairs := [][2]int{{1, 7}, {1, 8}, {1, 12}, {1, 13}, {2, 0}, {2, 1}}
	streamData := withPreamble(buildPayload(pairs...))

	p, err := NewPageProvider(streamData, WithCacheDir(t.TempDir()))
	require.NoError(t, err)

	for _, pair := range pairs {
		want := PagePointer{FileID: uint16(pair[0]), PageID: uint32(pair[1])}
		page, ok := p.Get(want)
		require.True(t, ok)
		require.Equal(t, want, page.Header.Ptr)
	}
}

func TestNewPageProvider_UnobservedPointer(t *testing.T) {
	streamData := withPreamble(buildPayload([2]int{1, 7}))

	p, err := NewPageProvider(streamData, WithCacheDir(t.TempDir()))
	require.NoError(t, err)

	_, ok := p.Get(PagePointer{FileID: 1, PageID: 99})
	require.False(t, ok)
}

func TestNewPageProvider_GetBeyondPayloadIsNotCorruption(t *testing.T) {
	streamData := withPreamble(buildPayload([2]int{1, 7}, [2]int{1, 8}))

	p, err := NewPageProvider(streamData, WithCacheDir(t.TempDir()))
	require.NoError(t, err)

	// Truncate the mapped payload out from under the index, so a
	// previously-observed pointer now resolves past the end of p.data.
	p.data = p.data[:PageSize]

	_, ok := p.Get(PagePointer{FileID: 1, PageID: 8})
	require.False(t, ok)
}

func TestNewPageProvider_UsesCacheOnSecondOpen(t *testing.T) {
	payload := buildPayload([2]int{1, 7}, [2]int{1, 8})
	streamData := withPreamble(payload)
	dir := t.TempDir()

	p1, err := NewPageProvider(streamData, WithCacheDir(dir))
	require.NoError(t, err)

	p2, err := NewPageProvider(streamData, WithCacheDir(dir))
	require.NoError(t, err)

	page1, ok1 := p1.Get(PagePointer{FileID: 1, PageID: 8})
	page2, ok2 := p2.Get(PagePointer{FileID: 1, PageID: 8})
	require.True(t, ok1)
	require.True(t, ok2)
	require.Equal(t, page1.Header.Ptr, page2.Header.Ptr)
}

func TestPageProvider_Get_CorruptIndexPanics(t *testing.T) {
	payload := buildPayload([2]int{1, 7}, [2]int{1, 8})
	streamData := withPreamble(payload)

	p, err := NewPageProvider(streamData, WithCacheDir(t.TempDir()))
	require.NoError(t, err)

	// Overwrite the on-disk page so its header no longer matches ptr.
	copy(p.data[:PageSize], makePage(9, 9))

	require.Panics(t, func() {
		p.Get(PagePointer{FileID: 1, PageID: 7})
	})
}

func TestPageProvider_FileIDs(t *testing.T) {
	streamData := withPreamble(buildPayload([2]int{1, 0}, [2]int{2, 0}))

	p, err := NewPageProvider(streamData, WithCacheDir(t.TempDir()))
	require.NoError(t, err)

	require.ElementsMatch(t, []uint16{1, 2}, p.FileIDs())
}
