package mdf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildPayload concatenates pages built from (fileID, pageID) pairs;
// pageID 0 in a pair with fileID 0 is used to model an uninitialized page.
func buildPayload(pairs ...[2]int) []byte {
	payload := make([]byte, 0, len(pairs)*PageSize)
	for _, p := range pairs {
		payload = append(payload, makePage(uint16(p[0]), uint32(p[1]))...)
	}

	return payload
}

// TestBuildBackupIndex_MinimalRun is scenario S6: a two-page run builds one
// IndexEntry and both observed pages resolve to their scan offsets.
func TestBuildBackupIndex_MinimalRun(t *testing.T) {
	payload := buildPayload([2]int{1, 7}, [2]int{1, 8})

	idx, err := BuildBackupIndex(payload)
	require.NoError(t, err)

	off, ok := idx.Lookup(PagePointer{FileID: 1, PageID: 7})
	require.True(t, ok)
	require.Equal(t, uint32(0), off)

	off, ok = idx.Lookup(PagePointer{FileID: 1, PageID: 8})
	require.True(t, ok)
	require.Equal(t, uint32(1), off)

	_, ok = idx.Lookup(PagePointer{FileID: 1, PageID: 9})
	require.False(t, ok)

	_, ok = idx.Lookup(PagePointer{FileID: 1, PageID: 6})
	require.False(t, ok)
}

// TestBuildBackupIndex_RunBreak is scenario S7.
func TestBuildBackupIndex_RunBreak(t *testing.T) {
	payload := buildPayload([2]int{1, 7}, [2]int{1, 8}, [2]int{1, 12}, [2]int{1, 13})

	idx, err := BuildBackupIndex(payload)
	require.NoError(t, err)

	off, ok := idx.Lookup(PagePointer{FileID: 1, PageID: 12})
	require.True(t, ok)
	require.Equal(t, uint32(2), off)

	_, ok = idx.Lookup(PagePointer{FileID: 1, PageID: 10})
	require.False(t, ok)
}

// TestBuildBackupIndex_BucketedLookup is scenario S8: a run starting at
// page_id 5 must be found by probing backward from an empty bucket 1 to
// bucket 0 under DIVISOR=1024.
func TestBuildBackupIndex_BucketedLookup(t *testing.T) {
	pairs := make([][2]int, 0, 1026)
	for pageID := 5; pageID <= 1030; pageID++ {
		pairs = append(pairs, [2]int{1, pageID})
	}
	payload := buildPayload(pairs...)

	idx, err := BuildBackupIndex(payload)
	require.NoError(t, err)

	off, ok := idx.Lookup(PagePointer{FileID: 1, PageID: 10})
	require.True(t, ok)
	require.Equal(t, uint32(5), off)

	off, ok = idx.Lookup(PagePointer{FileID: 1, PageID: 1030})
	require.True(t, ok)
	require.Equal(t, uint32(1030-5), off)
}

func TestBuildBackupIndex_SkipsUninitializedPages(t *testing.T) {
	payload := buildPayload([2]int{1, 7}, [2]int{0, 0}, [2]int{1, 8})

	idx, err := BuildBackupIndex(payload)
	require.NoError(t, err)

	off, ok := idx.Lookup(PagePointer{FileID: 1, PageID: 8})
	require.True(t, ok)
	require.Equal(t, uint32(2), off)
}

func TestBuildBackupIndex_MultipleFiles(t *testing.T) {
	payload := buildPayload([2]int{1, 0}, [2]int{1, 1}, [2]int{2, 0}, [2]int{2, 1})

	idx, err := BuildBackupIndex(payload)
	require.NoError(t, err)

	off, ok := idx.Lookup(PagePointer{FileID: 2, PageID: 1})
	require.True(t, ok)
	require.Equal(t, uint32(3), off)
}

func TestBackupIndex_NumPages(t *testing.T) {
	payload := buildPayload([2]int{1, 7}, [2]int{1, 8}, [2]int{1, 12}, [2]int{1, 13}, [2]int{2, 0})

	idx, err := BuildBackupIndex(payload)
	require.NoError(t, err)

	n, ok := idx.NumPages(1)
	require.True(t, ok)
	require.Equal(t, 14, n) // max page_id observed for file 1 is 13

	n, ok = idx.NumPages(2)
	require.True(t, ok)
	require.Equal(t, 1, n) // max page_id observed for file 2 is 0

	_, ok = idx.NumPages(3)
	require.False(t, ok)

	_, ok = idx.NumPages(0)
	require.False(t, ok)
}

// TestBackupIndex_FileIDs_SkipsUnobservedGap ensures a file_id that only
// exists as a placeholder bucket slot (because a higher file_id forced
// ensureBucket to grow past it) is not reported as observed.
func TestBackupIndex_FileIDs_SkipsUnobservedGap(t *testing.T) {
	payload := buildPayload([2]int{1, 0}, [2]int{3, 0})

	idx, err := BuildBackupIndex(payload)
	require.NoError(t, err)

	require.ElementsMatch(t, []uint16{1, 3}, idx.FileIDs())

	_, ok := idx.NumPages(2)
	require.False(t, ok)
}

func TestBuildBackupIndex_Empty(t *testing.T) {
	idx, err := BuildBackupIndex(nil)
	require.NoError(t, err)

	_, ok := idx.Lookup(PagePointer{FileID: 1, PageID: 0})
	require.False(t, ok)
}

// TestBuildBackupIndex_Idempotent is property 5: building the index twice
// over the same payload yields the same lookup results for every observed key.
func TestBuildBackupIndex_Idempotent(t *testing.T) {
	payload := buildPayload([2]int{1, 7}, [2]int{1, 8}, [2]int{1, 12}, [2]int{1, 13}, [2]int{2, 0})

	idx1, err := BuildBackupIndex(payload)
	require.NoError(t, err)
	idx2, err := BuildBackupIndex(payload)
	require.NoError(t, err)

	keys := []PagePointer{
		{FileID: 1, PageID: 7}, {FileID: 1, PageID: 8},
		{FileID: 1, PageID: 12}, {FileID: 1, PageID: 13},
		{FileID: 2, PageID: 0},
	}

	for _, k := range keys {
		off1, ok1 := idx1.Lookup(k)
		off2, ok2 := idx2.Lookup(k)
		require.Equal(t, ok1, ok2)
		require.Equal(t, off1, off2)
	}
}
