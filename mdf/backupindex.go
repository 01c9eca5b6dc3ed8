package mdf

// divisor buckets page_ids into outer-index slots: runs
// are O(100) pages long in practice, so a linear scan within a ~1024-wide
// bucket stays cheap while keeping both index levels dense vectors.
const divisor = 1024

// indexEntry describes one contiguous run of page_ids [Start, Stop]
// mapping onto payload page offsets [Base, Base+(Stop-Start)].
type indexEntry struct {
	Start uint32
	Stop  uint32
	Base  uint32
}

// BackupIndex is the two-level sparse index built by a single forward
// scan of an MDF payload and queried by PageProvider.Get. The zero
// value is an empty index.
type BackupIndex struct {
	// idx[file_id-1][page_id/divisor] is the (usually short) list of
	// runs whose outer bucket is page_id/divisor.
	idx [][][]indexEntry

	// maxPageID[file_id-1] is the highest page_id observed for that
	// file. Combined with seen, this backs NumPages and FileIDs.
	maxPageID []uint32

	// seen[file_id-1] is true once a run for that file has been
	// flushed. page_id 0 is a legitimate page, so maxPageID alone can't
	// distinguish "never observed" from "observed, highest page_id 0".
	seen []bool
}

// BuildBackupIndex scans data, a whole number of PageSize-sized pages
// (the MDF payload with its 2-byte preamble already stripped), and
// builds the run index.
func BuildBackupIndex(data []byte) (*BackupIndex, error) {
	idx := &BackupIndex{}

	numPages := len(data) / PageSize
	if numPages == 0 {
		return idx, nil
	}

	start, err := parsePagePointer(data[:PageSize])
	if err != nil {
		return nil, err
	}
	old := start
	oldIdx := 0
	startIdx := 0

	flush := func() {
		if start.FileID == 0 {
			return
		}

		idx.ensureBucket(start.FileID, numPages)
		bucket := start.PageID / divisor
		idx.idx[start.FileID-1][bucket] = append(idx.idx[start.FileID-1][bucket], indexEntry{
			Start: start.PageID,
			Stop:  old.PageID,
			Base:  uint32(startIdx),
		})
		idx.recordMax(old.FileID, old.PageID)
	}

	for i := 1; i < numPages; i++ {
		ptr, err := parsePagePointer(data[i*PageSize : (i+1)*PageSize])
		if err != nil {
			return nil, err
		}

		if ptr.FileID == 0 {
			continue
		}

		// A skipped uninitialized slot also breaks the run, so that
		// Base+(PageID-Start) stays the page's real payload offset.
		if ptr.FileID != start.FileID || ptr.PageID != old.PageID+1 || i != oldIdx+1 {
			flush()
			start = ptr
			startIdx = i
		}

		old = ptr
		oldIdx = i
	}

	flush()

	return idx, nil
}

func (b *BackupIndex) ensureBucket(fileID uint16, numPages int) {
	for len(b.idx) < int(fileID) {
		outerLen := numPages/divisor + 1
		b.idx = append(b.idx, make([][]indexEntry, outerLen))
	}
	for len(b.maxPageID) < int(fileID) {
		b.maxPageID = append(b.maxPageID, 0)
		b.seen = append(b.seen, false)
	}
}

func (b *BackupIndex) recordMax(fileID uint16, pageID uint32) {
	if fileID == 0 {
		return
	}
	b.seen[fileID-1] = true
	if pageID > b.maxPageID[fileID-1] {
		b.maxPageID[fileID-1] = pageID
	}
}

// Lookup returns the payload page offset (in units of PageSize) for ptr,
// and false if ptr was never observed. Backward bucket probing follows
// an empty bucket, or a non-empty bucket with no matching
// run, both cause outer_idx to step down by one until exhausted.
func (b *BackupIndex) Lookup(ptr PagePointer) (uint32, bool) {
	if ptr.FileID == 0 || int(ptr.FileID) > len(b.idx) {
		return 0, false
	}

	outer := b.idx[ptr.FileID-1]
	outerIdx := int(ptr.PageID / divisor)
	if outerIdx >= len(outer) {
		outerIdx = len(outer) - 1
	}

	for outerIdx >= 0 {
		for _, e := range outer[outerIdx] {
			if e.Start <= ptr.PageID && ptr.PageID <= e.Stop {
				return e.Base + (ptr.PageID - e.Start), true
			}
		}

		outerIdx--
	}

	return 0, false
}

// NumPages returns max_page_id+1 for fileID, the count of pages the
// scan observed for that file, and false if fileID was never observed.
func (b *BackupIndex) NumPages(fileID uint16) (int, bool) {
	if fileID == 0 || int(fileID) > len(b.seen) || !b.seen[fileID-1] {
		return 0, false
	}

	return int(b.maxPageID[fileID-1]) + 1, true
}

// FileIDs returns every file_id observed while building the index, in
// ascending order, derived from the max_page_ids records rather than
// by scanning bucket contents.
func (b *BackupIndex) FileIDs() []uint16 {
	ids := make([]uint16, 0, len(b.seen))
	for i, seen := range b.seen {
		if seen {
			ids = append(ids, uint16(i+1))
		}
	}

	return ids
}
