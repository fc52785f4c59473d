package analyzer

import "github.com/auditoria/textaudit/internal/audit"

// Batch is one contiguous page sub-range sent to the model in a single
// request.
type Batch struct {
	Start int
	End   int
}

// Range returns the batch as a page range.
func (b Batch) Range() audit.PageRange {
	return audit.PageRange{Start: b.Start, End: b.End}
}

// MakeBatches partitions pages start..end (inclusive) into consecutive
// batches of at most size pages. Every page is covered exactly once and
// batches come out in ascending order. The final batch may be short.
func MakeBatches(start, end, size int) []Batch {
	if start > end {
		return nil
	}
	if size < 1 {
		size = 1
	}

	var batches []Batch
	for s := start; s <= end; s += size {
		e := s + size - 1
		if e > end {
			e = end
		}
		batches = append(batches, Batch{Start: s, End: e})
	}
	return batches
}
