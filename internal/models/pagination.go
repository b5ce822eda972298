package models

import "math"

// Pageable selects one slice of an ordered result set. Page is zero-based.
// It is built once by the HTTP layer and passed down unchanged.
type Pageable struct {
	Page           int
	Size           int
	SortField      string
	SortDescending bool
}

// Offset returns the number of rows preceding the requested page. Callers
// keep Page*Size within int; see FitsOffset.
func (p Pageable) Offset() int {
	return p.Page * p.Size
}

// TotalPages returns how many pages of p.Size hold total rows.
func (p Pageable) TotalPages(total int64) int {
	if p.Size <= 0 {
		return 0
	}
	size := int64(p.Size)
	return int((total + size - 1) / size)
}

// FitsOffset reports whether Offset can be computed without overflowing int.
func (p Pageable) FitsOffset() bool {
	if p.Page < 0 || p.Size <= 0 {
		return p.Page >= 0
	}
	return p.Page <= math.MaxInt/p.Size
}
