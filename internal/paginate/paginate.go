// Package paginate slices an already ordered result set into fixed
// size pages. It is pure: no clock, no storage, no dependency on the
// rest of the module.
package paginate

import "strconv"

// DefaultPageSize is the page size every listing view uses.
const DefaultPageSize = 10

type Page[T any] struct {
	Items      []T
	Number     int
	Size       int
	TotalItems int
	TotalPages int
	HasPrev    bool
	HasNext    bool
}

// Prev and Next are the neighbouring page numbers, for pager links.
// Only meaningful when HasPrev / HasNext say so.
func (p Page[T]) Prev() int { return p.Number - 1 }
func (p Page[T]) Next() int { return p.Number + 1 }

// Paginate returns the requested page. Page numbers are 1-based;
// anything below 1 clamps to the first page and anything past the end
// clamps to the last, so a caller never gets an error or an empty
// page while items exist. Zero items yield exactly one empty page.
func Paginate[T any](items []T, size, number int) Page[T] {
	if size < 1 {
		size = DefaultPageSize
	}

	totalItems := len(items)
	totalPages := (totalItems + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}

	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	start := (number - 1) * size
	end := min(start+size, totalItems)
	if start > totalItems {
		start = totalItems
	}

	return Page[T]{
		Items:      items[start:end],
		Number:     number,
		Size:       size,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasPrev:    number > 1,
		HasNext:    number < totalPages,
	}
}

// ParsePageParam maps the raw "page" query value to a page number.
// Absent or non-numeric values fall back to the first page; range
// clamping is left to Paginate.
func ParsePageParam(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}

	return n
}
