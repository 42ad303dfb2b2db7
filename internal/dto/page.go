package dto

// Paged is the page abstraction BuildPage consumes: one slice of results
// plus the metadata of the query that produced it.
type Paged interface {
	// TotalElements is the number of results across all pages.
	TotalElements() int64
	// PageNumber is the zero-based index of this page.
	PageNumber() int
	// PageSize is the requested page size.
	PageSize() int
	// Items returns the page content as a slice.
	Items() any
}

// Page result keys.
const (
	KeyTotalElements    = "totalElements"
	KeyTotalPages       = "totalPages"
	KeyNumber           = "number"
	KeySize             = "size"
	KeyNumberOfElements = "numberOfElements"
	KeyFirst            = "first"
	KeyLast             = "last"
	KeyHasNext          = "hasNext"
	KeyHasPrevious      = "hasPrevious"
	KeyContent          = "content"
)

// BuildPage projects a page: pagination metadata followed by the projected
// content under "content".
func (b *Builder) BuildPage(page Paged) *Map {
	content := b.BuildList(page.Items())

	total := page.TotalElements()
	number := page.PageNumber()
	size := page.PageSize()
	pages := TotalPages(total, size)
	hasNext := number+1 < pages

	out := newMap(10)
	out.set(KeyTotalElements, total)
	out.set(KeyTotalPages, pages)
	out.set(KeyNumber, number)
	out.set(KeySize, size)
	out.set(KeyNumberOfElements, len(content))
	out.set(KeyFirst, number == 0)
	out.set(KeyLast, !hasNext)
	out.set(KeyHasNext, hasNext)
	out.set(KeyHasPrevious, number > 0)
	out.set(KeyContent, content)
	return out
}

// TotalPages returns the number of pages of the given size needed to hold
// total results. An unpaged (size 0) result is a single page.
func TotalPages(total int64, size int) int {
	if size <= 0 {
		return 1
	}
	return int((total + int64(size) - 1) / int64(size))
}
