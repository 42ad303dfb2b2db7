package model

// MaxPage is the highest page number a search accepts. Search request
// validation rejects anything above it with a 400.
const MaxPage = 1_000_000

// PageRequest selects one zero-based page of a search result.
type PageRequest struct {
	Page int
	Size int
}

// Offset is the number of rows preceding the requested page. It is
// computed in 64 bits so a large page cannot wrap into a negative OFFSET.
func (r PageRequest) Offset() int64 {
	return int64(r.Page) * int64(r.Size)
}

// Page is a bounded slice of a larger result set plus the metadata of the
// query that produced it.
type Page[T any] struct {
	Content []T
	Total   int64
	Number  int
	Size    int
}

// NewPage wraps content fetched for req out of total matching rows.
func NewPage[T any](content []T, total int64, req PageRequest) Page[T] {
	if content == nil {
		content = []T{}
	}
	return Page[T]{
		Content: content,
		Total:   total,
		Number:  req.Page,
		Size:    req.Size,
	}
}

func (p Page[T]) TotalElements() int64 { return p.Total }
func (p Page[T]) PageNumber() int      { return p.Number }
func (p Page[T]) PageSize() int        { return p.Size }
func (p Page[T]) Items() any           { return p.Content }
