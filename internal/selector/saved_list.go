package selector

import "github.com/deppfellow/talent-catalog/internal/dto"

// SavedListSelector projects a saved list with its owner, last editor and
// export columns.
type SavedListSelector struct {
	columns Selector
	users   Selector
}

// NewSavedListSelector composes the saved list projection from the given
// export column and user selectors.
func NewSavedListSelector(columns, users Selector) SavedListSelector {
	return SavedListSelector{columns: columns, users: users}
}

func (s SavedListSelector) Select() *dto.Builder {
	return dto.NewBuilder().
		Add("id").
		Add("name").
		Add("description").
		Add("status").
		Add("fixed").
		Add("global").
		AddNested("createdBy", s.users.Select()).
		Add("createdDate").
		AddNested("updatedBy", s.users.Select()).
		Add("updatedDate").
		AddNested("exportColumns", s.columns.Select())
}
