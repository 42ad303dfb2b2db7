package model

import "time"

// ExportColumnProperties customises how an export column is rendered.
type ExportColumnProperties struct {
	Header   string
	Constant string
}

// ExportColumn is one column of a saved list's spreadsheet export.
type ExportColumn struct {
	ID         int64
	Key        string
	Index      int
	Properties *ExportColumnProperties
}

// SavedList is a named, curated list of candidates.
type SavedList struct {
	ID            int64
	Name          string
	Description   string
	Status        Status
	Fixed         bool
	Global        bool
	CreatedBy     *User
	CreatedDate   time.Time
	UpdatedBy     *User
	UpdatedDate   *time.Time
	ExportColumns []ExportColumn
}

// SavedListSearch filters the saved list search.
type SavedListSearch struct {
	Keyword string
	OwnerID *int64
	Global  *bool
	PageRequest
}
