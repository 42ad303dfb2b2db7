// Package model holds the Talent Catalog domain entities.
//
// Entities are plain structs. They carry no loaders: whatever a repository
// returns is the complete graph, so projecting an entity never reaches back
// into the database.
package model

// Status is the lifecycle state shared by most admin-managed entities.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDeleted  Status = "deleted"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDeleted:
		return true
	}
	return false
}
