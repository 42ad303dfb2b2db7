package model

import (
	"strings"
	"time"
)

// Role is an admin portal user's role.
type Role string

const (
	RoleSystemAdmin  Role = "systemadmin"
	RoleAdmin        Role = "admin"
	RolePartnerAdmin Role = "partneradmin"
	RoleSemiLimited  Role = "semilimited"
	RoleLimited      Role = "limited"
	RoleUser         Role = "user"
)

// User is an admin portal account.
type User struct {
	ID              int64
	Username        string
	Email           string
	FirstName       string
	LastName        string
	Role            Role
	Status          Status
	ReadOnly        bool
	UsingMFA        bool
	Partner         *Partner
	SourceCountries []Country
	CreatedDate     time.Time
}

// FullName joins first and last name, skipping blanks.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserSearch filters the user search.
type UserSearch struct {
	Keyword   string
	Status    Status
	Role      Role
	PartnerID *int64
	PageRequest
}
