package model

// Partner is an organisation that sources or hires candidates.
type Partner struct {
	ID                   int64
	Name                 string
	Abbreviation         string
	Status               Status
	WebsiteURL           string
	AutoAssignable       bool
	DefaultSourcePartner bool
	DefaultContact       *User
	SourceCountries      []Country
}

// PartnerSearch filters the partner search.
type PartnerSearch struct {
	Keyword string
	Status  Status
	PageRequest
}
