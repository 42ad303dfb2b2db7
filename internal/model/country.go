package model

// Country is a country candidates can live in or hold nationality of.
type Country struct {
	ID     int64
	Name   string
	Status Status
}

// CountrySearch filters the country search.
type CountrySearch struct {
	Keyword string
	Status  Status
	PageRequest
}
