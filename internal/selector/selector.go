// Package selector assembles the response projection for each entity type.
//
// A selector only declares fields. Every Select call builds a fresh
// dto.Builder, and collaborators a selector needs (other selectors, lookups)
// are handed to its constructor.
package selector

import "github.com/deppfellow/talent-catalog/internal/dto"

// Selector builds the projection for one entity type.
type Selector interface {
	Select() *dto.Builder
}

// CountrySelector projects a country.
type CountrySelector struct{}

func (CountrySelector) Select() *dto.Builder {
	return dto.NewBuilder().
		Add("id").
		Add("name").
		Add("status")
}

// ExportColumnSelector projects a saved list export column.
type ExportColumnSelector struct{}

func (ExportColumnSelector) Select() *dto.Builder {
	return dto.NewBuilder().
		Add("id").
		Add("key").
		Add("index").
		AddNested("properties", dto.NewBuilder().
			Add("header").
			Add("constant"))
}

// VisaPathwaySelector projects a visa pathway. Nothing serves visa pathways
// yet; the selector only pins down the response shape.
type VisaPathwaySelector struct {
	countries CountrySelector
}

func (s VisaPathwaySelector) Select() *dto.Builder {
	return dto.NewBuilder().
		Add("id").
		Add("name").
		Add("description").
		AddNested("country", s.countries.Select())
}
