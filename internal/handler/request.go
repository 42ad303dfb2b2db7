package handler

import (
	"github.com/deppfellow/talent-catalog/internal/model"
	"github.com/deppfellow/talent-catalog/internal/validation"
)

// IDRequest addresses one entity by its path id.
type IDRequest struct {
	ID int64 `param:"id" json:"-" validate:"required,gt=0"`
}

func (r *IDRequest) Validate() error {
	return validation.Struct(r)
}

// EmptyRequest is bound by endpoints that take no input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error {
	return nil
}

// pageRequest applies the configured default and maximum page size.
func (h Handler) pageRequest(page, size int) model.PageRequest {
	cfg := h.server.Config.Pagination
	switch {
	case size <= 0:
		size = cfg.DefaultSize
	case size > cfg.MaxSize:
		size = cfg.MaxSize
	}
	return model.PageRequest{Page: page, Size: size}
}

func countryRefs(ids []int64) []model.Country {
	countries := make([]model.Country, 0, len(ids))
	for _, id := range ids {
		countries = append(countries, model.Country{ID: id})
	}
	return countries
}
