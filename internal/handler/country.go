package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/talent-catalog/internal/dto"
	"github.com/deppfellow/talent-catalog/internal/model"
	"github.com/deppfellow/talent-catalog/internal/selector"
	"github.com/deppfellow/talent-catalog/internal/server"
	"github.com/deppfellow/talent-catalog/internal/service"
	"github.com/deppfellow/talent-catalog/internal/validation"
)

type CountryHandler struct {
	Handler
	countries *service.CountryService
	selector  selector.CountrySelector
}

func NewCountryHandler(s *server.Server, countries *service.CountryService) *CountryHandler {
	return &CountryHandler{
		Handler:   NewHandler(s),
		countries: countries,
	}
}

type SearchCountryRequest struct {
	Keyword string       `json:"keyword" validate:"max=255"`
	Status  model.Status `json:"status" validate:"omitempty,oneof=active inactive deleted"`
	Page    int          `json:"page" validate:"min=0,max=1000000"`
	Size    int          `json:"size" validate:"min=0"`
}

func (r *SearchCountryRequest) Validate() error {
	return validation.Struct(r)
}

type CountryRequest struct {
	ID     int64        `param:"id" json:"-"`
	Name   string       `json:"name" validate:"required,max=255"`
	Status model.Status `json:"status" validate:"omitempty,oneof=active inactive deleted"`
}

func (r *CountryRequest) Validate() error {
	return validation.Struct(r)
}

func (r *CountryRequest) country() model.Country {
	status := r.Status
	if status == "" {
		status = model.StatusActive
	}
	return model.Country{ID: r.ID, Name: r.Name, Status: status}
}

func (h *CountryHandler) List(c echo.Context, _ *EmptyRequest) ([]*dto.Map, error) {
	countries, err := h.countries.ListCountries(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return h.selector.Select().BuildList(countries), nil
}

func (h *CountryHandler) Search(c echo.Context, req *SearchCountryRequest) (*dto.Map, error) {
	page, err := h.countries.SearchCountries(c.Request().Context(), model.CountrySearch{
		Keyword:     req.Keyword,
		Status:      req.Status,
		PageRequest: h.pageRequest(req.Page, req.Size),
	})
	if err != nil {
		return nil, err
	}
	return h.selector.Select().BuildPage(page), nil
}

func (h *CountryHandler) Get(c echo.Context, req *IDRequest) (*dto.Map, error) {
	country, err := h.countries.GetCountry(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	return h.selector.Select().Build(country), nil
}

func (h *CountryHandler) Create(c echo.Context, req *CountryRequest) (*dto.Map, error) {
	country, err := h.countries.CreateCountry(c.Request().Context(), req.country())
	if err != nil {
		return nil, err
	}
	return h.selector.Select().Build(country), nil
}

func (h *CountryHandler) Update(c echo.Context, req *CountryRequest) (*dto.Map, error) {
	country, err := h.countries.UpdateCountry(c.Request().Context(), req.country())
	if err != nil {
		return nil, err
	}
	return h.selector.Select().Build(country), nil
}

func (h *CountryHandler) Delete(c echo.Context, req *IDRequest) error {
	return h.countries.DeleteCountry(c.Request().Context(), req.ID)
}
