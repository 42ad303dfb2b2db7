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

type PartnerHandler struct {
	Handler
	partners *service.PartnerService
}

func NewPartnerHandler(s *server.Server, partners *service.PartnerService) *PartnerHandler {
	return &PartnerHandler{
		Handler:  NewHandler(s),
		partners: partners,
	}
}

type SearchPartnerRequest struct {
	Keyword string       `json:"keyword" validate:"max=255"`
	Status  model.Status `json:"status" validate:"omitempty,oneof=active inactive deleted"`
	Page    int          `json:"page" validate:"min=0,max=1000000"`
	Size    int          `json:"size" validate:"min=0"`
}

func (r *SearchPartnerRequest) Validate() error {
	return validation.Struct(r)
}

type PartnerRequest struct {
	ID                   int64        `param:"id" json:"-"`
	Name                 string       `json:"name" validate:"required,max=255"`
	Abbreviation         string       `json:"abbreviation" validate:"max=50"`
	Status               model.Status `json:"status" validate:"omitempty,oneof=active inactive deleted"`
	WebsiteURL           string       `json:"websiteUrl" validate:"omitempty,url"`
	AutoAssignable       bool         `json:"autoAssignable"`
	DefaultSourcePartner bool         `json:"defaultSourcePartner"`
	DefaultContactID     *int64       `json:"defaultContactId" validate:"omitempty,gt=0"`
	SourceCountryIDs     []int64      `json:"sourceCountryIds" validate:"dive,gt=0"`
}

func (r *PartnerRequest) Validate() error {
	return validation.Struct(r)
}

func (r *PartnerRequest) partner() model.Partner {
	status := r.Status
	if status == "" {
		status = model.StatusActive
	}

	p := model.Partner{
		ID:                   r.ID,
		Name:                 r.Name,
		Abbreviation:         r.Abbreviation,
		Status:               status,
		WebsiteURL:           r.WebsiteURL,
		AutoAssignable:       r.AutoAssignable,
		DefaultSourcePartner: r.DefaultSourcePartner,
		SourceCountries:      countryRefs(r.SourceCountryIDs),
	}
	if r.DefaultContactID != nil {
		p.DefaultContact = &model.User{ID: *r.DefaultContactID}
	}
	return p
}

func (h *PartnerHandler) List(c echo.Context, _ *EmptyRequest) ([]*dto.Map, error) {
	partners, err := h.partners.ListPartners(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return selector.PartnerSelector{}.Select().BuildList(partners), nil
}

func (h *PartnerHandler) Search(c echo.Context, req *SearchPartnerRequest) (*dto.Map, error) {
	page, err := h.partners.SearchPartners(c.Request().Context(), model.PartnerSearch{
		Keyword:     req.Keyword,
		Status:      req.Status,
		PageRequest: h.pageRequest(req.Page, req.Size),
	})
	if err != nil {
		return nil, err
	}
	return selector.PartnerSelector{}.Select().BuildPage(page), nil
}

func (h *PartnerHandler) Get(c echo.Context, req *IDRequest) (*dto.Map, error) {
	partner, err := h.partners.GetPartner(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	return selector.PartnerSelector{WithContact: true}.Select().Build(partner), nil
}

func (h *PartnerHandler) Create(c echo.Context, req *PartnerRequest) (*dto.Map, error) {
	partner, err := h.partners.CreatePartner(c.Request().Context(), req.partner())
	if err != nil {
		return nil, err
	}
	return selector.PartnerSelector{WithContact: true}.Select().Build(partner), nil
}

func (h *PartnerHandler) Update(c echo.Context, req *PartnerRequest) (*dto.Map, error) {
	partner, err := h.partners.UpdatePartner(c.Request().Context(), req.partner())
	if err != nil {
		return nil, err
	}
	return selector.PartnerSelector{WithContact: true}.Select().Build(partner), nil
}
