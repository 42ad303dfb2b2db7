package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/talent-catalog/internal/dto"
	"github.com/deppfellow/talent-catalog/internal/model"
	"github.com/deppfellow/talent-catalog/internal/selector"
	"github.com/deppfellow/talent-catalog/internal/server"
	"github.com/deppfellow/talent-catalog/internal/service"
	"github.com/deppfellow/talent-catalog/internal/validation"
)

// CandidateHandler serves candidates. Country and nationality names come
// from the country name index, loaded once per request before projecting.
type CandidateHandler struct {
	Handler
	candidates *service.CandidateService
	countries  *service.CountryService
}

func NewCandidateHandler(s *server.Server, candidates *service.CandidateService, countries *service.CountryService) *CandidateHandler {
	return &CandidateHandler{
		Handler:    NewHandler(s),
		candidates: candidates,
		countries:  countries,
	}
}

type SearchCandidateRequest struct {
	Keyword        string                  `json:"keyword" validate:"max=255"`
	Statuses       []model.CandidateStatus `json:"statuses" validate:"dive,oneof=draft pending active incomplete employed withdrawn deleted"`
	NationalityIDs []int64                 `json:"nationalityIds" validate:"dive,gt=0"`
	Page           int                     `json:"page" validate:"min=0,max=1000000"`
	Size           int                     `json:"size" validate:"min=0"`
}

func (r *SearchCandidateRequest) Validate() error {
	return validation.Struct(r)
}

type CandidateNumberRequest struct {
	Number string `param:"number" validate:"required,max=50"`
}

func (r *CandidateNumberRequest) Validate() error {
	return validation.Struct(r)
}

func (h *CandidateHandler) builder(ctx context.Context) (*dto.Builder, error) {
	names, err := h.countries.CountryNames(ctx)
	if err != nil {
		return nil, err
	}
	return selector.NewCandidateSelector(selector.CountryNameIndex(names), selector.UserSelector{}).Select(), nil
}

func (h *CandidateHandler) Search(c echo.Context, req *SearchCandidateRequest) (*dto.Map, error) {
	ctx := c.Request().Context()

	page, err := h.candidates.SearchCandidates(ctx, model.CandidateSearch{
		Keyword:        req.Keyword,
		Statuses:       req.Statuses,
		NationalityIDs: req.NationalityIDs,
		PageRequest:    h.pageRequest(req.Page, req.Size),
	})
	if err != nil {
		return nil, err
	}

	b, err := h.builder(ctx)
	if err != nil {
		return nil, err
	}
	return b.BuildPage(page), nil
}

func (h *CandidateHandler) Get(c echo.Context, req *IDRequest) (*dto.Map, error) {
	ctx := c.Request().Context()

	candidate, err := h.candidates.GetCandidate(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	b, err := h.builder(ctx)
	if err != nil {
		return nil, err
	}
	return b.Build(candidate), nil
}

func (h *CandidateHandler) GetByNumber(c echo.Context, req *CandidateNumberRequest) (*dto.Map, error) {
	ctx := c.Request().Context()

	candidate, err := h.candidates.GetCandidateByNumber(ctx, req.Number)
	if err != nil {
		return nil, err
	}

	b, err := h.builder(ctx)
	if err != nil {
		return nil, err
	}
	return b.Build(candidate), nil
}
