package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/talent-catalog/internal/dto"
	"github.com/deppfellow/talent-catalog/internal/errs"
	"github.com/deppfellow/talent-catalog/internal/server"
)

// VisaPathwayHandler reserves the visa pathway routes. Pathways are not
// stored yet, so every call answers 501.
type VisaPathwayHandler struct {
	Handler
}

func NewVisaPathwayHandler(s *server.Server) *VisaPathwayHandler {
	return &VisaPathwayHandler{Handler: NewHandler(s)}
}

func (h *VisaPathwayHandler) Get(_ echo.Context, _ *IDRequest) (*dto.Map, error) {
	return nil, errs.NewNotImplementedError("Visa pathways are not available yet")
}
