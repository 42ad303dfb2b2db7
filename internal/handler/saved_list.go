package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/talent-catalog/internal/dto"
	"github.com/deppfellow/talent-catalog/internal/middleware"
	"github.com/deppfellow/talent-catalog/internal/model"
	"github.com/deppfellow/talent-catalog/internal/selector"
	"github.com/deppfellow/talent-catalog/internal/server"
	"github.com/deppfellow/talent-catalog/internal/service"
	"github.com/deppfellow/talent-catalog/internal/validation"
)

// SavedListHandler serves saved lists. Writes are attributed to the admin
// user whose username matches the authenticated subject, if one exists.
type SavedListHandler struct {
	Handler
	lists    *service.SavedListService
	users    *service.UserService
	selector selector.SavedListSelector
}

func NewSavedListHandler(s *server.Server, lists *service.SavedListService, users *service.UserService) *SavedListHandler {
	return &SavedListHandler{
		Handler:  NewHandler(s),
		lists:    lists,
		users:    users,
		selector: selector.NewSavedListSelector(selector.ExportColumnSelector{}, selector.UserSelector{}),
	}
}

type SearchSavedListRequest struct {
	Keyword string `json:"keyword" validate:"max=255"`
	OwnerID *int64 `json:"ownerId" validate:"omitempty,gt=0"`
	Global  *bool  `json:"global"`
	Page    int    `json:"page" validate:"min=0,max=1000000"`
	Size    int    `json:"size" validate:"min=0"`
}

func (r *SearchSavedListRequest) Validate() error {
	return validation.Struct(r)
}

type SavedListRequest struct {
	ID          int64        `param:"id" json:"-"`
	Name        string       `json:"name" validate:"required,max=255"`
	Description string       `json:"description" validate:"max=1000"`
	Status      model.Status `json:"status" validate:"omitempty,oneof=active inactive deleted"`
	Fixed       bool         `json:"fixed"`
	Global      bool         `json:"global"`
}

func (r *SavedListRequest) Validate() error {
	return validation.Struct(r)
}

func (r *SavedListRequest) savedList() model.SavedList {
	status := r.Status
	if status == "" {
		status = model.StatusActive
	}
	return model.SavedList{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Status:      status,
		Fixed:       r.Fixed,
		Global:      r.Global,
	}
}

type ExportColumnRequest struct {
	Key      string `json:"key" validate:"required,max=255"`
	Header   string `json:"header" validate:"max=255"`
	Constant string `json:"constant" validate:"max=255"`
}

// ExportColumnsRequest replaces a list's export columns. Column order is
// the export order.
type ExportColumnsRequest struct {
	ID      int64                 `param:"id" json:"-" validate:"required,gt=0"`
	Columns []ExportColumnRequest `json:"columns" validate:"dive"`
}

func (r *ExportColumnsRequest) Validate() error {
	return validation.Struct(r)
}

func (r *ExportColumnsRequest) exportColumns() []model.ExportColumn {
	columns := make([]model.ExportColumn, 0, len(r.Columns))
	for i, col := range r.Columns {
		column := model.ExportColumn{Key: col.Key, Index: i}
		if col.Header != "" || col.Constant != "" {
			column.Properties = &model.ExportColumnProperties{Header: col.Header, Constant: col.Constant}
		}
		columns = append(columns, column)
	}
	return columns
}

func (h *SavedListHandler) actor(ctx context.Context, c echo.Context) (*model.User, error) {
	return h.users.FindUser(ctx, middleware.GetUserID(c))
}

func (h *SavedListHandler) Search(c echo.Context, req *SearchSavedListRequest) (*dto.Map, error) {
	page, err := h.lists.SearchSavedLists(c.Request().Context(), model.SavedListSearch{
		Keyword:     req.Keyword,
		OwnerID:     req.OwnerID,
		Global:      req.Global,
		PageRequest: h.pageRequest(req.Page, req.Size),
	})
	if err != nil {
		return nil, err
	}
	return h.selector.Select().BuildPage(page), nil
}

func (h *SavedListHandler) Get(c echo.Context, req *IDRequest) (*dto.Map, error) {
	list, err := h.lists.GetSavedList(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	return h.selector.Select().Build(list), nil
}

func (h *SavedListHandler) Create(c echo.Context, req *SavedListRequest) (*dto.Map, error) {
	ctx := c.Request().Context()

	actor, err := h.actor(ctx, c)
	if err != nil {
		return nil, err
	}

	list, err := h.lists.CreateSavedList(ctx, actor, req.savedList())
	if err != nil {
		return nil, err
	}
	return h.selector.Select().Build(list), nil
}

func (h *SavedListHandler) Update(c echo.Context, req *SavedListRequest) (*dto.Map, error) {
	ctx := c.Request().Context()

	actor, err := h.actor(ctx, c)
	if err != nil {
		return nil, err
	}

	list, err := h.lists.UpdateSavedList(ctx, actor, req.savedList())
	if err != nil {
		return nil, err
	}
	return h.selector.Select().Build(list), nil
}

func (h *SavedListHandler) SetExportColumns(c echo.Context, req *ExportColumnsRequest) (*dto.Map, error) {
	ctx := c.Request().Context()

	actor, err := h.actor(ctx, c)
	if err != nil {
		return nil, err
	}

	list, err := h.lists.SetExportColumns(ctx, actor, req.ID, req.exportColumns())
	if err != nil {
		return nil, err
	}
	return h.selector.Select().Build(list), nil
}

func (h *SavedListHandler) Delete(c echo.Context, req *IDRequest) error {
	return h.lists.DeleteSavedList(c.Request().Context(), req.ID)
}
