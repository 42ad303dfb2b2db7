package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/talent-catalog/internal/dto"
	"github.com/deppfellow/talent-catalog/internal/model"
	"github.com/deppfellow/talent-catalog/internal/selector"
	"github.com/deppfellow/talent-catalog/internal/server"
	"github.com/deppfellow/talent-catalog/internal/service"
	"github.com/deppfellow/talent-catalog/internal/validation"
)

// UserHandler serves admin accounts. Searches project the simple user
// shape; single users are projected extended.
type UserHandler struct {
	Handler
	users *service.UserService
}

func NewUserHandler(s *server.Server, users *service.UserService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		users:   users,
	}
}

type SearchUserRequest struct {
	Keyword   string       `json:"keyword" validate:"max=255"`
	Status    model.Status `json:"status" validate:"omitempty,oneof=active inactive deleted"`
	Role      model.Role   `json:"role" validate:"omitempty,oneof=systemadmin admin partneradmin semilimited limited user"`
	PartnerID *int64       `json:"partnerId" validate:"omitempty,gt=0"`
	Page      int          `json:"page" validate:"min=0,max=1000000"`
	Size      int          `json:"size" validate:"min=0"`
}

func (r *SearchUserRequest) Validate() error {
	return validation.Struct(r)
}

// UserRequest creates a user, or updates the one addressed by the path id.
// The username is only read on create.
type UserRequest struct {
	ID               int64        `param:"id" json:"-"`
	Username         string       `json:"username" validate:"max=255"`
	Email            string       `json:"email" validate:"required,email"`
	FirstName        string       `json:"firstName" validate:"required,max=255"`
	LastName         string       `json:"lastName" validate:"required,max=255"`
	Role             model.Role   `json:"role" validate:"required,oneof=systemadmin admin partneradmin semilimited limited user"`
	Status           model.Status `json:"status" validate:"omitempty,oneof=active inactive deleted"`
	ReadOnly         bool         `json:"readOnly"`
	UsingMFA         bool         `json:"usingMfa"`
	PartnerID        *int64       `json:"partnerId" validate:"omitempty,gt=0"`
	SourceCountryIDs []int64      `json:"sourceCountryIds" validate:"dive,gt=0"`
}

func (r *UserRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.ID == 0 && strings.TrimSpace(r.Username) == "" {
		return validation.CustomValidationErrors{{Field: "username", Message: "is required"}}
	}
	return nil
}

func (r *UserRequest) user() model.User {
	status := r.Status
	if status == "" {
		status = model.StatusActive
	}

	u := model.User{
		ID:              r.ID,
		Username:        r.Username,
		Email:           r.Email,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Role:            r.Role,
		Status:          status,
		ReadOnly:        r.ReadOnly,
		UsingMFA:        r.UsingMFA,
		SourceCountries: countryRefs(r.SourceCountryIDs),
	}
	if r.PartnerID != nil {
		u.Partner = &model.Partner{ID: *r.PartnerID}
	}
	return u
}

func (h *UserHandler) Search(c echo.Context, req *SearchUserRequest) (*dto.Map, error) {
	page, err := h.users.SearchUsers(c.Request().Context(), model.UserSearch{
		Keyword:     req.Keyword,
		Status:      req.Status,
		Role:        req.Role,
		PartnerID:   req.PartnerID,
		PageRequest: h.pageRequest(req.Page, req.Size),
	})
	if err != nil {
		return nil, err
	}
	return selector.UserSelector{}.Select().BuildPage(page), nil
}

func (h *UserHandler) Get(c echo.Context, req *IDRequest) (*dto.Map, error) {
	user, err := h.users.GetUser(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	return selector.UserSelector{Extended: true}.Select().Build(user), nil
}

func (h *UserHandler) Create(c echo.Context, req *UserRequest) (*dto.Map, error) {
	user, err := h.users.CreateUser(c.Request().Context(), req.user())
	if err != nil {
		return nil, err
	}
	return selector.UserSelector{Extended: true}.Select().Build(user), nil
}

func (h *UserHandler) Update(c echo.Context, req *UserRequest) (*dto.Map, error) {
	user, err := h.users.UpdateUser(c.Request().Context(), req.user())
	if err != nil {
		return nil, err
	}
	return selector.UserSelector{Extended: true}.Select().Build(user), nil
}
