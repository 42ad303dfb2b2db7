package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/deppfellow/talent-catalog/internal/errs"
	"github.com/deppfellow/talent-catalog/internal/lib/job"
	"github.com/deppfellow/talent-catalog/internal/model"
)

type UserStore interface {
	Search(ctx context.Context, req model.UserSearch) (model.Page[model.User], error)
	Get(ctx context.Context, id int64) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, bool, error)
	Create(ctx context.Context, u model.User) (model.User, error)
	Update(ctx context.Context, u model.User) (model.User, error)
}

type UserService struct {
	base
	store UserStore
	queue TaskEnqueuer
}

func NewUserService(log *zerolog.Logger, store UserStore, queue TaskEnqueuer) *UserService {
	return &UserService{base: base{log: log}, store: store, queue: queue}
}

func (s *UserService) SearchUsers(ctx context.Context, req model.UserSearch) (model.Page[model.User], error) {
	page, err := s.store.Search(ctx, req)
	if err != nil {
		return model.Page[model.User]{}, s.fail(ctx, "search_users", err)
	}
	return page, nil
}

// GetUser loads the user with partner and source countries.
func (s *UserService) GetUser(ctx context.Context, id int64) (model.User, error) {
	user, err := s.store.Get(ctx, id)
	if err != nil {
		return model.User{}, s.fail(ctx, "get_user", err)
	}
	return user, nil
}

// FindUser resolves a username to its account. A missing user is not an
// error.
func (s *UserService) FindUser(ctx context.Context, username string) (*model.User, error) {
	if username == "" {
		return nil, nil
	}
	user, found, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return nil, s.fail(ctx, "find_user", err)
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

// CreateUser stores a new admin account and queues its welcome email.
func (s *UserService) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	u.Username = strings.TrimSpace(u.Username)

	_, found, err := s.store.FindByUsername(ctx, u.Username)
	if err != nil {
		return model.User{}, s.fail(ctx, "find_user", err)
	}
	if found {
		return model.User{}, errs.NewConflictError(fmt.Sprintf("User with username %q already exists", u.Username), errs.CodeEntityExists)
	}

	created, err := s.store.Create(ctx, u)
	if err != nil {
		return model.User{}, s.fail(ctx, "create_user", err)
	}

	task, err := job.NewWelcomeEmailTask(created.Email, created.FirstName, created.Username)
	s.enqueue(ctx, s.queue, task, err)

	s.logger(ctx).Info().
		Int64("user_id", created.ID).
		Str("role", string(created.Role)).
		Msg("admin user created")

	return created, nil
}

// UpdateUser rewrites the editable fields of an existing user. The
// username is fixed at creation.
func (s *UserService) UpdateUser(ctx context.Context, u model.User) (model.User, error) {
	if _, err := s.GetUser(ctx, u.ID); err != nil {
		return model.User{}, err
	}

	updated, err := s.store.Update(ctx, u)
	if err != nil {
		return model.User{}, s.fail(ctx, "update_user", err)
	}
	return updated, nil
}
