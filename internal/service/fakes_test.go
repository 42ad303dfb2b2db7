package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/deppfellow/talent-catalog/internal/model"
	"github.com/deppfellow/talent-catalog/internal/sqlerr"
)

var nopLogger = zerolog.Nop()

func notFound(table string) error {
	return fmt.Errorf("%s%s: %w", sqlerr.TableMarker, table, pgx.ErrNoRows)
}

type fakeQueue struct {
	tasks []*asynq.Task
	err   error
}

func (q *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func (q *fakeQueue) types() []string {
	out := make([]string, len(q.tasks))
	for i, t := range q.tasks {
		out[i] = t.Type()
	}
	return out
}

type fakeCountryStore struct {
	countries map[int64]model.Country
	nextID    int64
	deleteErr error
	namesErr  error
	nameLoads int
}

func newFakeCountryStore(countries ...model.Country) *fakeCountryStore {
	s := &fakeCountryStore{countries: map[int64]model.Country{}, nextID: 100}
	for _, c := range countries {
		s.countries[c.ID] = c
	}
	return s
}

func (s *fakeCountryStore) List(context.Context) ([]model.Country, error) {
	out := make([]model.Country, 0, len(s.countries))
	for _, c := range s.countries {
		out = append(out, c)
	}
	return out, nil
}

func (s *fakeCountryStore) Search(_ context.Context, req model.CountrySearch) (model.Page[model.Country], error) {
	all, _ := s.List(context.Background())
	return model.NewPage(all, int64(len(all)), req.PageRequest), nil
}

func (s *fakeCountryStore) Get(_ context.Context, id int64) (model.Country, error) {
	c, ok := s.countries[id]
	if !ok {
		return model.Country{}, notFound("countries")
	}
	return c, nil
}

func (s *fakeCountryStore) FindByName(_ context.Context, name string) (model.Country, bool, error) {
	for _, c := range s.countries {
		if strings.EqualFold(c.Name, name) {
			return c, true, nil
		}
	}
	return model.Country{}, false, nil
}

func (s *fakeCountryStore) Create(_ context.Context, c model.Country) (model.Country, error) {
	s.nextID++
	c.ID = s.nextID
	s.countries[c.ID] = c
	return c, nil
}

func (s *fakeCountryStore) Update(_ context.Context, c model.Country) (model.Country, error) {
	s.countries[c.ID] = c
	return c, nil
}

func (s *fakeCountryStore) Delete(_ context.Context, id int64) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.countries[id]; !ok {
		return notFound("countries")
	}
	delete(s.countries, id)
	return nil
}

func (s *fakeCountryStore) Names(context.Context) (map[int64]string, error) {
	s.nameLoads++
	if s.namesErr != nil {
		return nil, s.namesErr
	}
	names := map[int64]string{}
	for id, c := range s.countries {
		names[id] = c.Name
	}
	return names, nil
}

type fakeNameCache struct {
	names       map[int64]string
	getErr      error
	invalidated int
}

func (c *fakeNameCache) Get(context.Context) (map[int64]string, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.names, c.names != nil, nil
}

func (c *fakeNameCache) Set(_ context.Context, names map[int64]string) error {
	c.names = names
	return nil
}

func (c *fakeNameCache) Invalidate(context.Context) error {
	c.invalidated++
	c.names = nil
	return nil
}

type fakeUserStore struct {
	users  map[int64]model.User
	nextID int64
}

func newFakeUserStore(users ...model.User) *fakeUserStore {
	s := &fakeUserStore{users: map[int64]model.User{}, nextID: 10}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Search(_ context.Context, req model.UserSearch) (model.Page[model.User], error) {
	var out []model.User
	for _, u := range s.users {
		out = append(out, u)
	}
	return model.NewPage(out, int64(len(out)), req.PageRequest), nil
}

func (s *fakeUserStore) Get(_ context.Context, id int64) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, notFound("users")
	}
	return u, nil
}

func (s *fakeUserStore) FindByUsername(_ context.Context, username string) (model.User, bool, error) {
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return u, true, nil
		}
	}
	return model.User{}, false, nil
}

func (s *fakeUserStore) Create(_ context.Context, u model.User) (model.User, error) {
	s.nextID++
	u.ID = s.nextID
	s.users[u.ID] = u
	return u, nil
}

func (s *fakeUserStore) Update(_ context.Context, u model.User) (model.User, error) {
	s.users[u.ID] = u
	return u, nil
}

type fakeSavedListStore struct {
	lists  map[int64]model.SavedList
	nextID int64
}

func newFakeSavedListStore(lists ...model.SavedList) *fakeSavedListStore {
	s := &fakeSavedListStore{lists: map[int64]model.SavedList{}, nextID: 50}
	for _, l := range lists {
		s.lists[l.ID] = l
	}
	return s
}

func (s *fakeSavedListStore) Search(_ context.Context, req model.SavedListSearch) (model.Page[model.SavedList], error) {
	var out []model.SavedList
	for _, l := range s.lists {
		out = append(out, l)
	}
	return model.NewPage(out, int64(len(out)), req.PageRequest), nil
}

func (s *fakeSavedListStore) Get(_ context.Context, id int64) (model.SavedList, error) {
	l, ok := s.lists[id]
	if !ok || l.Status == model.StatusDeleted {
		return model.SavedList{}, notFound("saved_lists")
	}
	return l, nil
}

func (s *fakeSavedListStore) FindByName(_ context.Context, ownerID int64, name string) (model.SavedList, bool, error) {
	for _, l := range s.lists {
		if l.CreatedBy != nil && l.CreatedBy.ID == ownerID && strings.EqualFold(l.Name, name) {
			return l, true, nil
		}
	}
	return model.SavedList{}, false, nil
}

func (s *fakeSavedListStore) Create(_ context.Context, l model.SavedList) (model.SavedList, error) {
	s.nextID++
	l.ID = s.nextID
	s.lists[l.ID] = l
	return l, nil
}

func (s *fakeSavedListStore) Update(_ context.Context, l model.SavedList) (model.SavedList, error) {
	current := s.lists[l.ID]
	l.CreatedBy = current.CreatedBy
	l.ExportColumns = current.ExportColumns
	s.lists[l.ID] = l
	return l, nil
}

func (s *fakeSavedListStore) SetExportColumns(_ context.Context, id int64, editor *model.User, columns []model.ExportColumn) (model.SavedList, error) {
	l, ok := s.lists[id]
	if !ok {
		return model.SavedList{}, notFound("saved_lists")
	}
	for i := range columns {
		columns[i].Index = i
	}
	l.ExportColumns = columns
	l.UpdatedBy = editor
	s.lists[id] = l
	return l, nil
}

func (s *fakeSavedListStore) Delete(_ context.Context, id int64) error {
	l := s.lists[id]
	l.Status = model.StatusDeleted
	s.lists[id] = l
	return nil
}
