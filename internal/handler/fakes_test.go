package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/talent-catalog/internal/model"
)

func notFound(table string) error {
	return fmt.Errorf("table:%s: %w", table, pgx.ErrNoRows)
}

type countryStore struct {
	countries  []model.Country
	lastSearch model.CountrySearch
	deleted    []int64
}

func (s *countryStore) List(context.Context) ([]model.Country, error) {
	return s.countries, nil
}

func (s *countryStore) Search(_ context.Context, req model.CountrySearch) (model.Page[model.Country], error) {
	s.lastSearch = req
	return model.NewPage(s.countries, int64(len(s.countries)), req.PageRequest), nil
}

func (s *countryStore) Get(_ context.Context, id int64) (model.Country, error) {
	for _, c := range s.countries {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Country{}, notFound("countries")
}

func (s *countryStore) FindByName(_ context.Context, name string) (model.Country, bool, error) {
	for _, c := range s.countries {
		if strings.EqualFold(c.Name, name) {
			return c, true, nil
		}
	}
	return model.Country{}, false, nil
}

func (s *countryStore) Create(_ context.Context, c model.Country) (model.Country, error) {
	c.ID = int64(len(s.countries) + 1)
	s.countries = append(s.countries, c)
	return c, nil
}

func (s *countryStore) Update(ctx context.Context, c model.Country) (model.Country, error) {
	for i := range s.countries {
		if s.countries[i].ID == c.ID {
			s.countries[i] = c
			return c, nil
		}
	}
	return model.Country{}, notFound("countries")
}

func (s *countryStore) Delete(_ context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *countryStore) Names(context.Context) (map[int64]string, error) {
	names := make(map[int64]string, len(s.countries))
	for _, c := range s.countries {
		names[c.ID] = c.Name
	}
	return names, nil
}

type userStore struct {
	users []model.User
}

func (s *userStore) Search(_ context.Context, req model.UserSearch) (model.Page[model.User], error) {
	return model.NewPage(s.users, int64(len(s.users)), req.PageRequest), nil
}

func (s *userStore) Get(_ context.Context, id int64) (model.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, notFound("users")
}

func (s *userStore) FindByUsername(_ context.Context, username string) (model.User, bool, error) {
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return u, true, nil
		}
	}
	return model.User{}, false, nil
}

func (s *userStore) Create(_ context.Context, u model.User) (model.User, error) {
	u.ID = int64(len(s.users) + 1)
	s.users = append(s.users, u)
	return u, nil
}

func (s *userStore) Update(_ context.Context, u model.User) (model.User, error) {
	return u, nil
}

type savedListStore struct {
	lists   []model.SavedList
	columns []model.ExportColumn
}

func (s *savedListStore) Search(_ context.Context, req model.SavedListSearch) (model.Page[model.SavedList], error) {
	return model.NewPage(s.lists, int64(len(s.lists)), req.PageRequest), nil
}

func (s *savedListStore) Get(_ context.Context, id int64) (model.SavedList, error) {
	for _, l := range s.lists {
		if l.ID == id {
			return l, nil
		}
	}
	return model.SavedList{}, notFound("saved_lists")
}

func (s *savedListStore) FindByName(context.Context, int64, string) (model.SavedList, bool, error) {
	return model.SavedList{}, false, nil
}

func (s *savedListStore) Create(_ context.Context, l model.SavedList) (model.SavedList, error) {
	l.ID = int64(len(s.lists) + 1)
	if l.ExportColumns == nil {
		l.ExportColumns = []model.ExportColumn{}
	}
	s.lists = append(s.lists, l)
	return l, nil
}

func (s *savedListStore) Update(_ context.Context, l model.SavedList) (model.SavedList, error) {
	return l, nil
}

func (s *savedListStore) SetExportColumns(ctx context.Context, id int64, editor *model.User, columns []model.ExportColumn) (model.SavedList, error) {
	s.columns = columns
	l, err := s.Get(ctx, id)
	if err != nil {
		return model.SavedList{}, err
	}
	l.UpdatedBy = editor
	l.ExportColumns = columns
	return l, nil
}

func (s *savedListStore) Delete(context.Context, int64) error {
	return nil
}

type candidateStore struct {
	candidates []model.Candidate
}

func (s *candidateStore) Search(_ context.Context, req model.CandidateSearch) (model.Page[model.Candidate], error) {
	return model.NewPage(s.candidates, int64(len(s.candidates)), req.PageRequest), nil
}

func (s *candidateStore) Get(_ context.Context, id int64) (model.Candidate, error) {
	for _, c := range s.candidates {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Candidate{}, notFound("candidates")
}

func (s *candidateStore) GetByNumber(_ context.Context, number string) (model.Candidate, error) {
	for _, c := range s.candidates {
		if c.CandidateNumber == number {
			return c, nil
		}
	}
	return model.Candidate{}, notFound("candidates")
}
