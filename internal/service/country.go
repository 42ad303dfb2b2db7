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

type CountryStore interface {
	List(ctx context.Context) ([]model.Country, error)
	Search(ctx context.Context, req model.CountrySearch) (model.Page[model.Country], error)
	Get(ctx context.Context, id int64) (model.Country, error)
	FindByName(ctx context.Context, name string) (model.Country, bool, error)
	Create(ctx context.Context, c model.Country) (model.Country, error)
	Update(ctx context.Context, c model.Country) (model.Country, error)
	Delete(ctx context.Context, id int64) error
	Names(ctx context.Context) (map[int64]string, error)
}

// CountryNameCache stores the id -> name index between requests.
type CountryNameCache interface {
	Get(ctx context.Context) (map[int64]string, bool, error)
	Set(ctx context.Context, names map[int64]string) error
	Invalidate(ctx context.Context) error
}

type CountryService struct {
	base
	store CountryStore
	cache CountryNameCache
	queue TaskEnqueuer
}

func NewCountryService(log *zerolog.Logger, store CountryStore, cache CountryNameCache, queue TaskEnqueuer) *CountryService {
	return &CountryService{base: base{log: log}, store: store, cache: cache, queue: queue}
}

func (s *CountryService) ListCountries(ctx context.Context) ([]model.Country, error) {
	countries, err := s.store.List(ctx)
	if err != nil {
		return nil, s.fail(ctx, "list_countries", err)
	}
	return countries, nil
}

func (s *CountryService) SearchCountries(ctx context.Context, req model.CountrySearch) (model.Page[model.Country], error) {
	page, err := s.store.Search(ctx, req)
	if err != nil {
		return model.Page[model.Country]{}, s.fail(ctx, "search_countries", err)
	}
	return page, nil
}

func (s *CountryService) GetCountry(ctx context.Context, id int64) (model.Country, error) {
	country, err := s.store.Get(ctx, id)
	if err != nil {
		return model.Country{}, s.fail(ctx, "get_country", err)
	}
	return country, nil
}

// CreateCountry rejects a name already in use, ignoring case.
func (s *CountryService) CreateCountry(ctx context.Context, c model.Country) (model.Country, error) {
	c.Name = strings.TrimSpace(c.Name)
	if err := s.checkNameFree(ctx, c.Name, 0); err != nil {
		return model.Country{}, err
	}

	created, err := s.store.Create(ctx, c)
	if err != nil {
		return model.Country{}, s.fail(ctx, "create_country", err)
	}

	s.namesChanged(ctx)
	return created, nil
}

func (s *CountryService) UpdateCountry(ctx context.Context, c model.Country) (model.Country, error) {
	c.Name = strings.TrimSpace(c.Name)
	if _, err := s.GetCountry(ctx, c.ID); err != nil {
		return model.Country{}, err
	}
	if err := s.checkNameFree(ctx, c.Name, c.ID); err != nil {
		return model.Country{}, err
	}

	updated, err := s.store.Update(ctx, c)
	if err != nil {
		return model.Country{}, s.fail(ctx, "update_country", err)
	}

	s.namesChanged(ctx)
	return updated, nil
}

// DeleteCountry removes a country nothing refers to. Countries still used
// by candidates, users or partners yield a 409 ENTITY_REFERENCED.
func (s *CountryService) DeleteCountry(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.fail(ctx, "delete_country", err)
	}

	s.namesChanged(ctx)
	return nil
}

func (s *CountryService) checkNameFree(ctx context.Context, name string, id int64) error {
	existing, found, err := s.store.FindByName(ctx, name)
	if err != nil {
		return s.fail(ctx, "find_country", err)
	}
	if found && existing.ID != id {
		return errs.NewConflictError(fmt.Sprintf("Country with name %q already exists", name), errs.CodeEntityExists)
	}
	return nil
}

// CountryNames returns the complete id -> name index, from the cache when
// it is warm. Cache failures fall back to the database.
func (s *CountryService) CountryNames(ctx context.Context) (map[int64]string, error) {
	if s.cache != nil {
		names, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger(ctx).Warn().Err(err).Msg("country name cache read failed")
		} else if ok {
			return names, nil
		}
	}

	names, err := s.store.Names(ctx)
	if err != nil {
		return nil, s.fail(ctx, "country_names", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, names); err != nil {
			s.logger(ctx).Warn().Err(err).Msg("country name cache write failed")
		}
	}
	return names, nil
}

// WarmCountryNames reloads the cached index from the database.
func (s *CountryService) WarmCountryNames(ctx context.Context) error {
	names, err := s.store.Names(ctx)
	if err != nil {
		return fmt.Errorf("loading country names: %w", err)
	}
	if s.cache == nil {
		return nil
	}
	return s.cache.Set(ctx, names)
}

// namesChanged drops the cached index and schedules a rebuild.
func (s *CountryService) namesChanged(ctx context.Context) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger(ctx).Warn().Err(err).Msg("country name cache invalidation failed")
		}
	}
	task, err := job.NewWarmCountryNamesTask()
	s.enqueue(ctx, s.queue, task, err)
}
