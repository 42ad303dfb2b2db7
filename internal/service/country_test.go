package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/talent-catalog/internal/errs"
	"github.com/deppfellow/talent-catalog/internal/lib/job"
	"github.com/deppfellow/talent-catalog/internal/model"
)

func requireHTTPError(t *testing.T, err error, status int, code string) {
	t.Helper()
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, status, httpErr.Status)
	assert.Equal(t, code, httpErr.Code)
}

func newCountryService(store *fakeCountryStore, cache *fakeNameCache, queue *fakeQueue) *CountryService {
	return NewCountryService(&nopLogger, store, cache, queue)
}

func TestCountryService_CreateCountry(t *testing.T) {
	store := newFakeCountryStore(model.Country{ID: 1, Name: "Jordan", Status: model.StatusActive})
	cache := &fakeNameCache{names: map[int64]string{1: "Jordan"}}
	queue := &fakeQueue{}
	svc := newCountryService(store, cache, queue)

	created, err := svc.CreateCountry(context.Background(), model.Country{Name: "  Lebanon ", Status: model.StatusActive})
	require.NoError(t, err)
	assert.Equal(t, "Lebanon", created.Name)
	assert.NotZero(t, created.ID)

	assert.Nil(t, cache.names, "cache dropped after a write")
	assert.Equal(t, []string{job.TaskWarmCountryNames}, queue.types())
}

func TestCountryService_CreateCountry_Duplicate(t *testing.T) {
	store := newFakeCountryStore(model.Country{ID: 1, Name: "Jordan"})
	svc := newCountryService(store, &fakeNameCache{}, &fakeQueue{})

	_, err := svc.CreateCountry(context.Background(), model.Country{Name: "jordan"})
	requireHTTPError(t, err, http.StatusConflict, errs.CodeEntityExists)
}

func TestCountryService_UpdateCountry(t *testing.T) {
	store := newFakeCountryStore(
		model.Country{ID: 1, Name: "Jordan"},
		model.Country{ID: 2, Name: "Lebanon"},
	)
	svc := newCountryService(store, &fakeNameCache{}, &fakeQueue{})

	t.Run("keeps own name", func(t *testing.T) {
		updated, err := svc.UpdateCountry(context.Background(), model.Country{ID: 1, Name: "Jordan", Status: model.StatusInactive})
		require.NoError(t, err)
		assert.Equal(t, model.StatusInactive, updated.Status)
	})

	t.Run("name taken by another", func(t *testing.T) {
		_, err := svc.UpdateCountry(context.Background(), model.Country{ID: 1, Name: "Lebanon"})
		requireHTTPError(t, err, http.StatusConflict, errs.CodeEntityExists)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := svc.UpdateCountry(context.Background(), model.Country{ID: 99, Name: "Syria"})
		requireHTTPError(t, err, http.StatusNotFound, "NOT_FOUND")
		assert.Equal(t, "Country not found", err.Error())
	})
}

func TestCountryService_DeleteCountry(t *testing.T) {
	store := newFakeCountryStore(model.Country{ID: 1, Name: "Jordan"})
	svc := newCountryService(store, &fakeNameCache{}, &fakeQueue{})

	store.deleteErr = &pgconn.PgError{
		Code:      "23503",
		Message:   `update or delete on table "countries" violates foreign key constraint "candidates_country_id_fkey" on table "candidates"`,
		TableName: "candidates",
	}
	err := svc.DeleteCountry(context.Background(), 1)
	requireHTTPError(t, err, http.StatusConflict, errs.CodeEntityReferenced)

	store.deleteErr = nil
	require.NoError(t, svc.DeleteCountry(context.Background(), 1))
	requireHTTPError(t, svc.DeleteCountry(context.Background(), 1), http.StatusNotFound, "NOT_FOUND")
}

func TestCountryService_CountryNames(t *testing.T) {
	store := newFakeCountryStore(model.Country{ID: 1, Name: "Jordan"}, model.Country{ID: 2, Name: "Lebanon"})
	cache := &fakeNameCache{}
	svc := newCountryService(store, cache, &fakeQueue{})

	names, err := svc.CountryNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{1: "Jordan", 2: "Lebanon"}, names)
	assert.Equal(t, 1, store.nameLoads)

	_, err = svc.CountryNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, store.nameLoads, "second call served from cache")

	cache.getErr = errors.New("redis down")
	names, err = svc.CountryNames(context.Background())
	require.NoError(t, err)
	assert.Len(t, names, 2)
	assert.Equal(t, 2, store.nameLoads)
}

func TestCountryService_CountryNames_StoreFailure(t *testing.T) {
	store := newFakeCountryStore()
	store.namesErr = errors.New("connection refused")
	svc := NewCountryService(&nopLogger, store, nil, nil)

	_, err := svc.CountryNames(context.Background())
	requireHTTPError(t, err, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR")
}

func TestCountryService_WarmCountryNames(t *testing.T) {
	store := newFakeCountryStore(model.Country{ID: 4, Name: "Kenya"})
	cache := &fakeNameCache{}
	svc := NewCountryService(&nopLogger, store, cache, nil)

	require.NoError(t, svc.WarmCountryNames(context.Background()))
	assert.Equal(t, map[int64]string{4: "Kenya"}, cache.names)
}

func TestCountryService_EnqueueFailureDoesNotFailWrite(t *testing.T) {
	store := newFakeCountryStore()
	svc := newCountryService(store, &fakeNameCache{}, &fakeQueue{err: errors.New("redis down")})

	_, err := svc.CreateCountry(context.Background(), model.Country{Name: "Chad"})
	assert.NoError(t, err)
}
