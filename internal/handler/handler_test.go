package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/talent-catalog/internal/config"
	"github.com/deppfellow/talent-catalog/internal/errs"
	"github.com/deppfellow/talent-catalog/internal/middleware"
	"github.com/deppfellow/talent-catalog/internal/model"
	"github.com/deppfellow/talent-catalog/internal/server"
	"github.com/deppfellow/talent-catalog/internal/service"
)

type fixture struct {
	echo       *echo.Echo
	countries  *countryStore
	users      *userStore
	lists      *savedListStore
	candidates *candidateStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Pagination:    config.PaginationConfig{DefaultSize: 20, MaxSize: 100},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &log,
	}

	f := &fixture{
		countries: &countryStore{countries: []model.Country{
			{ID: 1, Name: "Jordan", Status: model.StatusActive},
			{ID: 2, Name: "Lebanon", Status: model.StatusActive},
		}},
		users: &userStore{users: []model.User{
			{ID: 7, Username: "user_2abc", FirstName: "Ann", LastName: "Lee", Role: model.RoleAdmin},
		}},
		lists:      &savedListStore{},
		candidates: &candidateStore{},
	}

	countries := service.NewCountryService(&log, f.countries, nil, nil)
	users := service.NewUserService(&log, f.users, nil)
	lists := service.NewSavedListService(&log, f.lists)
	candidates := service.NewCandidateService(&log, f.candidates)

	country := NewCountryHandler(s, countries)
	user := NewUserHandler(s, users)
	savedList := NewSavedListHandler(s, lists, users)
	candidate := NewCandidateHandler(s, candidates, countries)
	visa := NewVisaPathwayHandler(s)
	// no store: only request validation is exercised on partner routes
	partner := NewPartnerHandler(s, service.NewPartnerService(&log, nil))

	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if subject := c.Request().Header.Get("X-Test-Subject"); subject != "" {
				c.Set(middleware.UserIDKey, subject)
			}
			return next(c)
		}
	})

	e.GET("/country", Handle(country.List, http.StatusOK))
	e.POST("/country/search", Handle(country.Search, http.StatusOK))
	e.GET("/country/:id", Handle(country.Get, http.StatusOK))
	e.POST("/country", Handle(country.Create, http.StatusCreated))
	e.PUT("/country/:id", Handle(country.Update, http.StatusOK))
	e.DELETE("/country/:id", HandleNoContent(country.Delete, http.StatusNoContent))
	e.POST("/user/search", Handle(user.Search, http.StatusOK))
	e.GET("/user/:id", Handle(user.Get, http.StatusOK))
	e.POST("/partner/search", Handle(partner.Search, http.StatusOK))
	e.POST("/saved-list/search", Handle(savedList.Search, http.StatusOK))
	e.POST("/user", Handle(user.Create, http.StatusCreated))
	e.POST("/saved-list", Handle(savedList.Create, http.StatusCreated))
	e.PUT("/saved-list/:id/export-columns", Handle(savedList.SetExportColumns, http.StatusOK))
	e.POST("/candidate/search", Handle(candidate.Search, http.StatusOK))
	e.GET("/candidate/number/:number", Handle(candidate.GetByNumber, http.StatusOK))
	e.GET("/visa-pathway/:id", Handle(visa.Get, http.StatusOK))

	f.echo = e
	return f
}

func (f *fixture) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCountry_Get(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/country/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"id":1,"name":"Jordan","status":"active"}`, strings.TrimSpace(rec.Body.String()))
}

func TestCountry_GetMissing(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/country/99", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Country not found", decodeError(t, rec).Message)
}

func TestCountry_GetInvalidID(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/country/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodGet, "/country/0", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []errs.FieldError{{Field: "id", Error: "is required"}}, decodeError(t, rec).Errors)
}

func TestCountry_List(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/country", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"id":1,"name":"Jordan","status":"active"},
		{"id":2,"name":"Lebanon","status":"active"}
	]`, rec.Body.String())
}

func TestCountry_SearchPaging(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/country/search", `{"keyword":"jor","page":1,"size":500}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.PageRequest{Page: 1, Size: 100}, f.countries.lastSearch.PageRequest)
	assert.Equal(t, "jor", f.countries.lastSearch.Keyword)

	var page map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, float64(2), page["totalElements"])
	assert.Equal(t, float64(1), page["number"])
	assert.Equal(t, float64(100), page["size"])
	assert.Len(t, page["content"], 2)

	f.do(http.MethodPost, "/country/search", `{}`)
	assert.Equal(t, model.PageRequest{Page: 0, Size: 20}, f.countries.lastSearch.PageRequest)
}

func TestCountry_SearchRejectsBadStatus(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/country/search", `{"status":"gone","page":-1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.ElementsMatch(t, []errs.FieldError{
		{Field: "status", Error: "must be one of: active inactive deleted"},
		{Field: "page", Error: "must be at least 0"},
	}, decodeError(t, rec).Errors)
}

func TestSearch_RejectsPageBeyondLimit(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/country/search", "/user/search", "/partner/search", "/saved-list/search", "/candidate/search"} {
		rec := f.do(http.MethodPost, path, fmt.Sprintf(`{"page":%d,"size":100}`, model.MaxPage+1))
		require.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, []errs.FieldError{{Field: "page", Error: "must not exceed 1000000"}}, decodeError(t, rec).Errors, path)
	}

	rec := f.do(http.MethodPost, "/country/search", fmt.Sprintf(`{"page":%d}`, model.MaxPage))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(model.MaxPage)*20, f.countries.lastSearch.Offset())
}

func TestCountry_Create(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/country", `{"name":"  Syria "}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":3,"name":"Syria","status":"active"}`, rec.Body.String())
}

func TestCountry_CreateDuplicate(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/country", `{"name":"jordan"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, errs.CodeEntityExists, decodeError(t, rec).Code)
}

func TestCountry_UpdateIgnoresBodyID(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPut, "/country/2", `{"id":1,"name":"Lebanon","status":"inactive"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":2,"name":"Lebanon","status":"inactive"}`, rec.Body.String())
}

func TestCountry_Delete(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodDelete, "/country/2", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, []int64{2}, f.countries.deleted)
}

func TestUser_GetIsExtended(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/user/7", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Ann Lee", body["fullName"])
	assert.Contains(t, body, "sourceCountries")
	assert.Nil(t, body["partner"])
}

func TestUser_CreateRequiresUsername(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/user", `{"email":"a@b.org","firstName":"A","lastName":"B","role":"admin"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []errs.FieldError{{Field: "username", Error: "is required"}}, decodeError(t, rec).Errors)

	rec = f.do(http.MethodPost, "/user", `{"username":"ab","email":"a@b.org","firstName":"A","lastName":"B","role":"admin","sourceCountryIds":[1]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []model.Country{{ID: 1}}, f.users.users[1].SourceCountries)
}

func TestSavedList_CreateAttributesActor(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/saved-list", `{"name":"Nurses"}`, "X-Test-Subject", "user_2abc")
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	createdBy := body["createdBy"].(map[string]any)
	assert.Equal(t, float64(7), createdBy["id"])
	assert.Equal(t, []any{}, body["exportColumns"])
}

func TestSavedList_CreateWithoutKnownActor(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/saved-list", `{"name":"Nurses"}`, "X-Test-Subject", "user_unknown")
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Nil(t, body["createdBy"])
}

func TestSavedList_SetExportColumns(t *testing.T) {
	f := newFixture(t)
	f.lists.lists = []model.SavedList{{ID: 1, Name: "Nurses"}}

	rec := f.do(http.MethodPut, "/saved-list/1/export-columns",
		`{"columns":[{"key":"candidateNumber"},{"key":"user.email","header":"Email"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, f.lists.columns, 2)
	assert.Equal(t, model.ExportColumn{Key: "candidateNumber", Index: 0}, f.lists.columns[0])
	assert.Equal(t, 1, f.lists.columns[1].Index)
	assert.Equal(t, "Email", f.lists.columns[1].Properties.Header)

	rec = f.do(http.MethodPut, "/saved-list/1/export-columns", `{"columns":[{"key":""}]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []errs.FieldError{{Field: "columns[0].key", Error: "is required"}}, decodeError(t, rec).Errors)
}

func TestCandidate_ProjectsCountryNames(t *testing.T) {
	f := newFixture(t)
	f.candidates.candidates = []model.Candidate{{
		ID:              10,
		CandidateNumber: "C-10",
		Status:          model.CandidateStatusActive,
		CountryID:       1,
		NationalityID:   3,
	}}

	rec := f.do(http.MethodGet, "/candidate/number/C-10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]any{"id": float64(1), "name": "Jordan"}, body["country"])
	assert.Equal(t, map[string]any{"id": float64(3), "name": nil}, body["nationality"])
	assert.Nil(t, body["user"])

	rec = f.do(http.MethodPost, "/candidate/search", `{"statuses":["active"],"size":5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var page map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, float64(1), page["totalPages"])
	assert.Len(t, page["content"], 1)
}

func TestCandidate_SearchRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/candidate/search", `{"statuses":["active","retired"]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "statuses[1]", decodeError(t, rec).Errors[0].Field)
}

func TestVisaPathway_NotImplemented(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/visa-pathway/1", "")
	require.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Equal(t, "NOT_IMPLEMENTED", decodeError(t, rec).Code)
}

func TestHealth_NoDependencies(t *testing.T) {
	log := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{Observability: config.DefaultObservabilityConfig()},
		Logger: &log,
	}

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/status", nil), rec)

	require.NoError(t, NewHealthHandler(s).CheckHealth(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

func TestOpenAPI_ServesUI(t *testing.T) {
	assets := fstest.MapFS{"openapi.html": {Data: []byte("<html>docs</html>")}}

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/docs", nil), rec)

	require.NoError(t, NewOpenAPIHandler(nil, assets).ServeOpenAPIUI(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "<html>docs</html>", rec.Body.String())
}
