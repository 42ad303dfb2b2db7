package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/deppfellow/talent-catalog/internal/model"
	"github.com/deppfellow/talent-catalog/internal/sqlerr"
)

func TestFilter(t *testing.T) {
	f := &filter{}
	assert.Empty(t, f.String())

	f.keyword("  ", "c.name")
	assert.Empty(t, f.String(), "blank keyword adds nothing")

	f.keyword("ind", "c.name", "c.code")
	f.where("c.status = " + f.arg(model.StatusActive))
	paging := f.page(model.PageRequest{Page: 2, Size: 20})

	assert.Equal(t, " WHERE (c.name ILIKE $1 OR c.code ILIKE $1) AND c.status = $2", f.String())
	assert.Equal(t, " LIMIT $3 OFFSET $4", paging)
	assert.Equal(t, []any{"%ind%", model.StatusActive, 20, 40}, f.args)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `%100\%%`, likePattern("100%"))
	assert.Equal(t, `%a\_b%`, likePattern("a_b"))
	assert.Equal(t, `%c:\\dir%`, likePattern(`c:\dir`))
}

func TestTableErr(t *testing.T) {
	assert.NoError(t, tableErr("countries", nil))

	notFound := tableErr("countries", pgx.ErrNoRows)
	assert.ErrorIs(t, notFound, pgx.ErrNoRows)
	assert.Equal(t, sqlerr.TableMarker+"countries: no rows in result set", notFound.Error())

	other := tableErr("countries", errors.New("boom"))
	assert.Equal(t, "countries: boom", other.Error())
}

func TestMustAffect(t *testing.T) {
	assert.NoError(t, mustAffect("users", pgconn.NewCommandTag("UPDATE 1"), nil))
	assert.ErrorIs(t, mustAffect("users", pgconn.NewCommandTag("UPDATE 0"), nil), pgx.ErrNoRows)

	failure := fmt.Errorf("conn closed")
	assert.ErrorIs(t, mustAffect("users", pgconn.CommandTag{}, failure), failure)
}

func TestIDs(t *testing.T) {
	countries := []model.Country{{ID: 3}, {ID: 0}, {ID: 1}, {ID: 3}}
	assert.Equal(t, []int64{3, 1}, countryIDs(countries))
	assert.Empty(t, countryIDs(nil))
}

func TestRefs(t *testing.T) {
	assert.Nil(t, partnerRef(nil))
	assert.Nil(t, partnerRef(&model.Partner{}))
	assert.Equal(t, int64(7), *partnerRef(&model.Partner{ID: 7}))
	assert.Nil(t, userRef(nil))
	assert.Equal(t, int64(2), *userRef(&model.User{ID: 2}))
	assert.Nil(t, nonEmpty(""))
	assert.Equal(t, "x", *nonEmpty("x"))
}

func TestLoaded(t *testing.T) {
	assert.Equal(t, []model.Country{}, loaded[model.Country](nil))
	assert.NotNil(t, loaded[model.ExportColumn](nil))

	countries := []model.Country{{ID: 1}}
	assert.Equal(t, countries, loaded(countries))
}
