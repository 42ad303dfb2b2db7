package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deppfellow/talent-catalog/internal/model"
)

const countryColumns = "c.id, c.name, c.status"

type CountryRepository struct {
	db *pgxpool.Pool
}

func NewCountryRepository(db *pgxpool.Pool) *CountryRepository {
	return &CountryRepository{db: db}
}

func scanCountry(row pgx.CollectableRow) (model.Country, error) {
	var c model.Country
	err := row.Scan(&c.ID, &c.Name, &c.Status)
	return c, err
}

// List returns every country that is not deleted, by name.
func (r *CountryRepository) List(ctx context.Context) ([]model.Country, error) {
	rows, err := r.db.Query(ctx, `SELECT `+countryColumns+` FROM countries c WHERE c.status <> 'deleted' ORDER BY c.name`)
	if err != nil {
		return nil, tableErr("countries", err)
	}
	countries, err := pgx.CollectRows(rows, scanCountry)
	return countries, tableErr("countries", err)
}

func (r *CountryRepository) Search(ctx context.Context, req model.CountrySearch) (model.Page[model.Country], error) {
	f := &filter{}
	f.keyword(req.Keyword, "c.name")
	if req.Status != "" {
		f.where("c.status = " + f.arg(req.Status))
	} else {
		f.where("c.status <> 'deleted'")
	}

	total, err := count(ctx, r.db, "countries c", f)
	if err != nil {
		return model.Page[model.Country]{}, tableErr("countries", err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+countryColumns+` FROM countries c`+f.String()+` ORDER BY c.name`+f.page(req.PageRequest), f.args...)
	if err != nil {
		return model.Page[model.Country]{}, tableErr("countries", err)
	}
	countries, err := pgx.CollectRows(rows, scanCountry)
	if err != nil {
		return model.Page[model.Country]{}, tableErr("countries", err)
	}

	return model.NewPage(countries, total, req.PageRequest), nil
}

func (r *CountryRepository) Get(ctx context.Context, id int64) (model.Country, error) {
	rows, err := r.db.Query(ctx, `SELECT `+countryColumns+` FROM countries c WHERE c.id = $1`, id)
	if err != nil {
		return model.Country{}, tableErr("countries", err)
	}
	country, err := pgx.CollectExactlyOneRow(rows, scanCountry)
	return country, tableErr("countries", err)
}

// FindByName looks a country up by name, ignoring case. ok is false when
// none matches.
func (r *CountryRepository) FindByName(ctx context.Context, name string) (model.Country, bool, error) {
	rows, err := r.db.Query(ctx, `SELECT `+countryColumns+` FROM countries c WHERE lower(c.name) = lower($1) LIMIT 1`, name)
	if err != nil {
		return model.Country{}, false, tableErr("countries", err)
	}
	countries, err := pgx.CollectRows(rows, scanCountry)
	if err != nil || len(countries) == 0 {
		return model.Country{}, false, tableErr("countries", err)
	}
	return countries[0], true, nil
}

func (r *CountryRepository) Create(ctx context.Context, c model.Country) (model.Country, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO countries (name, status) VALUES ($1, $2) RETURNING id`,
		c.Name, c.Status,
	).Scan(&c.ID)
	return c, tableErr("countries", err)
}

func (r *CountryRepository) Update(ctx context.Context, c model.Country) (model.Country, error) {
	tag, err := r.db.Exec(ctx, `UPDATE countries SET name = $2, status = $3 WHERE id = $1`, c.ID, c.Name, c.Status)
	return c, mustAffect("countries", tag, err)
}

func (r *CountryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM countries WHERE id = $1`, id)
	return mustAffect("countries", tag, err)
}

// Names maps the id of every country, deleted ones included, to its name.
func (r *CountryRepository) Names(ctx context.Context) (map[int64]string, error) {
	rows, err := r.db.Query(ctx, `SELECT `+countryColumns+` FROM countries c`)
	if err != nil {
		return nil, tableErr("countries", err)
	}
	countries, err := pgx.CollectRows(rows, scanCountry)
	if err != nil {
		return nil, tableErr("countries", err)
	}

	names := make(map[int64]string, len(countries))
	for _, c := range countries {
		names[c.ID] = c.Name
	}
	return names, nil
}

// loadSourceCountries returns, per owner id, the countries linked through
// table (user_source_countries or partner_source_countries).
func loadSourceCountries(ctx context.Context, q querier, table, ownerColumn string, owners []int64) (map[int64][]model.Country, error) {
	out := make(map[int64][]model.Country, len(owners))
	if len(owners) == 0 {
		return out, nil
	}

	rows, err := q.Query(ctx,
		`SELECT l.`+ownerColumn+`, `+countryColumns+`
		FROM `+table+` l JOIN countries c ON c.id = l.country_id
		WHERE l.`+ownerColumn+` = ANY($1)
		ORDER BY c.name`, owners)
	if err != nil {
		return nil, tableErr(table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var owner int64
		var c model.Country
		if err := rows.Scan(&owner, &c.ID, &c.Name, &c.Status); err != nil {
			return nil, tableErr(table, err)
		}
		out[owner] = append(out[owner], c)
	}
	return out, tableErr(table, rows.Err())
}

// replaceSourceCountries rewrites owner's country links inside tx.
func replaceSourceCountries(ctx context.Context, tx pgx.Tx, table, ownerColumn string, owner int64, countryIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE `+ownerColumn+` = $1`, owner); err != nil {
		return tableErr(table, err)
	}
	if len(countryIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO `+table+` (`+ownerColumn+`, country_id)
		SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`, owner, countryIDs)
	return tableErr(table, err)
}
