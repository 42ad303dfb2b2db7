package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deppfellow/talent-catalog/internal/model"
)

const userColumns = `u.id, u.username, u.email, u.first_name, u.last_name, u.role, u.status,
	u.read_only, u.using_mfa, u.partner_id, u.created_date`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// userRow is a users row before its partner is attached.
type userRow struct {
	model.User
	partnerID *int64
}

func scanUser(row pgx.CollectableRow) (userRow, error) {
	var u userRow
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Role, &u.Status,
		&u.ReadOnly, &u.UsingMFA, &u.partnerID, &u.CreatedDate,
	)
	return u, err
}

func unwrapUsers(rows []userRow) []model.User {
	users := make([]model.User, len(rows))
	for i, r := range rows {
		users[i] = r.User
	}
	return users
}

func (r *UserRepository) Search(ctx context.Context, req model.UserSearch) (model.Page[model.User], error) {
	f := &filter{}
	f.keyword(req.Keyword, "u.username", "u.email", "u.first_name", "u.last_name")
	if req.Status != "" {
		f.where("u.status = " + f.arg(req.Status))
	}
	if req.Role != "" {
		f.where("u.role = " + f.arg(req.Role))
	}
	if req.PartnerID != nil {
		f.where("u.partner_id = " + f.arg(*req.PartnerID))
	}

	total, err := count(ctx, r.db, "users u", f)
	if err != nil {
		return model.Page[model.User]{}, tableErr("users", err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users u`+f.String()+` ORDER BY u.username`+f.page(req.PageRequest), f.args...)
	if err != nil {
		return model.Page[model.User]{}, tableErr("users", err)
	}
	found, err := pgx.CollectRows(rows, scanUser)
	if err != nil {
		return model.Page[model.User]{}, tableErr("users", err)
	}

	return model.NewPage(unwrapUsers(found), total, req.PageRequest), nil
}

// Get loads a user with its partner and both sets of source countries.
func (r *UserRepository) Get(ctx context.Context, id int64) (model.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id)
	if err != nil {
		return model.User{}, tableErr("users", err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		return model.User{}, tableErr("users", err)
	}

	user := row.User
	countries, err := loadSourceCountries(ctx, r.db, "user_source_countries", "user_id", []int64{user.ID})
	if err != nil {
		return model.User{}, err
	}
	user.SourceCountries = loaded(countries[user.ID])

	if row.partnerID != nil {
		partners, err := loadPartners(ctx, r.db, []int64{*row.partnerID}, false)
		if err != nil {
			return model.User{}, err
		}
		user.Partner = partners[*row.partnerID]
	}

	return user, nil
}

// FindByUsername reports whether username is taken, ignoring case.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.User, bool, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users u WHERE lower(u.username) = lower($1) LIMIT 1`, username)
	if err != nil {
		return model.User{}, false, tableErr("users", err)
	}
	found, err := pgx.CollectRows(rows, scanUser)
	if err != nil || len(found) == 0 {
		return model.User{}, false, tableErr("users", err)
	}
	return found[0].User, true, nil
}

// Create inserts u together with its source country links. u.Partner and
// u.SourceCountries are read for their ids only.
func (r *UserRepository) Create(ctx context.Context, u model.User) (model.User, error) {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO users (username, email, first_name, last_name, role, status, read_only, using_mfa, partner_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_date`,
			u.Username, u.Email, u.FirstName, u.LastName, u.Role, u.Status, u.ReadOnly, u.UsingMFA, partnerRef(u.Partner),
		).Scan(&u.ID, &u.CreatedDate)
		if err != nil {
			return tableErr("users", err)
		}
		return replaceSourceCountries(ctx, tx, "user_source_countries", "user_id", u.ID, countryIDs(u.SourceCountries))
	})
	if err != nil {
		return model.User{}, err
	}
	return r.Get(ctx, u.ID)
}

// Update rewrites the editable columns of u and its source country links.
func (r *UserRepository) Update(ctx context.Context, u model.User) (model.User, error) {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE users SET email = $2, first_name = $3, last_name = $4, role = $5, status = $6,
				read_only = $7, using_mfa = $8, partner_id = $9
			WHERE id = $1`,
			u.ID, u.Email, u.FirstName, u.LastName, u.Role, u.Status, u.ReadOnly, u.UsingMFA, partnerRef(u.Partner),
		)
		if err := mustAffect("users", tag, err); err != nil {
			return err
		}
		return replaceSourceCountries(ctx, tx, "user_source_countries", "user_id", u.ID, countryIDs(u.SourceCountries))
	})
	if err != nil {
		return model.User{}, err
	}
	return r.Get(ctx, u.ID)
}

// loadUsers fetches users by id without partner or countries, the shape
// nested user projections need.
func loadUsers(ctx context.Context, q querier, userIDs []int64) (map[int64]*model.User, error) {
	out := make(map[int64]*model.User, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	rows, err := q.Query(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = ANY($1)`, userIDs)
	if err != nil {
		return nil, tableErr("users", err)
	}
	found, err := pgx.CollectRows(rows, scanUser)
	if err != nil {
		return nil, tableErr("users", err)
	}
	for i := range found {
		out[found[i].ID] = &found[i].User
	}
	return out, nil
}

func partnerRef(p *model.Partner) *int64 {
	if p == nil || p.ID == 0 {
		return nil
	}
	return &p.ID
}

func countryIDs(countries []model.Country) []int64 {
	return ids(countries, func(c model.Country) int64 { return c.ID })
}
