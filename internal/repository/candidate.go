package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deppfellow/talent-catalog/internal/model"
)

const candidateColumns = `c.id, c.candidate_number, c.status, c.gender, c.dob, c.city, c.state, c.phone,
	COALESCE(c.country_id, 0), COALESCE(c.nationality_id, 0), c.user_id, c.updated_date`

type CandidateRepository struct {
	db *pgxpool.Pool
}

func NewCandidateRepository(db *pgxpool.Pool) *CandidateRepository {
	return &CandidateRepository{db: db}
}

type candidateRow struct {
	model.Candidate
	userID *int64
}

func scanCandidate(row pgx.CollectableRow) (candidateRow, error) {
	var c candidateRow
	err := row.Scan(
		&c.ID, &c.CandidateNumber, &c.Status, &c.Gender, &c.Dob, &c.City, &c.State, &c.Phone,
		&c.CountryID, &c.NationalityID, &c.userID, &c.UpdatedDate,
	)
	return c, err
}

// completeCandidates attaches accounts and occupations.
func completeCandidates(ctx context.Context, q querier, rows []candidateRow) ([]model.Candidate, error) {
	users, err := loadUsers(ctx, q, ids(rows, func(c candidateRow) int64 { return derefID(c.userID) }))
	if err != nil {
		return nil, err
	}

	occupations, err := loadCandidateOccupations(ctx, q, ids(rows, func(c candidateRow) int64 { return c.ID }))
	if err != nil {
		return nil, err
	}

	candidates := make([]model.Candidate, len(rows))
	for i, row := range rows {
		c := row.Candidate
		if row.userID != nil {
			c.User = users[*row.userID]
		}
		c.Occupations = loaded(occupations[c.ID])
		candidates[i] = c
	}
	return candidates, nil
}

// Search matches the keyword against the candidate number, city and the
// linked account's names and email.
func (r *CandidateRepository) Search(ctx context.Context, req model.CandidateSearch) (model.Page[model.Candidate], error) {
	const from = "candidates c LEFT JOIN users u ON u.id = c.user_id"

	f := &filter{}
	f.keyword(req.Keyword, "c.candidate_number", "c.city", "u.first_name", "u.last_name", "u.email")
	if len(req.Statuses) > 0 {
		statuses := make([]string, len(req.Statuses))
		for i, s := range req.Statuses {
			statuses[i] = string(s)
		}
		f.where("c.status = ANY(" + f.arg(statuses) + ")")
	} else {
		f.where("c.status <> 'deleted'")
	}
	if len(req.NationalityIDs) > 0 {
		f.where("c.nationality_id = ANY(" + f.arg(req.NationalityIDs) + ")")
	}

	total, err := count(ctx, r.db, from, f)
	if err != nil {
		return model.Page[model.Candidate]{}, tableErr("candidates", err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+candidateColumns+` FROM `+from+f.String()+` ORDER BY c.id DESC`+f.page(req.PageRequest), f.args...)
	if err != nil {
		return model.Page[model.Candidate]{}, tableErr("candidates", err)
	}
	found, err := pgx.CollectRows(rows, scanCandidate)
	if err != nil {
		return model.Page[model.Candidate]{}, tableErr("candidates", err)
	}

	candidates, err := completeCandidates(ctx, r.db, found)
	if err != nil {
		return model.Page[model.Candidate]{}, err
	}
	return model.NewPage(candidates, total, req.PageRequest), nil
}

func (r *CandidateRepository) Get(ctx context.Context, id int64) (model.Candidate, error) {
	return r.getOne(ctx, `c.id = $1`, id)
}

func (r *CandidateRepository) GetByNumber(ctx context.Context, number string) (model.Candidate, error) {
	return r.getOne(ctx, `c.candidate_number = $1`, number)
}

func (r *CandidateRepository) getOne(ctx context.Context, cond string, arg any) (model.Candidate, error) {
	rows, err := r.db.Query(ctx, `SELECT `+candidateColumns+` FROM candidates c WHERE `+cond, arg)
	if err != nil {
		return model.Candidate{}, tableErr("candidates", err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, scanCandidate)
	if err != nil {
		return model.Candidate{}, tableErr("candidates", err)
	}

	candidates, err := completeCandidates(ctx, r.db, []candidateRow{row})
	if err != nil {
		return model.Candidate{}, err
	}
	return candidates[0], nil
}

func loadCandidateOccupations(ctx context.Context, q querier, candidateIDs []int64) (map[int64][]model.CandidateOccupation, error) {
	out := make(map[int64][]model.CandidateOccupation, len(candidateIDs))
	if len(candidateIDs) == 0 {
		return out, nil
	}

	rows, err := q.Query(ctx,
		`SELECT co.candidate_id, co.id, co.years_experience, o.id, o.name
		FROM candidate_occupations co JOIN occupations o ON o.id = co.occupation_id
		WHERE co.candidate_id = ANY($1)
		ORDER BY co.candidate_id, co.id`, candidateIDs)
	if err != nil {
		return nil, tableErr("candidate_occupations", err)
	}
	defer rows.Close()

	for rows.Next() {
		var candidateID int64
		var co model.CandidateOccupation
		if err := rows.Scan(&candidateID, &co.ID, &co.YearsExperience, &co.Occupation.ID, &co.Occupation.Name); err != nil {
			return nil, tableErr("candidate_occupations", err)
		}
		out[candidateID] = append(out[candidateID], co)
	}
	return out, tableErr("candidate_occupations", rows.Err())
}
