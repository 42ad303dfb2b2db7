package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deppfellow/talent-catalog/internal/model"
)

const partnerColumns = `p.id, p.name, p.abbreviation, p.status, p.website_url, p.auto_assignable,
	p.default_source_partner, p.default_contact_id`

type PartnerRepository struct {
	db *pgxpool.Pool
}

func NewPartnerRepository(db *pgxpool.Pool) *PartnerRepository {
	return &PartnerRepository{db: db}
}

type partnerRow struct {
	model.Partner
	contactID *int64
}

func scanPartner(row pgx.CollectableRow) (partnerRow, error) {
	var p partnerRow
	err := row.Scan(
		&p.ID, &p.Name, &p.Abbreviation, &p.Status, &p.WebsiteURL, &p.AutoAssignable,
		&p.DefaultSourcePartner, &p.contactID,
	)
	return p, err
}

// completePartners attaches source countries to every partner and, when
// withContact is set, the default contact.
func completePartners(ctx context.Context, q querier, rows []partnerRow, withContact bool) ([]model.Partner, error) {
	partnerIDs := ids(rows, func(p partnerRow) int64 { return p.ID })
	countries, err := loadSourceCountries(ctx, q, "partner_source_countries", "partner_id", partnerIDs)
	if err != nil {
		return nil, err
	}

	var contacts map[int64]*model.User
	if withContact {
		contacts, err = loadUsers(ctx, q, ids(rows, func(p partnerRow) int64 { return derefID(p.contactID) }))
		if err != nil {
			return nil, err
		}
	}

	partners := make([]model.Partner, len(rows))
	for i, row := range rows {
		p := row.Partner
		p.SourceCountries = loaded(countries[p.ID])
		if row.contactID != nil {
			p.DefaultContact = contacts[*row.contactID]
		}
		partners[i] = p
	}
	return partners, nil
}

func (r *PartnerRepository) List(ctx context.Context) ([]model.Partner, error) {
	rows, err := r.db.Query(ctx, `SELECT `+partnerColumns+` FROM partners p WHERE p.status <> 'deleted' ORDER BY p.name`)
	if err != nil {
		return nil, tableErr("partners", err)
	}
	found, err := pgx.CollectRows(rows, scanPartner)
	if err != nil {
		return nil, tableErr("partners", err)
	}
	return completePartners(ctx, r.db, found, false)
}

func (r *PartnerRepository) Search(ctx context.Context, req model.PartnerSearch) (model.Page[model.Partner], error) {
	f := &filter{}
	f.keyword(req.Keyword, "p.name", "p.abbreviation")
	if req.Status != "" {
		f.where("p.status = " + f.arg(req.Status))
	}

	total, err := count(ctx, r.db, "partners p", f)
	if err != nil {
		return model.Page[model.Partner]{}, tableErr("partners", err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+partnerColumns+` FROM partners p`+f.String()+` ORDER BY p.name`+f.page(req.PageRequest), f.args...)
	if err != nil {
		return model.Page[model.Partner]{}, tableErr("partners", err)
	}
	found, err := pgx.CollectRows(rows, scanPartner)
	if err != nil {
		return model.Page[model.Partner]{}, tableErr("partners", err)
	}

	partners, err := completePartners(ctx, r.db, found, false)
	if err != nil {
		return model.Page[model.Partner]{}, err
	}
	return model.NewPage(partners, total, req.PageRequest), nil
}

// Get loads a partner with its source countries and default contact.
func (r *PartnerRepository) Get(ctx context.Context, id int64) (model.Partner, error) {
	partners, err := loadPartners(ctx, r.db, []int64{id}, true)
	if err != nil {
		return model.Partner{}, err
	}
	p, ok := partners[id]
	if !ok {
		return model.Partner{}, tableErr("partners", pgx.ErrNoRows)
	}
	return *p, nil
}

func (r *PartnerRepository) FindByName(ctx context.Context, name string) (model.Partner, bool, error) {
	rows, err := r.db.Query(ctx, `SELECT `+partnerColumns+` FROM partners p WHERE lower(p.name) = lower($1) LIMIT 1`, name)
	if err != nil {
		return model.Partner{}, false, tableErr("partners", err)
	}
	found, err := pgx.CollectRows(rows, scanPartner)
	if err != nil || len(found) == 0 {
		return model.Partner{}, false, tableErr("partners", err)
	}
	return found[0].Partner, true, nil
}

// Create inserts p with its source country links. p.DefaultContact and
// p.SourceCountries are read for their ids only.
func (r *PartnerRepository) Create(ctx context.Context, p model.Partner) (model.Partner, error) {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO partners (name, abbreviation, status, website_url, auto_assignable, default_source_partner, default_contact_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			p.Name, p.Abbreviation, p.Status, p.WebsiteURL, p.AutoAssignable, p.DefaultSourcePartner, userRef(p.DefaultContact),
		).Scan(&p.ID)
		if err != nil {
			return tableErr("partners", err)
		}
		return replaceSourceCountries(ctx, tx, "partner_source_countries", "partner_id", p.ID, countryIDs(p.SourceCountries))
	})
	if err != nil {
		return model.Partner{}, err
	}
	return r.Get(ctx, p.ID)
}

func (r *PartnerRepository) Update(ctx context.Context, p model.Partner) (model.Partner, error) {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE partners SET name = $2, abbreviation = $3, status = $4, website_url = $5,
				auto_assignable = $6, default_source_partner = $7, default_contact_id = $8
			WHERE id = $1`,
			p.ID, p.Name, p.Abbreviation, p.Status, p.WebsiteURL, p.AutoAssignable, p.DefaultSourcePartner, userRef(p.DefaultContact),
		)
		if err := mustAffect("partners", tag, err); err != nil {
			return err
		}
		return replaceSourceCountries(ctx, tx, "partner_source_countries", "partner_id", p.ID, countryIDs(p.SourceCountries))
	})
	if err != nil {
		return model.Partner{}, err
	}
	return r.Get(ctx, p.ID)
}

// loadPartners fetches partners by id, complete with source countries and,
// if withContact, the default contact.
func loadPartners(ctx context.Context, q querier, partnerIDs []int64, withContact bool) (map[int64]*model.Partner, error) {
	out := make(map[int64]*model.Partner, len(partnerIDs))
	if len(partnerIDs) == 0 {
		return out, nil
	}

	rows, err := q.Query(ctx, `SELECT `+partnerColumns+` FROM partners p WHERE p.id = ANY($1)`, partnerIDs)
	if err != nil {
		return nil, tableErr("partners", err)
	}
	found, err := pgx.CollectRows(rows, scanPartner)
	if err != nil {
		return nil, tableErr("partners", err)
	}

	partners, err := completePartners(ctx, q, found, withContact)
	if err != nil {
		return nil, err
	}
	for i := range partners {
		out[partners[i].ID] = &partners[i]
	}
	return out, nil
}

func userRef(u *model.User) *int64 {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &u.ID
}
