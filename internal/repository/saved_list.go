package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deppfellow/talent-catalog/internal/model"
)

const savedListColumns = `s.id, s.name, s.description, s.status, s.fixed, s.global,
	s.created_by, s.created_date, s.updated_by, s.updated_date`

type SavedListRepository struct {
	db *pgxpool.Pool
}

func NewSavedListRepository(db *pgxpool.Pool) *SavedListRepository {
	return &SavedListRepository{db: db}
}

type savedListRow struct {
	model.SavedList
	createdBy *int64
	updatedBy *int64
}

func scanSavedList(row pgx.CollectableRow) (savedListRow, error) {
	var s savedListRow
	err := row.Scan(
		&s.ID, &s.Name, &s.Description, &s.Status, &s.Fixed, &s.Global,
		&s.createdBy, &s.CreatedDate, &s.updatedBy, &s.UpdatedDate,
	)
	return s, err
}

// completeSavedLists attaches owners, editors and export columns.
func completeSavedLists(ctx context.Context, q querier, rows []savedListRow) ([]model.SavedList, error) {
	userIDs := append(
		ids(rows, func(s savedListRow) int64 { return derefID(s.createdBy) }),
		ids(rows, func(s savedListRow) int64 { return derefID(s.updatedBy) })...,
	)
	users, err := loadUsers(ctx, q, userIDs)
	if err != nil {
		return nil, err
	}

	columns, err := loadExportColumns(ctx, q, ids(rows, func(s savedListRow) int64 { return s.ID }))
	if err != nil {
		return nil, err
	}

	lists := make([]model.SavedList, len(rows))
	for i, row := range rows {
		s := row.SavedList
		if row.createdBy != nil {
			s.CreatedBy = users[*row.createdBy]
		}
		if row.updatedBy != nil {
			s.UpdatedBy = users[*row.updatedBy]
		}
		s.ExportColumns = loaded(columns[s.ID])
		lists[i] = s
	}
	return lists, nil
}

func (r *SavedListRepository) Search(ctx context.Context, req model.SavedListSearch) (model.Page[model.SavedList], error) {
	f := &filter{}
	f.where("s.status <> 'deleted'")
	f.keyword(req.Keyword, "s.name", "s.description")
	if req.OwnerID != nil {
		f.where("s.created_by = " + f.arg(*req.OwnerID))
	}
	if req.Global != nil {
		f.where("s.global = " + f.arg(*req.Global))
	}

	total, err := count(ctx, r.db, "saved_lists s", f)
	if err != nil {
		return model.Page[model.SavedList]{}, tableErr("saved_lists", err)
	}

	rows, err := r.db.Query(ctx, `SELECT `+savedListColumns+` FROM saved_lists s`+f.String()+` ORDER BY s.name`+f.page(req.PageRequest), f.args...)
	if err != nil {
		return model.Page[model.SavedList]{}, tableErr("saved_lists", err)
	}
	found, err := pgx.CollectRows(rows, scanSavedList)
	if err != nil {
		return model.Page[model.SavedList]{}, tableErr("saved_lists", err)
	}

	lists, err := completeSavedLists(ctx, r.db, found)
	if err != nil {
		return model.Page[model.SavedList]{}, err
	}
	return model.NewPage(lists, total, req.PageRequest), nil
}

func (r *SavedListRepository) Get(ctx context.Context, id int64) (model.SavedList, error) {
	rows, err := r.db.Query(ctx, `SELECT `+savedListColumns+` FROM saved_lists s WHERE s.id = $1 AND s.status <> 'deleted'`, id)
	if err != nil {
		return model.SavedList{}, tableErr("saved_lists", err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, scanSavedList)
	if err != nil {
		return model.SavedList{}, tableErr("saved_lists", err)
	}

	lists, err := completeSavedLists(ctx, r.db, []savedListRow{row})
	if err != nil {
		return model.SavedList{}, err
	}
	return lists[0], nil
}

// FindByName finds a live list owned by ownerID with the given name,
// ignoring case.
func (r *SavedListRepository) FindByName(ctx context.Context, ownerID int64, name string) (model.SavedList, bool, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+savedListColumns+` FROM saved_lists s
		WHERE s.created_by = $1 AND lower(s.name) = lower($2) AND s.status <> 'deleted'
		LIMIT 1`, ownerID, name)
	if err != nil {
		return model.SavedList{}, false, tableErr("saved_lists", err)
	}
	found, err := pgx.CollectRows(rows, scanSavedList)
	if err != nil || len(found) == 0 {
		return model.SavedList{}, false, tableErr("saved_lists", err)
	}
	return found[0].SavedList, true, nil
}

func (r *SavedListRepository) Create(ctx context.Context, s model.SavedList) (model.SavedList, error) {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO saved_lists (name, description, status, fixed, global, created_by)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			s.Name, s.Description, s.Status, s.Fixed, s.Global, userRef(s.CreatedBy),
		).Scan(&s.ID)
		if err != nil {
			return tableErr("saved_lists", err)
		}
		return replaceExportColumns(ctx, tx, s.ID, s.ExportColumns)
	})
	if err != nil {
		return model.SavedList{}, err
	}
	return r.Get(ctx, s.ID)
}

// Update rewrites name, description, status and flags, stamping the editor.
// Export columns are left alone.
func (r *SavedListRepository) Update(ctx context.Context, s model.SavedList) (model.SavedList, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE saved_lists SET name = $2, description = $3, status = $4, fixed = $5, global = $6,
			updated_by = $7, updated_date = $8
		WHERE id = $1 AND status <> 'deleted'`,
		s.ID, s.Name, s.Description, s.Status, s.Fixed, s.Global, userRef(s.UpdatedBy), time.Now().UTC(),
	)
	if err := mustAffect("saved_lists", tag, err); err != nil {
		return model.SavedList{}, err
	}
	return r.Get(ctx, s.ID)
}

// SetExportColumns replaces the list's export columns, keeping their order.
func (r *SavedListRepository) SetExportColumns(ctx context.Context, id int64, editor *model.User, columns []model.ExportColumn) (model.SavedList, error) {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE saved_lists SET updated_by = $2, updated_date = $3 WHERE id = $1 AND status <> 'deleted'`,
			id, userRef(editor), time.Now().UTC(),
		)
		if err := mustAffect("saved_lists", tag, err); err != nil {
			return err
		}
		return replaceExportColumns(ctx, tx, id, columns)
	})
	if err != nil {
		return model.SavedList{}, err
	}
	return r.Get(ctx, id)
}

// Delete marks the list deleted; fixed lists are never matched.
func (r *SavedListRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE saved_lists SET status = 'deleted' WHERE id = $1 AND status <> 'deleted' AND NOT fixed`, id)
	return mustAffect("saved_lists", tag, err)
}

func loadExportColumns(ctx context.Context, q querier, listIDs []int64) (map[int64][]model.ExportColumn, error) {
	out := make(map[int64][]model.ExportColumn, len(listIDs))
	if len(listIDs) == 0 {
		return out, nil
	}

	rows, err := q.Query(ctx,
		`SELECT saved_list_id, id, column_key, column_index, header, constant
		FROM export_columns
		WHERE saved_list_id = ANY($1)
		ORDER BY saved_list_id, column_index`, listIDs)
	if err != nil {
		return nil, tableErr("export_columns", err)
	}
	defer rows.Close()

	for rows.Next() {
		var listID int64
		var c model.ExportColumn
		var header, constant *string
		if err := rows.Scan(&listID, &c.ID, &c.Key, &c.Index, &header, &constant); err != nil {
			return nil, tableErr("export_columns", err)
		}
		if header != nil || constant != nil {
			c.Properties = &model.ExportColumnProperties{}
			if header != nil {
				c.Properties.Header = *header
			}
			if constant != nil {
				c.Properties.Constant = *constant
			}
		}
		out[listID] = append(out[listID], c)
	}
	return out, tableErr("export_columns", rows.Err())
}

// replaceExportColumns rewrites the columns of list inside tx, numbering
// them by slice position.
func replaceExportColumns(ctx context.Context, tx pgx.Tx, listID int64, columns []model.ExportColumn) error {
	if _, err := tx.Exec(ctx, `DELETE FROM export_columns WHERE saved_list_id = $1`, listID); err != nil {
		return tableErr("export_columns", err)
	}
	if len(columns) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, c := range columns {
		var header, constant *string
		if c.Properties != nil {
			header, constant = nonEmpty(c.Properties.Header), nonEmpty(c.Properties.Constant)
		}
		batch.Queue(
			`INSERT INTO export_columns (saved_list_id, column_key, column_index, header, constant) VALUES ($1, $2, $3, $4, $5)`,
			listID, c.Key, i, header, constant,
		)
	}
	return tableErr("export_columns", tx.SendBatch(ctx, batch).Close())
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
