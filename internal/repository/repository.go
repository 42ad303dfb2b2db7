// Package repository holds the SQL behind every entity.
//
// Repositories return complete entity graphs. Whatever a response projects
// (a user's partner, a list's export columns, a candidate's occupations) is
// loaded here with batched queries, so nothing downstream touches the
// database again.
//
// Lookups that find nothing wrap pgx.ErrNoRows with a "table:<name>:" marker
// so sqlerr.HandleError can name the missing entity.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/deppfellow/talent-catalog/internal/model"
	"github.com/deppfellow/talent-catalog/internal/sqlerr"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// tableErr tags err with the table it came from. Only ErrNoRows gets the
// marker sqlerr looks for; other errors just gain context.
func tableErr(table string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s%s: %w", sqlerr.TableMarker, table, err)
	}
	return fmt.Errorf("%s: %w", table, err)
}

// mustAffect turns an UPDATE or DELETE that touched nothing into ErrNoRows.
func mustAffect(table string, tag pgconn.CommandTag, err error) error {
	if err != nil {
		return tableErr(table, err)
	}
	if tag.RowsAffected() == 0 {
		return tableErr(table, pgx.ErrNoRows)
	}
	return nil
}

// filter accumulates AND-ed WHERE clauses and their positional arguments.
type filter struct {
	clauses []string
	args    []any
}

// arg registers v and returns its placeholder.
func (f *filter) arg(v any) string {
	f.args = append(f.args, v)
	return fmt.Sprintf("$%d", len(f.args))
}

func (f *filter) where(clause string) {
	f.clauses = append(f.clauses, clause)
}

// keyword matches pattern against any of columns, case-insensitively.
func (f *filter) keyword(keyword string, columns ...string) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return
	}
	p := f.arg(likePattern(keyword))
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = c + " ILIKE " + p
	}
	f.where("(" + strings.Join(parts, " OR ") + ")")
}

func (f *filter) String() string {
	if len(f.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.clauses, " AND ")
}

// page appends LIMIT and OFFSET for req.
func (f *filter) page(req model.PageRequest) string {
	return fmt.Sprintf(" LIMIT %s OFFSET %s", f.arg(req.Size), f.arg(req.Offset()))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a "contains" pattern with LIKE metacharacters escaped.
func likePattern(keyword string) string {
	return "%" + likeEscaper.Replace(keyword) + "%"
}

// count runs a COUNT(*) over from with f's conditions.
func count(ctx context.Context, q querier, from string, f *filter) (int64, error) {
	var total int64
	err := q.QueryRow(ctx, "SELECT COUNT(*) FROM "+from+f.String(), f.args...).Scan(&total)
	return total, err
}

// ids collects the distinct non-zero ids key returns for items.
func ids[T any](items []T, key func(T) int64) []int64 {
	seen := make(map[int64]struct{}, len(items))
	out := make([]int64, 0, len(items))
	for _, it := range items {
		id := key(it)
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// loaded marks a collection as fetched. A nil collection projects as null
// and an empty one as [], so graphs coming out of a repository always carry
// the empty form.
func loaded[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func derefID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
