package repo

import (
	"bytes"
	"context"
	"io"
	"slices"
	"strings"

	"impactlog/internal/core/source"
	"impactlog/internal/modkit/repokit"
	perr "impactlog/internal/platform/errors"
	"impactlog/internal/platform/store"
)

// Schema is the table the postgres catalog reads, one row per project and source
const Schema = `
create table if not exists impact_exports (
	project_id  text        not null,
	source      text        not null,
	body        bytea       not null,
	uploaded_at timestamptz not null default now(),
	primary key (project_id, source)
)`

type (
	// PG implements the Catalog binder using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// NewPG creates a Postgres catalog binder
func NewPG() repokit.Binder[Catalog] { return PG{} }

// Bind binds a Postgres queryer to the Catalog implementation
func (PG) Bind(q repokit.Queryer) Catalog { return &queries{q: repokit.RequireQueryer(q)} }

// SourceKey is the value stored in impact_exports.source for app
func SourceKey(app source.App) string { return strings.ToLower(app.String()) }

// EnsureSchema creates impact_exports when it is missing
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	if _, err := store.Exec(ctx, q, Schema); err != nil {
		return perr.FromPostgres(err, "repo: create impact_exports")
	}
	return nil
}

func (r *queries) Projects(ctx context.Context) ([]string, error) {
	const sql = `select distinct project_id from impact_exports order by project_id`
	ids, err := store.Many(ctx, r.q, func(row store.Row) (string, error) {
		var id string
		err := row.Scan(&id)
		return id, err
	}, sql)
	if perr.IsUndefinedTable(err) {
		// nothing was ever loaded
		return nil, nil
	}
	if err != nil {
		return nil, perr.FromPostgres(err, "repo: list projects")
	}
	return slices.DeleteFunc(ids, func(id string) bool { return !ValidProject(id) }), nil
}

func (r *queries) Has(ctx context.Context, project string) (bool, error) {
	if !ValidProject(project) {
		return false, nil
	}
	const sql = `select exists(select 1 from impact_exports where project_id = $1)`
	ok, err := store.Scalar[bool](ctx, r.q, sql, project)
	if perr.IsUndefinedTable(err) {
		return false, nil
	}
	if err != nil {
		return false, perr.FromPostgres(err, "repo: lookup project")
	}
	return ok, nil
}

func (r *queries) Open(ctx context.Context, project string, app source.App) (io.ReadCloser, error) {
	const sql = `select body from impact_exports where project_id = $1 and source = $2`
	var body []byte
	err := r.q.QueryRow(ctx, sql, project, SourceKey(app)).Scan(&body)
	switch {
	case err == nil:
		return io.NopCloser(bytes.NewReader(body)), nil
	case perr.IsNoRows(err):
		return nil, ErrSourceMissing
	default:
		return nil, perr.FromPostgresf(err, "repo: load %s export for %s", app, project)
	}
}
