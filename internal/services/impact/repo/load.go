package repo

import (
	"context"
	"errors"
	"io"
	"time"

	"impactlog/internal/core/source"
	"impactlog/internal/modkit/repokit"
	perr "impactlog/internal/platform/errors"
	"impactlog/internal/platform/store"
)

const upsertExport = `
insert into impact_exports (project_id, source, body)
values ($1, $2, $3)
on conflict (project_id, source) do update
set body = excluded.body, uploaded_at = now()`

// PutExport stores body as the app export of project, replacing an earlier upload
func PutExport(ctx context.Context, q repokit.Queryer, project string, app source.App, body []byte) error {
	if !ValidProject(project) {
		return perr.WithField(perr.InvalidArgf("repo: invalid project id %q", project), "project")
	}
	if _, err := store.Exec(ctx, q, upsertExport, project, SourceKey(app), body); err != nil {
		return perr.AttachFieldFromPg(perr.FromPostgresf(err, "repo: store %s export for %s", app, project))
	}
	return nil
}

// Copy moves every export project has in src into the postgres catalog in one tx
// it returns the apps that were copied; a project without any export is NotFound
func Copy(ctx context.Context, db repokit.TxRunner, src Catalog, project string, timeout time.Duration) ([]source.App, error) {
	bodies := make(map[source.App][]byte)
	for _, app := range source.Apps() {
		b, err := readExport(ctx, src, project, app)
		if errors.Is(err, ErrSourceMissing) {
			continue
		}
		if err != nil {
			return nil, err
		}
		bodies[app] = b
	}
	if len(bodies) == 0 {
		return nil, perr.NotFoundf("repo: project %q has no exports", project)
	}

	if err := EnsureSchema(ctx, db); err != nil {
		return nil, err
	}

	var copied []source.App
	tx := repokit.WithBeginHooks(db, repokit.StatementTimeout(timeout))
	err := repokit.WithTx(ctx, tx, func(q repokit.Queryer) error {
		for _, app := range source.Apps() {
			b, ok := bodies[app]
			if !ok {
				continue
			}
			if err := PutExport(ctx, q, project, app, b); err != nil {
				return err
			}
			copied = append(copied, app)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return copied, nil
}

func readExport(ctx context.Context, src Catalog, project string, app source.App) ([]byte, error) {
	rc, err := src.Open(ctx, project, app)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "repo: read %s export for %s", app, project)
	}
	return b, nil
}
