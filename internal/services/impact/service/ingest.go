package service

import (
	"context"
	"errors"
	"io"

	"golang.org/x/sync/errgroup"

	"impactlog/internal/adapters/ingest/export"
	"impactlog/internal/core/source"
	"impactlog/internal/services/impact/domain"
	"impactlog/internal/services/impact/repo"
)

// fetched is what one source contributed before normalization
type fetched struct {
	batch     source.Batch
	malformed int
	reason    string // non empty when the source is unavailable
}

// fetchAll reads every source of project concurrently and joins before returning
// missing exports and unusable headers make a source unavailable; any other
// catalog or read failure aborts the whole run
func (s *Svc) fetchAll(ctx context.Context, project string) (source.Batch, map[source.App]fetched, error) {
	apps := source.Apps()
	parts := make([]fetched, len(apps))

	g, gctx := errgroup.WithContext(ctx)
	for i, app := range apps {
		g.Go(func() error {
			f, err := s.fetchOne(gctx, project, app)
			if err != nil {
				return err
			}
			parts[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return source.Batch{}, nil, err
	}

	var all source.Batch
	byApp := make(map[source.App]fetched, len(apps))
	for i, app := range apps {
		all.Merge(parts[i].batch)
		byApp[app] = parts[i]
	}
	return all, byApp, nil
}

func (s *Svc) fetchOne(ctx context.Context, project string, app source.App) (fetched, error) {
	rc, err := s.catalog.Open(ctx, project, app)
	if errors.Is(err, repo.ErrSourceMissing) {
		return fetched{reason: domain.ReasonMissing}, nil
	}
	if err != nil {
		return fetched{}, unavailable(err, "open "+app.String())
	}
	defer closeQuietly(rc)

	var f fetched
	st, err := export.Read(app, rc, &f.batch)
	var mc *export.MissingColumnsError
	switch {
	case err == nil:
		f.malformed = st.Malformed
		return f, nil
	case errors.As(err, &mc):
		s.log.Warn().Str("project", project).Str("source", app.String()).Strs("columns", mc.Columns).Msg("export missing required columns")
		return fetched{reason: domain.ReasonColumns}, nil
	case errors.Is(err, export.ErrEmpty):
		return fetched{reason: domain.ReasonEmpty}, nil
	default:
		return fetched{}, unavailable(err, "read "+app.String())
	}
}

func closeQuietly(c io.Closer) { _ = c.Close() }
