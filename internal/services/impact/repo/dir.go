package repo

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"impactlog/internal/core/source"
	perr "impactlog/internal/platform/errors"
)

// Dir serves exports from <root>/<project>/<app file>.csv
// every non hidden subdirectory of root is a project
type Dir struct {
	root string
}

// NewDir creates a directory catalog rooted at root
func NewDir(root string) *Dir { return &Dir{root: root} }

// Root returns the catalog directory
func (d *Dir) Root() string { return d.root }

// Projects lists project directories in name order
func (d *Dir) Projects(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ents, err := os.ReadDir(d.root)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "repo: list %s", d.root)
	}
	out := make([]string, 0, len(ents))
	for _, e := range ents {
		name := e.Name()
		if !e.IsDir() || strings.HasPrefix(name, ".") || !ValidProject(name) {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// Has reports whether project is a directory under root
func (d *Dir) Has(ctx context.Context, project string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !ValidProject(project) || strings.HasPrefix(project, ".") {
		return false, nil
	}
	fi, err := os.Stat(filepath.Join(d.root, project))
	switch {
	case err == nil:
		return fi.IsDir(), nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, perr.Wrapf(err, perr.ErrorCodeUnavailable, "repo: stat project %s", project)
	}
}

// Open opens the export file of app inside project
func (d *Dir) Open(ctx context.Context, project string, app source.App) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ValidProject(project) {
		return nil, ErrSourceMissing
	}
	f, err := os.Open(filepath.Join(d.root, project, app.FileName()))
	switch {
	case err == nil:
		return f, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, ErrSourceMissing
	default:
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "repo: open %s export for %s", app, project)
	}
}
