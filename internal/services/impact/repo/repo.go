// Package repo provides the project catalogs the impact service reads exports from
package repo

import (
	"context"
	"errors"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"impactlog/internal/core/source"
	"impactlog/internal/modkit/repokit"
	perr "impactlog/internal/platform/errors"
)

// ErrSourceMissing reports that a project has no export for a source
var ErrSourceMissing = errors.New("repo: source export missing")

// Catalog lists projects and opens their per source exports
// Open returns ErrSourceMissing when the project has no export for app
type Catalog interface {
	Projects(ctx context.Context) ([]string, error)
	Has(ctx context.Context, project string) (bool, error)
	Open(ctx context.Context, project string, app source.App) (io.ReadCloser, error)
}

// Options configures FromBaseURL
type Options struct {
	// Timeout bounds each http fetch, zero means 30s
	Timeout time.Duration

	// DB backs the postgres catalog and is required for postgres urls
	DB repokit.TxRunner
}

// FromBaseURL picks the catalog implementation from the base url scheme
//
//	file:///srv/exports or a bare path  directory tree
//	http(s)://host/prefix               remote export server
//	postgres://...                      impact_exports table through opt.DB
func FromBaseURL(raw string, opt Options) (Catalog, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, perr.InvalidArgf("repo: empty base url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "repo: parse base url")
	}

	switch strings.ToLower(u.Scheme) {
	case "", "file":
		return NewDir(dirFromURL(u, raw)), nil
	case "http", "https":
		return NewHTTP(u, opt.Timeout), nil
	case "postgres", "postgresql":
		if opt.DB == nil {
			return nil, perr.InvalidArgf("repo: postgres base url needs an open store")
		}
		return repokit.MustBind(NewPG(), opt.DB), nil
	}
	return nil, perr.InvalidArgf("repo: unsupported base url scheme %q", u.Scheme)
}

// IsPostgres reports whether raw selects the postgres catalog
func IsPostgres(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		return true
	}
	return false
}

// dirFromURL accepts file:///abs, file://./rel, file:rel and plain paths
func dirFromURL(u *url.URL, raw string) string {
	if u.Scheme == "" {
		return filepath.Clean(raw)
	}
	if u.Opaque != "" {
		return filepath.Clean(u.Opaque)
	}
	p := u.Path
	if u.Host != "" && u.Host != "localhost" {
		p = u.Host + p
	}
	if p == "" {
		p = "."
	}
	return filepath.Clean(filepath.FromSlash(p))
}

// ValidProject reports whether id is usable as a project key in every catalog
func ValidProject(id string) bool {
	if id == "" || id == "." || id == ".." || len(id) > 200 {
		return false
	}
	for _, r := range id {
		if r == '/' || r == '\\' || unicode.IsControl(r) {
			return false
		}
	}
	return true
}
