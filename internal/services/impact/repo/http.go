package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"impactlog/internal/core/source"
	perr "impactlog/internal/platform/errors"
)

const (
	defaultFetchTimeout = 30 * time.Second
	userAgent           = "impactlog-catalog"
	maxProjectList      = 4 << 20
)

// HTTP reads exports from a remote server
//
//	GET {base}/projects              json array of project ids
//	GET {base}/projects/{id}/{file}  csv export, 404 when absent
type HTTP struct {
	base   *url.URL
	Client *http.Client
}

// NewHTTP creates an http catalog; timeout bounds each request
func NewHTTP(base *url.URL, timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	b := *base
	b.Path = strings.TrimSuffix(b.Path, "/")
	return &HTTP{base: &b, Client: &http.Client{Timeout: timeout}}
}

func (h *HTTP) endpoint(parts ...string) string {
	u := *h.base
	for _, p := range parts {
		u.Path += "/" + p
	}
	u.RawPath = ""
	return u.String()
}

func (h *HTTP) get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "repo: new request")
	}
	req.Header.Set("User-Agent", userAgent)
	res, err := h.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "repo: fetch %s", target)
	}
	return res, nil
}

// Projects fetches the project list
func (h *HTTP) Projects(ctx context.Context) ([]string, error) {
	target := h.endpoint("projects")
	res, err := h.get(ctx, target)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, unexpected(res, target)
	}
	var ids []string
	if err := json.NewDecoder(io.LimitReader(res.Body, maxProjectList)).Decode(&ids); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "repo: decode project list")
	}
	out := ids[:0]
	for _, id := range ids {
		if ValidProject(id) {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// Has reports whether the server lists project
func (h *HTTP) Has(ctx context.Context, project string) (bool, error) {
	if !ValidProject(project) {
		return false, nil
	}
	ids, err := h.Projects(ctx)
	if err != nil {
		return false, err
	}
	_, ok := slices.BinarySearch(ids, project)
	return ok, nil
}

// Open streams the export of app inside project
// the caller closes the body
func (h *HTTP) Open(ctx context.Context, project string, app source.App) (io.ReadCloser, error) {
	if !ValidProject(project) {
		return nil, ErrSourceMissing
	}
	target := h.endpoint("projects", project, app.FileName())
	res, err := h.get(ctx, target)
	if err != nil {
		return nil, err
	}
	switch res.StatusCode {
	case http.StatusOK:
		return res.Body, nil
	case http.StatusNotFound, http.StatusGone:
		_ = drain(res.Body)
		return nil, ErrSourceMissing
	default:
		return nil, unexpected(res, target)
	}
}

// unexpected closes res and maps its status to an unavailable error with a short body tail
func unexpected(res *http.Response, target string) error {
	tail, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	_ = res.Body.Close()
	return perr.Newf(perr.ErrorCodeUnavailable, "repo: unexpected status %d for %s: %s",
		res.StatusCode, target, strings.TrimSpace(string(tail)))
}

func drain(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 64<<10))
	return rc.Close()
}

// String is the base url, handy in logs
func (h *HTTP) String() string { return fmt.Sprint(h.base) }
