package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impactlog/internal/core/rulepack"
	perr "impactlog/internal/platform/errors"
	phttp "impactlog/internal/platform/net/http"
	"impactlog/internal/services/impact/domain"
)

type fakeSvc struct {
	projects []string
	err      error
	seen     []domain.MetricsInput
}

func (f *fakeSvc) Projects(context.Context) (domain.ProjectsResponse, error) {
	return domain.ProjectsResponse{Projects: f.projects}, f.err
}

func (f *fakeSvc) Metrics(_ context.Context, in domain.MetricsInput) (domain.MetricsResponse, error) {
	f.seen = append(f.seen, in)
	if f.err != nil {
		return domain.MetricsResponse{}, f.err
	}
	if in.Project == "does-not-exist" {
		return domain.MetricsResponse{}, perr.Wrapf(domain.ErrProjectNotFound, perr.ErrorCodeNotFound, "project %q not found", in.Project)
	}
	return domain.MetricsResponse{Project: in.Project, Bucket: "week", Events: 3}, nil
}

func (f *fakeSvc) Rules(context.Context) (*domain.RulesResponse, error) {
	return rulepack.Default()
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Code       perr.ErrorCode  `json:"code"`
	Error      string          `json:"error"`
	Field      string          `json:"field"`
	Data       json.RawMessage `json:"data"`
}

func serve(t *testing.T, s *fakeSvc, method, path, body string) (int, envelope) {
	t.Helper()
	mux := chi.NewRouter()
	phttp.AdaptChi(mux).Route("/impact", func(r phttp.Router) { Register(r, s) })

	var req *stdhttp.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	assert.Equal(t, rec.Code, env.StatusCode)
	return rec.Code, env
}

func TestProjects(t *testing.T) {
	code, env := serve(t, &fakeSvc{projects: []string{"acme", "globex"}}, stdhttp.MethodGet, "/impact/projects", "")
	require.Equal(t, stdhttp.StatusOK, code)

	var got domain.ProjectsResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, []string{"acme", "globex"}, got.Projects)
}

func TestProjects_CatalogDown(t *testing.T) {
	code, env := serve(t, &fakeSvc{err: perr.Unavailablef("catalog unavailable")}, stdhttp.MethodGet, "/impact/projects", "")
	assert.Equal(t, stdhttp.StatusServiceUnavailable, code)
	assert.Equal(t, perr.ErrorCodeUnavailable, env.Code)
}

func TestMetrics_OK(t *testing.T) {
	s := &fakeSvc{}
	body := `{"project":"acme","range":{"start":"2025-03-01","end":"2025-04-01"},"bucket":"day","hourly_rate":80,"tool_costs":{"Zapier":20}}`
	code, env := serve(t, s, stdhttp.MethodPost, "/impact/metrics", body)
	require.Equal(t, stdhttp.StatusOK, code)

	var got domain.MetricsResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "acme", got.Project)

	require.Len(t, s.seen, 1)
	in := s.seen[0]
	require.NotNil(t, in.Range)
	assert.Equal(t, "2025-03-01", in.Range.Start)
	assert.Equal(t, "day", in.Bucket)
	assert.InDelta(t, 80.0, in.HourlyRate, 1e-9)
	assert.Equal(t, map[string]float64{"Zapier": 20}, in.ToolCosts)
}

func TestMetrics_ProjectNotFound(t *testing.T) {
	code, env := serve(t, &fakeSvc{}, stdhttp.MethodPost, "/impact/metrics", `{"project":"does-not-exist"}`)
	assert.Equal(t, stdhttp.StatusNotFound, code)
	assert.Equal(t, perr.ErrorCodeNotFound, env.Code)
	assert.Contains(t, env.Error, "does-not-exist")
}

func TestMetrics_InvalidRangeFromService(t *testing.T) {
	s := &fakeSvc{err: perr.WithField(perr.InvalidArgf("invalid range"), "range")}
	code, env := serve(t, s, stdhttp.MethodPost, "/impact/metrics", `{"project":"acme","range":{"start":"2025-04-01","end":"2025-03-01"}}`)
	assert.Equal(t, stdhttp.StatusUnprocessableEntity, code)
	assert.Equal(t, "range", env.Field)
}

func TestMetrics_BodyRejected(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"malformed json", `{"project":`, ""},
		{"unknown field", `{"project":"acme","tenant":"x"}`, ""},
		{"missing project", `{"bucket":"week"}`, "project"},
		{"bad bucket", `{"project":"acme","bucket":"month"}`, "bucket"},
		{"negative rate", `{"project":"acme","hourly_rate":-1}`, "hourly_rate"},
		{"unknown app", `{"project":"acme","tool_costs":{"Trello":5}}`, "tool_costs[Trello]"},
		{"negative cost", `{"project":"acme","tool_costs":{"Jira":-5}}`, "tool_costs[Jira]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &fakeSvc{}
			code, env := serve(t, s, stdhttp.MethodPost, "/impact/metrics", tc.body)
			assert.Equal(t, stdhttp.StatusBadRequest, code)
			assert.Equal(t, tc.field, env.Field)
			assert.Empty(t, s.seen, "service must not be called")
		})
	}
}

func TestRules(t *testing.T) {
	code, env := serve(t, &fakeSvc{}, stdhttp.MethodGet, "/impact/rules", "")
	require.Equal(t, stdhttp.StatusOK, code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Contains(t, got, "rules")
	assert.Contains(t, got, "heuristics")
}
