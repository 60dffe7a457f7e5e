package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.RowsDropped("Jira", "timestamp", 3)
	m.RowsDropped("Jira", "timestamp", 0)
	m.RowsDropped("Jira", "duration", 1)
	m.SourceUnavailable("Asana", "missing")
	m.SourceUnavailable("Asana", "missing")
	m.Events("Zapier", 12)
	m.Aggregation("ok")

	assert.Equal(t, 3.0, testutil.ToFloat64(m.rowsDropped.WithLabelValues("Jira", "timestamp")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rowsDropped.WithLabelValues("Jira", "duration")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sourcesUnavailable.WithLabelValues("Asana", "missing")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.events.WithLabelValues("Zapier")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.aggregations.WithLabelValues("ok")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RowsDropped("Jira", "timestamp", 1)
	m.SourceUnavailable("Jira", "missing")
	m.Events("Jira", 1)
	m.Aggregation("ok")
	m.ObserveRequest(http.MethodGet, 200, time.Millisecond)
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerExposesSeries(t *testing.T) {
	m := New()
	m.RowsDropped("HubSpot", "identifier", 2)
	m.ObserveRequest(http.MethodPost, 200, 20*time.Millisecond)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	res, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	out := string(body)
	assert.True(t, strings.Contains(out, `impactlog_rows_dropped_total{reason="identifier",source="HubSpot"} 2`), out)
	assert.Contains(t, out, `impactlog_http_request_duration_seconds_count{method="POST",status="200"} 1`)
	assert.Contains(t, out, "go_goroutines")
}
