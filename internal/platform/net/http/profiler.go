package http

import (
	stdhttp "net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// MountProfiler exposes net/http/pprof under prefix, e.g. /debug/pprof/heap
func MountProfiler(r Router, prefix string, enabled bool) {
	if !enabled {
		return
	}
	prefix = "/" + strings.Trim(prefix, "/")
	pprof := stdhttp.StripPrefix(prefix, chimw.Profiler())
	for _, p := range []string{prefix, prefix + "/*"} {
		r.Get(p, pprof.ServeHTTP)
	}
}

// MountMetrics exposes a scrape handler at path
func MountMetrics(r Router, path string, scrape stdhttp.Handler, enabled bool) {
	if enabled && scrape != nil {
		r.Handle(path, scrape)
	}
}
