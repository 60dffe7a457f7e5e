// Package httpkit is what modules import to mount routes; it re-exports the
// platform http seam so module code never reaches into internal/platform/net/http
package httpkit

import (
	"net/http"
	"path"

	phttp "impactlog/internal/platform/net/http"
)

type (
	Envelope = phttp.Envelope
	Response = phttp.Response
	Handler  = phttp.Handler
	Router   = phttp.Router

	// Middlewares is an ordered stack, outermost first
	Middlewares = []func(http.Handler) http.Handler
)

// MountUnder routes prefix to a subrouter carrying mw and hands it to mount
func MountUnder(r Router, prefix string, mw Middlewares, mount func(Router)) {
	r.Route(prefix, func(sub Router) {
		sub.Use(mw...)
		mount(sub)
	})
}

// MountAPI mounts under /api/<version>; slashes around version are ignored
func MountAPI(r Router, version string, mw Middlewares, mount func(Router)) {
	MountUnder(r, path.Join("/api", version), mw, mount)
}

// MountAPIV1 mounts under /api/v1
func MountAPIV1(r Router, mw Middlewares, mount func(Router)) { MountAPI(r, "v1", mw, mount) }
