package modkit

import (
	"net/http"

	"impactlog/internal/modkit/httpkit"
	phttp "impactlog/internal/platform/net/http"
	pstrings "impactlog/internal/platform/strings"
)

// Module is the common surface for API modules that can mount routes and expose ports
type Module interface {
	// MountRoutes mounts HTTP routes under the provided router seam
	MountRoutes(r phttp.Router)
	// Ports returns a module specific port set for cross wiring, or nil
	Ports() any

	Name() string
	Prefix() string
}

// Option mutates build configuration for a module
type Option func(*buildCfg)

type buildCfg struct {
	name      string
	prefix    string
	mw        []func(http.Handler) http.Handler
	ports     any
	subrouter func(phttp.Router) phttp.Router
	register  func(phttp.Router)
}

// Built is what a module constructor reads back after applying options
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any

	// Subrouter defaults to identity and Register to a no-op
	Subrouter func(phttp.Router) phttp.Router
	Register  func(phttp.Router)
}

// Build applies opts in order; later options win except WithMiddlewares, which appends
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.subrouter == nil {
		c.subrouter = func(r phttp.Router) phttp.Router { return r }
	}
	if c.register == nil {
		c.register = func(phttp.Router) {}
	}
	return Built{
		Name:      c.name,
		Prefix:    c.prefix,
		Mw:        append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:     c.ports,
		Subrouter: c.subrouter,
		Register:  c.register,
	}
}

// WithName sets a module name used in logs and registry
func WithName(name string) Option { return func(c *buildCfg) { c.name = name } }

// WithPrefix mounts a module under a path prefix
func WithPrefix(prefix string) Option { return func(c *buildCfg) { c.prefix = prefix } }

// WithMiddlewares attaches per module middleware in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(c *buildCfg) { c.mw = append(c.mw, mw...) }
}

// WithPorts injects ports declared by another module
// meta gets the impact catalog port this way
func WithPorts[T any](p T) Option { return func(c *buildCfg) { c.ports = p } }

// WithSubrouter wraps the module router before routes are registered
func WithSubrouter(fn func(phttp.Router) phttp.Router) Option {
	return func(c *buildCfg) { c.subrouter = fn }
}

// WithRegister adds endpoints next to the module's own
func WithRegister(fn func(phttp.Router)) Option { return func(c *buildCfg) { c.register = fn } }

// Base carries the Name, Prefix and MountRoutes every module shares; embed it
type Base struct {
	built  Built
	routes func(phttp.Router)
}

// NewBase pairs a Built with the module's own route registration
func NewBase(b Built, routes func(phttp.Router)) Base { return Base{built: b, routes: routes} }

// Name panics when the module was built without one
func (m Base) Name() string { return pstrings.MustString(m.built.Name, "module name") }

func (m Base) Prefix() string { return pstrings.MustPrefix(m.built.Prefix) }

// MountRoutes opens Prefix with the module middleware, then registers own and extra routes
func (m Base) MountRoutes(r phttp.Router) {
	httpkit.MountUnder(r, m.Prefix(), m.built.Mw, func(sub phttp.Router) {
		sub = m.built.Subrouter(sub)
		if m.routes != nil {
			m.routes(sub)
		}
		m.built.Register(sub)
	})
}
