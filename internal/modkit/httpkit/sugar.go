package httpkit

import (
	"net/http"

	phttp "impactlog/internal/platform/net/http"
)

// Get mounts a handler that reads no body; its result is wrapped in the envelope
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, phttp.JSONHandlerNoBody(h))
}

// PostJSON mounts a handler whose body is bound and validated into T
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandler(h))
}
