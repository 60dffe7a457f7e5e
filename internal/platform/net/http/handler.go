// Package http is the web seam: the Router interface over chi, the server
// and return style handlers that always answer with the JSON envelope
package http

import (
	"encoding/json"
	stdhttp "net/http"

	pnet "impactlog/internal/platform/net"
	"impactlog/internal/platform/net/http/bind"
)

type Envelope = pnet.Wire

// Response lets a handler choose status and headers; an error Body becomes the error envelope
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
}

// JSON encodes v with status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONHandler binds and validates the body into T, then calls fn
func JSONHandler[T any](fn func(*stdhttp.Request, T) (any, error)) Handler {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			reply(w, r, nil, err)
			return
		}
		out, err := fn(r, in)
		reply(w, r, out, err)
	}
}

// JSONHandlerNoBody calls fn without touching the body
func JSONHandlerNoBody(fn func(*stdhttp.Request) (any, error)) Handler {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		out, err := fn(r)
		reply(w, r, out, err)
	}
}

func reply(w stdhttp.ResponseWriter, r *stdhttp.Request, out any, err error) {
	resp, ok := out.(Response)
	if !ok {
		resp = Response{Body: out}
	}
	if err != nil {
		resp = Response{Body: err}
	}
	for k, vs := range resp.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}

	reqID := pnet.RequestID(r.Context())
	status, env := pnet.Reply(resp.Status, resp.Body, reqID)
	if e, isErr := resp.Body.(error); isErr && e != nil {
		status, env = pnet.Fail(e, reqID)
	}
	JSON(w, status, env)
}
