// Package net holds the transport neutral pieces of the HTTP layer: the
// response envelope and the request id carried on the context
package net

import (
	"context"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	perr "impactlog/internal/platform/errors"
)

// Wire is the body of every response. Data is set on success; Code, Error and Field on failure.
type Wire struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

func envelope(status int, reqID string) Wire {
	return Wire{StatusCode: status, Status: http.StatusText(status), RequestID: reqID}
}

// Reply wraps data; status 0 is 200
func Reply(status int, data any, reqID string) (int, Wire) {
	if status == 0 {
		status = http.StatusOK
	}
	w := envelope(status, reqID)
	w.Data = data
	return status, w
}

// Fail renders err at the status its code maps to; nil is a bare 200
func Fail(err error, reqID string) (int, Wire) {
	if err == nil {
		return Reply(0, nil, reqID)
	}
	status := perr.HTTPStatus(err)
	pub := perr.WireFrom(err)
	w := envelope(status, reqID)
	w.Code, w.Error, w.Field = pub.Code, pub.Message, pub.Field
	return status, w
}

// WithRequest stores reqID under chi's request id key; "" leaves ctx alone
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, reqID)
}

func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }
