package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrorCodeNotFound:        http.StatusNotFound,
		ErrorCodeInvalidArgument: http.StatusUnprocessableEntity,
		ErrorCodeValidation:      http.StatusBadRequest,
		ErrorCodeJSON:            http.StatusBadRequest,
		ErrorCodeUnavailable:     http.StatusServiceUnavailable,
		ErrorCodeDB:              http.StatusInternalServerError,
		ErrorCodePanic:           http.StatusInternalServerError,
		ErrorCodeUnknown:         http.StatusInternalServerError,
		ErrorCode(999):           http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, code.Status(), "code %d", code)
	}
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(stderrs.New("plain")))
}

func TestWrap_ChainAndMessage(t *testing.T) {
	cause := stderrs.New("connection refused")
	err := Wrapf(cause, ErrorCodeUnavailable, "repo: list %s", "./data")

	assert.Equal(t, "repo: list ./data: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsCode(err, ErrorCodeUnavailable))

	outer := fmt.Errorf("service: %w", err)
	assert.Equal(t, ErrorCodeUnavailable, CodeOf(outer), "codes survive foreign wrapping")
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(outer))
	assert.Equal(t, ErrorCodeUnknown, CodeOf(cause))
}

func TestWithFieldAndOp_CopyOnWrite(t *testing.T) {
	base := InvalidArgf("invalid range")
	withField := WithField(base, "range")
	withOp := WithOp(withField, "impact: metrics")

	e, ok := As(withOp)
	require.True(t, ok)
	assert.Equal(t, "range", e.Field())
	assert.Equal(t, "impact: metrics", e.Op())

	orig, _ := As(base)
	assert.Empty(t, orig.Field(), "original untouched")
	assert.Empty(t, orig.Op())

	plain := stderrs.New("x")
	assert.Same(t, plain, WithField(plain, "f"))
	assert.Same(t, plain, WithOp(plain, "op"))
}

func TestWireFrom(t *testing.T) {
	assert.Equal(t, Wire{}, WireFrom(nil))
	assert.Equal(t,
		Wire{Code: ErrorCodeNotFound, Message: `project "acme" not found`},
		WireFrom(NotFoundf("project %q not found", "acme")))
	assert.Equal(t,
		Wire{Code: ErrorCodeValidation, Message: "bad", Field: "bucket"},
		WireFrom(WithField(New(ErrorCodeValidation, "bad"), "bucket")))

	w := WireFrom(Wrap(stderrs.New("secret dsn"), ErrorCodeDB, "repo: query"))
	assert.Equal(t, "repo: query", w.Message, "causes stay off the wire")
	assert.Equal(t, Wire{Code: ErrorCodeUnknown, Message: "boom"}, WireFrom(stderrs.New("boom")))
}

func TestSugar(t *testing.T) {
	cases := []struct {
		err  error
		code ErrorCode
	}{
		{NotFoundf("x"), ErrorCodeNotFound},
		{InvalidArgf("x"), ErrorCodeInvalidArgument},
		{JSONErrf("x"), ErrorCodeJSON},
		{PanicErrf("x"), ErrorCodePanic},
		{Unavailablef("x"), ErrorCodeUnavailable},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, CodeOf(tc.err))
	}
	var nilErr *Error
	assert.Equal(t, "<nil>", nilErr.Error())
}

func TestStackTrace(t *testing.T) {
	err := Wrap(stderrs.New("dial tcp"), ErrorCodeUnavailable, "store: ping")
	e, ok := As(err)
	require.True(t, ok)
	require.NotEmpty(t, e.StackTrace())
	assert.Contains(t, fmt.Sprintf("%+v", e.StackTrace()), "errors_test.go")

	var nilErr *Error
	assert.Nil(t, nilErr.StackTrace())
}
