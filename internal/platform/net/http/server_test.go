package http_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impactlog/internal/platform/config"
	phttp "impactlog/internal/platform/net/http"
)

func TestServerOptionsFrom(t *testing.T) {
	o := phttp.ServerOptionsFrom(config.New().Prefix("NOPE_"))
	assert.Equal(t, ":4000", o.Addr)
	assert.Equal(t, 10*time.Second, o.ShutdownGrace)

	t.Setenv("SRV_PORT", ":12345")
	t.Setenv("SRV_SHUTDOWN_GRACE", "3s")
	o = phttp.ServerOptionsFrom(config.New().Prefix("SRV_"))
	assert.Equal(t, ":12345", o.Addr)
	assert.Equal(t, 3*time.Second, o.ShutdownGrace)
}

func TestNewServer_SetupAndRouter(t *testing.T) {
	assert.Equal(t, ":4000", phttp.NewServer(phttp.ServerOptions{}).Addr())

	called := false
	srv := phttp.NewServer(phttp.ServerOptions{Addr: ":12345"}, func(*chi.Mux) { called = true })
	assert.Equal(t, ":12345", srv.Addr())
	assert.True(t, called)

	srv.Router().Get("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "pong") })
	assert.Equal(t, "pong", serve(srv.Router().Mux(), http.MethodGet, "/ping").Body.String())
}

func TestServer_RunStops(t *testing.T) {
	start := func(ctx context.Context) (*phttp.Server, chan error) {
		srv := phttp.NewServer(phttp.ServerOptions{Addr: "127.0.0.1:0", ShutdownGrace: time.Second})
		done := make(chan error, 1)
		go func() { done <- srv.Run(ctx) }()
		time.Sleep(50 * time.Millisecond)
		return srv, done
	}
	wait := func(t *testing.T, done chan error) {
		t.Helper()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(3 * time.Second):
			t.Fatal("Run did not return")
		}
	}

	t.Run("shutdown", func(t *testing.T) {
		srv, done := start(context.Background())
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, srv.Shutdown(ctx))
		wait(t, done)
	})

	t.Run("cancel", func(t *testing.T) {
		ctx, stop := context.WithCancel(context.Background())
		_, done := start(ctx)
		stop()
		wait(t, done)
	})
}

func TestServer_RunReturnsListenError(t *testing.T) {
	err := phttp.NewServer(phttp.ServerOptions{Addr: "127.0.0.1:abc"}).Run(context.Background())
	assert.Error(t, err)
}
