package module

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	phttp "impactlog/internal/platform/net/http"
)

type pinger interface{ Ping(context.Context) error }

type lister interface{ Projects() []string }

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type bundle struct {
	Catalog pinger
	hidden  lister
}

type fake struct {
	name  string
	ports any
}

func (f fake) MountRoutes(phttp.Router) {}
func (f fake) Ports() any               { return f.ports }
func (f fake) Name() string             { return f.name }

func TestPortsOf(t *testing.T) {
	_, ok := PortsOf[pinger](fake{name: "meta"})
	assert.False(t, ok, "nil ports")

	p, ok := PortsOf[pinger](fake{ports: okPinger{}})
	require.True(t, ok, "direct match")
	assert.NoError(t, p.Ping(context.Background()))

	_, ok = PortsOf[pinger](fake{ports: bundle{Catalog: okPinger{}}})
	assert.True(t, ok, "exported field")

	_, ok = PortsOf[pinger](fake{ports: &bundle{Catalog: okPinger{}}})
	assert.True(t, ok, "pointer to bundle")

	_, ok = PortsOf[lister](fake{ports: bundle{}})
	assert.False(t, ok, "unexported fields are skipped")

	_, ok = PortsOf[pinger](fake{ports: 42})
	assert.False(t, ok)
}

func TestMustPortsOf(t *testing.T) {
	assert.NotNil(t, MustPortsOf[pinger](fake{name: "impact", ports: okPinger{}}))
	assert.PanicsWithValue(t, "module: requested port not found on module impact", func() {
		MustPortsOf[lister](fake{name: "impact", ports: okPinger{}})
	})
}

func TestRegistry(t *testing.T) {
	t.Cleanup(Reset)

	Register("impact", okPinger{})
	p, ok := PortsAs[pinger]("impact")
	require.True(t, ok)
	assert.NotNil(t, p)

	_, ok = PortsAs[lister]("impact")
	assert.False(t, ok, "wrong type")
	_, ok = PortsAs[pinger]("meta")
	assert.False(t, ok, "missing")

	Register("impact", bundle{})
	_, ok = PortsAs[pinger]("impact")
	assert.False(t, ok, "second register replaces the first")

	Reset()
	_, ok = PortsAs[bundle]("impact")
	assert.False(t, ok)
}

func TestRegistry_Concurrent(t *testing.T) {
	t.Cleanup(Reset)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			Register(fmt.Sprintf("m%d", i%4), okPinger{})
		}()
		go func() {
			defer wg.Done()
			_, _ = PortsAs[pinger](fmt.Sprintf("m%d", i%4))
		}()
	}
	wg.Wait()
	_, ok := PortsAs[pinger]("m0")
	assert.True(t, ok)
}
