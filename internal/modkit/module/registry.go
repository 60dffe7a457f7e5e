package module

import "sync"

// ports is filled by api.Mount as modules come up
var ports sync.Map // module name -> ports value

// Register publishes ports under name; a second call for the same name wins
func Register(name string, p any) { ports.Store(name, p) }

// PortsAs looks up name and asserts its ports to T
func PortsAs[T any](name string) (T, bool) {
	v, _ := ports.Load(name)
	t, ok := v.(T)
	return t, ok
}

// Reset forgets every registration; tests only
func Reset() { ports.Clear() }
