// Package eventlog merges per source event slices into one ordered log
package eventlog

import (
	"cmp"
	"slices"

	"impactlog/internal/core/source"
)

// Build concatenates parts and orders the result by timestamp, then source
// precedence, then original row order. Inputs are not modified and identical
// inputs always produce an identical log
func Build(parts ...[]source.Event) []source.Event {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]source.Event, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	slices.SortStableFunc(out, Compare)
	return out
}

// Compare is the log ordering
func Compare(a, b source.Event) int {
	if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
		return c
	}
	if c := cmp.Compare(source.Precedence(a.App), source.Precedence(b.App)); c != 0 {
		return c
	}
	return cmp.Compare(a.Line, b.Line)
}
