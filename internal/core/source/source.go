// Package source defines the integrated platforms, their raw row shapes and the
// canonical event every normalizer produces
package source

import (
	"strings"
)

// App identifies one of the integrated platforms
type App string

// The closed set of integrated platforms
const (
	Asana        App = "Asana"
	Jira         App = "Jira"
	Zapier       App = "Zapier"
	HubSpot      App = "HubSpot"
	Microsoft365 App = "Microsoft365"
)

// apps is the fixed precedence order used for deterministic tie breaks
var apps = [...]App{Asana, Jira, Zapier, HubSpot, Microsoft365}

// Apps returns every App in precedence order
// callers get a fresh slice and may mutate it
func Apps() []App {
	out := make([]App, len(apps))
	copy(out, apps[:])
	return out
}

// Precedence returns the tie break rank of a, lower sorts first
// unknown apps sort after every known one
func Precedence(a App) int {
	for i, x := range apps {
		if x == a {
			return i
		}
	}
	return len(apps)
}

// Valid reports whether a is one of the closed set
func (a App) Valid() bool { return Precedence(a) < len(apps) }

// String implements fmt.Stringer
func (a App) String() string { return string(a) }

// FileName is the conventional export file name for a within a project
func (a App) FileName() string {
	return strings.ToLower(string(a)) + ".csv"
}

// ParseApp resolves a case-insensitive app name, also accepting the
// "m365" and "microsoft 365" spellings used by exports
func ParseApp(s string) (App, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(key)
	switch key {
	case "asana":
		return Asana, true
	case "jira":
		return Jira, true
	case "zapier":
		return Zapier, true
	case "hubspot":
		return HubSpot, true
	case "microsoft365", "m365", "office365", "o365":
		return Microsoft365, true
	}
	return "", false
}

// Keyed returns a map with every App present and set to zero
func Keyed[T any]() map[App]T {
	out := make(map[App]T, len(apps))
	for _, a := range apps {
		var zero T
		out[a] = zero
	}
	return out
}
