package source

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Unassigned is the actor recorded when a row names nobody
const Unassigned = "unassigned"

// eventNS namespaces synthetic event ids so they never collide with ids minted elsewhere
var eventNS = uuid.NewSHA1(uuid.NameSpaceURL, []byte("impactlog:event"))

// Event is the canonical record every normalizer emits
type Event struct {
	ID            uuid.UUID         `json:"id"`
	App           App               `json:"source_app"`
	Timestamp     time.Time         `json:"timestamp"`
	Actor         string            `json:"actor"`
	Automated     bool              `json:"automation_flag"`
	DurationHours *float64          `json:"duration_hours,omitempty"`
	Category      string            `json:"category,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`

	// Line is the 1-based row position inside the source export
	Line int `json:"-"`
}

// EventID builds a deterministic id from the app, row position and record id
// the same row always maps to the same id across runs
func EventID(app App, line int, recordID string) uuid.UUID {
	key := string(app) + ":" + strconv.Itoa(line) + ":" + strings.TrimSpace(recordID)
	return uuid.NewSHA1(eventNS, []byte(key))
}

// ActorOrUnassigned trims s and substitutes the Unassigned sentinel for blanks
func ActorOrUnassigned(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return Unassigned
	}
	return s
}

// Hours returns the explicit duration and whether one was present
func (e Event) Hours() (float64, bool) {
	if e.DurationHours == nil {
		return 0, false
	}
	return *e.DurationHours, true
}
