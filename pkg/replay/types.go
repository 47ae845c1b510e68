// Package replay provides import, export and analysis of recorded drill
// session logs: one file per session, one line per placement, raw input
// events with millisecond timestamps.
package replay

import (
	"time"

	"github.com/yourusername/finesse/pkg/engine"
)

// SessionLog is a recorded drill session.
type SessionLog struct {
	// Session metadata
	Player       string        // Player name
	Date         string        // Session date (YYYY-MM-DD format)
	Mode         string        // Training mode label, free-form
	CancelWindow time.Duration // Opposite-tap window used while recording (0 = engine default)
	Comment      string        // General session comments
	Placements   []Placement   // Recorded placements in order
}

// Placement is one recorded piece placement: the assigned target and the
// raw inputs the player produced for it.
type Placement struct {
	Number int                 // 1-indexed placement number
	Target string              // Placement key, e.g. "T04"
	Events []engine.InputEvent // Raw inputs, timestamps relative to spawn
}

// NewSessionLog creates an empty session log.
func NewSessionLog(player string) *SessionLog {
	return &SessionLog{
		Player:     player,
		Placements: make([]Placement, 0),
	}
}

// AddPlacement appends a placement, numbering it after the last one.
func (l *SessionLog) AddPlacement(target string, events []engine.InputEvent) {
	l.Placements = append(l.Placements, Placement{
		Number: len(l.Placements) + 1,
		Target: target,
		Events: events,
	})
}
