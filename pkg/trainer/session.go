package trainer

import (
	"fmt"
	"time"

	"github.com/yourusername/finesse/pkg/engine"
)

// PlacementResult is the graded outcome of one drill attempt.
type PlacementResult struct {
	Drill    Drill
	Analysis *engine.PlacementAnalysis
	Duration time.Duration // Spawn to hard drop
}

// SessionProgress is a progress snapshot delivered to the callback after
// every graded placement.
type SessionProgress struct {
	Completed int
	Total     int
	Last      PlacementResult
}

// ProgressCallback receives progress updates during a session. It runs on
// the caller's goroutine; keep it fast.
type ProgressCallback func(SessionProgress)

// Session runs a fixed run of drills and grades each attempt as it comes
// in. Not safe for concurrent use.
type Session struct {
	engine   *engine.Engine
	drills   []Drill
	results  []PlacementResult
	index    int
	callback ProgressCallback
}

// NewSession creates a session over a generated drill run. The callback may
// be nil.
func NewSession(e *engine.Engine, drills []Drill, callback ProgressCallback) *Session {
	return &Session{
		engine:   e,
		drills:   drills,
		results:  make([]PlacementResult, 0, len(drills)),
		callback: callback,
	}
}

// Current returns the drill awaiting input, or false when the session is
// over.
func (s *Session) Current() (Drill, bool) {
	if s.index >= len(s.drills) {
		return Drill{}, false
	}
	return s.drills[s.index], true
}

// Done reports whether every drill has been attempted.
func (s *Session) Done() bool {
	return s.index >= len(s.drills)
}

// Submit grades the raw inputs for the current drill and advances to the
// next one.
func (s *Session) Submit(events []engine.InputEvent, took time.Duration) (*PlacementResult, error) {
	drill, ok := s.Current()
	if !ok {
		return nil, fmt.Errorf("session is already complete")
	}

	analysis := engine.AnalyzePlacement(events, drill.Optimal, s.engine.Config().CancelWindow)
	result := PlacementResult{
		Drill:    drill,
		Analysis: analysis,
		Duration: took,
	}
	s.results = append(s.results, result)
	s.index++

	if s.callback != nil {
		s.callback(SessionProgress{
			Completed: s.index,
			Total:     len(s.drills),
			Last:      result,
		})
	}
	return &result, nil
}

// Skip abandons the current drill without grading it.
func (s *Session) Skip() {
	if s.index < len(s.drills) {
		s.index++
	}
}

// Results returns the graded placements so far.
func (s *Session) Results() []PlacementResult {
	return s.results
}

// Stats computes aggregate statistics over the graded placements.
func (s *Session) Stats() *SessionStats {
	return ComputeStats(s.results)
}
