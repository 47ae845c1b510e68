// Package api provides the HTTP/JSON REST API for the finesse engine.
package api

import (
	"github.com/yourusername/finesse/internal/history"
	"github.com/yourusername/finesse/pkg/engine"
	"github.com/yourusername/finesse/pkg/trainer"
)

// ============================================================================
// Request Types
// ============================================================================

// OptimalRequest is the request body for an optimal-set query.
type OptimalRequest struct {
	Target string `json:"target"`          // Placement key, e.g. "T04"
	Start  string `json:"start,omitempty"` // Mid-flight start key (default: spawn state)
}

// EvaluateRequest is the request body for grading a recorded placement.
type EvaluateRequest struct {
	Target         string   `json:"target"`                    // Placement key
	Events         []string `json:"events"`                    // Raw input tokens, e.g. "tapl@150"
	CancelWindowMs int      `json:"cancel_window_ms,omitempty"` // 0 = engine default
}

// SessionAnalyzeRequest is the request body for analyzing a full session log.
type SessionAnalyzeRequest struct {
	Log string `json:"log"` // Session log text
}

// RecordSessionRequest is the request body for saving a completed session.
type RecordSessionRequest struct {
	Mode           string  `json:"mode,omitempty"`
	Placed         int     `json:"placed"`
	OptimalCount   int     `json:"optimal_count"`
	TotalFaults    int     `json:"total_faults"`
	Accuracy       float64 `json:"accuracy"`
	FaultsPerPiece float64 `json:"faults_per_piece"`
	Rating         string  `json:"rating,omitempty"`
	DurationMs     int64   `json:"duration_ms,omitempty"`
}

// AuthRequest is the request body for register and login.
type AuthRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// ============================================================================
// Response Types
// ============================================================================

// OptimalResponse is the response for an optimal-set query.
type OptimalResponse struct {
	Target    string     `json:"target"`
	MinInputs int        `json:"min_inputs"` // Minimal sequence length, 0 when unreachable
	Sequences [][]string `json:"sequences"`  // Every minimal sequence as action tokens
}

// EvaluateResponse is the response for a graded placement.
type EvaluateResponse struct {
	Target     string     `json:"target"`
	Normalized []string   `json:"normalized"` // Player actions after normalization
	OptimalLen int        `json:"optimal_len"`
	IsOptimal  bool       `json:"is_optimal"`
	FaultCount int        `json:"fault_count"`
	Grade      string     `json:"grade"`
	Optimal    [][]string `json:"optimal"` // Minimal sequences as action tokens
}

// DrillsResponse is the response for generated drills.
type DrillsResponse struct {
	Seed   int64           `json:"seed"`
	Drills []trainer.Drill `json:"drills"`
}

// CatalogResponse is the response for drill catalog queries.
type CatalogResponse struct {
	Drills []*engine.DrillEntry `json:"drills"`
	Count  int                  `json:"count"`
}

// AuthResponse is the response for register and login.
type AuthResponse struct {
	Token  string `json:"token"`
	Player string `json:"player"`
}

// SessionsResponse is the response for a player's session history.
type SessionsResponse struct {
	Sessions []history.SessionRecord `json:"sessions"`
}

// LeaderboardResponse is the response for the accuracy leaderboard.
type LeaderboardResponse struct {
	Days    int                      `json:"days"`
	Entries []history.LeaderboardRow `json:"entries"`
}

// HealthResponse is the response for health checks.
type HealthResponse struct {
	Status  string     `json:"status"`
	Version string     `json:"version"`
	Ready   bool       `json:"ready"`
	Pool    *PoolStats `json:"pool,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// sequenceTokens renders an optimal set as action token lists.
func sequenceTokens(set []engine.Sequence) [][]string {
	out := make([][]string, len(set))
	for i, seq := range set {
		toks := make([]string, len(seq))
		for j, a := range seq {
			toks[j] = a.Code()
		}
		out[i] = toks
	}
	return out
}
