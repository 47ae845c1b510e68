package replay

import (
	"fmt"

	"github.com/yourusername/finesse/internal/placekey"
	"github.com/yourusername/finesse/pkg/engine"
)

// PlacementVerdict is the graded outcome of one recorded placement.
type PlacementVerdict struct {
	Number      int                   `json:"number"`
	Target      string                `json:"target"`
	Normalized  []string              `json:"normalized"`  // Player actions after normalization
	OptimalLen  int                   `json:"optimal_len"` // Minimal input count for the target
	IsOptimal   bool                  `json:"is_optimal"`
	FaultCount  int                   `json:"fault_count"`
	Grade       engine.PlacementGrade `json:"-"`
	GradeStr    string                `json:"grade"`
	Unreachable bool                  `json:"unreachable,omitempty"` // Target not reachable on this geometry
}

// SessionAnalysis is the complete analysis of a recorded session.
type SessionAnalysis struct {
	Player         string                `json:"player"`
	Placements     []PlacementVerdict    `json:"placements"`
	TotalPlaced    int                   `json:"total_placed"` // Placements with a reachable target
	OptimalCount   int                   `json:"optimal_count"`
	TotalFaults    int                   `json:"total_faults"`
	FaultsPerPiece float64               `json:"faults_per_piece"`
	Accuracy       float64               `json:"accuracy"` // Optimal placements as a percentage
	Rating         engine.AccuracyRating `json:"-"`
	RatingStr      string                `json:"rating"`
	Suggestions    []string              `json:"suggestions"`
}

// AnalyzeLog grades every placement in a session log against the optimal
// sets for its targets and aggregates session statistics. Placements whose
// target is unreachable on the engine's geometry are reported but excluded
// from the totals.
func AnalyzeLog(e *engine.Engine, log *SessionLog) (*SessionAnalysis, error) {
	window := log.CancelWindow
	if window == 0 {
		window = e.Config().CancelWindow
	}

	result := &SessionAnalysis{
		Player:      log.Player,
		Placements:  make([]PlacementVerdict, 0, len(log.Placements)),
		Suggestions: []string{},
	}

	for _, p := range log.Placements {
		kind, rot, x, err := placekey.Decode(p.Target)
		if err != nil {
			return nil, fmt.Errorf("placement %d: %w", p.Number, err)
		}

		spawn := e.Spawn(engine.PieceKind(kind))
		optimal := e.CalculateOptimal(spawn, x, engine.Rotation(rot))
		analysis := engine.AnalyzePlacement(p.Events, optimal, window)

		verdict := PlacementVerdict{
			Number:     p.Number,
			Target:     p.Target,
			Normalized: actionCodes(analysis.Normalized),
			OptimalLen: engine.MinSequenceLength(optimal),
			IsOptimal:  analysis.Verdict.IsOptimal,
			FaultCount: analysis.Verdict.FaultCount,
			Grade:      analysis.Grade,
			GradeStr:   analysis.Grade.String(),
		}
		if len(optimal) == 0 {
			verdict.Unreachable = true
			result.Placements = append(result.Placements, verdict)
			continue
		}

		result.TotalPlaced++
		result.TotalFaults += verdict.FaultCount
		if verdict.IsOptimal {
			result.OptimalCount++
		}
		result.Placements = append(result.Placements, verdict)
	}

	if result.TotalPlaced > 0 {
		result.FaultsPerPiece = float64(result.TotalFaults) / float64(result.TotalPlaced)
		result.Accuracy = float64(result.OptimalCount) / float64(result.TotalPlaced) * 100
	}
	result.Rating = engine.GetRating(result.FaultsPerPiece)
	result.RatingStr = result.Rating.String()
	result.Suggestions = generateSuggestions(result)

	return result, nil
}

// actionCodes renders a sequence as its short tokens.
func actionCodes(seq engine.Sequence) []string {
	out := make([]string, len(seq))
	for i, a := range seq {
		out[i] = a.Code()
	}
	return out
}

// generateSuggestions derives improvement advice from the graded placements.
func generateSuggestions(a *SessionAnalysis) []string {
	var suggestions []string

	blunders := 0
	tapHeavy := 0
	for _, v := range a.Placements {
		if v.Unreachable {
			continue
		}
		if v.Grade == engine.GradeBlunder {
			blunders++
		}
		if v.FaultCount > 0 && countTapRun(v.Normalized) >= 3 {
			tapHeavy++
		}
	}

	if blunders > 0 {
		suggestions = append(suggestions,
			fmt.Sprintf("%d placement(s) were blunders. Replay those targets slowly until the optimal line is automatic.", blunders))
	}
	if tapHeavy > 0 {
		suggestions = append(suggestions,
			fmt.Sprintf("%d placement(s) used three or more taps in a row. Hold the direction and let auto-shift carry the piece.", tapHeavy))
	}
	if a.FaultsPerPiece > 0.35 {
		suggestions = append(suggestions,
			fmt.Sprintf("The fault rate (%.2f per piece) is high. Drill wall placements before mixing targets.", a.FaultsPerPiece))
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, "Clean session. Raise the pace or add rotated targets.")
	}
	return suggestions
}

// countTapRun returns the longest run of consecutive same-direction taps.
func countTapRun(codes []string) int {
	longest, run := 0, 0
	prev := ""
	for _, c := range codes {
		if c != "tapl" && c != "tapr" {
			run, prev = 0, ""
			continue
		}
		if c == prev {
			run++
		} else {
			run = 1
			prev = c
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
