package engine

import (
	"fmt"
	"time"
)

// InputEventType classifies one raw input from the player.
type InputEventType int

const (
	EventTapLeft   InputEventType = iota // Single left press
	EventTapRight                        // Single right press
	EventHoldLeft                        // Auto-shift repeat while left is held
	EventHoldRight                       // Auto-shift repeat while right is held
	EventRotateCW
	EventRotateCCW
	EventSoftDrop
	EventHardDrop
)

// NumEventTypes is the number of raw event types.
const NumEventTypes = 8

// String returns a human readable name for the event type.
func (t InputEventType) String() string {
	if t < 0 || t >= NumEventTypes {
		return "?"
	}
	return [...]string{
		"tap left", "tap right", "hold left", "hold right",
		"rotate cw", "rotate ccw", "soft drop", "hard drop",
	}[t]
}

// Code returns the short token used in session logs.
func (t InputEventType) Code() string {
	if t < 0 || t >= NumEventTypes {
		return "?"
	}
	return [...]string{"tapl", "tapr", "holdl", "holdr", "rcw", "rccw", "sd", "hd"}[t]
}

// ParseEventCode converts a short token back to an event type.
func ParseEventCode(s string) (InputEventType, error) {
	switch s {
	case "tapl":
		return EventTapLeft, nil
	case "tapr":
		return EventTapRight, nil
	case "holdl":
		return EventHoldLeft, nil
	case "holdr":
		return EventHoldRight, nil
	case "rcw":
		return EventRotateCW, nil
	case "rccw":
		return EventRotateCCW, nil
	case "sd":
		return EventSoftDrop, nil
	case "hd":
		return EventHardDrop, nil
	}
	return 0, fmt.Errorf("unknown event code %q", s)
}

// InputEvent is one raw player input, stamped with its offset from the
// moment the piece spawned.
type InputEvent struct {
	Type InputEventType
	At   time.Duration
}

// DefaultCancelWindow is the window within which an opposite-direction tap
// is read as a correction of the previous tap rather than a separate input.
const DefaultCancelWindow = 80 * time.Millisecond

// Normalize converts a raw input log into canonical finesse actions.
//
// A run of consecutive auto-shift repeats in one direction collapses into a
// single das action. A tap maps to a single step action, a rotate or drop
// event maps one to one. Opposite-direction taps within cancelWindow of
// each other cancel pairwise and contribute nothing: the player tapped back
// before the first movement registered. Pairing is greedy in log order and
// each tap cancels at most once.
func Normalize(log []InputEvent, cancelWindow time.Duration) Sequence {
	cancelled := make([]bool, len(log))
	for i, ev := range log {
		if cancelled[i] {
			continue
		}
		var opposite InputEventType
		switch ev.Type {
		case EventTapLeft:
			opposite = EventTapRight
		case EventTapRight:
			opposite = EventTapLeft
		default:
			continue
		}
		for j := i + 1; j < len(log); j++ {
			if cancelled[j] || log[j].Type != opposite {
				continue
			}
			if log[j].At-ev.At <= cancelWindow {
				cancelled[i] = true
				cancelled[j] = true
			}
			break
		}
	}

	var seq Sequence
	for i := 0; i < len(log); i++ {
		if cancelled[i] {
			continue
		}
		switch log[i].Type {
		case EventTapLeft:
			seq = append(seq, MoveLeft)
		case EventTapRight:
			seq = append(seq, MoveRight)
		case EventHoldLeft, EventHoldRight:
			run := log[i].Type
			for i+1 < len(log) && log[i+1].Type == run {
				i++
			}
			if run == EventHoldLeft {
				seq = append(seq, DASLeft)
			} else {
				seq = append(seq, DASRight)
			}
		case EventRotateCW:
			seq = append(seq, RotateCW)
		case EventRotateCCW:
			seq = append(seq, RotateCCW)
		case EventSoftDrop:
			seq = append(seq, SoftDrop)
		case EventHardDrop:
			seq = append(seq, HardDrop)
		}
	}
	return seq
}

// Verdict is the outcome of comparing a normalized input log against the
// optimal sequence set.
type Verdict struct {
	IsOptimal  bool // Input count matched the minimal sequence length
	FaultCount int  // Inputs beyond the minimum, 0 when optimal
}

// Evaluate compares a normalized log to the optimal set for the placement.
/// The comparison is length based: the log is optimal iff its action count
// equals the minimal sequence length. An empty optimal set (unreachable
// target) yields a zero verdict.
func Evaluate(normalized Sequence, optimal []Sequence) Verdict {
	if len(optimal) == 0 {
		return Verdict{}
	}
	min := MinSequenceLength(optimal)
	v := Verdict{IsOptimal: len(normalized) == min}
	if d := len(normalized) - min; d > 0 {
		v.FaultCount = d
	}
	return v
}

// PlacementGrade rates a single placement by its fault count.
type PlacementGrade int

const (
	GradeBlunder PlacementGrade = iota // Three or more extra inputs
	GradeFault                         // Two extra inputs
	GradeDoubtful                      // One extra input
	GradeClean                         // Matched the minimum
)

// String returns the display name of the grade.
func (g PlacementGrade) String() string {
	return [...]string{"Blunder", "Fault", "Doubtful", "Clean"}[g]
}

// Abbr returns the abbreviated notation (?, ??, ?!).
func (g PlacementGrade) Abbr() string {
	return [...]string{"??", "?", "?!", ""}[g]
}

// GradeThresholds are the fault counts at which each grade starts.
var GradeThresholds = [4]int{
	3, // GradeBlunder
	2, // GradeFault
	1, // GradeDoubtful
	0, // GradeClean
}

// ClassifyPlacement returns the grade for a placement's fault count.
func ClassifyPlacement(faultCount int) PlacementGrade {
	if faultCount >= GradeThresholds[0] {
		return GradeBlunder
	} else if faultCount >= GradeThresholds[1] {
		return GradeFault
	} else if faultCount >= GradeThresholds[2] {
		return GradeDoubtful
	}
	return GradeClean
}

// AccuracyRating is an overall player rating over many placements.
type AccuracyRating int

const (
	RatingUndefined    AccuracyRating = iota
	RatingAwful                       // > 0.50 faults per piece
	RatingBeginner                    // 0.35-0.50
	RatingCasualPlayer                // 0.20-0.35
	RatingIntermediate                // 0.10-0.20
	RatingAdvanced                    // 0.05-0.10
	RatingExpert                      // 0.02-0.05
	RatingWorldClass                  // 0.005-0.02
	RatingSupernatural                // < 0.005
)

// String returns the display name of the rating.
func (r AccuracyRating) String() string {
	return [...]string{
		"Undefined", "Awful", "Beginner", "Casual Player",
		"Intermediate", "Advanced", "Expert", "World Class", "Supernatural",
	}[r]
}

// AccuracyThresholds are faults-per-piece thresholds for overall ratings.
// Index corresponds to AccuracyRating: 0=Undefined, 1=Awful, ...,
// 8=Supernatural.
var AccuracyThresholds = [9]float64{
	1e38,  // Undefined (never used)
	0.50,  // Awful (> 0.50)
	0.35,  // Beginner (0.35-0.50)
	0.20,  // Casual player (0.20-0.35)
	0.10,  // Intermediate (0.10-0.20)
	0.05,  // Advanced (0.05-0.10)
	0.02,  // Expert (0.02-0.05)
	0.005, // World class (0.005-0.02)
	0.0,   // Supernatural (< 0.005)
}

// GetRating returns the overall rating for an average fault rate.
// Lower faults per piece = better rating.
func GetRating(faultsPerPiece float64) AccuracyRating {
	if faultsPerPiece < 0.005 {
		return RatingSupernatural
	} else if faultsPerPiece < 0.02 {
		return RatingWorldClass
	} else if faultsPerPiece < 0.05 {
		return RatingExpert
	} else if faultsPerPiece < 0.10 {
		return RatingAdvanced
	} else if faultsPerPiece < 0.20 {
		return RatingIntermediate
	} else if faultsPerPiece < 0.35 {
		return RatingCasualPlayer
	} else if faultsPerPiece < 0.50 {
		return RatingBeginner
	}
	return RatingAwful
}

// PlacementAnalysis bundles everything the feedback overlay needs for one
// placement.
type PlacementAnalysis struct {
	Normalized Sequence       // Player inputs after normalization
	Optimal    []Sequence     // Minimal sequences for the target
	Verdict    Verdict        // Length comparison outcome
	Grade      PlacementGrade // Grade derived from the fault count
}

// AnalyzePlacement normalizes a raw input log and grades it against the
// optimal set.
func AnalyzePlacement(log []InputEvent, optimal []Sequence, cancelWindow time.Duration) *PlacementAnalysis {
	normalized := Normalize(log, cancelWindow)
	verdict := Evaluate(normalized, optimal)
	return &PlacementAnalysis{
		Normalized: normalized,
		Optimal:    optimal,
		Verdict:    verdict,
		Grade:      ClassifyPlacement(verdict.FaultCount),
	}
}
