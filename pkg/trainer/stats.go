package trainer

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/finesse/pkg/engine"
)

// PieceStats aggregates results for one piece kind.
type PieceStats struct {
	Placed  int     `json:"placed"`
	Optimal int     `json:"optimal"`
	Faults  int     `json:"faults"`
	MeanMs  float64 `json:"meanMs"` // Mean placement time in milliseconds
}

// SessionStats aggregates a session's graded placements.
type SessionStats struct {
	Placed         int                              `json:"placed"`
	OptimalCount   int                              `json:"optimalCount"`
	Accuracy       float64                          `json:"accuracy"` // Optimal placements as a percentage
	TotalFaults    int                              `json:"totalFaults"`
	FaultsPerPiece float64                          `json:"faultsPerPiece"`
	StdDevFaults   float64                          `json:"stdDevFaults"`
	MeanTime       time.Duration                    `json:"meanTime"`
	MedianTime     time.Duration                    `json:"medianTime"`
	Rating         engine.AccuracyRating            `json:"-"`
	RatingStr      string                           `json:"rating"`
	PerPiece       map[engine.PieceKind]*PieceStats `json:"perPiece"`
}

// ComputeStats aggregates graded placements into session statistics.
func ComputeStats(results []PlacementResult) *SessionStats {
	s := &SessionStats{
		PerPiece: make(map[engine.PieceKind]*PieceStats),
	}
	if len(results) == 0 {
		s.RatingStr = s.Rating.String()
		return s
	}

	faults := make([]float64, 0, len(results))
	times := make([]float64, 0, len(results))
	pieceTimes := make(map[engine.PieceKind][]float64)

	for _, r := range results {
		s.Placed++
		fc := r.Analysis.Verdict.FaultCount
		s.TotalFaults += fc
		faults = append(faults, float64(fc))
		if r.Analysis.Verdict.IsOptimal {
			s.OptimalCount++
		}
		if r.Duration > 0 {
			times = append(times, float64(r.Duration.Milliseconds()))
		}

		ps := s.PerPiece[r.Drill.Kind]
		if ps == nil {
			ps = &PieceStats{}
			s.PerPiece[r.Drill.Kind] = ps
		}
		ps.Placed++
		ps.Faults += fc
		if r.Analysis.Verdict.IsOptimal {
			ps.Optimal++
		}
		if r.Duration > 0 {
			pieceTimes[r.Drill.Kind] = append(pieceTimes[r.Drill.Kind], float64(r.Duration.Milliseconds()))
		}
	}

	s.Accuracy = float64(s.OptimalCount) / float64(s.Placed) * 100
	s.FaultsPerPiece = stat.Mean(faults, nil)
	if len(faults) > 1 {
		s.StdDevFaults = stat.StdDev(faults, nil)
	}
	if len(times) > 0 {
		s.MeanTime = time.Duration(stat.Mean(times, nil)) * time.Millisecond
		sort.Float64s(times)
		s.MedianTime = time.Duration(stat.Quantile(0.5, stat.Empirical, times, nil)) * time.Millisecond
	}
	for kind, ts := range pieceTimes {
		s.PerPiece[kind].MeanMs = stat.Mean(ts, nil)
	}

	s.Rating = engine.GetRating(s.FaultsPerPiece)
	s.RatingStr = s.Rating.String()
	return s
}
