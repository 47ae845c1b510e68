// Package trainer generates placement drills and runs guided practice
// sessions against the finesse engine.
package trainer

import (
	"fmt"
	"math/rand"

	"github.com/yourusername/finesse/internal/placekey"
	"github.com/yourusername/finesse/internal/sevenbag"
	"github.com/yourusername/finesse/pkg/engine"
)

// Drill is one generated placement exercise.
type Drill struct {
	Kind           engine.PieceKind     `json:"kind"`
	TargetX        int                  `json:"targetX"`
	TargetRotation engine.Rotation      `json:"targetRotation"`
	Key            string               `json:"key"`      // Placement key, e.g. "T04"
	Category       engine.DrillCategory `json:"category"` // Derived from the optimal set
	Optimal        []engine.Sequence    `json:"-"`        // Minimal sequences for the target
}

// DrillOptions configures drill generation.
type DrillOptions struct {
	Count      int                    // Number of drills to generate
	Seed       int64                  // 0 = seed from the clock
	Categories []engine.DrillCategory // Restrict to these categories (empty = all)
	Pieces     []engine.PieceKind     // Restrict to these kinds (empty = all)
}

// maxAttemptsPerDrill bounds the rejection sampling when the category and
// piece filters are tight.
const maxAttemptsPerDrill = 200

// GenerateDrills produces a run of reachable placement drills. Piece kinds
// follow the seven-bag order; target columns and orientations are drawn
// uniformly over the reachable range. Targets whose optimal set is empty
// are discarded and redrawn.
func GenerateDrills(e *engine.Engine, opts DrillOptions) ([]Drill, error) {
	if opts.Count <= 0 {
		return nil, fmt.Errorf("drill count must be positive, got %d", opts.Count)
	}

	bag := sevenbag.New(opts.Seed)
	rng := rand.New(rand.NewSource(mixSeed(opts.Seed)))
	field := e.NewField()

	drills := make([]Drill, 0, opts.Count)
	attempts := 0
	for len(drills) < opts.Count {
		attempts++
		if attempts > opts.Count*maxAttemptsPerDrill {
			return nil, fmt.Errorf("could not generate %d drills matching the filters (got %d)", opts.Count, len(drills))
		}

		kind := engine.PieceKind(bag.Next())
		if !kindAllowed(kind, opts.Pieces) {
			continue
		}

		rot := engine.Rotation(rng.Intn(engine.NumRotationStates))
		spawn := e.Spawn(kind)
		probe := spawn.WithRotation(rot)
		left := engine.MoveToWall(field, probe, engine.DirLeft).X
		right := engine.MoveToWall(field, probe, engine.DirRight).X
		x := left + rng.Intn(right-left+1)

		optimal := e.CalculateOptimal(spawn, x, rot)
		if len(optimal) == 0 {
			continue
		}

		cat := engine.ClassifyDrill(e.Config().Width, kind, x, rot, optimal)
		if !categoryAllowed(cat, opts.Categories) {
			continue
		}

		key, err := placekey.Encode(int(kind), int(rot), x)
		if err != nil {
			continue
		}

		drills = append(drills, Drill{
			Kind:           kind,
			TargetX:        x,
			TargetRotation: rot,
			Key:            key,
			Category:       cat,
			Optimal:        optimal,
		})
	}

	return drills, nil
}

// mixSeed derives the column rng seed so it does not mirror the bag's draw
// order. A zero seed stays zero, which lets math/rand pick its own.
func mixSeed(seed int64) int64 {
	if seed == 0 {
		return rand.Int63()
	}
	return seed*6364136223846793005 + 1442695040888963407
}

func kindAllowed(kind engine.PieceKind, filter []engine.PieceKind) bool {
	if len(filter) == 0 {
		return true
	}
	for _, k := range filter {
		if k == kind {
			return true
		}
	}
	return false
}

func categoryAllowed(cat engine.DrillCategory, filter []engine.DrillCategory) bool {
	if len(filter) == 0 {
		return true
	}
	for _, c := range filter {
		if c == cat {
			return true
		}
	}
	return false
}
