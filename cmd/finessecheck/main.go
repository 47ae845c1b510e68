// Command finessecheck runs a quick self-check of the engine: spawn table,
// known finesse lines, the drill catalog and the query cache. Intended for
// verifying a build before shipping it.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/yourusername/finesse/internal/placekey"
	"github.com/yourusername/finesse/pkg/engine"
)

var failures int

func check(name string, ok bool, detail string) {
	status := "OK  "
	if !ok {
		status = "FAIL"
		failures++
	}
	fmt.Printf("[%s] %-40s %s\n", status, name, detail)
}

func sequenceString(seqs []engine.Sequence) string {
	lines := make([]string, len(seqs))
	for i, seq := range seqs {
		codes := make([]string, len(seq))
		for j, a := range seq {
			codes[j] = a.Code()
		}
		lines[i] = strings.Join(codes, " ")
	}
	return strings.Join(lines, " | ")
}

func main() {
	fmt.Println("finesse engine self-check")
	fmt.Println()

	e, err := engine.NewEngine(engine.EngineOptions{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: engine creation failed: %v\n", err)
		os.Exit(1)
	}
	check("engine creation", true, "default geometry 10x20+2")

	table := e.PathTable()
	check("spawn path table", table != nil, "")

	// Every spawn-orientation column must be reachable on an empty field.
	reachable := 0
	for kind := 0; kind < engine.NumPieceKinds; kind++ {
		for x := placekey.MinColumn; x <= placekey.MaxColumn; x++ {
			seqs := e.CalculateOptimal(e.Spawn(engine.PieceKind(kind)), x, engine.RotationSpawn)
			if len(seqs) > 0 {
				reachable++
			}
		}
	}
	check("spawn-orientation coverage", reachable >= 7*7,
		fmt.Sprintf("%d reachable placements", reachable))

	// Known finesse lines.
	known := []struct {
		key string
		min int
	}{
		{"T04", 2},  // One tap right, drop
		{"T00", 2},  // Auto-shift to the left wall, drop
		{"T07", 2},  // Auto-shift to the right wall, drop
		{"TR3", 2},  // Rotate clockwise in place, drop
		{"IR-2", 3}, // Rotate, auto-shift to the left wall, drop
		{"O07", 2},  // Auto-shift the O to the right wall, drop
		{"T03", 1},  // Already at the target: just drop
	}
	for _, k := range known {
		kind, rot, x, err := placekey.Decode(k.key)
		if err != nil {
			check("known line "+k.key, false, err.Error())
			continue
		}
		seqs := e.CalculateOptimal(e.Spawn(engine.PieceKind(kind)), x, engine.Rotation(rot))
		got := engine.MinSequenceLength(seqs)
		check("known line "+k.key, got == k.min,
			fmt.Sprintf("want %d inputs, got %d: %s", k.min, got, sequenceString(seqs)))
	}

	// The O piece never rotates; every optimal line must be rotation-free.
	oSeqs := e.CalculateOptimal(e.Spawn(engine.PieceO), 0, engine.RotationSpawn)
	oClean := len(oSeqs) > 0
	for _, seq := range oSeqs {
		for _, a := range seq {
			if a == engine.RotateCW || a == engine.RotateCCW {
				oClean = false
			}
		}
	}
	check("O-piece rotation-free lines", oClean, sequenceString(oSeqs))

	// Drill catalog precompute.
	catalog := engine.DefaultDrillDB()
	if err := catalog.PrecomputeSequences(e); err != nil {
		check("drill catalog precompute", false, err.Error())
	} else {
		missing := 0
		for _, d := range catalog.All() {
			if len(d.Sequences) == 0 {
				missing++
			}
		}
		check("drill catalog precompute", missing == 0,
			fmt.Sprintf("%d drills, %d without sequences", catalog.Count(), missing))
	}

	// Query cache: repeated mid-flight queries must hit.
	mid := e.Spawn(engine.PieceT)
	mid.X++
	for i := 0; i < 4; i++ {
		e.CalculateOptimal(mid, 7, engine.RotationRight)
	}
	lookups, hits, _ := e.CacheStats()
	check("query cache hits", hits > 0,
		fmt.Sprintf("%d lookups, %d hits", lookups, hits))

	fmt.Println()
	if failures > 0 {
		fmt.Printf("%d check(s) FAILED\n", failures)
		os.Exit(1)
	}
	fmt.Println("All checks passed")
}
