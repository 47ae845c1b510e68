// finesse - a tetromino placement finesse analyzer
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/yourusername/finesse/internal/placekey"
	"github.com/yourusername/finesse/pkg/engine"
	"github.com/yourusername/finesse/pkg/replay"
	"github.com/yourusername/finesse/pkg/trainer"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "optimal":
		cmdOptimal(args)
	case "evaluate", "eval":
		cmdEvaluate(args)
	case "drills":
		cmdDrills(args)
	case "replay":
		cmdReplay(args)
	case "version":
		fmt.Printf("finesse v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`finesse - Tetromino Placement Finesse Analyzer

Usage: finesse <command> [options]

Commands:
  optimal   List every minimal input sequence for a placement
  evaluate  Grade recorded inputs against the optimal set
  drills    Generate placement drills
  replay    Analyze a recorded session log file
  version   Show version and exit

Use "finesse <command> -h" for command-specific help.

Placement Key Format:
  <piece><rotation><column>, where rotation 0 is omitted.
  Example: "T04" (flat T at column 4), "IR-2" (vertical I on the left wall).`)
}

func createEngine(tapOnly bool) *engine.Engine {
	e, err := engine.NewEngine(engine.EngineOptions{TapOnly: tapOnly})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create engine: %v\n", err)
		os.Exit(1)
	}
	return e
}

// resolveQuery decodes a target key and an optional mid-flight start key.
func resolveQuery(e *engine.Engine, target, start string) (engine.ActivePiece, int, engine.Rotation, error) {
	kind, rot, x, err := placekey.Decode(target)
	if err != nil {
		return engine.ActivePiece{}, 0, 0, err
	}
	piece := e.Spawn(engine.PieceKind(kind))
	if start != "" {
		sk, sr, sx, err := placekey.Decode(start)
		if err != nil {
			return engine.ActivePiece{}, 0, 0, err
		}
		if sk != kind {
			return engine.ActivePiece{}, 0, 0, fmt.Errorf("start piece does not match target piece")
		}
		piece.Rotation = engine.Rotation(sr)
		piece.X = sx
	}
	return piece, x, engine.Rotation(rot), nil
}

func cmdOptimal(args []string) {
	fs := flag.NewFlagSet("optimal", flag.ExitOnError)
	target := fs.String("target", "", "Placement key, e.g. T04")
	start := fs.String("start", "", "Mid-flight start key (default: spawn state)")
	tapOnly := fs.Bool("tap-only", false, "Exclude auto-shift from the search")
	fs.Parse(args)

	key := *target
	if key == "" && fs.NArg() > 0 {
		key = fs.Arg(0)
	}
	if key == "" {
		fmt.Fprintln(os.Stderr, "Error: target required")
		fmt.Fprintln(os.Stderr, "Usage: finesse optimal -target <key>")
		os.Exit(1)
	}

	e := createEngine(*tapOnly)
	piece, targetX, targetRot, err := resolveQuery(e, key, *start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	seqs := e.CalculateOptimal(piece, targetX, targetRot)
	if len(seqs) == 0 {
		fmt.Printf("%s: unreachable\n", strings.ToUpper(key))
		return
	}

	fmt.Printf("%s: %d inputs, %d optimal line(s)\n",
		strings.ToUpper(key), engine.MinSequenceLength(seqs), len(seqs))
	for _, seq := range seqs {
		codes := make([]string, len(seq))
		for i, a := range seq {
			codes[i] = a.Code()
		}
		fmt.Printf("  %s\n", strings.Join(codes, " "))
	}
}

func cmdEvaluate(args []string) {
	fs := flag.NewFlagSet("evaluate", flag.ExitOnError)
	target := fs.String("target", "", "Placement key, e.g. T04")
	window := fs.Duration("window", 0, "Opposite-tap cancel window (default: 80ms)")
	fs.Parse(args)

	if *target == "" || fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: target and at least one event required")
		fmt.Fprintln(os.Stderr, "Usage: finesse evaluate -target <key> <code@ms> [code@ms ...]")
		os.Exit(1)
	}

	events := make([]engine.InputEvent, 0, fs.NArg())
	for _, tok := range fs.Args() {
		ev, err := replay.ParseEvent(tok)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		events = append(events, ev)
	}

	e := createEngine(false)
	piece, targetX, targetRot, err := resolveQuery(e, *target, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	optimal := e.CalculateOptimal(piece, targetX, targetRot)
	if len(optimal) == 0 {
		fmt.Printf("%s: unreachable\n", strings.ToUpper(*target))
		return
	}

	w := *window
	if w == 0 {
		w = e.Config().CancelWindow
	}
	analysis := engine.AnalyzePlacement(events, optimal, w)

	normalized := make([]string, len(analysis.Normalized))
	for i, a := range analysis.Normalized {
		normalized[i] = a.Code()
	}
	fmt.Printf("Target:     %s\n", strings.ToUpper(*target))
	fmt.Printf("Normalized: %s (%d inputs)\n", strings.Join(normalized, " "), len(normalized))
	fmt.Printf("Optimal:    %d inputs\n", engine.MinSequenceLength(optimal))
	if analysis.Verdict.IsOptimal {
		fmt.Println("Verdict:    optimal")
	} else {
		fmt.Printf("Verdict:    %d fault(s), grade %s%s\n",
			analysis.Verdict.FaultCount, analysis.Grade, analysis.Grade.Abbr())
	}
}

func cmdDrills(args []string) {
	fs := flag.NewFlagSet("drills", flag.ExitOnError)
	count := fs.Int("count", 10, "Number of drills to generate")
	seed := fs.Int64("seed", 0, "Random seed (0 = from the clock)")
	pieces := fs.String("pieces", "", "Comma-separated piece kinds, e.g. T,I")
	showOptimal := fs.Bool("show-optimal", false, "Print the optimal lines for each drill")
	fs.Parse(args)

	opts := trainer.DrillOptions{Count: *count, Seed: *seed}
	if *pieces != "" {
		for _, part := range strings.Split(*pieces, ",") {
			kind, err := engine.ParsePieceKind(strings.TrimSpace(part))
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			opts.Pieces = append(opts.Pieces, kind)
		}
	}

	e := createEngine(false)
	drills, err := trainer.GenerateDrills(e, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for i, d := range drills {
		fmt.Printf("%2d) %-5s %-12s %d input(s)\n",
			i+1, d.Key, d.Category, engine.MinSequenceLength(d.Optimal))
		if *showOptimal {
			for _, seq := range d.Optimal {
				codes := make([]string, len(seq))
				for j, a := range seq {
					codes[j] = a.Code()
				}
				fmt.Printf("      %s\n", strings.Join(codes, " "))
			}
		}
	}
}

func cmdReplay(args []string) {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: log file required")
		fmt.Fprintln(os.Stderr, "Usage: finesse replay <session.log>")
		os.Exit(1)
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	log, err := replay.ImportLog(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	e := createEngine(false)
	analysis, err := replay.AnalyzeLog(e, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if analysis.Player != "" {
		fmt.Printf("Player:   %s\n", analysis.Player)
	}
	fmt.Printf("Placed:   %d (%d optimal)\n", analysis.TotalPlaced, analysis.OptimalCount)
	fmt.Printf("Accuracy: %.1f%%\n", analysis.Accuracy)
	fmt.Printf("Faults:   %d (%.2f per piece)\n", analysis.TotalFaults, analysis.FaultsPerPiece)
	fmt.Printf("Rating:   %s\n", analysis.RatingStr)

	for _, v := range analysis.Placements {
		if v.Unreachable {
			fmt.Printf("%3d) %-5s unreachable target\n", v.Number, v.Target)
			continue
		}
		if v.IsOptimal {
			continue
		}
		fmt.Printf("%3d) %-5s %s %s: %s (%d inputs, optimal %d)\n",
			v.Number, v.Target, v.GradeStr, v.Grade.Abbr(),
			strings.Join(v.Normalized, " "), len(v.Normalized), v.OptimalLen)
	}

	fmt.Println()
	for _, s := range analysis.Suggestions {
		fmt.Printf("- %s\n", s)
	}
}
