package engine

import (
	"testing"
)

// containsSequence reports whether the set holds an exact sequence.
func containsSequence(set []Sequence, want Sequence) bool {
	for _, s := range set {
		if s.Equal(want) {
			return true
		}
	}
	return false
}

func TestCalculateOptimalTToLeftWall(t *testing.T) {
	// The staple drill: flat T from spawn to the left wall is a single
	// auto-shift plus the drop.
	b := DefaultBoard()
	seqs := CalculateOptimal(b, b.Spawn(PieceT), 0, RotationSpawn)

	if len(seqs) == 0 {
		t.Fatal("Left wall target should be reachable")
	}
	if MinSequenceLength(seqs) != 2 {
		t.Errorf("Minimal length = %d, want 2", MinSequenceLength(seqs))
	}
	if !containsSequence(seqs, Sequence{DASLeft, HardDrop}) {
		t.Errorf("Optimal set %v should contain [dasl hd]", seqs)
	}

	// The replayed line lands the box flush against the wall
	final, ok := ReplaySequence(b, b.Spawn(PieceT), Sequence{DASLeft, HardDrop})
	if !ok {
		t.Fatal("Optimal line should replay legally")
	}
	if final.X != 0 {
		t.Errorf("Replay landed at column %d, want 0", final.X)
	}
}

func TestCalculateOptimalRotateInPlace(t *testing.T) {
	// Pointing the T right without moving it is one rotation plus the drop,
	// and that rotation needs no kick.
	b := DefaultBoard()
	spawn := b.Spawn(PieceT)
	seqs := CalculateOptimal(b, spawn, spawn.X, RotationRight)

	if !containsSequence(seqs, Sequence{RotateCW, HardDrop}) {
		t.Fatalf("Optimal set %v should contain [rcw hd]", seqs)
	}
	if MinSequenceLength(seqs) != 2 {
		t.Errorf("Minimal length = %d, want 2", MinSequenceLength(seqs))
	}

	res := TryRotate(b, spawn, RotationRight)
	if res.Piece == nil || res.KickIndex != 0 {
		t.Errorf("Spawn rotation resolved with kick %d, want 0", res.KickIndex)
	}
}

func TestCalculateOptimalStartEqualsGoal(t *testing.T) {
	b := DefaultBoard()
	spawn := b.Spawn(PieceL)
	seqs := CalculateOptimal(b, spawn, spawn.X, spawn.Rotation)

	if len(seqs) != 1 {
		t.Fatalf("Start-at-goal should yield exactly one sequence, got %v", seqs)
	}
	if !seqs[0].Equal(Sequence{HardDrop}) {
		t.Errorf("Start-at-goal sequence = %v, want [hd]", seqs[0])
	}
}

func TestCalculateOptimalUnreachable(t *testing.T) {
	b := DefaultBoard()
	spawn := b.Spawn(PieceT)

	// Column 9 cannot hold a flat T's 3-wide box
	if seqs := CalculateOptimal(b, spawn, 9, RotationSpawn); len(seqs) != 0 {
		t.Errorf("Out-of-range flat T target returned %v", seqs)
	}
	// Far out of the array range
	if seqs := CalculateOptimal(b, spawn, 50, RotationSpawn); len(seqs) != 0 {
		t.Errorf("Absurd column returned %v", seqs)
	}
	if seqs := CalculateOptimal(b, spawn, -30, RotationSpawn); len(seqs) != 0 {
		t.Errorf("Absurd negative column returned %v", seqs)
	}
	// Invalid rotation value
	if seqs := CalculateOptimal(b, spawn, 4, Rotation(7)); len(seqs) != 0 {
		t.Errorf("Invalid rotation returned %v", seqs)
	}
}

func TestCalculateOptimalCollectsTies(t *testing.T) {
	// On a 5-wide board the spawn box sits one column off the left wall, so
	// a single tap and a das shift reach the same placement in one input.
	b, err := NewBoard(5, 20, 2)
	if err != nil {
		t.Fatal(err)
	}
	spawn := b.Spawn(PieceT)
	if spawn.X != 1 {
		t.Fatalf("Spawn box column = %d, want 1 on a 5-wide board", spawn.X)
	}

	seqs := CalculateOptimal(b, spawn, 0, RotationSpawn)
	if len(seqs) != 2 {
		t.Fatalf("Expected both one-input lines, got %v", seqs)
	}
	if !containsSequence(seqs, Sequence{MoveLeft, HardDrop}) {
		t.Errorf("Optimal set %v should contain [tapl hd]", seqs)
	}
	if !containsSequence(seqs, Sequence{DASLeft, HardDrop}) {
		t.Errorf("Optimal set %v should contain [dasl hd]", seqs)
	}
}

func TestCalculateOptimalAllResultsShareMinimalLength(t *testing.T) {
	b := DefaultBoard()
	for kind := PieceKind(0); kind < NumPieceKinds; kind++ {
		spawn := b.Spawn(kind)
		for rot := Rotation(0); rot < NumRotationStates; rot++ {
			for x := -2; x <= b.Width()+1; x++ {
				seqs := CalculateOptimal(b, spawn, x, rot)
				if len(seqs) == 0 {
					continue
				}
				min := MinSequenceLength(seqs)
				for _, s := range seqs {
					if len(s) != min {
						t.Fatalf("%v target (%d,%v): sequence %v longer than minimum %d", kind, x, rot, s, min)
					}
				}
			}
		}
	}
}

func TestCalculateOptimalReplayLegality(t *testing.T) {
	// Every sequence for every reachable placement must replay legally and
	// land exactly on its target.
	b := DefaultBoard()
	checked := 0

	for kind := PieceKind(0); kind < NumPieceKinds; kind++ {
		spawn := b.Spawn(kind)
		for rot := Rotation(0); rot < NumRotationStates; rot++ {
			for x := -2; x <= b.Width()+1; x++ {
				for _, seq := range CalculateOptimal(b, spawn, x, rot) {
					if seq[len(seq)-1] != HardDrop {
						t.Fatalf("%v target (%d,%v): sequence %v does not end in a drop", kind, x, rot, seq)
					}
					final, ok := ReplaySequence(b, spawn, seq)
					if !ok {
						t.Fatalf("%v target (%d,%v): sequence %v is not replayable", kind, x, rot, seq)
					}
					if final.X != x || final.Rotation != rot {
						t.Fatalf("%v target (%d,%v): sequence %v landed at (%d,%v)",
							kind, x, rot, seq, final.X, final.Rotation)
					}
					checked++
				}
			}
		}
	}

	t.Logf("Replayed %d optimal sequences", checked)
}

func TestCalculateOptimalDeterministic(t *testing.T) {
	b := DefaultBoard()
	for kind := PieceKind(0); kind < NumPieceKinds; kind++ {
		spawn := b.Spawn(kind)
		for rot := Rotation(0); rot < NumRotationStates; rot++ {
			for x := -2; x <= b.Width()+1; x++ {
				first := CalculateOptimal(b, spawn, x, rot)
				second := CalculateOptimal(b, spawn, x, rot)
				if len(first) != len(second) {
					t.Fatalf("%v target (%d,%v): %d then %d sequences", kind, x, rot, len(first), len(second))
				}
				for i := range first {
					if !first[i].Equal(second[i]) {
						t.Fatalf("%v target (%d,%v): order changed between runs", kind, x, rot)
					}
				}
			}
		}
	}
}

func TestCalculateOptimalIgnoresStack(t *testing.T) {
	// A stacked board must not change the computed finesse: the search
	// works on an unobstructed field.
	clean := DefaultBoard()
	dirty := DefaultBoard()
	for y := 10; y < 20; y++ {
		dirty.FillRow(y)
	}

	spawn := clean.Spawn(PieceJ)
	want := CalculateOptimal(clean, spawn, 0, RotationRight)
	got := CalculateOptimal(dirty, spawn, 0, RotationRight)

	if len(want) == 0 {
		t.Fatal("Control query should be reachable")
	}
	if len(got) != len(want) {
		t.Fatalf("Stacked board changed result count: %d vs %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("Stacked board changed sequence %d: %v vs %v", i, got[i], want[i])
		}
	}
}

func TestCalculateOptimalFromMidFlightPiece(t *testing.T) {
	// Queries may start from a piece that already moved or rotated.
	b := DefaultBoard()
	p := ActivePiece{Kind: PieceT, Rotation: RotationRight, X: 5, Y: 3}

	seqs := CalculateOptimal(b, p, 5, RotationRight)
	if len(seqs) != 1 || !seqs[0].Equal(Sequence{HardDrop}) {
		t.Errorf("In-place mid-flight query = %v, want [[hd]]", seqs)
	}

	seqs = CalculateOptimal(b, p, 4, RotationRight)
	if !containsSequence(seqs, Sequence{MoveLeft, HardDrop}) {
		t.Errorf("One-left mid-flight query = %v, should contain [tapl hd]", seqs)
	}
}

func TestReplaySequenceRejectsBlockedActions(t *testing.T) {
	b := DefaultBoard()
	p := ActivePiece{Kind: PieceT, Rotation: RotationSpawn, X: 0, Y: 8}

	if _, ok := ReplaySequence(b, p, Sequence{MoveLeft, HardDrop}); ok {
		t.Error("Tap through the wall should fail the replay")
	}

	flipped := Sequence{RotateCW, RotateCW, HardDrop}
	if _, ok := ReplaySequence(b, p, flipped); !ok {
		t.Error("Two single rotations should replay fine")
	}
}

func TestActionCodes(t *testing.T) {
	for a := Action(0); a < NumActions; a++ {
		code := a.Code()
		parsed, err := ParseActionCode(code)
		if err != nil {
			t.Fatalf("ParseActionCode(%q): %v", code, err)
		}
		if parsed != a {
			t.Errorf("ParseActionCode(%q) = %v, want %v", code, parsed, a)
		}
	}
	if _, err := ParseActionCode("xyz"); err == nil {
		t.Error("ParseActionCode should reject unknown codes")
	}
}

func TestSequenceHelpers(t *testing.T) {
	s := Sequence{RotateCW, DASLeft, HardDrop}
	if s.String() != "rcw dasl hd" {
		t.Errorf("String = %q", s.String())
	}
	if !s.Equal(s.Clone()) {
		t.Error("Clone should equal its source")
	}
	if s.Equal(Sequence{RotateCW, DASLeft}) {
		t.Error("Sequences of different length should differ")
	}
	if s.Equal(Sequence{RotateCCW, DASLeft, HardDrop}) {
		t.Error("Sequences with different actions should differ")
	}

	set := []Sequence{
		{MoveLeft, MoveLeft, HardDrop},
		{DASLeft, HardDrop},
	}
	if MinSequenceLength(set) != 2 {
		t.Errorf("MinSequenceLength = %d, want 2", MinSequenceLength(set))
	}
	if MinSequenceLength(nil) != 0 {
		t.Error("MinSequenceLength of an empty set should be 0")
	}
}
