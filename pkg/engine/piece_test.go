package engine

import (
	"testing"
)

func TestPieceKindStrings(t *testing.T) {
	names := []string{"I", "O", "T", "S", "Z", "J", "L"}
	for kind := PieceKind(0); kind < NumPieceKinds; kind++ {
		if kind.String() != names[kind] {
			t.Errorf("PieceKind(%d).String() = %q, want %q", kind, kind.String(), names[kind])
		}
		parsed, err := ParsePieceKind(names[kind])
		if err != nil {
			t.Errorf("ParsePieceKind(%q): %v", names[kind], err)
		}
		if parsed != kind {
			t.Errorf("ParsePieceKind(%q) = %v, want %v", names[kind], parsed, kind)
		}
	}

	if _, err := ParsePieceKind("X"); err == nil {
		t.Error("ParsePieceKind should reject unknown letters")
	}
	if PieceKind(99).String() != "?" {
		t.Error("Out of range kind should stringify as ?")
	}
}

func TestRotationCycle(t *testing.T) {
	// Four clockwise turns return to the start from every state
	for r := Rotation(0); r < NumRotationStates; r++ {
		if got := r.CW().CW().CW().CW(); got != r {
			t.Errorf("Four CW turns from %v = %v, want %v", r, got, r)
		}
		if got := r.CCW().CCW().CCW().CCW(); got != r {
			t.Errorf("Four CCW turns from %v = %v, want %v", r, got, r)
		}
		if got := r.CW().CCW(); got != r {
			t.Errorf("CW then CCW from %v = %v, want %v", r, got, r)
		}
	}
}

func TestNextRotationTotal(t *testing.T) {
	expectCW := map[Rotation]Rotation{
		RotationSpawn: RotationRight,
		RotationRight: Rotation180,
		Rotation180:   RotationLeft,
		RotationLeft:  RotationSpawn,
	}
	for from, want := range expectCW {
		if got := NextRotation(from, TurnCW); got != want {
			t.Errorf("NextRotation(%v, cw) = %v, want %v", from, got, want)
		}
		// CCW inverts the CW step
		if got := NextRotation(want, TurnCCW); got != from {
			t.Errorf("NextRotation(%v, ccw) = %v, want %v", want, got, from)
		}
	}
}

func TestSpawnStates(t *testing.T) {
	b := DefaultBoard()
	for kind := PieceKind(0); kind < NumPieceKinds; kind++ {
		p := b.Spawn(kind)
		if p.Rotation != RotationSpawn {
			t.Errorf("%v spawns in rotation %v", kind, p.Rotation)
		}
		if p.X != 3 {
			t.Errorf("%v spawn box column = %d, want 3 on a 10-wide board", kind, p.X)
		}
		if p.Y != -2 {
			t.Errorf("%v spawn box row = %d, want -2", kind, p.Y)
		}
	}
}

func TestSpawnCellColumns(t *testing.T) {
	b := DefaultBoard()

	// Flat T covers columns 3-5 with its point at column 4
	tCols := map[int]bool{}
	for _, c := range b.Spawn(PieceT).CellList() {
		tCols[c.X] = true
		if c.Y < -2 || c.Y > -1 {
			t.Errorf("T spawn cell row %d outside the vanish rows", c.Y)
		}
	}
	for _, want := range []int{3, 4, 5} {
		if !tCols[want] {
			t.Errorf("T spawn should cover column %d, got %v", want, tCols)
		}
	}

	// Flat I covers columns 3-6
	iCols := map[int]bool{}
	for _, c := range b.Spawn(PieceI).CellList() {
		iCols[c.X] = true
	}
	for _, want := range []int{3, 4, 5, 6} {
		if !iCols[want] {
			t.Errorf("I spawn should cover column %d, got %v", want, iCols)
		}
	}

	// O covers columns 4-5
	oCols := map[int]bool{}
	for _, c := range b.Spawn(PieceO).CellList() {
		oCols[c.X] = true
	}
	if !oCols[4] || !oCols[5] || len(oCols) != 2 {
		t.Errorf("O spawn should cover exactly columns 4-5, got %v", oCols)
	}
}

func TestTranslatedDoesNotMutate(t *testing.T) {
	p := ActivePiece{Kind: PieceJ, Rotation: RotationSpawn, X: 3, Y: -2}
	q := p.Translated(2, 5)

	if p.X != 3 || p.Y != -2 {
		t.Error("Translated mutated its receiver")
	}
	if q.X != 5 || q.Y != 3 {
		t.Errorf("Translated result = (%d,%d), want (5,3)", q.X, q.Y)
	}
	if q.Kind != p.Kind || q.Rotation != p.Rotation {
		t.Error("Translated should preserve kind and rotation")
	}
}

func TestWithRotationPreservesPosition(t *testing.T) {
	p := ActivePiece{Kind: PieceS, Rotation: RotationSpawn, X: 4, Y: 7}
	q := p.WithRotation(Rotation180)
	if q.X != 4 || q.Y != 7 || q.Kind != PieceS {
		t.Error("WithRotation should only change the orientation")
	}
	if q.Rotation != Rotation180 {
		t.Errorf("WithRotation = %v, want %v", q.Rotation, Rotation180)
	}
	if p.Rotation != RotationSpawn {
		t.Error("WithRotation mutated its receiver")
	}
}

func TestCellListDisjoint(t *testing.T) {
	// Every kind in every orientation occupies four distinct cells
	for kind := PieceKind(0); kind < NumPieceKinds; kind++ {
		for rot := Rotation(0); rot < NumRotationStates; rot++ {
			p := ActivePiece{Kind: kind, Rotation: rot, X: 4, Y: 5}
			seen := map[Cell]bool{}
			for _, c := range p.CellList() {
				if seen[c] {
					t.Errorf("%v rotation %v has duplicate cell (%d,%d)", kind, rot, c.X, c.Y)
				}
				seen[c] = true
			}
		}
	}
}
