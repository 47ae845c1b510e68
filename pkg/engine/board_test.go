package engine

import (
	"testing"
)

func TestNewBoardValidation(t *testing.T) {
	cases := []struct {
		width, height, vanish int
		ok                    bool
	}{
		{10, 20, 2, true},
		{4, 4, 2, true},
		{24, 40, 4, true},
		{3, 20, 2, false},  // too narrow
		{25, 20, 2, false}, // too wide
		{10, 3, 2, false},  // too short
		{10, 20, 1, false}, // vanish too shallow
	}

	for _, c := range cases {
		_, err := NewBoard(c.width, c.height, c.vanish)
		if c.ok && err != nil {
			t.Errorf("NewBoard(%d,%d,%d): unexpected error %v", c.width, c.height, c.vanish, err)
		}
		if !c.ok && err == nil {
			t.Errorf("NewBoard(%d,%d,%d): expected error", c.width, c.height, c.vanish)
		}
	}
}

func TestDefaultBoardGeometry(t *testing.T) {
	b := DefaultBoard()
	if b.Width() != 10 || b.Height() != 20 || b.Vanish() != 2 {
		t.Errorf("Default geometry = %dx%d+%d, want 10x20+2", b.Width(), b.Height(), b.Vanish())
	}
	if !b.Empty() {
		t.Error("New board should be empty")
	}
}

func TestOccupiedOutsideField(t *testing.T) {
	b := DefaultBoard()

	outside := []struct{ x, y int }{
		{-1, 0},  // left wall
		{10, 0},  // right wall
		{0, 20},  // floor
		{0, -3},  // above the vanish zone
		{-1, -1}, // wall inside the vanish zone
	}
	for _, c := range outside {
		if !b.Occupied(c.x, c.y) {
			t.Errorf("Occupied(%d,%d) = false outside the field", c.x, c.y)
		}
	}

	inside := []struct{ x, y int }{
		{0, 0}, {9, 19}, {0, -2}, {9, -1},
	}
	for _, c := range inside {
		if b.Occupied(c.x, c.y) {
			t.Errorf("Occupied(%d,%d) = true on an empty board", c.x, c.y)
		}
	}
}

func TestSetCellRoundTrip(t *testing.T) {
	b := DefaultBoard()

	b.SetCell(4, 18, true)
	if !b.Occupied(4, 18) {
		t.Error("Cell should be occupied after SetCell(true)")
	}
	if b.Empty() {
		t.Error("Board with a filled cell is not empty")
	}

	b.SetCell(4, 18, false)
	if b.Occupied(4, 18) {
		t.Error("Cell should be clear after SetCell(false)")
	}

	// Vanish rows are settable too
	b.SetCell(0, -2, true)
	if !b.Occupied(0, -2) {
		t.Error("Vanish row cell should be occupied after SetCell")
	}
}

func TestCanPlaceSpawnAllKinds(t *testing.T) {
	b := DefaultBoard()
	for kind := PieceKind(0); kind < NumPieceKinds; kind++ {
		p := b.Spawn(kind)
		if !b.CanPlace(p) {
			t.Errorf("%v spawn state should be placeable on an empty board", kind)
		}
	}
}

func TestCanPlaceRejectsOverlapAndWalls(t *testing.T) {
	b := DefaultBoard()
	p := b.Spawn(PieceT)

	// Block one of the spawn cells
	cells := p.CellList()
	b.SetCell(cells[0].X, cells[0].Y, true)
	if b.CanPlace(p) {
		t.Error("CanPlace should reject a piece overlapping a filled cell")
	}

	// Push the piece through the left wall
	b2 := DefaultBoard()
	p2 := b2.Spawn(PieceT)
	p2.X = -1 // flat T occupies box columns 0-2
	if b2.CanPlace(p2) {
		t.Error("CanPlace should reject a piece crossing the left wall")
	}
}

func TestLockFillsCells(t *testing.T) {
	b := DefaultBoard()
	p := DropToFloor(b, b.Spawn(PieceO))
	b.Lock(p)

	for _, c := range p.CellList() {
		if !b.Occupied(c.X, c.Y) {
			t.Errorf("Cell (%d,%d) should be filled after Lock", c.X, c.Y)
		}
	}
}

func TestCloneIndependent(t *testing.T) {
	b := DefaultBoard()
	b.SetCell(3, 10, true)

	c := b.Clone()
	if !EqualBoards(b, c) {
		t.Fatal("Clone should equal its source")
	}

	c.SetCell(5, 5, true)
	if EqualBoards(b, c) {
		t.Error("Mutating a clone should not affect the source")
	}
	if b.Occupied(5, 5) {
		t.Error("Source board changed by clone mutation")
	}
}

func TestEqualBoardsGeometry(t *testing.T) {
	a := DefaultBoard()
	b, err := NewBoard(10, 20, 3)
	if err != nil {
		t.Fatal(err)
	}
	if EqualBoards(a, b) {
		t.Error("Boards with different vanish depth should not be equal")
	}
}

func TestFillRow(t *testing.T) {
	b := DefaultBoard()
	b.FillRow(19)
	for x := 0; x < b.Width(); x++ {
		if !b.Occupied(x, 19) {
			t.Errorf("Column %d of row 19 should be filled", x)
		}
	}
}
