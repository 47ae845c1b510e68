// Package engine provides the public API for the finesse engine.
package engine

import "fmt"

// Default playfield geometry: a guideline 10x20 field with two hidden rows
// above the visible area for spawning and kicks.
const (
	DefaultWidth  = 10
	DefaultHeight = 20
	DefaultVanish = 2
)

// Board is the collision oracle: a fixed-size grid of filled and empty cells.
// Columns run 0..width-1 left to right. Rows run top to bottom; the visible
// field is rows 0..height-1 and the hidden vanish rows above it are
// -vanish..-1. A freshly spawned piece sits in the vanish rows.
type Board struct {
	width  int
	height int
	vanish int
	cells  []uint8 // Row-major, (height+vanish)*width, row -vanish first
}

// NewBoard creates an empty board. The vanish zone must be at least two rows
// deep so a spawned piece always starts inside the field.
func NewBoard(width, height, vanish int) (*Board, error) {
	if width < 4 || width > 24 {
		return nil, fmt.Errorf("board width %d out of range [4,24]", width)
	}
	if height < 4 {
		return nil, fmt.Errorf("board height %d too small", height)
	}
	if vanish < 2 {
		return nil, fmt.Errorf("vanish zone %d too shallow, need at least 2 rows", vanish)
	}
	return &Board{
		width:  width,
		height: height,
		vanish: vanish,
		cells:  make([]uint8, (height+vanish)*width),
	}, nil
}

// DefaultBoard returns an empty board with the standard guideline geometry.
func DefaultBoard() *Board {
	b, err := NewBoard(DefaultWidth, DefaultHeight, DefaultVanish)
	if err != nil {
		panic(err)
	}
	return b
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Height returns the number of visible rows.
func (b *Board) Height() int { return b.height }

// Vanish returns the number of hidden rows above the visible field.
func (b *Board) Vanish() int { return b.vanish }

// Occupied reports whether a cell is filled. Coordinates outside the field,
// including both walls and the floor, read as occupied.
func (b *Board) Occupied(x, y int) bool {
	if x < 0 || x >= b.width || y < -b.vanish || y >= b.height {
		return true
	}
	return b.cells[(y+b.vanish)*b.width+x] != 0
}

// SetCell fills or clears a single cell. Coordinates must be inside the
// field.
func (b *Board) SetCell(x, y int, filled bool) {
	if x < 0 || x >= b.width || y < -b.vanish || y >= b.height {
		panic(fmt.Sprintf("engine: SetCell(%d,%d) outside %dx%d+%d field", x, y, b.width, b.height, b.vanish))
	}
	v := uint8(0)
	if filled {
		v = 1
	}
	b.cells[(y+b.vanish)*b.width+x] = v
}

// FillRow fills every cell of one row.
func (b *Board) FillRow(y int) {
	for x := 0; x < b.width; x++ {
		b.SetCell(x, y, true)
	}
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	c := &Board{
		width:  b.width,
		height: b.height,
		vanish: b.vanish,
		cells:  make([]uint8, len(b.cells)),
	}
	copy(c.cells, b.cells)
	return c
}

// Empty reports whether no cell is filled.
func (b *Board) Empty() bool {
	for _, c := range b.cells {
		if c != 0 {
			return false
		}
	}
	return true
}

// CanPlace reports whether every cell of the piece is inside the field and
// unoccupied. This is the single legality test all movement, rotation and
// search code goes through.
func (b *Board) CanPlace(p ActivePiece) bool {
	for _, c := range p.CellList() {
		if b.Occupied(c.X, c.Y) {
			return false
		}
	}
	return true
}

// Lock fills the four cells of the piece. The piece must be placeable.
func (b *Board) Lock(p ActivePiece) {
	for _, c := range p.CellList() {
		b.SetCell(c.X, c.Y, true)
	}
}

// EqualBoards returns true if two boards have identical geometry and cells.
func EqualBoards(a, b *Board) bool {
	if a.width != b.width || a.height != b.height || a.vanish != b.vanish {
		return false
	}
	for i := range a.cells {
		if a.cells[i] != b.cells[i] {
			return false
		}
	}
	return true
}
