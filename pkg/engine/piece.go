package engine

import (
	"fmt"

	"github.com/yourusername/finesse/internal/srs"
)

// PieceKind identifies one of the seven tetrominoes.
type PieceKind int

const (
	PieceI PieceKind = iota
	PieceO
	PieceT
	PieceS
	PieceZ
	PieceJ
	PieceL
)

// NumPieceKinds is the number of distinct tetrominoes.
const NumPieceKinds = 7

// String returns the single-letter name of the piece.
func (k PieceKind) String() string {
	if k < 0 || k >= NumPieceKinds {
		return "?"
	}
	return [...]string{"I", "O", "T", "S", "Z", "J", "L"}[k]
}

// ParsePieceKind converts a single-letter name to a piece kind.
func ParsePieceKind(s string) (PieceKind, error) {
	switch s {
	case "I", "i":
		return PieceI, nil
	case "O", "o":
		return PieceO, nil
	case "T", "t":
		return PieceT, nil
	case "S", "s":
		return PieceS, nil
	case "Z", "z":
		return PieceZ, nil
	case "J", "j":
		return PieceJ, nil
	case "L", "l":
		return PieceL, nil
	}
	return 0, fmt.Errorf("unknown piece kind %q", s)
}

// Rotation is one of the four orientation states a piece cycles through.
type Rotation int

const (
	RotationSpawn Rotation = iota
	RotationRight          // One clockwise turn from spawn
	Rotation180            // Two turns from spawn
	RotationLeft           // One counterclockwise turn from spawn
)

// NumRotationStates is the number of orientation states.
const NumRotationStates = 4

// String returns the conventional letter for the state: 0, R, 2 or L.
func (r Rotation) String() string {
	if r < 0 || r >= NumRotationStates {
		return "?"
	}
	return [...]string{"0", "R", "2", "L"}[r]
}

// Turn is a rotation direction.
type Turn int

const (
	TurnCW Turn = iota
	TurnCCW
)

// String returns "cw" or "ccw".
func (t Turn) String() string {
	if t == TurnCW {
		return "cw"
	}
	return "ccw"
}

// CW returns the state after one clockwise turn.
func (r Rotation) CW() Rotation {
	return (r + 1) % NumRotationStates
}

// CCW returns the state after one counterclockwise turn.
func (r Rotation) CCW() Rotation {
	return (r + 3) % NumRotationStates
}

// NextRotation returns the state reached from r by turning once in direction
// t. It is total: every state has a successor in both directions.
func NextRotation(r Rotation, t Turn) Rotation {
	if t == TurnCW {
		return r.CW()
	}
	return r.CCW()
}

// Cell is one board coordinate. Y grows downward and rows above the visible
// field are negative.
type Cell struct {
	X, Y int
}

// ActivePiece is a falling piece: a kind, an orientation and the position of
// its bounding box. X and Y locate the top-left corner of the box, so X may
// be negative when the occupied cells hug the left wall.
type ActivePiece struct {
	Kind     PieceKind
	Rotation Rotation
	X, Y     int
}

// CellList returns the four board cells the piece occupies.
func (p ActivePiece) CellList() [4]Cell {
	cells := srs.Cells(int(p.Kind), int(p.Rotation))
	var out [4]Cell
	for i, c := range cells {
		out[i] = Cell{X: p.X + int(c.X), Y: p.Y + int(c.Y)}
	}
	return out
}

// Translated returns a copy of the piece shifted by (dx, dy).
func (p ActivePiece) Translated(dx, dy int) ActivePiece {
	p.X += dx
	p.Y += dy
	return p
}

// WithRotation returns a copy of the piece in a different orientation at the
// same box position.
func (p ActivePiece) WithRotation(r Rotation) ActivePiece {
	p.Rotation = r
	return p
}

// Spawn returns the piece in its spawn state on this board: spawn
// orientation, horizontally centered, bounding box two rows above the
// visible field. On the default 10-wide board every kind spawns with its
// box at column 3.
func (b *Board) Spawn(kind PieceKind) ActivePiece {
	box := srs.BoxSize(int(kind))
	return ActivePiece{
		Kind:     kind,
		Rotation: RotationSpawn,
		X:        (b.width - box) / 2,
		Y:        -2,
	}
}
