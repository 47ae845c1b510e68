package engine

// Direction is a horizontal movement direction.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
)

// String returns "left" or "right".
func (d Direction) String() string {
	if d == DirLeft {
		return "left"
	}
	return "right"
}

// Step returns the column delta for one move in the direction.
func (d Direction) Step() int {
	if d == DirLeft {
		return -1
	}
	return 1
}

// TryMove returns the piece translated by (dx, dy) if the board accepts the
// result, or nil if the move is blocked. The input piece is never modified.
func TryMove(b *Board, p ActivePiece, dx, dy int) *ActivePiece {
	moved := p.Translated(dx, dy)
	if !b.CanPlace(moved) {
		return nil
	}
	return &moved
}

// MoveToWall slides the piece one column at a time in direction d until the
// next step is blocked, returning the last legal position. A piece already
// against the wall comes back unchanged; the call never fails. This models
// holding the key until auto-shift carries the piece to the wall, so
// applying it twice is a no-op.
func MoveToWall(b *Board, p ActivePiece, d Direction) ActivePiece {
	dx := d.Step()
	for {
		next := p.Translated(dx, 0)
		if !b.CanPlace(next) {
			return p
		}
		p = next
	}
}

// DropToFloor drops the piece straight down to its resting row, the cell a
// hard drop would lock it into.
func DropToFloor(b *Board, p ActivePiece) ActivePiece {
	for {
		next := p.Translated(0, 1)
		if !b.CanPlace(next) {
			return p
		}
		p = next
	}
}
