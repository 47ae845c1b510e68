package engine

import (
	"fmt"
	"strings"
)

// Action is one canonical finesse input.
type Action int

const (
	MoveLeft Action = iota
	MoveRight
	RotateCW
	RotateCCW
	DASLeft
	DASRight
	HardDrop
	SoftDrop
)

// NumActions is the number of canonical actions.
const NumActions = 8

// String returns a human readable name for the action.
func (a Action) String() string {
	if a < 0 || a >= NumActions {
		return "?"
	}
	return [...]string{
		"tap left", "tap right", "rotate cw", "rotate ccw",
		"das left", "das right", "hard drop", "soft drop",
	}[a]
}

// Code returns the short token used in logs and on the wire.
func (a Action) Code() string {
	if a < 0 || a >= NumActions {
		return "?"
	}
	return [...]string{"tapl", "tapr", "rcw", "rccw", "dasl", "dasr", "hd", "sd"}[a]
}

// ParseActionCode converts a short token back to an action.
func ParseActionCode(s string) (Action, error) {
	switch s {
	case "tapl":
		return MoveLeft, nil
	case "tapr":
		return MoveRight, nil
	case "rcw":
		return RotateCW, nil
	case "rccw":
		return RotateCCW, nil
	case "dasl":
		return DASLeft, nil
	case "dasr":
		return DASRight, nil
	case "hd":
		return HardDrop, nil
	case "sd":
		return SoftDrop, nil
	}
	return 0, fmt.Errorf("unknown action code %q", s)
}

// Sequence is an ordered list of actions that carries a piece from its spawn
// state to a placement. Sequences produced by the search always end with a
// hard drop.
type Sequence []Action

// String returns the sequence as space separated action codes.
func (s Sequence) String() string {
	codes := make([]string, len(s))
	for i, a := range s {
		codes[i] = a.Code()
	}
	return strings.Join(codes, " ")
}

// Equal reports whether two sequences contain the same actions in order.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the sequence.
func (s Sequence) Clone() Sequence {
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// MinSequenceLength returns the length of the shortest sequence in the set,
// or 0 for an empty set.
func MinSequenceLength(set []Sequence) int {
	if len(set) == 0 {
		return 0
	}
	min := len(set[0])
	for _, s := range set[1:] {
		if len(s) < min {
			min = len(s)
		}
	}
	return min
}

// The search keys states by (rotation, column). Columns are biased by
// searchColumnBias so the left overhangs of wall-hugging pieces stay in
// range, and the arrays are sized for the widest supported board.
const (
	searchColumnBias = 2
	maxSearchColumns = 24 + 2*searchColumnBias
)

// parentLink records one shortest-path predecessor of a search state.
type parentLink struct {
	rot    Rotation
	x      int
	action Action
}

// CalculateOptimal returns every minimal action sequence that carries the
// piece from its current column and orientation to (targetX,
// targetRotation), each with a terminal hard drop appended.
//
// The search runs on an empty field of the board's geometry with the piece
// held at the spawn row: it computes the ideal finesse for an unobstructed
// placement, not an escape route through the current stack. States are
// (column, orientation) pairs; edges are tried in a fixed order (tap left,
// tap right, rotate cw, rotate ccw, das left, das right) so the result
// order is deterministic. All ties for the minimum length are returned.
//
// An unreachable target yields an empty set, never an error.
func CalculateOptimal(board *Board, start ActivePiece, targetX int, targetRotation Rotation) []Sequence {
	return searchOptimal(board, start, targetX, targetRotation, true)
}

func searchOptimal(board *Board, start ActivePiece, targetX int, targetRotation Rotation, withDAS bool) []Sequence {
	if targetRotation < 0 || targetRotation >= NumRotationStates {
		return nil
	}
	if targetX+searchColumnBias < 0 || targetX+searchColumnBias >= maxSearchColumns {
		return nil
	}

	b := board
	if !b.Empty() {
		b = emptyLike(board)
	}

	spawnY := b.Spawn(start.Kind).Y
	origin := ActivePiece{Kind: start.Kind, Rotation: start.Rotation, X: start.X, Y: spawnY}
	if !b.CanPlace(origin) {
		return nil
	}

	var dist [NumRotationStates][maxSearchColumns]int16
	var parents [NumRotationStates][maxSearchColumns][]parentLink
	for r := range dist {
		for x := range dist[r] {
			dist[r][x] = -1
		}
	}

	type state struct {
		rot Rotation
		x   int
	}
	dist[origin.Rotation][origin.X+searchColumnBias] = 0
	queue := []state{{origin.Rotation, origin.X}}

	relax := func(from state, d int16, rot Rotation, x int, a Action) {
		xi := x + searchColumnBias
		switch dist[rot][xi] {
		case -1:
			dist[rot][xi] = d + 1
			parents[rot][xi] = append(parents[rot][xi], parentLink{from.rot, from.x, a})
			queue = append(queue, state{rot, x})
		case d + 1:
			parents[rot][xi] = append(parents[rot][xi], parentLink{from.rot, from.x, a})
		}
	}

	for head := 0; head < len(queue); head++ {
		s := queue[head]
		d := dist[s.rot][s.x+searchColumnBias]
		p := ActivePiece{Kind: start.Kind, Rotation: s.rot, X: s.x, Y: spawnY}

		if m := TryMove(b, p, -1, 0); m != nil {
			relax(s, d, m.Rotation, m.X, MoveLeft)
		}
		if m := TryMove(b, p, 1, 0); m != nil {
			relax(s, d, m.Rotation, m.X, MoveRight)
		}
		if r := TryRotate(b, p, p.Rotation.CW()); r.Piece != nil {
			relax(s, d, r.Piece.Rotation, r.Piece.X, RotateCW)
		}
		if r := TryRotate(b, p, p.Rotation.CCW()); r.Piece != nil {
			relax(s, d, r.Piece.Rotation, r.Piece.X, RotateCCW)
		}
		if withDAS {
			w := MoveToWall(b, p, DirLeft)
			relax(s, d, w.Rotation, w.X, DASLeft)
			w = MoveToWall(b, p, DirRight)
			relax(s, d, w.Rotation, w.X, DASRight)
		}
	}

	if dist[targetRotation][targetX+searchColumnBias] < 0 {
		return nil
	}

	var results []Sequence
	var walk func(rot Rotation, x int, tail []Action)
	walk = func(rot Rotation, x int, tail []Action) {
		if rot == origin.Rotation && x == origin.X && dist[rot][x+searchColumnBias] == 0 {
			seq := make(Sequence, 0, len(tail)+1)
			for i := len(tail) - 1; i >= 0; i-- {
				seq = append(seq, tail[i])
			}
			seq = append(seq, HardDrop)
			results = append(results, seq)
			return
		}
		for _, pl := range parents[rot][x+searchColumnBias] {
			walk(pl.rot, pl.x, append(tail, pl.action))
		}
	}
	walk(targetRotation, targetX, nil)
	return results
}

// emptyLike returns an empty board with the same geometry as b.
func emptyLike(b *Board) *Board {
	return &Board{
		width:  b.width,
		height: b.height,
		vanish: b.vanish,
		cells:  make([]uint8, len(b.cells)),
	}
}

// ReplaySequence applies a sequence to a piece on the board using the same
// primitives the search uses, ending with the piece dropped to its resting
// row. It reports false as soon as any action is illegal from the current
// position.
func ReplaySequence(b *Board, p ActivePiece, seq Sequence) (ActivePiece, bool) {
	for _, a := range seq {
		switch a {
		case MoveLeft:
			m := TryMove(b, p, -1, 0)
			if m == nil {
				return p, false
			}
			p = *m
		case MoveRight:
			m := TryMove(b, p, 1, 0)
			if m == nil {
				return p, false
			}
			p = *m
		case RotateCW:
			r := TryRotate(b, p, p.Rotation.CW())
			if r.Piece == nil {
				return p, false
			}
			p = *r.Piece
		case RotateCCW:
			r := TryRotate(b, p, p.Rotation.CCW())
			if r.Piece == nil {
				return p, false
			}
			p = *r.Piece
		case DASLeft:
			p = MoveToWall(b, p, DirLeft)
		case DASRight:
			p = MoveToWall(b, p, DirRight)
		case SoftDrop, HardDrop:
			p = DropToFloor(b, p)
		default:
			return p, false
		}
	}
	return p, true
}
