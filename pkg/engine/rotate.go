package engine

import (
	"fmt"

	"github.com/yourusername/finesse/internal/srs"
)

// Offset is a kick displacement. Y grows downward, so a negative DY lifts
// the piece.
type Offset struct {
	DX, DY int
}

// KickClass labels a resolved rotation for feedback overlays.
type KickClass int

const (
	KickNone  KickClass = iota // Offset table index 0, piece rotated in place
	KickWall                   // Lateral or downward displacement
	KickFloor                  // Upward displacement
)

// String returns "none", "wall" or "floor".
func (c KickClass) String() string {
	if c < 0 || c > KickFloor {
		return "?"
	}
	return [...]string{"none", "wall", "floor"}[c]
}

// ClassifyKick labels the kick a successful rotation resolved with. Index 0
// is never a kick; an upward displacement is a floor kick, anything else is
// a wall kick.
func ClassifyKick(kickIndex int, off Offset) KickClass {
	if kickIndex <= 0 {
		return KickNone
	}
	if off.DY < 0 {
		return KickFloor
	}
	return KickWall
}

// RotationResult reports the outcome of a rotation attempt.
type RotationResult struct {
	Piece     *ActivePiece // Resolved piece, nil when the rotation failed
	KickIndex int          // Position of the accepted offset in its table, -1 on failure
	Offset    Offset       // Displacement the accepted offset applied
}

// TryRotate attempts to put p into target orientation on board b, resolving
// collisions through the kick tables.
//
// Rotating to the current orientation succeeds trivially with kick index 0.
// A direct 180 flip (spawn<->two, right<->left) is not a legal transition
// and fails immediately with kick index -1. Otherwise the ordered offsets
// for the piece's kick class and transition are tried in table order and the
// first position the board accepts wins.
//
// The O piece has a single zero offset and occupies the same cells in every
// orientation, so its rotation can only fail if the piece already overlaps
// the board. That is a corrupted state, and TryRotate panics rather than
// report it as a blocked rotation.
func TryRotate(b *Board, p ActivePiece, target Rotation) RotationResult {
	if target < 0 || target >= NumRotationStates {
		return RotationResult{KickIndex: -1}
	}
	if target == p.Rotation {
		same := p
		return RotationResult{Piece: &same, KickIndex: 0}
	}

	transition := srs.TransitionIndex(int(p.Rotation), int(target))
	if transition < 0 {
		return RotationResult{KickIndex: -1}
	}

	class := srs.ClassOf(int(p.Kind))
	rotated := p.WithRotation(target)
	for i, off := range srs.Kicks(class, transition) {
		candidate := rotated.Translated(int(off.DX), int(off.DY))
		if b.CanPlace(candidate) {
			return RotationResult{
				Piece:     &candidate,
				KickIndex: i,
				Offset:    Offset{DX: int(off.DX), DY: int(off.DY)},
			}
		}
	}

	if class == srs.ClassO {
		panic(fmt.Sprintf("engine: O piece at (%d,%d) overlaps the board", p.X, p.Y))
	}
	return RotationResult{KickIndex: -1}
}

// CanRotate is the boolean projection of TryRotate.
func CanRotate(b *Board, p ActivePiece, target Rotation) bool {
	return TryRotate(b, p, target).Piece != nil
}
