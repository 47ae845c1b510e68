// Package srs holds the Super Rotation System rule tables: per-rotation cell
// geometry for the seven tetrominoes and the ordered kick offset lists tried
// when a rotation collides.
//
// Everything here is raw table data indexed by plain ints so it can be shared
// by higher layers without pulling in their types. Coordinates are x-right,
// y-down: a negative dy moves a piece up, so floor kicks carry dy < 0.
package srs

// Piece kind indices. The order is fixed; it is the index into every
// per-kind table in this package.
const (
	KindI = iota
	KindO
	KindT
	KindS
	KindZ
	KindJ
	KindL
	NumKinds
)

// Rotation state indices: spawn, right (CW once), two (180), left (CCW once).
const (
	RotSpawn = iota
	RotRight
	RotTwo
	RotLeft
	NumRotations
)

// Kick table classes. JLSTZ pieces share one table, I has its own, O has a
// single fixed offset.
const (
	ClassJLSTZ = iota
	ClassI
	ClassO
	NumClasses
)

// NumTransitions is the number of legal adjacent rotation transitions.
// Direct 180 flips (spawn<->two, right<->left) are deliberately absent.
const NumTransitions = 8

// Cell is one occupied cell offset within a piece's bounding box.
type Cell struct {
	X, Y int8
}

// Offset is a kick displacement candidate. Y grows downward.
type Offset struct {
	DX, DY int8
}

// ClassOf maps a piece kind to its kick table class.
func ClassOf(kind int) int {
	switch kind {
	case KindI:
		return ClassI
	case KindO:
		return ClassO
	default:
		return ClassJLSTZ
	}
}

// BoxSize returns the side length of the bounding box the kind rotates in.
func BoxSize(kind int) int {
	if kind == KindI {
		return 4
	}
	return 3
}

// transitionIndex maps (from, to) rotation pairs to a transition slot,
// -1 where no adjacent transition exists.
var transitionIndex = [NumRotations][NumRotations]int8{
	RotSpawn: {RotSpawn: -1, RotRight: 0, RotTwo: -1, RotLeft: 7},
	RotRight: {RotSpawn: 1, RotRight: -1, RotTwo: 2, RotLeft: -1},
	RotTwo:   {RotSpawn: -1, RotRight: 3, RotTwo: -1, RotLeft: 4},
	RotLeft:  {RotSpawn: 6, RotRight: -1, RotTwo: 5, RotLeft: -1},
}

// TransitionIndex returns the kick table row for rotating from -> to, or -1
// when the pair is not one of the 8 adjacent transitions.
func TransitionIndex(from, to int) int {
	if from < 0 || from >= NumRotations || to < 0 || to >= NumRotations {
		return -1
	}
	return int(transitionIndex[from][to])
}

// pieceCells holds the four occupied cells per kind and rotation.
// I rotates in a 4x4 box, everything else in 3x3 (O never leaves its slot).
var pieceCells = [NumKinds][NumRotations][4]Cell{
	KindI: {
		{{0, 1}, {1, 1}, {2, 1}, {3, 1}},
		{{2, 0}, {2, 1}, {2, 2}, {2, 3}},
		{{0, 2}, {1, 2}, {2, 2}, {3, 2}},
		{{1, 0}, {1, 1}, {1, 2}, {1, 3}},
	},
	KindO: {
		{{1, 0}, {2, 0}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {2, 1}},
	},
	KindT: {
		{{1, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {1, 1}, {2, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {1, 2}},
		{{1, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
	KindS: {
		{{1, 0}, {2, 0}, {0, 1}, {1, 1}},
		{{1, 0}, {1, 1}, {2, 1}, {2, 2}},
		{{1, 1}, {2, 1}, {0, 2}, {1, 2}},
		{{0, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
	KindZ: {
		{{0, 0}, {1, 0}, {1, 1}, {2, 1}},
		{{2, 0}, {1, 1}, {2, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {1, 2}, {2, 2}},
		{{1, 0}, {0, 1}, {1, 1}, {0, 2}},
	},
	KindJ: {
		{{0, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {2, 2}},
		{{1, 0}, {1, 1}, {0, 2}, {1, 2}},
	},
	KindL: {
		{{2, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {1, 1}, {1, 2}, {2, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {0, 2}},
		{{0, 0}, {1, 0}, {1, 1}, {1, 2}},
	},
}

// Cells returns the four cell offsets for a kind in a rotation state.
func Cells(kind, rotation int) [4]Cell {
	return pieceCells[kind][rotation]
}

// jlstzKicks is the shared kick list for J, L, S, T and Z, one row per
// transition slot, candidates tried left to right. Values are the guideline
// SRS offsets with the vertical axis flipped to the y-down convention.
var jlstzKicks = [NumTransitions][5]Offset{
	{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},  // spawn -> right
	{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},    // right -> spawn
	{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},    // right -> two
	{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},  // two -> right
	{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},     // two -> left
	{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}}, // left -> two
	{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}}, // left -> spawn
	{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},     // spawn -> left
}

// iKicks is the I piece kick list. The I piece moves further because its
// box is 4 wide.
var iKicks = [NumTransitions][5]Offset{
	{{0, 0}, {-2, 0}, {1, 0}, {-2, 1}, {1, -2}}, // spawn -> right
	{{0, 0}, {2, 0}, {-1, 0}, {2, -1}, {-1, 2}}, // right -> spawn
	{{0, 0}, {-1, 0}, {2, 0}, {-1, -2}, {2, 1}}, // right -> two
	{{0, 0}, {1, 0}, {-2, 0}, {1, 2}, {-2, -1}}, // two -> right
	{{0, 0}, {2, 0}, {-1, 0}, {2, -1}, {-1, 2}}, // two -> left
	{{0, 0}, {-2, 0}, {1, 0}, {-2, 1}, {1, -2}}, // left -> two
	{{0, 0}, {1, 0}, {-2, 0}, {1, 2}, {-2, -1}}, // left -> spawn
	{{0, 0}, {-1, 0}, {2, 0}, {-1, -2}, {2, 1}}, // spawn -> left
}

// oKick is the O piece's sole candidate. O occupies the same cells in every
// rotation state, so the displacement is always zero.
var oKick = [1]Offset{{0, 0}}

// Kicks returns the ordered candidate offsets for a class and transition
// slot. The returned slice aliases the table and must not be modified.
func Kicks(class, transition int) []Offset {
	switch class {
	case ClassI:
		return iKicks[transition][:]
	case ClassO:
		return oKick[:]
	default:
		return jlstzKicks[transition][:]
	}
}
