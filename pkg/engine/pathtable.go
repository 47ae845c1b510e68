package engine

// PathTable holds precomputed optimal sequences for every placement
// reachable from the spawn state. Almost every real query starts at spawn,
// so the table answers those directly and the live search only runs for
// mid-flight pieces.

// BuildPathTable runs the search for every (kind, target rotation, target
// column) triple on an empty field of the board's geometry. Unreachable
// targets are left empty.
func BuildPathTable(board *Board, tapOnly bool) *PathTable {
	t := &PathTable{
		width:   board.Width(),
		tapOnly: tapOnly,
	}
	empty := emptyLike(board)
	for kind := PieceKind(0); kind < NumPieceKinds; kind++ {
		spawn := empty.Spawn(kind)
		for rot := Rotation(0); rot < NumRotationStates; rot++ {
			for xi := 0; xi < maxSearchColumns; xi++ {
				x := xi - searchColumnBias
				seqs := searchOptimal(empty, spawn, x, rot, !tapOnly)
				if len(seqs) > 0 {
					t.seqs[kind][rot][xi] = seqs
				}
			}
		}
	}
	return t
}

// PathTable is a dense table of precomputed spawn-state query results.
type PathTable struct {
	width   int
	tapOnly bool
	seqs    [NumPieceKinds][NumRotationStates][maxSearchColumns][]Sequence
}

// Lookup returns the precomputed sequences for a spawn-state query. The
// second return is false when the target is out of range or unreachable.
func (t *PathTable) Lookup(kind PieceKind, targetX int, targetRotation Rotation) ([]Sequence, bool) {
	if kind < 0 || kind >= NumPieceKinds {
		return nil, false
	}
	if targetRotation < 0 || targetRotation >= NumRotationStates {
		return nil, false
	}
	xi := targetX + searchColumnBias
	if xi < 0 || xi >= maxSearchColumns {
		return nil, false
	}
	seqs := t.seqs[kind][targetRotation][xi]
	if len(seqs) == 0 {
		return nil, false
	}
	return seqs, true
}

// Placements returns the number of reachable placements for a kind.
func (t *PathTable) Placements(kind PieceKind) int {
	if kind < 0 || kind >= NumPieceKinds {
		return 0
	}
	n := 0
	for rot := 0; rot < NumRotationStates; rot++ {
		for xi := 0; xi < maxSearchColumns; xi++ {
			if len(t.seqs[kind][rot][xi]) > 0 {
				n++
			}
		}
	}
	return n
}
