package engine

import "testing"

func TestPathTableMatchesDirectSearch(t *testing.T) {
	board := DefaultBoard()
	table := BuildPathTable(board, false)

	cases := []struct {
		kind    PieceKind
		targetX int
		rot     Rotation
	}{
		{PieceT, 0, RotationSpawn},
		{PieceT, 4, RotationSpawn},
		{PieceT, 3, RotationRight},
		{PieceI, -2, RotationRight},
		{PieceO, 7, RotationSpawn},
		{PieceJ, 5, Rotation180},
	}
	for _, tc := range cases {
		want := searchOptimal(board, board.Spawn(tc.kind), tc.targetX, tc.rot, true)
		got, ok := table.Lookup(tc.kind, tc.targetX, tc.rot)
		if !ok {
			if len(want) != 0 {
				t.Errorf("%v/%v/%d: table miss but search finds %d sequences",
					tc.kind, tc.rot, tc.targetX, len(want))
			}
			continue
		}
		if len(got) != len(want) {
			t.Errorf("%v/%v/%d: table has %d sequences, search %d",
				tc.kind, tc.rot, tc.targetX, len(got), len(want))
			continue
		}
		for _, seq := range want {
			if !containsSequence(got, seq) {
				t.Errorf("%v/%v/%d: table is missing sequence %v",
					tc.kind, tc.rot, tc.targetX, seq)
			}
		}
	}
}

func TestPathTableLookupBounds(t *testing.T) {
	table := BuildPathTable(DefaultBoard(), false)

	if _, ok := table.Lookup(PieceKind(-1), 0, RotationSpawn); ok {
		t.Error("Negative kind should miss")
	}
	if _, ok := table.Lookup(PieceKind(NumPieceKinds), 0, RotationSpawn); ok {
		t.Error("Out-of-range kind should miss")
	}
	if _, ok := table.Lookup(PieceT, 0, Rotation(NumRotationStates)); ok {
		t.Error("Out-of-range rotation should miss")
	}
	if _, ok := table.Lookup(PieceT, -100, RotationSpawn); ok {
		t.Error("Far-left column should miss")
	}
	if _, ok := table.Lookup(PieceT, 100, RotationSpawn); ok {
		t.Error("Far-right column should miss")
	}
	// Off the board but within key range: unreachable, so a miss.
	if _, ok := table.Lookup(PieceT, 8, RotationSpawn); ok {
		t.Error("Column past the right wall should miss")
	}
}

func TestPathTablePlacementCounts(t *testing.T) {
	table := BuildPathTable(DefaultBoard(), false)

	for kind := PieceKind(0); kind < NumPieceKinds; kind++ {
		n := table.Placements(kind)
		// Every kind has at least 7 spawn-orientation columns on a 10-wide
		// field, and most orientations multiply that.
		if n < 7 {
			t.Errorf("%v: only %d reachable placements", kind, n)
		}
	}

	// The O piece occupies the same cells in every orientation, so it has
	// exactly four times its spawn-orientation count.
	spawnCols := 0
	for xi := 0; xi < maxSearchColumns; xi++ {
		if _, ok := table.Lookup(PieceO, xi-searchColumnBias, RotationSpawn); ok {
			spawnCols++
		}
	}
	if got := table.Placements(PieceO); got != 4*spawnCols {
		t.Errorf("O placements = %d, want %d", got, 4*spawnCols)
	}
}

func TestPathTableTapOnlyHasNoDAS(t *testing.T) {
	table := BuildPathTable(DefaultBoard(), true)

	for kind := PieceKind(0); kind < NumPieceKinds; kind++ {
		for xi := 0; xi < maxSearchColumns; xi++ {
			seqs, ok := table.Lookup(kind, xi-searchColumnBias, RotationSpawn)
			if !ok {
				continue
			}
			for _, seq := range seqs {
				for _, a := range seq {
					if a == DASLeft || a == DASRight {
						t.Fatalf("%v column %d: tap-only table contains %v", kind, xi-searchColumnBias, seq)
					}
				}
			}
		}
	}
}
