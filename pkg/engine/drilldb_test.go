package engine

import "testing"

func TestDrillDBAddAndIndexes(t *testing.T) {
	db := NewDrillDB()
	db.Add(&DrillEntry{
		Name:           "T one right",
		Category:       CategoryNearSpawn,
		Kind:           PieceT,
		TargetX:        4,
		TargetRotation: RotationSpawn,
		Tags:           []string{"tap"},
	})

	if db.Count() != 1 {
		t.Fatalf("Count = %d, want 1", db.Count())
	}

	// The ID is derived from the placement when unset.
	d := db.Get("T04")
	if d == nil {
		t.Fatal("Get(T04) returned nil")
	}
	if d.Name != "T one right" {
		t.Errorf("Name = %q", d.Name)
	}

	if got := db.GetByCategory(CategoryNearSpawn); len(got) != 1 {
		t.Errorf("GetByCategory = %d entries, want 1", len(got))
	}
	if got := db.GetByTag("tap"); len(got) != 1 {
		t.Errorf("GetByTag = %d entries, want 1", len(got))
	}
	if got := db.GetByTag("missing"); len(got) != 0 {
		t.Errorf("GetByTag(missing) = %d entries, want 0", len(got))
	}
}

func TestDrillDBSearch(t *testing.T) {
	db := DefaultDrillDB()

	if got := db.Search("wall"); len(got) == 0 {
		t.Error("Search(wall) found nothing in the default catalog")
	}
	if got := db.Search("VERTICAL"); len(got) == 0 {
		t.Error("Search should be case-insensitive")
	}
	if got := db.Search("xyzzy"); len(got) != 0 {
		t.Errorf("Search(xyzzy) = %d entries, want 0", len(got))
	}
}

func TestDefaultDrillDBKeysDecode(t *testing.T) {
	db := DefaultDrillDB()
	if db.Count() < 8 {
		t.Fatalf("Default catalog has %d drills", db.Count())
	}
	for _, d := range db.All() {
		got := db.Get(d.ID)
		if got != d {
			t.Errorf("Get(%s) did not return the entry", d.ID)
		}
	}
}

func TestFindRelated(t *testing.T) {
	db := DefaultDrillDB()

	related := db.FindRelated(PieceT, 0, RotationSpawn, 3)
	if len(related) == 0 {
		t.Fatal("No related drills for the left-wall T")
	}
	if related[0].Entry.ID != "T00" {
		t.Errorf("Best match = %s, want the exact drill T00", related[0].Entry.ID)
	}
	for i := 1; i < len(related); i++ {
		if related[i].Similarity > related[i-1].Similarity {
			t.Error("Related drills are not sorted by similarity")
		}
	}
}

func TestClassifyDrill(t *testing.T) {
	board := DefaultBoard()

	cases := []struct {
		name    string
		kind    PieceKind
		targetX int
		rot     Rotation
		want    DrillCategory
	}{
		{"left wall", PieceT, 0, RotationSpawn, CategoryWallHug},
		{"right wall", PieceT, 7, RotationSpawn, CategoryWallHug},
		{"one tap", PieceT, 4, RotationSpawn, CategoryNearSpawn},
		{"das range", PieceT, 1, RotationSpawn, CategoryDasRange},
		{"rotate in place", PieceT, 3, RotationRight, CategoryRotated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seqs := searchOptimal(board, board.Spawn(tc.kind), tc.targetX, tc.rot, true)
			if len(seqs) == 0 {
				t.Fatal("Target unreachable")
			}
			got := ClassifyDrill(DefaultWidth, tc.kind, tc.targetX, tc.rot, seqs)
			if got != tc.want {
				t.Errorf("ClassifyDrill = %v, want %v", got, tc.want)
			}
		})
	}

	if got := ClassifyDrill(DefaultWidth, PieceT, 0, RotationSpawn, nil); got != CategoryUnknown {
		t.Errorf("Empty set = %v, want Unknown", got)
	}
}

func TestPrecomputeSequences(t *testing.T) {
	e, err := NewEngine(EngineOptions{})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	db := DefaultDrillDB()
	if err := db.PrecomputeSequences(e); err != nil {
		t.Fatalf("PrecomputeSequences failed: %v", err)
	}
	for _, d := range db.All() {
		if len(d.Sequences) == 0 {
			t.Errorf("Drill %s has no precomputed sequences", d.ID)
		}
		for _, seq := range d.Sequences {
			if len(seq) != MinSequenceLength(d.Sequences) {
				t.Errorf("Drill %s carries a non-minimal sequence %v", d.ID, seq)
			}
		}
	}
}
