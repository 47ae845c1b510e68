package engine

import (
	"testing"

	"github.com/yourusername/finesse/internal/placekey"
)

func TestQueryCacheAddLookup(t *testing.T) {
	cache := NewQueryCache(64)
	ctx := MakeSearchContext(DefaultWidth, false)
	key := placekey.MakeQueryKey(int(PieceT), 0, 3, 0, 7)

	seqs, slot := cache.Lookup(key, ctx)
	if slot == CacheHit {
		t.Fatal("Empty cache should miss")
	}
	if seqs != nil {
		t.Errorf("Miss returned sequences: %v", seqs)
	}

	stored := []Sequence{{DASRight, HardDrop}}
	cache.Add(key, ctx, stored, slot)

	got, slot := cache.Lookup(key, ctx)
	if slot != CacheHit {
		t.Fatal("Lookup after Add should hit")
	}
	if len(got) != 1 || !containsSequence(got, stored[0]) {
		t.Errorf("Cached sequences = %v, want %v", got, stored)
	}
}

func TestQueryCacheContextSeparation(t *testing.T) {
	cache := NewQueryCache(64)
	key := placekey.MakeQueryKey(int(PieceT), 0, 3, 0, 0)
	full := MakeSearchContext(DefaultWidth, false)
	tapOnly := MakeSearchContext(DefaultWidth, true)

	_, slot := cache.Lookup(key, full)
	cache.Add(key, full, []Sequence{{DASLeft, HardDrop}}, slot)

	// Same query under a different edge set must not hit.
	if _, slot := cache.Lookup(key, tapOnly); slot == CacheHit {
		t.Error("Tap-only context hit a full-edge entry")
	}
	if _, slot := cache.Lookup(key, MakeSearchContext(8, false)); slot == CacheHit {
		t.Error("Different width hit a default-width entry")
	}
}

func TestQueryCacheTwoWayEviction(t *testing.T) {
	// Size 2 leaves a single node, so every key lands in the same slot.
	cache := NewQueryCache(2)
	ctx := MakeSearchContext(DefaultWidth, false)

	k1 := placekey.MakeQueryKey(int(PieceT), 0, 3, 0, 0)
	k2 := placekey.MakeQueryKey(int(PieceT), 0, 3, 0, 1)
	k3 := placekey.MakeQueryKey(int(PieceT), 0, 3, 0, 2)

	for i, k := range []placekey.QueryKey{k1, k2, k3} {
		_, slot := cache.Lookup(k, ctx)
		if slot == CacheHit {
			t.Fatalf("Key %d hit before Add", i+1)
		}
		cache.Add(k, ctx, []Sequence{{HardDrop}}, slot)
	}

	// The two most recent stay, the oldest is evicted.
	if _, slot := cache.Lookup(k3, ctx); slot != CacheHit {
		t.Error("Most recent key should hit")
	}
	if _, slot := cache.Lookup(k2, ctx); slot != CacheHit {
		t.Error("Second key should survive in the secondary way")
	}
	if _, slot := cache.Lookup(k1, ctx); slot == CacheHit {
		t.Error("Oldest key should be evicted")
	}
}

func TestQueryCacheStatsAndFlush(t *testing.T) {
	cache := NewQueryCache(64)
	ctx := MakeSearchContext(DefaultWidth, false)
	key := placekey.MakeQueryKey(int(PieceI), 0, 3, 1, -2)

	_, slot := cache.Lookup(key, ctx)
	cache.Add(key, ctx, []Sequence{{RotateCW, DASLeft, HardDrop}}, slot)
	cache.Lookup(key, ctx)
	cache.Lookup(key, ctx)

	lookups, hits, adds := cache.Stats()
	if lookups != 3 || hits != 2 || adds != 1 {
		t.Errorf("Stats = %d/%d/%d, want 3/2/1", lookups, hits, adds)
	}
	if rate := cache.HitRate(); rate < 66 || rate > 67 {
		t.Errorf("HitRate = %v, want ~66.7", rate)
	}

	cache.Flush()
	if lookups, hits, adds := cache.Stats(); lookups != 0 || hits != 0 || adds != 0 {
		t.Errorf("Stats after flush = %d/%d/%d, want zeros", lookups, hits, adds)
	}
	if _, slot := cache.Lookup(key, ctx); slot == CacheHit {
		t.Error("Flushed cache should miss")
	}
}

func TestMakeSearchContext(t *testing.T) {
	if MakeSearchContext(10, false) == MakeSearchContext(10, true) {
		t.Error("Edge flag should change the context")
	}
	if MakeSearchContext(10, false) == MakeSearchContext(12, false) {
		t.Error("Width should change the context")
	}
}
