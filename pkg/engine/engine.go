package engine

import (
	"time"

	"github.com/yourusername/finesse/internal/placekey"
)

// Config holds the gameplay parameters the engine computes against.
type Config struct {
	Width        int           // Board columns
	Height       int           // Visible rows
	Vanish       int           // Hidden rows above the visible field
	CancelWindow time.Duration // Opposite-tap cancellation window
	TapOnly      bool          // Exclude das edges from the search
}

// DefaultConfig returns the guideline geometry with standard timing.
func DefaultConfig() Config {
	return Config{
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		Vanish:       DefaultVanish,
		CancelWindow: DefaultCancelWindow,
	}
}

// Engine answers finesse queries for one board geometry. Spawn-state
// queries come out of a precomputed path table, mid-flight queries run the
// live search behind a cache. The zero value is not usable; construct with
// NewEngine.
type Engine struct {
	cfg   Config
	field *Board      // Empty field the search runs on
	table *PathTable  // Precomputed spawn-state queries
	cache *QueryCache // Mid-flight query cache
	ctx   int32       // Search context for cache keys
}

// EngineOptions configures the engine
type EngineOptions struct {
	Width        int           // Board columns (0 = default 10)
	Height       int           // Visible rows (0 = default 20)
	Vanish       int           // Hidden rows (0 = default 2)
	CancelWindow time.Duration // Opposite-tap window (0 = default 80ms)
	TapOnly      bool          // Exclude das edges from the search
	CacheSize    int           // Query cache size (0 = default, negative = disabled)
	NoPathTable  bool          // Skip precomputing the spawn table
}

// NewEngine creates a new finesse engine with the given options
func NewEngine(opts EngineOptions) (*Engine, error) {
	cfg := Config{
		Width:        opts.Width,
		Height:       opts.Height,
		Vanish:       opts.Vanish,
		CancelWindow: opts.CancelWindow,
		TapOnly:      opts.TapOnly,
	}
	if cfg.Width == 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height == 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.Vanish == 0 {
		cfg.Vanish = DefaultVanish
	}
	if cfg.CancelWindow == 0 {
		cfg.CancelWindow = DefaultCancelWindow
	}

	field, err := NewBoard(cfg.Width, cfg.Height, cfg.Vanish)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:   cfg,
		field: field,
		ctx:   MakeSearchContext(cfg.Width, cfg.TapOnly),
	}

	if !opts.NoPathTable {
		e.table = BuildPathTable(field, cfg.TapOnly)
	}

	cacheSize := opts.CacheSize
	if cacheSize == 0 {
		cacheSize = DefaultCacheSize
	}
	if cacheSize > 0 {
		e.cache = NewQueryCache(uint32(cacheSize))
	}

	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// NewField returns a fresh empty board with the engine's geometry.
func (e *Engine) NewField() *Board {
	return e.field.Clone()
}

// Spawn returns the spawn state for a kind on the engine's geometry.
func (e *Engine) Spawn(kind PieceKind) ActivePiece {
	return e.field.Spawn(kind)
}

// isSpawnState reports whether the piece is still in its spawn column and
// orientation. The row is ignored: gravity may already have pulled the
// piece down without changing which sequences are optimal.
func (e *Engine) isSpawnState(p ActivePiece) bool {
	return p.Rotation == RotationSpawn && p.X == e.field.Spawn(p.Kind).X
}

// CalculateOptimal returns every minimal sequence for the query. Results
// for spawn-state pieces come from the path table; other queries run the
// search behind the cache. The returned slices are shared and must not be
// modified.
func (e *Engine) CalculateOptimal(start ActivePiece, targetX int, targetRotation Rotation) []Sequence {
	if e.table != nil && e.isSpawnState(start) {
		seqs, _ := e.table.Lookup(start.Kind, targetX, targetRotation)
		return seqs
	}

	if e.cache == nil {
		return searchOptimal(e.field, start, targetX, targetRotation, !e.cfg.TapOnly)
	}

	key := placekey.MakeQueryKey(int(start.Kind), int(start.Rotation), start.X, int(targetRotation), targetX)
	seqs, slot := e.cache.Lookup(key, e.ctx)
	if slot == CacheHit {
		return seqs
	}
	seqs = searchOptimal(e.field, start, targetX, targetRotation, !e.cfg.TapOnly)
	e.cache.Add(key, e.ctx, seqs, slot)
	return seqs
}

// Normalize converts a raw input log using the engine's cancel window.
func (e *Engine) Normalize(log []InputEvent) Sequence {
	return Normalize(log, e.cfg.CancelWindow)
}

// EvaluateLog normalizes a raw input log and grades it against the optimal
// set for the query.
func (e *Engine) EvaluateLog(start ActivePiece, targetX int, targetRotation Rotation, log []InputEvent) *PlacementAnalysis {
	optimal := e.CalculateOptimal(start, targetX, targetRotation)
	return AnalyzePlacement(log, optimal, e.cfg.CancelWindow)
}

// CacheStats returns query cache statistics, all zero when the cache is
// disabled.
func (e *Engine) CacheStats() (lookups, hits, adds uint64) {
	if e.cache == nil {
		return 0, 0, 0
	}
	return e.cache.Stats()
}

// CacheHitRate returns the query cache hit rate as a percentage.
func (e *Engine) CacheHitRate() float64 {
	if e.cache == nil {
		return 0
	}
	return e.cache.HitRate()
}

// PathTable returns the precomputed spawn table, nil when disabled.
func (e *Engine) PathTable() *PathTable {
	return e.table
}
