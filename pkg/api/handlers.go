package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/finesse/internal/history"
	"github.com/yourusername/finesse/internal/placekey"
	"github.com/yourusername/finesse/pkg/engine"
	"github.com/yourusername/finesse/pkg/replay"
	"github.com/yourusername/finesse/pkg/trainer"
)

// Handlers holds the HTTP handlers and engine reference.
type Handlers struct {
	engine    *engine.Engine
	store     *history.Store // nil disables auth and history routes
	catalog   *engine.DrillDB
	version   string
	pool      *WorkerPool
	jwtSecret []byte
}

// NewHandlers creates a new Handlers instance. The store may be nil when
// history persistence is disabled.
func NewHandlers(e *engine.Engine, store *history.Store, version string, pool *WorkerPool, jwtSecret string) *Handlers {
	catalog := engine.DefaultDrillDB()
	catalog.PrecomputeSequences(e)

	return &Handlers{
		engine:    e,
		store:     store,
		catalog:   catalog,
		version:   version,
		pool:      pool,
		jwtSecret: []byte(jwtSecret),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, msg string, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  code,
	})
}

// parseQuery resolves a placement query: the target key and an optional
// mid-flight start key for the same kind.
func (h *Handlers) parseQuery(target, start string) (engine.ActivePiece, int, engine.Rotation, error) {
	kind, rot, x, err := placekey.Decode(target)
	if err != nil {
		return engine.ActivePiece{}, 0, 0, fmt.Errorf("invalid target: %w", err)
	}

	piece := h.engine.Spawn(engine.PieceKind(kind))
	if start != "" {
		sk, sr, sx, err := placekey.Decode(start)
		if err != nil {
			return engine.ActivePiece{}, 0, 0, fmt.Errorf("invalid start: %w", err)
		}
		if sk != kind {
			return engine.ActivePiece{}, 0, 0, fmt.Errorf("start piece %s does not match target piece %s",
				engine.PieceKind(sk), engine.PieceKind(kind))
		}
		piece.Rotation = engine.Rotation(sr)
		piece.X = sx
	}
	return piece, x, engine.Rotation(rot), nil
}

// Health handles GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
		Ready:   h.engine != nil,
	}

	if h.pool != nil {
		stats := h.pool.Stats()
		resp.Pool = &stats
	}

	writeJSON(w, http.StatusOK, resp)
}

// Optimal handles POST /api/optimal
func (h *Handlers) Optimal(w http.ResponseWriter, r *http.Request) {
	if h.pool != nil {
		if err := h.pool.AcquireFast(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseFast()
	}

	var req OptimalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}
	if req.Target == "" {
		writeError(w, http.StatusBadRequest, "target is required", "MISSING_TARGET")
		return
	}

	piece, targetX, targetRot, err := h.parseQuery(req.Target, req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_KEY")
		return
	}

	seqs := h.engine.CalculateOptimal(piece, targetX, targetRot)
	writeJSON(w, http.StatusOK, OptimalResponse{
		Target:    strings.ToUpper(req.Target),
		MinInputs: engine.MinSequenceLength(seqs),
		Sequences: sequenceTokens(seqs),
	})
}

// Evaluate handles POST /api/evaluate
func (h *Handlers) Evaluate(w http.ResponseWriter, r *http.Request) {
	if h.pool != nil {
		if err := h.pool.AcquireFast(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseFast()
	}

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}
	if req.Target == "" {
		writeError(w, http.StatusBadRequest, "target is required", "MISSING_TARGET")
		return
	}

	piece, targetX, targetRot, err := h.parseQuery(req.Target, "")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_KEY")
		return
	}

	events := make([]engine.InputEvent, 0, len(req.Events))
	for _, tok := range req.Events {
		ev, err := replay.ParseEvent(tok)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), "INVALID_EVENT")
			return
		}
		events = append(events, ev)
	}

	window := h.engine.Config().CancelWindow
	if req.CancelWindowMs > 0 {
		window = time.Duration(req.CancelWindowMs) * time.Millisecond
	}

	optimal := h.engine.CalculateOptimal(piece, targetX, targetRot)
	analysis := engine.AnalyzePlacement(events, optimal, window)

	normalized := make([]string, len(analysis.Normalized))
	for i, a := range analysis.Normalized {
		normalized[i] = a.Code()
	}
	writeJSON(w, http.StatusOK, EvaluateResponse{
		Target:     strings.ToUpper(req.Target),
		Normalized: normalized,
		OptimalLen: engine.MinSequenceLength(optimal),
		IsOptimal:  analysis.Verdict.IsOptimal,
		FaultCount: analysis.Verdict.FaultCount,
		Grade:      analysis.Grade.String(),
		Optimal:    sequenceTokens(optimal),
	})
}

// SessionAnalyze handles POST /api/session/analyze
func (h *Handlers) SessionAnalyze(w http.ResponseWriter, r *http.Request) {
	// Full-session analysis runs one search per placement; slow lane.
	if h.pool != nil {
		if err := h.pool.AcquireSlow(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseSlow()
	}

	var req SessionAnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}
	if req.Log == "" {
		writeError(w, http.StatusBadRequest, "log is required", "MISSING_LOG")
		return
	}

	log, err := replay.ImportLog(strings.NewReader(req.Log))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_LOG")
		return
	}

	analysis, err := replay.AnalyzeLog(h.engine, log)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "ANALYZE_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// Drills handles GET /api/drills?count=&seed=&category=&piece=
func (h *Handlers) Drills(w http.ResponseWriter, r *http.Request) {
	if h.pool != nil {
		if err := h.pool.AcquireSlow(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
			return
		}
		defer h.pool.ReleaseSlow()
	}

	opts, seed, err := drillOptionsFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_PARAM")
		return
	}

	drills, err := trainer.GenerateDrills(h.engine, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "DRILL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, DrillsResponse{Seed: seed, Drills: drills})
}

// Catalog handles GET /api/drills/catalog?category=&tag=&q=
func (h *Handlers) Catalog(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var drills []*engine.DrillEntry
	switch {
	case query.Get("category") != "":
		cat, err := parseCategory(query.Get("category"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), "INVALID_CATEGORY")
			return
		}
		drills = h.catalog.GetByCategory(cat)
	case query.Get("tag") != "":
		drills = h.catalog.GetByTag(query.Get("tag"))
	case query.Get("q") != "":
		drills = h.catalog.Search(query.Get("q"))
	default:
		drills = h.catalog.All()
	}

	if drills == nil {
		drills = []*engine.DrillEntry{}
	}
	writeJSON(w, http.StatusOK, CatalogResponse{Drills: drills, Count: len(drills)})
}

// drillOptionsFromQuery parses drill generation parameters. A missing seed
// draws a fresh one so the response can echo it for replays.
func drillOptionsFromQuery(r *http.Request) (trainer.DrillOptions, int64, error) {
	query := r.URL.Query()

	opts := trainer.DrillOptions{Count: 10}
	if s := query.Get("count"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 500 {
			return opts, 0, fmt.Errorf("count must be 1-500, got %q", s)
		}
		opts.Count = n
	}

	seed := time.Now().UnixNano()
	if s := query.Get("seed"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return opts, 0, fmt.Errorf("invalid seed %q", s)
		}
		seed = n
	}
	opts.Seed = seed

	if s := query.Get("category"); s != "" {
		cat, err := parseCategory(s)
		if err != nil {
			return opts, 0, err
		}
		opts.Categories = []engine.DrillCategory{cat}
	}
	if s := query.Get("piece"); s != "" {
		for _, part := range strings.Split(s, ",") {
			kind, err := engine.ParsePieceKind(strings.TrimSpace(part))
			if err != nil {
				return opts, 0, err
			}
			opts.Pieces = append(opts.Pieces, kind)
		}
	}
	return opts, seed, nil
}

// parseCategory matches a drill category by name, ignoring case and spaces.
func parseCategory(s string) (engine.DrillCategory, error) {
	want := strings.ReplaceAll(strings.ToLower(s), " ", "")
	for c := engine.CategoryNearSpawn; c <= engine.CategoryOrderStrict; c++ {
		name := strings.ReplaceAll(strings.ToLower(c.String()), " ", "")
		if name == want {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}
