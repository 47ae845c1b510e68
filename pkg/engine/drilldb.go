// Package engine provides a drill catalog for common finesse scenarios.
package engine

import (
	"sort"
	"sync"

	"github.com/yourusername/finesse/internal/placekey"
)

// DrillCategory represents the type of placement drill.
type DrillCategory int

const (
	CategoryUnknown     DrillCategory = iota
	CategoryNearSpawn                 // Reachable with one or two taps
	CategoryDasRange                  // Needs auto-shift to cross the field
	CategoryWallHug                   // Lands flush against a wall
	CategoryRotated                   // Non-spawn target orientation
	CategoryOrderStrict               // Rotation and movement order matters
)

// String returns the human-readable name of the category.
func (c DrillCategory) String() string {
	return [...]string{
		"Unknown", "Near Spawn", "DAS Range", "Wall Hug", "Rotated", "Order Strict",
	}[c]
}

// DrillEntry represents one placement drill in the catalog.
type DrillEntry struct {
	ID             string        `json:"id"`       // Placement key, e.g. "T00"
	Name           string        `json:"name"`     // Human-readable name
	Category       DrillCategory `json:"category"` // Drill category
	Description    string        `json:"description"`
	Kind           PieceKind     `json:"kind"`
	TargetX        int           `json:"targetX"`
	TargetRotation Rotation      `json:"targetRotation"`
	Tags           []string      `json:"tags"` // Searchable tags

	// Pre-computed optimal set (optional)
	Sequences []Sequence `json:"sequences,omitempty"`

	// Key concepts this drill demonstrates
	Concepts []string `json:"concepts,omitempty"`

	// Difficulty level (1-5)
	Difficulty int `json:"difficulty"`
}

// DrillDB is an in-memory drill catalog.
type DrillDB struct {
	drills     map[string]*DrillEntry
	byCategory map[DrillCategory][]*DrillEntry
	byTag      map[string][]*DrillEntry
	mu         sync.RWMutex
}

// NewDrillDB creates a new empty drill catalog.
func NewDrillDB() *DrillDB {
	return &DrillDB{
		drills:     make(map[string]*DrillEntry),
		byCategory: make(map[DrillCategory][]*DrillEntry),
		byTag:      make(map[string][]*DrillEntry),
	}
}

// Add adds a drill to the catalog.
func (db *DrillDB) Add(entry *DrillEntry) {
	db.mu.Lock()
	defer db.mu.Unlock()

	// Generate ID if not set
	if entry.ID == "" {
		if id, err := placekey.Encode(int(entry.Kind), int(entry.TargetRotation), entry.TargetX); err == nil {
			entry.ID = id
		}
	}

	db.drills[entry.ID] = entry

	// Index by category
	db.byCategory[entry.Category] = append(db.byCategory[entry.Category], entry)

	// Index by tags
	for _, tag := range entry.Tags {
		db.byTag[tag] = append(db.byTag[tag], entry)
	}
}

// Get retrieves a drill by ID.
func (db *DrillDB) Get(id string) *DrillEntry {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.drills[id]
}

// GetByCategory returns all drills in a category.
func (db *DrillDB) GetByCategory(cat DrillCategory) []*DrillEntry {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.byCategory[cat]
}

// GetByTag returns all drills with a given tag.
func (db *DrillDB) GetByTag(tag string) []*DrillEntry {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.byTag[tag]
}

// Search finds drills matching a query.
func (db *DrillDB) Search(query string) []*DrillEntry {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var results []*DrillEntry
	for _, d := range db.drills {
		if matchesQuery(d, query) {
			results = append(results, d)
		}
	}
	return results
}

// Count returns the total number of drills.
func (db *DrillDB) Count() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.drills)
}

// All returns all drills.
func (db *DrillDB) All() []*DrillEntry {
	db.mu.RLock()
	defer db.mu.RUnlock()

	results := make([]*DrillEntry, 0, len(db.drills))
	for _, d := range db.drills {
		results = append(results, d)
	}
	return results
}

// matchesQuery checks if a drill matches a search query.
func matchesQuery(d *DrillEntry, query string) bool {
	// Simple substring match on name, description, tags
	if containsIgnoreCase(d.Name, query) || containsIgnoreCase(d.Description, query) {
		return true
	}
	for _, tag := range d.Tags {
		if containsIgnoreCase(tag, query) {
			return true
		}
	}
	return false
}

// containsIgnoreCase checks if s contains substr (case-insensitive).
func containsIgnoreCase(s, substr string) bool {
	sLower := toLower(s)
	substrLower := toLower(substr)
	for i := 0; i <= len(sLower)-len(substrLower); i++ {
		if sLower[i:i+len(substrLower)] == substrLower {
			return true
		}
	}
	return false
}

// toLower converts a string to lowercase (ASCII only).
func toLower(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b[i] = c
	}
	return string(b)
}

// DrillSimilarity contains similarity information between two drills.
type DrillSimilarity struct {
	Entry      *DrillEntry
	Similarity float64 // 0.0 to 1.0
}

// FindRelated finds drills that exercise motions close to the given target.
func (db *DrillDB) FindRelated(kind PieceKind, targetX int, targetRotation Rotation, maxResults int) []DrillSimilarity {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var results []DrillSimilarity
	for _, d := range db.drills {
		sim := calculateDrillSimilarity(kind, targetX, targetRotation, d)
		if sim > 0.5 { // Threshold for "related"
			results = append(results, DrillSimilarity{
				Entry:      d,
				Similarity: sim,
			})
		}
	}

	// Sort by similarity descending, then by ID for a stable order
	sort.Slice(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].Entry.ID < results[j].Entry.ID
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// calculateDrillSimilarity returns a similarity score (0-1) between a query
// placement and a drill. Same kind counts most, then orientation, then
// column distance.
func calculateDrillSimilarity(kind PieceKind, targetX int, targetRotation Rotation, d *DrillEntry) float64 {
	score := 0.0
	if d.Kind == kind {
		score += 0.4
	}
	if d.TargetRotation == targetRotation {
		score += 0.3
	}
	dx := targetX - d.TargetX
	if dx < 0 {
		dx = -dx
	}
	if dx < DefaultWidth {
		score += 0.3 * (1.0 - float64(dx)/float64(DefaultWidth))
	}
	return score
}

// ClassifyDrill determines the category of a placement drill from its
// optimal set on a board of the given width.
func ClassifyDrill(width int, kind PieceKind, targetX int, targetRotation Rotation, seqs []Sequence) DrillCategory {
	if len(seqs) == 0 {
		return CategoryUnknown
	}

	// Wall hug: the placement is the leftmost or rightmost column the
	// orientation can occupy.
	minX, maxX := columnRange(width, kind, targetRotation)
	if targetX == minX || targetX == maxX {
		return CategoryWallHug
	}

	hasDAS := false
	hasRotation := false
	rotationAfterMove := false
	for _, seq := range seqs {
		moved := false
		for _, a := range seq {
			switch a {
			case DASLeft, DASRight:
				hasDAS = true
				moved = true
			case MoveLeft, MoveRight:
				moved = true
			case RotateCW, RotateCCW:
				hasRotation = true
				if moved {
					rotationAfterMove = true
				}
			}
		}
	}

	// Order strict: every optimal line needs the rotation somewhere after a
	// movement input.
	if hasRotation && rotationAfterMove && !anyRotationFirst(seqs) {
		return CategoryOrderStrict
	}
	if hasDAS {
		return CategoryDasRange
	}
	if hasRotation {
		return CategoryRotated
	}
	return CategoryNearSpawn
}

// anyRotationFirst reports whether some sequence rotates before any
// movement input.
func anyRotationFirst(seqs []Sequence) bool {
	for _, seq := range seqs {
		for _, a := range seq {
			if a == RotateCW || a == RotateCCW {
				return true
			}
			if a == MoveLeft || a == MoveRight || a == DASLeft || a == DASRight {
				break
			}
		}
	}
	return false
}

// columnRange returns the leftmost and rightmost box columns the
// orientation can occupy on a board of the given width.
func columnRange(width int, kind PieceKind, rot Rotation) (int, int) {
	b, err := NewBoard(width, DefaultHeight, DefaultVanish)
	if err != nil {
		return 0, width - 1
	}
	p := b.Spawn(kind)
	p.Rotation = rot
	left := MoveToWall(b, p, DirLeft)
	right := MoveToWall(b, p, DirRight)
	return left.X, right.X
}

// CreateDrillEntry creates a drill entry from a placement key.
func CreateDrillEntry(id, name string, cat DrillCategory, desc string, tags []string) (*DrillEntry, error) {
	kind, rot, x, err := placekey.Decode(id)
	if err != nil {
		return nil, err
	}

	return &DrillEntry{
		ID:             id,
		Name:           name,
		Category:       cat,
		Description:    desc,
		Kind:           PieceKind(kind),
		TargetX:        x,
		TargetRotation: Rotation(rot),
		Tags:           tags,
	}, nil
}

// DefaultDrillDB creates a catalog with common reference drills.
func DefaultDrillDB() *DrillDB {
	db := NewDrillDB()

	// The staple left-wall tap drill
	db.Add(&DrillEntry{
		ID:             "T00",
		Name:           "T to the Left Wall",
		Category:       CategoryWallHug,
		Description:    "Flat T carried across the field with a single auto-shift",
		Kind:           PieceT,
		TargetX:        0,
		TargetRotation: RotationSpawn,
		Tags:           []string{"das", "wall", "staple"},
		Concepts:       []string{"auto-shift", "two-step finesse"},
		Difficulty:     1,
	})

	referenceDrills := []struct {
		id       string
		name     string
		cat      DrillCategory
		desc     string
		tags     []string
		concepts []string
		diff     int
	}{
		{"TR3", "T Point Right In Place", CategoryRotated,
			"Rotate clockwise at spawn, no movement", []string{"rotation", "spawn"},
			[]string{"rotate first"}, 1},
		{"IR-2", "I Against the Left Wall", CategoryWallHug,
			"Vertical I flush against the left wall, rotate before shifting",
			[]string{"wall", "vertical", "order"},
			[]string{"rotate before das"}, 3},
		{"IL8", "I Against the Right Wall", CategoryWallHug,
			"Vertical I flush against the right wall",
			[]string{"wall", "vertical", "order"},
			[]string{"rotate before das"}, 3},
		{"O07", "O to the Right Wall", CategoryWallHug,
			"O carried to the right wall with auto-shift", []string{"das", "wall"},
			[]string{"auto-shift"}, 1},
		{"SR-1", "S Against the Left Wall", CategoryWallHug,
			"Vertical S flush against the left wall", []string{"vertical", "wall"},
			[]string{"rotation plus das"}, 2},
		{"ZL8", "Z Against the Right Wall", CategoryWallHug,
			"Vertical Z flush against the right wall", []string{"vertical", "wall"},
			[]string{"rotation plus das"}, 2},
		{"J25", "J Upside Down Mid", CategoryRotated,
			"Double-rotated J two columns right of spawn", []string{"rotation", "180"},
			[]string{"two rotations"}, 2},
		{"L00", "L Flat Left Wall", CategoryWallHug,
			"Flat L against the left wall", []string{"das", "wall"},
			[]string{"auto-shift"}, 1},
	}

	for _, rd := range referenceDrills {
		entry, err := CreateDrillEntry(rd.id, rd.name, rd.cat, rd.desc, rd.tags)
		if err != nil {
			continue // Skip invalid keys
		}
		entry.Concepts = rd.concepts
		entry.Difficulty = rd.diff
		db.Add(entry)
	}

	return db
}

// PrecomputeSequences fills in the optimal set for every drill in the
// catalog.
func (db *DrillDB) PrecomputeSequences(e *Engine) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, d := range db.drills {
		if d.Sequences == nil {
			seqs := e.CalculateOptimal(e.Spawn(d.Kind), d.TargetX, d.TargetRotation)
			if len(seqs) == 0 {
				continue
			}
			d.Sequences = seqs
		}
	}
	return nil
}
