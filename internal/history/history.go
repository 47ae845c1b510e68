// Package history persists players and drill session results in SQLite.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrPlayerNotFound is returned when a player lookup matches no row.
var ErrPlayerNotFound = errors.New("player not found")

// schema is applied on every Open; all statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS players (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    name       TEXT NOT NULL UNIQUE,
    pass_hash  TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sessions (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    player_id        INTEGER NOT NULL REFERENCES players(id),
    mode             TEXT NOT NULL DEFAULT '',
    placed           INTEGER NOT NULL,
    optimal_count    INTEGER NOT NULL,
    total_faults     INTEGER NOT NULL,
    accuracy         REAL NOT NULL,
    faults_per_piece REAL NOT NULL,
    rating           TEXT NOT NULL DEFAULT '',
    duration_ms      INTEGER NOT NULL DEFAULT 0,
    created_at       TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_sessions_player ON sessions(player_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at);
`

// Store is a SQLite-backed history store. Safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Player is one registered player.
type Player struct {
	ID        int64
	Name      string
	PassHash  string
	CreatedAt time.Time
}

// SessionRecord is one completed drill session.
type SessionRecord struct {
	ID             int64     `json:"id"`
	PlayerID       int64     `json:"-"`
	Mode           string    `json:"mode,omitempty"`
	Placed         int       `json:"placed"`
	OptimalCount   int       `json:"optimalCount"`
	TotalFaults    int       `json:"totalFaults"`
	Accuracy       float64   `json:"accuracy"`
	FaultsPerPiece float64   `json:"faultsPerPiece"`
	Rating         string    `json:"rating"`
	DurationMs     int64     `json:"durationMs"`
	CreatedAt      time.Time `json:"createdAt"`
}

// LeaderboardRow is one aggregated leaderboard entry.
type LeaderboardRow struct {
	Player         string  `json:"player"`
	Sessions       int     `json:"sessions"`
	Placed         int     `json:"placed"`
	Accuracy       float64 `json:"accuracy"` // Weighted by placements
	FaultsPerPiece float64 `json:"faultsPerPiece"`
}

// Open opens (creating if missing) the history database at path and applies
// the schema. The parent directory is created for relative paths like
// ./data/finesse.db.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreatePlayer inserts a player and returns its id. The name must be unique.
func (s *Store) CreatePlayer(ctx context.Context, name, passHash string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO players(name, pass_hash) VALUES (?, ?)`, name, passHash)
	if err != nil {
		return 0, fmt.Errorf("create player %q: %w", name, err)
	}
	return res.LastInsertId()
}

// PlayerByName looks a player up by name.
func (s *Store) PlayerByName(ctx context.Context, name string) (*Player, error) {
	var p Player
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, pass_hash, created_at FROM players WHERE name=?`, name,
	).Scan(&p.ID, &p.Name, &p.PassHash, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// RecordSession inserts a completed session and returns its id.
func (s *Store) RecordSession(ctx context.Context, rec *SessionRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO sessions
            (player_id, mode, placed, optimal_count, total_faults,
             accuracy, faults_per_piece, rating, duration_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.PlayerID, rec.Mode, rec.Placed, rec.OptimalCount, rec.TotalFaults,
		rec.Accuracy, rec.FaultsPerPiece, rec.Rating, rec.DurationMs,
	)
	if err != nil {
		return 0, fmt.Errorf("record session: %w", err)
	}
	return res.LastInsertId()
}

// RecentSessions returns a player's latest sessions, newest first.
func (s *Store) RecentSessions(ctx context.Context, playerID int64, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, player_id, mode, placed, optimal_count, total_faults,
               accuracy, faults_per_piece, rating, duration_ms, created_at
        FROM sessions
        WHERE player_id=?
        ORDER BY created_at DESC, id DESC
        LIMIT ?`, playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SessionRecord, 0, limit)
	for rows.Next() {
		var r SessionRecord
		if err := rows.Scan(&r.ID, &r.PlayerID, &r.Mode, &r.Placed, &r.OptimalCount,
			&r.TotalFaults, &r.Accuracy, &r.FaultsPerPiece, &r.Rating,
			&r.DurationMs, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Leaderboard aggregates sessions from the last days into per-player rows,
// ordered by placement-weighted accuracy, then fault rate.
func (s *Store) Leaderboard(ctx context.Context, days, limit int) ([]LeaderboardRow, error) {
	if days <= 0 {
		days = 7
	}
	if limit <= 0 {
		limit = 20
	}
	since := time.Now().AddDate(0, 0, -days).UTC()

	rows, err := s.db.QueryContext(ctx, `
        SELECT p.name,
               COUNT(s.id),
               SUM(s.placed),
               SUM(s.optimal_count) * 100.0 / SUM(s.placed),
               SUM(s.total_faults) * 1.0 / SUM(s.placed)
        FROM sessions s
        JOIN players p ON p.id = s.player_id
        WHERE s.created_at >= ? AND s.placed > 0
        GROUP BY p.id
        ORDER BY 4 DESC, 5 ASC
        LIMIT ?`, since, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LeaderboardRow, 0, limit)
	for rows.Next() {
		var r LeaderboardRow
		if err := rows.Scan(&r.Player, &r.Sessions, &r.Placed, &r.Accuracy, &r.FaultsPerPiece); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
