// Package scores persists finished runs in a SQLite high-score table.
package scores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrEmptyPlayer is returned when recording an entry without a player name.
var ErrEmptyPlayer = errors.New("scores: empty player name")

// Entry is one finished run.
type Entry struct {
	ID        int64
	Player    string
	Score     int
	Collected int
	Ticks     int32
	Seed      int64
	CreatedAt time.Time
}

// Store wraps the SQLite database connection.
type Store struct {
	conn *sql.DB
}

// Open opens (or creates) the score database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	// WAL lets a debug reader run while the game writes.
	if _, err := conn.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling WAL: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player TEXT NOT NULL,
		score INTEGER NOT NULL DEFAULT 0,
		collected INTEGER NOT NULL DEFAULT 0,
		ticks INTEGER NOT NULL DEFAULT 0,
		seed INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_score ON runs(score DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_player ON runs(player);
	`
	if _, err := s.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrating scores: %w", err)
	}
	return nil
}

// Record stores e and returns its row ID. A zero CreatedAt is set to now.
func (s *Store) Record(ctx context.Context, e Entry) (int64, error) {
	if e.Player == "" {
		return 0, ErrEmptyPlayer
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	res, err := s.conn.ExecContext(ctx,
		"INSERT INTO runs (player, score, collected, ticks, seed, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		e.Player, e.Score, e.Collected, e.Ticks, e.Seed, e.CreatedAt.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("recording score: %w", err)
	}
	return res.LastInsertId()
}

// Top returns the n highest scores, best first. Ties go to the earlier run.
func (s *Store) Top(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, player, score, collected, ticks, seed, created_at
		FROM runs ORDER BY score DESC, id ASC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying top scores: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Best returns the highest-scoring run of player. ok is false if the player
// has no runs.
func (s *Store) Best(ctx context.Context, player string) (e Entry, ok bool, err error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT id, player, score, collected, ticks, seed, created_at
		FROM runs WHERE player = ? ORDER BY score DESC, id ASC LIMIT 1`, player)
	e, err = scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var e Entry
	var created int64
	if err := sc.Scan(&e.ID, &e.Player, &e.Score, &e.Collected, &e.Ticks, &e.Seed, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("scanning score: %w", err)
	}
	e.CreatedAt = time.Unix(created, 0)
	return e, nil
}
