// Package storage persists best scores and player settings in SQLite.
// The pure-Go modernc.org/sqlite driver keeps the build free of CGO.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // database/sql driver registration
)

// DefaultPath is where the database lives unless --db points elsewhere.
// Open expands the leading ~.
const DefaultPath = "~/.config/pairs/pairs.db"

// Store manages the SQLite database holding best scores and settings.
type Store struct {
	db *sql.DB
}

// Entry is one difficulty's persisted best score.
type Entry struct {
	Difficulty string
	Score      int
	UpdatedAt  time.Time
}

// Open creates or opens the database at the given path, creating parent
// directories and the schema as needed.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the schema if it doesn't exist. Persistence is
// deliberately flat: one best score per difficulty plus key-value
// settings.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS best_scores (
			difficulty TEXT PRIMARY KEY,
			score      INTEGER NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// BestScore returns the persisted best score for a difficulty, or 0 when
// none has been recorded yet.
func (s *Store) BestScore(difficulty string) (int, error) {
	var score int
	err := s.db.QueryRow(
		"SELECT score FROM best_scores WHERE difficulty = ?",
		difficulty,
	).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}
	return score, nil
}

// SetBestScore records a best score for a difficulty. The stored value is
// monotonic: writing a score lower than the current best is a no-op, so
// callers may submit every final score unconditionally.
func (s *Store) SetBestScore(difficulty string, score int) error {
	_, err := s.db.Exec(
		`INSERT INTO best_scores (difficulty, score, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(difficulty) DO UPDATE
		 SET score = excluded.score, updated_at = excluded.updated_at
		 WHERE excluded.score > best_scores.score`,
		difficulty, score,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save best score: %w", err)
	}
	return nil
}

// BestScores returns every recorded best score, highest first.
func (s *Store) BestScores() ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT difficulty, score, updated_at
		 FROM best_scores
		 ORDER BY score DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best scores: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var updatedAt any
		if err := rows.Scan(&e.Difficulty, &e.Score, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.UpdatedAt = parseTimestamp(updatedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// Clear deletes all best scores. Settings are left alone.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM best_scores"); err != nil {
		return fmt.Errorf("storage: cannot clear best scores: %w", err)
	}
	return nil
}

// Setting returns a settings value and whether the key exists.
func (s *Store) Setting(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot query setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting stores a settings value, replacing any previous one.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save setting %s: %w", key, err)
	}
	return nil
}

// parseTimestamp tolerates the driver returning DATETIME columns as
// either time.Time or its textual form.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
