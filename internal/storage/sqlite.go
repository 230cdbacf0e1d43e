// Package storage persists the display-name identity registry and a
// best-score leaderboard in SQLite, so reconnecting players keep their
// ids across server restarts. Uses the pure-Go modernc.org/sqlite driver
// to avoid CGO dependencies. The world itself is never persisted.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Identity is one persisted name → player-id mapping.
type Identity struct {
	Name      string
	PlayerID  int
	BestScore int
	UpdatedAt time.Time
}

// Open creates or opens a SQLite database at the given path. It creates
// the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
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

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS identities (
			name TEXT PRIMARY KEY,
			player_id INTEGER NOT NULL,
			best_score INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_identities_best ON identities(best_score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveIdentity records or overwrites the player id assigned to a name.
// The best score is preserved across overwrites.
func (s *Store) SaveIdentity(name string, playerID int) error {
	_, err := s.db.Exec(`
		INSERT INTO identities (name, player_id, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			player_id = excluded.player_id,
			updated_at = CURRENT_TIMESTAMP
	`, name, playerID)
	if err != nil {
		return fmt.Errorf("storage: save identity %q: %w", name, err)
	}
	return nil
}

// RecordScore updates a name's best score when the new score beats it.
func (s *Store) RecordScore(name string, score int) error {
	_, err := s.db.Exec(`
		UPDATE identities
		SET best_score = ?, updated_at = CURRENT_TIMESTAMP
		WHERE name = ? AND best_score < ?
	`, score, name, score)
	if err != nil {
		return fmt.Errorf("storage: record score for %q: %w", name, err)
	}
	return nil
}

// Identities returns every persisted mapping, used to warm the in-memory
// registry at startup.
func (s *Store) Identities() ([]Identity, error) {
	rows, err := s.db.Query(`
		SELECT name, player_id, best_score, updated_at FROM identities
	`)
	if err != nil {
		return nil, fmt.Errorf("storage: load identities: %w", err)
	}
	defer rows.Close()

	var out []Identity
	for rows.Next() {
		var id Identity
		if err := rows.Scan(&id.Name, &id.PlayerID, &id.BestScore, &id.UpdatedAt); err != nil {
			return nil, fmt.Errorf("storage: scan identity: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// TopScores returns up to limit names ordered by best score descending.
func (s *Store) TopScores(limit int) ([]Identity, error) {
	rows, err := s.db.Query(`
		SELECT name, player_id, best_score, updated_at
		FROM identities
		WHERE best_score > 0
		ORDER BY best_score DESC, updated_at ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: top scores: %w", err)
	}
	defer rows.Close()

	var out []Identity
	for rows.Next() {
		var id Identity
		if err := rows.Scan(&id.Name, &id.PlayerID, &id.BestScore, &id.UpdatedAt); err != nil {
			return nil, fmt.Errorf("storage: scan score row: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
