package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/skillsift/internal/model"
)

// SQLiteStore persists skill embeddings in a SQLite database, keyed by the
// embedding model name so vectors from different models never mix.
type SQLiteStore struct {
	db    *sql.DB
	model string
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// skill_embeddings table exists.
func NewSQLiteStore(dbPath, embeddingModel string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS skill_embeddings (
		model      TEXT NOT NULL,
		skill      TEXT NOT NULL,
		embedding  BLOB NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (model, skill)
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating skill_embeddings table: %w", err)
	}

	return &SQLiteStore{db: db, model: embeddingModel}, nil
}

// Load returns the stored embedding for skill, if any.
func (s *SQLiteStore) Load(ctx context.Context, skill string) (model.Embedding, bool, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT embedding FROM skill_embeddings WHERE model = ? AND skill = ?", s.model, skill,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading embedding for %q: %w", skill, err)
	}
	e, err := decodeEmbedding(blob)
	if err != nil {
		return nil, false, fmt.Errorf("decoding embedding for %q: %w", skill, err)
	}
	return e, true, nil
}

// Save stores the embedding for skill, replacing any previous value.
func (s *SQLiteStore) Save(ctx context.Context, skill string, e model.Embedding) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO skill_embeddings (model, skill, embedding) VALUES (?, ?, ?)",
		s.model, skill, encodeEmbedding(e),
	)
	if err != nil {
		return fmt.Errorf("saving embedding for %q: %w", skill, err)
	}
	return nil
}

// Count returns how many embeddings are stored for the configured model.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM skill_embeddings WHERE model = ?", s.model).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting embeddings: %w", err)
	}
	return count, nil
}

// Cleanup deletes embeddings older than the given duration.
func (s *SQLiteStore) Cleanup(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().UTC().Add(-olderThan).Format("2006-01-02 15:04:05")
	_, err := s.db.ExecContext(ctx, "DELETE FROM skill_embeddings WHERE created_at < ?", cutoff)
	if err != nil {
		return fmt.Errorf("cleaning up embeddings older than %v: %w", olderThan, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
