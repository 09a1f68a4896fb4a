package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/ports"
)

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore keeps catalog slots in a single SQLite table, one row per key.
type SnapshotStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewSnapshotStore opens (or creates) the database at path.
func NewSnapshotStore(ctx context.Context, path string) (*SnapshotStore, error) {
	if path == "" {
		path = "catalog.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection: writes are serialized.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS slots (
		slot TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create slots table: %w", err)
	}
	return &SnapshotStore{db: db, path: path, now: time.Now}, nil
}

// Load reads the slot payload.
func (s *SnapshotStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM slots WHERE slot = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select slot %q: %w", key, err)
	}
	return payload, true, nil
}

// Store upserts the slot payload.
func (s *SnapshotStore) Store(ctx context.Context, key string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO slots(slot, payload, updated_at) VALUES(?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		key, payload, s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert slot %q: %w", key, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SnapshotStore) Close() error { return s.db.Close() }

// Path returns the configured database path.
func (s *SnapshotStore) Path() string { return s.path }
