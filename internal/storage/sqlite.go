package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists files and session snapshots in a sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id   TEXT PRIMARY KEY,
	blob BLOB NOT NULL,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS files (
	path              TEXT PRIMARY KEY,
	content           TEXT NOT NULL,
	version           INTEGER NOT NULL,
	source_message_id TEXT NOT NULL DEFAULT '',
	session_id        TEXT NOT NULL DEFAULT '',
	updated_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// OpenSQLite opens (creating if needed) the database at dbPath and ensures
// the schema exists.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db dir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db %s: %w", dbPath, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveSession(ctx context.Context, sessionID string, blob []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, blob, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET blob = excluded.blob, updated_at = CURRENT_TIMESTAMP`,
		sessionID, blob,
	)
	return err
}

func (s *SQLiteStore) LoadSession(ctx context.Context, sessionID string) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT blob FROM sessions WHERE id = ?", sessionID,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}

func (s *SQLiteStore) SaveFile(ctx context.Context, path, content string, meta Metadata) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO files (path, content, version, source_message_id, session_id, updated_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(path) DO UPDATE SET
		   content = excluded.content,
		   version = excluded.version,
		   source_message_id = excluded.source_message_id,
		   session_id = excluded.session_id,
		   updated_at = CURRENT_TIMESTAMP`,
		path, content, meta.Version, meta.SourceMessageID, meta.SessionID,
	)
	return err
}

func (s *SQLiteStore) LoadFile(ctx context.Context, path string) (string, Metadata, error) {
	var content string
	var meta Metadata
	err := s.db.QueryRowContext(ctx,
		"SELECT content, version, source_message_id, session_id FROM files WHERE path = ?", path,
	).Scan(&content, &meta.Version, &meta.SourceMessageID, &meta.SessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", Metadata{}, ErrNotFound
	}
	if err != nil {
		return "", Metadata{}, err
	}
	return content, meta, nil
}

func (s *SQLiteStore) DeleteFile(ctx context.Context, path string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM files WHERE path = ?", path)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
