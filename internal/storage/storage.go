// Package storage defines the persistence collaborator for committed files
// and session snapshots, with filesystem and sqlite backends. The parsing
// pipeline treats every storage failure as non-fatal.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested session or file blob is absent.
var ErrNotFound = errors.New("storage: not found")

// Metadata describes a persisted file revision.
type Metadata struct {
	Version         int    `json:"version"`
	SourceMessageID string `json:"source_message_id"`
	SessionID       string `json:"session_id"`
}

// Store is the abstract persistence capability. All operations are fallible;
// callers in the parsing path log failures and continue.
type Store interface {
	SaveSession(ctx context.Context, sessionID string, blob []byte) error
	// LoadSession returns ErrNotFound when no snapshot exists for the id.
	LoadSession(ctx context.Context, sessionID string) ([]byte, error)

	SaveFile(ctx context.Context, path, content string, meta Metadata) error
	// LoadFile returns ErrNotFound when the path has never been saved.
	LoadFile(ctx context.Context, path string) (string, Metadata, error)
	DeleteFile(ctx context.Context, path string) error
}
