package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_FileRoundTrip(t *testing.T) {
	s := newSQLite(t)
	ctx := context.Background()
	meta := Metadata{Version: 1, SourceMessageID: "msg-1", SessionID: "sess"}

	if err := s.SaveFile(ctx, "a.ts", "v1", meta); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	content, gotMeta, err := s.LoadFile(ctx, "a.ts")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if content != "v1" || gotMeta != meta {
		t.Fatalf("unexpected load %q %+v", content, gotMeta)
	}

	// Upsert replaces in place.
	meta.Version = 2
	if err := s.SaveFile(ctx, "a.ts", "v2", meta); err != nil {
		t.Fatalf("SaveFile upsert: %v", err)
	}
	content, gotMeta, err = s.LoadFile(ctx, "a.ts")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if content != "v2" || gotMeta.Version != 2 {
		t.Fatalf("upsert lost update: %q %+v", content, gotMeta)
	}
}

func TestSQLiteStore_NotFound(t *testing.T) {
	s := newSQLite(t)
	ctx := context.Background()

	if _, _, err := s.LoadFile(ctx, "missing.ts"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.LoadSession(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteFile(ctx, "missing.ts"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_SessionRoundTrip(t *testing.T) {
	s := newSQLite(t)
	ctx := context.Background()

	if err := s.SaveSession(ctx, "sess-1", []byte("blob-1")); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if err := s.SaveSession(ctx, "sess-1", []byte("blob-2")); err != nil {
		t.Fatalf("SaveSession upsert: %v", err)
	}
	blob, err := s.LoadSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if string(blob) != "blob-2" {
		t.Fatalf("unexpected blob %q", blob)
	}
}
