package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newFS(t *testing.T) *FSStore {
	t.Helper()
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	return s
}

func TestFSStore_FileRoundTrip(t *testing.T) {
	s := newFS(t)
	ctx := context.Background()
	meta := Metadata{Version: 2, SourceMessageID: "msg-1", SessionID: "sess"}

	if err := s.SaveFile(ctx, "src/Button.tsx", "content", meta); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	content, gotMeta, err := s.LoadFile(ctx, "src/Button.tsx")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if content != "content" {
		t.Fatalf("unexpected content %q", content)
	}
	if gotMeta != meta {
		t.Fatalf("unexpected metadata %+v", gotMeta)
	}
}

func TestFSStore_LoadFileAbsent(t *testing.T) {
	s := newFS(t)
	_, _, err := s.LoadFile(context.Background(), "nope.ts")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFSStore_DeleteFile(t *testing.T) {
	s := newFS(t)
	ctx := context.Background()

	if err := s.SaveFile(ctx, "a.ts", "x", Metadata{Version: 1}); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	if err := s.DeleteFile(ctx, "a.ts"); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if _, _, err := s.LoadFile(ctx, "a.ts"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteFile(ctx, "a.ts"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for double delete, got %v", err)
	}
}

func TestFSStore_SessionRoundTrip(t *testing.T) {
	s := newFS(t)
	ctx := context.Background()

	if err := s.SaveSession(ctx, "sess-1", []byte(`{"files":{}}`)); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	blob, err := s.LoadSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if string(blob) != `{"files":{}}` {
		t.Fatalf("unexpected blob %q", blob)
	}

	if _, err := s.LoadSession(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFSStore_RejectsEscapingKeys(t *testing.T) {
	s := newFS(t)
	ctx := context.Background()

	for _, key := range []string{"", "../escape.ts", "/abs/path.ts", "a/../../b"} {
		if err := s.SaveFile(ctx, key, "x", Metadata{}); err == nil {
			t.Fatalf("key %q: expected error", key)
		}
	}
}

func TestWriteFileAtomic_NoTempLeftover(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	if err := writeFileAtomic(path, []byte("data"), 0644); err != nil {
		t.Fatalf("writeFileAtomic: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "data" {
		t.Fatalf("unexpected read %q err=%v", data, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}
