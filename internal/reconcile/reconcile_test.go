package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ablo-dev/ablofiles/internal/directive"
	"github.com/ablo-dev/ablofiles/internal/storage"
)

// fakeStore records SaveFile calls and can be made to fail.
type fakeStore struct {
	saves []savedFile
	fail  bool
}

type savedFile struct {
	path    string
	content string
	meta    storage.Metadata
}

func (f *fakeStore) SaveSession(ctx context.Context, id string, blob []byte) error { return nil }
func (f *fakeStore) LoadSession(ctx context.Context, id string) ([]byte, error) {
	return nil, storage.ErrNotFound
}
func (f *fakeStore) SaveFile(ctx context.Context, path, content string, meta storage.Metadata) error {
	if f.fail {
		return errors.New("store down")
	}
	f.saves = append(f.saves, savedFile{path: path, content: content, meta: meta})
	return nil
}
func (f *fakeStore) LoadFile(ctx context.Context, path string) (string, storage.Metadata, error) {
	return "", storage.Metadata{}, storage.ErrNotFound
}
func (f *fakeStore) DeleteFile(ctx context.Context, path string) error { return nil }

func write(path, content string, complete bool) directive.FileCommand {
	return directive.FileCommand{
		Kind:       directive.KindWrite,
		FilePath:   path,
		Content:    content,
		IsComplete: complete,
	}
}

func TestApply_FirstCommitIsVersionOne(t *testing.T) {
	store := &fakeStore{}
	table := NewTable(store, "sess", nil)
	now := time.Now()

	commits := table.Apply(context.Background(), []directive.FileCommand{write("a.ts", "v1", true)}, "msg-1", now)
	if len(commits) != 1 {
		t.Fatalf("expected 1 commit, got %d", len(commits))
	}
	got := commits[0]
	if got.Version != 1 || got.Content != "v1" || got.SourceMessageID != "msg-1" {
		t.Fatalf("unexpected commit %+v", got)
	}
	if !got.LastModified.Equal(now) {
		t.Fatalf("expected lastModified %v, got %v", now, got.LastModified)
	}

	if len(store.saves) != 1 {
		t.Fatalf("expected 1 store save, got %d", len(store.saves))
	}
	meta := store.saves[0].meta
	if meta.Version != 1 || meta.SourceMessageID != "msg-1" || meta.SessionID != "sess" {
		t.Fatalf("unexpected metadata %+v", meta)
	}
}

// Submitting the same complete content twice yields version 1 after both.
func TestApply_IdenticalContentIsNoOp(t *testing.T) {
	store := &fakeStore{}
	table := NewTable(store, "sess", nil)
	ctx := context.Background()

	table.Apply(ctx, []directive.FileCommand{write("a.ts", "same", true)}, "msg-1", time.Now())
	commits := table.Apply(ctx, []directive.FileCommand{write("a.ts", "same", true)}, "msg-2", time.Now())

	if len(commits) != 0 {
		t.Fatalf("expected no commits on identical content, got %d", len(commits))
	}
	fs, _ := table.Get("a.ts")
	if fs.Version != 1 {
		t.Fatalf("expected version 1, got %d", fs.Version)
	}
	if fs.SourceMessageID != "msg-1" {
		t.Fatalf("source message must be untouched, got %q", fs.SourceMessageID)
	}
	if len(store.saves) != 1 {
		t.Fatalf("no-op must not hit storage; got %d saves", len(store.saves))
	}
}

// A write then a modify with different content bumps to version 2 and
// updates the source message id.
func TestApply_ModifyIncrements(t *testing.T) {
	table := NewTable(nil, "sess", nil)
	ctx := context.Background()

	table.Apply(ctx, []directive.FileCommand{write("x.js", "v1", true)}, "msg-1", time.Now())
	mod := directive.FileCommand{
		Kind:       directive.KindModify,
		FilePath:   "x.js",
		Changes:    "rewrite",
		Content:    "v2",
		IsComplete: true,
	}
	commits := table.Apply(ctx, []directive.FileCommand{mod}, "msg-2", time.Now())

	if len(commits) != 1 {
		t.Fatalf("expected 1 commit, got %d", len(commits))
	}
	fs, _ := table.Get("x.js")
	if fs.Version != 2 || fs.Content != "v2" || fs.SourceMessageID != "msg-2" {
		t.Fatalf("unexpected state %+v", fs)
	}
}

func TestApply_IncompleteCommandsIgnored(t *testing.T) {
	store := &fakeStore{}
	table := NewTable(store, "sess", nil)

	commits := table.Apply(context.Background(), []directive.FileCommand{write("a.ts", "partial", false)}, "msg-1", time.Now())
	if len(commits) != 0 {
		t.Fatalf("expected 0 commits, got %d", len(commits))
	}
	if table.Len() != 0 {
		t.Fatalf("table must not hold incomplete content")
	}
	if len(store.saves) != 0 {
		t.Fatalf("storage must not see incomplete content")
	}
}

// A storage failure is logged, never propagated, and does not roll back the
// in-memory update.
func TestApply_StoreFailureKeepsTable(t *testing.T) {
	store := &fakeStore{fail: true}
	table := NewTable(store, "sess", nil)

	commits := table.Apply(context.Background(), []directive.FileCommand{write("a.ts", "v1", true)}, "msg-1", time.Now())
	if len(commits) != 1 {
		t.Fatalf("expected commit despite store failure, got %d", len(commits))
	}
	fs, ok := table.Get("a.ts")
	if !ok || fs.Version != 1 {
		t.Fatalf("table must keep the commit, got %+v ok=%v", fs, ok)
	}
}

// Version values for a path form a non-decreasing sequence starting at 1,
// bumping by exactly 1 only on distinct content.
func TestApply_VersionMonotonicity(t *testing.T) {
	table := NewTable(nil, "sess", nil)
	ctx := context.Background()

	contents := []string{"a", "a", "b", "b", "c", "a"}
	wantVersions := []int{1, 1, 2, 2, 3, 4}
	for i, c := range contents {
		table.Apply(ctx, []directive.FileCommand{write("f.go", c, true)}, "m", time.Now())
		fs, _ := table.Get("f.go")
		if fs.Version != wantVersions[i] {
			t.Fatalf("step %d: expected version %d, got %d", i, wantVersions[i], fs.Version)
		}
	}
}

func TestFiles_SortedByPath(t *testing.T) {
	table := NewTable(nil, "sess", nil)
	ctx := context.Background()
	table.Apply(ctx, []directive.FileCommand{
		write("z.go", "z", true),
		write("a.go", "a", true),
		write("m.go", "m", true),
	}, "m", time.Now())

	files := table.Files()
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(files))
	}
	for i, want := range []string{"a.go", "m.go", "z.go"} {
		if files[i].FilePath != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, files[i].FilePath)
		}
	}
}

func TestRestoreSnapshotRoundTrip(t *testing.T) {
	table := NewTable(nil, "sess", nil)
	ctx := context.Background()
	table.Apply(ctx, []directive.FileCommand{write("a.go", "v1", true)}, "m", time.Now())

	snap := table.Snapshot()
	fresh := NewTable(nil, "sess", nil)
	fresh.Restore(snap)

	fs, ok := fresh.Get("a.go")
	if !ok || fs.Content != "v1" || fs.Version != 1 {
		t.Fatalf("restore lost state: %+v ok=%v", fs, ok)
	}
}
