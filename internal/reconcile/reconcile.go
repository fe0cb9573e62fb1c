// Package reconcile folds completed file commands into a versioned file
// table. The in-memory table is the source of truth for the session;
// storage is a best-effort mirror.
package reconcile

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ablo-dev/ablofiles/internal/directive"
	"github.com/ablo-dev/ablofiles/internal/storage"
)

// FileState is one committed file revision.
type FileState struct {
	FilePath        string    `json:"file_path"`
	Content         string    `json:"content"`
	Version         int       `json:"version"`
	LastModified    time.Time `json:"last_modified"`
	SourceMessageID string    `json:"source_message_id"`
}

// Table owns the committed file states, keyed by file path.
// Single-writer discipline: callers serialize Apply per session.
type Table struct {
	files     map[string]FileState
	store     storage.Store
	sessionID string
	logger    *zap.Logger
}

// NewTable builds an empty table. store may be nil for dry runs; logger
// may be nil and defaults to a no-op logger.
func NewTable(store storage.Store, sessionID string, logger *zap.Logger) *Table {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Table{
		files:     make(map[string]FileState),
		store:     store,
		sessionID: sessionID,
		logger:    logger,
	}
}

// Apply folds the complete commands into the table in order and returns the
// commits made this pass. Incomplete commands are ignored entirely; commands
// whose content matches the existing state are no-ops. Each commit is pushed
// to storage best-effort: a failed push is logged and never rolls back the
// table.
func (t *Table) Apply(ctx context.Context, commands []directive.FileCommand, messageID string, now time.Time) []FileState {
	var commits []FileState
	for _, cmd := range commands {
		if !cmd.IsComplete {
			continue
		}
		existing, ok := t.files[cmd.FilePath]
		if ok && existing.Content == cmd.Content {
			continue
		}
		version := 1
		if ok {
			version = existing.Version + 1
		}
		next := FileState{
			FilePath:        cmd.FilePath,
			Content:         cmd.Content,
			Version:         version,
			LastModified:    now,
			SourceMessageID: messageID,
		}
		t.files[cmd.FilePath] = next
		commits = append(commits, next)

		if t.store == nil {
			continue
		}
		meta := storage.Metadata{
			Version:         version,
			SourceMessageID: messageID,
			SessionID:       t.sessionID,
		}
		if err := t.store.SaveFile(ctx, cmd.FilePath, cmd.Content, meta); err != nil {
			t.logger.Warn("file store write failed",
				zap.String("path", cmd.FilePath),
				zap.Int("version", version),
				zap.Error(err))
		}
	}
	return commits
}

// Get returns the committed state for a path.
func (t *Table) Get(path string) (FileState, bool) {
	fs, ok := t.files[path]
	return fs, ok
}

// Files returns all committed states sorted by path.
func (t *Table) Files() []FileState {
	out := make([]FileState, 0, len(t.files))
	for _, fs := range t.files {
		out = append(out, fs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FilePath < out[j].FilePath })
	return out
}

// Len reports the number of committed files.
func (t *Table) Len() int {
	return len(t.files)
}

// Restore replaces the table contents from a snapshot.
func (t *Table) Restore(files map[string]FileState) {
	t.files = make(map[string]FileState, len(files))
	for path, fs := range files {
		t.files[path] = fs
	}
}

// Snapshot returns a copy of the table keyed by path.
func (t *Table) Snapshot() map[string]FileState {
	out := make(map[string]FileState, len(t.files))
	for path, fs := range t.files {
		out[path] = fs
	}
	return out
}
