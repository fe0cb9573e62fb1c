package session

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/ablo-dev/ablofiles/internal/config"
	"github.com/ablo-dev/ablofiles/internal/directive"
	"github.com/ablo-dev/ablofiles/internal/reconcile"
	"github.com/ablo-dev/ablofiles/internal/storage"
)

// snapshot is the persisted projection of a session.
type snapshot struct {
	Files           map[string]reconcile.FileState `json:"files"`
	DirectiveBlocks []directive.DirectiveBlock     `json:"directive_blocks"`
	IsStreaming     bool                           `json:"is_streaming"`
}

// Snapshot serializes the session's files, directive blocks, and streaming
// flag.
func (s *Session) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		Files:       s.table.Snapshot(),
		IsStreaming: s.streaming,
	}
	for _, id := range s.order {
		snap.DirectiveBlocks = append(snap.DirectiveBlocks, s.blocks[id])
	}
	return json.MarshalIndent(snap, "", "  ")
}

// Save pushes the current snapshot to storage. Failures are logged and
// returned but leave the session untouched; callers are free to ignore them.
func (s *Session) Save(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	blob, err := s.Snapshot()
	if err != nil {
		return err
	}
	if err := s.store.SaveSession(ctx, s.id, blob); err != nil {
		s.logger.Warn("session save failed", zap.String("session", s.id), zap.Error(err))
		return err
	}
	return nil
}

// Load restores a session from storage. Any load failure (absent snapshot,
// storage error, corrupt blob) proceeds with empty state and is logged;
// only invalid tag configuration is an error.
func Load(ctx context.Context, id string, tags config.Tags, store storage.Store, logger *zap.Logger) (*Session, error) {
	s, err := New(id, tags, store, logger)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return s, nil
	}

	blob, err := store.LoadSession(ctx, s.id)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("session load failed; starting empty",
				zap.String("session", s.id), zap.Error(err))
		}
		return s, nil
	}

	var snap snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		s.logger.Warn("session snapshot corrupt; starting empty",
			zap.String("session", s.id), zap.Error(err))
		return s, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.Files != nil {
		s.table.Restore(snap.Files)
	}
	for _, block := range snap.DirectiveBlocks {
		if _, seen := s.blocks[block.SourceMessageID]; !seen {
			s.order = append(s.order, block.SourceMessageID)
		}
		s.blocks[block.SourceMessageID] = block
	}
	s.streaming = snap.IsStreaming
	return s, nil
}

// Blocks returns the directive blocks in first-seen order.
func (s *Session) Blocks() []directive.DirectiveBlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]directive.DirectiveBlock, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.blocks[id])
	}
	return out
}
