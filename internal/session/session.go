// Package session ties the parsing pipeline together: one Session owns the
// tag configuration, the versioned file table, the display cache, and the
// directive blocks observed so far, and serializes observations against them.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ablo-dev/ablofiles/internal/config"
	"github.com/ablo-dev/ablofiles/internal/directive"
	"github.com/ablo-dev/ablofiles/internal/display"
	"github.com/ablo-dev/ablofiles/internal/parser"
	"github.com/ablo-dev/ablofiles/internal/reconcile"
	"github.com/ablo-dev/ablofiles/internal/storage"
)

// Session processes observations of assistant messages for one chat session.
type Session struct {
	mu sync.Mutex

	id        string
	splitter  *parser.Splitter
	extractor *directive.Extractor
	table     *reconcile.Table
	cache     *display.Cache

	blocks    map[string]directive.DirectiveBlock
	order     []string // message ids in first-seen order
	streaming bool

	store  storage.Store
	logger *zap.Logger
}

// Result is what one observation produced.
type Result struct {
	// Display is the cleaned text to show for the message.
	Display string
	// Block is the directive block parsed this pass, nil when the
	// observation holds no block.
	Block *directive.DirectiveBlock
	// Commits are the file states committed this pass.
	Commits []reconcile.FileState
}

// New builds a session. An empty id mints a fresh one. store may be nil
// (in-memory only); logger may be nil.
func New(id string, tags config.Tags, store storage.Store, logger *zap.Logger) (*Session, error) {
	splitter, err := parser.New(tags)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = uuid.NewString()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		id:        id,
		splitter:  splitter,
		extractor: directive.NewExtractor(tags),
		table:     reconcile.NewTable(store, id, logger),
		cache:     display.NewCache(splitter),
		blocks:    make(map[string]directive.DirectiveBlock),
		store:     store,
		logger:    logger,
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Observe processes one observation of a message's text. It is safe to call
// from multiple goroutines; observations against the same session are
// serialized. The table is mutated before any storage write is attempted,
// so a slow or failed write never blocks in-memory reads.
func (s *Session) Observe(ctx context.Context, messageID, rawText string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	pm := s.splitter.Split(rawText)
	res := Result{}

	if pm.HasBlockStarted {
		block := s.extractor.Extract(pm.CodeContent, messageID)
		if _, seen := s.blocks[messageID]; !seen {
			s.order = append(s.order, messageID)
		}
		// Later observations replace the prior block for this id.
		s.blocks[messageID] = block
		res.Block = &block
		res.Commits = s.table.Apply(ctx, block.Commands, messageID, time.Now())
	}
	s.streaming = pm.HasBlockStarted && !pm.HasBlockEnded

	res.Display = s.cache.CleanedText(messageID, rawText)
	return res
}

// Files returns the committed file table sorted by path.
func (s *Session) Files() []reconcile.FileState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Files()
}

// File returns the committed state for one path.
func (s *Session) File(path string) (reconcile.FileState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Get(path)
}

// Streaming reports whether the latest observation left a block mid-stream.
func (s *Session) Streaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streaming
}

// ClearMessage drops per-message cache state for an id.
func (s *Session) ClearMessage(messageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Clear(messageID)
}
