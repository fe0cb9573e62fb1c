// Package display maintains the cleaned display text for each message as
// its raw text grows, so that a mid-stream directive block never leaks
// partial tag fragments to the user.
package display

import (
	"strings"

	"github.com/ablo-dev/ablofiles/internal/parser"
)

// State tracks where a message is in its streaming lifecycle.
type State int

const (
	// StateNormal means nothing has been observed for the message yet.
	StateNormal State = iota
	// StateStreamingText means text has streamed with no directive block so far.
	StateStreamingText
	// StateStreamingInBlock means a block has started but not yet ended.
	StateStreamingInBlock
	// StateSettled means the block has fully closed; the cleaned text is
	// recomputed authoritatively from then on.
	StateSettled
)

type entry struct {
	state   State
	chat    string // longest known cleaned chat content
	lastRaw string
}

// Cache holds per-message display text. It is owned by a session and has no
// module-level state; clear it explicitly when a message is discarded.
type Cache struct {
	splitter *parser.Splitter
	entries  map[string]*entry
}

// NewCache builds a cache around the given splitter.
func NewCache(splitter *parser.Splitter) *Cache {
	return &Cache{
		splitter: splitter,
		entries:  make(map[string]*entry),
	}
}

// CleanedText returns the display text for one observation of a message.
// While a block is mid-stream it returns the longest chat content seen so
// far, never a partial tag. When no chat content has ever been observed the
// raw input is returned unmodified as an explicit fallback. Once the block
// closes the value is recomputed from the full text and becomes
// authoritative.
func (c *Cache) CleanedText(messageID, rawText string) string {
	e := c.entries[messageID]
	if e == nil {
		e = &entry{}
		c.entries[messageID] = e
	}

	// An observation that is not an extension of the prior one means the
	// stream restarted; reset defensively rather than trusting stale state.
	if e.lastRaw != "" && !strings.HasPrefix(rawText, e.lastRaw) && e.state != StateSettled {
		*e = entry{}
	}
	e.lastRaw = rawText

	pm := c.splitter.Split(rawText)
	switch {
	case pm.HasBlockEnded:
		e.state = StateSettled
		e.chat = pm.ChatContent
		return e.chat

	case pm.HasBlockStarted:
		e.state = StateStreamingInBlock
		if len(pm.ChatContent) > len(e.chat) {
			e.chat = pm.ChatContent
		}
		if e.chat == "" {
			// Nothing parseable yet; showing raw input beats a blank screen.
			return rawText
		}
		return e.chat

	default:
		if at := c.splitter.PartialTagStart(rawText); at >= 0 {
			// The tail may be the beginning of the start tag; keep it off
			// the display until the next observation decides.
			e.state = StateStreamingInBlock
			safe := strings.TrimSpace(rawText[:at])
			if len(safe) > len(e.chat) {
				e.chat = safe
			}
			if e.chat == "" {
				return rawText
			}
			return e.chat
		}
		e.state = StateStreamingText
		e.chat = pm.ChatContent
		return rawText
	}
}

// MessageState reports the lifecycle state for a message id.
func (c *Cache) MessageState(messageID string) State {
	if e, ok := c.entries[messageID]; ok {
		return e.state
	}
	return StateNormal
}

// Clear drops the cached state for one message.
func (c *Cache) Clear(messageID string) {
	delete(c.entries, messageID)
}

// ClearAll drops every cached message.
func (c *Cache) ClearAll() {
	c.entries = make(map[string]*entry)
}
