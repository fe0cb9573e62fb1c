// Package directive extracts structured file commands from a directive
// block payload. Extraction is best-effort and never errors: malformed
// elements are dropped, truncated elements are marked incomplete.
package directive

import (
	"strings"

	"github.com/ablo-dev/ablofiles/internal/config"
)

// CommandKind distinguishes write and modify commands.
type CommandKind string

const (
	KindWrite  CommandKind = "write"
	KindModify CommandKind = "modify"
)

// FileCommand is a single write-or-modify instruction extracted from a block.
type FileCommand struct {
	Kind     CommandKind `json:"kind"`
	FilePath string      `json:"file_path"`
	Changes  string      `json:"changes,omitempty"` // modify only, optional
	Content  string      `json:"content"`
	// IsComplete is true iff the command's own closing element was found,
	// independent of whether the enclosing block closed.
	IsComplete bool `json:"is_complete"`
}

// DirectiveBlock is one parse of a complete-or-partial directive payload.
// At most one block exists per message id; a later observation replaces
// the prior block for that id.
type DirectiveBlock struct {
	SourceMessageID string        `json:"source_message_id"`
	Thinking        string        `json:"thinking,omitempty"`
	Commands        []FileCommand `json:"commands"`
	IsComplete      bool          `json:"is_complete"`
}

// Extractor scans directive payloads for a configured set of element names.
type Extractor struct {
	tags config.Tags
}

// NewExtractor builds an Extractor for the given tag configuration.
func NewExtractor(tags config.Tags) *Extractor {
	return &Extractor{tags: tags}
}

// Extract pulls the thinking section and all file commands out of
// codeContent. The scan is stateless: every call rescans the full buffer.
func (e *Extractor) Extract(codeContent, messageID string) DirectiveBlock {
	block := DirectiveBlock{
		SourceMessageID: messageID,
		Thinking:        e.extractThinking(codeContent),
		Commands:        e.extractCommands(codeContent),
		IsComplete:      strings.Contains(codeContent, e.tags.EndTag),
	}
	return block
}

// extractThinking captures the first thinking element. A missing closing
// element captures to the end of the buffer anyway.
func (e *Extractor) extractThinking(text string) string {
	open := "<" + e.tags.ThinkingTag + ">"
	closing := "</" + e.tags.ThinkingTag + ">"

	start := strings.Index(text, open)
	if start < 0 {
		return ""
	}
	body := text[start+len(open):]
	if end := strings.Index(body, closing); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// extractCommands scans for write and modify elements in document order
// across both kinds combined.
func (e *Extractor) extractCommands(text string) []FileCommand {
	var commands []FileCommand
	pos := 0
	for pos < len(text) {
		kind, at := e.nextElement(text, pos)
		if at < 0 {
			break
		}
		cmd, next, ok := e.parseElement(text, at, kind)
		if ok {
			commands = append(commands, cmd)
		}
		if next <= pos {
			next = pos + 1
		}
		pos = next
	}
	return commands
}

// nextElement finds the earliest write or modify open tag at or after pos.
func (e *Extractor) nextElement(text string, pos int) (CommandKind, int) {
	wi := indexElement(text, pos, e.tags.WriteTag)
	mi := indexElement(text, pos, e.tags.ModifyTag)
	switch {
	case wi < 0 && mi < 0:
		return "", -1
	case mi < 0 || (wi >= 0 && wi < mi):
		return KindWrite, wi
	default:
		return KindModify, mi
	}
}

// indexElement finds "<name" at or after pos where the element name is not
// a prefix of a longer name.
func indexElement(text string, pos int, name string) int {
	needle := "<" + name
	for pos < len(text) {
		i := strings.Index(text[pos:], needle)
		if i < 0 {
			return -1
		}
		at := pos + i
		rest := at + len(needle)
		if rest >= len(text) {
			return at // truncated right after the name; still this element
		}
		switch text[rest] {
		case ' ', '\t', '\n', '\r', '>':
			return at
		}
		pos = at + 1
	}
	return -1
}

// parseElement parses one element starting at the open tag. It returns the
// command, the position to resume scanning from, and whether the element
// yielded a command at all. Elements lacking file_path are dropped silently.
func (e *Extractor) parseElement(text string, at int, kind CommandKind) (FileCommand, int, bool) {
	name := e.tags.WriteTag
	if kind == KindModify {
		name = e.tags.ModifyTag
	}

	attrStart := at + len("<"+name)
	gt := strings.IndexByte(text[attrStart:], '>')
	if gt < 0 {
		// Open tag truncated by end of buffer; nothing usable yet.
		return FileCommand{}, len(text), false
	}
	attrs := text[attrStart : attrStart+gt]
	bodyStart := attrStart + gt + 1

	path, ok := attrValue(attrs, "file_path")
	closing := "</" + name + ">"
	end := strings.Index(text[bodyStart:], closing)

	if !ok {
		// Malformed: no file_path. Skip past the element without emitting.
		if end < 0 {
			return FileCommand{}, len(text), false
		}
		return FileCommand{}, bodyStart + end + len(closing), false
	}

	cmd := FileCommand{Kind: kind, FilePath: path}
	if kind == KindModify {
		changes, _ := attrValue(attrs, "changes")
		cmd.Changes = strings.TrimSpace(changes)
	}

	if end < 0 {
		cmd.Content = strings.TrimSpace(text[bodyStart:])
		return cmd, len(text), true
	}
	cmd.Content = strings.TrimSpace(text[bodyStart : bodyStart+end])
	cmd.IsComplete = true
	return cmd, bodyStart + end + len(closing), true
}

// attrValue extracts a double-quoted attribute value from an open tag's
// attribute text. Embedded quotes are undefined per the wire format; the
// value simply ends at the next quote.
func attrValue(attrs, name string) (string, bool) {
	marker := name + `="`
	i := strings.Index(attrs, marker)
	if i < 0 {
		return "", false
	}
	rest := attrs[i+len(marker):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}
