// Package source supplies ordered, role-tagged message observations.
// The text of the latest assistant message may grow between observations.
package source

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Message is one observation of a chat message's text.
type Message struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	Text string `json:"text"`
}

// RoleAssistant marks messages whose text the parser consumes.
const RoleAssistant = "assistant"

// Source yields observations in order. Next returns io.EOF when exhausted.
type Source interface {
	Next() (Message, error)
}

// JSONLSource reads one JSON observation per line. Malformed lines and
// lines without a message id are skipped rather than failing the stream.
type JSONLSource struct {
	scanner *bufio.Scanner
}

// NewJSONL wraps r in a line-delimited observation source.
func NewJSONL(r io.Reader) *JSONLSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 256*1024), 4*1024*1024)
	return &JSONLSource{scanner: scanner}
}

// Next returns the next well-formed observation.
func (s *JSONLSource) Next() (Message, error) {
	for s.scanner.Scan() {
		line := s.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var msg Message
		if err := json.Unmarshal(line, &msg); err != nil {
			// Skip malformed lines
			continue
		}
		if msg.ID == "" {
			continue
		}
		return msg, nil
	}
	if err := s.scanner.Err(); err != nil {
		return Message{}, fmt.Errorf("reading transcript: %w", err)
	}
	return Message{}, io.EOF
}

// TextSource yields a single complete assistant message, for one-shot parses.
type TextSource struct {
	msg  Message
	done bool
}

// NewText builds a source around one message.
func NewText(id, text string) *TextSource {
	return &TextSource{msg: Message{ID: id, Role: RoleAssistant, Text: text}}
}

// Next returns the message once, then io.EOF.
func (s *TextSource) Next() (Message, error) {
	if s.done {
		return Message{}, io.EOF
	}
	s.done = true
	return s.msg, nil
}
