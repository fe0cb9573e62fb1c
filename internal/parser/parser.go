// Package parser splits one observation of assistant message text into
// display text and the raw directive block payload. Splitting is stateless:
// a fresh call on the full accumulated text is equivalent to incremental
// application on growing prefixes.
package parser

import (
	"strings"

	"github.com/ablo-dev/ablofiles/internal/config"
	"github.com/ablo-dev/ablofiles/internal/tagscan"
)

// ParsedMessage is the result of splitting one observation of message text.
type ParsedMessage struct {
	ChatContent     string // trimmed display text outside the block
	CodeContent     string // raw block text from start tag onward, possibly unterminated
	HasBlockStarted bool
	HasBlockEnded   bool
}

// Splitter locates the first directive block in message text.
type Splitter struct {
	tags config.Tags
}

// New builds a Splitter, rejecting unusable tag configuration eagerly.
func New(tags config.Tags) (*Splitter, error) {
	if err := tags.Validate(); err != nil {
		return nil, err
	}
	return &Splitter{tags: tags}, nil
}

// Tags returns the tag configuration the splitter was built with.
func (s *Splitter) Tags() config.Tags {
	return s.tags
}

// Split classifies rawText around the first start-tag..end-tag pair.
// A message holds at most one directive block; sibling write/modify
// elements live inside it.
func (s *Splitter) Split(rawText string) ParsedMessage {
	start := strings.Index(rawText, s.tags.StartTag)
	if start < 0 {
		return ParsedMessage{ChatContent: rawText}
	}

	afterStart := start + len(s.tags.StartTag)
	end := strings.Index(rawText[afterStart:], s.tags.EndTag)
	if end < 0 {
		return ParsedMessage{
			ChatContent:     strings.TrimSpace(rawText[:start]),
			CodeContent:     rawText[start:],
			HasBlockStarted: true,
		}
	}

	blockEnd := afterStart + end + len(s.tags.EndTag)
	return ParsedMessage{
		ChatContent:     joinAround(rawText[:start], rawText[blockEnd:]),
		CodeContent:     rawText[start:blockEnd],
		HasBlockStarted: true,
		HasBlockEnded:   true,
	}
}

// PartialTagStart returns the index where a strict prefix of the start tag
// runs to the end of rawText, or -1. Callers use it to keep an ambiguous
// tail off the display surface until more input arrives.
func (s *Splitter) PartialTagStart(rawText string) int {
	return tagscan.TrailingPartial(rawText, s.tags.StartTag)
}

// joinAround joins the trimmed text before and after a block with a blank
// line, dropping empty segments.
func joinAround(before, after string) string {
	b := strings.TrimSpace(before)
	a := strings.TrimSpace(after)
	switch {
	case b == "":
		return a
	case a == "":
		return b
	default:
		return b + "\n\n" + a
	}
}
