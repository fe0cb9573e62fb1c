// Package tagscan classifies buffer tails against literal delimiters.
// It is the primitive the streaming layers use to decide whether a
// suspicious character is a real tag, definitely not one, or too early
// to tell.
package tagscan

import "strings"

// Match is the outcome of classifying a buffer position against a delimiter.
type Match int

const (
	// NoMatch means the text at the position definitively diverges from the delimiter.
	NoMatch Match = iota
	// FullMatch means the delimiter appears verbatim at the position.
	FullMatch
	// PartialMatch means the remaining buffer is a strict prefix of the
	// delimiter; more input is needed before deciding.
	PartialMatch
)

// Classify reports how the text starting at pos relates to delim.
// It never reports NoMatch while the remaining buffer could still grow
// into the delimiter. Pure function of its inputs.
func Classify(buffer string, pos int, delim string) Match {
	if delim == "" || pos < 0 || pos > len(buffer) {
		return NoMatch
	}
	rest := buffer[pos:]
	if len(rest) >= len(delim) {
		if rest[:len(delim)] == delim {
			return FullMatch
		}
		return NoMatch
	}
	if strings.HasPrefix(delim, rest) {
		return PartialMatch
	}
	return NoMatch
}

// TrailingPartial returns the earliest index in the tail of buffer where a
// strict prefix of delim runs to the end of the buffer, or -1 if the tail
// cannot be the beginning of the delimiter. A full occurrence of delim is
// not a partial and is ignored here.
func TrailingPartial(buffer, delim string) int {
	if delim == "" {
		return -1
	}
	start := len(buffer) - len(delim) + 1
	if start < 0 {
		start = 0
	}
	for i := start; i < len(buffer); i++ {
		if buffer[i] != delim[0] {
			continue
		}
		if Classify(buffer, i, delim) == PartialMatch {
			return i
		}
	}
	return -1
}
