package lexer

import (
	"slices"

	"github.com/aledsdavies/mrecognizer/core/invariant"
)

// CommandMarker is the grow-only set of character offsets whose identifier
// must lex as a COMMAND token. The parser adds to it when it detects command
// syntax; the lexer reads it on the next attempt.
type CommandMarker struct {
	offsets map[int]struct{}
}

// NewCommandMarker returns a marker pre-seeded with offsets.
func NewCommandMarker(offsets ...int) *CommandMarker {
	m := &CommandMarker{offsets: make(map[int]struct{}, len(offsets))}
	for _, off := range offsets {
		m.Add(off)
	}
	return m
}

// Add records offset and reports whether it was new.
func (m *CommandMarker) Add(offset int) bool {
	invariant.Precondition(offset >= 0, "command marker offset must be non-negative, got %d", offset)
	if _, ok := m.offsets[offset]; ok {
		return false
	}
	m.offsets[offset] = struct{}{}
	return true
}

// Contains reports whether the identifier starting at offset is a command.
func (m *CommandMarker) Contains(offset int) bool {
	if m == nil {
		return false
	}
	_, ok := m.offsets[offset]
	return ok
}

// Len returns the number of marked offsets.
func (m *CommandMarker) Len() int {
	if m == nil {
		return 0
	}
	return len(m.offsets)
}

// Offsets returns the marked offsets in ascending order.
func (m *CommandMarker) Offsets() []int {
	if m == nil {
		return nil
	}
	out := make([]int, 0, len(m.offsets))
	for off := range m.offsets {
		out = append(out, off)
	}
	slices.Sort(out)
	return out
}
