// Package tui provides a Bubble Tea terminal UI for the ChainSpire engine.
package tui

import "strings"

// History is a bounded command history with cursor navigation. Navigation
// can be filtered by a prefix, so typing "play" and pressing Up walks back
// through earlier play commands only.
type History struct {
	entries []string
	max     int
	cursor  int    // -1 = not navigating, 0..len-1 = position in entries
	prefix  string // filter fixed when navigation starts
}

// NewHistory creates a history buffer with the given maximum size.
func NewHistory(max int) *History {
	return &History{
		entries: make([]string, 0, max),
		max:     max,
		cursor:  -1,
	}
}

// Push adds a command to history. Consecutive duplicates are skipped.
func (h *History) Push(cmd string) {
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.max {
		h.entries = h.entries[1:]
	}
}

// Len reports the number of stored commands.
func (h *History) Len() int {
	return len(h.entries)
}

// Prev returns the previous (older) entry matching prefix. The prefix is
// captured on the first call of a navigation and ignored afterwards.
// Returns ("", false) if nothing matches.
func (h *History) Prev(prefix string) (string, bool) {
	if h.cursor == -1 {
		h.prefix = prefix
		h.cursor = len(h.entries)
	}
	for i := h.cursor - 1; i >= 0; i-- {
		if strings.HasPrefix(h.entries[i], h.prefix) {
			h.cursor = i
			return h.entries[i], true
		}
	}
	if h.cursor < len(h.entries) {
		// Stay on the oldest match.
		return h.entries[h.cursor], true
	}
	h.cursor = -1
	return "", false
}

// Next returns the next (newer) matching entry. Returns ("", false) when
// past the most recent match (back to fresh input).
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	for i := h.cursor + 1; i < len(h.entries); i++ {
		if strings.HasPrefix(h.entries[i], h.prefix) {
			h.cursor = i
			return h.entries[i], true
		}
	}
	h.cursor = -1
	return "", false
}

// Prefix returns the filter of the current navigation.
func (h *History) Prefix() string {
	return h.prefix
}

// ResetCursor resets the navigation cursor to the "not navigating" state.
func (h *History) ResetCursor() {
	h.cursor = -1
	h.prefix = ""
}
