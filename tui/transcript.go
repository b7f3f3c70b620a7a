package tui

import (
	"strings"

	"github.com/nathoo/chainspire/cli"
)

// entry is one unstyled scrollback line. Wrapping and styling happen in
// render, so a resize re-flows the whole transcript.
type entry struct {
	text string
	kind lineKind
}

// shown is the entry as the player sees it, before wrapping.
func (e entry) shown() string {
	switch e.kind {
	case kindInput:
		return "> " + e.text
	case kindMeta:
		return "[" + e.text + "]"
	}
	return e.text
}

// transcript is everything printed since the program started.
type transcript struct {
	entries []entry
}

// add appends one exchange: the echoed input, if any, the reply lines and
// a blank separator.
func (t *transcript) add(input string, lines []cli.Line) {
	if input != "" {
		t.entries = append(t.entries, entry{text: input, kind: kindInput})
	}
	for _, l := range lines {
		e := entry{text: l.Text, kind: kindMeta}
		if !l.System {
			e.kind = classifyLine(l.Text)
		}
		t.entries = append(t.entries, e)
	}
	t.entries = append(t.entries, entry{})
}

func (t transcript) render(width int) string {
	width = max(width, 10)
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		if e.text != "" {
			out[i] = e.kind.render(wordWrap(e.shown(), width))
		}
	}
	return strings.Join(out, "\n")
}

// count returns how many entries of kind contain s. A negative kind matches
// any entry.
func (t transcript) count(kind lineKind, s string) int {
	n := 0
	for _, e := range t.entries {
		if (kind < 0 || e.kind == kind) && strings.Contains(e.shown(), s) {
			n++
		}
	}
	return n
}

// wordWrap breaks text at spaces so no line exceeds width, unless a single
// word is longer. The first line keeps its leading indent.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var b strings.Builder
	col := len(text) - len(strings.TrimLeft(text, " "))
	b.WriteString(text[:col])
	for i, w := range strings.Fields(text) {
		switch {
		case i == 0:
		case col+1+len(w) > width:
			b.WriteByte('\n')
			col = 0
		default:
			b.WriteByte(' ')
			col++
		}
		b.WriteString(w)
		col += len(w)
	}
	return b.String()
}
