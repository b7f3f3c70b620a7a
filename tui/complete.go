package tui

import "strings"

// candidates lists the commands that are legal right now, as typed.
func (m Model) candidates() []string {
	var out []string
	for _, a := range m.session.Engine.LegalActions() {
		cmd := a.Verb
		if a.Arg != "" {
			cmd += " " + a.Arg
		}
		out = append(out, cmd)
	}
	return out
}

// complete returns the candidate after current among those sharing its
// prefix, so repeated Tab presses cycle. Once current is itself a candidate
// only its verb is matched.
func complete(current string, candidates []string) string {
	typed := strings.ToLower(strings.TrimSpace(current))

	at := -1
	for i, c := range candidates {
		if c == typed {
			at = i
			break
		}
	}
	prefix := typed
	if at >= 0 {
		prefix = strings.Fields(typed)[0]
	}

	n := len(candidates)
	for k := 1; k <= n; k++ {
		if c := candidates[(at+k+n)%n]; strings.HasPrefix(c, prefix) {
			return c
		}
	}
	return current
}
