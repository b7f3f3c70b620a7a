package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleStatusBattle = styleStatusBar.
				Background(lipgloss.Color("52"))

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	styleOption = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	styleDamage = lipgloss.NewStyle().
			Foreground(lipgloss.Color("209"))

	styleVictory = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	styleDefeat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("160")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindHeader
	kindOption
	kindDamage
	kindVictory
	kindDefeat
	kindSystem
	kindError
	kindTrace
	kindInput // echoed player input
	kindMeta  // reply to a slash command
)

var kindStyles = map[lineKind]lipgloss.Style{
	kindNarrative: styleNarrative,
	kindHeader:    styleHeader,
	kindOption:    styleOption,
	kindDamage:    styleDamage,
	kindVictory:   styleVictory,
	kindDefeat:    styleDefeat,
	kindSystem:    styleSystem,
	kindError:     styleError,
	kindTrace:     styleTrace,
	kindInput:     stylePlayerInput,
	kindMeta:      styleSystem,
}

func (k lineKind) render(s string) string {
	if st, ok := kindStyles[k]; ok {
		return st.Render(s)
	}
	return s
}

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case line == "*** VICTORY ***":
		return kindVictory
	case line == "*** DEFEAT ***":
		return kindDefeat
	case strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "You don't have"),
		strings.HasPrefix(line, "There's no such"),
		strings.HasPrefix(line, "Choose two different"),
		strings.HasPrefix(line, "I don't understand"):
		return kindError
	case isOptionLine(line):
		return kindOption
	case strings.HasSuffix(line, ":") && !strings.HasPrefix(line, " "):
		return kindHeader
	case strings.Contains(line, " HP (") || strings.Contains(line, "from poison"):
		return kindDamage
	default:
		return kindNarrative
	}
}

// isOptionLine matches numbered choices such as "  2) Strike [1] Deal 5 damage.".
func isOptionLine(line string) bool {
	s := strings.TrimLeft(line, " ")
	if len(s) == len(line) {
		return false
	}
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i > 0 && i < len(s) && s[i] == ')'
}
