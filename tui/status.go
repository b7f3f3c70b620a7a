package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/chainspire/types"
)

// displayName derives a human-readable name from an identifier.
// "deck_selection" -> "Deck Selection", "boss_cryptolord" -> "Boss Cryptolord".
func displayName(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// renderStatusBar produces a full-width inverted status line: phase, floor,
// health and gold on the left; energy and turn in battle, or battles won,
// on the right.
func (m Model) renderStatusBar() string {
	eng := m.session.Engine
	s := eng.State
	p := s.Progress

	left := " " + displayName(string(s.Phase))
	if s.Phase != types.PhaseDeckSelection {
		if cur, ok := p.Map.Nodes[p.Map.CurrentNodeID]; ok {
			left += fmt.Sprintf(" | Floor %d/%d", cur.Floor+1, len(p.Map.Floors))
		}
		left += fmt.Sprintf(" | HP %d/%d | Gold %d", p.Player.Health, p.Player.MaxHealth, p.Gold)
	}

	right := fmt.Sprintf("Won %d ", p.CompletedBattles)
	style := styleStatusBar
	if b := eng.Battle(); b != nil {
		name := displayName(s.EnemyID)
		if en, ok := eng.CurrentEnemy(); ok {
			name = en.Name
		}
		right = fmt.Sprintf("%s %d/%d | E %d/%d | T:%d ",
			name, b.Enemy.Health, b.Enemy.MaxHealth, b.Player.Energy, b.Player.MaxEnergy, b.Turn)
		// Drop the enemy name when the bar is too narrow.
		if lipgloss.Width(left)+lipgloss.Width(right)+2 >= m.width {
			right = fmt.Sprintf("E %d/%d | T:%d ", b.Player.Energy, b.Player.MaxEnergy, b.Turn)
		}
		style = styleStatusBattle
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return style.Width(m.width).Render(bar)
}
