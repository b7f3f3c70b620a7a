package engine

import (
	"fmt"

	"github.com/nathoo/chainspire/engine/mapgen"
	"github.com/nathoo/chainspire/engine/state"
	"github.com/nathoo/chainspire/types"
)

// describe answers the information verbs.
func (e *Engine) describe(verb string) []string {
	switch verb {
	case "map":
		if e.State.Phase == types.PhaseDeckSelection {
			return []string{"No map yet. Choose a deck first."}
		}
		return e.describeMap()
	case "hand":
		if e.battle == nil {
			return []string{"You're not in a battle."}
		}
		return e.describeBattle()
	case "deck":
		return e.describeDeck()
	case "actions":
		actions := e.LegalActions()
		if len(actions) == 0 {
			return []string{"Nothing to do."}
		}
		out := make([]string, 0, len(actions))
		for _, a := range actions {
			cmd := a.Verb
			if a.Arg != "" {
				cmd += " " + a.Arg
			}
			out = append(out, fmt.Sprintf("  %-12s %s", cmd, a.Label))
		}
		return out
	}
	return e.Look()
}

// Look describes the current phase.
func (e *Engine) Look() []string {
	switch e.State.Phase {
	case types.PhaseDeckSelection:
		return e.describeDecks()
	case types.PhaseMap, types.PhaseRest:
		return e.describeMap()
	case types.PhaseBattle:
		return e.describeBattle()
	case types.PhaseFusion:
		return e.describeFusion()
	default:
		return e.describeOutcome()
	}
}

func (e *Engine) describeDecks() []string {
	out := []string{"Choose your starting deck:"}
	for i, id := range state.DeckIDs(e.Defs) {
		d := e.Defs.Decks[id]
		out = append(out, fmt.Sprintf("  %d) %s [%s] - %s", i+1, d.Name, id, d.Description))
	}
	return out
}

func (e *Engine) describeDeck() []string {
	deck := e.State.Progress.Deck
	if len(deck) == 0 {
		return []string{"You have no cards yet."}
	}
	out := []string{fmt.Sprintf("Your deck (%d cards):", len(deck))}
	for i, c := range deck {
		out = append(out, fmt.Sprintf("  %d) %s", i+1, cardLine(c)))
	}
	return out
}

func (e *Engine) describeMap() []string {
	m := e.State.Progress.Map
	p := e.State.Progress
	out := []string{fmt.Sprintf("HP %d/%d  Gold %d  Battles won %d",
		p.Player.Health, p.Player.MaxHealth, p.Gold, p.CompletedBattles)}

	if cur, ok := m.Nodes[m.CurrentNodeID]; ok {
		out = append(out, fmt.Sprintf("You stand on floor %d of %d.", cur.Floor+1, len(m.Floors)))
	}
	if e.State.Phase == types.PhaseRest {
		out = append(out, "You are at a rest site. Type 'continue' to move on.")
		return out
	}
	avail := mapgen.AvailableNodes(m)
	if len(avail) == 0 {
		return out
	}
	out = append(out, "Paths ahead:")
	for i, n := range avail {
		out = append(out, fmt.Sprintf("  %d) %s", i+1, e.nodeLabel(n)))
	}
	return out
}

func (e *Engine) nodeLabel(n types.MapNode) string {
	switch n.Type {
	case types.NodeRest:
		return fmt.Sprintf("Floor %d: Rest site", n.Floor+1)
	default:
		name := n.EnemyID
		if en, ok := e.Defs.Enemies[n.EnemyID]; ok {
			name = en.Name
		}
		return fmt.Sprintf("Floor %d: %s (%s)", n.Floor+1, name, n.Type)
	}
}

func (e *Engine) describeBattle() []string {
	s := e.battle.State()
	name := e.enemyName()
	var out []string
	out = append(out, fmt.Sprintf("Turn %d. You: %s  Energy %d/%d",
		s.Turn, characterLine(s.Player), s.Player.Energy, s.Player.MaxEnergy))
	out = append(out, fmt.Sprintf("%s: %s  Intent: %s", name, characterLine(s.Enemy), intentLine(s.EnemyIntent)))
	out = append(out, fmt.Sprintf("Draw %d  Discard %d", len(s.DrawPile), len(s.DiscardPile)))
	out = append(out, "Hand:")
	for i, c := range s.Hand {
		out = append(out, fmt.Sprintf("  %d) %s", i+1, cardLine(c)))
	}
	return out
}

func (e *Engine) describeFusion() []string {
	out := []string{"With the boss defeated you may fuse two cards into one (fuse <n> <m>) or skip."}
	return append(out, e.describeDeck()...)
}

func (e *Engine) describeOutcome() []string {
	o := e.Outcome()
	if o == nil {
		return nil
	}
	var out []string
	if o.Victory {
		out = append(out, "*** VICTORY ***")
	} else {
		out = append(out, "*** DEFEAT ***")
	}
	out = append(out, fmt.Sprintf("Battles won: %d  Gold: %d", o.CompletedBattles, o.Gold))
	if o.FusionCard != nil {
		out = append(out, "Fusion card: "+cardLine(*o.FusionCard))
	}
	return out
}

func (e *Engine) enemyName() string {
	if en, ok := e.Defs.Enemies[e.State.EnemyID]; ok {
		return en.Name
	}
	return "Enemy"
}

// narrate turns battle events into output lines.
func (e *Engine) narrate(evts []types.Event) []string {
	enemy := e.enemyName()
	// subject picks the name and verb form for an event target.
	subject := func(target any, you, it string) string {
		if target == "player" {
			return "You " + you
		}
		return enemy + " " + it
	}

	var out []string
	for _, ev := range evts {
		d := ev.Data
		switch ev.Type {
		case "damaged":
			out = append(out, fmt.Sprintf("%s %v HP (%v left).", subject(d["target"], "lose", "loses"), d["amount"], d["remaining"]))
		case "block_gained":
			out = append(out, fmt.Sprintf("%s %v block.", subject(d["target"], "gain", "gains"), d["amount"]))
		case "healed":
			out = append(out, fmt.Sprintf("%s %v HP.", subject(d["target"], "heal", "heals"), d["amount"]))
		case "poisoned":
			out = append(out, fmt.Sprintf("%s %v poison.", subject(d["target"], "now have", "now has"), d["stacks"]))
		case "energy_gained":
			out = append(out, fmt.Sprintf("Energy: %v.", d["energy"]))
		case "cards_drawn":
			out = append(out, fmt.Sprintf("You draw %v.", d["drawn"]))
		case "reshuffled":
			out = append(out, "Your discard pile is shuffled into a new draw pile.")
		case "enemy_attacked":
			label := "attacks"
			if n, _ := d["name"].(string); n != "" {
				label = "uses " + n
			}
			out = append(out, fmt.Sprintf("%s %s for %v. You lose %v HP.", enemy, label, d["amount"], d["loss"]))
		case "enemy_blocked":
			out = append(out, fmt.Sprintf("%s braces for %v block.", enemy, d["amount"]))
		case "poison_tick":
			out = append(out, fmt.Sprintf("%s %v from poison.", subject(d["target"], "take", "takes"), d["amount"]))
		}
	}
	return out
}

func characterLine(c types.Character) string {
	line := fmt.Sprintf("HP %d/%d", c.Health, c.MaxHealth)
	if c.Block > 0 {
		line += fmt.Sprintf("  Block %d", c.Block)
	}
	if p := c.Statuses[types.StatusPoison]; p > 0 {
		line += fmt.Sprintf("  Poison %d", p)
	}
	return line
}

func intentLine(in *types.EnemyIntent) string {
	if in == nil {
		return "?"
	}
	label := fmt.Sprintf("%s %d", in.Type, in.Value)
	if in.Name != "" {
		label = in.Name + " (" + label + ")"
	}
	return label
}

func cardLine(c types.Card) string {
	return fmt.Sprintf("%s [%d] %s", c.Name, c.Energy, c.Description)
}
