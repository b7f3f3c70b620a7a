package battle

import (
	"slices"

	"github.com/nathoo/chainspire/engine/rng"
	"github.com/nathoo/chainspire/types"
)

// draw moves up to n cards from the top of the draw pile into the hand.
// An empty draw pile is refilled by shuffling the discard pile; when both
// are empty the draw stops short. Returns the number of cards drawn.
func (b *Battle) draw(n int) int {
	drawn := 0
	for i := 0; i < n; i++ {
		if len(b.state.DrawPile) == 0 {
			if len(b.state.DiscardPile) == 0 {
				break
			}
			b.state.DrawPile = b.state.DiscardPile
			b.state.DiscardPile = []types.Card{}
			rng.Shuffle(b.rng, b.state.DrawPile)
			b.emit("reshuffled", map[string]any{"cards": len(b.state.DrawPile)})
		}
		last := len(b.state.DrawPile) - 1
		card := b.state.DrawPile[last]
		b.state.DrawPile = b.state.DrawPile[:last]
		b.state.Hand = append(b.state.Hand, card)
		drawn++
	}
	return drawn
}

func cloneCard(c types.Card) types.Card {
	c.Effects = slices.Clone(c.Effects)
	c.ParentCards = slices.Clone(c.ParentCards)
	return c
}

func cloneCards(cards []types.Card) []types.Card {
	out := make([]types.Card, len(cards))
	for i, c := range cards {
		out[i] = cloneCard(c)
	}
	return out
}

func cloneCharacter(c types.Character) types.Character {
	statuses := make(types.Statuses, len(c.Statuses))
	for k, v := range c.Statuses {
		statuses[k] = v
	}
	c.Statuses = statuses
	return c
}

func cloneState(s types.BattleState) types.BattleState {
	out := types.BattleState{
		Player:      cloneCharacter(s.Player),
		Enemy:       cloneCharacter(s.Enemy),
		Deck:        cloneCards(s.Deck),
		Hand:        cloneCards(s.Hand),
		DrawPile:    cloneCards(s.DrawPile),
		DiscardPile: cloneCards(s.DiscardPile),
		Turn:        s.Turn,
	}
	if s.EnemyIntent != nil {
		intent := *s.EnemyIntent
		out.EnemyIntent = &intent
	}
	return out
}
