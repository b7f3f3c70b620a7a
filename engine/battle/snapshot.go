package battle

import (
	"fmt"

	"github.com/nathoo/chainspire/engine/rng"
	"github.com/nathoo/chainspire/types"
)

// Snapshot is the serializable form of an in-progress battle.
type Snapshot struct {
	State types.BattleState  `json:"state"`
	Tally types.BattleResult `json:"tally"`
}

// Snapshot returns a deep copy of everything needed to resume the battle.
func (b *Battle) Snapshot() Snapshot {
	return Snapshot{State: cloneState(b.state), Tally: b.tally}
}

// Restore rebuilds a battle from a snapshot. The random source must already
// be positioned where the snapshot was taken. Options supply the hand size
// and AI; health and energy come from the snapshot.
func Restore(snap Snapshot, opts Options, r *rng.RNG) (*Battle, error) {
	if r == nil {
		return nil, ErrNilRNG
	}
	if len(snap.State.Deck) == 0 {
		return nil, ErrEmptyDeck
	}
	s := cloneState(snap.State)
	if err := checkPiles(s); err != nil {
		return nil, err
	}
	if s.Player.Health <= 0 || s.Enemy.Health <= 0 {
		return nil, fmt.Errorf("%w: battle already decided (player %d HP, enemy %d HP)",
			ErrSnapshot, s.Player.Health, s.Enemy.Health)
	}

	b := &Battle{
		state: s,
		tally: snap.Tally,
		opts:  opts.withDefaults(),
		rng:   r,
	}
	b.refreshIntent()
	b.checkResult()
	b.events = nil
	return b, nil
}

// checkPiles verifies that hand, draw and discard piles together are a
// permutation of the deck, compared by card id.
func checkPiles(s types.BattleState) error {
	if n := len(s.Hand) + len(s.DrawPile) + len(s.DiscardPile); n != len(s.Deck) {
		return fmt.Errorf("%w: piles hold %d cards, deck has %d", ErrSnapshot, n, len(s.Deck))
	}
	count := make(map[string]int, len(s.Deck))
	for _, c := range s.Deck {
		count[c.ID]++
	}
	for _, pile := range [][]types.Card{s.Hand, s.DrawPile, s.DiscardPile} {
		for _, c := range pile {
			if count[c.ID] == 0 {
				return fmt.Errorf("%w: card %q is not in the deck", ErrSnapshot, c.ID)
			}
			count[c.ID]--
		}
	}
	return nil
}
