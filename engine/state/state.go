// Package state holds the loaded content definitions and builds and copies
// the mutable run state derived from them.
package state

import (
	"slices"
	"sort"

	"github.com/nathoo/chainspire/engine/mapgen"
	"github.com/nathoo/chainspire/engine/rng"
	"github.com/nathoo/chainspire/types"
)

// Defs holds the immutable game definitions loaded from Lua.
type Defs struct {
	Game    types.GameDef
	Cards   map[string]types.Card
	Decks   map[string]types.Deck
	Enemies map[string]types.Enemy
}

// NewRunState creates a fresh run waiting for a deck choice.
func NewRunState(seed int64) *types.RunState {
	return &types.RunState{
		Phase:      types.PhaseDeckSelection,
		Seed:       seed,
		CommandLog: []string{},
	}
}

// NewProgress starts run bookkeeping with a full-health player, no gold and
// no battles won.
func NewProgress(deck []types.Card, m types.GameMap, health, maxEnergy int) types.GameProgress {
	return types.GameProgress{
		Map: m,
		Player: types.Character{
			Health:    health,
			MaxHealth: health,
			Energy:    maxEnergy,
			MaxEnergy: maxEnergy,
			Statuses:  types.Statuses{},
		},
		Deck: deck,
	}
}

// InstantiateDeck copies every card of a deck definition with a fresh id.
// The definition's card id is kept as the copy's template.
func InstantiateDeck(d types.Deck, r *rng.RNG) []types.Card {
	out := make([]types.Card, len(d.Cards))
	for i, c := range d.Cards {
		c.Effects = slices.Clone(c.Effects)
		c.ParentCards = slices.Clone(c.ParentCards)
		if c.Template == "" {
			c.Template = c.ID
		}
		c.ID = r.NewID()
		out[i] = c
	}
	return out
}

// DeckIDs returns the defined deck ids in sorted order.
func DeckIDs(defs *Defs) []string {
	ids := make([]string, 0, len(defs.Decks))
	for id := range defs.Decks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EnemiesOfTier returns the ids of enemies in a tier, sorted.
func EnemiesOfTier(defs *Defs, tier types.EnemyTier) []string {
	var ids []string
	for id, e := range defs.Enemies {
		if e.Tier == tier {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// MapConfig overlays the content's boss and enemy pools onto a base map
// config. Empty content fields keep the base values.
func MapConfig(defs *Defs, base mapgen.Config) mapgen.Config {
	if defs.Game.Boss != "" {
		base.Boss = defs.Game.Boss
	}
	if len(defs.Game.EnemyPool) > 0 {
		base.EnemyPool = slices.Clone(defs.Game.EnemyPool)
	}
	if len(defs.Game.ElitePool) > 0 {
		base.ElitePool = slices.Clone(defs.Game.ElitePool)
	}
	return base
}

// CloneProgress returns a deep copy of p.
func CloneProgress(p types.GameProgress) types.GameProgress {
	out := p
	out.Map = mapgen.Clone(p.Map)
	out.Player.Statuses = make(types.Statuses, len(p.Player.Statuses))
	for k, v := range p.Player.Statuses {
		out.Player.Statuses[k] = v
	}
	if p.Deck != nil {
		out.Deck = make([]types.Card, len(p.Deck))
		for i, c := range p.Deck {
			c.Effects = slices.Clone(c.Effects)
			c.ParentCards = slices.Clone(c.ParentCards)
			out.Deck[i] = c
		}
	}
	return out
}

// CloneRunState returns a deep copy of s.
func CloneRunState(s *types.RunState) *types.RunState {
	out := *s
	out.Progress = CloneProgress(s.Progress)
	out.CommandLog = slices.Clone(s.CommandLog)
	if s.FusionCard != nil {
		c := *s.FusionCard
		c.Effects = slices.Clone(c.Effects)
		c.ParentCards = slices.Clone(c.ParentCards)
		out.FusionCard = &c
	}
	return &out
}
