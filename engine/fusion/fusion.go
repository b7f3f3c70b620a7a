// Package fusion combines two cards into a stronger one after the boss falls.
package fusion

import (
	"errors"
	"fmt"
	"slices"

	"github.com/nathoo/chainspire/engine/effects"
	"github.com/nathoo/chainspire/types"
)

var ErrSameCard = errors.New("cannot fuse a card with itself")

var rarityRank = map[types.Rarity]int{
	types.RarityCommon:   0,
	types.RarityUncommon: 1,
	types.RarityRare:     2,
}

var rarityByRank = []types.Rarity{types.RarityCommon, types.RarityUncommon, types.RarityRare}

// Fuse builds a fusion card from parents a and b with the given id.
func Fuse(a, b types.Card, id string) (types.Card, error) {
	if a.ID == b.ID {
		return types.Card{}, fmt.Errorf("%w: %s", ErrSameCard, a.ID)
	}

	effs := MergeEffects(a.Effects, b.Effects)
	return types.Card{
		ID:          id,
		Name:        a.Name + " + " + b.Name,
		Description: effects.Describe(effs),
		Origin:      types.NetworkFusion,
		Type:        fusedType(a.Type, b.Type),
		Rarity:      fusedRarity(a.Rarity, b.Rarity),
		Energy:      max(a.Energy, b.Energy),
		Effects:     effs,
		IsFusion:    true,
		ParentCards: []string{a.ID, b.ID},
	}, nil
}

// MergeEffects concatenates both lists, summing effects that share a type
// and target. Order follows first appearance.
func MergeEffects(a, b []types.CardEffect) []types.CardEffect {
	out := make([]types.CardEffect, 0, len(a)+len(b))
	for _, e := range slices.Concat(a, b) {
		i := slices.IndexFunc(out, func(o types.CardEffect) bool {
			return o.Type == e.Type && o.Target == e.Target
		})
		if i >= 0 {
			out[i].Value += e.Value
			continue
		}
		out = append(out, e)
	}
	return out
}

func fusedType(a, b types.CardType) types.CardType {
	switch {
	case a == types.CardAttack || b == types.CardAttack:
		return types.CardAttack
	case a == types.CardPower || b == types.CardPower:
		return types.CardPower
	default:
		return types.CardSkill
	}
}

func fusedRarity(a, b types.Rarity) types.Rarity {
	rank := max(rarityRank[a], rarityRank[b]) + 1
	if rank >= len(rarityByRank) {
		rank = len(rarityByRank) - 1
	}
	return rarityByRank[rank]
}
