package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/chainspire/engine/state"
	"github.com/nathoo/chainspire/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

var (
	validEffectTypes = map[types.EffectType]bool{
		types.EffectDamage: true, types.EffectBlock: true, types.EffectDraw: true,
		types.EffectEnergy: true, types.EffectPoison: true, types.EffectHeal: true,
	}
	validTargets = map[types.EffectTarget]bool{
		types.TargetSelf: true, types.TargetEnemy: true, types.TargetAll: true,
	}
	validCardTypes = map[types.CardType]bool{
		types.CardAttack: true, types.CardSkill: true, types.CardPower: true,
	}
	validRarities = map[types.Rarity]bool{
		types.RarityCommon: true, types.RarityUncommon: true, types.RarityRare: true,
	}
	validNetworks = map[types.NetworkType]bool{
		"": true, types.NetworkEthereum: true, types.NetworkSolana: true,
		types.NetworkBitcoin: true, types.NetworkFusion: true,
	}
	validTiers = map[types.EnemyTier]bool{
		types.TierNormal: true, types.TierElite: true, types.TierBoss: true,
	}
	validAttackEffects = map[string]bool{
		string(types.StatusPoison): true, "buff": true, "debuff": true,
	}
)

// validate checks the compiled defs for referential integrity and
// consistency. Every problem is collected; nothing stops at the first.
func validate(defs *state.Defs) *ValidationError {
	ve := &ValidationError{}

	if defs.Game.Title == "" {
		ve.errorf("Game.title is required")
	}

	for _, id := range sortedKeys(defs.Cards) {
		validateCard(defs.Cards[id], ve)
	}

	if len(defs.Decks) == 0 {
		ve.errorf("at least one Deck is required")
	}
	for _, id := range sortedKeys(defs.Decks) {
		d := defs.Decks[id]
		if d.Name == "" {
			ve.errorf("deck %q: name is required", id)
		}
		if !validNetworks[d.Theme] {
			ve.errorf("deck %q: unknown theme %q", id, d.Theme)
		}
		if len(d.Cards) == 0 {
			ve.errorf("deck %q has no cards", id)
		}
		for _, c := range d.Cards {
			if _, ok := defs.Cards[c.ID]; !ok {
				ve.errorf("deck %q references undefined card %q", id, c.ID)
			}
		}
	}

	for _, id := range sortedKeys(defs.Enemies) {
		validateEnemy(defs.Enemies[id], ve)
	}

	if defs.Game.Boss != "" {
		checkTier(defs, "Game.boss", defs.Game.Boss, types.TierBoss, ve)
	}
	for _, id := range defs.Game.EnemyPool {
		checkTier(defs, "Game.enemy_pool", id, types.TierNormal, ve)
	}
	for _, id := range defs.Game.ElitePool {
		checkTier(defs, "Game.elite_pool", id, types.TierElite, ve)
	}

	return ve
}

func validateCard(c types.Card, ve *ValidationError) {
	if c.Name == "" {
		ve.errorf("card %q: name is required", c.ID)
	}
	if !validCardTypes[c.Type] {
		ve.errorf("card %q: unknown type %q", c.ID, c.Type)
	}
	if !validRarities[c.Rarity] {
		ve.errorf("card %q: unknown rarity %q", c.ID, c.Rarity)
	}
	if !validNetworks[c.Origin] {
		ve.errorf("card %q: unknown origin %q", c.ID, c.Origin)
	}
	if c.Energy < 0 {
		ve.errorf("card %q: energy %d is negative", c.ID, c.Energy)
	}
	if len(c.Effects) == 0 {
		ve.warnf("card %q has no effects", c.ID)
	}
	for i, e := range c.Effects {
		if !validEffectTypes[e.Type] {
			ve.errorf("card %q effect %d: unknown type %q", c.ID, i+1, e.Type)
		}
		if !validTargets[e.Target] {
			ve.errorf("card %q effect %d: unknown target %q", c.ID, i+1, e.Target)
		}
		if e.Value < 0 {
			ve.errorf("card %q effect %d: value %d is negative", c.ID, i+1, e.Value)
		}
	}
}

func validateEnemy(en types.Enemy, ve *ValidationError) {
	if en.Name == "" {
		ve.errorf("enemy %q: name is required", en.ID)
	}
	if !validTiers[en.Tier] {
		ve.errorf("enemy %q: unknown tier %q", en.ID, en.Tier)
	}
	if en.Health <= 0 {
		ve.errorf("enemy %q: health must be positive, got %d", en.ID, en.Health)
	}
	if en.MaxHealth < en.Health {
		ve.errorf("enemy %q: max_health %d is below health %d", en.ID, en.MaxHealth, en.Health)
	}
	if en.GoldReward < 0 {
		ve.errorf("enemy %q: gold %d is negative", en.ID, en.GoldReward)
	}
	if len(en.Attacks) == 0 {
		ve.warnf("enemy %q has no attacks and will use the default pattern", en.ID)
	}
	for _, a := range en.Attacks {
		if a.Damage < 0 {
			ve.errorf("enemy %q attack %q: damage %d is negative", en.ID, a.Name, a.Damage)
		}
		for _, eff := range a.Effects {
			if !validAttackEffects[eff.Type] {
				ve.errorf("enemy %q attack %q: unknown effect %q", en.ID, a.Name, eff.Type)
			}
			if eff.Value < 0 {
				ve.errorf("enemy %q attack %q: effect value %d is negative", en.ID, a.Name, eff.Value)
			}
		}
	}
}

func checkTier(defs *state.Defs, field, id string, want types.EnemyTier, ve *ValidationError) {
	en, ok := defs.Enemies[id]
	if !ok {
		ve.errorf("%s references undefined enemy %q", field, id)
		return
	}
	if en.Tier != want {
		ve.errorf("%s: enemy %q is %s, want %s", field, id, en.Tier, want)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
