// Package loader loads Lua content (cards, decks, enemies) into Go structs.
// The Lua VM is discarded after loading, so no Lua runs during a game.
package loader

import (
	"fmt"
	"sort"

	"github.com/nathoo/chainspire/engine/effects"
	"github.com/nathoo/chainspire/engine/state"
	"github.com/nathoo/chainspire/types"
	lua "github.com/yuin/gopher-lua"
)

// rawDef holds a Card, Deck or Enemy table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getIntOr returns an int field, or def when the field is absent.
func getIntOr(tbl *lua.LTable, key string, def int) int {
	if _, ok := tbl.RawGetString(key).(lua.LNumber); !ok {
		return def
	}
	return getInt(tbl, key)
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// tableToStrings converts a Lua array of strings to a Go slice.
func tableToStrings(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// tableEntries returns the table elements of a Lua array, failing on any
// element that is not a table.
func tableEntries(tbl *lua.LTable, what string) ([]*lua.LTable, error) {
	if tbl == nil {
		return nil, nil
	}
	out := make([]*lua.LTable, 0, tbl.MaxN())
	for i := 1; i <= tbl.MaxN(); i++ {
		t, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("%s %d is a %s, not a table", what, i, tbl.RawGetInt(i).Type())
		}
		out = append(out, t)
	}
	return out, nil
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{
		Cards:   map[string]types.Card{},
		Decks:   map[string]types.Deck{},
		Enemies: map[string]types.Enemy{},
	}

	// Game.
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	defs.Game = compileGame(coll.game)

	// Cards first: decks reference them.
	for _, raw := range coll.cards {
		if _, dup := defs.Cards[raw.id]; dup {
			return nil, fmt.Errorf("card %q defined twice", raw.id)
		}
		card, err := compileCard(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling card %s: %w", raw.id, err)
		}
		defs.Cards[card.ID] = card
	}

	for _, raw := range coll.decks {
		if _, dup := defs.Decks[raw.id]; dup {
			return nil, fmt.Errorf("deck %q defined twice", raw.id)
		}
		defs.Decks[raw.id] = compileDeck(raw, defs.Cards)
	}

	for _, raw := range coll.enemies {
		if _, dup := defs.Enemies[raw.id]; dup {
			return nil, fmt.Errorf("enemy %q defined twice", raw.id)
		}
		enemy, err := compileEnemy(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling enemy %s: %w", raw.id, err)
		}
		defs.Enemies[enemy.ID] = enemy
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	return types.GameDef{
		Title:     getString(tbl, "title"),
		Author:    getString(tbl, "author"),
		Version:   getString(tbl, "version"),
		Boss:      getString(tbl, "boss"),
		EnemyPool: tableToStrings(getTable(tbl, "enemy_pool")),
		ElitePool: tableToStrings(getTable(tbl, "elite_pool")),
	}
}

func compileCard(raw rawDef) (types.Card, error) {
	tbl := raw.table
	card := types.Card{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Origin:      types.NetworkType(getString(tbl, "origin")),
		Type:        types.CardType(getString(tbl, "type")),
		Rarity:      types.Rarity(getString(tbl, "rarity")),
		Energy:      getIntOr(tbl, "energy", 1),
	}
	if card.Type == "" {
		card.Type = types.CardSkill
	}
	if card.Rarity == "" {
		card.Rarity = types.RarityCommon
	}

	entries, err := tableEntries(getTable(tbl, "effects"), "effect")
	if err != nil {
		return card, err
	}
	card.Effects = make([]types.CardEffect, 0, len(entries))
	for _, e := range entries {
		eff := types.CardEffect{
			Type:   types.EffectType(getString(e, "type")),
			Value:  getInt(e, "value"),
			Target: types.EffectTarget(getString(e, "target")),
		}
		if eff.Target == "" {
			eff.Target = defaultTarget(eff.Type)
		}
		card.Effects = append(card.Effects, eff)
	}
	if card.Description == "" {
		card.Description = effects.Describe(card.Effects)
	}
	return card, nil
}

// defaultTarget is the target of an effect table written without one.
func defaultTarget(t types.EffectType) types.EffectTarget {
	if t == types.EffectDamage || t == types.EffectPoison {
		return types.TargetEnemy
	}
	return types.TargetSelf
}

// compileDeck resolves card ids against the compiled cards. Unknown ids are
// kept as bare placeholders so validation can report them. Cards without an
// origin take the deck's theme.
func compileDeck(raw rawDef, cards map[string]types.Card) types.Deck {
	tbl := raw.table
	deck := types.Deck{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Theme:       types.NetworkType(getString(tbl, "theme")),
		Description: getString(tbl, "description"),
	}
	for _, id := range tableToStrings(getTable(tbl, "cards")) {
		c, ok := cards[id]
		if !ok {
			deck.Cards = append(deck.Cards, types.Card{ID: id})
			continue
		}
		if c.Origin == "" {
			c.Origin = deck.Theme
		}
		c.Effects = append([]types.CardEffect(nil), c.Effects...)
		deck.Cards = append(deck.Cards, c)
	}
	return deck
}

func compileEnemy(raw rawDef) (types.Enemy, error) {
	tbl := raw.table
	enemy := types.Enemy{
		ID:         raw.id,
		Name:       getString(tbl, "name"),
		Tier:       types.EnemyTier(getString(tbl, "tier")),
		Health:     getInt(tbl, "health"),
		GoldReward: getInt(tbl, "gold"),
	}
	enemy.MaxHealth = getIntOr(tbl, "max_health", enemy.Health)
	if enemy.Tier == "" {
		enemy.Tier = types.TierNormal
	}

	attacks, err := tableEntries(getTable(tbl, "attacks"), "attack")
	if err != nil {
		return enemy, err
	}
	for _, a := range attacks {
		atk := types.EnemyAttack{
			Name:   getString(a, "name"),
			Damage: getInt(a, "damage"),
		}
		effs, err := tableEntries(getTable(a, "effects"), "attack effect")
		if err != nil {
			return enemy, fmt.Errorf("attack %q: %w", atk.Name, err)
		}
		for _, e := range effs {
			atk.Effects = append(atk.Effects, types.StatusEffect{
				Type:  getString(e, "type"),
				Value: getInt(e, "value"),
			})
		}
		enemy.Attacks = append(enemy.Attacks, atk)
	}
	return enemy, nil
}

// sortedLuaFiles returns .lua files in a directory, with game.lua first
// and the rest sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
