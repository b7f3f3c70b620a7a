package loader

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerEffectHelpers(L)
	registerAttackHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", boss = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Card "id" { ... }, curried: Card("id") returns a function that takes a table.
	L.SetGlobal("Card", curried(L, func(id string, tbl *lua.LTable) {
		coll.cards = append(coll.cards, rawDef{id: id, table: tbl})
	}))
	L.SetGlobal("Deck", curried(L, func(id string, tbl *lua.LTable) {
		coll.decks = append(coll.decks, rawDef{id: id, table: tbl})
	}))
	L.SetGlobal("Enemy", curried(L, func(id string, tbl *lua.LTable) {
		coll.enemies = append(coll.enemies, rawDef{id: id, table: tbl})
	}))
}

// curried builds a Name "id" { ... } constructor.
func curried(L *lua.LState, store func(id string, tbl *lua.LTable)) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			store(id, L.CheckTable(1))
			return 0
		}))
		return 1
	})
}

func registerEffectHelpers(L *lua.LState) {
	// Damage(5), Block(4), Heal(4, "self"), ...: an optional second argument
	// overrides the default target.
	helpers := []struct {
		name   string
		target string
	}{
		{"Damage", "enemy"},
		{"Block", "self"},
		{"Draw", "self"},
		{"Energy", "self"},
		{"Poison", "enemy"},
		{"Heal", "self"},
	}
	for _, h := range helpers {
		kind := lua.LString(strings.ToLower(h.name))
		def := h.target
		L.SetGlobal(h.name, L.NewFunction(func(L *lua.LState) int {
			value := L.CheckNumber(1)
			target := L.OptString(2, def)
			tbl := L.NewTable()
			tbl.RawSetString("type", kind)
			tbl.RawSetString("value", value)
			tbl.RawSetString("target", lua.LString(target))
			L.Push(tbl)
			return 1
		}))
	}
}

func registerAttackHelpers(L *lua.LState) {
	// Attack("Byte Strike", 5) or Attack("Rugpull", 12, { Poison(5) })
	L.SetGlobal("Attack", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		damage := L.CheckNumber(2)
		tbl := L.NewTable()
		tbl.RawSetString("name", lua.LString(name))
		tbl.RawSetString("damage", damage)
		if effs, ok := L.Get(3).(*lua.LTable); ok {
			tbl.RawSetString("effects", effs)
		}
		L.Push(tbl)
		return 1
	}))

	// Buff(2): the enemy braces for extra block.
	L.SetGlobal("Buff", statusHelper(L, "buff"))
	// Debuff(1): a telegraphed weakening with no mechanical effect yet.
	L.SetGlobal("Debuff", statusHelper(L, "debuff"))
}

func statusHelper(L *lua.LState, kind string) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		value := L.CheckNumber(1)
		tbl := L.NewTable()
		tbl.RawSetString("type", lua.LString(kind))
		tbl.RawSetString("value", value)
		L.Push(tbl)
		return 1
	})
}
