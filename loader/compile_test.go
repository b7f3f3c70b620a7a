package loader

import (
	"reflect"
	"testing"

	"github.com/nathoo/chainspire/types"
	lua "github.com/yuin/gopher-lua"
)

// newTestVM creates a sandboxed Lua VM with the API registered and a fresh collector.
func newTestVM() (*lua.LState, *collector) {
	L := newSandbox()
	coll := &collector{}
	registerAPI(L, coll)
	return L, coll
}

func run(t *testing.T, src string) *collector {
	t.Helper()
	L, coll := newTestVM()
	t.Cleanup(L.Close)
	if err := L.DoString(src); err != nil {
		t.Fatal(err)
	}
	return coll
}

func TestCompileGame(t *testing.T) {
	coll := run(t, `
		Game {
			title = "Chain",
			author = "Author",
			version = "1.0",
			boss = "lord",
			enemy_pool = { "a", "b" },
			elite_pool = { "e" },
		}
	`)
	game := compileGame(coll.game)
	want := types.GameDef{
		Title: "Chain", Author: "Author", Version: "1.0", Boss: "lord",
		EnemyPool: []string{"a", "b"}, ElitePool: []string{"e"},
	}
	if !reflect.DeepEqual(game, want) {
		t.Errorf("game = %+v, want %+v", game, want)
	}
}

func TestEffectHelpers(t *testing.T) {
	coll := run(t, `
		Card "all" {
			name = "All",
			effects = {
				Damage(5), Block(4), Draw(2), Energy(1), Poison(3), Heal(4),
				Damage(2, "self"), { type = "block", value = 1 },
			},
		}
	`)
	card, err := compileCard(coll.cards[0])
	if err != nil {
		t.Fatal(err)
	}
	want := []types.CardEffect{
		{Type: types.EffectDamage, Value: 5, Target: types.TargetEnemy},
		{Type: types.EffectBlock, Value: 4, Target: types.TargetSelf},
		{Type: types.EffectDraw, Value: 2, Target: types.TargetSelf},
		{Type: types.EffectEnergy, Value: 1, Target: types.TargetSelf},
		{Type: types.EffectPoison, Value: 3, Target: types.TargetEnemy},
		{Type: types.EffectHeal, Value: 4, Target: types.TargetSelf},
		{Type: types.EffectDamage, Value: 2, Target: types.TargetSelf},
		{Type: types.EffectBlock, Value: 1, Target: types.TargetSelf},
	}
	if !reflect.DeepEqual(card.Effects, want) {
		t.Errorf("effects = %+v\nwant %+v", card.Effects, want)
	}
}

func TestCompileCard_Fields(t *testing.T) {
	coll := run(t, `
		Card "pp" {
			name = "Parallel Processing",
			type = "power",
			rarity = "uncommon",
			energy = 2,
			origin = "solana",
			description = "Draw 1 card and gain 1 energy.",
			effects = { Draw(1), Energy(1) },
		}
		Card "free" { name = "Free", energy = 0, effects = { Damage(3) } }
	`)
	pp, err := compileCard(coll.cards[0])
	if err != nil {
		t.Fatal(err)
	}
	if pp.ID != "pp" || pp.Type != types.CardPower || pp.Rarity != types.RarityUncommon ||
		pp.Energy != 2 || pp.Origin != types.NetworkSolana {
		t.Errorf("card = %+v", pp)
	}
	if pp.Description != "Draw 1 card and gain 1 energy." {
		t.Errorf("explicit description lost: %q", pp.Description)
	}

	free, err := compileCard(coll.cards[1])
	if err != nil {
		t.Fatal(err)
	}
	if free.Energy != 0 {
		t.Errorf("energy = %d, want an explicit 0 kept", free.Energy)
	}
	if free.Description != "Deal 3 damage." {
		t.Errorf("generated description = %q", free.Description)
	}
}

func TestCompileDeck_ResolvesCards(t *testing.T) {
	coll := run(t, `
		Card "atk" { name = "Attack", type = "attack", effects = { Damage(5) } }
		Card "own" { name = "Own", origin = "ethereum", effects = { Block(1) } }
		Deck "d" { name = "D", theme = "solana", cards = { "atk", "own", "nope" } }
	`)
	cards := map[string]types.Card{}
	for _, raw := range coll.cards {
		c, err := compileCard(raw)
		if err != nil {
			t.Fatal(err)
		}
		cards[c.ID] = c
	}
	deck := compileDeck(coll.decks[0], cards)

	if len(deck.Cards) != 3 {
		t.Fatalf("deck has %d cards, want 3", len(deck.Cards))
	}
	if deck.Cards[0].Origin != types.NetworkSolana {
		t.Errorf("themeless card origin = %q, want solana", deck.Cards[0].Origin)
	}
	if deck.Cards[1].Origin != types.NetworkEthereum {
		t.Errorf("explicit origin overwritten: %q", deck.Cards[1].Origin)
	}
	if deck.Cards[2].ID != "nope" || deck.Cards[2].Name != "" {
		t.Errorf("unknown card placeholder = %+v", deck.Cards[2])
	}

	// Deck cards do not share effect slices with the card table.
	deck.Cards[0].Effects[0].Value = 99
	if cards["atk"].Effects[0].Value != 5 {
		t.Error("deck card aliases the card definition")
	}
}

func TestCompileEnemy(t *testing.T) {
	coll := run(t, `
		Enemy "lord" {
			name = "The Crypto Lord",
			tier = "boss",
			health = 75,
			gold = 100,
			attacks = {
				Attack("Market Crash", 15),
				Attack("Rugpull", 12, { Poison(5) }),
				Attack("Diamond Hands", 0, { Buff(4) }),
				Attack("Code Injection", 7, { Debuff(2) }),
			},
		}
		Enemy "weak" { name = "Weak", health = 10, max_health = 20 }
	`)
	lord, err := compileEnemy(coll.enemies[0])
	if err != nil {
		t.Fatal(err)
	}
	want := types.Enemy{
		ID: "lord", Name: "The Crypto Lord", Tier: types.TierBoss,
		Health: 75, MaxHealth: 75, GoldReward: 100,
		Attacks: []types.EnemyAttack{
			{Name: "Market Crash", Damage: 15},
			{Name: "Rugpull", Damage: 12, Effects: []types.StatusEffect{{Type: "poison", Value: 5}}},
			{Name: "Diamond Hands", Damage: 0, Effects: []types.StatusEffect{{Type: "buff", Value: 4}}},
			{Name: "Code Injection", Damage: 7, Effects: []types.StatusEffect{{Type: "debuff", Value: 2}}},
		},
	}
	if !reflect.DeepEqual(lord, want) {
		t.Errorf("enemy = %+v\nwant %+v", lord, want)
	}

	weak, err := compileEnemy(coll.enemies[1])
	if err != nil {
		t.Fatal(err)
	}
	if weak.Tier != types.TierNormal || weak.MaxHealth != 20 {
		t.Errorf("weak = %+v", weak)
	}
}

func TestCompile_Duplicates(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"card", `Game { title = "x" } Card "a" { name = "A" } Card "a" { name = "B" }`},
		{"deck", `Game { title = "x" } Deck "d" { name = "A" } Deck "d" { name = "B" }`},
		{"enemy", `Game { title = "x" } Enemy "e" { name = "A" } Enemy "e" { name = "B" }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := compile(run(t, tt.src)); err == nil {
				t.Error("expected duplicate error")
			}
		})
	}
}

func TestCompile_AttackEffectNotTable(t *testing.T) {
	coll := run(t, `Enemy "e" { name = "E", health = 5, attacks = { Attack("x", 1, { "poison" }) } }`)
	if _, err := compileEnemy(coll.enemies[0]); err == nil {
		t.Error("expected error for non-table attack effect")
	}
}
