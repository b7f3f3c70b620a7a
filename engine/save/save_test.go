package save

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nathoo/chainspire/config"
	"github.com/nathoo/chainspire/engine"
	"github.com/nathoo/chainspire/engine/battle"
	"github.com/nathoo/chainspire/engine/state"
	"github.com/nathoo/chainspire/types"
)

func testDefs() *state.Defs {
	strike := types.Card{ID: "strike", Name: "Strike", Type: types.CardAttack, Rarity: types.RarityCommon, Energy: 1,
		Effects: []types.CardEffect{{Type: types.EffectDamage, Value: 5, Target: types.TargetEnemy}}}
	guard := types.Card{ID: "guard", Name: "Guard", Type: types.CardSkill, Rarity: types.RarityCommon, Energy: 1,
		Effects: []types.CardEffect{{Type: types.EffectBlock, Value: 4, Target: types.TargetSelf}}}
	venom := types.Card{ID: "venom", Name: "Venom", Type: types.CardSkill, Rarity: types.RarityUncommon, Energy: 1,
		Effects: []types.CardEffect{{Type: types.EffectPoison, Value: 3, Target: types.TargetEnemy}}}

	var cards []types.Card
	for range 4 {
		cards = append(cards, strike, guard)
	}
	cards = append(cards, venom, venom)

	enemy := func(id string, tier types.EnemyTier, hp int) types.Enemy {
		return types.Enemy{ID: id, Name: id, Tier: tier, Health: hp, MaxHealth: hp, GoldReward: 10,
			Attacks: []types.EnemyAttack{{Name: "Hit", Damage: 6}}}
	}
	return &state.Defs{
		Game:  types.GameDef{Title: "Save Test", Version: "0.1"},
		Cards: map[string]types.Card{"strike": strike, "guard": guard, "venom": venom},
		Decks: map[string]types.Deck{"mixed": {ID: "mixed", Name: "Mixed", Cards: cards}},
		Enemies: map[string]types.Enemy{
			"minion":          enemy("minion", types.TierNormal, 30),
			"elite_miner":     enemy("elite_miner", types.TierElite, 40),
			"elite_hacker":    enemy("elite_hacker", types.TierElite, 35),
			"boss_cryptolord": enemy("boss_cryptolord", types.TierBoss, 75),
		},
	}
}

func newEngine(seed int64) *engine.Engine {
	cfg := config.Default()
	cfg.Map.EnemyPool = []string{"minion"}
	cfg.Map.EliteChance = 0
	return engine.New(testDefs(), cfg, seed)
}

// enterBattle picks the deck and walks to the first battle node.
func enterBattle(t *testing.T, e *engine.Engine) {
	t.Helper()
	e.Step("deck mixed")
	for i := 0; i < 10 && e.Phase() != types.PhaseBattle; i++ {
		if e.Phase() == types.PhaseRest {
			e.Step("continue")
			continue
		}
		e.Step("go 1")
	}
	if e.Phase() != types.PhaseBattle {
		t.Fatalf("no battle reached, phase %s", e.Phase())
	}
}

func mustSave(t *testing.T, e *engine.Engine) []byte {
	t.Helper()
	data, err := Save(e)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	return data
}

func restore(t *testing.T, data []byte, seed int64) *engine.Engine {
	t.Helper()
	sd, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	e := newEngine(seed + 1000) // wrong seed on purpose; the save must win
	if err := Apply(e, sd); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	return e
}

func TestRoundTrip_MapPhase(t *testing.T) {
	e := newEngine(5)
	e.Step("deck mixed")

	data := mustSave(t, e)
	e2 := restore(t, data, 5)

	if e2.Phase() != types.PhaseMap {
		t.Errorf("phase = %s, want map", e2.Phase())
	}
	if e2.Battle() != nil {
		t.Error("no battle expected after loading a map-phase save")
	}
	if e2.State.Seed != 5 || e2.RNG.Position() != e.RNG.Position() {
		t.Errorf("rng = seed %d pos %d, want seed 5 pos %d", e2.State.Seed, e2.RNG.Position(), e.RNG.Position())
	}
	if got := mustSave(t, e2); !bytes.Equal(got, data) {
		t.Errorf("re-save differs:\n%s\nvs\n%s", got, data)
	}
}

// A run loaded mid-battle must continue exactly like the run that never stopped.
func TestRoundTrip_MidBattleContinuesIdentically(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 99} {
		e := newEngine(seed)
		enterBattle(t, e)
		e.Step("play 1")

		data := mustSave(t, e)
		e2 := restore(t, data, seed)

		if e2.Battle() == nil {
			t.Fatalf("seed %d: battle not restored", seed)
		}
		if en, ok := e2.CurrentEnemy(); !ok || en.ID != "minion" {
			t.Fatalf("seed %d: enemy = %+v", seed, en)
		}

		script := []string{"end", "play 1", "play 1", "end", "play 2", "end", "end", "play 1", "end"}
		for _, cmd := range script {
			r1 := e.Step(cmd)
			r2 := e2.Step(cmd)
			if len(r1.Output) != len(r2.Output) {
				t.Fatalf("seed %d %q: output diverged:\n%v\nvs\n%v", seed, cmd, r1.Output, r2.Output)
			}
			for i := range r1.Output {
				if r1.Output[i] != r2.Output[i] {
					t.Fatalf("seed %d %q: line %d %q vs %q", seed, cmd, i, r1.Output[i], r2.Output[i])
				}
			}
		}
		if a, b := mustSave(t, e), mustSave(t, e2); !bytes.Equal(a, b) {
			t.Errorf("seed %d: final saves differ", seed)
		}
	}
}

func TestSave_BattleFields(t *testing.T) {
	e := newEngine(3)
	enterBattle(t, e)

	var sd SaveData
	if err := json.Unmarshal(mustSave(t, e), &sd); err != nil {
		t.Fatal(err)
	}
	if sd.Format != FormatVersion || sd.Game != "Save Test" || sd.Version != "0.1" {
		t.Errorf("header = %d %q %q", sd.Format, sd.Game, sd.Version)
	}
	if sd.Battle == nil {
		t.Fatal("battle missing")
	}
	if sd.Battle.EnemyID != "minion" {
		t.Errorf("enemy = %q", sd.Battle.EnemyID)
	}
	if len(sd.Battle.State.Hand) != 5 {
		t.Errorf("hand = %d cards, want 5", len(sd.Battle.State.Hand))
	}
	if sd.DeckID != "mixed" {
		t.Errorf("deck = %q", sd.DeckID)
	}
	if len(sd.CommandLog) == 0 {
		t.Error("command log empty")
	}
}

func TestLoad_NilCollections(t *testing.T) {
	data := []byte(`{"format":1,"phase":"deck_selection","seed":1}`)
	sd, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if sd.CommandLog == nil {
		t.Error("command log should be empty, not nil")
	}
	if sd.Progress.Player.Statuses == nil {
		t.Error("statuses should be empty, not nil")
	}
}

func TestLoad_Rejects(t *testing.T) {
	e := newEngine(11)
	enterBattle(t, e)
	good := mustSave(t, e)

	mutate := func(f func(sd map[string]any)) []byte {
		var raw map[string]any
		if err := json.Unmarshal(good, &raw); err != nil {
			t.Fatal(err)
		}
		f(raw)
		out, err := json.Marshal(raw)
		if err != nil {
			t.Fatal(err)
		}
		return out
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"garbage", []byte("not json")},
		{"wrong format", mutate(func(sd map[string]any) { sd["format"] = 99 })},
		{"unknown phase", mutate(func(sd map[string]any) { sd["phase"] = "shopping" })},
		{"battle without battle data", mutate(func(sd map[string]any) { delete(sd, "battle") })},
		{"battle data outside battle", mutate(func(sd map[string]any) { sd["phase"] = "map" })},
		{"broken map", mutate(func(sd map[string]any) {
			p := sd["progress"].(map[string]any)
			m := p["map"].(map[string]any)
			m["boss_node_id"] = "nowhere"
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.data)
			if !errors.Is(err, ErrInvalidSave) {
				t.Errorf("expected ErrInvalidSave, got %v", err)
			}
		})
	}
}

func TestApply_FailureLeavesEngineUntouched(t *testing.T) {
	e := newEngine(13)
	enterBattle(t, e)
	e.Step("play 1")
	good := mustSave(t, e)

	tests := []struct {
		name    string
		mutate  func(sd *SaveData)
		wantErr error
	}{
		{"unknown enemy", func(sd *SaveData) { sd.Battle.EnemyID = "dragon" }, engine.ErrUnknownEnemy},
		{"broken piles", func(sd *SaveData) { sd.Battle.State.Hand = nil }, battle.ErrSnapshot},
		{"decided battle", func(sd *SaveData) { sd.Battle.State.Enemy.Health = 0 }, battle.ErrSnapshot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sd, err := Load(good)
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(sd)

			e2 := newEngine(13)
			e2.Step("deck mixed")
			before := mustSave(t, e2)
			pos := e2.RNG.Position()

			if err := Apply(e2, sd); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if e2.Phase() != types.PhaseMap {
				t.Errorf("phase = %s, want map", e2.Phase())
			}
			if e2.Battle() != nil {
				t.Error("no battle expected after a failed load")
			}
			if e2.RNG.Position() != pos {
				t.Errorf("rng position = %d, want %d", e2.RNG.Position(), pos)
			}
			if after := mustSave(t, e2); !bytes.Equal(after, before) {
				t.Error("failed load changed the run")
			}

			// Battle commands are rejected by phase instead of reaching a nil battle.
			r := e2.Step("play 1")
			if len(r.Output) == 0 {
				t.Error("expected a rejection message")
			}
			if e2.Phase() != types.PhaseMap {
				t.Errorf("phase after play = %s", e2.Phase())
			}
		})
	}
}

func TestApply_ClearsBattle(t *testing.T) {
	e := newEngine(17)
	e.Step("deck mixed")
	mapSave, err := Load(mustSave(t, e))
	if err != nil {
		t.Fatal(err)
	}

	e2 := newEngine(17)
	enterBattle(t, e2)
	if err := Apply(e2, mapSave); err != nil {
		t.Fatal(err)
	}
	if e2.Battle() != nil {
		t.Error("battle should be cleared")
	}
	if e2.Phase() != types.PhaseMap {
		t.Errorf("phase = %s", e2.Phase())
	}
}
