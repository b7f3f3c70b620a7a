package effects

import (
	"testing"

	"github.com/nathoo/chainspire/types"
)

func testSetup() (*types.Character, *types.Character, Context) {
	player := &types.Character{Health: 50, MaxHealth: 75, Energy: 1, MaxEnergy: 3}
	enemy := &types.Character{Health: 20, MaxHealth: 20}
	ctx := Context{Actor: player, Target: enemy, ActorName: "player", TargetName: "enemy"}
	return player, enemy, ctx
}

func TestDamageCalc_Formula(t *testing.T) {
	for v := 0; v <= 12; v++ {
		for b := 0; b <= 12; b++ {
			loss, block := DamageCalc(v, b)
			wantLoss := max(0, v-b)
			wantBlock := max(0, b-v)
			if loss != wantLoss || block != wantBlock {
				t.Fatalf("DamageCalc(%d, %d) = (%d, %d), want (%d, %d)", v, b, loss, block, wantLoss, wantBlock)
			}
		}
	}
}

func TestApply_Damage_BlockAbsorbsFirst(t *testing.T) {
	_, enemy, ctx := testSetup()
	enemy.Block = 3

	out := Apply(types.CardEffect{Type: types.EffectDamage, Value: 5, Target: types.TargetEnemy}, ctx)
	if out.HealthLoss != 2 {
		t.Errorf("expected 2 health loss, got %d", out.HealthLoss)
	}
	if enemy.Health != 18 || enemy.Block != 0 {
		t.Errorf("expected enemy 18hp/0 block, got %d/%d", enemy.Health, enemy.Block)
	}
	if len(out.Events) != 1 || out.Events[0].Type != "damaged" {
		t.Errorf("expected damaged event, got %v", out.Events)
	}
}

func TestApply_Damage_FullyBlocked(t *testing.T) {
	_, enemy, ctx := testSetup()
	enemy.Block = 10

	out := Apply(types.CardEffect{Type: types.EffectDamage, Value: 4, Target: types.TargetEnemy}, ctx)
	if out.HealthLoss != 0 {
		t.Errorf("expected no health loss, got %d", out.HealthLoss)
	}
	if enemy.Block != 6 {
		t.Errorf("expected block reduced by full value to 6, got %d", enemy.Block)
	}
}

func TestApply_Block_LandsOnActor(t *testing.T) {
	player, enemy, ctx := testSetup()

	Apply(types.CardEffect{Type: types.EffectBlock, Value: 4, Target: types.TargetSelf}, ctx)
	if player.Block != 4 {
		t.Errorf("expected player block 4, got %d", player.Block)
	}
	if enemy.Block != 0 {
		t.Errorf("enemy block should be untouched, got %d", enemy.Block)
	}
}

func TestApply_Heal_ClampsToMax(t *testing.T) {
	player, _, ctx := testSetup()

	Apply(types.CardEffect{Type: types.EffectHeal, Value: 10, Target: types.TargetSelf}, ctx)
	if player.Health != 60 {
		t.Errorf("expected 60, got %d", player.Health)
	}
	Apply(types.CardEffect{Type: types.EffectHeal, Value: 100, Target: types.TargetSelf}, ctx)
	if player.Health != 75 {
		t.Errorf("expected clamp to 75, got %d", player.Health)
	}
}

func TestApply_Energy_ClampsToMax(t *testing.T) {
	player, _, ctx := testSetup()

	Apply(types.CardEffect{Type: types.EffectEnergy, Value: 5, Target: types.TargetSelf}, ctx)
	if player.Energy != 3 {
		t.Errorf("expected energy clamped to 3, got %d", player.Energy)
	}
}

func TestApply_Poison_Stacks(t *testing.T) {
	_, enemy, ctx := testSetup()

	Apply(types.CardEffect{Type: types.EffectPoison, Value: 3, Target: types.TargetEnemy}, ctx)
	Apply(types.CardEffect{Type: types.EffectPoison, Value: 2, Target: types.TargetEnemy}, ctx)
	if got := enemy.Statuses[types.StatusPoison]; got != 5 {
		t.Errorf("expected 5 poison stacks, got %d", got)
	}
}

func TestApply_Draw_UsesCallback(t *testing.T) {
	_, _, ctx := testSetup()
	requested := 0
	ctx.Draw = func(n int) int {
		requested = n
		return 1
	}

	out := Apply(types.CardEffect{Type: types.EffectDraw, Value: 2, Target: types.TargetSelf}, ctx)
	if requested != 2 {
		t.Errorf("expected draw of 2, got %d", requested)
	}
	if out.Events[0].Data["drawn"] != 1 {
		t.Errorf("expected drawn=1 in event, got %v", out.Events[0].Data["drawn"])
	}
}

func TestApply_Draw_NilCallback(t *testing.T) {
	_, _, ctx := testSetup()
	out := Apply(types.CardEffect{Type: types.EffectDraw, Value: 2, Target: types.TargetSelf}, ctx)
	if out.Events[0].Data["drawn"] != 0 {
		t.Errorf("expected drawn=0 without piles, got %v", out.Events[0].Data["drawn"])
	}
}

func TestApply_UnknownType_Ignored(t *testing.T) {
	player, enemy, ctx := testSetup()
	before, beforeEnemy := *player, *enemy

	out := Apply(types.CardEffect{Type: "teleport", Value: 9}, ctx)
	if len(out.Events) != 0 {
		t.Errorf("expected no events, got %v", out.Events)
	}
	if player.Health != before.Health || enemy.Health != beforeEnemy.Health {
		t.Error("unknown effect should not mutate characters")
	}
}

func TestTickStatuses_PoisonDecays(t *testing.T) {
	c := &types.Character{Health: 20, MaxHealth: 20}
	AddStatus(c, types.StatusPoison, 3)

	wantHealth := []int{17, 15, 14, 14}
	for i, want := range wantHealth {
		TickStatuses(c)
		if c.Health != want {
			t.Fatalf("tick %d: expected health %d, got %d", i, want, c.Health)
		}
	}
	if c.Statuses[types.StatusPoison] != 0 {
		t.Errorf("expected poison to wear off, got %d", c.Statuses[types.StatusPoison])
	}
}

func TestTickStatuses_IgnoresBlock(t *testing.T) {
	c := &types.Character{Health: 10, MaxHealth: 10, Block: 50}
	AddStatus(c, types.StatusPoison, 4)
	if lost := TickStatuses(c); lost != 4 {
		t.Errorf("expected 4 poison damage, got %d", lost)
	}
	if c.Block != 50 {
		t.Errorf("poison should not touch block, got %d", c.Block)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		effs []types.CardEffect
		want string
	}{
		{[]types.CardEffect{{Type: types.EffectDamage, Value: 5, Target: types.TargetEnemy}}, "Deal 5 damage."},
		{[]types.CardEffect{{Type: types.EffectBlock, Value: 4, Target: types.TargetSelf}}, "Gain 4 Block."},
		{[]types.CardEffect{{Type: types.EffectDraw, Value: 1, Target: types.TargetSelf}}, "Draw 1 card."},
		{[]types.CardEffect{
			{Type: types.EffectDraw, Value: 1, Target: types.TargetSelf},
			{Type: types.EffectEnergy, Value: 1, Target: types.TargetSelf},
		}, "Draw 1 card. Gain 1 energy."},
		{[]types.CardEffect{{Type: types.EffectPoison, Value: 3, Target: types.TargetEnemy}}, "Apply 3 poison."},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := Describe(tt.effs); got != tt.want {
			t.Errorf("Describe(%v) = %q, want %q", tt.effs, got, tt.want)
		}
	}
}
