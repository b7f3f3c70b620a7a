// Package effects implements centralized combatant mutation via the Apply function.
// Every effect type is one atomic operation. No targeting logic in effects:
// callers resolve the actor and target characters before calling Apply.
package effects

import (
	"fmt"
	"strings"

	"github.com/nathoo/chainspire/types"
)

// Context carries the resolved actor and target of one effect.
type Context struct {
	Actor      *types.Character
	Target     *types.Character
	ActorName  string // "player" or "enemy"
	TargetName string
	// Draw draws n cards for the actor and returns how many were drawn.
	// May be nil when the actor has no piles (the enemy).
	Draw func(n int) int
}

// Outcome reports what an applied effect did.
type Outcome struct {
	HealthLoss int // health removed from the target by damage
	Events     []types.Event
}

// ValidTypes lists the known effect types.
var ValidTypes = map[types.EffectType]bool{
	types.EffectDamage: true,
	types.EffectBlock:  true,
	types.EffectDraw:   true,
	types.EffectEnergy: true,
	types.EffectPoison: true,
	types.EffectHeal:   true,
}

// ValidTargets lists the known effect targets.
var ValidTargets = map[types.EffectTarget]bool{
	types.TargetSelf:  true,
	types.TargetEnemy: true,
	types.TargetAll:   true,
}

// DamageCalc resolves an incoming hit of value against block.
// Block absorbs first: loss = max(0, value-block), remaining block = max(0, block-value).
func DamageCalc(value, block int) (loss, remainingBlock int) {
	loss = value - block
	if loss < 0 {
		loss = 0
	}
	remainingBlock = block - value
	if remainingBlock < 0 {
		remainingBlock = 0
	}
	return loss, remainingBlock
}

// ApplyDamage hits c for value through its block and returns the health lost.
// Health may go below zero; callers check for defeat.
func ApplyDamage(c *types.Character, value int) int {
	loss, block := DamageCalc(value, c.Block)
	c.Block = block
	c.Health -= loss
	return loss
}

// Apply applies a single effect, mutating the characters in ctx.
func Apply(eff types.CardEffect, ctx Context) Outcome {
	var out Outcome

	switch eff.Type {
	case types.EffectDamage:
		out.HealthLoss = ApplyDamage(ctx.Target, eff.Value)
		out.Events = append(out.Events, types.Event{
			Type: "damaged",
			Data: map[string]any{"target": ctx.TargetName, "amount": out.HealthLoss, "remaining": ctx.Target.Health},
		})

	case types.EffectBlock:
		ctx.Actor.Block += eff.Value
		out.Events = append(out.Events, types.Event{
			Type: "block_gained",
			Data: map[string]any{"target": ctx.ActorName, "amount": eff.Value, "block": ctx.Actor.Block},
		})

	case types.EffectHeal:
		ctx.Actor.Health += eff.Value
		if ctx.Actor.Health > ctx.Actor.MaxHealth {
			ctx.Actor.Health = ctx.Actor.MaxHealth
		}
		out.Events = append(out.Events, types.Event{
			Type: "healed",
			Data: map[string]any{"target": ctx.ActorName, "amount": eff.Value, "current": ctx.Actor.Health},
		})

	case types.EffectPoison:
		AddStatus(ctx.Target, types.StatusPoison, eff.Value)
		out.Events = append(out.Events, types.Event{
			Type: "poisoned",
			Data: map[string]any{"target": ctx.TargetName, "stacks": ctx.Target.Statuses[types.StatusPoison]},
		})

	case types.EffectEnergy:
		ctx.Actor.Energy += eff.Value
		if ctx.Actor.Energy > ctx.Actor.MaxEnergy {
			ctx.Actor.Energy = ctx.Actor.MaxEnergy
		}
		out.Events = append(out.Events, types.Event{
			Type: "energy_gained",
			Data: map[string]any{"target": ctx.ActorName, "energy": ctx.Actor.Energy},
		})

	case types.EffectDraw:
		drawn := 0
		if ctx.Draw != nil {
			drawn = ctx.Draw(eff.Value)
		}
		out.Events = append(out.Events, types.Event{
			Type: "cards_drawn",
			Data: map[string]any{"target": ctx.ActorName, "requested": eff.Value, "drawn": drawn},
		})

	default:
		// Unknown effect types are ignored.
	}

	return out
}

// AddStatus adds stacks of a status to c.
func AddStatus(c *types.Character, kind types.StatusKind, stacks int) {
	if c.Statuses == nil {
		c.Statuses = types.Statuses{}
	}
	c.Statuses[kind] += stacks
}

// TickStatuses applies start-of-round status damage to c: poison deals its
// stack count and then loses one stack. Returns the health lost.
func TickStatuses(c *types.Character) int {
	stacks := c.Statuses[types.StatusPoison]
	if stacks <= 0 {
		return 0
	}
	c.Health -= stacks
	c.Statuses[types.StatusPoison] = stacks - 1
	if c.Statuses[types.StatusPoison] == 0 {
		delete(c.Statuses, types.StatusPoison)
	}
	return stacks
}

// Describe renders effects as card text, e.g. "Deal 8 damage. Gain 4 Block.".
func Describe(effs []types.CardEffect) string {
	parts := make([]string, 0, len(effs))
	for _, e := range effs {
		parts = append(parts, describeOne(e))
	}
	return strings.Join(parts, " ")
}

func describeOne(e types.CardEffect) string {
	switch e.Type {
	case types.EffectDamage:
		if e.Target == types.TargetSelf {
			return fmt.Sprintf("Take %d damage.", e.Value)
		}
		return fmt.Sprintf("Deal %d damage.", e.Value)
	case types.EffectBlock:
		return fmt.Sprintf("Gain %d Block.", e.Value)
	case types.EffectDraw:
		if e.Value == 1 {
			return "Draw 1 card."
		}
		return fmt.Sprintf("Draw %d cards.", e.Value)
	case types.EffectEnergy:
		return fmt.Sprintf("Gain %d energy.", e.Value)
	case types.EffectPoison:
		if e.Target == types.TargetSelf {
			return fmt.Sprintf("Suffer %d poison.", e.Value)
		}
		return fmt.Sprintf("Apply %d poison.", e.Value)
	case types.EffectHeal:
		return fmt.Sprintf("Heal %d HP.", e.Value)
	default:
		return fmt.Sprintf("%s %d.", e.Type, e.Value)
	}
}
