// Package battle resolves a single card battle between the player and one
// enemy. A Battle exclusively owns its state; every accessor returns a copy.
package battle

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/nathoo/chainspire/engine/effects"
	"github.com/nathoo/chainspire/engine/rng"
	"github.com/nathoo/chainspire/types"
)

// Battle defaults.
const (
	DefaultPlayerHealth = 75
	DefaultMaxEnergy    = 3
	DefaultHandSize     = 5
	DefaultEnemyHealth  = 20
)

var (
	ErrEmptyDeck = errors.New("battle deck is empty")
	ErrNilRNG    = errors.New("battle requires a random source")
	ErrSnapshot  = errors.New("invalid battle snapshot")
)

// Options configures a new battle. Zero fields take the defaults.
type Options struct {
	PlayerHealth    int
	PlayerMaxHealth int // defaults to PlayerHealth
	MaxEnergy       int
	HandSize        int
	EnemyHealth     int
	EnemyMaxHealth  int // defaults to EnemyHealth
	AI              EnemyAI
}

// DefaultOptions returns the standard battle setup.
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.PlayerHealth <= 0 {
		o.PlayerHealth = DefaultPlayerHealth
	}
	if o.PlayerMaxHealth < o.PlayerHealth {
		o.PlayerMaxHealth = o.PlayerHealth
	}
	if o.MaxEnergy <= 0 {
		o.MaxEnergy = DefaultMaxEnergy
	}
	if o.HandSize <= 0 {
		o.HandSize = DefaultHandSize
	}
	if o.EnemyHealth <= 0 {
		o.EnemyHealth = DefaultEnemyHealth
	}
	if o.EnemyMaxHealth < o.EnemyHealth {
		o.EnemyMaxHealth = o.EnemyHealth
	}
	if o.AI == nil {
		o.AI = DefaultAI()
	}
	return o
}

// Battle holds one battle's mutable state.
type Battle struct {
	state  types.BattleState
	tally  types.BattleResult
	result *types.BattleResult // frozen once either side falls
	opts   Options
	rng    *rng.RNG
	events []types.Event
}

// New starts a battle: full-health player with full energy, the deck
// shuffled into the draw pile, and an opening hand drawn.
func New(deck []types.Card, opts Options, r *rng.RNG) (*Battle, error) {
	if len(deck) == 0 {
		return nil, ErrEmptyDeck
	}
	if r == nil {
		return nil, ErrNilRNG
	}
	opts = opts.withDefaults()

	b := &Battle{
		opts: opts,
		rng:  r,
		state: types.BattleState{
			Player: types.Character{
				Health:    opts.PlayerHealth,
				MaxHealth: opts.PlayerMaxHealth,
				Energy:    opts.MaxEnergy,
				MaxEnergy: opts.MaxEnergy,
				Statuses:  types.Statuses{},
			},
			Enemy: types.Character{
				Health:    opts.EnemyHealth,
				MaxHealth: opts.EnemyMaxHealth,
				Statuses:  types.Statuses{},
			},
			Deck:        cloneCards(deck),
			Hand:        make([]types.Card, 0, opts.HandSize),
			DiscardPile: []types.Card{},
			Turn:        1,
		},
	}

	b.state.DrawPile = cloneCards(deck)
	rng.Shuffle(b.rng, b.state.DrawPile)
	b.draw(opts.HandSize)
	b.refreshIntent()

	return b, nil
}

// PlayCard plays the card at index in the hand. It returns false, leaving
// the battle untouched, when the battle is over, the index is out of range,
// or the player cannot pay the card's energy cost.
func (b *Battle) PlayCard(index int) bool {
	if b.result != nil || index < 0 || index >= len(b.state.Hand) {
		return false
	}
	card := b.state.Hand[index]
	if b.state.Player.Energy < card.Energy {
		return false
	}

	b.state.Hand = slices.Delete(b.state.Hand, index, index+1)
	b.state.DiscardPile = append(b.state.DiscardPile, card)
	b.state.Player.Energy -= card.Energy

	b.emit("card_played", map[string]any{"card": card.Name, "id": card.ID, "energy": card.Energy})
	for _, eff := range card.Effects {
		b.applyCardEffect(eff)
	}
	b.tally.CardsPlayed++

	b.checkResult()
	return true
}

// applyCardEffect resolves one effect with the player as the actor. The
// target tag picks who receives it: self is the player, enemy and all are the
// opposing side, which in a one-on-one battle is the enemy. Earlier builds
// sent all to the player; all now always means every opposing combatant.
func (b *Battle) applyCardEffect(eff types.CardEffect) {
	ctx := effects.Context{
		Actor:      &b.state.Player,
		ActorName:  "player",
		Target:     &b.state.Enemy,
		TargetName: "enemy",
		Draw:       b.draw,
	}
	if eff.Target == types.TargetSelf {
		ctx.Target = &b.state.Player
		ctx.TargetName = "player"
	}

	out := effects.Apply(eff, ctx)
	if eff.Type == types.EffectDamage {
		if ctx.TargetName == "enemy" {
			b.tally.DamageDealt += out.HealthLoss
		} else {
			b.tally.DamageTaken += out.HealthLoss
		}
	}
	b.events = append(b.events, out.Events...)
}

// EndTurn runs the enemy's turn, ticks statuses, refreshes the player and
// draws a new hand. It does nothing once the battle is over.
func (b *Battle) EndTurn() {
	if b.result != nil {
		return
	}

	b.enemyTurn()

	if lost := effects.TickStatuses(&b.state.Enemy); lost > 0 {
		b.emit("poison_tick", map[string]any{"target": "enemy", "amount": lost})
	}
	if lost := effects.TickStatuses(&b.state.Player); lost > 0 {
		b.emit("poison_tick", map[string]any{"target": "player", "amount": lost})
	}

	// Enemy block carries over; only the player's resets.
	b.state.Player.Energy = b.state.Player.MaxEnergy
	b.state.Player.Block = 0

	b.state.DiscardPile = append(b.state.DiscardPile, b.state.Hand...)
	b.state.Hand = make([]types.Card, 0, b.opts.HandSize)
	b.draw(b.opts.HandSize)

	b.state.Turn++
	b.tally.TurnsPlayed = b.state.Turn
	b.refreshIntent()

	b.checkResult()
}

// enemyTurn resolves the scripted move for the current turn.
func (b *Battle) enemyTurn() {
	m := b.opts.AI.Move(b.state.Turn)

	if m.Damage > 0 {
		loss := effects.ApplyDamage(&b.state.Player, m.Damage)
		b.tally.DamageTaken += loss
		b.emit("enemy_attacked", map[string]any{"amount": m.Damage, "loss": loss, "name": m.Intent.Name})
	}
	if m.Block > 0 {
		b.state.Enemy.Block += m.Block
		b.emit("enemy_blocked", map[string]any{"amount": m.Block, "block": b.state.Enemy.Block})
	}
	if m.Poison > 0 {
		effects.AddStatus(&b.state.Player, types.StatusPoison, m.Poison)
		b.emit("poisoned", map[string]any{"target": "player", "stacks": b.state.Player.Statuses[types.StatusPoison]})
	}
}

func (b *Battle) refreshIntent() {
	intent := b.opts.AI.Move(b.state.Turn).Intent
	b.state.EnemyIntent = &intent
}

// checkResult freezes the result the first time either side reaches zero.
// Simultaneous defeat counts as a victory: the enemy's health decides.
func (b *Battle) checkResult() {
	if b.result != nil {
		return
	}
	if b.state.Player.Health > 0 && b.state.Enemy.Health > 0 {
		return
	}
	r := b.tally
	r.Victory = b.state.Enemy.Health <= 0
	b.result = &r
	if r.Victory {
		b.emit("battle_won", map[string]any{"turns": r.TurnsPlayed})
	} else {
		b.emit("battle_lost", map[string]any{"turns": r.TurnsPlayed})
	}
}

// State returns a deep copy of the battle state.
func (b *Battle) State() types.BattleState {
	return cloneState(b.state)
}

// Result returns nil while both sides stand, then the frozen result.
func (b *Battle) Result() *types.BattleResult {
	if b.result == nil {
		return nil
	}
	r := *b.result
	return &r
}

// Over reports whether the battle has a result.
func (b *Battle) Over() bool {
	return b.result != nil
}

// Playable returns the hand indices the player can currently afford.
func (b *Battle) Playable() []int {
	if b.result != nil {
		return nil
	}
	var idx []int
	for i, c := range b.state.Hand {
		if c.Energy <= b.state.Player.Energy {
			idx = append(idx, i)
		}
	}
	return idx
}

// LegalActions lists the playable cards as 1-based "play" actions followed
// by "end". Empty once the battle is over.
func (b *Battle) LegalActions() []types.Action {
	if b.result != nil {
		return nil
	}
	var out []types.Action
	for _, i := range b.Playable() {
		c := b.state.Hand[i]
		out = append(out, types.Action{Verb: "play", Arg: strconv.Itoa(i + 1), Label: fmt.Sprintf("%s (%d)", c.Name, c.Energy)})
	}
	return append(out, types.Action{Verb: "end", Label: "End turn"})
}

// Events drains the events emitted since the last call.
func (b *Battle) Events() []types.Event {
	evts := b.events
	b.events = nil
	return evts
}

func (b *Battle) emit(typ string, data map[string]any) {
	b.events = append(b.events, types.Event{Type: typ, Data: data})
}
