// Package engine provides the run orchestrator: the phase machine that walks
// a player from deck choice across the map, through battles and rest sites,
// to the boss and the fusion reward. Step() parses a text command and
// dispatches it; the typed methods are the same operations for programmatic
// callers.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/nathoo/chainspire/config"
	"github.com/nathoo/chainspire/engine/battle"
	"github.com/nathoo/chainspire/engine/fusion"
	"github.com/nathoo/chainspire/engine/mapgen"
	"github.com/nathoo/chainspire/engine/rng"
	"github.com/nathoo/chainspire/engine/state"
	"github.com/nathoo/chainspire/types"
)

var (
	ErrWrongPhase   = errors.New("not allowed in this phase")
	ErrUnknownDeck  = errors.New("unknown deck")
	ErrUnknownEnemy = errors.New("unknown enemy")
	ErrBadIndex     = errors.New("index out of range")
	ErrUnplayable   = errors.New("card cannot be played")
)

// Engine holds the game definitions and mutable run state.
type Engine struct {
	Defs   *state.Defs
	Config config.Config
	State  *types.RunState
	RNG    *rng.RNG
	Log    *slog.Logger

	battle *battle.Battle
}

// New creates an engine waiting for a deck choice.
func New(defs *state.Defs, cfg config.Config, seed int64) *Engine {
	return &Engine{
		Defs:   defs,
		Config: cfg,
		State:  state.NewRunState(seed),
		RNG:    rng.New(seed),
		Log:    slog.New(slog.DiscardHandler),
	}
}

// Phase returns the current run phase.
func (e *Engine) Phase() types.Phase {
	return e.State.Phase
}

// Progress returns a deep copy of the run bookkeeping.
func (e *Engine) Progress() types.GameProgress {
	return state.CloneProgress(e.State.Progress)
}

// Battle returns a copy of the battle in progress, or nil outside a battle.
func (e *Engine) Battle() *types.BattleState {
	if e.battle == nil {
		return nil
	}
	s := e.battle.State()
	return &s
}

// CurrentEnemy returns the definition of the enemy being fought.
func (e *Engine) CurrentEnemy() (types.Enemy, bool) {
	if e.battle == nil {
		return types.Enemy{}, false
	}
	en, ok := e.Defs.Enemies[e.State.EnemyID]
	return en, ok
}

// Outcome returns the run summary once the run is complete.
func (e *Engine) Outcome() *types.RunOutcome {
	if e.State.Phase != types.PhaseComplete {
		return nil
	}
	out := &types.RunOutcome{
		Victory:          e.State.Victory,
		Gold:             e.State.Progress.Gold,
		CompletedBattles: e.State.Progress.CompletedBattles,
	}
	if e.State.FusionCard != nil {
		c := *e.State.FusionCard
		out.FusionCard = &c
	}
	return out
}

// ChooseDeck starts the run with a copy of the named deck and a fresh map.
func (e *Engine) ChooseDeck(id string) (types.Result, error) {
	var result types.Result
	if err := e.requirePhase(types.PhaseDeckSelection); err != nil {
		return result, err
	}
	deck, ok := e.Defs.Decks[id]
	if !ok {
		return result, fmt.Errorf("%w: %s", ErrUnknownDeck, id)
	}

	m, err := mapgen.Generate(state.MapConfig(e.Defs, e.Config.Map), e.RNG)
	if err != nil {
		return result, fmt.Errorf("generating map: %w", err)
	}
	cards := state.InstantiateDeck(deck, e.RNG)

	e.State.DeckID = id
	e.State.Progress = state.NewProgress(cards, m, e.Config.Player.Health, e.Config.Player.MaxEnergy)
	e.setPhase(types.PhaseMap)

	result.Events = append(result.Events, types.Event{
		Type: "deck_chosen",
		Data: map[string]any{"deck": id, "cards": len(cards)},
	})
	result.Output = append(result.Output, fmt.Sprintf("You take up the %s deck (%d cards).", deck.Name, len(cards)))
	result.Output = append(result.Output, e.describeMap()...)
	e.sync()
	return result, nil
}

// SelectNode moves to a child of the current node and enters its encounter.
func (e *Engine) SelectNode(id string) (types.Result, error) {
	var result types.Result
	if err := e.requirePhase(types.PhaseMap); err != nil {
		return result, err
	}

	m, err := mapgen.SelectNode(e.State.Progress.Map, id)
	if err != nil {
		return result, err
	}
	node := m.Nodes[id]

	if node.Type == types.NodeRest {
		e.State.Progress.Map = m
		before := e.State.Progress.Player.Health
		e.State.Progress.Player = mapgen.RestSiteHeal(e.State.Progress.Player)
		healed := e.State.Progress.Player.Health - before
		e.setPhase(types.PhaseRest)

		result.Events = append(result.Events, types.Event{
			Type: "rested",
			Data: map[string]any{"node": id, "healed": healed},
		})
		result.Output = append(result.Output,
			fmt.Sprintf("You rest by the node's glow and recover %d HP (%d/%d).",
				healed, e.State.Progress.Player.Health, e.State.Progress.Player.MaxHealth))
		e.sync()
		return result, nil
	}

	enemy, ok := e.Defs.Enemies[node.EnemyID]
	if !ok {
		return result, fmt.Errorf("%w: %s", ErrUnknownEnemy, node.EnemyID)
	}
	b, err := battle.New(e.State.Progress.Deck, e.battleOptions(e.State.Progress.Player, enemy), e.RNG)
	if err != nil {
		return result, fmt.Errorf("starting battle: %w", err)
	}

	e.State.Progress.Map = m
	e.State.EnemyID = enemy.ID
	e.battle = b
	e.setPhase(types.PhaseBattle)

	result.Events = append(result.Events, types.Event{
		Type: "battle_started",
		Data: map[string]any{"node": id, "enemy": enemy.ID, "tier": string(enemy.Tier)},
	})
	result.Events = append(result.Events, b.Events()...)
	result.Output = append(result.Output, fmt.Sprintf("%s blocks the way! (%d HP)", enemy.Name, enemy.Health))
	result.Output = append(result.Output, e.describeBattle()...)
	e.sync()
	return result, nil
}

// PlayCard plays the card at a zero-based hand index.
func (e *Engine) PlayCard(index int) (types.Result, error) {
	var result types.Result
	if err := e.requirePhase(types.PhaseBattle); err != nil {
		return result, err
	}
	s := e.battle.State()
	if index < 0 || index >= len(s.Hand) {
		return result, fmt.Errorf("%w: hand has %d cards", ErrBadIndex, len(s.Hand))
	}
	card := s.Hand[index]
	if !e.battle.PlayCard(index) {
		return result, fmt.Errorf("%w: %s costs %d, you have %d energy",
			ErrUnplayable, card.Name, card.Energy, s.Player.Energy)
	}

	evts := e.battle.Events()
	result.Events = append(result.Events, evts...)
	result.Output = append(result.Output, fmt.Sprintf("You play %s.", card.Name))
	result.Output = append(result.Output, e.narrate(evts)...)
	e.afterBattleAction(&result)
	e.sync()
	return result, nil
}

// EndTurn ends the player's turn; the enemy acts and a new hand is drawn.
func (e *Engine) EndTurn() (types.Result, error) {
	var result types.Result
	if err := e.requirePhase(types.PhaseBattle); err != nil {
		return result, err
	}
	e.battle.EndTurn()

	evts := e.battle.Events()
	result.Events = append(result.Events, evts...)
	result.Output = append(result.Output, e.narrate(evts)...)
	e.afterBattleAction(&result)
	e.sync()
	return result, nil
}

// Continue leaves a rest site.
func (e *Engine) Continue() (types.Result, error) {
	var result types.Result
	if err := e.requirePhase(types.PhaseRest); err != nil {
		return result, err
	}
	e.setPhase(types.PhaseMap)
	result.Output = append(result.Output, e.describeMap()...)
	e.sync()
	return result, nil
}

// Fuse combines two deck cards (zero-based indices) into a fusion card,
// adds it to the deck and completes the run.
func (e *Engine) Fuse(i, j int) (types.Result, error) {
	var result types.Result
	if err := e.requirePhase(types.PhaseFusion); err != nil {
		return result, err
	}
	deck := e.State.Progress.Deck
	if i < 0 || i >= len(deck) || j < 0 || j >= len(deck) {
		return result, fmt.Errorf("%w: deck has %d cards", ErrBadIndex, len(deck))
	}
	card, err := fusion.Fuse(deck[i], deck[j], e.RNG.NewID())
	if err != nil {
		return result, err
	}

	e.State.Progress.Deck = append(e.State.Progress.Deck, card)
	e.State.FusionCard = &card
	e.finish(true)

	result.Events = append(result.Events, types.Event{
		Type: "card_fused",
		Data: map[string]any{"card": card.Name, "id": card.ID, "parents": card.ParentCards},
	})
	result.Output = append(result.Output,
		fmt.Sprintf("Forged %s [%s %s, %d energy]: %s",
			card.Name, card.Rarity, card.Type, card.Energy, card.Description))
	result.Output = append(result.Output, e.describeOutcome()...)
	e.sync()
	return result, nil
}

// SkipFusion completes the run without forging a card.
func (e *Engine) SkipFusion() (types.Result, error) {
	var result types.Result
	if err := e.requirePhase(types.PhaseFusion); err != nil {
		return result, err
	}
	e.finish(true)
	result.Output = append(result.Output, e.describeOutcome()...)
	e.sync()
	return result, nil
}

// afterBattleAction settles a finished battle: rewards and the next phase.
func (e *Engine) afterBattleAction(result *types.Result) {
	res := e.battle.Result()
	if res == nil {
		return
	}

	enemy := e.Defs.Enemies[e.State.EnemyID]
	bs := e.battle.State()
	e.battle = nil
	e.State.EnemyID = ""

	if !res.Victory {
		e.State.Progress.Player.Health = bs.Player.Health
		e.finish(false)
		result.Output = append(result.Output, fmt.Sprintf("You fall to %s after %d turns.", enemy.Name, res.TurnsPlayed))
		result.Output = append(result.Output, e.describeOutcome()...)
		return
	}

	e.State.Progress.Player = carryOver(e.State.Progress.Player, bs.Player)
	gold := ProcessReward(&e.State.Progress, enemy)

	result.Events = append(result.Events, types.Event{
		Type: "reward",
		Data: map[string]any{"enemy": enemy.ID, "gold": gold},
	})
	result.Output = append(result.Output,
		fmt.Sprintf("%s is defeated in %d turns. You found %d gold.", enemy.Name, res.TurnsPlayed, gold))

	if e.State.Progress.Map.CurrentNodeID == e.State.Progress.Map.BossNodeID {
		e.setPhase(types.PhaseFusion)
		result.Output = append(result.Output, e.describeFusion()...)
		return
	}
	e.setPhase(types.PhaseMap)
	result.Output = append(result.Output, e.describeMap()...)
}

// carryOver keeps the battle's health and resets everything else. A player
// that won while falling to zero in the same turn keeps 1 HP.
func carryOver(before, after types.Character) types.Character {
	before.Health = max(after.Health, 1)
	before.Block = 0
	before.Energy = before.MaxEnergy
	before.Statuses = types.Statuses{}
	return before
}

func (e *Engine) battleOptions(player types.Character, enemy types.Enemy) battle.Options {
	opts := battle.Options{
		PlayerHealth:    player.Health,
		PlayerMaxHealth: player.MaxHealth,
		MaxEnergy:       player.MaxEnergy,
		HandSize:        e.Config.Player.HandSize,
		EnemyHealth:     enemy.Health,
		EnemyMaxHealth:  enemy.MaxHealth,
	}
	if e.Config.Battle.EnemyAI == config.AIAttackTable {
		opts.AI = battle.AttackTable{Attacks: enemy.Attacks}
	} else {
		opts.AI = battle.Alternating{Attack: e.Config.Battle.EnemyAttack, Block: e.Config.Battle.EnemyBlock}
	}
	return opts
}

// BattleSnapshot returns the in-flight battle for saving, or nil.
func (e *Engine) BattleSnapshot() *battle.Snapshot {
	if e.battle == nil {
		return nil
	}
	snap := e.battle.Snapshot()
	return &snap
}

// Resume replaces the run with rs, with the RNG at rs.RNGPosition. When snap
// is non-nil the battle against rs.EnemyID resumes from it. Nothing on the
// engine changes unless every part restores.
func (e *Engine) Resume(rs *types.RunState, snap *battle.Snapshot) error {
	r := rng.Restore(rs.Seed, rs.RNGPosition)
	var b *battle.Battle
	if snap != nil {
		enemy, ok := e.Defs.Enemies[rs.EnemyID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownEnemy, rs.EnemyID)
		}
		var err error
		b, err = battle.Restore(*snap, e.battleOptions(rs.Progress.Player, enemy), r)
		if err != nil {
			return fmt.Errorf("restoring battle: %w", err)
		}
	} else {
		rs.EnemyID = ""
	}

	e.State = rs
	e.RNG = r
	e.battle = b
	return nil
}

func (e *Engine) requirePhase(p types.Phase) error {
	if e.State.Phase != p {
		return fmt.Errorf("%w: in %s, need %s", ErrWrongPhase, e.State.Phase, p)
	}
	return nil
}

func (e *Engine) setPhase(p types.Phase) {
	if e.State.Phase == p {
		return
	}
	e.Log.Debug("phase change", "from", e.State.Phase, "to", p,
		"gold", e.State.Progress.Gold, "health", e.State.Progress.Player.Health)
	e.State.Phase = p
}

func (e *Engine) finish(victory bool) {
	e.State.Victory = victory
	e.setPhase(types.PhaseComplete)
}

// sync records the RNG position for save/load.
func (e *Engine) sync() {
	e.State.RNGPosition = e.RNG.Position()
}
