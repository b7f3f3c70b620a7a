package battle

import "github.com/nathoo/chainspire/types"

// Default enemy numbers for the alternating script.
const (
	DefaultEnemyAttack = 8
	DefaultEnemyBlock  = 5
)

// Move is one scripted enemy action.
type Move struct {
	Intent types.EnemyIntent
	Damage int // dealt to the player through block
	Block  int // gained by the enemy
	Poison int // stacks applied to the player
}

// EnemyAI picks the enemy's move for a turn. Implementations must be pure
// functions of the turn so a restored battle replays identically.
type EnemyAI interface {
	Move(turn int) Move
}

// Alternating attacks on even turns and blocks on odd turns.
type Alternating struct {
	Attack int
	Block  int
}

// DefaultAI returns the standard alternating script.
func DefaultAI() Alternating {
	return Alternating{Attack: DefaultEnemyAttack, Block: DefaultEnemyBlock}
}

// Move returns the attack on even turns and the block on odd turns.
func (a Alternating) Move(turn int) Move {
	if turn%2 == 0 {
		return Move{
			Intent: types.EnemyIntent{Type: types.IntentAttack, Value: a.Attack},
			Damage: a.Attack,
		}
	}
	return Move{
		Intent: types.EnemyIntent{Type: types.IntentDefend, Value: a.Block},
		Block:  a.Block,
	}
}

// AttackTable cycles through an enemy's named attacks in order, one per turn.
// Poison effects land on the player, buffs become enemy block, and any other
// status type is ignored.
type AttackTable struct {
	Attacks []types.EnemyAttack
}

// Move returns the attack for the turn. An empty table falls back to the
// alternating script.
func (a AttackTable) Move(turn int) Move {
	if len(a.Attacks) == 0 {
		return DefaultAI().Move(turn)
	}
	idx := (turn - 1) % len(a.Attacks)
	if idx < 0 {
		idx = 0
	}
	atk := a.Attacks[idx]

	m := Move{Damage: atk.Damage}
	for _, eff := range atk.Effects {
		switch eff.Type {
		case string(types.StatusPoison):
			m.Poison += eff.Value
		case "buff":
			m.Block += eff.Value
		}
	}

	switch {
	case m.Damage > 0:
		m.Intent = types.EnemyIntent{Type: types.IntentAttack, Value: m.Damage, Name: atk.Name}
	case m.Block > 0:
		m.Intent = types.EnemyIntent{Type: types.IntentBuff, Value: m.Block, Name: atk.Name}
	default:
		m.Intent = types.EnemyIntent{Type: types.IntentDebuff, Value: m.Poison, Name: atk.Name}
	}
	return m
}
