// Package save implements JSON serialization and deserialization of a run,
// including a battle in progress and the RNG position.
package save

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nathoo/chainspire/engine"
	"github.com/nathoo/chainspire/engine/battle"
	"github.com/nathoo/chainspire/engine/mapgen"
	"github.com/nathoo/chainspire/types"
)

// FormatVersion is bumped whenever SaveData changes shape.
const FormatVersion = 1

var ErrInvalidSave = errors.New("invalid save")

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Format      int                `json:"format"`
	Version     string             `json:"version"`
	Game        string             `json:"game"`
	Seed        int64              `json:"seed"`
	RNGPosition int64              `json:"rng_position"`
	Phase       types.Phase        `json:"phase"`
	DeckID      string             `json:"deck_id,omitempty"`
	Progress    types.GameProgress `json:"progress"`
	FusionCard  *types.Card        `json:"fusion_card,omitempty"`
	Victory     bool               `json:"victory"`
	Battle      *BattleSave        `json:"battle,omitempty"`
	CommandLog  []string           `json:"command_log"`
}

// BattleSave is a battle in progress.
type BattleSave struct {
	EnemyID string             `json:"enemy_id"`
	State   types.BattleState  `json:"state"`
	Tally   types.BattleResult `json:"tally"`
}

// Save serializes the engine's run to JSON bytes.
func Save(e *engine.Engine) ([]byte, error) {
	s := e.State
	data := SaveData{
		Format:      FormatVersion,
		Version:     e.Defs.Game.Version,
		Game:        e.Defs.Game.Title,
		Seed:        s.Seed,
		RNGPosition: e.RNG.Position(),
		Phase:       s.Phase,
		DeckID:      s.DeckID,
		Progress:    s.Progress,
		FusionCard:  s.FusionCard,
		Victory:     s.Victory,
		CommandLog:  s.CommandLog,
	}
	if snap := e.BattleSnapshot(); snap != nil {
		data.Battle = &BattleSave{EnemyID: s.EnemyID, State: snap.State, Tally: snap.Tally}
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData and checks it is consistent.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSave, err)
	}
	if sd.Format != FormatVersion {
		return nil, fmt.Errorf("%w: format %d, want %d", ErrInvalidSave, sd.Format, FormatVersion)
	}

	switch sd.Phase {
	case types.PhaseDeckSelection:
	case types.PhaseMap, types.PhaseBattle, types.PhaseRest, types.PhaseFusion, types.PhaseComplete:
		if err := mapgen.Validate(sd.Progress.Map); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSave, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown phase %q", ErrInvalidSave, sd.Phase)
	}
	if (sd.Phase == types.PhaseBattle) != (sd.Battle != nil) {
		return nil, fmt.Errorf("%w: battle data does not match phase %s", ErrInvalidSave, sd.Phase)
	}

	// Ensure maps and slices are never nil after load.
	if sd.Progress.Player.Statuses == nil {
		sd.Progress.Player.Statuses = types.Statuses{}
	}
	if sd.CommandLog == nil {
		sd.CommandLog = []string{}
	}
	if sd.Battle != nil {
		if sd.Battle.State.Player.Statuses == nil {
			sd.Battle.State.Player.Statuses = types.Statuses{}
		}
		if sd.Battle.State.Enemy.Statuses == nil {
			sd.Battle.State.Enemy.Statuses = types.Statuses{}
		}
	}
	return &sd, nil
}

// Apply replaces the engine's run with the saved one. The RNG is restored
// at the saved position so the run continues exactly as it would have. On
// error the engine is left as it was.
func Apply(e *engine.Engine, sd *SaveData) error {
	rs := &types.RunState{
		Phase:       sd.Phase,
		Progress:    sd.Progress,
		DeckID:      sd.DeckID,
		FusionCard:  sd.FusionCard,
		Victory:     sd.Victory,
		Seed:        sd.Seed,
		RNGPosition: sd.RNGPosition,
		CommandLog:  sd.CommandLog,
	}
	var snap *battle.Snapshot
	if sd.Battle != nil {
		rs.EnemyID = sd.Battle.EnemyID
		snap = &battle.Snapshot{State: sd.Battle.State, Tally: sd.Battle.Tally}
	}
	return e.Resume(rs, snap)
}
