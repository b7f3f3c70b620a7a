// Package config loads the YAML tuning file that controls battle and map
// numbers. Anything left out of the file keeps its default.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/chainspire/engine/battle"
	"github.com/nathoo/chainspire/engine/mapgen"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Enemy AI names accepted by battle.enemy_ai.
const (
	AIAlternating = "alternating"
	AIAttackTable = "attack_table"
)

// Config is the full tuning surface.
type Config struct {
	Player PlayerConfig  `yaml:"player"`
	Battle BattleConfig  `yaml:"battle"`
	Map    mapgen.Config `yaml:"map"`
}

type PlayerConfig struct {
	Health    int `yaml:"health"`
	MaxEnergy int `yaml:"max_energy"`
	HandSize  int `yaml:"hand_size"`
}

type BattleConfig struct {
	EnemyAI     string `yaml:"enemy_ai"`
	EnemyAttack int    `yaml:"enemy_attack"`
	EnemyBlock  int    `yaml:"enemy_block"`
}

// Default returns the standard game tuning.
func Default() Config {
	return Config{
		Player: PlayerConfig{
			Health:    battle.DefaultPlayerHealth,
			MaxEnergy: battle.DefaultMaxEnergy,
			HandSize:  battle.DefaultHandSize,
		},
		Battle: BattleConfig{
			EnemyAI:     AIAlternating,
			EnemyAttack: battle.DefaultEnemyAttack,
			EnemyBlock:  battle.DefaultEnemyBlock,
		},
		Map: mapgen.DefaultConfig(),
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field, wrapping problems in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.Player.Health < 1:
		return fmt.Errorf("%w: player health must be positive, got %d", ErrInvalidConfig, c.Player.Health)
	case c.Player.MaxEnergy < 1:
		return fmt.Errorf("%w: max energy must be positive, got %d", ErrInvalidConfig, c.Player.MaxEnergy)
	case c.Player.HandSize < 1:
		return fmt.Errorf("%w: hand size must be positive, got %d", ErrInvalidConfig, c.Player.HandSize)
	case c.Battle.EnemyAttack < 0 || c.Battle.EnemyBlock < 0:
		return fmt.Errorf("%w: enemy attack and block must not be negative", ErrInvalidConfig)
	}
	switch c.Battle.EnemyAI {
	case AIAlternating, AIAttackTable:
	default:
		return fmt.Errorf("%w: unknown enemy ai %q", ErrInvalidConfig, c.Battle.EnemyAI)
	}
	if err := c.Map.Check(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Marshal renders the config as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
