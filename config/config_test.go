package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"
)

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Player.Health != 75 || cfg.Player.MaxEnergy != 3 || cfg.Player.HandSize != 5 {
		t.Errorf("unexpected player defaults: %+v", cfg.Player)
	}
	if cfg.Battle.EnemyAI != AIAlternating || cfg.Battle.EnemyAttack != 8 || cfg.Battle.EnemyBlock != 5 {
		t.Errorf("unexpected battle defaults: %+v", cfg.Battle)
	}
	if cfg.Map.Floors != 6 || !slices.Equal(cfg.Map.RestFloors, []int{2, 4}) {
		t.Errorf("unexpected map defaults: %+v", cfg.Map)
	}
}

func TestParse_OverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
player:
  health: 90
battle:
  enemy_ai: attack_table
map:
  floors: 8
  rest_floors: [3, 6]
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Player.Health != 90 || cfg.Player.MaxEnergy != 3 {
		t.Errorf("player = %+v", cfg.Player)
	}
	if cfg.Battle.EnemyAI != AIAttackTable || cfg.Battle.EnemyAttack != 8 {
		t.Errorf("battle = %+v", cfg.Battle)
	}
	if cfg.Map.Floors != 8 || !slices.Equal(cfg.Map.RestFloors, []int{3, 6}) || cfg.Map.ConnectionChance != 0.7 {
		t.Errorf("map = %+v", cfg.Map)
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("empty file should give defaults, got %+v", cfg)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "player:\n  mana: 4\n"},
		{"zero health", "player:\n  health: 0\n"},
		{"bad ai", "battle:\n  enemy_ai: clever\n"},
		{"negative attack", "battle:\n  enemy_attack: -1\n"},
		{"bad map", "map:\n  floors: 1\n"},
		{"chance out of range", "map:\n  connection_chance: 1.2\n"},
		{"not yaml", "player: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("player:\n  hand_size: 6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Player.HandSize != 6 {
		t.Errorf("hand size = %d, want 6", cfg.Player.HandSize)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestMarshal_RoundTrips(t *testing.T) {
	cfg := Default()
	cfg.Player.Health = 60
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse of marshaled config failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, back) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, cfg)
	}
}
