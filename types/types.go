// Package types defines the shared data structures for the ChainSpire engine.
// This package contains only type definitions, no logic and no methods.
package types

// NetworkType is the theme a card or deck originates from.
type NetworkType string

const (
	NetworkEthereum NetworkType = "ethereum"
	NetworkSolana   NetworkType = "solana"
	NetworkBitcoin  NetworkType = "bitcoin"
	NetworkFusion   NetworkType = "fusion"
)

// CardType is the play category of a card.
type CardType string

const (
	CardAttack CardType = "attack"
	CardSkill  CardType = "skill"
	CardPower  CardType = "power"
)

// Rarity is a card's rarity tier.
type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
)

// EffectType is the kind of a card effect.
type EffectType string

const (
	EffectDamage EffectType = "damage"
	EffectBlock  EffectType = "block"
	EffectDraw   EffectType = "draw"
	EffectEnergy EffectType = "energy"
	EffectPoison EffectType = "poison"
	EffectHeal   EffectType = "heal"
)

// EffectTarget names who an effect lands on.
type EffectTarget string

const (
	TargetSelf  EffectTarget = "self"
	TargetEnemy EffectTarget = "enemy"
	TargetAll   EffectTarget = "all"
)

// CardEffect is a pure description of one thing a card does.
type CardEffect struct {
	Type   EffectType   `json:"type"`
	Value  int          `json:"value"`
	Target EffectTarget `json:"target"`
}

// Card is an immutable card value.
type Card struct {
	ID          string       `json:"id"`
	Template    string       `json:"template,omitempty"` // content id the card was minted from
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Origin      NetworkType  `json:"origin"`
	Type        CardType     `json:"type"`
	Rarity      Rarity       `json:"rarity"`
	Energy      int          `json:"energy"`
	Effects     []CardEffect `json:"effects"`
	IsFusion    bool         `json:"is_fusion"`
	ParentCards []string     `json:"parent_cards,omitempty"`
}

// Deck is a named, themed list of cards.
type Deck struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Theme       NetworkType `json:"theme"`
	Description string      `json:"description"`
	Cards       []Card      `json:"cards"`
}

// StatusKind is one of the closed set of status effects.
type StatusKind string

const (
	StatusPoison StatusKind = "poison"
)

// Statuses maps a status kind to its stack count.
type Statuses map[StatusKind]int

// Character is one combatant's mutable battle stats.
type Character struct {
	Health    int      `json:"health"`
	MaxHealth int      `json:"max_health"`
	Block     int      `json:"block"`
	Energy    int      `json:"energy"`
	MaxEnergy int      `json:"max_energy"`
	Statuses  Statuses `json:"statuses"`
}

// IntentType is the kind of action an enemy telegraphs.
type IntentType string

const (
	IntentAttack IntentType = "attack"
	IntentDefend IntentType = "defend"
	IntentBuff   IntentType = "buff"
	IntentDebuff IntentType = "debuff"
)

// EnemyIntent is the enemy's next action, shown to the player.
type EnemyIntent struct {
	Type  IntentType `json:"type"`
	Value int        `json:"value"`
	Name  string     `json:"name,omitempty"`
}

// BattleState is the complete state of one battle.
type BattleState struct {
	Player      Character    `json:"player"`
	Enemy       Character    `json:"enemy"`
	Deck        []Card       `json:"deck"`
	Hand        []Card       `json:"hand"`
	DrawPile    []Card       `json:"draw_pile"`
	DiscardPile []Card       `json:"discard_pile"`
	Turn        int          `json:"turn"`
	EnemyIntent *EnemyIntent `json:"enemy_intent,omitempty"`
}

// BattleResult is the terminal summary of a battle.
type BattleResult struct {
	Victory     bool `json:"victory"`
	TurnsPlayed int  `json:"turns_played"`
	DamageDealt int  `json:"damage_dealt"`
	DamageTaken int  `json:"damage_taken"`
	CardsPlayed int  `json:"cards_played"`
}

// EnemyTier groups enemies for map placement.
type EnemyTier string

const (
	TierNormal EnemyTier = "normal"
	TierElite  EnemyTier = "elite"
	TierBoss   EnemyTier = "boss"
)

// StatusEffect is a side effect attached to an enemy attack.
type StatusEffect struct {
	Type  string `json:"type"` // "poison", "buff", "debuff"
	Value int    `json:"value"`
}

// EnemyAttack is one named entry of an enemy's attack table.
type EnemyAttack struct {
	Name    string         `json:"name"`
	Damage  int            `json:"damage"`
	Effects []StatusEffect `json:"effects,omitempty"`
}

// Enemy is an entry of the enemy data table.
type Enemy struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Tier       EnemyTier     `json:"tier"`
	Health     int           `json:"health"`
	MaxHealth  int           `json:"max_health"`
	Attacks    []EnemyAttack `json:"attacks"`
	GoldReward int           `json:"gold_reward"`
}

// NodeType is the encounter kind of a map node.
type NodeType string

const (
	NodeEnemy NodeType = "enemy"
	NodeElite NodeType = "elite"
	NodeRest  NodeType = "rest"
	NodeBoss  NodeType = "boss"
)

// MapNode is one encounter on the map.
type MapNode struct {
	ID        string   `json:"id"`
	Type      NodeType `json:"type"`
	Floor     int      `json:"floor"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	EnemyID   string   `json:"enemy_id,omitempty"`
	Children  []string `json:"children"`
	Completed bool     `json:"completed"`
	Visited   bool     `json:"visited"`
}

// GameMap is the layered encounter graph of a run.
type GameMap struct {
	Nodes         map[string]MapNode `json:"nodes"`
	Floors        [][]string         `json:"floors"`
	StartNodeID   string             `json:"start_node_id"`
	BossNodeID    string             `json:"boss_node_id"`
	CurrentNodeID string             `json:"current_node_id"` // "" before the first move
}

// Phase is the run-level state.
type Phase string

const (
	PhaseDeckSelection Phase = "deck_selection"
	PhaseMap           Phase = "map"
	PhaseBattle        Phase = "battle"
	PhaseRest          Phase = "rest"
	PhaseFusion        Phase = "fusion"
	PhaseComplete      Phase = "complete"
)

// GameDef is the game-level metadata declared by content.
type GameDef struct {
	Title     string
	Author    string
	Version   string
	Boss      string
	EnemyPool []string
	ElitePool []string
}

// GameProgress is the run-level bookkeeping.
type GameProgress struct {
	Map              GameMap   `json:"map"`
	Player           Character `json:"player"`
	Deck             []Card    `json:"deck"`
	Gold             int       `json:"gold"`
	CompletedBattles int       `json:"completed_battles"`
}

// RunState is the orchestrator's mutable run-level state.
type RunState struct {
	Phase       Phase        `json:"phase"`
	Progress    GameProgress `json:"progress"`
	DeckID      string       `json:"deck_id,omitempty"`
	EnemyID     string       `json:"enemy_id,omitempty"` // enemy of the battle in progress
	FusionCard  *Card        `json:"fusion_card,omitempty"`
	Victory     bool         `json:"victory"`
	Seed        int64        `json:"seed"`
	RNGPosition int64        `json:"rng_position"`
	CommandLog  []string     `json:"command_log"`
}

// RunOutcome summarizes a finished run.
type RunOutcome struct {
	Victory          bool  `json:"victory"`
	Gold             int   `json:"gold"`
	CompletedBattles int   `json:"completed_battles"`
	FusionCard       *Card `json:"fusion_card,omitempty"`
}

// Intent is the parsed representation of a player command.
type Intent struct {
	Verb   string
	Object string // optional
	Target string // optional
}

// Action is one legal next command.
type Action struct {
	Verb  string `json:"verb"`
	Arg   string `json:"arg,omitempty"`
	Label string `json:"label"`
}

// Event records something that happened during a step.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single engine step.
type Result struct {
	Events []Event
	Output []string
}
