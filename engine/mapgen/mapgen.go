// Package mapgen builds and walks the layered encounter map: floors of enemy,
// elite and rest nodes leading to a single boss.
package mapgen

import (
	"errors"
	"fmt"
	"slices"

	"github.com/nathoo/chainspire/engine/rng"
	"github.com/nathoo/chainspire/types"
)

var (
	ErrInvalidConfig   = errors.New("invalid map config")
	ErrUnknownNode     = errors.New("unknown map node")
	ErrNodeUnavailable = errors.New("map node is not reachable from the current node")
	ErrInvalidMap      = errors.New("invalid map")
)

// Config controls map shape and encounter placement.
type Config struct {
	Floors           int      `yaml:"floors"`
	MinNodes         int      `yaml:"min_nodes"`
	MaxNodes         int      `yaml:"max_nodes"`
	RestFloors       []int    `yaml:"rest_floors"`
	ConnectionChance float64  `yaml:"connection_chance"`
	EliteChance      float64  `yaml:"elite_chance"`
	EnemyPool        []string `yaml:"enemy_pool"`
	ElitePool        []string `yaml:"elite_pool"`
	Boss             string   `yaml:"boss"`
}

// DefaultConfig returns the standard six-floor map.
func DefaultConfig() Config {
	return Config{
		Floors:           6,
		MinNodes:         2,
		MaxNodes:         4,
		RestFloors:       []int{2, 4},
		ConnectionChance: 0.7,
		EliteChance:      0.3,
		EnemyPool:        []string{"minion", "troll", "ghost"},
		ElitePool:        []string{"elite_miner", "elite_hacker"},
		Boss:             "boss_cryptolord",
	}
}

// Check reports the first problem with the config, wrapped in ErrInvalidConfig.
func (c Config) Check() error {
	switch {
	case c.Floors < 2:
		return fmt.Errorf("%w: need at least 2 floors, got %d", ErrInvalidConfig, c.Floors)
	case c.MinNodes < 1:
		return fmt.Errorf("%w: min nodes must be at least 1, got %d", ErrInvalidConfig, c.MinNodes)
	case c.MinNodes > c.MaxNodes:
		return fmt.Errorf("%w: min nodes %d exceeds max nodes %d", ErrInvalidConfig, c.MinNodes, c.MaxNodes)
	case c.ConnectionChance < 0 || c.ConnectionChance > 1:
		return fmt.Errorf("%w: connection chance %v outside [0,1]", ErrInvalidConfig, c.ConnectionChance)
	case c.EliteChance < 0 || c.EliteChance > 1:
		return fmt.Errorf("%w: elite chance %v outside [0,1]", ErrInvalidConfig, c.EliteChance)
	case len(c.EnemyPool) == 0:
		return fmt.Errorf("%w: enemy pool is empty", ErrInvalidConfig)
	case len(c.ElitePool) == 0 && c.EliteChance > 0:
		return fmt.Errorf("%w: elite pool is empty", ErrInvalidConfig)
	case c.Boss == "":
		return fmt.Errorf("%w: no boss", ErrInvalidConfig)
	}
	for _, f := range c.RestFloors {
		if f < 0 || f >= c.Floors-1 {
			return fmt.Errorf("%w: rest floor %d outside [0,%d)", ErrInvalidConfig, f, c.Floors-1)
		}
	}
	return nil
}

func (c Config) isRest(floor int) bool {
	return slices.Contains(c.RestFloors, floor)
}

// Generate builds a new map. The boss sits alone on the last floor; rest
// floors hold rest sites; every other floor mixes enemies and elites.
func Generate(cfg Config, r *rng.RNG) (types.GameMap, error) {
	if err := cfg.Check(); err != nil {
		return types.GameMap{}, err
	}
	if r == nil {
		return types.GameMap{}, errors.New("map generation requires a random source")
	}

	last := cfg.Floors - 1
	m := types.GameMap{
		Nodes:  make(map[string]types.MapNode),
		Floors: make([][]string, cfg.Floors),
	}

	for floor := 0; floor < cfg.Floors; floor++ {
		boss := floor == last
		rest := cfg.isRest(floor)

		count := 1
		if !boss && !(rest && floor == last-1) {
			count = r.Range(cfg.MinNodes, cfg.MaxNodes)
		}

		for i := 0; i < count; i++ {
			n := types.MapNode{
				ID:       r.NewID(),
				Floor:    floor,
				X:        float64(i+1) / float64(count+1),
				Y:        float64(floor) / float64(last),
				Children: []string{},
			}
			switch {
			case boss:
				n.Type = types.NodeBoss
				n.EnemyID = cfg.Boss
			case rest:
				n.Type = types.NodeRest
			case r.Chance(cfg.EliteChance):
				n.Type = types.NodeElite
				n.EnemyID = rng.Pick(r, cfg.ElitePool)
			default:
				n.Type = types.NodeEnemy
				n.EnemyID = rng.Pick(r, cfg.EnemyPool)
			}
			m.Nodes[n.ID] = n
			m.Floors[floor] = append(m.Floors[floor], n.ID)
		}
	}

	for floor := 0; floor < last; floor++ {
		next := m.Floors[floor+1]
		for _, id := range m.Floors[floor] {
			n := m.Nodes[id]
			switch {
			case floor == last-1:
				n.Children = append(n.Children, next[0])
			case cfg.isRest(floor):
				n.Children = append(n.Children, next...)
			default:
				for _, cand := range next {
					if r.Chance(cfg.ConnectionChance) {
						n.Children = append(n.Children, cand)
					}
				}
				if len(n.Children) == 0 {
					n.Children = append(n.Children, rng.Pick(r, next))
				}
			}
			m.Nodes[id] = n
		}
	}

	m.StartNodeID = m.Floors[0][0]
	m.BossNodeID = m.Floors[last][0]
	m.CurrentNodeID = m.StartNodeID

	start := m.Nodes[m.StartNodeID]
	start.Visited = true
	m.Nodes[m.StartNodeID] = start

	return m, nil
}

// AvailableNodes returns the children of the current node in edge order.
func AvailableNodes(m types.GameMap) []types.MapNode {
	cur, ok := m.Nodes[m.CurrentNodeID]
	if !ok {
		return nil
	}
	out := make([]types.MapNode, 0, len(cur.Children))
	for _, id := range cur.Children {
		if n, ok := m.Nodes[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

// SelectNode moves to id and returns the updated map; m is not modified.
// The previous current node becomes completed and the new one visited. With
// no current node only the start node may be selected.
func SelectNode(m types.GameMap, id string) (types.GameMap, error) {
	target, ok := m.Nodes[id]
	if !ok {
		return types.GameMap{}, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}

	if m.CurrentNodeID == "" {
		if id != m.StartNodeID {
			return types.GameMap{}, fmt.Errorf("%w: %s", ErrNodeUnavailable, id)
		}
	} else if cur := m.Nodes[m.CurrentNodeID]; !slices.Contains(cur.Children, id) {
		return types.GameMap{}, fmt.Errorf("%w: %s", ErrNodeUnavailable, id)
	}

	out := Clone(m)
	if cur, ok := out.Nodes[out.CurrentNodeID]; ok {
		cur.Completed = true
		out.Nodes[cur.ID] = cur
	}
	target = out.Nodes[id]
	target.Visited = true
	out.Nodes[id] = target
	out.CurrentNodeID = id
	return out, nil
}

// RestSiteHeal returns c healed by 30% of its max health (rounded down),
// capped at max.
func RestSiteHeal(c types.Character) types.Character {
	heal := c.MaxHealth * 3 / 10
	c.Health = min(c.Health+heal, c.MaxHealth)
	return c
}

// Validate checks the structural invariants of a map: the start, boss and
// current nodes exist, every non-boss node has at least one existing child,
// the boss has none, and every edge climbs at least one floor.
func Validate(m types.GameMap) error {
	if len(m.Nodes) == 0 {
		return fmt.Errorf("%w: no nodes", ErrInvalidMap)
	}
	if _, ok := m.Nodes[m.StartNodeID]; !ok {
		return fmt.Errorf("%w: start node %q missing", ErrInvalidMap, m.StartNodeID)
	}
	boss, ok := m.Nodes[m.BossNodeID]
	if !ok {
		return fmt.Errorf("%w: boss node %q missing", ErrInvalidMap, m.BossNodeID)
	}
	if len(boss.Children) != 0 {
		return fmt.Errorf("%w: boss node has %d children", ErrInvalidMap, len(boss.Children))
	}
	if m.CurrentNodeID != "" {
		if _, ok := m.Nodes[m.CurrentNodeID]; !ok {
			return fmt.Errorf("%w: current node %q missing", ErrInvalidMap, m.CurrentNodeID)
		}
	}

	for id, n := range m.Nodes {
		if id != n.ID {
			return fmt.Errorf("%w: node keyed %q has id %q", ErrInvalidMap, id, n.ID)
		}
		if id != m.BossNodeID && len(n.Children) == 0 {
			return fmt.Errorf("%w: node %s is a dead end", ErrInvalidMap, id)
		}
		for _, cid := range n.Children {
			child, ok := m.Nodes[cid]
			if !ok {
				return fmt.Errorf("%w: node %s points at missing %s", ErrInvalidMap, id, cid)
			}
			// Strictly climbing floors also rules out cycles.
			if child.Floor <= n.Floor {
				return fmt.Errorf("%w: edge %s -> %s does not climb (floor %d -> %d)",
					ErrInvalidMap, id, cid, n.Floor, child.Floor)
			}
		}
	}

	for f, ids := range m.Floors {
		for _, id := range ids {
			n, ok := m.Nodes[id]
			if !ok {
				return fmt.Errorf("%w: floor %d lists missing node %s", ErrInvalidMap, f, id)
			}
			if n.Floor != f {
				return fmt.Errorf("%w: node %s listed on floor %d but has floor %d", ErrInvalidMap, id, f, n.Floor)
			}
		}
	}
	return nil
}

// Clone returns a deep copy of m.
func Clone(m types.GameMap) types.GameMap {
	out := types.GameMap{
		Nodes:         make(map[string]types.MapNode, len(m.Nodes)),
		StartNodeID:   m.StartNodeID,
		BossNodeID:    m.BossNodeID,
		CurrentNodeID: m.CurrentNodeID,
	}
	for id, n := range m.Nodes {
		n.Children = slices.Clone(n.Children)
		out.Nodes[id] = n
	}
	if m.Floors != nil {
		out.Floors = make([][]string, len(m.Floors))
		for i, f := range m.Floors {
			out.Floors[i] = slices.Clone(f)
		}
	}
	return out
}

// FloorOf returns the floor of node id.
func FloorOf(m types.GameMap, id string) (int, bool) {
	n, ok := m.Nodes[id]
	return n.Floor, ok
}

// IsBossFloor reports whether floor is the map's last floor.
func IsBossFloor(m types.GameMap, floor int) bool {
	return floor == len(m.Floors)-1
}
