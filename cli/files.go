package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/chainspire/engine"
	"github.com/nathoo/chainspire/engine/save"
	"github.com/nathoo/chainspire/report"
	"github.com/nathoo/chainspire/types"
)

var ErrWrongGame = errors.New("save belongs to a different game")

// DefaultSaveDir is ~/.chainspire/saves, or a relative saves directory when
// the home directory is unknown.
func DefaultSaveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "saves"
	}
	return filepath.Join(home, ".chainspire", "saves")
}

// SaveGame writes the run to dir/name.json and returns the path.
func SaveGame(e *engine.Engine, dir, name string) (string, error) {
	if name == "" {
		name = "quicksave"
	}
	data, err := save.Save(e)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// LoadGame reads dir/name.json and applies it to the engine.
func LoadGame(e *engine.Engine, dir, name string) (*save.SaveData, error) {
	if name == "" {
		name = "quicksave"
	}
	data, err := os.ReadFile(filepath.Join(dir, name+".json"))
	if err != nil {
		return nil, err
	}
	sd, err := save.Load(data)
	if err != nil {
		return nil, err
	}
	if sd.Game != "" && sd.Game != e.Defs.Game.Title {
		return nil, fmt.Errorf("%w: %q", ErrWrongGame, sd.Game)
	}
	if err := save.Apply(e, sd); err != nil {
		return nil, err
	}
	return sd, nil
}

// ExportMap writes the run's map as a PDF. An empty path becomes
// chainspire-map.pdf; a missing extension is added.
func ExportMap(e *engine.Engine, path string) (string, error) {
	if e.Phase() == types.PhaseDeckSelection {
		return "", errors.New("no map yet, choose a deck first")
	}
	if path == "" {
		path = "chainspire-map.pdf"
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		path += ".pdf"
	}
	p := e.State.Progress
	title := fmt.Sprintf("Seed %d  HP %d/%d  Gold %d  Battles won %d",
		e.State.Seed, p.Player.Health, p.Player.MaxHealth, p.Gold, p.CompletedBattles)
	data, err := report.MapPDF(p.Map, e.Defs, title)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// StateLines dumps run state for the /state debug command.
func StateLines(e *engine.Engine) []string {
	s := e.State
	p := s.Progress
	lines := []string{
		fmt.Sprintf("Phase: %s", s.Phase),
		fmt.Sprintf("Seed: %d (rng position %d)", s.Seed, e.RNG.Position()),
	}
	if s.Phase == types.PhaseDeckSelection {
		return lines
	}
	lines = append(lines,
		fmt.Sprintf("Deck: %s (%d cards)", s.DeckID, len(p.Deck)),
		fmt.Sprintf("Health: %d/%d  Gold: %d  Battles won: %d", p.Player.Health, p.Player.MaxHealth, p.Gold, p.CompletedBattles),
	)
	if cur, ok := p.Map.Nodes[p.Map.CurrentNodeID]; ok {
		lines = append(lines, fmt.Sprintf("Node: %s (floor %d, %s)", cur.ID, cur.Floor+1, cur.Type))
	}
	if b := e.Battle(); b != nil {
		lines = append(lines, fmt.Sprintf("Battle: turn %d vs %s, enemy %d/%d HP, hand %d, draw %d, discard %d",
			b.Turn, s.EnemyID, b.Enemy.Health, b.Enemy.MaxHealth, len(b.Hand), len(b.DrawPile), len(b.DiscardPile)))
	}
	lines = append(lines, fmt.Sprintf("Commands logged: %d", len(s.CommandLog)))
	return lines
}

// TraceLines formats a result's events for trace output.
func TraceLines(result types.Result) []string {
	if len(result.Events) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("[trace] Events: %d", len(result.Events))}
	for _, ev := range result.Events {
		lines = append(lines, fmt.Sprintf("[trace]   %s %v", ev.Type, ev.Data))
	}
	return lines
}

// HelpLines lists meta-commands and game commands.
func HelpLines() []string {
	lines := []string{"System:"}
	for _, mc := range metaCommands {
		lines = append(lines, fmt.Sprintf("  %-16s %s", mc.usage, mc.help))
	}
	return append(lines,
		"",
		"Game commands:",
		"  deck <name|n>    Choose a starting deck",
		"  go <n>           Walk to a node on the next floor",
		"  play <n|name>    Play a card from your hand",
		"  end              End your turn",
		"  continue         Leave a rest site",
		"  fuse <n> <m>     Fuse two deck cards after the boss",
		"  skip             Skip the fusion",
		"  look / map / hand / deck / actions",
		"  <n>              Pick option n in the current phase",
		"  again (g)        Repeat your last command",
	)
}
