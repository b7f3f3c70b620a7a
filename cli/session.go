package cli

import (
	"fmt"
	"strings"

	"github.com/nathoo/chainspire/engine"
)

// Line is one line of front-end output. System lines come from
// meta-commands rather than the game itself.
type Line struct {
	Text   string
	System bool
}

// Reply is everything a front end needs to render one input.
type Reply struct {
	Lines []Line
	Quit  bool
}

// Session routes player input to meta-commands or the engine. The line
// CLI and the TUI share it and differ only in how replies are drawn.
type Session struct {
	Engine  *engine.Engine
	SaveDir string
	Trace   bool
	lastCmd string // for "again"/"g" repeat
}

// NewSession creates a session saving under saveDir, or the default
// directory when saveDir is empty.
func NewSession(eng *engine.Engine, saveDir string) *Session {
	if saveDir == "" {
		saveDir = DefaultSaveDir()
	}
	return &Session{Engine: eng, SaveDir: saveDir}
}

// metaCommand is one slash command.
type metaCommand struct {
	names []string
	usage string
	help  string
	run   func(s *Session, arg string) Reply
}

var metaCommands []metaCommand

func init() {
	metaCommands = []metaCommand{
		{[]string{"/save"}, "/save [name]", "Save the run (default: quicksave)", (*Session).save},
		{[]string{"/load"}, "/load [name]", "Load a run (default: quicksave)", (*Session).load},
		{[]string{"/export"}, "/export [file]", "Write the map as a PDF (default: chainspire-map.pdf)", (*Session).export},
		{[]string{"/quit", "/exit"}, "/quit", "Exit", func(*Session, string) Reply {
			return Reply{Lines: system("Goodbye."), Quit: true}
		}},
		{[]string{"/help"}, "/help", "Show this help", func(*Session, string) Reply {
			return Reply{Lines: game(HelpLines()...)}
		}},
		{[]string{"/state"}, "/state", "Debug: dump the run state", func(s *Session, _ string) Reply {
			return Reply{Lines: system(StateLines(s.Engine)...)}
		}},
		{[]string{"/trace"}, "/trace", "Toggle event trace output", (*Session).toggleTrace},
	}
}

// Exec handles one line of input. Blank lines and # comments yield an
// empty reply.
func (s *Session) Exec(input string) Reply {
	input = strings.TrimSpace(input)
	if input == "" || strings.HasPrefix(input, "#") {
		return Reply{}
	}

	if strings.HasPrefix(input, "/") {
		cmd, arg, _ := strings.Cut(input, " ")
		for _, mc := range metaCommands {
			for _, name := range mc.names {
				if name == cmd {
					return mc.run(s, strings.TrimSpace(arg))
				}
			}
		}
		return Reply{Lines: system(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))}
	}

	// "again" / "g" repeats the last game command.
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if s.lastCmd == "" {
			return Reply{Lines: system("Nothing to repeat.")}
		}
		input = s.lastCmd
	} else {
		s.lastCmd = input
	}

	result := s.Engine.Step(input)
	lines := game(result.Output...)
	if s.Trace {
		lines = append(lines, game(TraceLines(result)...)...)
	}
	return Reply{Lines: lines}
}

// Prompt shows the player's energy during a battle.
func (s *Session) Prompt() string {
	if b := s.Engine.Battle(); b != nil {
		return fmt.Sprintf("[%d/%d energy] > ", b.Player.Energy, b.Player.MaxEnergy)
	}
	return "> "
}

func (s *Session) save(name string) Reply {
	path, err := SaveGame(s.Engine, s.SaveDir, name)
	if err != nil {
		return Reply{Lines: system(fmt.Sprintf("Save failed: %v", err))}
	}
	return Reply{Lines: system(fmt.Sprintf("Run saved to %s.", path))}
}

func (s *Session) load(name string) Reply {
	sd, err := LoadGame(s.Engine, s.SaveDir, name)
	if err != nil {
		return Reply{Lines: system(fmt.Sprintf("Load failed: %v", err))}
	}
	if name == "" {
		name = "quicksave"
	}
	s.lastCmd = ""
	lines := system(fmt.Sprintf("Run loaded from %s (%s, %d battles won).", name, sd.Phase, sd.Progress.CompletedBattles))
	return Reply{Lines: append(lines, game(s.Engine.Step("look").Output...)...)}
}

func (s *Session) export(path string) Reply {
	path, err := ExportMap(s.Engine, path)
	if err != nil {
		return Reply{Lines: system(fmt.Sprintf("Export failed: %v", err))}
	}
	return Reply{Lines: system(fmt.Sprintf("Map written to %s.", path))}
}

func (s *Session) toggleTrace(string) Reply {
	s.Trace = !s.Trace
	if s.Trace {
		return Reply{Lines: system("Trace output enabled.")}
	}
	return Reply{Lines: system("Trace output disabled.")}
}

// Title is the banner shown when a front end starts.
func (s *Session) Title() string {
	g := s.Engine.Defs.Game
	title := g.Title + " v" + g.Version
	if g.Author != "" {
		title += " by " + g.Author
	}
	return title
}

// Intro is the opening transcript: the banner, an optional hint and the
// first look at the run.
func (s *Session) Intro(hint string) []Line {
	lines := game(s.Title())
	if hint != "" {
		lines = append(lines, system(hint)...)
	}
	lines = append(lines, Line{})
	return append(lines, game(s.Engine.Step("look").Output...)...)
}

func system(texts ...string) []Line {
	out := make([]Line, len(texts))
	for i, t := range texts {
		out[i] = Line{Text: t, System: true}
	}
	return out
}

func game(texts ...string) []Line {
	out := make([]Line, len(texts))
	for i, t := range texts {
		out[i] = Line{Text: t}
	}
	return out
}
