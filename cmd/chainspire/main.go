// ChainSpire is a seeded roguelike deck-builder played in the terminal.
// Usage: chainspire [--seed N] [--deck ID] [--content DIR] [--config FILE]
// [--save-dir DIR] [--plain] [--script FILE] [--trace] [--debug] [--version]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	termcli "github.com/nathoo/chainspire/cli"
	"github.com/nathoo/chainspire/config"
	"github.com/nathoo/chainspire/content"
	"github.com/nathoo/chainspire/engine"
	"github.com/nathoo/chainspire/engine/state"
	"github.com/nathoo/chainspire/loader"
	"github.com/nathoo/chainspire/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Load .env if it exists so its values reach the flag sources below.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "chainspire",
		Usage:   "climb the spire with a blockchain-themed deck",
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:    "seed",
				Usage:   "run seed (random when unset)",
				Sources: cli.EnvVars("CHAINSPIRE_SEED"),
			},
			&cli.StringFlag{
				Name:  "deck",
				Usage: "start with this deck instead of asking",
			},
			&cli.StringFlag{
				Name:    "content",
				Usage:   "directory of Lua content files (built-in content when unset)",
				Sources: cli.EnvVars("CHAINSPIRE_CONTENT"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "YAML tuning file",
				Sources: cli.EnvVars("CHAINSPIRE_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "save-dir",
				Usage:   "directory for /save and /load",
				Value:   termcli.DefaultSaveDir(),
				Sources: cli.EnvVars("CHAINSPIRE_SAVE_DIR"),
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "line-based output instead of the full-screen UI",
			},
			&cli.StringFlag{
				Name:  "script",
				Usage: "play commands from a file (implies --plain)",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "print engine events after each command",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log diagnostics to stderr",
			},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	logger := slog.New(slog.DiscardHandler)
	if cmd.Bool("debug") {
		logger = slog.New(slog.NewTextHandler(cmd.ErrWriter, &slog.HandlerOptions{Level: slog.LevelDebug}))
		// The loader logs content warnings and print output through the default logger.
		slog.SetDefault(logger)
	}

	// 1. Content.
	defs, err := loadDefs(cmd.String("content"))
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	// 2. Tuning.
	cfg := config.Default()
	if path := cmd.String("config"); path != "" {
		if cfg, err = config.Load(path); err != nil {
			return err
		}
	}

	// 3. Engine.
	seed := cmd.Int64("seed")
	if !cmd.IsSet("seed") {
		seed = time.Now().UnixNano()
	}
	eng := engine.New(defs, cfg, seed)
	eng.Log = logger
	logger.Debug("run created", "seed", seed, "title", defs.Game.Title)

	if deck := cmd.String("deck"); deck != "" {
		if _, err := eng.ChooseDeck(deck); err != nil {
			return fmt.Errorf("--deck %q: %w", deck, err)
		}
	}

	// 4. Front end. Script mode forces plain output and echoes commands.
	if path := cmd.String("script"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		playPlain(eng, cmd, f, true)
		return nil
	}

	if cmd.Bool("plain") || !isTerminal(cmd.Writer) {
		playPlain(eng, cmd, cmd.Reader, false)
		return nil
	}

	return tui.Run(eng, cmd.String("save-dir"))
}

func playPlain(eng *engine.Engine, cmd *cli.Command, in io.Reader, echo bool) {
	c := termcli.New(eng)
	c.In = in
	c.Out = cmd.Writer
	c.SaveDir = cmd.String("save-dir")
	c.Trace = cmd.Bool("trace")
	c.EchoInput = echo
	c.Run()

	if o := eng.Outcome(); o != nil {
		outcome := "defeat"
		if o.Victory {
			outcome = "victory"
		}
		eng.Log.Debug("run finished", "outcome", outcome, "battles", o.CompletedBattles, "gold", o.Gold)
	}
}

func loadDefs(dir string) (*state.Defs, error) {
	if dir == "" {
		return content.Default()
	}
	return loader.Load(dir)
}

// isTerminal reports whether w is a terminal (not piped or redirected).
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
