package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dodge/internal/config"
	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/games/dodge"
	"github.com/vovakirdan/tui-dodge/internal/platform/tui"
	"github.com/vovakirdan/tui-dodge/internal/storage"
)

var (
	flagShape string
	flagColor string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a game right away",
	Long: `Start playing immediately, skipping the menu.

Controls:
  Arrows/WASD/HJKL - Move (keys can be combined for diagonals)
  Mouse drag       - Virtual joystick
  Space            - Stop moving
  P                - Pause
  R                - Play again (after game over)
  Enter            - Back to the menu (after game over)
  Ctrl+S           - Save a screenshot
  Q/Ctrl+C         - Quit

Examples:
  dodge play
  dodge play --shape triangle --color blue
  dodge play --seed 42 --fps 30
  dodge play --config ./my-dodge.toml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagShape, "shape", "", "Player shape: circle, square, triangle")
	playCmd.Flags().StringVar(&flagColor, "color", "", "Player color: red, green, blue, yellow, purple, orange, cyan, pink")
}

func runPlay(_ *cobra.Command, _ []string) {
	runGame(true, nil)
}

// runGame opens the log and the store, then runs the app until the player quits.
func runGame(startInGame bool, watcher *config.Watcher) {
	cfg := loadGameConfig()
	if err := applyAppearanceFlags(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, logFile, err := openFileLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	// Continue without storage - game still works
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("could not open scores database", "path", flagDBPath, "error", err)
		store = nil
	}

	rc := runtimeConfig()
	logger.Info("starting", "fps", rc.TickRate, "seed", rc.Seed, "size", fmt.Sprintf("%dx%d", rc.ScreenW, rc.ScreenH))

	runErr := tui.Run(tui.Options{
		Store:       store,
		Config:      cfg,
		Runtime:     rc,
		Logger:      logger,
		StartInGame: startInGame,
	}, watcher)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		logger.Error("game stopped", "error", runErr)
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// applyAppearanceFlags lets --shape and --color override the config.
func applyAppearanceFlags(cfg *config.DodgeConfig) error {
	if flagShape != "" {
		if _, ok := dodge.ParseShape(flagShape); !ok {
			return fmt.Errorf("unknown shape %q", flagShape)
		}
		cfg.Appearance.Shape = flagShape
	}
	if flagColor != "" {
		if _, ok := core.ParsePlayerColor(flagColor); !ok {
			return fmt.Errorf("unknown color %q", flagColor)
		}
		cfg.Appearance.Color = flagColor
	}
	return nil
}
