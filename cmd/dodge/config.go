package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dodge/internal/config"
)

var (
	flagFormat   string
	flagDefaults bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective game config",
	Long: `Print the game config that 'play' and 'menu' would use.

The config is looked up in this order:
  1. --config <path>
  2. ~/.dodge/configs/dodge.{yaml,yml,toml}
  3. ./configs/dodge.{yaml,yml,toml}
  4. built-in defaults

Redirect the output to a file to start a custom config.

Examples:
  dodge config
  dodge config --format toml > ~/.dodge/configs/dodge.toml
  dodge config --defaults`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().StringVar(&flagFormat, "format", "yaml", "Output format: yaml or toml")
	configCmd.Flags().BoolVar(&flagDefaults, "defaults", false, "Print the built-in defaults, ignoring config files")
}

func runConfig(_ *cobra.Command, _ []string) {
	cfg := config.DefaultDodgeConfig()
	if !flagDefaults {
		cfg = loadGameConfig()
	}

	out, err := config.Encode(cfg, flagFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(out)
}
