// Package main is the entry point for the Commit Clicker progression server.
// It only handles flag parsing, dependency injection and server initialization.
// NO game logic belongs here.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MRamiBalles/CommitClicker/server/internal/platform/config"
)

// Global flag variables
var (
	configPath string
	presetName string
)

var rootCmd = &cobra.Command{
	Use:   "clicker-server",
	Short: "Authoritative server for the Commit Clicker progression engine",
	Long: `clicker-server hosts one Commit Clicker game, keeps it saved in SQLite and
serves it to browsers over WebSocket and a small REST API.

Examples:
  clicker-server serve                        Run with the default preset
  clicker-server serve --preset low           Run with the low-resource preset
  clicker-server show                         Print the saved game
  clicker-server wipe --events                Delete the save and the event history
  clicker-server config --preset stress       Print a preset as YAML`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (overrides --preset)")
	rootCmd.PersistentFlags().StringVar(&presetName, "preset", "default", "Config preset: default, stress or low")

	rootCmd.AddCommand(serveCmd, showCmd, wipeCmd, configCmd)
}

// loadConfig resolves the config from --config or --preset.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	cfg, err := config.Preset(presetName)
	if err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
