// Package cli implements the command-line interface for apdiff.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/kilupskalvis/apdiff/internal/config"
	"github.com/kilupskalvis/apdiff/internal/logging"
	"github.com/kilupskalvis/apdiff/internal/store"
	"github.com/spf13/cobra"
)

// cmdContext holds common resources for CLI commands
type cmdContext struct {
	Config *config.Config
	Store  *store.Store
	Logger *slog.Logger
}

// Close releases resources held by cmdContext
func (c *cmdContext) Close() {
	if c.Store != nil {
		c.Store.Close()
	}
}

// Persistent flags
var (
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
	flagNoColor   bool
)

// resolveConfig loads the effective configuration and applies flags set on
// the command line on top of it.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Resolve(flagConfig)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = flagLogFormat
	}
	return cfg, nil
}

// initContext loads configuration and a logger. The history store is only
// opened when withStore is set, which requires a workspace.
func initContext(cmd *cobra.Command, withStore bool) *cmdContext {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		exitError("%v", err)
	}

	c := &cmdContext{
		Config: cfg,
		Logger: logging.New(os.Stderr, logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}),
	}
	if !withStore {
		return c
	}

	if !cfg.InWorkspace() {
		exitError("%v (run 'apdiff init' first)", config.ErrNoWorkspace)
	}
	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		exitError("failed to open store: %v", err)
	}
	if err := st.Initialize(); err != nil {
		st.Close()
		exitError("failed to initialize store: %v", err)
	}
	c.Store = st
	return c
}

var rootCmd = &cobra.Command{
	Use:   "apdiff",
	Short: "Compare wireless site survey versions",
	Long: `apdiff compares two versions of a wireless site survey and reports which
access points were added, removed, modified, moved, or renamed, along with
inventory and project metadata changes.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagNoColor {
			color.NoColor = true
		}
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to a config file (overrides the workspace config)")
	pf.StringVar(&flagLogLevel, "log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	pf.StringVar(&flagLogFormat, "log-format", config.DefaultLogFormat, "Log format (text, json)")
	pf.BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(floorsCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(showCmd)
}

// exitError prints an error and exits
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
