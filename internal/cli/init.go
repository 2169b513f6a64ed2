package cli

import (
	"fmt"
	"os"

	"github.com/kilupskalvis/apdiff/internal/config"
	"github.com/kilupskalvis/apdiff/internal/store"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize an apdiff workspace",
	Long: `Initialize an apdiff workspace in the current directory.
This creates a .apdiff directory holding the configuration and the
comparison history database.`,
	Run: runInit,
}

var initThreshold float64

func init() {
	initCmd.Flags().Float64Var(&initThreshold, "threshold", config.DefaultMoveThreshold, "Default move threshold in meters")
}

func runInit(cmd *cobra.Command, args []string) {
	// Check if already initialized
	if root, err := config.FindRoot(); err == nil {
		exitError("apdiff workspace already exists at %s", root)
	}

	cwd, err := os.Getwd()
	if err != nil {
		exitError("%v", err)
	}

	cfg, err := config.Initialize(cwd)
	if err != nil {
		exitError("failed to initialize config: %v", err)
	}

	if initThreshold != config.DefaultMoveThreshold {
		cfg.MoveThreshold = initThreshold
		if err := cfg.Validate(); err != nil {
			exitError("%v", err)
		}
		if err := cfg.Save(); err != nil {
			exitError("failed to save config: %v", err)
		}
	}

	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		exitError("failed to create store: %v", err)
	}
	defer st.Close()

	if err := st.Initialize(); err != nil {
		exitError("failed to initialize store: %v", err)
	}

	fmt.Printf("Initialized empty apdiff workspace in %s/\n", config.WorkspaceDir)
	fmt.Printf("Move threshold: %g m\n", cfg.MoveThreshold)
}
