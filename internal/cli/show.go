package cli

import (
	"os"

	"github.com/kilupskalvis/apdiff/internal/report"
	"github.com/kilupskalvis/apdiff/internal/store"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [comparison]",
	Short: "Show a saved comparison",
	Long: `Show a saved comparison by ID or unique ID prefix.
Without an argument the most recently saved comparison is shown.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runShow,
}

var (
	showFormat string
	showPatch  bool
	showFloor  string
)

func init() {
	showCmd.Flags().StringVarP(&showFormat, "format", "f", "", "Output format: text, stat, floors, json, csv")
	showCmd.Flags().BoolVarP(&showPatch, "patch", "p", false, "Show a unified diff of each paired access point")
	showCmd.Flags().StringVar(&showFloor, "floor", "", "Only show changes on this floor")
	showCmd.RegisterFlagCompletionFunc("format", completeFormats)
}

func runShow(cmd *cobra.Command, args []string) {
	c := initContext(cmd, true)
	defer c.Close()

	var id string
	if len(args) > 0 {
		id = args[0]
	} else {
		last, err := c.Store.GetValue(store.LastComparisonKey)
		if err != nil || last == "" {
			exitError("no saved comparisons yet")
		}
		id = last
	}

	res, err := c.Store.GetComparison(id)
	if err != nil {
		exitError("%v", err)
	}

	format := showFormat
	if format == "" {
		format = c.Config.OutputFormat
	}
	if err := report.Render(os.Stdout, format, res, report.Options{Patch: showPatch, Floor: showFloor}); err != nil {
		exitError("%v", err)
	}
}
