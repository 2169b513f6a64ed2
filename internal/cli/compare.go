package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/kilupskalvis/apdiff/internal/report"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <old> <new>",
	Short: "Compare two survey versions",
	Long: `Compare two versions of a site survey and report access point changes.

Snapshots may be JSON documents (.json) or survey archives (.esx, .zip).
Access points are matched by name; unmatched pairs on the same floor that
sit closer than the move threshold are reported as renames.`,
	Args: cobra.ExactArgs(2),
	Run:  runCompare,
}

var (
	compareThreshold   float64
	compareFormat      string
	comparePatch       bool
	compareFloor       string
	compareSave        bool
	compareMetricsFile string
	compareTrace       bool
	compareOutput      string
	compareExitCode    bool
)

func init() {
	f := compareCmd.Flags()
	f.Float64VarP(&compareThreshold, "threshold", "t", 0, "Move threshold in meters (default from config, 0.5)")
	f.StringVarP(&compareFormat, "format", "f", "", "Output format: text, stat, floors, json, csv")
	f.BoolVarP(&comparePatch, "patch", "p", false, "Show a unified diff of each paired access point")
	f.StringVar(&compareFloor, "floor", "", "Only show changes on this floor")
	f.BoolVar(&compareSave, "save", false, "Save the comparison to the workspace history")
	f.StringVar(&compareMetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	f.BoolVar(&compareTrace, "trace", false, "Print OpenTelemetry spans to stderr")
	f.StringVarP(&compareOutput, "output", "o", "", "Write the report to a file instead of stdout")
	f.BoolVar(&compareExitCode, "exit-code", false, "Exit with status 1 when differences are found")
}

func runCompare(cmd *cobra.Command, args []string) {
	runComparison(cmd, args[0], args[1], compareFormat)
}

// runComparison is shared by compare and floors.
func runComparison(cmd *cobra.Command, oldPath, newPath, format string) {
	ctx := context.Background()
	c := initContext(cmd, compareSave)
	defer c.Close()

	cfg := c.Config
	if cmd.Flags().Changed("threshold") {
		cfg.MoveThreshold = compareThreshold
	}
	if format == "" {
		format = cfg.OutputFormat
	}
	metricsFile := cfg.MetricsFile
	if compareMetricsFile != "" {
		metricsFile = compareMetricsFile
	}

	p, err := newPipeline(ctx, c.Logger, cfg.MoveThreshold, cfg.Tracing || compareTrace)
	if err != nil {
		exitError("%v", err)
	}

	res, err := p.compare(ctx, oldPath, newPath)
	if err != nil {
		p.finish(ctx, metricsFile)
		exitError("%v", err)
	}

	out, closeOut, err := openOutput(compareOutput)
	if err != nil {
		exitError("%v", err)
	}
	renderErr := report.Render(out, format, res, report.Options{Patch: comparePatch, Floor: compareFloor})
	closeOut()
	if renderErr != nil {
		exitError("%v", renderErr)
	}

	if compareSave {
		if err := c.Store.SaveComparison(res); err != nil {
			exitError("failed to save comparison: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Saved comparison %s\n", res.ShortID())
	}

	p.finish(ctx, metricsFile)

	if compareExitCode && res.HasChanges() {
		c.Close()
		os.Exit(1)
	}
}
