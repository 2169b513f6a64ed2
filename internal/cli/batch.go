package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/kilupskalvis/apdiff/internal/batch"
	"github.com/kilupskalvis/apdiff/internal/report"
	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch <manifest>",
	Short: "Run many comparisons from a manifest",
	Long: `Run every comparison listed in a TOML manifest in parallel.

Example manifest:

  workers = 4
  move_threshold_m = 0.5

  [[pair]]
  name = "hq"
  old = "surveys/hq-v1.esx"
  new = "surveys/hq-v2.esx"

A failing pair is reported and the remaining pairs still run.`,
	Args: cobra.ExactArgs(1),
	Run:  runBatch,
}

var (
	batchFormat      string
	batchSave        bool
	batchMetricsFile string
	batchTrace       bool
)

func init() {
	f := batchCmd.Flags()
	f.StringVarP(&batchFormat, "format", "f", report.FormatStat, "Output format for each pair: text, stat, floors, json, csv")
	f.BoolVar(&batchSave, "save", false, "Save every successful comparison to the workspace history")
	f.StringVar(&batchMetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	f.BoolVar(&batchTrace, "trace", false, "Print OpenTelemetry spans to stderr")
}

func runBatch(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	c := initContext(cmd, batchSave)
	defer c.Close()

	manifest, err := batch.LoadManifest(args[0])
	if err != nil {
		exitError("%v", err)
	}

	cfg := c.Config
	metricsFile := cfg.MetricsFile
	if batchMetricsFile != "" {
		metricsFile = batchMetricsFile
	}

	p, err := newPipeline(ctx, c.Logger, manifest.Threshold(cfg.MoveThreshold), cfg.Tracing || batchTrace)
	if err != nil {
		exitError("%v", err)
	}

	ctx, span := startSpan(ctx, "batch")
	results, err := batch.Run(ctx, manifest, p.engine, p.loader, func(done, total int, r batch.Result) {
		c.Logger.Debug("pair finished", "pair", r.Pair.Name, "done", done, "total", total)
	})
	span.End()
	if err != nil {
		p.finish(ctx, metricsFile)
		exitError("batch failed: %v", err)
	}

	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	failed := 0

	for _, r := range results {
		bold.Printf("== %s\n", r.Pair.Name)
		if r.Err != nil {
			failed++
			red.Printf("error: %v\n\n", r.Err)
			continue
		}

		if err := report.Render(os.Stdout, batchFormat, r.Result, report.Options{}); err != nil {
			exitError("%v", err)
		}
		fmt.Println()

		if batchSave {
			if err := c.Store.SaveComparison(r.Result); err != nil {
				exitError("failed to save comparison %s: %v", r.Pair.Name, err)
			}
		}
	}

	p.finish(ctx, metricsFile)

	fmt.Printf("%d of %d comparisons succeeded\n", len(results)-failed, len(results))
	if failed > 0 {
		c.Close()
		os.Exit(1)
	}
}
