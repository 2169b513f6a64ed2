package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/kilupskalvis/apdiff/internal/core"
	"github.com/kilupskalvis/apdiff/internal/loader"
	"github.com/kilupskalvis/apdiff/internal/models"
	"github.com/kilupskalvis/apdiff/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// pipeline bundles the engine, loader, metrics, and tracing shared by the
// comparison commands.
type pipeline struct {
	engine    *core.Engine
	loader    loader.Loader
	collector *observability.CompareCollector
	logger    *slog.Logger
	shutdown  func(context.Context) error
}

func newPipeline(ctx context.Context, logger *slog.Logger, threshold float64, tracing bool) (*pipeline, error) {
	collector, err := observability.NewCompareCollector(prometheus.NewRegistry())
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	engine, err := core.NewEngine(threshold,
		core.WithLogger(logger),
		core.WithRecorder(collector),
	)
	if err != nil {
		return nil, err
	}

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfig{Enabled: tracing}, os.Stderr, logger)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	return &pipeline{
		engine:    engine,
		loader:    loader.NewFileLoader(logger),
		collector: collector,
		logger:    logger,
		shutdown:  shutdown,
	}, nil
}

// compare loads both snapshots and compares them inside a trace span.
func (p *pipeline) compare(ctx context.Context, oldPath, newPath string) (*models.ComparisonResult, error) {
	ctx, span := observability.Tracer().Start(ctx, "compare")
	defer span.End()
	span.SetAttributes(
		attribute.String("apdiff.old", oldPath),
		attribute.String("apdiff.new", newPath),
		attribute.Float64("apdiff.move_threshold_m", p.engine.MoveThreshold()),
	)

	res, err := p.load(ctx, oldPath, newPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("apdiff.comparison_id", res.ID),
		attribute.Int("apdiff.changes", res.TotalChanges()),
	)
	p.logger.Info("comparison finished",
		"id", res.ShortID(),
		"old", res.OldProject,
		"new", res.NewProject,
		"changes", res.TotalChanges())
	return res, nil
}

func (p *pipeline) load(ctx context.Context, oldPath, newPath string) (*models.ComparisonResult, error) {
	loadCtx, span := observability.Tracer().Start(ctx, "load")
	oldSnap, err := p.loader.Load(loadCtx, oldPath)
	if err != nil {
		span.End()
		return nil, err
	}
	newSnap, err := p.loader.Load(loadCtx, newPath)
	span.End()
	if err != nil {
		return nil, err
	}

	return p.engine.Compare(oldSnap, newSnap)
}

// finish writes the metrics textfile, if configured, and flushes spans.
func (p *pipeline) finish(ctx context.Context, metricsFile string) {
	if metricsFile != "" {
		if err := p.collector.WriteTextfile(metricsFile); err != nil {
			p.logger.Warn("failed to write metrics", "path", metricsFile, "error", err)
		}
	}
	observability.ShutdownWithTimeout(ctx, p.shutdown, p.logger)
}

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return observability.Tracer().Start(ctx, name)
}

// openOutput returns stdout, or the named file with colors disabled.
func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	color.NoColor = true
	return f, func() { f.Close() }, nil
}
