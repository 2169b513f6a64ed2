package batch

import (
	"context"
	"fmt"

	"github.com/kilupskalvis/apdiff/internal/core"
	"github.com/kilupskalvis/apdiff/internal/loader"
	"github.com/kilupskalvis/apdiff/internal/models"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one manifest pair. Exactly one of Result and Err is set.
type Result struct {
	Pair   Pair
	Result *models.ComparisonResult
	Err    error
}

// Progress is called after each pair finishes.
type Progress func(done, total int, r Result)

// Run loads and compares every pair with bounded concurrency. A failing pair
// does not stop the others; its error is kept on its Result. Results are in
// manifest order. Run itself only fails when ctx is canceled.
func Run(ctx context.Context, m *Manifest, engine *core.Engine, ld loader.Loader, progress Progress) ([]Result, error) {
	if progress == nil {
		progress = func(int, int, Result) {}
	}

	workers := m.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	results := make([]Result, len(m.Pairs))
	done := make(chan Result)
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		n := 0
		for r := range done {
			n++
			progress(n, len(m.Pairs), r)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, pair := range m.Pairs {
		i, pair := i, pair
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := comparePair(gctx, pair, engine, ld)
			results[i] = Result{Pair: pair, Result: res, Err: err}
			done <- results[i]
			return nil
		})
	}

	err := g.Wait()
	close(done)
	<-finished

	if err != nil {
		return nil, err
	}
	return results, nil
}

func comparePair(ctx context.Context, pair Pair, engine *core.Engine, ld loader.Loader) (*models.ComparisonResult, error) {
	oldSnap, err := ld.Load(ctx, pair.Old)
	if err != nil {
		return nil, fmt.Errorf("load old snapshot: %w", err)
	}
	newSnap, err := ld.Load(ctx, pair.New)
	if err != nil {
		return nil, fmt.Errorf("load new snapshot: %w", err)
	}

	res, err := engine.Compare(oldSnap, newSnap)
	if err != nil {
		return nil, fmt.Errorf("compare %s: %w", pair.Name, err)
	}
	return res, nil
}
