package observability

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kilupskalvis/apdiff/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInventory() models.InventoryChange {
	return models.InventoryChange{
		OldTotalAPs:  4,
		NewTotalAPs:  5,
		APsAdded:     2,
		APsRemoved:   1,
		APsMoved:     1,
		APsUnchanged: 2,
	}
}

func TestCompareCollector_ObserveComparison(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCompareCollector(reg)
	require.NoError(t, err)

	c.ObserveComparison(sampleInventory(), 20*time.Millisecond)
	c.ObserveComparison(sampleInventory(), 30*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Comparisons))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.APChanges.WithLabelValues("added")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.APChanges.WithLabelValues("moved")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.APChanges.WithLabelValues("renamed")))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.APsUnchanged))
	assert.Equal(t, 1, testutil.CollectAndCount(c.Durations))
}

func TestCompareCollector_PairFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCompareCollector(reg)
	require.NoError(t, err)

	c.IncPairFailures()
	assert.Equal(t, 1.0, testutil.ToFloat64(c.PairFailures))

	var nilCollector *CompareCollector
	assert.NotPanics(t, func() {
		nilCollector.IncPairFailures()
		nilCollector.ObserveComparison(sampleInventory(), time.Second)
	})
}

func TestNewCompareCollector_ReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCompareCollector(reg)
	require.NoError(t, err)
	second, err := NewCompareCollector(reg)
	require.NoError(t, err)

	first.IncPairFailures()
	assert.Equal(t, 1.0, testutil.ToFloat64(second.PairFailures))
}

func TestCompareCollector_WriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCompareCollector(reg)
	require.NoError(t, err)
	c.ObserveComparison(sampleInventory(), time.Millisecond)

	path := filepath.Join(t.TempDir(), "apdiff.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "apdiff_comparisons_total 1")
	assert.Contains(t, string(data), `apdiff_ap_changes_total{status="added"} 2`)
}

func TestInitTracing_Disabled(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := InitTracing(context.Background(), TracingConfig{}, &buf, nil)
	require.NoError(t, err)

	_, span := Tracer().Start(context.Background(), "compare")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Empty(t, buf.String())
}

func TestInitTracing_Stdout(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := InitTracing(context.Background(), TracingConfig{Enabled: true}, &buf, nil)
	require.NoError(t, err)

	_, span := Tracer().Start(context.Background(), "compare")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	ShutdownWithTimeout(context.Background(), shutdown, nil)
	assert.Contains(t, buf.String(), `"Name":"compare"`)
}
