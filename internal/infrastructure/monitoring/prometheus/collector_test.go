package prometheus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/drugkit/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", Subsystem: "unit"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func TestNewMetricsCollector_EmptyNamespace(t *testing.T) {
	c, err := NewMetricsCollector(CollectorConfig{}, nil)
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestRegisterCounter_IncrementsAndGathers(t *testing.T) {
	c := newTestCollector(t)
	vec := c.RegisterCounter("comparisons_total", "help", "mode")
	vec.WithLabelValues("fingerprint").Inc()
	vec.WithLabelValues("fingerprint").Add(2)

	n, err := testutil.GatherAndCount(c.Gatherer(), "test_unit_comparisons_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	expected := `
# HELP test_unit_comparisons_total help
# TYPE test_unit_comparisons_total counter
test_unit_comparisons_total{mode="fingerprint"} 3
`
	assert.NoError(t, testutil.GatherAndCompare(c.Gatherer(), strings.NewReader(expected), "test_unit_comparisons_total"))
}

func TestRegister_DuplicateReturnsExisting(t *testing.T) {
	c := newTestCollector(t)
	a := c.RegisterGauge("loaded", "help", "collection")
	b := c.RegisterGauge("loaded", "help", "collection")
	a.WithLabelValues("x").Set(2)
	b.WithLabelValues("x").Add(1)

	expected := `
# HELP test_unit_loaded help
# TYPE test_unit_loaded gauge
test_unit_loaded{collection="x"} 3
`
	assert.NoError(t, testutil.GatherAndCompare(c.Gatherer(), strings.NewReader(expected), "test_unit_loaded"))
}

func TestRegister_TypeMismatchReturnsNoop(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterGauge("thing", "help")
	counter := c.RegisterCounter("thing", "help")
	assert.IsType(t, &noopCounterVec{}, counter)
	assert.NotPanics(t, func() { counter.WithLabelValues().Inc() })
}

func TestWriteTextfile(t *testing.T) {
	c := newTestCollector(t)
	m := NewRunMetrics(c)
	m.CommonMolecules.WithLabelValues("ref.sdf").Set(4)
	m.IntersectDuration.WithLabelValues("topological").Observe(0.2)

	path := filepath.Join(t.TempDir(), "drugkit.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `test_unit_intersect_common_molecules{reference="ref.sdf"} 4`)
	assert.Contains(t, string(data), "test_unit_intersect_duration_seconds_count")
}

func TestWriteTextfile_BadPath(t *testing.T) {
	c := newTestCollector(t)
	err := c.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))
	assert.Error(t, err)
}

func TestTimer_ObserveDuration(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("run_seconds", "help", nil)
	d := NewTimer(h.WithLabelValues()).ObserveDuration()
	assert.GreaterOrEqual(t, d.Nanoseconds(), int64(0))

	n, err := testutil.GatherAndCount(c.Gatherer(), "test_unit_run_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.NotPanics(t, func() { NewTimer(nil).ObserveDuration() })
}

//Personal.AI order the ending
