package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/benz9527/xarena/lib/tree"
)

func TestConsoleMetricsExporter(t *testing.T) {
	buf := &bytes.Buffer{}
	shutdown, err := NewConsoleMetricsExporter(
		WithConsoleWriter(buf),
		WithConsoleInterval(time.Hour, time.Second),
	)
	require.NoError(t, err)

	set := tree.NewRBTreeSet[int](0, tree.WithRBTreeSetStats("console"))
	for i := 1; i < 64; i++ {
		set.Insert(i)
	}
	// Shutdown exports the last collection.
	require.NoError(t, shutdown(context.Background()))

	out := buf.String()
	require.Contains(t, out, tree.RBTreeStatsName+"/console")
	require.Contains(t, out, "xarena.rbtree.insert.count")
	require.Contains(t, out, "xarena.arena.slots")
}

func TestPrometheusMetricsExporter(t *testing.T) {
	reg := promclient.NewRegistry()
	shutdown, err := NewPrometheusMetricsExporter(
		WithPrometheusRegisterer(reg),
		WithRuntimeStats(),
	)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, shutdown(context.Background()))
	}()

	s := tree.NewSharedStorage[string](tree.WithSharedStorageStats("prom"))
	set := s.AddTree("m")
	for _, w := range strings.Fields("a b c d e f g h a b c") {
		set.Insert(w)
	}

	families, err := reg.Gather()
	require.NoError(t, err)
	var (
		inserts   float64
		found     bool
		goRuntime bool
	)
	for _, mf := range families {
		name := mf.GetName()
		if strings.HasPrefix(name, "process_runtime_go") || strings.HasPrefix(name, "runtime_") {
			goRuntime = true
		}
		if !strings.HasPrefix(name, "xarena_rbtree_insert_count") {
			continue
		}
		for _, m := range mf.GetMetric() {
			inserts += m.GetCounter().GetValue()
		}
		found = true
	}
	require.True(t, found)
	require.Equal(t, float64(8), inserts)
	require.True(t, goRuntime)
}
