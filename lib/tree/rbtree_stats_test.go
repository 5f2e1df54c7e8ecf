package tree

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMeterReader(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp)
	t.Cleanup(func() {
		_ = mp.Shutdown(context.Background())
	})
	return reader
}

// collectInt64 sums the data points of every int64 sum or gauge named
// metricName in scope.
func collectInt64(t *testing.T, reader *sdkmetric.ManualReader, scope, metricName string) (int64, bool) {
	t.Helper()
	rm := metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		if sm.Scope.Name != scope {
			continue
		}
		for _, m := range sm.Metrics {
			if m.Name != metricName {
				continue
			}
			total := int64(0)
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
			case metricdata.Gauge[int64]:
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
			default:
				t.Fatalf("unexpected aggregation %T for %s", m.Data, metricName)
			}
			return total, true
		}
	}
	return 0, false
}

// collectInt64Gauge returns the points of the int64 gauge named
// metricName in scope, keyed by the value of the key attribute.
func collectInt64Gauge(t *testing.T, reader *sdkmetric.ManualReader, scope, metricName string, key attribute.Key) map[int64]int64 {
	t.Helper()
	rm := metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), &rm))
	points := make(map[int64]int64)
	for _, sm := range rm.ScopeMetrics {
		if sm.Scope.Name != scope {
			continue
		}
		for _, m := range sm.Metrics {
			if m.Name != metricName {
				continue
			}
			data, ok := m.Data.(metricdata.Gauge[int64])
			require.Truef(t, ok, "unexpected aggregation %T for %s", m.Data, metricName)
			for _, dp := range data.DataPoints {
				v, ok := dp.Attributes.Value(key)
				require.Truef(t, ok, "%s point without %s", metricName, key)
				points[v.AsInt64()] = dp.Value
			}
		}
	}
	return points
}

func TestRBTreeSetStats(t *testing.T) {
	reader := newTestMeterReader(t)
	scope := RBTreeStatsName + "/complex"

	tree := NewRBTreeSet[int](5, WithRBTreeSetStats("complex"))
	for _, v := range []int{8, 9, 12, 13, 15, 19, 23, 10} {
		tree.Insert(v)
	}
	tree.Insert(12)
	tree.Insert(5)

	type testcase struct {
		metric   string
		expected int64
	}
	testcases := []testcase{
		{metric: "xarena.rbtree.insert.count", expected: 8},
		{metric: "xarena.rbtree.insert.duplicate.count", expected: 2},
		{metric: "xarena.rbtree.rotation.count", expected: 4},
		// im3 three times, im5 four times.
		{metric: "xarena.rbtree.fixup.count", expected: 7},
		{metric: "xarena.rbtree.len", expected: 9},
		{metric: "xarena.arena.slots", expected: 9},
	}
	for _, tc := range testcases {
		t.Run(tc.metric, func(tt *testing.T) {
			got, ok := collectInt64(tt, reader, scope, tc.metric)
			require.True(tt, ok)
			require.Equal(tt, tc.expected, got)
		})
	}
}

func TestRBTreeSetStats_SharedArena(t *testing.T) {
	reader := newTestMeterReader(t)

	s := NewSharedStorage[int](WithSharedStorageStats("shared"))
	a := s.AddTree(1)
	b := s.AddTree(100, WithRBTreeSetStats("shared-b"))
	a.Insert(2)
	b.Insert(200)
	b.Insert(300)

	slots, ok := collectInt64(t, reader, RBTreeStatsName+"/shared-b", "xarena.arena.slots")
	require.True(t, ok)
	require.Equal(t, int64(5), slots)
	n, ok := collectInt64(t, reader, RBTreeStatsName+"/shared-b", "xarena.rbtree.len")
	require.True(t, ok)
	require.Equal(t, int64(3), n)
	inserts, ok := collectInt64(t, reader, RBTreeStatsName+"/shared", "xarena.rbtree.insert.count")
	require.True(t, ok)
	require.Equal(t, int64(1), inserts)
}

func TestRBTreeSetStats_Disabled(t *testing.T) {
	var stats *rbTreeStats
	require.NotPanics(t, func() {
		stats.IncreaseInsertCount()
		stats.IncreaseDuplicateCount()
		stats.IncreaseFixupCount("im3")
		stats.IncreaseRotationCount(Left)
	})
	tree := NewRBTreeSet[int](1).(*rbTreeSet[int])
	require.Nil(t, tree.stats)
}

func TestRBTreeSetStats_SharedArenaOneName(t *testing.T) {
	reader := newTestMeterReader(t)
	scope := RBTreeStatsName + "/shared"

	s := NewSharedStorage[int](WithSharedStorageStats("shared"))
	a := s.AddTree(0)
	b := s.AddTree(1000)
	for i := 1; i <= 10; i++ {
		a.Insert(i)
	}
	b.Insert(2000)
	a.Insert(5)

	lens := collectInt64Gauge(t, reader, scope, "xarena.rbtree.len", RBTreeIDKey)
	require.Len(t, lens, 2)
	got := make([]int64, 0, len(lens))
	for _, n := range lens {
		got = append(got, n)
	}
	slices.Sort(got)
	require.Equal(t, []int64{2, 11}, got)

	slots := collectInt64Gauge(t, reader, scope, "xarena.arena.slots", ArenaIDKey)
	require.Len(t, slots, 1)
	for _, n := range slots {
		require.Equal(t, int64(s.Len()), n)
		require.Equal(t, int64(13), n)
	}

	inserts, ok := collectInt64(t, reader, scope, "xarena.rbtree.insert.count")
	require.True(t, ok)
	require.Equal(t, int64(11), inserts)
	duplicates, ok := collectInt64(t, reader, scope, "xarena.rbtree.insert.duplicate.count")
	require.True(t, ok)
	require.Equal(t, int64(1), duplicates)

	// The live slots follow inserts made after the first collection.
	b.Insert(3000)
	slots = collectInt64Gauge(t, reader, scope, "xarena.arena.slots", ArenaIDKey)
	require.Len(t, slots, 1)
	for _, n := range slots {
		require.Equal(t, int64(14), n)
	}
}
