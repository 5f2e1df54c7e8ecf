package tree

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	RBTreeStatsName = "xarena/rbtree"
	// RBTreeIDKey tells apart trees recording under one stats name.
	RBTreeIDKey = attribute.Key("rbtree.id")
	// ArenaIDKey tells apart arenas recording under one stats name.
	ArenaIDKey = attribute.Key("xarena.arena.id")
)

var statsSeq atomic.Uint64

// nextStatsID is process unique and never 0.
func nextStatsID() uint64 {
	return statsSeq.Add(1)
}

type rbTreeStats struct {
	lenCounter     atomic.Int64
	treeAttr       attribute.KeyValue
	treeAttrs      attribute.Set
	insertCount    metric.Int64Counter
	duplicateCount metric.Int64Counter
	fixupCount     metric.Int64Counter
	rotationCount  metric.Int64Counter
	treeLen        metric.Int64ObservableGauge
	arenaSlots     metric.Int64ObservableGauge
}

func (stats *rbTreeStats) IncreaseInsertCount() {
	if stats == nil {
		return
	}
	stats.insertCount.Add(context.Background(), 1, metric.WithAttributeSet(stats.treeAttrs))
	stats.lenCounter.Add(1)
}

func (stats *rbTreeStats) IncreaseDuplicateCount() {
	if stats == nil {
		return
	}
	stats.duplicateCount.Add(context.Background(), 1, metric.WithAttributeSet(stats.treeAttrs))
}

func (stats *rbTreeStats) IncreaseFixupCount(fixupCase string) {
	if stats == nil {
		return
	}
	as := attribute.NewSet(
		stats.treeAttr,
		attribute.String("rbtree.fixup.case", fixupCase),
	)
	stats.fixupCount.Add(context.Background(), 1, metric.WithAttributeSet(as))
}

func (stats *rbTreeStats) IncreaseRotationCount(dir RBDirection) {
	if stats == nil {
		return
	}
	as := attribute.NewSet(
		stats.treeAttr,
		attribute.String("rbtree.rotation.direction", dir.String()),
	)
	stats.rotationCount.Add(context.Background(), 1, metric.WithAttributeSet(as))
}

// newRBTreeStats registers the meters of one tree. Trees of a shared
// arena pass the same arenaID, so the slots gauge reports the arena
// once per stats name however many trees observe it.
func newRBTreeStats(name string, treeID, arenaID uint64, initLen int64, slots func() int) *rbTreeStats {
	meterName := fmt.Sprintf("%s/%s", RBTreeStatsName, name)
	meter := otel.Meter(meterName)
	stats := &rbTreeStats{
		treeAttr: RBTreeIDKey.Int64(int64(treeID)),
		insertCount: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"xarena.rbtree.insert.count",
				metric.WithDescription("The number of values stored by the tree."),
			),
		),
		duplicateCount: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"xarena.rbtree.insert.duplicate.count",
				metric.WithDescription("The number of inserts that found an equal value already stored."),
			),
		),
		fixupCount: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"xarena.rbtree.fixup.count",
				metric.WithDescription("The number of insert fixup steps by case."),
			),
		),
		rotationCount: lo.Must[metric.Int64Counter](meter.
			Int64Counter(
				"xarena.rbtree.rotation.count",
				metric.WithDescription("The number of rotations by direction."),
			),
		),
	}
	stats.treeAttrs = attribute.NewSet(stats.treeAttr)
	stats.lenCounter.Store(initLen)

	stats.treeLen = lo.Must[metric.Int64ObservableGauge](meter.
		Int64ObservableGauge(
			"xarena.rbtree.len",
			metric.WithDescription("The number of values in the tree."),
			metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
				ob.Observe(stats.lenCounter.Load(), metric.WithAttributeSet(stats.treeAttrs))
				return nil
			}),
		),
	)
	arenaAttrs := attribute.NewSet(ArenaIDKey.Int64(int64(arenaID)))
	stats.arenaSlots = lo.Must[metric.Int64ObservableGauge](meter.
		Int64ObservableGauge(
			"xarena.arena.slots",
			metric.WithDescription("The number of slots in the arena backing the tree, shared arenas count every tree."),
			metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
				ob.Observe(int64(slots()), metric.WithAttributeSet(arenaAttrs))
				return nil
			}),
		),
	)
	return stats
}
