package tree

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xarena/lib/infra"
	"github.com/benz9527/xarena/xlog"
)

var _ NodeStorage[uint8] = (*SharedStorage[uint8])(nil)

// SharedStorage is one arena holding the nodes of several trees. Each
// tree handle keeps its own root and only reaches the slots linked from
// it.
//
// Handles may mutate the arena in turn but never concurrently. This is
// not enforced by a lock; builds with the invariants or race tags panic
// on an overlapping mutation.
type SharedStorage[T any] struct {
	nodes  *vecStorage[T]
	cmp    infra.Comparator[T]
	cfg    *sharedStorageCfg
	logger xlog.XLogger
	borrow infra.BorrowChecker
	trees  int64
	id     uint64
}

func (s *SharedStorage[T]) len() int {
	return s.nodes.len()
}

func (s *SharedStorage[T]) push(node rbNode[T]) Index {
	return s.nodes.push(node)
}

func (s *SharedStorage[T]) get(idx Index) *rbNode[T] {
	return s.nodes.get(idx)
}

func (s *SharedStorage[T]) acquire() {
	s.borrow.Acquire()
}

func (s *SharedStorage[T]) release() {
	s.borrow.Release()
}

// Len is the number of slots of every tree in the arena.
func (s *SharedStorage[T]) Len() int {
	return s.nodes.len()
}

// Trees is the number of trees added to the arena.
func (s *SharedStorage[T]) Trees() int64 {
	return s.trees
}

// AddTree pushes first as a new black root and returns a tree bound to
// this arena. The tree logs and records stats like the arena unless
// opts override them.
func (s *SharedStorage[T]) AddTree(first T, opts ...RBTreeSetOpt) RBTreeSet[T] {
	s.acquire()
	root := s.push(newRBRootNode(first))
	s.trees++
	s.release()

	cfg := &rbTreeSetCfg{
		logger:    s.cfg.logger,
		statsName: s.cfg.statsName,
		arenaID:   s.id,
	}
	cfg.apply(opts...)
	if s.logger != nil && s.logger.Enabled(zapcore.DebugLevel) {
		s.logger.Debug("tree added",
			zap.Uint32("root", uint32(root)),
			zap.Int64("trees", s.trees),
			zap.Int("slots", s.nodes.len()),
		)
	}
	return newRBTreeSet[T](s, root, s.cmp, cfg)
}

type sharedStorageCfg struct {
	logger    xlog.XLogger
	statsName string
	capacity  int
}

type SharedStorageOpt func(*sharedStorageCfg)

func WithSharedStorageCapacity(capacity int) SharedStorageOpt {
	return func(cfg *sharedStorageCfg) {
		cfg.capacity = capacity
	}
}

// WithSharedStorageLogger is inherited by every tree of the arena.
func WithSharedStorageLogger(logger xlog.XLogger) SharedStorageOpt {
	return func(cfg *sharedStorageCfg) {
		cfg.logger = logger
	}
}

// WithSharedStorageStats is inherited by every tree of the arena.
func WithSharedStorageStats(name string) SharedStorageOpt {
	return func(cfg *sharedStorageCfg) {
		cfg.statsName = name
	}
}

// NewSharedStorage creates an empty arena, trees are added by AddTree.
func NewSharedStorage[T infra.OrderedKey](opts ...SharedStorageOpt) *SharedStorage[T] {
	return NewSharedStorageFunc[T](infra.OrderedKeyComparator[T](), opts...)
}

func NewSharedStorageFunc[T any](cmp infra.Comparator[T], opts ...SharedStorageOpt) *SharedStorage[T] {
	if cmp == nil {
		panic("[rbtree] nil comparator")
	}
	cfg := &sharedStorageCfg{}
	for _, o := range opts {
		o(cfg)
	}
	s := &SharedStorage[T]{
		nodes: newVecStorage[T](cfg.capacity),
		cmp:   cmp,
		cfg:   cfg,
		id:    nextStatsID(),
	}
	if cfg.logger != nil {
		s.logger = cfg.logger.Named("arena")
	}
	return s
}
