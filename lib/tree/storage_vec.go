package tree

import (
	"github.com/benz9527/xarena/lib/infra"
)

var _ NodeStorage[uint8] = (*vecStorage[uint8])(nil)

// vecStorage is the exclusive arena owned by one tree. It only grows,
// there is no physical deletion.
type vecStorage[T any] struct {
	nodes []rbNode[T]
}

func newVecStorage[T any](capacity int) *vecStorage[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &vecStorage[T]{
		nodes: make([]rbNode[T], 0, capacity),
	}
}

// newVecStorageWith seeds the arena with the black root at index 0.
func newVecStorageWith[T any](val T, capacity int) *vecStorage[T] {
	s := newVecStorage[T](max(capacity, 1))
	s.push(newRBRootNode(val))
	return s
}

func (s *vecStorage[T]) len() int {
	return len(s.nodes)
}

func (s *vecStorage[T]) push(node rbNode[T]) Index {
	idx := len(s.nodes)
	infra.Assert(uint64(idx) < uint64(noneSlot), "[rbtree] arena is full")
	s.nodes = append(s.nodes, node)
	return Index(idx)
}

func (s *vecStorage[T]) get(idx Index) *rbNode[T] {
	infra.CheckBounds(int(idx), len(s.nodes))
	return &s.nodes[idx]
}

func (s *vecStorage[T]) acquire() {}

func (s *vecStorage[T]) release() {}
