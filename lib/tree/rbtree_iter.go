package tree

import (
	"iter"
)

// Iterator walks a tree in ascending order through the parent links,
// the cursor is its only state. It is single pass, ask the tree for a
// new one to restart.
type Iterator[T any] struct {
	nodes NodeStorage[T]
	next  slotRef
}

// Next returns the current value and moves to its successor.
func (it *Iterator[T]) Next() (T, bool) {
	var zero T
	if it == nil || it.next.isNone() {
		return zero, false
	}
	cur := it.next.unwrap()
	node := it.nodes.get(cur)
	it.next = succ(it.nodes, cur)
	return node.val, true
}

// minimum is the leftmost slot under idx.
func minimum[T any](nodes NodeStorage[T], idx Index) Index {
	for {
		l, ok := nodes.get(idx).left.get()
		if !ok {
			return idx
		}
		idx = l
	}
}

// The succ node of the current node is its next node in sorted order.
func succ[T any](nodes NodeStorage[T], idx Index) slotRef {
	if r, ok := nodes.get(idx).right.get(); ok {
		return newSlotRef(minimum(nodes, r))
	}

	// Backtrack to the first ancestor reached from its left subtree.
	x, aux := idx, nodes.get(idx).parent
	for !aux.isNone() {
		p := aux.unwrap()
		if !nodes.get(p).isRight(x) {
			break
		}
		x, aux = p, nodes.get(p).parent
	}
	return aux
}

func (tree *rbTreeSet[T]) Iter() *Iterator[T] {
	return &Iterator[T]{
		nodes: tree.nodes,
		next:  newSlotRef(minimum(tree.nodes, tree.root)),
	}
}

func (tree *rbTreeSet[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		it := tree.Iter()
		for val, ok := it.Next(); ok; val, ok = it.Next() {
			if !yield(val) {
				return
			}
		}
	}
}
