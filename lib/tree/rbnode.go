package tree

import (
	"fmt"

	"github.com/benz9527/xarena/lib/infra"
)

// rbNode is one arena slot.
type rbNode[T any] struct {
	val    T
	parent slotRef
	left   slotRef
	right  slotRef
	color  RBColor
}

// A new node is red and unlinked.
func newRBNode[T any](val T) rbNode[T] {
	return rbNode[T]{
		val:    val,
		color:  Red,
		parent: noneRef(),
		left:   noneRef(),
		right:  noneRef(),
	}
}

func newRBRootNode[T any](val T) rbNode[T] {
	node := newRBNode(val)
	node.color = Black
	return node
}

func (node *rbNode[T]) isRed() bool {
	return node.color == Red
}

func (node *rbNode[T]) isBlack() bool {
	return node.color == Black
}

func (node *rbNode[T]) isRight(idx Index) bool {
	infra.Assert(slotRef(idx) != noneSlot, "[rbtree] right child check with none")
	return node.right.is(idx)
}

func (node *rbNode[T]) String() string {
	return fmt.Sprintf("{val: %v, color: %s, parent: %s, left: %s, right: %s}",
		node.val, node.color, node.parent, node.left, node.right)
}

var _ RBNode[uint8] = rbNodeRef[uint8]{}

type rbNodeRef[T any] struct {
	nodes NodeStorage[T]
	idx   Index
}

func nodeView[T any](nodes NodeStorage[T], ref slotRef) RBNode[T] {
	idx, ok := ref.get()
	if !ok {
		return nil
	}
	return rbNodeRef[T]{nodes: nodes, idx: idx}
}

func (ref rbNodeRef[T]) node() *rbNode[T] {
	return ref.nodes.get(ref.idx)
}

func (ref rbNodeRef[T]) Index() Index {
	return ref.idx
}

func (ref rbNodeRef[T]) Val() T {
	return ref.node().val
}

func (ref rbNodeRef[T]) Color() RBColor {
	return ref.node().color
}

func (ref rbNodeRef[T]) Left() RBNode[T] {
	return nodeView(ref.nodes, ref.node().left)
}

func (ref rbNodeRef[T]) Right() RBNode[T] {
	return nodeView(ref.nodes, ref.node().right)
}

func (ref rbNodeRef[T]) Parent() RBNode[T] {
	return nodeView(ref.nodes, ref.node().parent)
}
