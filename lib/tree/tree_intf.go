package tree

import (
	"iter"
)

type RBColor uint8

const (
	Black RBColor = iota
	Red
)

func (c RBColor) String() string {
	switch c {
	case Black:
		return "Black"
	case Red:
		return "Red"
	default:
	}
	return "RBColor(?)"
}

type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

func (d RBDirection) String() string {
	switch d {
	case Left:
		return "Left"
	case Root:
		return "Root"
	case Right:
		return "Right"
	default:
	}
	return "RBDirection(?)"
}

// Index is an opaque arena position. It stays valid for the lifetime
// of the storage that issued it.
type Index uint32

// RBNode is a read-only structural view of one arena slot.
// Left, Right and Parent return nil for an absent link.
type RBNode[T any] interface {
	Index() Index
	Val() T
	Color() RBColor
	Left() RBNode[T]
	Right() RBNode[T]
	Parent() RBNode[T]
}

// RBTreeSet is an ordered set that only grows. Inserting a value equal
// to a stored one keeps the stored value.
//
// It is not safe for concurrent use. Trees sharing one SharedStorage
// must not be mutated concurrently either.
type RBTreeSet[T any] interface {
	Len() int64
	Root() RBNode[T]
	Node(idx Index) RBNode[T]
	// Insert returns the index where val resides, the pre-existing
	// one if an equal value was already stored.
	Insert(val T) Index
	Find(val T) (Index, bool)
	Contains(val T) bool
	Get(idx Index) T
	// Iter walks the parent links and allocates nothing but the cursor.
	Iter() *Iterator[T]
	All() iter.Seq[T]
	// Foreach is the inorder traversal with an explicit stack. pos is
	// the inorder position, not an arena Index. It stops when action
	// returns false.
	Foreach(action func(pos int64, color RBColor, val T) bool)
	// Dump prints the whole arena, one slot per line.
	Dump() string
}
