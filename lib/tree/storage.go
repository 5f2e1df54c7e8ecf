package tree

// NodeStorage is the arena behind an RBTreeSet. The engine depends only
// on this capability set, so the same engine runs over an exclusively
// owned arena or over a SharedStorage.
//
// Indices are issued by push (index = length before push), and are
// never invalidated nor reused. The pointer returned by get is used to
// read and to mutate a slot, and it must not be kept across a push.
// Passing an index never issued by the storage is a checked failure
// in invariants builds; the engine is the only caller and only passes
// indices it got from push.
//
// The interface is sealed, the node layout is private to this package.
type NodeStorage[T any] interface {
	len() int
	push(node rbNode[T]) Index
	get(idx Index) *rbNode[T]
	// acquire and release bracket one mutation, see SharedStorage.
	acquire()
	release()
}
