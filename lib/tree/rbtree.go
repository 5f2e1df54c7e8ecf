package tree

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xarena/lib/infra"
	"github.com/benz9527/xarena/xlog"
)

var _ RBTreeSet[uint8] = (*rbTreeSet[uint8])(nil)

type rbTreeSet[T any] struct {
	nodes  NodeStorage[T]
	cmp    infra.Comparator[T]
	logger xlog.XLogger
	stats  *rbTreeStats
	root   Index
	count  int64
}

func (tree *rbTreeSet[T]) node(idx Index) *rbNode[T] {
	return tree.nodes.get(idx)
}

// direction reports on which side of its parent the node at idx hangs.
func (tree *rbTreeSet[T]) direction(idx Index) RBDirection {
	p, ok := tree.node(idx).parent.get()
	if !ok {
		return Root
	}
	if tree.node(p).isRight(idx) {
		return Right
	}
	return Left
}

func (tree *rbTreeSet[T]) Len() int64 {
	return tree.count
}

func (tree *rbTreeSet[T]) Root() RBNode[T] {
	return nodeView(tree.nodes, newSlotRef(tree.root))
}

func (tree *rbTreeSet[T]) Node(idx Index) RBNode[T] {
	infra.CheckBounds(int(idx), tree.nodes.len())
	return nodeView(tree.nodes, newSlotRef(idx))
}

func (tree *rbTreeSet[T]) Get(idx Index) T {
	return tree.node(idx).val
}

// References:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. Absent children are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   absent children goes through the same number of black nodes. (black-violation)
// p5. The root is black.
//
// Links are arena indices, a rotation only rewrites the link fields of
// existing slots and never pushes.

/*
		 |                         |
		 X                         Y
		/ \     leftRotate(X)     / \
	   L   Y    ============>    X   Yr
		  / \                   / \
		Yl   Yr                L   Yl
*/
func (tree *rbTreeSet[T]) leftRotate(x Index) {
	xn := tree.node(x)
	infra.Assert(!xn.right.isNone(), "[rbtree] left rotate node x without right child")

	y := xn.right.unwrap()
	yn := tree.node(y)
	p, dir := xn.parent, tree.direction(x)

	xn.right = yn.left
	if yl, ok := yn.left.get(); ok {
		tree.node(yl).parent = newSlotRef(x)
	}
	yn.left = newSlotRef(x)
	xn.parent = newSlotRef(y)
	yn.parent = p

	switch dir {
	case Root:
		tree.root = y
	case Left:
		tree.node(p.unwrap()).left = newSlotRef(y)
	case Right:
		tree.node(p.unwrap()).right = newSlotRef(y)
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to left-rotate")
	}
	tree.stats.IncreaseRotationCount(Left)
}

/*
		 |                         |
		 X                         Y
		/ \     rightRotate(X)    / \
	   Y   R    ============>    Yl  X
	  / \                           / \
	Yl   Yr                       Yr   R
*/
func (tree *rbTreeSet[T]) rightRotate(x Index) {
	xn := tree.node(x)
	infra.Assert(!xn.left.isNone(), "[rbtree] right rotate node x without left child")

	y := xn.left.unwrap()
	yn := tree.node(y)
	p, dir := xn.parent, tree.direction(x)

	xn.left = yn.right
	if yr, ok := yn.right.get(); ok {
		tree.node(yr).parent = newSlotRef(x)
	}
	yn.right = newSlotRef(x)
	xn.parent = newSlotRef(y)
	yn.parent = p

	switch dir {
	case Root:
		tree.root = y
	case Left:
		tree.node(p.unwrap()).left = newSlotRef(y)
	case Right:
		tree.node(p.unwrap()).right = newSlotRef(y)
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to right-rotate")
	}
	tree.stats.IncreaseRotationCount(Right)
}

// Insert descends from the root. The new node takes the index equal to
// the arena length, so the empty child slot is claimed before the push.
func (tree *rbTreeSet[T]) Insert(val T) Index {
	tree.nodes.acquire()
	defer tree.nodes.release()

	x := Index(tree.nodes.len())
	aux := tree.root
	for {
		node := tree.node(aux)
		var next *slotRef
		res := tree.cmp(node.val, val)
		if /* equal */ res == 0 {
			tree.stats.IncreaseDuplicateCount()
			if tree.debugEnabled() {
				tree.logger.Debug("duplicate insert keeps the stored value",
					zap.Uint32("index", uint32(aux)),
				)
			}
			return aux
		} else /* node less */ if res < 0 {
			next = &node.right
		} else /* node greater */ {
			next = &node.left
		}

		if next.replaceIfAbsent(x) {
			break
		}
		aux = next.unwrap()
	}

	n := newRBNode(val)
	n.parent = newSlotRef(aux)
	if idx := tree.nodes.push(n); idx != x {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] arena issued an unexpected index")
	}
	tree.count++
	tree.insertRebalance(x)

	tree.stats.IncreaseInsertCount()
	if tree.debugEnabled() {
		tree.logger.Debug("inserted",
			zap.Uint32("index", uint32(x)),
			zap.Uint32("root", uint32(tree.root)),
			zap.Int64("len", tree.count),
		)
	}
	return x
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or absent).

im1: Current node X's parent P is black, nothing to fix.

im2: Current node X is the root. Paint it black.

im3: If both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
After repainted G into red may be still red-violation.
Continue from grandpa.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im4: The parent P is red but the uncle U is black. (red-violation)
X is opposite direction to P. Rotate P to opposite direction.
After rotation still red-violation, here must enter im5 to fix.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im5: Current node is the same direction as parent.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (tree *rbTreeSet[T]) insertRebalance(x Index) {
	for {
		pRef := tree.node(x).parent
		if /* im2 */ pRef.isNone() {
			break
		}
		p := pRef.unwrap()
		if /* im1 */ tree.node(p).isBlack() {
			break
		}

		gRef := tree.node(p).parent
		infra.Assert(!gRef.isNone(), "[rbtree] red parent without grandpa")
		if gRef.isNone() {
			tree.node(p).color = Black
			break
		}
		g := gRef.unwrap()

		pDir := tree.direction(p)
		var uRef slotRef
		if pDir == Left {
			uRef = tree.node(g).right
		} else {
			uRef = tree.node(g).left
		}

		if /* im3 */ u, ok := uRef.get(); ok && tree.node(u).isRed() {
			tree.node(p).color = Black
			tree.node(u).color = Black
			tree.node(g).color = Red
			tree.stats.IncreaseFixupCount("im3")
			tree.trace("im3", x)
			x = g
			continue
		}

		if /* im4 */ dir := tree.direction(x); dir != pDir {
			switch dir {
			case Left:
				tree.rightRotate(p)
			case Right:
				tree.leftRotate(p)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] insert violate (im4)")
			}
			tree.stats.IncreaseFixupCount("im4")
			tree.trace("im4", x)
			x, p = p, x // enter im5 to fix
		}

		tree.node(p).color = Black
		tree.node(g).color = Red
		switch /* im5 */ pDir {
		case Left:
			tree.rightRotate(g)
		case Right:
			tree.leftRotate(g)
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] insert violate (im5)")
		}
		tree.stats.IncreaseFixupCount("im5")
		tree.trace("im5", x)
		break
	}
	tree.node(tree.root).color = Black
}

func (tree *rbTreeSet[T]) debugEnabled() bool {
	return tree.logger != nil && tree.logger.Enabled(zapcore.DebugLevel)
}

func (tree *rbTreeSet[T]) trace(fixupCase string, x Index) {
	if !tree.debugEnabled() {
		return
	}
	tree.logger.Debug("fixup",
		zap.String("case", fixupCase),
		zap.Uint32("index", uint32(x)),
	)
}

func (tree *rbTreeSet[T]) Find(val T) (Index, bool) {
	for aux := newSlotRef(tree.root); !aux.isNone(); {
		idx := aux.unwrap()
		node := tree.node(idx)
		res := tree.cmp(node.val, val)
		if res == 0 {
			return idx, true
		} else if res < 0 {
			aux = node.right
		} else {
			aux = node.left
		}
	}
	return 0, false
}

func (tree *rbTreeSet[T]) Contains(val T) bool {
	_, ok := tree.Find(val)
	return ok
}

// Inorder traversal to implement the DFS.
func (tree *rbTreeSet[T]) Foreach(action func(pos int64, color RBColor, val T) bool) {
	size := tree.count
	if size <= 0 {
		return
	}

	stack := make([]Index, 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for aux := newSlotRef(tree.root); !aux.isNone(); aux = tree.node(aux.unwrap()).left {
		stack = append(stack, aux.unwrap())
	}

	pos := int64(0)
	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		top := stack[size-1]
		stack = stack[:size-1]
		node := tree.node(top)
		right := node.right
		if !action(pos, node.color, node.val) {
			return
		}
		pos++
		for aux := right; !aux.isNone(); aux = tree.node(aux.unwrap()).left {
			stack = append(stack, aux.unwrap())
		}
	}
}

type rbTreeSetCfg struct {
	logger    xlog.XLogger
	statsName string
	capacity  int
	arenaID   uint64 // 0 for an exclusive arena
}

func (cfg *rbTreeSetCfg) apply(opts ...RBTreeSetOpt) {
	for _, o := range opts {
		o(cfg)
	}
}

type RBTreeSetOpt func(*rbTreeSetCfg)

// WithRBTreeSetLogger traces the insert fixup cases at debug level.
func WithRBTreeSetLogger(logger xlog.XLogger) RBTreeSetOpt {
	return func(cfg *rbTreeSetCfg) {
		cfg.logger = logger
	}
}

// WithRBTreeSetStats enables the otel meters under "xarena/rbtree/<name>".
func WithRBTreeSetStats(name string) RBTreeSetOpt {
	return func(cfg *rbTreeSetCfg) {
		cfg.statsName = name
	}
}

// WithRBTreeSetCapacity pre-sizes an exclusive arena. Trees added to a
// SharedStorage ignore it.
func WithRBTreeSetCapacity(capacity int) RBTreeSetOpt {
	return func(cfg *rbTreeSetCfg) {
		cfg.capacity = capacity
	}
}

func newRBTreeSet[T any](nodes NodeStorage[T], root Index, cmp infra.Comparator[T], cfg *rbTreeSetCfg) *rbTreeSet[T] {
	tree := &rbTreeSet[T]{
		nodes: nodes,
		cmp:   cmp,
		root:  root,
		count: 1,
	}
	if cfg.logger != nil {
		tree.logger = cfg.logger.Named("rbtree")
	}
	if cfg.statsName != "" {
		treeID, arenaID := nextStatsID(), cfg.arenaID
		if arenaID == 0 {
			arenaID = treeID
		}
		tree.stats = newRBTreeStats(cfg.statsName, treeID, arenaID, tree.count, nodes.len)
	}
	return tree
}

// NewRBTreeSet creates a tree owning its arena, with first as the black
// root at index 0.
func NewRBTreeSet[T infra.OrderedKey](first T, opts ...RBTreeSetOpt) RBTreeSet[T] {
	return NewRBTreeSetFunc[T](first, infra.OrderedKeyComparator[T](), opts...)
}

func NewRBTreeSetFunc[T any](first T, cmp infra.Comparator[T], opts ...RBTreeSetOpt) RBTreeSet[T] {
	if cmp == nil {
		panic("[rbtree] nil comparator")
	}
	cfg := &rbTreeSetCfg{}
	cfg.apply(opts...)
	return newRBTreeSet[T](newVecStorageWith(first, cfg.capacity), 0, cmp, cfg)
}
