package tree

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/benz9527/xarena/lib/infra"
)

var (
	ErrRootColorViolation = errors.New("rbtree root color violation")
	ErrRedViolation       = errors.New("rbtree red violation")
	ErrBlackViolation     = errors.New("rbtree black violation")
	ErrLinkViolation      = errors.New("rbtree link violation")
	ErrOrderingViolation  = errors.New("rbtree ordering violation")
)

func isBlack[T any](node RBNode[T]) bool {
	return node == nil || node.Color() == Black
}

func isRed[T any](node RBNode[T]) bool {
	return node != nil && node.Color() == Red
}

// rbtree rule validation utilities.

func RootColorValidate[T any](tree RBTreeSet[T]) error {
	root := tree.Root()
	if root == nil {
		return nil
	}
	if root.Parent() != nil {
		return infra.WrapErrorStackWithMessage(ErrLinkViolation,
			fmt.Sprintf("root %d has a parent", root.Index()))
	}
	if !isBlack(root) {
		return infra.WrapErrorStackWithMessage(ErrRootColorViolation,
			fmt.Sprintf("root %d is red", root.Index()))
	}
	return nil
}

// Inorder traversal to validate the red nodes and the parent links.
func RedViolationValidate[T any](tree RBTreeSet[T]) error {
	size := tree.Len()
	var aux RBNode[T] = tree.Root()
	if size <= 0 || aux == nil {
		return nil
	}

	stack := make([]RBNode[T], 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.Left() {
		stack = append(stack, aux)
	}

	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		aux = stack[size-1]
		stack = stack[:size-1]
		for _, child := range []RBNode[T]{aux.Left(), aux.Right()} {
			if child == nil {
				continue
			}
			if p := child.Parent(); p == nil || p.Index() != aux.Index() {
				return infra.WrapErrorStackWithMessage(ErrLinkViolation,
					fmt.Sprintf("child %d does not link back to %d", child.Index(), aux.Index()))
			}
			if isRed(aux) && isRed(child) {
				return infra.WrapErrorStackWithMessage(ErrRedViolation,
					fmt.Sprintf("red node %d has red child %d", aux.Index(), child.Index()))
			}
		}

		for aux = aux.Right(); aux != nil; aux = aux.Left() {
			stack = append(stack, aux)
		}
	}
	return nil
}

// blackHeight counts the black nodes on every path down from node,
// absent children included. The left and right counts of each subtree
// must match.
func blackHeight[T any](node RBNode[T]) (int, error) {
	if node == nil {
		return 1, nil
	}
	l, err := blackHeight(node.Left())
	if err != nil {
		return 0, err
	}
	r, err := blackHeight(node.Right())
	if err != nil {
		return 0, err
	}
	if l != r {
		return 0, infra.WrapErrorStackWithMessage(ErrBlackViolation,
			fmt.Sprintf("node %d black heights left %d, right %d", node.Index(), l, r))
	}
	if isBlack(node) {
		l++
	}
	return l, nil
}

/*
<X> is a RED node.
[X] is a BLACK node (or absent).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

Each absent child to root black depth are equal.
*/
func BlackViolationValidate[T any](tree RBTreeSet[T]) error {
	_, err := blackHeight(tree.Root())
	return err
}

// OrderingValidate checks the tree yields exactly expected, which has to
// be strictly ascending by cmp.
func OrderingValidate[T any](tree RBTreeSet[T], expected []T, cmp infra.Comparator[T]) error {
	i := 0
	var prev T
	for val := range tree.All() {
		if i > 0 && cmp(prev, val) >= 0 {
			return infra.WrapErrorStackWithMessage(ErrOrderingViolation,
				fmt.Sprintf("position %d: %v is not after %v", i, val, prev))
		}
		if i >= len(expected) {
			return infra.WrapErrorStackWithMessage(ErrOrderingViolation,
				fmt.Sprintf("position %d: unexpected %v", i, val))
		}
		if cmp(expected[i], val) != 0 {
			return infra.WrapErrorStackWithMessage(ErrOrderingViolation,
				fmt.Sprintf("position %d: expected %v, got %v", i, expected[i], val))
		}
		prev = val
		i++
	}
	if i != len(expected) {
		return infra.WrapErrorStackWithMessage(ErrOrderingViolation,
			fmt.Sprintf("expected %d values, got %d", len(expected), i))
	}
	if int64(i) != tree.Len() {
		return infra.WrapErrorStackWithMessage(ErrOrderingViolation,
			fmt.Sprintf("iterated %d values, len %d", i, tree.Len()))
	}
	return nil
}

// Validate runs all the structural checks and combines their errors.
func Validate[T any](tree RBTreeSet[T]) error {
	return multierr.Combine(
		RootColorValidate(tree),
		RedViolationValidate(tree),
		BlackViolationValidate(tree),
	)
}

// Dump prints the root index, then every arena slot. A shared arena
// prints the slots of the other trees too.
func (tree *rbTreeSet[T]) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "root: %d\n", tree.root)
	for i := 0; i < tree.nodes.len(); i++ {
		fmt.Fprintf(&b, "%d: %s\n", i, tree.node(Index(i)).String())
	}
	return b.String()
}
