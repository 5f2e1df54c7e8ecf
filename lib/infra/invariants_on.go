//go:build invariants || race

package infra

import (
	"fmt"
	"sync/atomic"
)

const invariantsEnabled = true

// Assert panics with msg if cond is false.
func Assert(cond bool, msg string) {
	if !cond {
		panic( /* debug assertion */ msg)
	}
}

// CheckBounds panics if i is not in the range [0, n).
func CheckBounds[T Index](i, n T) {
	if i < 0 || i >= n {
		panic( /* debug assertion */ fmt.Sprintf("index %d out of bounds [0, %d)", i, n))
	}
}

// BorrowChecker detects overlapping exclusive borrows of a value that
// several owners are allowed to mutate in turn. It is not a lock: a
// conflicting Acquire panics instead of waiting.
type BorrowChecker struct {
	borrowed atomic.Bool
}

func (bc *BorrowChecker) Acquire() {
	if !bc.borrowed.CompareAndSwap(false, true) {
		panic( /* debug assertion */ "already mutably borrowed")
	}
}

func (bc *BorrowChecker) Release() {
	if !bc.borrowed.CompareAndSwap(true, false) {
		panic( /* debug assertion */ "release without borrow")
	}
}
