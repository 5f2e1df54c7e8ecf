//go:build !invariants && !race

package infra

const invariantsEnabled = false

// Assert is a no-op in non-invariant builds.
func Assert(cond bool, msg string) {}

// CheckBounds is a no-op in non-invariant builds. The Go runtime still
// bounds-checks the slice access that follows.
func CheckBounds[T Index](i, n T) {}

// BorrowChecker is empty and does nothing in non-invariant builds.
type BorrowChecker struct{}

func (bc *BorrowChecker) Acquire() {}

func (bc *BorrowChecker) Release() {}
