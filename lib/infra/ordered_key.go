package infra

import "cmp"

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type Integer interface {
	Signed | Unsigned
}

type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// Comparator reports the order of i relative to j.
//  1. i == j, return 0
//  2. i > j, return a positive number, turn to right part.
//  3. i < j, return a negative number, turn to left part.
//
// It must describe a strict total order. NaN keys are ordered
// before every other float like cmp.Compare does.
type Comparator[T any] func(i, j T) int

// OrderedKeyComparator returns the natural ascending order of K.
func OrderedKeyComparator[K OrderedKey]() Comparator[K] {
	return cmp.Compare[K]
}
