package tree

import (
	"math"
	"strconv"

	"github.com/benz9527/xarena/lib/infra"
)

// slotRef is an optional arena index. The max uint32 is reserved as
// "none" instead of a separate presence flag, so a link costs 4 bytes.
// The arena asserts it never issues that index.
type slotRef uint32

const noneSlot slotRef = math.MaxUint32

func noneRef() slotRef {
	return noneSlot
}

func newSlotRef(idx Index) slotRef {
	infra.Assert(slotRef(idx) != noneSlot, "[rbtree] slot index collides with none")
	return slotRef(idx)
}

func (ref slotRef) get() (Index, bool) {
	if ref == noneSlot {
		return 0, false
	}
	return Index(ref), true
}

func (ref slotRef) isNone() bool {
	return ref == noneSlot
}

func (ref slotRef) is(idx Index) bool {
	return ref == slotRef(idx)
}

// replaceIfAbsent sets the reference only if it is none and reports
// whether it did.
func (ref *slotRef) replaceIfAbsent(idx Index) bool {
	infra.Assert(slotRef(idx) != noneSlot, "[rbtree] slot index collides with none")
	if *ref != noneSlot {
		return false
	}
	*ref = slotRef(idx)
	return true
}

func (ref slotRef) unwrap() Index {
	infra.Assert(ref != noneSlot, "[rbtree] unwrap a none slot")
	return Index(ref)
}

func (ref slotRef) String() string {
	if ref == noneSlot {
		return "none"
	}
	return strconv.FormatUint(uint64(ref), 10)
}
