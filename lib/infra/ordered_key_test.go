package infra

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderedKeyComparator(t *testing.T) {
	u8 := OrderedKeyComparator[uint8]()
	assert.Less(t, u8(1, 2), 0)
	assert.Equal(t, 0, u8(7, 7))
	assert.Greater(t, u8(255, 0), 0)

	str := OrderedKeyComparator[string]()
	assert.Less(t, str("abc", "abd"), 0)
	assert.Greater(t, str("b", "abc"), 0)

	f64 := OrderedKeyComparator[float64]()
	assert.Less(t, f64(math.NaN(), math.Inf(-1)), 0)
	assert.Equal(t, 0, f64(math.NaN(), math.NaN()))
}

type celsius float32

func TestOrderedKeyComparator_DerivedType(t *testing.T) {
	c := OrderedKeyComparator[celsius]()
	assert.Less(t, c(-3.5, 0), 0)
}
