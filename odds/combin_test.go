package odds

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinomial(t *testing.T) {
	tests := []struct {
		n, k int
		want int64
	}{
		{52, 5, 2_598_960},
		{48, 5, 1_712_304},
		{46, 5, 1_370_754},
		{45, 2, 990},
		{47, 1, 47},
		{10, 0, 1},
		{5, 5, 1},
		{5, 7, 0},
		{5, -1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, binomial(tt.n, tt.k), "C(%d,%d)", tt.n, tt.k)
	}
}

func TestCombinations(t *testing.T) {
	var got [][]int
	combinations(5, 3, 0, func(idx []int) bool {
		got = append(got, slices.Clone(idx))
		return true
	})
	assert.Len(t, got, 10)
	assert.Equal(t, []int{0, 1, 2}, got[0])
	assert.Equal(t, []int{2, 3, 4}, got[len(got)-1])
	assert.True(t, slices.IsSortedFunc(got, slices.Compare[[]int]))

	t.Run("start offset", func(t *testing.T) {
		n := 0
		combinations(6, 3, 2, func(idx []int) bool {
			assert.GreaterOrEqual(t, idx[0], 2)
			n++
			return true
		})
		assert.Equal(t, 4, n)
	})

	t.Run("k zero visits once", func(t *testing.T) {
		n := 0
		combinations(6, 0, 0, func(idx []int) bool {
			assert.Empty(t, idx)
			n++
			return true
		})
		assert.Equal(t, 1, n)
	})

	t.Run("stops when visit returns false", func(t *testing.T) {
		n := 0
		combinations(52, 2, 0, func([]int) bool {
			n++
			return n < 3
		})
		assert.Equal(t, 3, n)
	})
}

func TestHitProbability(t *testing.T) {
	assert.InDelta(t, 9.0/46, HitProbability(9, 46, 1), 1e-12)
	assert.InDelta(t, 1-703.0/1081, HitProbability(9, 47, 2), 1e-12)
	assert.Zero(t, HitProbability(0, 47, 2))
	assert.Equal(t, 1.0, HitProbability(47, 47, 1))
}
