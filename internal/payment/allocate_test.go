package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocateEvenSplit(t *testing.T) {
	parts := Allocate(1200, 4)
	assert.Equal(t, []float64{300, 300, 300, 300}, parts)
}

func TestAllocateRemainderGoesLast(t *testing.T) {
	parts := Allocate(100, 3)
	assert.Equal(t, []float64{33.33, 33.33, 33.34}, parts)

	var sum float64
	for _, p := range parts {
		sum += p
	}
	assert.Equal(t, 100.0, roundCents(sum))
}

func TestAllocateSinglePart(t *testing.T) {
	assert.Equal(t, []float64{999.99}, Allocate(999.99, 1))
}

func TestAllocateDegenerate(t *testing.T) {
	assert.Nil(t, Allocate(100, 0))
	assert.Nil(t, Allocate(100, -2))
}

func TestAllocateSumsToTotal(t *testing.T) {
	totals := []float64{50_000, 9999.99, 0.01, 7904.99}
	for _, total := range totals {
		for n := 1; n <= 12; n++ {
			parts := Allocate(total, n)
			var sum float64
			for _, p := range parts {
				sum += p
			}
			assert.InDelta(t, total, sum, 0.005, "total=%v n=%d", total, n)
		}
	}
}
