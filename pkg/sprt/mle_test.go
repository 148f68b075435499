package sprt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMleSumsToOne(t *testing.T) {
	p := [5]float64{0.02, 0.1, 0.5, 0.1, 0.28}
	q := mle(p, 0.1)

	var sum float64
	for _, v := range q {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestMleZeroMeanShiftApproximatesInput(t *testing.T) {
	// p is already symmetric around the 0.5 reference mean, so constraining
	// to standardized mean 0 should leave it essentially unchanged.
	p := [5]float64{0.1, 0.2, 0.4, 0.2, 0.1}
	q := mle(p, 0)

	for i := range p {
		assert.InDelta(t, p[i], q[i], 1e-4)
	}
}

func TestMleNonNegative(t *testing.T) {
	p := [5]float64{0.4, 0.1, 0.1, 0.1, 0.3}
	q := mle(p, 0.3)
	for _, v := range q {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.False(t, math.IsNaN(v))
	}
}
