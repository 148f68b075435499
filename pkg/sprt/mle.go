package sprt

import (
	"github.com/herohde/usitourney/pkg/tourney"
	"math"
)

// regularizationFloor keeps logs finite and the fixed point well-posed on
// extreme empirical distributions.
const regularizationFloor = 1e-3

// mleConvergence is the fixed-point stopping tolerance.
const mleConvergence = 1e-4

// regularize clamps each p_i up to at least regularizationFloor.
func regularize(p [5]float64) [5]float64 {
	for i, v := range p {
		if v < regularizationFloor {
			p[i] = regularizationFloor
		}
	}
	return p
}

// meanVar computes the mean and variance of a 5-bucket probability vector
// against tourney.PentaScoreValues.
func meanVar(q [5]float64) (mean, variance float64) {
	for i, v := range tourney.PentaScoreValues {
		mean += q[i] * v
	}
	for i, v := range tourney.PentaScoreValues {
		d := v - mean
		variance += q[i] * d * d
	}
	return mean, variance
}

// mle computes the maximum-likelihood 5-bucket distribution constrained to
// standardized mean t, given empirical (regularized) probabilities p, via
// the iterative fixed point of Van den Bergh's equation 4.9.
func mle(p [5]float64, t float64) [5]float64 {
	p = regularize(p)

	q := [5]float64{0.2, 0.2, 0.2, 0.2, 0.2}

	for iter := 0; iter < 200; iter++ {
		mu, variance := meanVar(q)
		sigma := math.Sqrt(variance)
		if sigma == 0 {
			break
		}

		var phi [5]float64
		for i, v := range tourney.PentaScoreValues {
			z := (v - mu) / sigma
			phi[i] = v - tourney.MeanRef - 0.5*t*sigma*(1+z*z)
		}

		maxPhi, minPhi := phi[0], phi[0]
		for _, v := range phi {
			if v > maxPhi {
				maxPhi = v
			}
			if v < minPhi {
				minPhi = v
			}
		}
		if maxPhi <= 0 || minPhi >= 0 {
			// Degenerate bracket (e.g. t == 0, phi all of one sign): no
			// correction needed.
			break
		}

		lo, hi := -1/maxPhi, -1/minPhi
		f := func(theta float64) float64 {
			var sum float64
			for i := range p {
				sum += p[i] * phi[i] / (1 + theta*phi[i])
			}
			return sum
		}
		theta := itp(f, lo, hi)

		var next [5]float64
		for i := range p {
			next[i] = p[i] / (1 + theta*phi[i])
		}

		maxDelta := 0.0
		for i := range q {
			d := math.Abs(next[i] - q[i])
			if d > maxDelta {
				maxDelta = d
			}
		}
		q = next
		if maxDelta < mleConvergence {
			break
		}
	}

	return q
}
