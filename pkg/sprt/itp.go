package sprt

import "math"

// itpConstants are the tuning parameters of the ITP method (Oliveira &
// Takahashi, 2020): k1 controls the truncation step size, k2 its growth
// rate, and n0 the slack added to the bisection-count-derived iteration
// cap.
const (
	itpK1  = 0.1
	itpK2  = 2.0
	itpN0  = 0.99
	itpTol = 1e-7
)

// itp finds a root of f on [a,b], where f(a) and f(b) have opposite sign, in
// either orientation, using the Interpolate/Truncate/Project method. It
// preserves bisection's minmax guarantee while matching the secant method's
// average-case performance.
func itp(f func(float64) float64, a, b float64) float64 {
	ya, yb := f(a), f(b)
	if ya == 0 {
		return a
	}
	if yb == 0 {
		return b
	}

	nHalf := math.Ceil(math.Log2((b - a) / (2 * itpTol)))
	if nHalf < 0 {
		nHalf = 0
	}
	nMax := nHalf + itpN0

	j := 0.0
	for b-a > 2*itpTol {
		// Interpolation: regula falsi estimate.
		xf := (yb*a - ya*b) / (yb - ya)

		// Truncation: bias toward the bisection midpoint by a shrinking
		// amount.
		xHalf := (a + b) / 2
		delta := itpK1 * math.Pow(b-a, itpK2)

		var sigma float64
		if xHalf-xf > 0 {
			sigma = 1
		} else if xHalf-xf < 0 {
			sigma = -1
		}

		var xt float64
		if delta <= math.Abs(xHalf-xf) {
			xt = xf + sigma*delta
		} else {
			xt = xHalf
		}

		// Projection: clamp to the interval guaranteed by the bisection
		// iteration budget.
		r := itpTol*math.Pow(2, nMax-j) - (b-a)/2
		var xITP float64
		if math.Abs(xt-xHalf) <= r {
			xITP = xt
		} else {
			xITP = xHalf - sigma*r
		}

		yITP := f(xITP)
		switch {
		case yITP == 0:
			return xITP
		case sameSign(yITP, ya):
			a, ya = xITP, yITP
		default:
			b, yb = xITP, yITP
		}
		j++
	}
	return (a + b) / 2
}

func sameSign(x, y float64) bool {
	return (x > 0) == (y > 0)
}
