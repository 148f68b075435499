// Package sprt implements the Sequential Probability Ratio Test over
// pentanomial match outcomes: a maximum-likelihood estimator (via an
// iterative fixed point bracketed by the ITP root-finder) feeding a
// log-likelihood ratio termination gate.
package sprt

import (
	"math"

	"github.com/herohde/usitourney/pkg/tourney"
)

// Parameters describes a two-sided SPRT: H0 (true strength difference is
// nelo0) against H1 (true strength difference is nelo1), with Type I/II
// error rates alpha/beta.
type Parameters struct {
	Nelo0, Nelo1 float64
	Alpha, Beta  float64
}

// t0 is the standardized mean of H0 on the pair-score scale.
func (p Parameters) t0() float64 { return p.Nelo0 / tourney.CET }

// t1 is the standardized mean of H1 on the pair-score scale.
func (p Parameters) t1() float64 { return p.Nelo1 / tourney.CET }

// LowerBound is the LLR threshold below which H0 is accepted.
func (p Parameters) LowerBound() float64 { return math.Log(p.Beta / (1 - p.Alpha)) }

// UpperBound is the LLR threshold above which H1 is accepted.
func (p Parameters) UpperBound() float64 { return math.Log((1 - p.Beta) / p.Alpha) }

// LLR computes the log-likelihood ratio of the observed pentanomial
// distribution under the H1/H0 pair of Parameters.
func LLR(penta tourney.Penta, params Parameters) float64 {
	n := penta.PairCount()
	if n == 0 {
		return 0
	}

	p := regularize(penta.Probabilities())

	q0 := mle(p, params.t0()*math.Sqrt2)
	q1 := mle(p, params.t1()*math.Sqrt2)

	var sum float64
	for i := range p {
		sum += p[i] * (math.Log(q1[i]) - math.Log(q0[i]))
	}
	return float64(n) * sum
}

// ShouldTerminate reports whether the observed pentanomial distribution's
// LLR has exited the SPRT's continuation region. It is evaluated afresh
// on each call; LLR only needs to cross a bound once for the tournament to
// stop, since RoundRobin.Stop is never undone.
func ShouldTerminate(penta tourney.Penta, params Parameters) bool {
	if penta.PairCount() == 0 {
		return false
	}
	llr := LLR(penta, params)
	return llr <= params.LowerBound() || llr >= params.UpperBound()
}
