package sprt_test

import (
	"math"
	"testing"

	"github.com/herohde/usitourney/pkg/sprt"
	"github.com/herohde/usitourney/pkg/tourney"
	"github.com/stretchr/testify/assert"
)

func TestSPRTAcceptH1(t *testing.T) {
	params := sprt.Parameters{Nelo0: 0, Nelo1: 10, Alpha: 0.05, Beta: 0.05}
	penta := tourney.Penta{WW: 100, WD: 30, DD: 10, WL: 5, DL: 3, LL: 2}

	llr := sprt.LLR(penta, params)
	assert.GreaterOrEqual(t, llr, math.Log(0.95/0.05))
	assert.True(t, sprt.ShouldTerminate(penta, params))
}

func TestSPRTAcceptH0(t *testing.T) {
	params := sprt.Parameters{Nelo0: 0, Nelo1: 10, Alpha: 0.05, Beta: 0.05}
	penta := tourney.Penta{WW: 2, WD: 3, DD: 10, WL: 5, DL: 30, LL: 100}

	llr := sprt.LLR(penta, params)
	assert.LessOrEqual(t, llr, math.Log(0.05/0.95))
	assert.True(t, sprt.ShouldTerminate(penta, params))
}

func TestSPRTNoDataDoesNotTerminate(t *testing.T) {
	params := sprt.Parameters{Nelo0: 0, Nelo1: 10, Alpha: 0.05, Beta: 0.05}
	assert.False(t, sprt.ShouldTerminate(tourney.Penta{}, params))
}

func TestSPRTContinuationRegionDoesNotTerminate(t *testing.T) {
	params := sprt.Parameters{Nelo0: 0, Nelo1: 10, Alpha: 0.05, Beta: 0.05}
	// A small, nearly balanced sample should sit inside the continuation
	// region rather than cross either bound.
	penta := tourney.Penta{WW: 2, WD: 1, DD: 2, WL: 1, DL: 1, LL: 2}
	assert.False(t, sprt.ShouldTerminate(penta, params))
}

func TestSPRTBoundsDerivation(t *testing.T) {
	params := sprt.Parameters{Nelo0: 0, Nelo1: 10, Alpha: 0.05, Beta: 0.05}
	assert.InDelta(t, math.Log(0.05/0.95), params.LowerBound(), 1e-9)
	assert.InDelta(t, math.Log(0.95/0.05), params.UpperBound(), 1e-9)
}
