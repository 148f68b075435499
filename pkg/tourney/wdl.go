package tourney

import "fmt"

// Wdl is a wins/draws/losses tally from one engine's perspective. Additive;
// the zero value is the identity.
type Wdl struct {
	W, D, L uint64
}

// GameCount returns W+D+L.
func (w Wdl) GameCount() uint64 {
	return w.W + w.D + w.L
}

// Score returns the mean points-per-game fraction, (W + 0.5*D)/GameCount.
// Returns 0 for an empty tally.
func (w Wdl) Score() float64 {
	n := w.GameCount()
	if n == 0 {
		return 0
	}
	return (float64(w.W) + 0.5*float64(w.D)) / float64(n)
}

// Add returns the element-wise sum of two tallies.
func (w Wdl) Add(o Wdl) Wdl {
	return Wdl{W: w.W + o.W, D: w.D + o.D, L: w.L + o.L}
}

// Flip swaps wins and losses, viewing the tally from the opponent's side.
func (w Wdl) Flip() Wdl {
	return Wdl{W: w.L, D: w.D, L: w.W}
}

// Penta is the five-bucket (six-field, middle bucket collapsed on report)
// pentanomial tally over sibling game pairs: LL, DL, DD, WL, WD, WW.
type Penta struct {
	LL, DL, DD, WL, WD, WW uint64
}

// PairCount returns the total number of sibling pairs tallied.
func (p Penta) PairCount() uint64 {
	return p.LL + p.DL + p.DD + p.WL + p.WD + p.WW
}

// Add returns the element-wise sum of two tallies.
func (p Penta) Add(o Penta) Penta {
	return Penta{
		LL: p.LL + o.LL,
		DL: p.DL + o.DL,
		DD: p.DD + o.DD,
		WL: p.WL + o.WL,
		WD: p.WD + o.WD,
		WW: p.WW + o.WW,
	}
}

// Flip reverses perspective: LL<->WW, DL<->WD; DD and WL are symmetric under
// color swap and stay fixed.
func (p Penta) Flip() Penta {
	return Penta{
		LL: p.WW,
		DL: p.WD,
		DD: p.DD,
		WL: p.WL,
		WD: p.DL,
		WW: p.LL,
	}
}

// Middle collapses the DD and WL buckets for reporting.
func (p Penta) Middle() uint64 {
	return p.DD + p.WL
}

// DDWLRatio is the opening-balance diagnostic: the ratio of drawn pairs
// (DD, both games drawn) to split pairs (WL, each engine won once). A
// healthy, balanced opening book keeps this ratio within a narrow band;
// a skewed value suggests the pairing is not giving both colors a fair
// chance at the same opening. Returns +Inf if WL is zero and DD is not, and
// NaN if both are zero.
func (p Penta) DDWLRatio() float64 {
	return float64(p.DD) / float64(p.WL)
}

// String renders the five merged pentanomial buckets as
// "[ll, dl, dd+wl, wd, ww]".
func (p Penta) String() string {
	b := p.FiveBucket()
	return fmt.Sprintf("[%v, %v, %v, %v, %v]", b[0], b[1], b[2], b[3], b[4])
}

// FiveBucket merges DD and WL (both score 0.5 of a pair) into the five-value
// distribution [LL, DL, DD+WL, WD, WW] that the Elo and SPRT math of §4.6/
// §4.7 operates on.
func (p Penta) FiveBucket() [5]uint64 {
	return [5]uint64{p.LL, p.DL, p.Middle(), p.WD, p.WW}
}

// Probabilities returns the empirical probability of each of the five
// merged buckets ([LL, DL, DD+WL, WD, WW] order). If PairCount is zero,
// returns all zeros.
func (p Penta) Probabilities() [5]float64 {
	n := p.PairCount()
	if n == 0 {
		return [5]float64{}
	}
	b := p.FiveBucket()
	var out [5]float64
	for i, v := range b {
		out[i] = float64(v) / float64(n)
	}
	return out
}
