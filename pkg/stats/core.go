// Package stats implements the WDL and pentanomial accumulators that pair
// sibling games (same opening, swapped colors) into a single pentanomial
// bucket.
package stats

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/herohde/usitourney/pkg/tourney"
)

// pair is an ordered key into the WDL and Penta boards: the tally under
// (a,b) is a's record against b, over games in both colors.
type pair struct {
	a, b tourney.EngineID
}

type pending struct {
	pair   pair
	winner tourney.Color
	isDraw bool
}

// ErrInvariantViolation reports a programmer error: a sibling pairing whose
// engine pair does not match its expected reverse. This must fail loudly
// rather than silently mis-account a result.
var ErrInvariantViolation = fmt.Errorf("stats: sibling pairing invariant violated")

// Core accumulates WDL and pentanomial statistics across all played
// matches. Every method serializes on an internal mutex; results are posted
// from a single coordinator goroutine.
type Core struct {
	mu sync.Mutex

	wdl     map[pair]tourney.Wdl
	penta   map[pair]tourney.Penta
	pending map[uint64]pending
	engines map[tourney.EngineID]struct{}
}

// New constructs an empty Core.
func New() *Core {
	return &Core{
		wdl:     map[pair]tourney.Wdl{},
		penta:   map[pair]tourney.Penta{},
		pending: map[uint64]pending{},
		engines: map[tourney.EngineID]struct{}{},
	}
}

// Post records one MatchResult, updating the WDL tally and, once both
// halves of a sibling pair have been seen, the pentanomial tally.
func (c *Core) Post(result tourney.MatchResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, b := result.Ticket.Pair()
	p := pair{a, b}
	rp := pair{b, a}

	c.engines[a] = struct{}{}
	c.engines[b] = struct{}{}

	w, isDraw := outcomeWdl(result.Outcome)
	c.wdl[p] = c.wdl[p].Add(w)
	c.wdl[rp] = c.wdl[rp].Add(w.Flip())

	winner, _ := result.Outcome.WinnerOf().V()
	sibling := result.Ticket.Sibling()

	if entry, ok := c.pending[sibling]; ok {
		// entry was posted from the sibling ticket, whose engine pair is the
		// reverse of this one (colors swapped, same two engines).
		if entry.pair != rp {
			return fmt.Errorf("%w: ticket %v pair %v vs sibling %v pair %v",
				ErrInvariantViolation, result.Ticket.ID, p, sibling, entry.pair)
		}

		bucket := combine(winner, isDraw, entry.winner, entry.isDraw)
		c.penta[p] = c.penta[p].Add(bucket)
		c.penta[rp] = c.penta[rp].Add(bucket.Flip())
		delete(c.pending, sibling)
		return nil
	}

	c.pending[result.Ticket.ID] = pending{pair: p, winner: winner, isDraw: isDraw}
	return nil
}

func outcomeWdl(o tourney.GameOutcome) (tourney.Wdl, bool) {
	if o.Kind == tourney.DrawOutcome {
		return tourney.Wdl{D: 1}, true
	}
	if o.Winner == tourney.First {
		return tourney.Wdl{W: 1}, false
	}
	return tourney.Wdl{L: 1}, false
}

// combine maps the (first-ticket result, sibling-ticket result) pair onto a
// single Penta bucket, from the perspective of engine a (this ticket's
// First). The sibling's result is passed as recorded on the sibling ticket,
// where a played Second; combine reorients it itself.
func combine(winner tourney.Color, isDraw bool, sibWinner tourney.Color, sibIsDraw bool) tourney.Penta {
	// score of engine `a` (always First in `p`) in each game: 1 = a won,
	// 0.5 = draw, 0 = a lost. The sibling ticket has a playing Second, so a
	// "win" there (Winner == Second when isDraw==false) means `a` won.
	scoreA := func(w tourney.Color, draw bool, aIsFirst bool) float64 {
		if draw {
			return 0.5
		}
		aWon := (aIsFirst && w == tourney.First) || (!aIsFirst && w == tourney.Second)
		if aWon {
			return 1
		}
		return 0
	}

	s1 := scoreA(winner, isDraw, true)
	s2 := scoreA(sibWinner, sibIsDraw, false)
	total := s1 + s2

	switch {
	case total == 0:
		return tourney.Penta{LL: 1}
	case total == 0.5:
		return tourney.Penta{DL: 1}
	case total == 1 && s1 == s2:
		return tourney.Penta{DD: 1}
	case total == 1:
		return tourney.Penta{WL: 1}
	case total == 1.5:
		return tourney.Penta{WD: 1}
	default: // total == 2
		return tourney.Penta{WW: 1}
	}
}

// Wdl returns a snapshot of the WDL tally for the ordered engine pair (a,b).
func (c *Core) Wdl(a, b tourney.EngineID) tourney.Wdl {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wdl[pair{a, b}]
}

// Penta returns a snapshot of the pentanomial tally for the ordered engine
// pair (a,b).
func (c *Core) Penta(a, b tourney.EngineID) tourney.Penta {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.penta[pair{a, b}]
}

// EngineIDs returns every engine that has played at least one match, sorted
// for a stable report ordering.
func (c *Core) EngineIDs() []tourney.EngineID {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]tourney.EngineID, 0, len(c.engines))
	for id := range c.engines {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// AllWdl returns the WDL tally for id against every opponent it has played,
// summed together.
func (c *Core) AllWdl(id tourney.EngineID) tourney.Wdl {
	c.mu.Lock()
	defer c.mu.Unlock()

	var sum tourney.Wdl
	for p, w := range c.wdl {
		if p.a == id {
			sum = sum.Add(w)
		}
	}
	return sum
}

// AllPenta returns the pentanomial tally for id against every opponent it
// has played, summed together.
func (c *Core) AllPenta(id tourney.EngineID) tourney.Penta {
	c.mu.Lock()
	defer c.mu.Unlock()

	var sum tourney.Penta
	for p, pt := range c.penta {
		if p.a == id {
			sum = sum.Add(pt)
		}
	}
	return sum
}

// PentaScore computes the mean pair-score and its variance for a Penta
// distribution.
func PentaScore(p tourney.Penta) (mean, variance float64) {
	probs := p.Probabilities()
	for i, v := range tourney.PentaScoreValues {
		mean += probs[i] * v
	}
	for i, v := range tourney.PentaScoreValues {
		d := v - mean
		variance += probs[i] * d * d
	}
	return mean, variance
}

// EloConfidence is the 97.5% normal quantile used for the Elo half-width.
const EloConfidence = 1.959963984540054

// Elo converts a pair-score in (0,1) to a logistic Elo difference.
func Elo(score float64) float64 {
	if score <= 0 || score >= 1 {
		return math.Inf(int(math.Copysign(1, score-0.5)))
	}
	return -400 * math.Log10(1/score-1)
}

// EloWithError returns the Elo estimate and its 97.5%-confidence half-width
// for a Penta distribution.
func EloWithError(p tourney.Penta) (elo, errBar float64) {
	n := p.PairCount()
	if n == 0 {
		return 0, 0
	}
	mean, variance := PentaScore(p)
	elo = Elo(mean)

	stderr := math.Sqrt(variance / float64(n))
	hi := Elo(clamp01(mean + EloConfidence*stderr))
	lo := Elo(clamp01(mean - EloConfidence*stderr))
	errBar = (hi - lo) / 2
	return elo, errBar
}

func clamp01(v float64) float64 {
	if v < 1e-9 {
		return 1e-9
	}
	if v > 1-1e-9 {
		return 1 - 1e-9
	}
	return v
}

// NormalizedElo computes nElo = (score - 0.5) * sqrt(2) / sqrt(var) * c_ET.
func NormalizedElo(p tourney.Penta, cET float64) float64 {
	mean, variance := PentaScore(p)
	if variance <= 0 {
		return 0
	}
	return (mean - 0.5) * math.Sqrt2 / math.Sqrt(variance) * cET
}
