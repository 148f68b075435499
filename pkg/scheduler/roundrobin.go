package scheduler

import (
	"context"
	"sort"
	"sync"

	"github.com/herohde/usitourney/pkg/book"
	"github.com/herohde/usitourney/pkg/tourney"
	"github.com/seekerror/logw"
)

// RoundRobin is the base Tournament: it emits sibling ticket pairs over the
// canonical (lexicographic) engine-pair order, advancing the opening book
// cursor once per pair, bounded by a fixed number of rounds.
type RoundRobin struct {
	mu sync.Mutex

	pairs [][2]tourney.EngineID
	tcs   map[tourney.EngineID]tourney.TimeControl
	book  *book.Book

	total uint64 // expected_maximum_match_count
	next  uint64 // next ticket id to emit

	pairIdx    int
	curOpening tourney.Position
	curPair    [2]tourney.EngineID

	completed uint64
	stopped   bool
}

// NewRoundRobin constructs a RoundRobin over the given engines, each with its
// own TimeControl, a shared opening book, and a fixed number of rounds. The
// canonical pair order is lexicographic over engine IDs.
func NewRoundRobin(engines []tourney.EngineID, tcs map[tourney.EngineID]tourney.TimeControl, b *book.Book, rounds uint64) *RoundRobin {
	sorted := append([]tourney.EngineID(nil), engines...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var pairs [][2]tourney.EngineID
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			pairs = append(pairs, [2]tourney.EngineID{sorted[i], sorted[j]})
		}
	}

	return &RoundRobin{
		pairs: pairs,
		tcs:   tcs,
		book:  b,
		total: rounds * uint64(len(pairs)) * 2,
	}
}

// Next implements Tournament.
func (r *RoundRobin) Next(ctx context.Context) (tourney.MatchTicket, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped || r.next >= r.total || len(r.pairs) == 0 {
		return tourney.MatchTicket{}, false
	}

	id := r.next
	r.next++

	if id%2 == 0 {
		pair := r.pairs[r.pairIdx]
		r.curPair = pair
		r.curOpening = r.book.Current()
		return r.ticket(id, pair[0], pair[1]), true
	}

	pair := r.curPair
	t := r.ticket(id, pair[1], pair[0])

	r.pairIdx++
	if r.pairIdx == len(r.pairs) {
		r.pairIdx = 0
	}
	r.book.Advance()

	return t, true
}

func (r *RoundRobin) ticket(id uint64, a, b tourney.EngineID) tourney.MatchTicket {
	return tourney.MatchTicket{
		ID:      id,
		Opening: r.curOpening,
		Engines: [2]tourney.EngineID{a, b},
		TC:      [2]tourney.TimeControl{r.tcs[a], r.tcs[b]},
	}
}

// Stop signals early termination: every later Next call returns false at
// once, while already-dispatched tickets still run to completion.
func (r *RoundRobin) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
}

// MatchStarted implements Tournament. The base scheduler does not need to
// track in-flight tickets itself; wrappers may override.
func (r *RoundRobin) MatchStarted(ticket tourney.MatchTicket) {}

// MatchComplete implements Tournament.
func (r *RoundRobin) MatchComplete(result tourney.MatchResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
}

// PrintIntervalReport implements Tournament with a minimal progress line.
// StatsWrapper layers the detailed standings report.
func (r *RoundRobin) PrintIntervalReport(ctx context.Context) {
	r.mu.Lock()
	completed, total := r.completed, r.total
	r.mu.Unlock()
	logw.Infof(ctx, "Tournament progress: %v/%v matches complete", completed, total)
}

// TournamentComplete implements Tournament.
func (r *RoundRobin) TournamentComplete() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completed >= r.dispatchedLocked()
}

// dispatchedLocked returns how many tickets the tournament dispatches in
// all: total, or, after Stop, the number handed out before it. Must be
// called with mu held.
func (r *RoundRobin) dispatchedLocked() uint64 {
	if r.stopped && r.next < r.total {
		return r.next
	}
	return r.total
}

// ExpectedMaximumMatchCount implements Tournament.
func (r *RoundRobin) ExpectedMaximumMatchCount() uint64 {
	return r.total
}
