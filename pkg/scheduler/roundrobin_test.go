package scheduler_test

import (
	"context"
	"testing"

	"github.com/herohde/usitourney/pkg/book"
	"github.com/herohde/usitourney/pkg/scheduler"
	"github.com/herohde/usitourney/pkg/sprt"
	"github.com/herohde/usitourney/pkg/stats"
	"github.com/herohde/usitourney/pkg/tourney"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openingBook(t *testing.T, n int) *book.Book {
	t.Helper()
	openings := make([]tourney.Position, n)
	for i := range openings {
		openings[i] = tourney.NewPosition("startpos")
	}
	b, err := book.New(openings)
	require.NoError(t, err)
	return b
}

func tcs(engines []tourney.EngineID) map[tourney.EngineID]tourney.TimeControl {
	m := map[tourney.EngineID]tourney.TimeControl{}
	for _, e := range engines {
		m[e] = tourney.TimeControl{}
	}
	return m
}

func TestRoundRobinSiblingPairing(t *testing.T) {
	engines := []tourney.EngineID{"B", "A"} // deliberately unsorted
	rr := scheduler.NewRoundRobin(engines, tcs(engines), openingBook(t, 3), 1)

	t0, ok := rr.Next(context.Background())
	require.True(t, ok)
	t1, ok := rr.Next(context.Background())
	require.True(t, ok)

	assert.EqualValues(t, 0, t0.ID)
	assert.EqualValues(t, 1, t1.ID)
	assert.Equal(t, tourney.EngineID("A"), t0.Engines[tourney.First])
	assert.Equal(t, tourney.EngineID("B"), t0.Engines[tourney.Second])
	assert.Equal(t, tourney.EngineID("B"), t1.Engines[tourney.First])
	assert.Equal(t, tourney.EngineID("A"), t1.Engines[tourney.Second])
	assert.Equal(t, t0.Opening, t1.Opening)
}

func TestRoundRobinExpectedMaximumMatchCount(t *testing.T) {
	engines := []tourney.EngineID{"A", "B", "C"}
	rr := scheduler.NewRoundRobin(engines, tcs(engines), openingBook(t, 5), 2)
	// n_pairs = 3, R = 2 => 12.
	assert.EqualValues(t, 12, rr.ExpectedMaximumMatchCount())
}

func TestRoundRobinExhaustsAfterRounds(t *testing.T) {
	engines := []tourney.EngineID{"A", "B"}
	rr := scheduler.NewRoundRobin(engines, tcs(engines), openingBook(t, 2), 1)

	count := 0
	for {
		_, ok := rr.Next(context.Background())
		if !ok {
			break
		}
		count++
	}
	assert.Equal(t, 2, count)

	_, ok := rr.Next(context.Background())
	assert.False(t, ok)
}

func TestRoundRobinStopHaltsFutureTickets(t *testing.T) {
	engines := []tourney.EngineID{"A", "B", "C"}
	rr := scheduler.NewRoundRobin(engines, tcs(engines), openingBook(t, 5), 3)

	_, ok := rr.Next(context.Background())
	require.True(t, ok)

	rr.Stop()
	_, ok = rr.Next(context.Background())
	assert.False(t, ok)
}

func TestStatsWrapperStopsOnSPRTBound(t *testing.T) {
	engines := []tourney.EngineID{"A", "B"}
	rr := scheduler.NewRoundRobin(engines, tcs(engines), openingBook(t, 1), 1000)

	core := stats.New()
	params := sprt.Parameters{Nelo0: 0, Nelo1: 10, Alpha: 0.05, Beta: 0.05}
	w := scheduler.NewStatsWrapper(rr, core, "A", "B", lang.Some(params))

	// Feed a lopsided sibling pair directly, bypassing ticket dispatch, to
	// drive the LLR across the upper bound (each all-win pair adds about
	// 0.04, so 100 pairs reach about 4.0 against a bound of 2.944).
	for i := 0; i < 100; i++ {
		id := uint64(i * 2)
		w.MatchComplete(tourney.MatchResult{
			Ticket:  tourney.MatchTicket{ID: id, Engines: [2]tourney.EngineID{"A", "B"}},
			Outcome: tourney.Win(tourney.First, ""),
		})
		w.MatchComplete(tourney.MatchResult{
			Ticket:  tourney.MatchTicket{ID: id + 1, Engines: [2]tourney.EngineID{"B", "A"}},
			Outcome: tourney.Win(tourney.Second, ""),
		})
	}

	_, ok := w.Next(context.Background())
	assert.False(t, ok, "tournament should have stopped once SPRT crossed the upper bound")
}

func TestStatsWrapperWithoutSPRTNeverStops(t *testing.T) {
	engines := []tourney.EngineID{"A", "B"}
	rr := scheduler.NewRoundRobin(engines, tcs(engines), openingBook(t, 1), 1)

	core := stats.New()
	w := scheduler.NewStatsWrapper(rr, core, "A", "B", lang.Optional[sprt.Parameters]{})

	w.MatchComplete(tourney.MatchResult{
		Ticket:  tourney.MatchTicket{ID: 0, Engines: [2]tourney.EngineID{"A", "B"}},
		Outcome: tourney.DrawBy(tourney.Agreement),
	})
	_, ok := w.Next(context.Background())
	assert.True(t, ok)
}
