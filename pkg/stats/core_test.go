package stats_test

import (
	"github.com/herohde/usitourney/pkg/stats"
	"github.com/herohde/usitourney/pkg/tourney"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func ticket(id uint64, a, b tourney.EngineID) tourney.MatchTicket {
	return tourney.MatchTicket{ID: id, Opening: tourney.NewPosition("startpos"), Engines: [2]tourney.EngineID{a, b}}
}

func TestTwoDrawnGamesSymmetric(t *testing.T) {
	c := stats.New()

	require.NoError(t, c.Post(tourney.MatchResult{Ticket: ticket(0, "A", "B"), Outcome: tourney.DrawBy(tourney.Agreement)}))
	require.NoError(t, c.Post(tourney.MatchResult{Ticket: ticket(1, "B", "A"), Outcome: tourney.DrawBy(tourney.Agreement)}))

	assert.Equal(t, tourney.Wdl{D: 2}, c.Wdl("A", "B"))
	assert.Equal(t, tourney.Wdl{D: 2}, c.Wdl("B", "A"))
	assert.Equal(t, tourney.Penta{DD: 1}, c.Penta("A", "B"))
	assert.Equal(t, tourney.Penta{DD: 1}, c.Penta("B", "A"))

	elo, _ := stats.EloWithError(c.Penta("A", "B"))
	assert.InDelta(t, 0, elo, 1e-9)
}

func TestWdlSymmetryInvariant(t *testing.T) {
	c := stats.New()
	require.NoError(t, c.Post(tourney.MatchResult{Ticket: ticket(0, "A", "B"), Outcome: tourney.Win(tourney.First, "")}))

	ab := c.Wdl("A", "B")
	ba := c.Wdl("B", "A")
	assert.Equal(t, ab.W, ba.L)
	assert.Equal(t, ab.L, ba.W)
	assert.Equal(t, ab.D, ba.D)
}

func TestPentaSymmetryInvariant(t *testing.T) {
	c := stats.New()
	require.NoError(t, c.Post(tourney.MatchResult{Ticket: ticket(0, "A", "B"), Outcome: tourney.Win(tourney.First, "")}))
	require.NoError(t, c.Post(tourney.MatchResult{Ticket: ticket(1, "B", "A"), Outcome: tourney.Win(tourney.Second, "")}))

	assert.Equal(t, c.Penta("A", "B"), c.Penta("B", "A").Flip())
}

func TestOutOfOrderArrivalMatchesInOrder(t *testing.T) {
	results := []tourney.MatchResult{
		{Ticket: ticket(0, "A", "B"), Outcome: tourney.Win(tourney.First, "")},
		{Ticket: ticket(1, "B", "A"), Outcome: tourney.DrawBy(tourney.Agreement)},
		{Ticket: ticket(2, "A", "B"), Outcome: tourney.DrawBy(tourney.Agreement)},
		{Ticket: ticket(3, "B", "A"), Outcome: tourney.Win(tourney.First, "")},
	}

	inOrder := stats.New()
	for _, r := range results {
		require.NoError(t, inOrder.Post(r))
	}

	outOfOrder := stats.New()
	for _, idx := range []int{1, 3, 0, 2} {
		require.NoError(t, outOfOrder.Post(results[idx]))
	}

	assert.Equal(t, inOrder.Penta("A", "B"), outOfOrder.Penta("A", "B"))
	assert.Equal(t, inOrder.Wdl("A", "B"), outOfOrder.Wdl("A", "B"))
}

func TestEngineIDsAndAllAggregates(t *testing.T) {
	c := stats.New()
	require.NoError(t, c.Post(tourney.MatchResult{Ticket: ticket(0, "A", "B"), Outcome: tourney.Win(tourney.First, "")}))
	require.NoError(t, c.Post(tourney.MatchResult{Ticket: ticket(1, "B", "A"), Outcome: tourney.Win(tourney.Second, "")}))
	require.NoError(t, c.Post(tourney.MatchResult{Ticket: ticket(2, "A", "C"), Outcome: tourney.Win(tourney.First, "")}))
	require.NoError(t, c.Post(tourney.MatchResult{Ticket: ticket(3, "C", "A"), Outcome: tourney.Win(tourney.Second, "")}))

	assert.Equal(t, []tourney.EngineID{"A", "B", "C"}, c.EngineIDs())

	allA := c.AllWdl("A")
	assert.Equal(t, uint64(4), allA.GameCount())
	assert.Equal(t, uint64(4), allA.W)

	allAPenta := c.AllPenta("A")
	assert.Equal(t, uint64(2), allAPenta.PairCount())
	assert.Equal(t, uint64(2), allAPenta.WW)
}

func TestNormalizedEloZeroVariance(t *testing.T) {
	// An all-wins Penta has zero variance; NormalizedElo must not divide by
	// zero.
	assert.Equal(t, float64(0), stats.NormalizedElo(tourney.Penta{WW: 5}, tourney.CET))
}

func TestPostInvariantViolation(t *testing.T) {
	c := stats.New()
	require.NoError(t, c.Post(tourney.MatchResult{Ticket: ticket(0, "A", "B"), Outcome: tourney.Win(tourney.First, "")}))
	// Sibling ticket 1 should be (B,A); post (A,C) instead to trigger the
	// invariant check.
	err := c.Post(tourney.MatchResult{Ticket: ticket(1, "A", "C"), Outcome: tourney.Win(tourney.First, "")})
	assert.ErrorIs(t, err, stats.ErrInvariantViolation)
}
