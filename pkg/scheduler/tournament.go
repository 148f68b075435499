// Package scheduler implements the RoundRobin ticket generator and its
// decorator stack (stats, reporting).
package scheduler

import (
	"context"

	"github.com/herohde/usitourney/pkg/tourney"
)

// Tournament is the interface implemented by RoundRobin and layered by each
// wrapper in the decorator stack. Implementers should prefer composition
// over inheritance: a wrapper holds an inner Tournament and delegates to it.
type Tournament interface {
	// Next returns the next MatchTicket to run, or false if the tournament
	// has no more work (rounds exhausted or a decorator has signalled
	// early stop).
	Next(ctx context.Context) (tourney.MatchTicket, bool)

	// MatchStarted is invoked by the runner's dispatcher as it hands a
	// ticket to the worker pool.
	MatchStarted(ticket tourney.MatchTicket)

	// MatchComplete is invoked by the coordinator, in MatchResult arrival
	// order, as each game finishes.
	MatchComplete(result tourney.MatchResult)

	// PrintIntervalReport is invoked periodically by the coordinator.
	PrintIntervalReport(ctx context.Context)

	// TournamentComplete reports whether the tournament is over: either all
	// expected tickets have been completed, or a decorator has signalled
	// early stop and all in-flight matches have finished.
	TournamentComplete() bool

	// ExpectedMaximumMatchCount is R x n_pairs x 2, an upper bound used for
	// progress reporting; it does not account for early stop.
	ExpectedMaximumMatchCount() uint64
}
