package scheduler

import (
	"context"
	"sort"

	"github.com/herohde/usitourney/pkg/sprt"
	"github.com/herohde/usitourney/pkg/stats"
	"github.com/herohde/usitourney/pkg/tourney"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

// StatsWrapper posts every completed MatchResult to a StatsCore and,
// when SPRT Parameters are configured, stops the tournament once the
// log-likelihood ratio exits the continuation region. This is the
// SPRT-capable variant; there is no separate non-SPRT wrapper.
type StatsWrapper struct {
	inner Tournament
	core  *stats.Core

	sprtParams lang.Optional[sprt.Parameters]
	engines    [2]tourney.EngineID // the pair under test, for SPRT purposes

	stop func() // Stop on the underlying RoundRobin, if reachable
}

// NewStatsWrapper wraps inner with a StatsCore. If params is present, the
// wrapper signals early stop on sprt.ShouldTerminate for the (a,b) engine
// pair once enough pentanomial data has accumulated.
func NewStatsWrapper(inner Tournament, core *stats.Core, a, b tourney.EngineID, params lang.Optional[sprt.Parameters]) *StatsWrapper {
	w := &StatsWrapper{inner: inner, core: core, sprtParams: params, engines: [2]tourney.EngineID{a, b}}
	if rr, ok := inner.(*RoundRobin); ok {
		w.stop = rr.Stop
	}
	return w
}

func (w *StatsWrapper) Next(ctx context.Context) (tourney.MatchTicket, bool) {
	return w.inner.Next(ctx)
}

func (w *StatsWrapper) MatchStarted(ticket tourney.MatchTicket) {
	w.inner.MatchStarted(ticket)
}

func (w *StatsWrapper) MatchComplete(result tourney.MatchResult) {
	if err := w.core.Post(result); err != nil {
		// A sibling-pairing invariant violation is a programmer error; it
		// must never be swallowed.
		panic(err)
	}
	w.inner.MatchComplete(result)

	if params, ok := w.sprtParams.V(); ok && w.stop != nil {
		penta := w.core.Penta(w.engines[0], w.engines[1])
		if sprt.ShouldTerminate(penta, params) {
			w.stop()
		}
	}
}

// PrintIntervalReport prints a head-to-head summary for a two-engine
// tournament, or a ranked standings table once three or more engines have
// played; the SPRT pair (if configured) always also gets its own LLR line,
// since that pair may be a subset of a larger field.
func (w *StatsWrapper) PrintIntervalReport(ctx context.Context) {
	w.inner.PrintIntervalReport(ctx)

	ids := w.core.EngineIDs()
	switch {
	case len(ids) == 2:
		w.printHeadToHead(ctx, ids[0], ids[1])
	case len(ids) > 2:
		w.printTable(ctx, ids)
	}

	if params, ok := w.sprtParams.V(); ok {
		penta := w.core.Penta(w.engines[0], w.engines[1])
		if penta.PairCount() > 0 {
			llr := sprt.LLR(penta, params)
			logw.Infof(ctx, "SPRT LLR = %.3f, bounds = (%.3f, %.3f)", llr, params.LowerBound(), params.UpperBound())
		}
	}
}

// printHeadToHead reports the §4.6 diagnostics for one engine pair: Elo
// with its confidence half-width, normalized Elo, the raw
// Games/Wins/Draws/Losses tally and score percentage, the merged
// pentanomial bucket counts, and the DD/WL opening-balance ratio.
func (w *StatsWrapper) printHeadToHead(ctx context.Context, a, b tourney.EngineID) {
	wdl := w.core.Wdl(a, b)
	penta := w.core.Penta(a, b)
	elo, errBar := stats.EloWithError(penta)
	nelo := stats.NormalizedElo(penta, tourney.CET)

	logw.Infof(ctx, "Elo(%v vs %v) = %.2f +/- %.2f, nElo = %.2f, over %v pairs", a, b, elo, errBar, nelo, penta.PairCount())
	logw.Infof(ctx, "Games: %v, Wins: %v, Draws: %v, Losses: %v (Score: %.2f%%)",
		wdl.GameCount(), wdl.W, wdl.D, wdl.L, wdl.Score()*100)
	logw.Infof(ctx, "Pntml(0-2): %v, DD/WL Ratio: %.2f", penta, penta.DDWLRatio())
}

// printTable reports a multi-engine standings table, ranked by Elo
// descending, against the pooled results of every opponent each engine has
// played.
func (w *StatsWrapper) printTable(ctx context.Context, ids []tourney.EngineID) {
	type row struct {
		id     tourney.EngineID
		wdl    tourney.Wdl
		penta  tourney.Penta
		elo    float64
		errBar float64
	}

	rows := make([]row, len(ids))
	for i, id := range ids {
		penta := w.core.AllPenta(id)
		elo, errBar := stats.EloWithError(penta)
		rows[i] = row{id: id, wdl: w.core.AllWdl(id), penta: penta, elo: elo, errBar: errBar}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].elo > rows[j].elo })

	logw.Infof(ctx, "%4s %-16s %8s %8s %8s %8s %v", "Rank", "Engine", "Elo", "+/-", "Games", "Score", "Pntml(0-2)")
	for i, r := range rows {
		logw.Infof(ctx, "%4d %-16v %8.2f %8.2f %8d %7.2f%% %v",
			i+1, r.id, r.elo, r.errBar, r.wdl.GameCount(), r.wdl.Score()*100, r.penta)
	}
}

func (w *StatsWrapper) TournamentComplete() bool {
	return w.inner.TournamentComplete()
}

func (w *StatsWrapper) ExpectedMaximumMatchCount() uint64 {
	return w.inner.ExpectedMaximumMatchCount()
}
