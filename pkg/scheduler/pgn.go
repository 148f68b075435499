package scheduler

import (
	"context"

	"github.com/herohde/usitourney/pkg/tourney"
	"github.com/seekerror/logw"
)

// GameRecordWriter persists a completed match's move record in some
// serialized game-record format (PGN, KIF, ...). Actual format encoders are
// an external collaborator, out of scope here.
type GameRecordWriter interface {
	WriteGame(result tourney.MatchResult) error
}

// PgnOutWrapper persists every completed match via a GameRecordWriter
// before delegating to its inner Tournament. A write failure is logged and
// does not halt the tournament.
type PgnOutWrapper struct {
	inner  Tournament
	writer GameRecordWriter
	ctx    context.Context
}

// NewPgnOutWrapper wraps inner, persisting every MatchResult through writer.
func NewPgnOutWrapper(ctx context.Context, inner Tournament, writer GameRecordWriter) *PgnOutWrapper {
	return &PgnOutWrapper{inner: inner, writer: writer, ctx: ctx}
}

func (w *PgnOutWrapper) Next(ctx context.Context) (tourney.MatchTicket, bool) {
	return w.inner.Next(ctx)
}

func (w *PgnOutWrapper) MatchStarted(ticket tourney.MatchTicket) {
	w.inner.MatchStarted(ticket)
}

func (w *PgnOutWrapper) MatchComplete(result tourney.MatchResult) {
	if err := w.writer.WriteGame(result); err != nil {
		logw.Errorf(w.ctx, "Failed to persist game record for ticket %v: %v", result.Ticket.ID, err)
	}
	w.inner.MatchComplete(result)
}

func (w *PgnOutWrapper) PrintIntervalReport(ctx context.Context) {
	w.inner.PrintIntervalReport(ctx)
}

func (w *PgnOutWrapper) TournamentComplete() bool {
	return w.inner.TournamentComplete()
}

func (w *PgnOutWrapper) ExpectedMaximumMatchCount() uint64 {
	return w.inner.ExpectedMaximumMatchCount()
}
