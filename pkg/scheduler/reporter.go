package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/herohde/usitourney/pkg/tourney"
	"github.com/seekerror/logw"
)

// ReporterWrapper layers wall-clock progress accounting (matches completed,
// elapsed time, throughput) on top of an inner Tournament's own reporting.
type ReporterWrapper struct {
	inner Tournament

	mu      sync.Mutex
	started time.Time
	matches uint64
}

// NewReporterWrapper wraps inner, starting its elapsed-time clock now.
func NewReporterWrapper(inner Tournament) *ReporterWrapper {
	return &ReporterWrapper{inner: inner, started: time.Now()}
}

func (w *ReporterWrapper) Next(ctx context.Context) (tourney.MatchTicket, bool) {
	return w.inner.Next(ctx)
}

func (w *ReporterWrapper) MatchStarted(ticket tourney.MatchTicket) {
	w.inner.MatchStarted(ticket)
}

func (w *ReporterWrapper) MatchComplete(result tourney.MatchResult) {
	w.mu.Lock()
	w.matches++
	w.mu.Unlock()
	w.inner.MatchComplete(result)
}

func (w *ReporterWrapper) PrintIntervalReport(ctx context.Context) {
	w.mu.Lock()
	matches, elapsed := w.matches, time.Since(w.started)
	w.mu.Unlock()

	total := w.inner.ExpectedMaximumMatchCount()
	rate := float64(matches) / elapsed.Seconds()
	logw.Infof(ctx, "Completed %v/%v matches in %v (%.2f matches/s)", matches, total, elapsed.Round(time.Second), rate)

	w.inner.PrintIntervalReport(ctx)
}

func (w *ReporterWrapper) TournamentComplete() bool {
	return w.inner.TournamentComplete()
}

func (w *ReporterWrapper) ExpectedMaximumMatchCount() uint64 {
	return w.inner.ExpectedMaximumMatchCount()
}
