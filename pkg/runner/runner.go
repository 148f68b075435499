// Package runner implements the concurrent match runner: a pool of workers,
// each exclusively owning a session per engine it needs, dispatching
// tickets from a scheduler and posting results back to a single
// coordinator.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/herohde/usitourney/pkg/game"
	"github.com/herohde/usitourney/pkg/scheduler"
	"github.com/herohde/usitourney/pkg/tourney"
	"github.com/herohde/usitourney/pkg/usi"
	"github.com/seekerror/logw"
	"golang.org/x/sync/errgroup"
)

// EngineConfig describes how to launch and configure one engine's
// subprocess, keyed by the EngineID used in tickets.
type EngineConfig struct {
	ID      tourney.EngineID
	Binary  string
	Options []usi.Option
}

// Runner drives a scheduler's tickets through a fixed-size worker pool.
type Runner struct {
	engines     map[tourney.EngineID]EngineConfig
	oracle      tourney.Oracle
	cfg         game.Config
	concurrency int
}

// New constructs a Runner over the given engine configurations.
func New(engines []EngineConfig, oracle tourney.Oracle, cfg game.Config, concurrency int) *Runner {
	m := make(map[tourney.EngineID]EngineConfig, len(engines))
	for _, e := range engines {
		m[e.ID] = e
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{engines: m, oracle: oracle, cfg: cfg, concurrency: concurrency}
}

// Run drives tournament to completion: a dispatcher goroutine feeds tickets
// to the worker pool, and this goroutine -- the sole coordinator -- applies
// MatchComplete in arrival order and prints interval reports. It returns
// once the tournament reports complete, or ctx is cancelled.
func (r *Runner) Run(ctx context.Context, tournament scheduler.Tournament, reportInterval time.Duration) error {
	tickets := make(chan tourney.MatchTicket)
	results := make(chan tourney.MatchResult)

	var workers errgroup.Group
	for i := 0; i < r.concurrency; i++ {
		w := newWorker(i, r.engines, r.oracle, r.cfg)
		workers.Go(func() error {
			defer w.close(ctx)
			for ticket := range tickets {
				result, err := w.play(ctx, ticket)
				if err != nil {
					logw.Errorf(ctx, "Worker %v: ticket %v failed: %v", w.id, ticket.ID, err)
					continue
				}
				select {
				case results <- result:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}

	dispatchDone := make(chan struct{})
	go func() {
		defer close(dispatchDone)
		defer close(tickets)
		for {
			ticket, ok := tournament.Next(ctx)
			if !ok {
				return
			}
			tournament.MatchStarted(ticket)
			select {
			case tickets <- ticket:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		<-dispatchDone
		_ = workers.Wait()
		close(results)
	}()

	var reportTicker *time.Ticker
	var reportCh <-chan time.Time
	if reportInterval > 0 {
		reportTicker = time.NewTicker(reportInterval)
		defer reportTicker.Stop()
		reportCh = reportTicker.C
	}

	for {
		select {
		case result, ok := <-results:
			if !ok {
				tournament.PrintIntervalReport(ctx)
				if !tournament.TournamentComplete() {
					return fmt.Errorf("runner: tournament ended with matches unaccounted for")
				}
				return nil
			}
			tournament.MatchComplete(result)
		case <-reportCh:
			tournament.PrintIntervalReport(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// worker exclusively owns a usi.Session per EngineID it has spawned,
// reusing it across games and respawning only if the session has exited.
type worker struct {
	id      int
	engines map[tourney.EngineID]EngineConfig
	oracle  tourney.Oracle
	cfg     game.Config

	sessions map[tourney.EngineID]*usi.Session
}

func newWorker(id int, engines map[tourney.EngineID]EngineConfig, oracle tourney.Oracle, cfg game.Config) *worker {
	return &worker{
		id:       id,
		engines:  engines,
		oracle:   oracle,
		cfg:      cfg,
		sessions: map[tourney.EngineID]*usi.Session{},
	}
}

func (w *worker) sessionFor(ctx context.Context, id tourney.EngineID) (*usi.Session, error) {
	if s, ok := w.sessions[id]; ok && !s.IsClosed() {
		return s, nil
	}

	ec, ok := w.engines[id]
	if !ok {
		return nil, fmt.Errorf("runner: no configuration for engine %q", id)
	}

	s := usi.New(ec.Binary, ec.Options...)
	if err := s.Init(ctx); err != nil {
		return nil, fmt.Errorf("runner: init %q: %w", id, err)
	}
	w.sessions[id] = s
	return s, nil
}

func (w *worker) play(ctx context.Context, ticket tourney.MatchTicket) (tourney.MatchResult, error) {
	var sessions game.Sessions
	for c := tourney.First; c <= tourney.Second; c++ {
		s, err := w.sessionFor(ctx, ticket.Engines[c])
		if err != nil {
			return tourney.MatchResult{}, err
		}
		sessions[c] = s
	}
	return game.Play(ctx, ticket, sessions, w.oracle, w.cfg)
}

func (w *worker) close(ctx context.Context) {
	for _, s := range w.sessions {
		_ = s.Quit(ctx)
	}
}
