// Package game drives a single match to completion: alternating turns,
// clock accounting, and outcome detection.
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/herohde/usitourney/pkg/tourney"
	"github.com/herohde/usitourney/pkg/usi"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// DefaultGrace is the default allowance added to the side-to-move's
// remaining clock when computing the bestmove deadline, covering pipe and
// scheduling latency that the engine's own clock bookkeeping does not see.
const DefaultGrace = 100 * time.Millisecond

// Adjudication configures early termination by score threshold. A
// resignation triggers once one side's
// reported score has stayed beyond ResignThreshold (in that side's own
// disfavor) for ResignPlies of its consecutive moves; a draw triggers once both
// sides' scores have stayed within DrawThreshold of zero for DrawPlies
// consecutive plies, but never before DrawMinPly has been reached.
type Adjudication struct {
	ResignThreshold tourney.Score
	ResignPlies     int

	DrawThreshold tourney.Score
	DrawPlies     int
	DrawMinPly    int
}

// Config holds the per-game parameters not already carried on the ticket.
type Config struct {
	Grace        time.Duration
	Adjudication lang.Optional[Adjudication]
}

func (c Config) grace() time.Duration {
	if c.Grace <= 0 {
		return DefaultGrace
	}
	return c.Grace
}

// Sessions pairs a Session per color for one game; Sessions[tourney.First]
// plays Sente, Sessions[tourney.Second] plays Gote.
type Sessions [2]*usi.Session

// Play drives ticket's opening to a terminal GameOutcome using sessions and
// oracle, and returns the full MatchResult.
func Play(ctx context.Context, ticket tourney.MatchTicket, sessions Sessions, oracle tourney.Oracle, cfg Config) (tourney.MatchResult, error) {
	start := time.Now()

	clocks := [2]*tourney.Clock{
		tourney.NewClock(ticket.TC[tourney.First]),
		tourney.NewClock(ticket.TC[tourney.Second]),
	}

	for _, s := range sessions {
		if err := s.IsReady(ctx); err != nil {
			return tourney.MatchResult{}, fmt.Errorf("game: isready: %w", err)
		}
	}
	for _, s := range sessions {
		if err := s.NewGame(ctx); err != nil {
			return tourney.MatchResult{}, fmt.Errorf("game: usinewgame: %w", err)
		}
	}

	history := []tourney.Position{ticket.Opening}
	var moveList []tourney.Move
	var records []tourney.MoveRecord

	stm := tourney.First
	var resignRun [2]int // per side: that side's consecutive moves beyond ResignThreshold
	drawRun := 0

	for {
		if contextx.IsCancelled(ctx) {
			return tourney.MatchResult{}, ctx.Err()
		}

		pos := history[len(history)-1]

		if err := sessions[stm].Position(ctx, ticket.Opening, moveList); err != nil {
			return tourney.MatchResult{}, fmt.Errorf("game: position: %w", err)
		}

		remaining := [2]time.Duration{clocks[tourney.First].Remaining(), clocks[tourney.Second].Remaining()}
		inc := [2]time.Duration{ticket.TC[tourney.First].Increment, ticket.TC[tourney.Second].Increment}
		if err := sessions[stm].Go(ctx, remaining, inc); err != nil {
			return tourney.MatchResult{}, fmt.Errorf("game: go: %w", err)
		}

		deadline := clocks[stm].Remaining() + cfg.grace()
		moveStart := time.Now()
		rec, err := sessions[stm].WaitForBestMove(ctx, stm, deadline)
		elapsed := time.Since(moveStart)

		if errors.Is(err, usi.ErrBestMoveTimeout) {
			// EngineTimeout: no bestmove within the clock plus grace.
			outcome := tourney.Win(stm.Opponent(), "time forfeit")
			return finish(ticket, start, outcome, records), nil
		}
		if err != nil {
			// EngineProtocolError mid-game: forfeited by the offending engine.
			logw.Warningf(ctx, "Ticket %v: %v forfeits on protocol error: %v", ticket.ID, stm, err)
			outcome := tourney.Win(stm.Opponent(), "protocol error")
			return finish(ticket, start, outcome, records), nil
		}

		rec.WallTime = elapsed
		if clocks[stm].Step(elapsed) == tourney.TimeElapsed {
			rec.Remaining = 0
			records = append(records, rec)
			outcome := tourney.Win(stm.Opponent(), "time forfeit")
			return finish(ticket, start, outcome, records), nil
		}
		rec.Remaining = clocks[stm].Remaining()
		records = append(records, rec)

		if rec.Move.IsResign() {
			outcome := tourney.Win(stm.Opponent(), "resignation")
			return finish(ticket, start, outcome, records), nil
		}
		if rec.Move.IsWin() {
			outcome := tourney.Win(stm, "declared win")
			return finish(ticket, start, outcome, records), nil
		}

		if !oracle.IsLegal(ctx, pos, rec.Move) {
			outcome := tourney.Win(stm.Opponent(), "illegal move")
			return finish(ticket, start, outcome, records), nil
		}

		next, err := oracle.Apply(ctx, pos, rec.Move)
		if err != nil {
			return tourney.MatchResult{}, fmt.Errorf("game: apply move %v: %w", rec.Move, err)
		}
		history = append(history, next)
		moveList = append(moveList, rec.Move)

		if outcome, done := oracle.Outcome(ctx, history, len(moveList)); done {
			return finish(ticket, start, outcome, records), nil
		}

		if adj, ok := cfg.Adjudication.V(); ok {
			if outcome, done := adjudicate(adj, rec, len(moveList), stm, &resignRun[stm], &drawRun); done {
				return finish(ticket, start, outcome, records), nil
			}
		}

		stm = stm.Opponent()
	}
}

// adjudicate applies the optional score-threshold early termination rule.
func adjudicate(adj Adjudication, rec tourney.MoveRecord, ply int, stm tourney.Color, resignRun, drawRun *int) (tourney.GameOutcome, bool) {
	if rec.Score.Kind != tourney.Centipawns {
		*resignRun, *drawRun = 0, 0
		return tourney.GameOutcome{}, false
	}

	if adj.ResignPlies > 0 && adj.ResignThreshold.Kind == tourney.Centipawns {
		if rec.Score.Value <= -adj.ResignThreshold.Value {
			*resignRun++
		} else {
			*resignRun = 0
		}
		if *resignRun >= adj.ResignPlies {
			return tourney.Win(stm.Opponent(), "adjudicated resignation"), true
		}
	}

	if adj.DrawPlies > 0 && ply >= adj.DrawMinPly && adj.DrawThreshold.Kind == tourney.Centipawns {
		if abs32(rec.Score.Value) <= adj.DrawThreshold.Value {
			*drawRun++
		} else {
			*drawRun = 0
		}
		if *drawRun >= adj.DrawPlies {
			return tourney.DrawBy(tourney.Agreement), true
		}
	}

	return tourney.GameOutcome{}, false
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func finish(ticket tourney.MatchTicket, start time.Time, outcome tourney.GameOutcome, records []tourney.MoveRecord) tourney.MatchResult {
	return tourney.MatchResult{
		Ticket:  ticket,
		Start:   start,
		Outcome: outcome,
		Moves:   records,
	}
}
