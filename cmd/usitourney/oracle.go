package main

import (
	"context"

	"github.com/herohde/usitourney/pkg/tourney"
)

// moveLimitOracle is a placeholder tourney.Oracle: it accepts every move
// text as legal and ends the game only once plyCount reaches the limit. A
// real Shogi rules engine -- legal-move generation, repetition and impasse
// detection -- is an external collaborator outside this module's scope;
// this stand-in lets the tournament manager run end-to-end against
// USI engines during integration without one.
type moveLimitOracle struct {
	maxPlies int
}

func (o moveLimitOracle) IsLegal(ctx context.Context, pos tourney.Position, m tourney.Move) bool {
	return true
}

func (o moveLimitOracle) Apply(ctx context.Context, pos tourney.Position, m tourney.Move) (tourney.Position, error) {
	return tourney.NewPosition(pos.SFEN() + " " + m.USI()), nil
}

func (o moveLimitOracle) Outcome(ctx context.Context, history []tourney.Position, plyCount int) (tourney.GameOutcome, bool) {
	if plyCount >= o.maxPlies {
		return tourney.DrawBy(tourney.MoveLimit), true
	}
	return tourney.GameOutcome{}, false
}
