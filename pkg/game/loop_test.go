package game_test

import (
	"context"
	"github.com/herohde/usitourney/pkg/game"
	"github.com/herohde/usitourney/pkg/tourney"
	"github.com/herohde/usitourney/pkg/usi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

// fakeOracle accepts any move and ends the game once moveLimit plies have
// been played.
type fakeOracle struct {
	moveLimit int
}

func (f fakeOracle) IsLegal(ctx context.Context, pos tourney.Position, m tourney.Move) bool {
	return true
}

func (f fakeOracle) Apply(ctx context.Context, pos tourney.Position, m tourney.Move) (tourney.Position, error) {
	return tourney.NewPosition(pos.SFEN() + " " + m.USI()), nil
}

func (f fakeOracle) Outcome(ctx context.Context, history []tourney.Position, plyCount int) (tourney.GameOutcome, bool) {
	if plyCount >= f.moveLimit {
		return tourney.DrawBy(tourney.MoveLimit), true
	}
	return tourney.GameOutcome{}, false
}

func newShSession(t *testing.T, script string) *usi.Session {
	t.Helper()
	s := usi.New("/bin/sh", usi.WithArgs("-c", script))
	require.NoError(t, s.Init(context.Background()))
	t.Cleanup(func() { _ = s.Quit(context.Background()) })
	return s
}

const alwaysMovesScript = `while IFS= read -r l; do
case "$l" in
usi) echo "id name Stub"; echo "usiok";;
isready) echo "readyok";;
go*) echo "bestmove 7g7f";;
esac
done`

func TestPlayEndsByMoveLimit(t *testing.T) {
	ticket := tourney.MatchTicket{
		ID:      0,
		Opening: tourney.NewPosition("startpos"),
		Engines: [2]tourney.EngineID{"a", "b"},
		TC: [2]tourney.TimeControl{
			{Base: 5 * time.Second, Increment: 0},
			{Base: 5 * time.Second, Increment: 0},
		},
	}

	sessions := game.Sessions{
		newShSession(t, alwaysMovesScript),
		newShSession(t, alwaysMovesScript),
	}

	result, err := game.Play(context.Background(), ticket, sessions, fakeOracle{moveLimit: 4}, game.Config{})
	require.NoError(t, err)

	assert.Equal(t, tourney.DrawOutcome, result.Outcome.Kind)
	assert.Equal(t, tourney.MoveLimit, result.Outcome.Reason)
	assert.Len(t, result.Moves, 4)
	assert.Equal(t, tourney.First, result.Moves[0].Side)
	assert.Equal(t, tourney.Second, result.Moves[1].Side)
}

const resignsScript = `while IFS= read -r l; do
case "$l" in
usi) echo "id name Stub"; echo "usiok";;
isready) echo "readyok";;
go*) echo "bestmove resign";;
esac
done`

func TestPlayResignation(t *testing.T) {
	ticket := tourney.MatchTicket{
		ID:      0,
		Opening: tourney.NewPosition("startpos"),
		Engines: [2]tourney.EngineID{"a", "b"},
		TC: [2]tourney.TimeControl{
			{Base: 5 * time.Second, Increment: 0},
			{Base: 5 * time.Second, Increment: 0},
		},
	}

	sessions := game.Sessions{
		newShSession(t, resignsScript),
		newShSession(t, alwaysMovesScript),
	}

	result, err := game.Play(context.Background(), ticket, sessions, fakeOracle{moveLimit: 100}, game.Config{})
	require.NoError(t, err)

	assert.Equal(t, tourney.WinOutcome, result.Outcome.Kind)
	assert.Equal(t, tourney.Second, result.Outcome.Winner)
}

const stallsScript = `while IFS= read -r l; do
case "$l" in
usi) echo "id name Stub"; echo "usiok";;
isready) echo "readyok";;
go*) sleep 2; echo "bestmove 7g7f";;
esac
done`

func TestPlayTimeForfeit(t *testing.T) {
	ticket := tourney.MatchTicket{
		ID:      0,
		Opening: tourney.NewPosition("startpos"),
		Engines: [2]tourney.EngineID{"a", "b"},
		TC: [2]tourney.TimeControl{
			{Base: 200 * time.Millisecond, Increment: 0},
			{Base: 5 * time.Second, Increment: 0},
		},
	}

	sessions := game.Sessions{
		newShSession(t, stallsScript),
		newShSession(t, alwaysMovesScript),
	}

	result, err := game.Play(context.Background(), ticket, sessions, fakeOracle{moveLimit: 100}, game.Config{Grace: 50 * time.Millisecond})
	require.NoError(t, err)

	assert.Equal(t, tourney.WinOutcome, result.Outcome.Kind)
	assert.Equal(t, tourney.Second, result.Outcome.Winner)
	assert.Equal(t, "time forfeit", result.Outcome.Detail)
}
