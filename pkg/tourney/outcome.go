package tourney

import (
	"fmt"
	"github.com/seekerror/stdlib/pkg/lang"
)

// DrawReason classifies why a game was scored as a draw.
type DrawReason uint8

const (
	Repetition DrawReason = iota
	Impasse
	MoveLimit
	Agreement
)

func (r DrawReason) String() string {
	switch r {
	case Repetition:
		return "repetition"
	case Impasse:
		return "impasse"
	case MoveLimit:
		return "move limit"
	case Agreement:
		return "agreement"
	default:
		return "?"
	}
}

// OutcomeKind tags the GameOutcome variant.
type OutcomeKind uint8

const (
	WinOutcome OutcomeKind = iota
	DrawOutcome
)

// GameOutcome is the terminal result of one game: either a win for a Color
// or a draw with a reason.
type GameOutcome struct {
	Kind   OutcomeKind
	Winner Color      // valid iff Kind == WinOutcome
	Reason DrawReason // valid iff Kind == DrawOutcome
	Detail string     // human-readable cause, e.g. "time forfeit", "illegal move"
}

// Win constructs a decisive outcome.
func Win(winner Color, detail string) GameOutcome {
	return GameOutcome{Kind: WinOutcome, Winner: winner, Detail: detail}
}

// DrawBy constructs a drawn outcome.
func DrawBy(reason DrawReason) GameOutcome {
	return GameOutcome{Kind: DrawOutcome, Reason: reason, Detail: reason.String()}
}

// WinnerOf returns the winning color, if any.
func (o GameOutcome) WinnerOf() lang.Optional[Color] {
	if o.Kind == WinOutcome {
		return lang.Some(o.Winner)
	}
	return lang.Optional[Color]{}
}

func (o GameOutcome) String() string {
	switch o.Kind {
	case WinOutcome:
		return fmt.Sprintf("win(%v): %v", o.Winner, o.Detail)
	case DrawOutcome:
		return fmt.Sprintf("draw(%v)", o.Reason)
	default:
		return "?"
	}
}
