package tourney

import "context"

// Position is an opaque, immutable game state, SFEN-encoded on the wire.
// The core never inspects its contents; it is produced by the opening book
// and threaded through unchanged to the oracle and the engine.
type Position struct {
	sfen string
}

// NewPosition wraps a raw SFEN string as an opaque Position value.
func NewPosition(sfen string) Position {
	return Position{sfen: sfen}
}

// SFEN returns the wire encoding of the position.
func (p Position) SFEN() string {
	return p.sfen
}

func (p Position) String() string {
	return p.sfen
}

// Move is an opaque move value plus its USI text form.
type Move struct {
	usi string
}

// NewMove wraps a raw USI move token, e.g. "7g7f" or "resign".
func NewMove(usi string) Move {
	return Move{usi: usi}
}

// USI returns the wire encoding of the move.
func (m Move) USI() string {
	return m.usi
}

func (m Move) String() string {
	return m.usi
}

// IsResign reports whether the engine used the "resign" keyword instead of
// a move.
func (m Move) IsResign() bool {
	return m.usi == "resign"
}

// IsWin reports whether the engine used the "win" keyword (declared a
// impasse/try-rule win) instead of a move.
func (m Move) IsWin() bool {
	return m.usi == "win"
}

// Oracle is the external legal-move/outcome collaborator. The core consumes
// it but never implements it: a concrete Shogi rules engine (move
// generation, SFEN parsing, repetition/impasse detection) lives outside this
// module entirely.
type Oracle interface {
	// IsLegal reports whether m is a legal move from pos for the side to
	// move encoded in pos.
	IsLegal(ctx context.Context, pos Position, m Move) bool

	// Apply plays m on pos and returns the resulting position. m must be
	// legal; behavior is undefined otherwise (callers check IsLegal first).
	Apply(ctx context.Context, pos Position, m Move) (Position, error)

	// Outcome reports whether the game is over after the given history of
	// positions (most recent last), and if so, how.
	Outcome(ctx context.Context, history []Position, plyCount int) (GameOutcome, bool)
}
