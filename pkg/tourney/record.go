package tourney

import "time"

// MoveRecord is the per-ply telemetry captured while driving a game: whose
// move it was, what the engine reported about its search, and how long it
// actually took on the wall clock.
type MoveRecord struct {
	Side Color
	Move Move

	Score    Score
	Depth    int
	SelDepth int
	Nodes    uint64
	NPS      uint64
	// EngineTime is the engine-reported "time" token on the bestmove's info
	// line; it may drift from WallTime due to pipe/process overhead.
	EngineTime time.Duration
	Hashfull   int

	// WallTime is measured by the caller around the go/bestmove exchange and
	// is what actually charges the Clock.
	WallTime time.Duration
	// Remaining is the side's clock after this move was charged.
	Remaining time.Duration
}
