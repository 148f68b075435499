package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/herohde/usitourney/pkg/tourney"
)

// textGameWriter persists a one-line summary per completed match: ticket
// id, engines, opening, outcome and move count. It satisfies
// scheduler.GameRecordWriter but is not a PGN/KIF encoder -- that format
// work is an external collaborator outside this module's scope.
type textGameWriter struct {
	mu sync.Mutex
	f  *os.File
}

func newTextGameWriter(path string) (*textGameWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("game log: open %v: %w", path, err)
	}
	return &textGameWriter{f: f}, nil
}

func (w *textGameWriter) WriteGame(result tourney.MatchResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, err := fmt.Fprintf(w.f, "%v\t%v vs %v\t%v\t%v\tmoves=%v\n",
		result.Ticket.ID, result.Ticket.Engines[tourney.First], result.Ticket.Engines[tourney.Second],
		result.Ticket.Opening, result.Outcome, len(result.Moves))
	return err
}

func (w *textGameWriter) Close() error {
	return w.f.Close()
}
