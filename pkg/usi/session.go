// Package usi implements a driver for engine subprocesses speaking the USI
// (Universal Shogi Interface) protocol over stdio: handshake, option push,
// position/go, and bestmove parsing.
package usi

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/herohde/usitourney/pkg/lineio"
	"github.com/herohde/usitourney/pkg/tourney"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"
	"go.uber.org/atomic"
)

const (
	handshakeTimeout = 5 * time.Second
	quitTimeout      = 10 * time.Second
)

var (
	// ErrHandshakeTimeout is returned when usiok/readyok does not arrive in time.
	ErrHandshakeTimeout = errors.New("usi: handshake timeout")
	// ErrPrematureEOF is returned when the child exits mid-handshake or mid-game.
	ErrPrematureEOF = errors.New("usi: premature eof")
	// ErrBestMoveTimeout is returned when bestmove does not arrive before the deadline.
	ErrBestMoveTimeout = errors.New("usi: bestmove timeout")
)

// State is the engine session's lifecycle state.
type State uint8

const (
	Spawned State = iota
	Initialized
	Ready
	Searching
	Quitting
	Exited
)

// Session drives one USI engine subprocess through its lifecycle: handshake,
// option push, and repeated position/go/bestmove exchanges, possibly across
// several games. A Session is exclusively owned by one caller (worker) at a time; it
// must never outlive the worker that owns it.
type Session struct {
	iox.AsyncCloser

	bin string
	cfg config

	cmd  *exec.Cmd
	io   *lineio.LineIO
	name string

	state  State
	active atomic.Bool
}

// New constructs a Session for the engine binary at bin. The process is not
// started until Init is called.
func New(bin string, opts ...Option) *Session {
	var cfg config
	for _, fn := range opts {
		fn(&cfg)
	}
	return &Session{
		AsyncCloser: iox.NewAsyncCloser(),
		bin:         bin,
		cfg:         cfg,
		state:       Spawned,
	}
}

// Name returns the engine's self-reported "id name", if captured, or the
// configured binary path otherwise.
func (s *Session) Name() string {
	if s.name != "" {
		return s.name
	}
	return s.bin
}

// Init spawns the child process, sends "usi", waits for "usiok" (or
// handshake timeout), and pushes configured options in order.
func (s *Session) Init(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, s.bin, s.cfg.args...)
	cmd.Dir = s.cfg.workDir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("usi: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("usi: stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("usi: spawn %v: %w", s.bin, err)
	}

	s.cmd = cmd
	s.io = lineio.New(stdout, stdin)

	if err := s.io.WriteLine(ctx, "usi"); err != nil {
		return fmt.Errorf("usi: %v: %w", s.bin, err)
	}

	status, err := s.io.Read(ctx, handshakeTimeout, func(line string) lineio.Decision {
		switch {
		case strings.HasPrefix(line, "id name "):
			s.name = strings.TrimPrefix(line, "id name ")
		case line == "usiok":
			return lineio.Stop
		}
		return lineio.Continue
	})
	if err != nil {
		return fmt.Errorf("usi: %v: handshake: %w", s.bin, err)
	}
	switch status {
	case lineio.StatusTimeout:
		return fmt.Errorf("%w: %v", ErrHandshakeTimeout, s.bin)
	case lineio.StatusDisconnected:
		return fmt.Errorf("%w: %v", ErrPrematureEOF, s.bin)
	}

	for _, o := range s.cfg.settings() {
		cmd := fmt.Sprintf("setoption name %v value %v", o.Name, o.Value)
		if err := s.io.WriteLine(ctx, cmd); err != nil {
			return fmt.Errorf("usi: %v: %w", s.bin, err)
		}
	}

	s.state = Initialized
	logw.Infof(ctx, "Initialized USI engine: %v", s.Name())
	return nil
}

// IsReady sends "isready" and waits for "readyok" within 5s.
func (s *Session) IsReady(ctx context.Context) error {
	if err := s.io.WriteLine(ctx, "isready"); err != nil {
		return err
	}

	status, err := s.io.Read(ctx, handshakeTimeout, func(line string) lineio.Decision {
		if line == "readyok" {
			return lineio.Stop
		}
		return lineio.Continue
	})
	if err != nil {
		return fmt.Errorf("usi: %v: isready: %w", s.Name(), err)
	}
	switch status {
	case lineio.StatusTimeout:
		return fmt.Errorf("%w: %v: isready", ErrHandshakeTimeout, s.Name())
	case lineio.StatusDisconnected:
		return fmt.Errorf("%w: %v: isready", ErrPrematureEOF, s.Name())
	}

	s.state = Ready
	return nil
}

// NewGame sends "usinewgame". Fire-and-forget.
func (s *Session) NewGame(ctx context.Context) error {
	return s.io.WriteLine(ctx, "usinewgame")
}

// Position sends "position startpos|sfen <...> moves m1 m2 ...".
func (s *Session) Position(ctx context.Context, opening tourney.Position, moves []tourney.Move) error {
	var sb strings.Builder
	sb.WriteString("position ")
	if opening.SFEN() == "startpos" || opening.SFEN() == "" {
		sb.WriteString("startpos")
	} else {
		sb.WriteString("sfen ")
		sb.WriteString(opening.SFEN())
	}
	if len(moves) > 0 {
		sb.WriteString(" moves")
		for _, m := range moves {
			sb.WriteString(" ")
			sb.WriteString(m.USI())
		}
	}
	return s.io.WriteLine(ctx, sb.String())
}

// Go sends "go btime ... wtime ... binc ... winc ..." derived from the two
// clocks and time controls.
func (s *Session) Go(ctx context.Context, remaining [2]time.Duration, inc [2]time.Duration) error {
	s.state = Searching
	s.active.Store(true)
	cmd := fmt.Sprintf("go btime %d wtime %d binc %d winc %d",
		remaining[tourney.First].Milliseconds(),
		remaining[tourney.Second].Milliseconds(),
		inc[tourney.First].Milliseconds(),
		inc[tourney.Second].Milliseconds())
	return s.io.WriteLine(ctx, cmd)
}

// WaitForBestMove parses incoming lines until "bestmove <move> [ponder
// <move>]" arrives or deadline expires, accumulating telemetry from "info"
// lines into the returned MoveRecord.
func (s *Session) WaitForBestMove(ctx context.Context, stm tourney.Color, deadline time.Duration) (tourney.MoveRecord, error) {
	rec := tourney.MoveRecord{Side: stm}

	status, err := s.io.Read(ctx, deadline, func(line string) lineio.Decision {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return lineio.Continue
		}

		switch fields[0] {
		case "info":
			parseInfo(fields[1:], &rec)
		case "bestmove":
			if len(fields) >= 2 {
				rec.Move = tourney.NewMove(fields[1])
			}
			return lineio.Stop
		}
		return lineio.Continue
	})
	s.state = Ready
	s.active.Store(false)

	if err != nil {
		return rec, fmt.Errorf("usi: %v: wait for bestmove: %w", s.Name(), err)
	}
	switch status {
	case lineio.StatusTimeout:
		return rec, fmt.Errorf("%w: %v", ErrBestMoveTimeout, s.Name())
	case lineio.StatusDisconnected:
		return rec, fmt.Errorf("%w: %v", ErrPrematureEOF, s.Name())
	}
	return rec, nil
}

// Quit sends "quit", waits up to 10s for the process to exit, and kills it
// on timeout. Never blocks indefinitely; a failure to kill is logged and
// abandoned.
func (s *Session) Quit(ctx context.Context) error {
	s.state = Quitting
	defer s.AsyncCloser.Close()

	if s.io != nil {
		_ = s.io.WriteLine(ctx, "quit")
	}
	if s.cmd == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- s.cmd.Wait() }()

	select {
	case err := <-done:
		s.state = Exited
		if err != nil {
			logw.Debugf(ctx, "Engine %v exited: %v", s.Name(), err)
		}
		return nil
	case <-time.After(quitTimeout):
		if s.cmd.Process != nil {
			if err := s.cmd.Process.Kill(); err != nil {
				logw.Warningf(ctx, "Failed to kill engine %v: %v", s.Name(), err)
				return nil
			}
		}
		<-done
		s.state = Exited
		return nil
	}
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// IsActive reports whether the engine is currently searching (between Go
// and the arrival of bestmove).
func (s *Session) IsActive() bool {
	return s.active.Load()
}
