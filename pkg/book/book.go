// Package book implements the opening book: a finite, ordered list of
// parsed positions with a cyclic cursor.
package book

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"github.com/herohde/usitourney/pkg/tourney"
)

// ErrEmpty is returned when a book would otherwise be constructed with zero
// openings: this is rejected at load time rather than trapping later on a
// modulo-by-zero.
var ErrEmpty = fmt.Errorf("book: opening list is empty")

// Book is an ordered, cyclically-advancing list of opening positions.
type Book struct {
	openings []tourney.Position
	current  int
}

// Option configures New.
type Option func(*Book)

// WithStartIndex honors a 1-based starting position.
func WithStartIndex(startIndex int) Option {
	return func(b *Book) {
		n := len(b.openings)
		b.current = ((startIndex - 1) % n + n) % n
	}
}

// WithShuffle shuffles the opening order in place using Fisher-Yates with
// the given RNG, for reproducible randomized openings.
func WithShuffle(r *rand.Rand) Option {
	return func(b *Book) {
		r.Shuffle(len(b.openings), func(i, j int) {
			b.openings[i], b.openings[j] = b.openings[j], b.openings[i]
		})
	}
}

// New constructs a Book from an explicit, non-empty list of positions.
func New(openings []tourney.Position, opts ...Option) (*Book, error) {
	if len(openings) == 0 {
		return nil, ErrEmpty
	}

	b := &Book{openings: append([]tourney.Position{}, openings...)}
	for _, fn := range opts {
		fn(b)
	}
	return b, nil
}

// Load reads one SFEN per line from path (UTF-8 text; blank lines ignored)
// and constructs a Book. A malformed line aborts the load with a
// diagnostic.
func Load(path string, opts ...Option) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("book: open %v: %w", path, err)
	}
	defer f.Close()

	openings, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("book: %v: %w", path, err)
	}
	return New(openings, opts...)
}

func parse(r io.Reader) ([]tourney.Position, error) {
	var openings []tourney.Position

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !isValidSFENLine(line) {
			return nil, fmt.Errorf("malformed opening at line %v: %q", lineNo, line)
		}
		openings = append(openings, tourney.NewPosition(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return openings, nil
}

// isValidSFENLine performs a minimal well-formedness check: an SFEN line
// has four space-separated fields (board, side to move, hands, move
// number). Full legality is the oracle's concern, outside this package.
func isValidSFENLine(line string) bool {
	fields := 1
	for _, r := range line {
		if r == ' ' {
			fields++
		}
	}
	return fields >= 4 || line == "startpos"
}

// Current returns the opening at the cursor.
func (b *Book) Current() tourney.Position {
	return b.openings[b.current]
}

// Advance moves the cursor to (current+1) mod N.
func (b *Book) Advance() {
	b.current = (b.current + 1) % len(b.openings)
}

// Len returns the number of openings in the book.
func (b *Book) Len() int {
	return len(b.openings)
}
