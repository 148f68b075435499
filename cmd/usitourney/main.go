// usitourney runs a round-robin tournament between USI Shogi engines under
// per-side time controls, accumulating paired win/draw/loss and
// pentanomial statistics and, optionally, stopping early once a Sequential
// Probability Ratio Test decides the match.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/herohde/usitourney/pkg/book"
	"github.com/herohde/usitourney/pkg/game"
	"github.com/herohde/usitourney/pkg/runner"
	"github.com/herohde/usitourney/pkg/scheduler"
	"github.com/herohde/usitourney/pkg/sprt"
	"github.com/herohde/usitourney/pkg/stats"
	"github.com/herohde/usitourney/pkg/tourney"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 1, 0)

var (
	engines = &engineFlags{}

	bookPath    = flag.String("book", "", "Path to the opening book file (one SFEN per line, required)")
	bookShuffle = flag.Bool("book-shuffle", false, "Shuffle the opening book order (Fisher-Yates)")
	bookSeed    = flag.Int64("book-seed", time.Now().UnixNano(), "RNG seed for -book-shuffle, for reproducibility (default: current time, logged at startup so a run can be repeated)")
	bookStart   = flag.Int("book-start", 1, "1-based starting index into the opening book")

	rounds      = flag.Uint64("rounds", 1, "Number of rounds over all engine pairs")
	concurrency = flag.Int("concurrency", 1, "Number of games to run concurrently")

	reportInterval = flag.Duration("report-interval", 30*time.Second, "Interval between progress reports")

	grace = flag.Duration("grace", game.DefaultGrace, "Allowance added to the side-to-move's remaining clock when computing the bestmove deadline")

	resignCp    = flag.Int("resign-cp", 0, "Centipawn threshold for adjudicated resignation (0 disables)")
	resignPlies = flag.Int("resign-plies", 0, "Consecutive plies the resign threshold must hold")
	drawCp      = flag.Int("draw-cp", 0, "Centipawn threshold for adjudicated draws (0 disables)")
	drawPlies   = flag.Int("draw-plies", 0, "Consecutive plies the draw threshold must hold")
	drawMinPly  = flag.Int("draw-min-ply", 0, "Minimum ply count before draw adjudication is considered")

	sprtSpec = flag.String("sprt", "", "SPRT parameters as nelo0/nelo1/alpha/beta, e.g. 0/10/0.05/0.05 (disabled if empty); applies to the first two -engine entries")

	gameLog = flag.String("game-log", "", "Optional path to append a one-line summary per completed match")

	maxPlies = flag.Int("max-plies", 512, "Move-limit draw adjudication fallback for the placeholder legal-move oracle")

	showVersion = flag.Bool("version", false, "Print the version and exit")
)

func init() {
	flag.Var(engines, "engine", "Engine descriptor: id=<id>,bin=<path>[,dir=<workdir>][,tc=<time control>][,arg=<argv>]*[,opt.<Name>=<Value>]*. Repeatable, at least 2 required")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: usitourney [options]

usitourney runs a round-robin tournament between USI Shogi engines.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *showVersion {
		fmt.Printf("usitourney %v\n", version)
		return
	}

	if len(engines.specs) < 2 {
		flag.Usage()
		logw.Exitf(ctx, "At least two -engine descriptors are required")
	}
	if *bookPath == "" {
		logw.Exitf(ctx, "-book is required")
	}

	b, err := loadBook(*bookPath, *bookShuffle, *bookSeed, *bookStart)
	if err != nil {
		logw.Exitf(ctx, "Failed to load opening book: %v", err)
	}

	ids := make([]tourney.EngineID, len(engines.specs))
	tcs := map[tourney.EngineID]tourney.TimeControl{}
	runnerCfgs := make([]runner.EngineConfig, len(engines.specs))
	for i, s := range engines.specs {
		ids[i] = s.id.ID
		tcs[s.id.ID] = s.tc
		runnerCfgs[i] = s.id
	}

	var tournament scheduler.Tournament = scheduler.NewRoundRobin(ids, tcs, b, *rounds)

	core := stats.New()
	params, useSPRT, err := parseSPRT(*sprtSpec)
	if err != nil {
		logw.Exitf(ctx, "Invalid -sprt: %v", err)
	}
	var sprtParams lang.Optional[sprt.Parameters]
	if useSPRT {
		sprtParams = lang.Some(params)
	}
	tournament = scheduler.NewStatsWrapper(tournament, core, ids[0], ids[1], sprtParams)
	tournament = scheduler.NewReporterWrapper(tournament)

	if *gameLog != "" {
		w, err := newTextGameWriter(*gameLog)
		if err != nil {
			logw.Exitf(ctx, "Failed to open -game-log: %v", err)
		}
		defer w.Close()
		tournament = scheduler.NewPgnOutWrapper(ctx, tournament, w)
	}

	cfg := game.Config{Grace: *grace, Adjudication: adjudicationOption()}
	r := runner.New(runnerCfgs, moveLimitOracle{maxPlies: *maxPlies}, cfg, *concurrency)

	logw.Infof(ctx, "Starting tournament: %v engines, %v rounds, %v expected matches, grace=%v", len(ids), *rounds, tournament.ExpectedMaximumMatchCount(), *grace)
	if *bookShuffle {
		logw.Infof(ctx, "Book shuffle seed: %v", *bookSeed)
	}

	if err := r.Run(ctx, tournament, *reportInterval); err != nil {
		logw.Exitf(ctx, "Tournament failed: %v", err)
	}

	tournament.PrintIntervalReport(ctx)
	logw.Infof(ctx, "Tournament complete")
}

func loadBook(path string, shuffle bool, seed int64, start int) (*book.Book, error) {
	var opts []book.Option
	if shuffle {
		opts = append(opts, book.WithShuffle(rand.New(rand.NewSource(seed))))
	}
	if start > 1 {
		opts = append(opts, book.WithStartIndex(start))
	}
	return book.Load(path, opts...)
}

func adjudicationOption() lang.Optional[game.Adjudication] {
	rPlies, dPlies := *resignPlies, *drawPlies
	if *resignCp == 0 {
		rPlies = 0
	}
	if *drawCp == 0 {
		dPlies = 0
	}
	if rPlies <= 0 && dPlies <= 0 {
		return lang.Optional[game.Adjudication]{}
	}
	return lang.Some(game.Adjudication{
		ResignThreshold: tourney.CentipawnScore(int32(*resignCp)),
		ResignPlies:     rPlies,
		DrawThreshold:   tourney.CentipawnScore(int32(*drawCp)),
		DrawPlies:       dPlies,
		DrawMinPly:      *drawMinPly,
	})
}

// parseSPRT parses "nelo0/nelo1/alpha/beta"; an empty spec disables SPRT.
func parseSPRT(spec string) (sprt.Parameters, bool, error) {
	if spec == "" {
		return sprt.Parameters{}, false, nil
	}
	parts := strings.Split(spec, "/")
	if len(parts) != 4 {
		return sprt.Parameters{}, false, fmt.Errorf("expected nelo0/nelo1/alpha/beta, got %q", spec)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return sprt.Parameters{}, false, fmt.Errorf("field %v: %w", i, err)
		}
		vals[i] = v
	}
	return sprt.Parameters{Nelo0: vals[0], Nelo1: vals[1], Alpha: vals[2], Beta: vals[3]}, true, nil
}
