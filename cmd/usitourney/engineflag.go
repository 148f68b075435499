package main

import (
	"fmt"
	"strings"

	"github.com/herohde/usitourney/pkg/runner"
	"github.com/herohde/usitourney/pkg/tourney"
	"github.com/herohde/usitourney/pkg/usi"
)

// engineSpec is one parsed "-engine" flag occurrence.
type engineSpec struct {
	id runner.EngineConfig
	tc tourney.TimeControl
}

// engineFlags accumulates repeated "-engine" occurrences. Each value is a
// comma-separated list of key=value pairs:
//
//	id=<EngineID>,bin=<path>[,dir=<workdir>][,tc=<time control>]
//	[,arg=<argv>]*[,opt.<Name>=<Value>]*
//
// arg and opt.* may repeat to build up argv and USI options respectively.
type engineFlags struct {
	specs []engineSpec
}

func (f *engineFlags) String() string {
	var parts []string
	for _, s := range f.specs {
		parts = append(parts, string(s.id.ID))
	}
	return strings.Join(parts, ",")
}

func (f *engineFlags) Set(s string) error {
	var id, bin, dir string
	var tc tourney.TimeControl
	var args []string
	var opts []usi.Option

	for _, field := range strings.Split(s, ",") {
		kv := strings.SplitN(field, "=", 2)
		if len(kv) != 2 {
			return fmt.Errorf("engine spec %q: malformed field %q", s, field)
		}
		key, value := kv[0], kv[1]

		switch {
		case key == "id":
			id = value
		case key == "bin":
			bin = value
		case key == "dir":
			dir = value
		case key == "tc":
			parsed, err := tourney.ParseTimeControl(value)
			if err != nil {
				return fmt.Errorf("engine spec %q: %w", s, err)
			}
			tc = parsed
		case key == "arg":
			args = append(args, value)
		case strings.HasPrefix(key, "opt."):
			opts = append(opts, usi.WithOption(strings.TrimPrefix(key, "opt."), value))
		default:
			return fmt.Errorf("engine spec %q: unknown field %q", s, key)
		}
	}

	if id == "" || bin == "" {
		return fmt.Errorf("engine spec %q: both id= and bin= are required", s)
	}
	if len(args) > 0 {
		opts = append([]usi.Option{usi.WithArgs(args...)}, opts...)
	}
	if dir != "" {
		opts = append(opts, usi.WithWorkDir(dir))
	}

	f.specs = append(f.specs, engineSpec{
		id: runner.EngineConfig{ID: tourney.EngineID(id), Binary: bin, Options: opts},
		tc: tc,
	})
	return nil
}
