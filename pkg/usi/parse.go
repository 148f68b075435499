package usi

import (
	"github.com/herohde/usitourney/pkg/tourney"
	"strconv"
	"time"
)

// parseInfo updates rec from the tokens following an "info" line. Tokens
// are: depth seldepth nodes nps time hashfull score {cp|mate} N. Unknown
// tokens are skipped; "string" terminates
// parsing of the rest of the line; a malformed numeric field is silently
// ignored and the corresponding field is left unchanged (its zero value, or
// whatever an earlier info line set).
func parseInfo(tokens []string, rec *tourney.MoveRecord) {
	for i := 0; i < len(tokens); i++ {
		switch tokens[i] {
		case "depth":
			i++
			if n, ok := atoi(tokens, i); ok {
				rec.Depth = n
			}

		case "seldepth":
			i++
			if n, ok := atoi(tokens, i); ok {
				rec.SelDepth = n
			}

		case "nodes":
			i++
			if n, ok := atou64(tokens, i); ok {
				rec.Nodes = n
			}

		case "nps":
			i++
			if n, ok := atou64(tokens, i); ok {
				rec.NPS = n
			}

		case "time":
			i++
			if n, ok := atoi(tokens, i); ok {
				rec.EngineTime = time.Duration(n) * time.Millisecond
			}

		case "hashfull":
			i++
			if n, ok := atoi(tokens, i); ok {
				rec.Hashfull = n
			}

		case "score":
			i++
			if i >= len(tokens) {
				return
			}
			switch tokens[i] {
			case "cp":
				i++
				if n, ok := atoi(tokens, i); ok {
					rec.Score = tourney.CentipawnScore(int32(n))
				}
			case "mate":
				i++
				if n, ok := atoi(tokens, i); ok {
					rec.Score = tourney.MateScore(int32(n))
				}
			}

		case "string":
			// The rest of the line is free-form; stop parsing.
			return

		default:
			// Unrecognized token (e.g. lowerbound, upperbound, currmove):
			// skip and continue.
		}
	}
}

func atoi(tokens []string, i int) (int, bool) {
	if i >= len(tokens) {
		return 0, false
	}
	n, err := strconv.Atoi(tokens[i])
	if err != nil {
		return 0, false
	}
	return n, true
}

func atou64(tokens []string, i int) (uint64, bool) {
	if i >= len(tokens) {
		return 0, false
	}
	n, err := strconv.ParseUint(tokens[i], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
