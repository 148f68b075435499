package tourney

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// TimeControl is a per-side base time plus a per-move increment.
type TimeControl struct {
	Base      time.Duration
	Increment time.Duration
}

// timeControlPattern implements the time control grammar:
//
//	^(?:(?P<min>[0-9.]+)[:分])?(?:(?P<sec>[0-9.]+)秒?)?(?:\+(?P<incr>[0-9.]+)秒?)?$
//
// Examples: "3:0+2" is 3 minutes plus a 2s increment; "60秒+1" is 60s plus a
// 1s increment.
var timeControlPattern = regexp.MustCompile(`^(?:(?P<min>[0-9.]+)[:分])?(?:(?P<sec>[0-9.]+)秒?)?(?:\+(?P<incr>[0-9.]+)秒?)?$`)

// ParseTimeControl parses a time control string per the grammar above.
func ParseTimeControl(s string) (TimeControl, error) {
	m := timeControlPattern.FindStringSubmatch(s)
	if m == nil {
		return TimeControl{}, fmt.Errorf("tourney: invalid time control %q", s)
	}

	names := timeControlPattern.SubexpNames()
	var minStr, secStr, incrStr string
	for i, name := range names {
		switch name {
		case "min":
			minStr = m[i]
		case "sec":
			secStr = m[i]
		case "incr":
			incrStr = m[i]
		}
	}
	if minStr == "" && secStr == "" && incrStr == "" {
		return TimeControl{}, fmt.Errorf("tourney: invalid time control %q", s)
	}

	min, err := parseSeconds(minStr)
	if err != nil {
		return TimeControl{}, fmt.Errorf("tourney: invalid time control %q: %w", s, err)
	}
	sec, err := parseSeconds(secStr)
	if err != nil {
		return TimeControl{}, fmt.Errorf("tourney: invalid time control %q: %w", s, err)
	}
	incr, err := parseSeconds(incrStr)
	if err != nil {
		return TimeControl{}, fmt.Errorf("tourney: invalid time control %q: %w", s, err)
	}

	return TimeControl{
		Base:      time.Duration((min*60+sec)*1000) * time.Millisecond,
		Increment: time.Duration(incr*1000) * time.Millisecond,
	}, nil
}

func parseSeconds(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// String renders a canonical, round-trippable form: "<base>秒+<incr>".
func (t TimeControl) String() string {
	return fmt.Sprintf("%g秒+%g", t.Base.Seconds(), t.Increment.Seconds())
}

// ClockResult signals the outcome of a Clock.Step call.
type ClockResult uint8

const (
	// Ok means the elapsed time was charged normally.
	Ok ClockResult = iota
	// TimeElapsed means elapsed exceeded the side's remaining time.
	TimeElapsed
)

// Clock tracks one side's remaining time during a game.
type Clock struct {
	tc        TimeControl
	remaining time.Duration
}

// NewClock initializes a Clock to tc.Base + tc.Increment.
func NewClock(tc TimeControl) *Clock {
	return &Clock{tc: tc, remaining: tc.Base + tc.Increment}
}

// Remaining returns the time left on the clock.
func (c *Clock) Remaining() time.Duration {
	return c.remaining
}

// Step charges elapsed time d against the clock. If d exceeds the remaining
// time, the clock is zeroed and TimeElapsed is returned; otherwise the
// increment is credited back and Ok is returned.
func (c *Clock) Step(d time.Duration) ClockResult {
	if d > c.remaining {
		c.remaining = 0
		return TimeElapsed
	}
	c.remaining = c.remaining - d + c.tc.Increment
	return Ok
}
