// Package tariff is the usage-to-cost translation engine: it validates
// interval readings, classifies them into time-of-use periods, prices each
// billing month under the three residential rate plans and compares the
// results.
package tariff

import (
	"fmt"
	"time"

	"github.com/levenlabs/go-lflag"
)

// Engine runs the comparison pipeline with a fixed rate schedule and the
// utility's local time zone. Both are immutable after construction, so an
// Engine is safe for concurrent use.
type Engine struct {
	loc      *time.Location
	schedule Schedule
}

// New returns an Engine for the given schedule and utility time zone.
func New(schedule Schedule, loc *time.Location) *Engine {
	return &Engine{loc: loc, schedule: schedule}
}

// Configured sets up the Engine based on flags.
func Configured() *Engine {
	tz := lflag.String("utility-timezone", "America/New_York", "IANA time zone the utility bills in")
	schedulePath := lflag.String("tariff-schedule", "", "Path to a YAML rate schedule overriding the built-in one")

	e := &Engine{}
	lflag.Do(func() {
		loc, err := time.LoadLocation(*tz)
		if err != nil {
			panic(fmt.Sprintf("invalid utility-timezone %q: %v", *tz, err))
		}
		e.loc = loc

		e.schedule = DefaultSchedule()
		if *schedulePath != "" {
			s, err := LoadSchedule(*schedulePath)
			if err != nil {
				panic(fmt.Sprintf("failed to load tariff schedule: %v", err))
			}
			e.schedule = s
		}
	})
	return e
}

// Location returns the utility's local time zone.
func (e *Engine) Location() *time.Location {
	return e.loc
}
