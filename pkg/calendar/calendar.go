// Package calendar defines the working-day predicate the simulation engine
// consults once per iteration of its day loop (spec §4.9 "a working-day
// calendar (a predicate is_working_day(d))"). It is exported, unlike the
// internal/ packages, because an external collaborator building a generator
// or dashboard around this core needs to construct and share the same
// calendar the simulation ran against (spec §9 open question: the calendar
// is injected, never hardcoded into the engine).
package calendar

import (
	"time"

	"github.com/courtsim/causelist/internal/core"
)

// Calendar answers whether a given date is a working day.
type Calendar interface {
	IsWorkingDay(d core.Date) bool
}

// FixedPattern is a Mon-Fri calendar with an explicit holiday set layered on
// top, the simplest concrete Calendar and the one the spec's "192 working
// days/year" default jurisdiction decision (SPEC_FULL.md) is calibrated
// against: 52 weeks * 5 weekdays = 260, minus roughly 68 holidays/court
// vacation days, lands near 192.
type FixedPattern struct {
	holidays map[int]bool // keyed by core.Date.Ordinal()
}

// NewFixedPattern builds a Mon-Fri calendar that additionally excludes the
// given holiday dates.
func NewFixedPattern(holidays []core.Date) *FixedPattern {
	h := make(map[int]bool, len(holidays))
	for _, d := range holidays {
		h[d.Ordinal()] = true
	}
	return &FixedPattern{holidays: h}
}

// IsWorkingDay reports true for Monday through Friday, excluding any date in
// the holiday set.
func (f *FixedPattern) IsWorkingDay(d core.Date) bool {
	wd := d.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !f.holidays[d.Ordinal()]
}

// AllDays is a Calendar with no weekends or holidays, useful for tests that
// want every calendar day to be a working day.
type AllDays struct{}

func (AllDays) IsWorkingDay(core.Date) bool { return true }
