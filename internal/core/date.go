// Package core holds types shared across every component of the scheduling
// simulator: the calendar-day representation, case identity, the stage
// vocabulary, and the error sentinels that distinguish locally-recoverable
// conditions from invariant violations.
package core

import (
	"fmt"
	"time"
)

// Date is a calendar day with no time-of-day component. It is comparable
// with ==, orderable with Before/After, and convertible to a stable ordinal
// for hashing (see internal/rng) without pulling in time.Time's monotonic
// reading, which is not stable across processes.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate truncates t to a calendar day in UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{year: y, month: m, day: d}
}

// DateFromOrdinal reconstructs a Date from the ordinal produced by Ordinal.
func DateFromOrdinal(ordinal int) Date {
	return NewDate(epoch.AddDate(0, 0, ordinal))
}

var epoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// Ordinal returns the number of days since 1970-01-01, used as the date
// component of the deterministic RNG sub-stream key (spec §4.8/§9) and as a
// sortable, hashable integer key for capacity-override tables.
func (d Date) Ordinal() int {
	return int(d.toTime().Sub(epoch).Hours() / 24)
}

func (d Date) toTime() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n calendar days later (n may be negative).
func (d Date) AddDays(n int) Date {
	return NewDate(d.toTime().AddDate(0, 0, n))
}

// Sub returns the number of calendar days between d and other (d - other).
func (d Date) Sub(other Date) int {
	return d.Ordinal() - other.Ordinal()
}

func (d Date) Before(other Date) bool { return d.Ordinal() < other.Ordinal() }
func (d Date) After(other Date) bool  { return d.Ordinal() > other.Ordinal() }
func (d Date) Equal(other Date) bool  { return d.Ordinal() == other.Ordinal() }
func (d Date) IsZero() bool           { return d == Date{} }

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

// Weekday exposes the underlying weekday for calendar implementations that
// want a Mon-Fri default before layering jurisdiction-specific holidays on
// top (see pkg/calendar).
func (d Date) Weekday() time.Weekday {
	return d.toTime().Weekday()
}
