// Package metrics implements C10 Metrics & Event Log: per-day and per-case
// counters, an append-only streaming event log, and the finalization pass
// that computes disposal rate, adjournment rate, utilization, Gini, and
// coverage (spec §4.10).
package metrics

import "github.com/courtsim/causelist/internal/core"

// DayCounters is one day's worth of scheduling counters (spec §4.10).
type DayCounters struct {
	Date             core.Date
	Scheduled        int
	Heard            int
	Adjourned        int
	Disposed         int
	UnripeFiltered   int
	GapBlocked       int
	CapacityLimited  int
	MissingParams    int
	OverridesApplied int
	OverridesRejected int
	CourtroomCounts  map[string]int
}

// DayEvent is one published record of a simulated day (spec §4.10 "The
// event log is append-only and supports streaming export").
type DayEvent struct {
	Date        core.Date
	Counters    DayCounters
	ScheduledBy map[string][]core.CaseID // courtroom id -> ordered case ids
	Explanations map[core.CaseID]string
}
