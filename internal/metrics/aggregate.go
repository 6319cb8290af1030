package metrics

import "github.com/courtsim/causelist/internal/core"

// Aggregator accumulates per-day and per-case statistics across a horizon
// and exposes a Finalize pass for run-level aggregates (spec §4.10).
type Aggregator struct {
	initialPopulation int

	daily []DayCounters

	courtroomTotals map[string]int // cumulative scheduled count per courtroom, for Gini
	scheduledOnce   map[core.CaseID]bool
	capacitySeen    map[string]int // cumulative effective-capacity per courtroom, for utilization

	totalHeard, totalAdjourned, totalDisposed int
	totalScheduledSlots                       int
	totalCapacitySlots                        int
	overridesApplied, overridesRejected       int
}

// NewAggregator constructs an Aggregator. initialPopulation is the case
// count at run start (spec §4.10 "disposal rate = disposed / initial_population").
func NewAggregator(initialPopulation int) *Aggregator {
	return &Aggregator{
		initialPopulation: initialPopulation,
		courtroomTotals:   map[string]int{},
		scheduledOnce:     map[core.CaseID]bool{},
		capacitySeen:      map[string]int{},
	}
}

// Observe records one day's counters and the set of cases scheduled that
// day (for coverage) plus each courtroom's effective capacity that day (for
// utilization).
func (a *Aggregator) Observe(dc DayCounters, scheduledCaseIDs []core.CaseID, courtroomCapacity map[string]int) {
	a.daily = append(a.daily, dc)
	a.totalHeard += dc.Heard
	a.totalAdjourned += dc.Adjourned
	a.totalDisposed += dc.Disposed
	a.totalScheduledSlots += dc.Scheduled
	a.overridesApplied += dc.OverridesApplied
	a.overridesRejected += dc.OverridesRejected

	for _, id := range scheduledCaseIDs {
		a.scheduledOnce[id] = true
	}
	for courtroomID, count := range dc.CourtroomCounts {
		a.courtroomTotals[courtroomID] += count
	}
	for courtroomID, cap := range courtroomCapacity {
		a.capacitySeen[courtroomID] += cap
		a.totalCapacitySlots += cap
	}
}

// Summary is the run-level aggregate report (spec §4.10, §6 "Run summary").
type Summary struct {
	DisposalRate      float64
	AdjournmentRate   float64
	Utilization       float64
	Gini              float64
	CaseCoverage      float64
	TotalHeard        int
	TotalAdjourned    int
	TotalDisposed     int
	TotalDays         int
	OverridesApplied  int
	OverridesRejected int
	TotalUnripeFiltered  int
	TotalGapBlocked      int
	TotalCapacityLimited int
	TotalMissingParams   int
}

// Finalize computes the run-level aggregates (spec §4.10). totalCaseCount is
// the population size at the time coverage is measured (initial + inflow),
// per spec §8 invariant 1's "|initial population| + |inflow|".
func (a *Aggregator) Finalize(totalCaseCount int) Summary {
	s := Summary{
		TotalHeard:        a.totalHeard,
		TotalAdjourned:    a.totalAdjourned,
		TotalDisposed:     a.totalDisposed,
		TotalDays:         len(a.daily),
		OverridesApplied:  a.overridesApplied,
		OverridesRejected: a.overridesRejected,
	}
	if a.initialPopulation > 0 {
		s.DisposalRate = float64(a.totalDisposed) / float64(a.initialPopulation)
	}
	if denom := a.totalHeard + a.totalAdjourned; denom > 0 {
		s.AdjournmentRate = float64(a.totalAdjourned) / float64(denom)
	}
	if a.totalCapacitySlots > 0 {
		s.Utilization = float64(a.totalScheduledSlots) / float64(a.totalCapacitySlots)
	}
	counts := make([]int, 0, len(a.courtroomTotals))
	for _, c := range a.courtroomTotals {
		counts = append(counts, c)
	}
	s.Gini = Gini(counts)
	if totalCaseCount > 0 {
		s.CaseCoverage = float64(len(a.scheduledOnce)) / float64(totalCaseCount)
	}
	for _, dc := range a.daily {
		s.TotalUnripeFiltered += dc.UnripeFiltered
		s.TotalGapBlocked += dc.GapBlocked
		s.TotalCapacityLimited += dc.CapacityLimited
		s.TotalMissingParams += dc.MissingParams
	}
	return s
}

// Daily returns every recorded day's counters, in observation order.
func (a *Aggregator) Daily() []DayCounters {
	return append([]DayCounters{}, a.daily...)
}

// RunningGini computes the Gini coefficient over cumulative per-courtroom
// scheduled counts as observed so far, for mid-run reporting (e.g. a
// Prometheus gauge updated once per simulated day) without waiting for
// Finalize.
func (a *Aggregator) RunningGini() float64 {
	counts := make([]int, 0, len(a.courtroomTotals))
	for _, c := range a.courtroomTotals {
		counts = append(counts, c)
	}
	return Gini(counts)
}
