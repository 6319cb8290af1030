// Package schedalgo implements C7 Scheduling Algorithm: the nine-step
// per-day pipeline that turns a raw case population into courtroom
// assignments (spec §4.7). It is pure over its inputs plus the case
// population, which it mutates through the documented Case operations
// (AdvanceAge, ComputeReadiness, MarkScheduled, ClearDailyOverlay) plus
// direct writes of the cached Ripeness verdict and the per-day
// ForcedRipeToday overlay flag — the same
// discipline the teacher's scheduler.Solve applies to the nodes/pods it
// mutates via NodeClaimTemplate/existingNode methods rather than ad hoc
// field writes.
package schedalgo

import (
	"fmt"

	"github.com/courtsim/causelist/internal/allocator"
	"github.com/courtsim/causelist/internal/casepop"
	"github.com/courtsim/causelist/internal/core"
	"github.com/courtsim/causelist/internal/metrics"
	"github.com/courtsim/causelist/internal/override"
	"github.com/courtsim/causelist/internal/params"
	"github.com/courtsim/causelist/internal/policy"
	"github.com/courtsim/causelist/internal/ripeness"
)

// Rejection pairs a case id with the pipeline stage reason it was filtered
// (spec §4.7 steps 3-4 "record rejects with reason" / "record gap blocked").
type Rejection struct {
	CaseID core.CaseID
	Reason string
}

// Options bundles the per-day inputs schedule_day needs beyond the case
// list and courtroom set (spec §4.7 signature's trailing `options`). Strict
// vs non-strict ripeness fallthrough lives on the classifier's own
// threshold configuration (spec §4.3 rule 5), not here.
type Options struct {
	MinGapDays      int
	HardMaxCapacity int
}

// SchedulingResult is the pipeline's output (spec §3 SchedulingResult).
type SchedulingResult struct {
	Date         core.Date
	PolicyName   string
	Assignments  map[string][]core.CaseID
	Scheduled    []core.CaseID
	Explanations map[core.CaseID]string

	AppliedOverrides  []override.Request
	RejectedOverrides []override.Rejection

	UnripeRejected  []Rejection
	GapBlocked      []Rejection
	CapacityLimited []core.CaseID

	Counters metrics.DayCounters
}

// ScheduleDay runs the fixed nine-step pipeline (spec §4.7). cases is the
// full candidate set for the day (disposed cases included; step 1 excludes
// them) so the caller never has to pre-filter. population resolves case ids
// named by `add`-kind overrides; courtrooms is mutated in place by Allocate
// and by any `capacity`-kind override.
//
// Returns an error wrapping core.ErrInvariantViolation if a disposed case
// survives to the allocation step — a bug in the policy or eligibility
// filter, never a normal runtime condition (spec §4.11).
func ScheduleDay(
	cases []*casepop.Case,
	population override.CaseLookup,
	courtrooms *allocator.Set,
	today core.Date,
	overrideRequests []override.Request,
	pol policy.Policy,
	classifier *ripeness.Classifier,
	tables *params.Tables,
	opts Options,
) (SchedulingResult, error) {
	result := SchedulingResult{
		Date:         today,
		PolicyName:   pol.Name(),
		Explanations: map[core.CaseID]string{},
	}

	// 1. Exclude disposed cases.
	active := make([]*casepop.Case, 0, len(cases))
	for _, c := range cases {
		if !c.IsDisposed() {
			active = append(active, c)
		}
	}

	// 2. advance_age + compute_readiness.
	for _, c := range active {
		c.AdvanceAge(today)
		c.ComputeReadiness(tables.TypeStats(c.Type))
	}

	// Ripeness-kind overrides mark their non-disposed case forced-ripe before
	// steps 3-4, so it is neither filtered as unripe nor gap-blocked today;
	// override.Apply still validates and records the request in step 6.
	forceRipe := map[core.CaseID]bool{}
	for _, req := range overrideRequests {
		if req.Kind == override.KindRipeness {
			forceRipe[req.CaseID] = true
		}
	}
	for _, c := range active {
		if forceRipe[c.ID] {
			c.ForcedRipeToday = true
		}
	}

	// 3. Ripeness filter. Strict vs non-strict fallthrough is the
	// classifier's own configuration (spec §4.3 rule 5); schedule_day only
	// acts on the resulting verdict.
	ripe := make([]*casepop.Case, 0, len(active))
	for _, c := range active {
		if c.ForcedRipeToday {
			ripe = append(ripe, c)
			continue
		}
		verdict := classifier.Evaluate(viewOf(c))
		c.Ripeness = verdict
		if c.EffectiveRipe() {
			ripe = append(ripe, c)
		} else {
			result.UnripeRejected = append(result.UnripeRejected, Rejection{c.ID, string(verdict.Verdict) + ": " + verdict.Reason})
		}
	}

	// 4. Eligibility filter (min_gap; a forced-ripe case bypasses it).
	eligible := make([]*casepop.Case, 0, len(ripe))
	for _, c := range ripe {
		if c.ForcedRipeToday || c.IsReadyForScheduling(today, opts.MinGapDays) {
			eligible = append(eligible, c)
		} else {
			result.GapBlocked = append(result.GapBlocked, Rejection{c.ID, "gap_blocked"})
		}
	}

	// 5. Policy ordering.
	ordered := pol.Prioritize(eligible, today)

	// 6. Apply overrides.
	overrideResult := override.Apply(ordered, overrideRequests, population, courtrooms, today, opts.HardMaxCapacity)
	result.AppliedOverrides = overrideResult.Applied
	result.RejectedOverrides = overrideResult.Rejected

	// Invariant check: no disposed case may reach the allocator (spec §4.11).
	for _, c := range overrideResult.Candidates {
		if c.IsDisposed() {
			return result, fmt.Errorf("%w: disposed case %s reached allocation on %s", core.ErrInvariantViolation, c.ID, today)
		}
	}

	// 7. Allocate.
	allocResult := allocator.Allocate(overrideResult.Candidates, courtrooms, today)
	result.Assignments = make(map[string][]core.CaseID, len(allocResult.Assignments))
	for courtroomID, assigned := range allocResult.Assignments {
		ids := make([]core.CaseID, 0, len(assigned))
		for _, c := range assigned {
			ids = append(ids, c.ID)
		}
		result.Assignments[courtroomID] = ids
	}
	for _, c := range allocResult.CapacityLimited {
		result.CapacityLimited = append(result.CapacityLimited, c.ID)
	}

	// 8. mark_scheduled + explanation.
	for courtroomID, assigned := range allocResult.Assignments {
		for _, c := range assigned {
			c.MarkScheduled(today, courtroomID)
			result.Scheduled = append(result.Scheduled, c.ID)
			result.Explanations[c.ID] = explain(c, courtroomID)
		}
	}

	// 9. Clear per-day overlay flags.
	for _, c := range active {
		c.ClearDailyOverlay()
	}

	result.Counters = metrics.DayCounters{
		Date:              today,
		Scheduled:         len(result.Scheduled),
		UnripeFiltered:    len(result.UnripeRejected),
		GapBlocked:        len(result.GapBlocked),
		CapacityLimited:   len(result.CapacityLimited),
		OverridesApplied:  len(result.AppliedOverrides),
		OverridesRejected: len(result.RejectedOverrides),
		CourtroomCounts:   courtrooms.Counts(),
	}
	return result, nil
}

// explain composes the per-case explanation string from (urgency, stage,
// allocation) (spec §4.7 step 8).
func explain(c *casepop.Case, courtroomID string) string {
	urgency := "routine"
	if c.IsUrgent {
		urgency = "urgent"
	}
	return fmt.Sprintf("%s case at stage %q allocated to courtroom %s", urgency, c.Stage, courtroomID)
}

// viewOf projects a casepop.Case onto the minimal ripeness.CaseView the
// classifier needs, computing the inter-hearing gap sequence from History
// (spec §4.3 CaseView.HearingGapDays).
func viewOf(c *casepop.Case) ripeness.CaseView {
	var gaps []int
	var last *core.Date
	for _, rec := range c.History {
		if rec.Outcome != core.OutcomeHeard && rec.Outcome != core.OutcomeAdjourned {
			continue
		}
		d := rec.Date
		if last != nil {
			gaps = append(gaps, d.Sub(*last))
		}
		last = &d
	}
	return ripeness.CaseView{
		Stage:              c.Stage,
		HearingCount:       c.HearingCount,
		LastHearingPurpose: c.LastHearingPurpose,
		HearingGapDays:     gaps,
	}
}
