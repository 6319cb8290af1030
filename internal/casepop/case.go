// Package casepop implements C2 Case Entity: per-case mutable state,
// lifecycle transitions, and the derived readiness/priority scores (spec
// §4.2), plus the population container the engine and algorithm share.
package casepop

import (
	"math"

	"github.com/courtsim/causelist/internal/core"
	"github.com/courtsim/causelist/internal/params"
)

// Readiness weights, named per spec §4.2. Kept as constants rather than
// configuration per the spec's open-question decision (SPEC_FULL.md).
const (
	ReadinessHearingCountWeight = 0.4
	ReadinessGapWeight          = 0.3
	ReadinessAdvancedStageWeight = 0.3

	ReadinessHearingCountDivisor = 50.0
	ReadinessGapNumerator        = 100.0
)

// Priority weights, named per spec §4.2.
const (
	PriorityAgeWeight             = 0.35
	PriorityReadinessWeight       = 0.25
	PriorityUrgencyWeight         = 0.25
	PriorityAdjournmentBoostWeight = 0.15

	PriorityAgeDivisorDays     = 365.0
	PriorityUrgentValue        = 1.0
	PriorityNonUrgentValue     = 0.5
	AdjournmentBoostHalfLifeDays = 21.0
)

// Case is the per-case mutable entity (spec §3). All mutating operations are
// documented as serial-per-case; the engine guarantees this by never
// touching the same case from two goroutines concurrently (spec §5).
type Case struct {
	ID        core.CaseID
	Type      core.CaseType
	FiledDate core.Date

	Stage  core.Stage
	Status core.LifecycleStatus

	HearingCount       int
	LastHearingDate    *core.Date
	LastHearingPurpose string
	IsUrgent           bool

	Ripeness core.RipenessState

	ReadinessScore float64
	PriorityScore  float64

	LastScheduledDate *core.Date
	GapCounter        int

	// MinGapOverride, if non-nil, is a per-case minimum hearing gap that
	// supersedes the run's min_gap_days (spec §9 open question: capacity
	// overrides cannot bypass min_gap, only this or a ripeness override can).
	MinGapOverride *int

	History []core.HearingRecord

	// Per-day overlay scratch fields (spec §4.5/§9 "Override side-effects on
	// cases"): set by the override layer for the duration of one day's
	// scheduling, cleared by the algorithm's final step (ClearDailyOverlay).
	// These are never read across a day boundary and carry no intrinsic
	// state of their own.
	ForcedRipeToday      bool
	PriorityOverrideToday *float64

	// CourtroomID is set by MarkScheduled when the case is scheduled for
	// the current day (spec §3 Hearing record courtroom_id). It is not
	// cleared afterwards; it holds the courtroom of the last scheduling.
	CourtroomID string

	AgeDays int
}

// NewCase constructs a case in its initial pending state.
func NewCase(id core.CaseID, caseType core.CaseType, filed core.Date, stage core.Stage) *Case {
	return &Case{
		ID:        id,
		Type:      caseType,
		FiledDate: filed,
		Stage:     stage,
		Status:    core.StatusPending,
	}
}

// IsDisposed reports whether the case has reached the terminal set (spec §3
// invariant ii).
func (c *Case) IsDisposed() bool {
	return c.Status == core.StatusDisposed || core.IsTerminal(c.Stage)
}

// AdvanceAge recomputes AgeDays as of today (spec §4.2).
func (c *Case) AdvanceAge(today core.Date) {
	c.AgeDays = today.Sub(c.FiledDate)
	if c.AgeDays < 0 {
		c.AgeDays = 0
	}
}

// ComputeReadiness recomputes and caches ReadinessScore (spec §4.2):
//
//	readiness = 0.4*clamp(hearing_count/50,0,1) + 0.3*clamp(100/max(median_gap,1),0,1) + 0.3*[stage advanced]
func (c *Case) ComputeReadiness(stats params.TypeStats) float64 {
	hearingTerm := clamp01(float64(c.HearingCount) / ReadinessHearingCountDivisor)
	medianGap := stats.MedianInterHearingGap
	if medianGap < 1 {
		medianGap = 1
	}
	gapTerm := clamp01(ReadinessGapNumerator / float64(medianGap))
	advancedTerm := 0.0
	if core.AdvancedStages[c.Stage] {
		advancedTerm = 1.0
	}
	c.ReadinessScore = ReadinessHearingCountWeight*hearingTerm +
		ReadinessGapWeight*gapTerm +
		ReadinessAdvancedStageWeight*advancedTerm
	return c.ReadinessScore
}

// ComputePriority recomputes and caches PriorityScore (spec §4.2):
//
//	priority = 0.35*clamp(age_days/365,0,1) + 0.25*readiness + 0.25*(urgent?1:0.5) + 0.15*adjournment_boost
//
// today is required to compute the adjournment boost's days-since-last-hearing
// term; weights is the named constant bundle (kept as a parameter so callers
// and tests can see the formula's shape without reaching into package
// constants, while production code always passes DefaultPriorityWeights).
func (c *Case) ComputePriority(today core.Date, weights PriorityWeights) float64 {
	ageTerm := clamp01(float64(c.AgeDays) / weights.AgeDivisorDays)
	urgentTerm := weights.NonUrgentValue
	if c.IsUrgent {
		urgentTerm = weights.UrgentValue
	}
	boost := 0.0
	if c.LastHearingDate != nil {
		daysSince := float64(today.Sub(*c.LastHearingDate))
		if daysSince < 0 {
			daysSince = 0
		}
		boost = math.Exp(-daysSince / weights.AdjournmentBoostHalfLifeDays)
	}
	c.PriorityScore = weights.AgeWeight*ageTerm +
		weights.ReadinessWeight*c.ReadinessScore +
		weights.UrgencyWeight*urgentTerm +
		weights.AdjournmentBoostWeight*boost
	return c.PriorityScore
}

// PriorityWeights is the named constant bundle used by ComputePriority and
// the composite-readiness policy (spec §4.2, §4.4).
type PriorityWeights struct {
	AgeWeight              float64
	ReadinessWeight        float64
	UrgencyWeight          float64
	AdjournmentBoostWeight float64
	AgeDivisorDays         float64
	UrgentValue            float64
	NonUrgentValue         float64
	AdjournmentBoostHalfLifeDays float64
}

// DefaultPriorityWeights is the spec-mandated weight bundle (spec §4.2).
var DefaultPriorityWeights = PriorityWeights{
	AgeWeight:              PriorityAgeWeight,
	ReadinessWeight:        PriorityReadinessWeight,
	UrgencyWeight:          PriorityUrgencyWeight,
	AdjournmentBoostWeight: PriorityAdjournmentBoostWeight,
	AgeDivisorDays:         PriorityAgeDivisorDays,
	UrgentValue:            PriorityUrgentValue,
	NonUrgentValue:         PriorityNonUrgentValue,
	AdjournmentBoostHalfLifeDays: AdjournmentBoostHalfLifeDays,
}

// IsReadyForScheduling reports whether the case is eligible per spec §4.2:
// not disposed, and either never heard or the gap since the last hearing is
// at least minGap (the case's MinGapOverride takes precedence when set).
func (c *Case) IsReadyForScheduling(today core.Date, minGap int) bool {
	if c.IsDisposed() {
		return false
	}
	if c.LastHearingDate == nil {
		return true
	}
	effectiveGap := minGap
	if c.MinGapOverride != nil {
		effectiveGap = *c.MinGapOverride
	}
	return today.Sub(*c.LastHearingDate) >= effectiveGap
}

// MarkScheduled records that the case was allocated to courtroomID today
// (spec §4.2, §4.7 step 8).
func (c *Case) MarkScheduled(today core.Date, courtroomID string) {
	c.Status = core.StatusScheduled
	c.CourtroomID = courtroomID
	c.LastScheduledDate = &today
	c.GapCounter = 0
}

// MarkDisposed transitions the case to its terminal stage (spec §4.2).
func (c *Case) MarkDisposed(today core.Date, finalStage core.Stage) {
	c.Stage = finalStage
	c.Status = core.StatusDisposed
}

// RecordHearing appends an immutable hearing record and updates
// HearingCount/LastHearingDate (spec §4.8 step 4). It is the only way
// History grows.
func (c *Case) RecordHearing(rec core.HearingRecord) {
	c.History = append(c.History, rec)
	if rec.Outcome == core.OutcomeHeard || rec.Outcome == core.OutcomeAdjourned {
		c.HearingCount++
	}
	d := rec.Date
	c.LastHearingDate = &d
}

// ClearDailyOverlay clears the per-day scratch fields an override layer may
// have set (spec §4.5, §4.7 step 9, §9 "Override side-effects on cases").
func (c *Case) ClearDailyOverlay() {
	c.ForcedRipeToday = false
	c.PriorityOverrideToday = nil
}

// EffectiveRipe reports whether the case should be treated as ripe for
// today's scheduling, honoring a same-day force-ripe override.
func (c *Case) EffectiveRipe() bool {
	return c.ForcedRipeToday || c.Ripeness.IsRipe()
}

// HistoryHearingCount returns the number of History records whose outcome is
// heard or adjourned, the invariant HearingCount must match (spec §3
// invariant iii, §8 universal invariant 8).
func (c *Case) HistoryHearingCount() int {
	n := 0
	for _, rec := range c.History {
		if rec.Outcome == core.OutcomeHeard || rec.Outcome == core.OutcomeAdjourned {
			n++
		}
	}
	return n
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
