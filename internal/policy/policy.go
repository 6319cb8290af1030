// Package policy implements C4 Priority Policies: pluggable ordering
// functions over an eligible case set (spec §4.4). Swappable ordering is
// modeled as a capability interface rather than runtime reflection or a
// registry of strings dispatched dynamically — a fixed set of variants plus
// one escape hatch that accepts a function value (spec §9 "Dynamic dispatch
// on policies").
package policy

import (
	"sort"

	"github.com/courtsim/causelist/internal/casepop"
	"github.com/courtsim/causelist/internal/core"
	"github.com/courtsim/causelist/pkg/feature"
)

// Policy orders an eligible case set for a given day. Implementations never
// mutate cases except to cache Case.PriorityScore, which is documented as a
// cache, not authoritative state (spec §4.4).
type Policy interface {
	Name() string
	Prioritize(cases []*casepop.Case, today core.Date) []*casepop.Case
}

// FIFO orders by filed_date ascending, then case id (spec §4.4).
type FIFO struct{}

func (FIFO) Name() string { return "fifo" }

func (FIFO) Prioritize(cases []*casepop.Case, _ core.Date) []*casepop.Case {
	out := append([]*casepop.Case{}, cases...)
	casepop.SortByFiledThenID(out)
	return out
}

// Age orders by age_days descending, ties broken by filed_date (spec §4.4).
type Age struct{}

func (Age) Name() string { return "age" }

func (Age) Prioritize(cases []*casepop.Case, _ core.Date) []*casepop.Case {
	out := append([]*casepop.Case{}, cases...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AgeDays != out[j].AgeDays {
			return out[i].AgeDays > out[j].AgeDays
		}
		return casepop.ByFiledThenID(out[i], out[j])
	})
	return out
}

// CompositeReadiness orders by Case.ComputePriority descending, ties broken
// by the canonical comparator (spec §4.4).
type CompositeReadiness struct {
	Weights casepop.PriorityWeights
}

// NewCompositeReadiness constructs the policy with the spec-mandated weights.
func NewCompositeReadiness() CompositeReadiness {
	return CompositeReadiness{Weights: casepop.DefaultPriorityWeights}
}

func (CompositeReadiness) Name() string { return "composite-readiness" }

func (p CompositeReadiness) Prioritize(cases []*casepop.Case, today core.Date) []*casepop.Case {
	out := append([]*casepop.Case{}, cases...)
	for _, c := range out {
		c.ComputePriority(today, p.Weights)
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := priorityOf(out[i]), priorityOf(out[j])
		if pi != pj {
			return pi > pj
		}
		return casepop.ByFiledThenID(out[i], out[j])
	})
	return out
}

// priorityOf prefers a same-day priority override over the cached score
// (spec §4.5 priority override kind, applied before reorder).
func priorityOf(c *casepop.Case) float64 {
	if c.PriorityOverrideToday != nil {
		return *c.PriorityOverrideToday
	}
	return c.PriorityScore
}

// FeatureContext supplies the per-day, population-wide inputs the external
// scorer's feature vector needs beyond what's on the case itself (spec §9
// feature vector: capacity_ratio and preference_score are day-level, not
// case-level, facts). The scheduling algorithm refreshes this once per day
// before invoking the policy.
type FeatureContext struct {
	StageIndex        func(core.Stage) int
	RemainingCapacity int
	TotalCapacity     int
	MinGapDays        int
	PreferredTypes    map[core.CaseType]bool
}

func (fc FeatureContext) capacityRatio() float64 {
	if fc.TotalCapacity <= 0 {
		return 0
	}
	return float64(fc.RemainingCapacity) / float64(fc.TotalCapacity)
}

// ExternalScorer wraps an opaque scoring function over the fixed feature
// vector (spec §4.4 "External scorer", §9). The core never inspects the
// scorer's internals; it only calls it.
type ExternalScorer struct {
	Scorer  feature.Scorer
	Context FeatureContext
}

func (ExternalScorer) Name() string { return "external-scorer" }

func (p ExternalScorer) Prioritize(cases []*casepop.Case, today core.Date) []*casepop.Case {
	out := append([]*casepop.Case{}, cases...)
	scores := make(map[core.CaseID]float64, len(out))
	for _, c := range out {
		scores[c.ID] = p.Scorer(p.vectorFor(c, today))
	}
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := scores[out[i].ID], scores[out[j].ID]
		if si != sj {
			return si > sj
		}
		return casepop.ByFiledThenID(out[i], out[j])
	})
	return out
}

func (p ExternalScorer) vectorFor(c *casepop.Case, today core.Date) feature.Vector {
	daysSince := -1
	if c.LastHearingDate != nil {
		daysSince = today.Sub(*c.LastHearingDate)
	}
	urgency, ripe, pref := 0, 0, 0
	if c.IsUrgent {
		urgency = 1
	}
	if c.EffectiveRipe() {
		ripe = 1
	}
	if p.Context.PreferredTypes[c.Type] {
		pref = 1
	}
	stageIdx := 0
	if p.Context.StageIndex != nil {
		stageIdx = p.Context.StageIndex(c.Stage)
	}
	return feature.Vector{
		StageIndex:           stageIdx,
		AgeDays:              c.AgeDays,
		DaysSinceLastHearing: daysSince,
		Urgency:              urgency,
		Ripe:                 ripe,
		HearingCount:         c.HearingCount,
		CapacityRatio:        p.Context.capacityRatio(),
		MinGapDays:           p.Context.MinGapDays,
		PreferenceScore:      pref,
	}
}
