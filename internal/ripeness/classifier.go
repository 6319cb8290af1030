// Package ripeness implements C3 Ripeness Classifier: a pure function from
// (case, today, thresholds) to a verdict plus reason (spec §4.3). Per the
// spec's "Cyclic references between case and ripeness" design note
// (SPEC_FULL.md / spec §9), the classifier never writes its own verdict onto
// a case — Evaluate returns a core.RipenessState and the caller (the engine)
// assigns it.
package ripeness

import (
	"strings"

	"github.com/courtsim/causelist/internal/core"
)

// Thresholds is the classifier's only state, and it is a plain value, not a
// mutable configuration object the classifier owns (spec §4.3: "Ripeness
// classifier holds only its threshold configuration (a value)").
type Thresholds struct {
	MinServiceHearings int
	StuckHearingCount  int
	StuckAvgGapDays    float64
	AdvancedStages     map[core.Stage]bool
	AdmissionStage     core.Stage
	// Strict, when true, makes the fallthrough default `unknown` instead of
	// `ripe` (spec §4.3 rule 5, §9 open question decision).
	Strict bool
}

// DefaultThresholds mirrors typical civil-docket calibration: three service
// hearings before a case can be ripe from admission, and a case is "stuck"
// once it has had more than ten hearings averaging more than 45 days apart.
// Calibration inputs are an external collaborator's concern (spec §1); these
// are reasonable, documented starting values, not tuned estimates.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinServiceHearings: 3,
		StuckHearingCount:  10,
		StuckAvgGapDays:    45,
		AdvancedStages:     core.AdvancedStages,
		AdmissionStage:     core.StageAdmission,
		Strict:             false,
	}
}

// Classifier evaluates cases against a settable threshold bundle (spec §4.3:
// "Thresholds are settable to allow calibration but never mutated by the
// classifier itself.").
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier constructs a Classifier with the given thresholds.
func NewClassifier(t Thresholds) *Classifier {
	return &Classifier{thresholds: t}
}

// SetThresholds replaces the classifier's threshold bundle wholesale; it
// never mutates fields of the bundle in place.
func (c *Classifier) SetThresholds(t Thresholds) { c.thresholds = t }

// GetThresholds returns the current threshold bundle (a copy of the value).
func (c *Classifier) GetThresholds() Thresholds { return c.thresholds }

// CaseView is the minimal read-only surface Evaluate needs, decoupling this
// package from casepop.Case so the classifier can be unit-tested with plain
// literals and so casepop does not need to import ripeness (spec §4.3's
// design note about avoiding an ownership cycle applies at the package
// level too).
type CaseView struct {
	Stage              core.Stage
	HearingCount       int
	LastHearingPurpose string
	HearingGapDays     []int // gaps in days between consecutive heard/adjourned hearings, oldest pair first
}

// Evaluate classifies a case as of today (spec §4.3). The decision order is
// fixed and the first matching rule wins.
func (c *Classifier) Evaluate(v CaseView) core.RipenessState {
	t := c.thresholds
	if verdict, reason, ok := classifyByPurpose(v.LastHearingPurpose); ok {
		return state(verdict, reason)
	}
	if v.Stage == t.AdmissionStage && v.HearingCount < t.MinServiceHearings {
		return state(core.UnripeSummons, "early admission stage with insufficient service hearings")
	}
	if v.HearingCount > t.StuckHearingCount && meanGap(v.HearingGapDays) > t.StuckAvgGapDays {
		return state(core.UnripeParty, "excessive hearings with large average inter-hearing gap")
	}
	if t.AdvancedStages[v.Stage] {
		return state(core.Ripe, "advanced stage")
	}
	if t.Strict {
		return state(core.UnripeUnknown, "no rule matched in strict mode")
	}
	return state(core.Ripe, "default ripe (non-strict fallthrough)")
}

func state(v core.RipenessVerdict, reason string) core.RipenessState {
	return core.RipenessState{Verdict: v, Reason: reason}
}

// purposeKeywords is the documented keyword set the free-text
// last_hearing_purpose is matched against (spec §4.3 rule 1, §9 "Hidden
// coupling via last_hearing_purpose"). Treated as an enumerated tag:
// implementations may pre-tokenize once at load time, but matching here is
// done lazily since Evaluate is already O(1) per case.
var purposeKeywords = []struct {
	verdict  core.RipenessVerdict
	reason   string
	keywords []string
}{
	{core.UnripeSummons, "purpose indicates pending service", []string{"summons", "notice"}},
	{core.UnripeDependent, "purpose indicates a dependent proceeding", []string{"stay", "pending"}},
	{core.UnripeDocument, "purpose indicates outstanding documentation", []string{"document", "record"}},
}

func classifyByPurpose(purpose string) (core.RipenessVerdict, string, bool) {
	if purpose == "" {
		return "", "", false
	}
	lower := strings.ToLower(purpose)
	for _, rule := range purposeKeywords {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.verdict, rule.reason, true
			}
		}
	}
	return "", "", false
}

func meanGap(gaps []int) float64 {
	if len(gaps) == 0 {
		return 0
	}
	sum := 0
	for _, g := range gaps {
		sum += g
	}
	return float64(sum) / float64(len(gaps))
}

// Schedulable is a convenience wrapper that decides, in one call, whether a
// case counts as ripe today: true for a forced-ripe case, else the verdict
// of Evaluate. It does not apply the gap/min_gap eligibility check owned by
// casepop.Case (spec §4.3 "Auxiliary operations").
func (c *Classifier) Schedulable(v CaseView, forcedRipe bool) bool {
	if forcedRipe {
		return true
	}
	return c.Evaluate(v).IsRipe()
}

// RipeningETA estimates the number of days until a non-ripe case becomes
// ripe, for reporting only (spec §4.3: "used only for reporting"). It is a
// coarse heuristic: unripe_summons estimates the remaining service hearings
// times the median inter-hearing gap; other unripe reasons have no
// structural estimate and return -1 (unknown).
func (c *Classifier) RipeningETA(v CaseView, medianGapDays int) int {
	verdict := c.Evaluate(v).Verdict
	if verdict == core.Ripe {
		return 0
	}
	if verdict == core.UnripeSummons && v.Stage == c.thresholds.AdmissionStage {
		remaining := c.thresholds.MinServiceHearings - v.HearingCount
		if remaining <= 0 {
			return 0
		}
		if medianGapDays <= 0 {
			medianGapDays = 1
		}
		return remaining * medianGapDays
	}
	return -1
}
