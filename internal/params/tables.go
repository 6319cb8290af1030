// Package params implements C1 Parameter Tables: the immutable,
// injected lookup tables a simulation run is built around (spec §4.1).
// Lookups fail closed — a miss never aborts a day, it falls back to a
// documented default and increments a counter the engine can surface.
package params

import (
	"fmt"
	"math"
	"sync"

	"github.com/patrickmn/go-cache"

	"github.com/courtsim/causelist/internal/core"
)

// Distribution is a discrete probability distribution over next stages.
// Probabilities must sum to 1 within core.ProbabilityTolerance; Tables
// validates this at construction time via Validate.
type Distribution map[core.Stage]float64

// Sum returns the sum of the distribution's probabilities.
func (d Distribution) Sum() float64 {
	var total float64
	for _, p := range d {
		total += p
	}
	return total
}

// StageDuration is the median and high-percentile day counts for a stage
// (spec §3 Parameter tables).
type StageDuration struct {
	MedianDays int
	P90Days    int
}

// Percentile is a day-count lookup selector (spec §6 duration_percentile).
type Percentile string

const (
	PercentileMedian Percentile = "median"
	PercentileP90    Percentile = "p90"
)

// TypeStats is the case-type summary table entry (spec §3).
type TypeStats struct {
	MedianHearingsToDisposal int
	MedianInterHearingGap    int
}

type stageTypeKey struct {
	stage    core.Stage
	caseType core.CaseType
}

// Tables is the immutable parameter bundle. Construct with NewTables and
// never mutate afterward; it is safe to share read-only across concurrent
// simulation runs (spec §5).
type Tables struct {
	vocabulary  []core.Stage
	transitions map[stageTypeKey]Distribution
	durations   map[core.Stage]StageDuration
	adjournment map[stageTypeKey]float64
	typeStats   map[core.CaseType]TypeStats
	capacity    int

	// missCounter and missSeen track parameter misses (spec §4.11): a
	// missing (stage, type) increments the counter unconditionally, but is
	// logged to the caller's telemetry at most once per key, the same
	// "record it but don't spam" pattern the teacher applies via its
	// ChangeMonitor (pkg/utils/pretty) for noisy informational state.
	mu          sync.Mutex
	missCounter int
	missSeen    *cache.Cache
	onMiss      func(stage core.Stage, caseType core.CaseType)
}

// Config bundles the raw table contents an external collaborator (the EDA
// notebook that fits these tables) hands to the core.
type Config struct {
	StageVocabulary []core.Stage
	Transitions     map[core.Stage]map[core.CaseType]Distribution
	Durations       map[core.Stage]StageDuration
	Adjournment     map[core.Stage]map[core.CaseType]float64
	TypeStats       map[core.CaseType]TypeStats
	Capacity        int
}

// NewTables validates and flattens cfg into a Tables. It returns an error
// wrapping core.ErrInvariantViolation if any transition distribution's
// probabilities sum outside [1-tol, 1+tol], and core.ErrConfiguration if the
// stage vocabulary is empty or capacity is negative (spec §7).
func NewTables(cfg Config, onMiss func(stage core.Stage, caseType core.CaseType)) (*Tables, error) {
	if len(cfg.StageVocabulary) == 0 {
		return nil, fmt.Errorf("%w: empty stage vocabulary", core.ErrConfiguration)
	}
	if cfg.Capacity < 0 {
		return nil, fmt.Errorf("%w: negative capacity %d", core.ErrConfiguration, cfg.Capacity)
	}
	t := &Tables{
		vocabulary:  append([]core.Stage{}, cfg.StageVocabulary...),
		transitions: map[stageTypeKey]Distribution{},
		durations:   map[core.Stage]StageDuration{},
		adjournment: map[stageTypeKey]float64{},
		typeStats:   map[core.CaseType]TypeStats{},
		capacity:    cfg.Capacity,
		missSeen:    cache.New(cache.NoExpiration, cache.NoExpiration),
		onMiss:      onMiss,
	}
	for stage, byType := range cfg.Transitions {
		for caseType, dist := range byType {
			if sum := dist.Sum(); math.Abs(sum-1.0) > core.ProbabilityTolerance {
				return nil, fmt.Errorf("%w: transition distribution for (%s, %s) sums to %f, want 1", core.ErrInvariantViolation, stage, caseType, sum)
			}
			t.transitions[stageTypeKey{stage, caseType}] = dist
		}
	}
	for stage, d := range cfg.Durations {
		t.durations[stage] = d
	}
	for stage, byType := range cfg.Adjournment {
		for caseType, p := range byType {
			if p < 0 || p > 1 {
				return nil, fmt.Errorf("%w: adjournment probability for (%s, %s) = %f out of [0,1]", core.ErrConfiguration, stage, caseType, p)
			}
			t.adjournment[stageTypeKey{stage, caseType}] = p
		}
	}
	for caseType, stats := range cfg.TypeStats {
		t.typeStats[caseType] = stats
	}
	return t, nil
}

// Capacity returns the global nominal daily capacity per courtroom.
func (t *Tables) Capacity() int { return t.capacity }

// Transition returns the next-stage distribution for (stage, caseType). On a
// miss it returns the documented default (self-loop 0.9, uniform 0.1 tail
// over the remaining vocabulary, spec §4.1) and records the miss.
func (t *Tables) Transition(stage core.Stage, caseType core.CaseType) Distribution {
	key := stageTypeKey{stage, caseType}
	if d, ok := t.transitions[key]; ok {
		return d
	}
	t.recordMiss(stage, caseType)
	return t.defaultDistribution(stage)
}

// defaultDistribution builds the documented fallback: 0.9 on a self-loop and
// a uniform 0.1 spread across every other stage in the vocabulary. With a
// single-stage vocabulary the self-loop absorbs the full mass.
func (t *Tables) defaultDistribution(stage core.Stage) Distribution {
	others := make([]core.Stage, 0, len(t.vocabulary))
	for _, s := range t.vocabulary {
		if s != stage {
			others = append(others, s)
		}
	}
	if len(others) == 0 {
		return Distribution{stage: 1.0}
	}
	d := Distribution{stage: 0.9}
	share := 0.1 / float64(len(others))
	for _, s := range others {
		d[s] += share
	}
	return d
}

// Duration returns the stage's day count at the requested percentile. A
// missing stage yields zero days and records a miss (there's no meaningful
// "default" duration beyond "don't block progression").
func (t *Tables) Duration(stage core.Stage, p Percentile) int {
	d, ok := t.durations[stage]
	if !ok {
		t.recordMiss(stage, "")
		return 0
	}
	if p == PercentileP90 {
		return d.P90Days
	}
	return d.MedianDays
}

// Adjournment returns the adjournment probability for (stage, caseType). A
// miss yields 0 (never adjourn) and is recorded.
func (t *Tables) Adjournment(stage core.Stage, caseType core.CaseType) float64 {
	key := stageTypeKey{stage, caseType}
	if p, ok := t.adjournment[key]; ok {
		return p
	}
	t.recordMiss(stage, caseType)
	return 0
}

// TypeStats returns the case-type summary. A miss yields a zero-value
// TypeStats (which the readiness formula treats as "no gap data",
// i.e. median_gap clamps to the max readiness contribution) and is recorded.
func (t *Tables) TypeStats(caseType core.CaseType) TypeStats {
	if s, ok := t.typeStats[caseType]; ok {
		return s
	}
	t.recordMiss("", caseType)
	return TypeStats{}
}

// SetOnMiss installs the diagnostic callback invoked the first time a given
// (stage, caseType) key misses (spec §4.11). Intended to be called once, by
// the engine wiring that owns the run's logger, right after construction;
// Tables itself stays agnostic of what "report a miss" means to the caller.
func (t *Tables) SetOnMiss(onMiss func(stage core.Stage, caseType core.CaseType)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onMiss = onMiss
}

// MissCount returns the number of parameter-table misses recorded since
// construction (spec §4.10/§4.11 "missing-params" counter).
func (t *Tables) MissCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.missCounter
}

func (t *Tables) recordMiss(stage core.Stage, caseType core.CaseType) {
	t.mu.Lock()
	t.missCounter++
	t.mu.Unlock()
	key := fmt.Sprintf("%s/%s", stage, caseType)
	if _, seen := t.missSeen.Get(key); seen {
		return
	}
	t.missSeen.SetDefault(key, true)
	if t.onMiss != nil {
		t.onMiss(stage, caseType)
	}
}
