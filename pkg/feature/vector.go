// Package feature defines the fixed feature vector exposed to an external
// scorer policy (spec §4.4, §9 "Feature vector for external scorer"). It is
// exported (unlike the internal/ packages) because the pluggable RL/scoring
// harness this simulator treats as an opaque collaborator (spec §1) needs to
// construct and consume this type without reaching into internal/ packages.
package feature

// Vector is the fixed, ordered feature set for one (case, day) pair. Field
// order matches spec §9 exactly: (stage_index, age_days,
// days_since_last_hearing, urgency, ripe, hearing_count, capacity_ratio,
// min_gap_days, preference_score).
type Vector struct {
	StageIndex           int
	AgeDays              int
	DaysSinceLastHearing int // -1 if the case has never been heard
	Urgency              int // 0 or 1
	Ripe                 int // 0 or 1
	HearingCount         int
	CapacityRatio        float64 // remaining capacity / total capacity for the day
	MinGapDays           int
	PreferenceScore      int // 0 or 1
}

// Array returns the vector in the fixed order named by spec §9, for callers
// (e.g. a learned scorer) that want a flat numeric slice rather than typed
// fields. Discretization beyond this, if a caller wants it, is their choice.
func (v Vector) Array() []float64 {
	return []float64{
		float64(v.StageIndex),
		float64(v.AgeDays),
		float64(v.DaysSinceLastHearing),
		float64(v.Urgency),
		float64(v.Ripe),
		float64(v.HearingCount),
		v.CapacityRatio,
		float64(v.MinGapDays),
		float64(v.PreferenceScore),
	}
}

// Scorer is the opaque external scoring function a caller plugs in (spec
// §4.4 "External scorer"). Higher scores are prioritized first.
type Scorer func(v Vector) float64
