package allocator

import (
	"github.com/courtsim/causelist/internal/casepop"
	"github.com/courtsim/causelist/internal/core"
)

// Result is the allocator's per-day output (spec §3 SchedulingResult's
// courtroom mapping, scoped to just the allocation step).
type Result struct {
	Assignments     map[string][]*casepop.Case
	CapacityLimited []*casepop.Case
}

// Allocate assigns ordered (already prioritized) cases to courtrooms using
// the least-loaded-first strategy (spec §4.6): for each case, assign to the
// available courtroom (count < effective capacity) with the smallest
// current count, breaking ties by courtroom id; cases are skipped and
// recorded capacity_limited once every courtroom is full. Per-day counts
// must already have been reset by the caller (spec §3).
func Allocate(orderedCases []*casepop.Case, courtrooms *Set, today core.Date) Result {
	ids := courtrooms.IDs()
	result := Result{Assignments: map[string][]*casepop.Case{}}
	for _, id := range ids {
		result.Assignments[id] = nil
	}

	for _, c := range orderedCases {
		target, ok := leastLoadedAvailable(ids, courtrooms, today)
		if !ok {
			result.CapacityLimited = append(result.CapacityLimited, c)
			continue
		}
		cr, _ := courtrooms.Get(target)
		cr.assign(c.ID)
		result.Assignments[target] = append(result.Assignments[target], c)
	}
	return result
}

// leastLoadedAvailable returns the courtroom id with the smallest current
// count among courtrooms with remaining capacity today, tie-broken by
// courtroom id (ids is already sorted). Returns ok=false if every courtroom
// is at or over its effective capacity.
func leastLoadedAvailable(ids []string, courtrooms *Set, today core.Date) (string, bool) {
	best := ""
	bestCount := -1
	for _, id := range ids {
		cr, _ := courtrooms.Get(id)
		cap := cr.EffectiveCapacity(today)
		if cr.Count() >= cap {
			continue
		}
		if bestCount == -1 || cr.Count() < bestCount {
			best = id
			bestCount = cr.Count()
		}
	}
	if bestCount == -1 {
		return "", false
	}
	return best, true
}
