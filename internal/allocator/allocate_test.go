package allocator

import (
	"fmt"
	"testing"
	"time"

	"github.com/courtsim/causelist/internal/casepop"
	"github.com/courtsim/causelist/internal/core"
	"github.com/courtsim/causelist/internal/metrics"
)

func day(y int, m time.Month, d int) core.Date {
	return core.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// Scenario 1 (deterministic ordering): two cases A (filed earlier) and B,
// one courtroom with capacity 1. A is scheduled, B is capacity_limited.
func TestAllocateSingleCourtroomCapacityOne(t *testing.T) {
	courtrooms := NewSet([]*Courtroom{NewCourtroom("room-1", 1)})
	courtrooms.ResetDay()

	a := casepop.NewCase("A", "crp", day(2024, time.January, 1), "arguments")
	b := casepop.NewCase("B", "crp", day(2024, time.January, 2), "arguments")
	today := day(2024, time.February, 1)

	result := Allocate([]*casepop.Case{a, b}, courtrooms, today)

	if got := result.Assignments["room-1"]; len(got) != 1 || got[0].ID != "A" {
		t.Fatalf("room-1 assignments = %v, want [A]", got)
	}
	if len(result.CapacityLimited) != 1 || result.CapacityLimited[0].ID != "B" {
		t.Fatalf("CapacityLimited = %v, want [B]", result.CapacityLimited)
	}
}

// Scenario 4 (load balance): five courtrooms capacity 100 each, 400 ripe
// cases. After one day, per-courtroom counts are {80,80,80,80,80}, Gini = 0.
func TestAllocateLoadBalance(t *testing.T) {
	var rooms []*Courtroom
	for i := 0; i < 5; i++ {
		rooms = append(rooms, NewCourtroom(fmt.Sprintf("room-%d", i), 100))
	}
	courtrooms := NewSet(rooms)
	courtrooms.ResetDay()

	var cases []*casepop.Case
	for i := 0; i < 400; i++ {
		cases = append(cases, casepop.NewCase(core.CaseID(fmt.Sprintf("case-%03d", i)), "crp", day(2024, time.January, 1), "arguments"))
	}
	today := day(2024, time.February, 1)

	result := Allocate(cases, courtrooms, today)
	if len(result.CapacityLimited) != 0 {
		t.Fatalf("CapacityLimited = %v, want none (500 total capacity for 400 cases)", result.CapacityLimited)
	}

	counts := courtrooms.Counts()
	var countSlice []int
	for id, c := range counts {
		if c != 80 {
			t.Errorf("courtroom %s count = %d, want 80", id, c)
		}
		countSlice = append(countSlice, c)
	}
	if g := metrics.Gini(countSlice); g != 0 {
		t.Errorf("Gini(%v) = %v, want 0", countSlice, g)
	}
}

func TestAllocateIsDeterministicAcrossRuns(t *testing.T) {
	build := func() ([]*casepop.Case, *Set) {
		rooms := []*Courtroom{NewCourtroom("a", 2), NewCourtroom("b", 2)}
		set := NewSet(rooms)
		set.ResetDay()
		cases := []*casepop.Case{
			casepop.NewCase("c1", "crp", day(2024, time.January, 1), "arguments"),
			casepop.NewCase("c2", "crp", day(2024, time.January, 2), "arguments"),
			casepop.NewCase("c3", "crp", day(2024, time.January, 3), "arguments"),
		}
		return cases, set
	}
	today := day(2024, time.February, 1)

	cases1, set1 := build()
	r1 := Allocate(cases1, set1, today)
	cases2, set2 := build()
	r2 := Allocate(cases2, set2, today)

	for room, ids1 := range r1.Assignments {
		ids2 := r2.Assignments[room]
		if len(ids1) != len(ids2) {
			t.Fatalf("room %s assignment count differs across runs: %d vs %d", room, len(ids1), len(ids2))
		}
		for i := range ids1 {
			if ids1[i].ID != ids2[i].ID {
				t.Errorf("room %s assignment %d differs across runs: %v vs %v", room, i, ids1[i].ID, ids2[i].ID)
			}
		}
	}
}

func TestCourtroomCapacityOverride(t *testing.T) {
	cr := NewCourtroom("room-1", 10)
	today := day(2024, time.January, 1)
	if got := cr.EffectiveCapacity(today); got != 10 {
		t.Fatalf("EffectiveCapacity() = %d, want nominal 10 before any override", got)
	}
	cr.SetCapacityOverride(today, 3)
	if got := cr.EffectiveCapacity(today); got != 3 {
		t.Fatalf("EffectiveCapacity() = %d, want overridden 3", got)
	}
	if got := cr.EffectiveCapacity(today.AddDays(1)); got != 10 {
		t.Fatalf("EffectiveCapacity() on a different date = %d, want nominal 10", got)
	}
}
