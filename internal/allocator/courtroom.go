// Package allocator implements C6 Courtroom Allocator: least-loaded-first
// bin packing of an ordered candidate list across a fixed courtroom set with
// bounded daily capacity (spec §4.6).
package allocator

import (
	"sort"

	"github.com/courtsim/causelist/internal/core"
)

// Courtroom is a courtroom's scheduling-relevant state (spec §3 Courtroom).
type Courtroom struct {
	ID              string
	NominalCapacity int
	// capacityOverrides is the optional per-date capacity override table
	// (spec §3, §4.5 `capacity` override kind).
	capacityOverrides map[int]int // keyed by core.Date.Ordinal()
	// scheduled is the per-date scheduled-case list, reset at day start
	// (spec §3 invariant: scheduled count per day <= effective capacity).
	scheduled []core.CaseID
}

// NewCourtroom constructs a courtroom with the given nominal daily capacity.
func NewCourtroom(id string, nominalCapacity int) *Courtroom {
	return &Courtroom{ID: id, NominalCapacity: nominalCapacity, capacityOverrides: map[int]int{}}
}

// EffectiveCapacity returns the capacity in force for date: the per-date
// override if one was set (by a `capacity` override, spec §4.5), else the
// nominal capacity.
func (cr *Courtroom) EffectiveCapacity(date core.Date) int {
	if v, ok := cr.capacityOverrides[date.Ordinal()]; ok {
		return v
	}
	return cr.NominalCapacity
}

// SetCapacityOverride installs a per-date capacity override. Returns false
// if capacity is negative; the caller (override.Apply) is responsible for
// the [0, hard_max] bound (spec §4.5 validation).
func (cr *Courtroom) SetCapacityOverride(date core.Date, capacity int) bool {
	if capacity < 0 {
		return false
	}
	cr.capacityOverrides[date.Ordinal()] = capacity
	return true
}

// ResetDay clears the scheduled-case list at day start (spec §3).
func (cr *Courtroom) ResetDay() {
	cr.scheduled = nil
}

// Count returns the number of cases scheduled in this courtroom today.
func (cr *Courtroom) Count() int { return len(cr.scheduled) }

// Scheduled returns the ordered case ids scheduled today.
func (cr *Courtroom) Scheduled() []core.CaseID {
	return append([]core.CaseID{}, cr.scheduled...)
}

func (cr *Courtroom) assign(id core.CaseID) {
	cr.scheduled = append(cr.scheduled, id)
}

// Set is the fixed set of courtrooms for a run (spec §3 "a fixed set of
// courtrooms").
type Set struct {
	byID  map[string]*Courtroom
	order []string
}

// NewSet builds a courtroom Set, sorting courtroom ids so that least-loaded
// tie-breaking by courtroom id is deterministic (spec §4.6).
func NewSet(courtrooms []*Courtroom) *Set {
	s := &Set{byID: map[string]*Courtroom{}}
	for _, cr := range courtrooms {
		s.byID[cr.ID] = cr
		s.order = append(s.order, cr.ID)
	}
	sort.Strings(s.order)
	return s
}

// HasCourtroom reports whether id is a known courtroom (spec §4.5 capacity
// validation: "target courtroom exists").
func (s *Set) HasCourtroom(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// SetCapacityOverride implements override.CourtroomCapacitySetter.
func (s *Set) SetCapacityOverride(courtroomID string, date core.Date, capacity int) bool {
	cr, ok := s.byID[courtroomID]
	if !ok {
		return false
	}
	return cr.SetCapacityOverride(date, capacity)
}

// ResetDay clears every courtroom's per-day scheduled list.
func (s *Set) ResetDay() {
	for _, id := range s.order {
		s.byID[id].ResetDay()
	}
}

// TotalCapacity returns the sum of effective capacities for date.
func (s *Set) TotalCapacity(date core.Date) int {
	total := 0
	for _, id := range s.order {
		total += s.byID[id].EffectiveCapacity(date)
	}
	return total
}

// Get returns the named courtroom.
func (s *Set) Get(id string) (*Courtroom, bool) {
	cr, ok := s.byID[id]
	return cr, ok
}

// IDs returns courtroom ids in deterministic (sorted) order.
func (s *Set) IDs() []string {
	return append([]string{}, s.order...)
}

// Counts returns today's per-courtroom scheduled counts keyed by courtroom
// id (spec §4.6 "per-day count vector"). The map has no iteration order;
// IDs gives the sorted courtroom order.
func (s *Set) Counts() map[string]int {
	out := make(map[string]int, len(s.order))
	for _, id := range s.order {
		out[id] = s.byID[id].Count()
	}
	return out
}
