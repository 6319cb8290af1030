// Package override implements C5 Override Layer: validates, stages, and
// applies human modifications to a day's candidate list, preserving
// originals and emitting an audit trail (spec §4.5).
package override

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/courtsim/causelist/internal/casepop"
	"github.com/courtsim/causelist/internal/core"
)

// Kind enumerates the override request kinds (spec §3 Override).
type Kind string

const (
	KindAdd       Kind = "add"
	KindRemove    Kind = "remove"
	KindReorder   Kind = "reorder"
	KindPriority  Kind = "priority"
	KindRipeness  Kind = "ripeness"
	KindCapacity  Kind = "capacity"
)

// Request is a single override (spec §3 Override). Requests are values; the
// core never mutates them (spec §3 "Relationships and ownership").
type Request struct {
	ID          string
	Kind        Kind
	CaseID      core.CaseID // add, remove, reorder, priority, ripeness
	CourtroomID string      // capacity
	ActorID     string
	Timestamp   time.Time
	Reason      string

	Position    int     // add, reorder: target index in [0, len(list))
	NewPriority float64 // priority: in [0,1]
	NewCapacity int     // capacity: in [0, HardMax]
}

// WithID returns a copy of req with a generated id if it has none, mirroring
// the teacher's habit of minting stable identifiers (github.com/google/uuid)
// at the boundary rather than requiring every caller to do it.
func (req Request) WithID() Request {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	return req
}

// Rejection pairs a rejected Request with the reason it failed validation
// (spec §4.5 "dropped into a rejections list with a reason").
type Rejection struct {
	Request Request
	Reason  string
}

// CourtroomCapacitySetter is the narrow surface the override layer needs
// from the courtroom set to apply a capacity override, kept as an interface
// so this package does not import internal/allocator (spec §4.5/§4.6 are
// siblings in the pipeline, not dependents of one another).
type CourtroomCapacitySetter interface {
	SetCapacityOverride(courtroomID string, date core.Date, capacity int) bool
	HasCourtroom(courtroomID string) bool
}

// Layer holds the hard capacity bound for the override layer (spec §4.5).
// It has no methods: overrides are applied by the package-level Apply, which
// takes the bound as its own hardMax argument.
type Layer struct {
	HardMaxCapacity int
}

// NewLayer constructs an override Layer. hardMax bounds the `capacity`
// override kind's NewCapacity (spec §4.5 validation rule).
func NewLayer(hardMax int) *Layer {
	return &Layer{HardMaxCapacity: hardMax}
}

// Result is the outcome of applying a day's overrides.
type Result struct {
	Candidates []*casepop.Case
	Applied    []Request
	Rejected   []Rejection
}

// Apply validates and applies requests to candidates in the fixed,
// documented order: add -> remove -> priority -> ripeness -> capacity ->
// reorder (spec §4.5). population resolves case ids for `add`; courtrooms
// resolves courtroom ids for `capacity`. today is needed to force-ripe a
// case for the day only (spec §4.5 `ripeness` kind).
//
// The returned Candidates slice is newly allocated; the input slice and the
// Request values are never mutated.
func Apply(candidates []*casepop.Case, requests []Request, population CaseLookup, courtrooms CourtroomCapacitySetter, today core.Date, hardMax int) Result {
	working := append([]*casepop.Case{}, candidates...)
	present := lo.SliceToMap(working, func(c *casepop.Case) (core.CaseID, bool) { return c.ID, true })

	var applied []Request
	var rejected []Rejection
	reject := func(req Request, reason string) {
		rejected = append(rejected, Rejection{Request: req, Reason: reason})
	}

	byKind := func(k Kind) []Request {
		var out []Request
		for _, r := range requests {
			if r.Kind == k {
				out = append(out, r.WithID())
			}
		}
		return out
	}

	// 1. add
	for _, req := range byKind(KindAdd) {
		c, ok := population.Get(req.CaseID)
		if !ok {
			reject(req, "case does not exist")
			continue
		}
		if c.IsDisposed() {
			reject(req, "case is disposed")
			continue
		}
		if present[req.CaseID] {
			reject(req, "case already in candidate list")
			continue
		}
		pos := clampPosition(req.Position, len(working))
		working = insertAt(working, pos, c)
		present[req.CaseID] = true
		applied = append(applied, req)
	}

	// 2. remove
	for _, req := range byKind(KindRemove) {
		if !present[req.CaseID] {
			reject(req, "case not present in candidate list")
			continue
		}
		working = removeID(working, req.CaseID)
		delete(present, req.CaseID)
		applied = append(applied, req)
	}

	// 3. priority (re-sorts the list by priority after application)
	priorityReqs := byKind(KindPriority)
	for _, req := range priorityReqs {
		if !present[req.CaseID] {
			reject(req, "case not present in candidate list")
			continue
		}
		if req.NewPriority < 0 || req.NewPriority > 1 {
			reject(req, "priority out of [0,1]")
			continue
		}
		c, _ := population.Get(req.CaseID)
		p := req.NewPriority
		c.PriorityOverrideToday = &p
		applied = append(applied, req)
	}
	if len(priorityReqs) > 0 {
		resortByPriority(working)
	}

	// 4. ripeness (force-ripe for today only)
	for _, req := range byKind(KindRipeness) {
		if !present[req.CaseID] {
			reject(req, "case not present in candidate list")
			continue
		}
		c, ok := population.Get(req.CaseID)
		if !ok || c.IsDisposed() {
			reject(req, "case not found or disposed")
			continue
		}
		c.ForcedRipeToday = true
		applied = append(applied, req)
	}

	// 5. capacity
	for _, req := range byKind(KindCapacity) {
		if !courtrooms.HasCourtroom(req.CourtroomID) {
			reject(req, "courtroom does not exist")
			continue
		}
		if req.NewCapacity < 0 || req.NewCapacity > hardMax {
			reject(req, fmt.Sprintf("capacity out of [0,%d]", hardMax))
			continue
		}
		courtrooms.SetCapacityOverride(req.CourtroomID, today, req.NewCapacity)
		applied = append(applied, req)
	}

	// 6. reorder (applied last, never re-sorted afterward)
	for _, req := range byKind(KindReorder) {
		if !present[req.CaseID] {
			reject(req, "case not present in candidate list")
			continue
		}
		if req.Position < 0 || req.Position >= len(working) {
			reject(req, "position out of range")
			continue
		}
		working = moveToPosition(working, req.CaseID, req.Position)
		applied = append(applied, req)
	}

	return Result{Candidates: working, Applied: applied, Rejected: rejected}
}

// CaseLookup is the narrow population surface Apply needs.
type CaseLookup interface {
	Get(id core.CaseID) (*casepop.Case, bool)
}

func clampPosition(pos, length int) int {
	if pos < 0 {
		return 0
	}
	if pos > length {
		return length
	}
	return pos
}

func insertAt(list []*casepop.Case, pos int, c *casepop.Case) []*casepop.Case {
	out := make([]*casepop.Case, 0, len(list)+1)
	out = append(out, list[:pos]...)
	out = append(out, c)
	out = append(out, list[pos:]...)
	return out
}

func removeID(list []*casepop.Case, id core.CaseID) []*casepop.Case {
	out := make([]*casepop.Case, 0, len(list))
	for _, c := range list {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

func moveToPosition(list []*casepop.Case, id core.CaseID, pos int) []*casepop.Case {
	var target *casepop.Case
	rest := make([]*casepop.Case, 0, len(list))
	for _, c := range list {
		if c.ID == id {
			target = c
			continue
		}
		rest = append(rest, c)
	}
	if target == nil {
		return list
	}
	if pos > len(rest) {
		pos = len(rest)
	}
	return insertAt(rest, pos, target)
}

// resortByPriority re-sorts working by effective priority (override-aware)
// descending, tie-broken canonically (spec §4.5: "After priority overrides,
// the list is re-sorted by priority").
func resortByPriority(working []*casepop.Case) {
	sort.SliceStable(working, func(i, j int) bool {
		pi, pj := effectivePriority(working[i]), effectivePriority(working[j])
		if pi != pj {
			return pi > pj
		}
		return casepop.ByFiledThenID(working[i], working[j])
	})
}

func effectivePriority(c *casepop.Case) float64 {
	if c.PriorityOverrideToday != nil {
		return *c.PriorityOverrideToday
	}
	return c.PriorityScore
}
