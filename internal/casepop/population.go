package casepop

import (
	"sort"

	"github.com/samber/lo"

	"github.com/courtsim/causelist/internal/core"
)

// Population owns the case set for the duration of a simulation run (spec
// §3 "Relationships and ownership": the engine owns the case population;
// the algorithm borrows it for the duration of a day).
type Population struct {
	byID map[core.CaseID]*Case
	// order preserves insertion order so iteration is deterministic even
	// before any sort is applied, matching the teacher's habit of iterating
	// slices rather than ranging over maps directly in hot scheduling paths.
	order []core.CaseID
}

// NewPopulation builds a population from an initial case slice. case ids
// must be unique (spec §6 "case_id unique"); a duplicate is a construction
// error the caller should treat as fatal configuration, mirrored here as a
// panic only in the sense that NewPopulation reports it via the returned
// bool so callers can choose how to fail.
func NewPopulation(initial []*Case) (*Population, bool) {
	p := &Population{byID: map[core.CaseID]*Case{}}
	for _, c := range initial {
		if _, dup := p.byID[c.ID]; dup {
			return p, false
		}
		p.byID[c.ID] = c
		p.order = append(p.order, c.ID)
	}
	return p, true
}

// Insert adds a new case to the population (spec §4.9 case inflow). Returns
// false if the id already exists.
func (p *Population) Insert(c *Case) bool {
	if _, dup := p.byID[c.ID]; dup {
		return false
	}
	p.byID[c.ID] = c
	p.order = append(p.order, c.ID)
	return true
}

// Get looks up a case by id.
func (p *Population) Get(id core.CaseID) (*Case, bool) {
	c, ok := p.byID[id]
	return c, ok
}

// All returns every case in insertion order. The engine never discards
// cases, disposed ones remain for audit (spec §4.9).
func (p *Population) All() []*Case {
	out := make([]*Case, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.byID[id])
	}
	return out
}

// Active returns every non-disposed case, in insertion order.
func (p *Population) Active() []*Case {
	return lo.Filter(p.All(), func(c *Case, _ int) bool { return !c.IsDisposed() })
}

// Len returns the total population size, including disposed cases.
func (p *Population) Len() int { return len(p.order) }

// CountDisposed returns the number of disposed cases (spec §8 invariant 1
// case-conservation check).
func (p *Population) CountDisposed() int {
	n := 0
	for _, id := range p.order {
		if p.byID[id].IsDisposed() {
			n++
		}
	}
	return n
}

// ByFiledThenID is the deterministic tie-break comparator named throughout
// spec §4.2/§4.4: older filed date first, then lexicographic case id.
func ByFiledThenID(a, b *Case) bool {
	if !a.FiledDate.Equal(b.FiledDate) {
		return a.FiledDate.Before(b.FiledDate)
	}
	return a.ID < b.ID
}

// SortByFiledThenID sorts cases in place using the canonical tie-break
// comparator, used as the final deterministic step by every priority policy
// (spec §4.4).
func SortByFiledThenID(cases []*Case) {
	sort.SliceStable(cases, func(i, j int) bool { return ByFiledThenID(cases[i], cases[j]) })
}
