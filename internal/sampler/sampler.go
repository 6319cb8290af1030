// Package sampler implements C9 Outcome Sampler: draws per-hearing outcomes
// (adjournment, stage transition, disposal) from the parameter tables using
// the seeded sub-stream RNG (spec §4.8).
package sampler

import (
	"sort"

	"github.com/courtsim/causelist/internal/casepop"
	"github.com/courtsim/causelist/internal/core"
	"github.com/courtsim/causelist/internal/params"
	"github.com/courtsim/causelist/internal/rng"
)

// Sampler draws and applies one hearing outcome per call to Step.
type Sampler struct {
	Tables     *params.Tables
	MasterSeed uint64

	// OnClampWarning is called when a sampled draw falls outside the known
	// distribution's cumulative mass due to floating-point error and has to
	// be clamped to the nearest valid successor (spec §4.11).
	OnClampWarning func(c *casepop.Case, date core.Date)
}

// NewSampler constructs a Sampler bound to the given parameter tables and
// master seed (spec §4.8 "a single master seed").
func NewSampler(tables *params.Tables, masterSeed uint64) *Sampler {
	return &Sampler{Tables: tables, MasterSeed: masterSeed}
}

// Step applies one hearing outcome to c for day d in courtroom courtroomID
// (spec §4.8). It mutates c through RecordHearing and MarkDisposed plus
// direct updates of c.Stage and c.Status, and never touches the RNG outside its own
// (case, day) sub-stream (spec §5, §9).
func (s *Sampler) Step(c *casepop.Case, d core.Date, courtroomID string) {
	stream := rng.SubStream(s.MasterSeed, c.ID, d)
	u := stream.Float64()

	adjournmentP := s.Tables.Adjournment(c.Stage, c.Type)
	if u < adjournmentP {
		c.RecordHearing(core.HearingRecord{
			Date:        d,
			Outcome:     core.OutcomeAdjourned,
			StageBefore: c.Stage,
			StageAfter:  c.Stage,
			CourtroomID: courtroomID,
		})
		c.Status = core.StatusAdjourned
		return
	}

	dist := s.Tables.Transition(c.Stage, c.Type)
	next, clamped := sampleNextStage(dist, stream.Float64())
	if clamped && s.OnClampWarning != nil {
		s.OnClampWarning(c, d)
	}

	if core.IsTerminal(next) {
		c.RecordHearing(core.HearingRecord{
			Date:        d,
			Outcome:     core.OutcomeDisposed,
			StageBefore: c.Stage,
			StageAfter:  next,
			CourtroomID: courtroomID,
		})
		c.MarkDisposed(d, next)
		return
	}

	c.RecordHearing(core.HearingRecord{
		Date:        d,
		Outcome:     core.OutcomeHeard,
		StageBefore: c.Stage,
		StageAfter:  next,
		CourtroomID: courtroomID,
	})
	c.Stage = next
	c.Status = core.StatusActive
}

// sampleNextStage walks the distribution's cumulative mass in a
// deterministic (lexicographically sorted by stage name) order and returns
// the stage whose cumulative interval contains u. If u lands beyond the
// distribution's total mass due to floating-point error, it clamps to the
// last stage in sort order and reports clamped=true (spec §4.11).
func sampleNextStage(dist params.Distribution, u float64) (stage core.Stage, clamped bool) {
	stages := make([]core.Stage, 0, len(dist))
	for st := range dist {
		stages = append(stages, st)
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i] < stages[j] })

	cumulative := 0.0
	for _, st := range stages {
		cumulative += dist[st]
		if u < cumulative {
			return st, false
		}
	}
	if len(stages) == 0 {
		return "", true
	}
	return stages[len(stages)-1], true
}
