// Package sim implements C8 Simulation Engine: the day loop that drives the
// calendar, ripeness re-evaluation, case inflow, schedule_day, and outcome
// sampling across a multi-year horizon (spec §4.9), grounded in the
// teacher's Provisioner.Reconcile/Scheduler.Solve(ctx, ...) shape — a
// context-aware, single-threaded loop that accumulates results step by step
// and returns a finalized summary rather than streaming partial state back
// through return values.
package sim

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/courtsim/causelist/internal/allocator"
	"github.com/courtsim/causelist/internal/casepop"
	"github.com/courtsim/causelist/internal/config"
	"github.com/courtsim/causelist/internal/core"
	"github.com/courtsim/causelist/internal/metrics"
	"github.com/courtsim/causelist/internal/override"
	"github.com/courtsim/causelist/internal/params"
	"github.com/courtsim/causelist/internal/policy"
	"github.com/courtsim/causelist/internal/ripeness"
	"github.com/courtsim/causelist/internal/rng"
	"github.com/courtsim/causelist/internal/sampler"
	"github.com/courtsim/causelist/internal/schedalgo"
	"github.com/courtsim/causelist/internal/telemetry"
	"github.com/courtsim/causelist/pkg/calendar"
)

// inflowStreamKey is the fixed sentinel case id the day's inflow draw is
// keyed under (spec §4.9 inflow uses its own sub-stream, distinct from any
// real case's), so inflow sampling never collides with a real case's RNG
// sub-stream regardless of how case ids are minted.
const inflowStreamKey core.CaseID = "__inflow__"

// Violation is the payload handed to EngineOptions.OnInvariantViolation
// (spec §4.11, SPEC_FULL.md supplemented feature 3).
type Violation struct {
	Date core.Date
	Err  error
}

// OverrideSource supplies the day's override requests (spec §3 Override);
// the engine never generates overrides itself, an external collaborator
// (operator console, replay harness) does.
type OverrideSource func(today core.Date) []override.Request

// EngineOptions bundles the engine's per-run tunables (spec §4.9, §6).
type EngineOptions struct {
	MinGapDays             int
	HardMaxCapacity        int
	RipenessEvalPeriodDays int
	Inflow                 config.InflowConfig

	// OnInvariantViolation is called when schedule_day reports a disposed
	// case reaching the allocator (spec §4.11: "fatal in tests, recorded +
	// skipped in production"). Defaults to a no-op; runDay logs the
	// violation at error level before calling it either way. A test can
	// install a callback that fails the spec.
	OnInvariantViolation func(Violation)

	// Overrides supplies the day's override requests. May be nil (no
	// overrides ever applied).
	Overrides OverrideSource

	// Prometheus, if non-nil, receives a per-day Observe call.
	Prometheus *metrics.Registry
}

// Engine owns the case population, courtroom set, and RNG for one
// simulation run (spec §4.9 "State:"). It is not safe for concurrent use by
// more than one goroutine (spec §5: "mutated only by the engine's owning
// context").
type Engine struct {
	Population *casepop.Population
	Courtrooms *allocator.Set
	Calendar   calendar.Calendar
	Classifier *ripeness.Classifier
	Policy     policy.Policy
	Tables     *params.Tables
	Sampler    *sampler.Sampler
	Aggregator *metrics.Aggregator
	EventLog   *metrics.EventLog
	Logger     *zap.Logger

	Options    EngineOptions
	MasterSeed uint64

	inflowSeq    int
	lastMissSeen int

	// overrideRejections dedupes the "same override keeps getting rejected
	// for the same reason" diagnostic across days; override.Apply carries no
	// dedup of its own, unlike params.Tables' built-in missSeen (spec §4.11).
	overrideRejections *telemetry.ChangeMonitor
}

// NewEngine wires an Engine from its constituent components. Callers
// construct the population, courtroom set, tables, classifier, and policy
// themselves (spec §6 "Inputs") and hand them in, the same
// dependency-injection shape as the teacher's provisioning.NewProvisioner.
func NewEngine(
	population *casepop.Population,
	courtrooms *allocator.Set,
	cal calendar.Calendar,
	classifier *ripeness.Classifier,
	pol policy.Policy,
	tables *params.Tables,
	masterSeed uint64,
	logger *zap.Logger,
	opts EngineOptions,
) *Engine {
	if opts.RipenessEvalPeriodDays <= 0 {
		opts.RipenessEvalPeriodDays = config.DefaultRipenessEvalPeriodDays
	}
	if opts.OnInvariantViolation == nil {
		opts.OnInvariantViolation = func(Violation) {}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	tables.SetOnMiss(func(stage core.Stage, caseType core.CaseType) {
		logger.Warn("parameter table miss, falling back to documented default",
			zap.String("stage", string(stage)), zap.String("case_type", string(caseType)))
	})
	return &Engine{
		Population:         population,
		Courtrooms:         courtrooms,
		Calendar:           cal,
		Classifier:         classifier,
		Policy:             pol,
		Tables:             tables,
		Sampler:            sampler.NewSampler(tables, masterSeed),
		Aggregator:         metrics.NewAggregator(population.Len()),
		EventLog:           metrics.NewEventLog(),
		Logger:             logger,
		Options:            opts,
		MasterSeed:         masterSeed,
		overrideRejections: telemetry.NewChangeMonitor(0),
	}
}

// Run executes the day loop over [start, start+horizonDays) (spec §4.9).
// It checks ctx at the top of each day; on cancellation it stops the loop
// and returns a summary finalized over the days already completed (spec §5
// "on cancellation it finalises metrics over days completed and returns a
// partial result"), along with ctx.Err().
func (e *Engine) Run(ctx context.Context, start core.Date, horizonDays int) (metrics.Summary, error) {
	current := start
	for day := 0; day < horizonDays; day++ {
		if err := ctx.Err(); err != nil {
			e.Logger.Info("simulation cancelled", zap.String("date", current.String()), zap.Int("days_completed", day))
			return e.finalize(), err
		}
		if e.Calendar.IsWorkingDay(current) {
			e.runDay(current, day)
		}
		current = current.AddDays(1)
	}
	return e.finalize(), nil
}

func (e *Engine) finalize() metrics.Summary {
	return e.Aggregator.Finalize(e.Population.Len())
}

// runDay executes one working day's pipeline: optional ripeness
// re-evaluation, optional inflow, schedule_day, per-scheduled-case outcome
// sampling, metrics and event-log bookkeeping (spec §4.9's loop body).
func (e *Engine) runDay(today core.Date, dayIndex int) {
	if e.isRipenessEvalDay(dayIndex) {
		e.reevaluateRipeness()
	}
	if e.Options.Inflow.Enabled {
		e.sampleInflow(today)
	}

	e.Courtrooms.ResetDay()
	var overrideRequests []override.Request
	if e.Options.Overrides != nil {
		overrideRequests = e.Options.Overrides(today)
	}

	result, err := schedalgo.ScheduleDay(
		e.Population.All(),
		e.Population,
		e.Courtrooms,
		today,
		overrideRequests,
		e.Policy,
		e.Classifier,
		e.Tables,
		schedalgo.Options{MinGapDays: e.Options.MinGapDays, HardMaxCapacity: e.Options.HardMaxCapacity},
	)
	if err != nil {
		e.Logger.Error("invariant violation", zap.String("date", today.String()), zap.Error(err))
		e.Options.OnInvariantViolation(Violation{Date: today, Err: err})
		return
	}

	e.logRejectedOverrides(result.RejectedOverrides)

	heard, adjourned, disposed := e.sampleOutcomes(result, today)

	dc := result.Counters
	dc.Heard = heard
	dc.Adjourned = adjourned
	dc.Disposed = disposed
	dc.MissingParams = e.Tables.MissCount() - e.lastMissSeen
	e.lastMissSeen = e.Tables.MissCount()

	courtroomCapacity := make(map[string]int, len(e.Courtrooms.IDs()))
	for _, id := range e.Courtrooms.IDs() {
		cr, _ := e.Courtrooms.Get(id)
		courtroomCapacity[id] = cr.EffectiveCapacity(today)
	}
	e.Aggregator.Observe(dc, result.Scheduled, courtroomCapacity)

	if e.Options.Prometheus != nil {
		e.Options.Prometheus.Observe(dc, e.Aggregator.RunningGini())
	}

	e.EventLog.Emit(metrics.DayEvent{
		Date:         today,
		Counters:     dc,
		ScheduledBy:  result.Assignments,
		Explanations: result.Explanations,
	})
}

// logRejectedOverrides reports each rejected override through the logger,
// gated by overrideRejections so a request that keeps getting resubmitted
// and rejected for the same reason (e.g. an add naming a disposed case)
// logs once rather than once per simulated day (spec §4.11).
func (e *Engine) logRejectedOverrides(rejections []override.Rejection) {
	for _, rej := range rejections {
		key := fmt.Sprintf("%s/%s", rej.Request.CaseID, rej.Request.Kind)
		if !e.overrideRejections.HasChanged(key, rej.Reason) {
			continue
		}
		e.Logger.Warn("override rejected",
			zap.String("case_id", string(rej.Request.CaseID)),
			zap.String("kind", string(rej.Request.Kind)),
			zap.String("reason", rej.Reason),
		)
	}
}

// sampleOutcomes steps the sampler for every case scheduled today, tallying
// heard/adjourned/disposed from the hearing record each Step appends (spec
// §4.8). Intra-day sampling across cases is independent per sub-stream
// (spec §5), so this loop could be parallelized; it runs serially here
// since a multi-year horizon's per-day case count rarely justifies the
// synchronization overhead.
func (e *Engine) sampleOutcomes(result schedalgo.SchedulingResult, today core.Date) (heard, adjourned, disposed int) {
	for courtroomID, ids := range result.Assignments {
		for _, id := range ids {
			c, ok := e.Population.Get(id)
			if !ok {
				continue
			}
			e.Sampler.Step(c, today, courtroomID)
			if len(c.History) == 0 {
				continue
			}
			switch c.History[len(c.History)-1].Outcome {
			case core.OutcomeHeard:
				heard++
			case core.OutcomeAdjourned:
				adjourned++
			case core.OutcomeDisposed:
				disposed++
			}
		}
	}
	return heard, adjourned, disposed
}

// isRipenessEvalDay reports whether dayIndex (0-based count of calendar
// days since the run start, including non-working days) falls on the
// re-evaluation cadence (spec §4.9 "every N days").
func (e *Engine) isRipenessEvalDay(dayIndex int) bool {
	return dayIndex%e.Options.RipenessEvalPeriodDays == 0
}

// reevaluateRipeness refreshes every active case's cached RipenessState
// (spec §4.9 "classifier.evaluate_all(cases, d)"). Parallelizable across
// cases (spec §5); run serially here for the same reason as sampleOutcomes.
func (e *Engine) reevaluateRipeness() {
	for _, c := range e.Population.Active() {
		c.Ripeness = e.Classifier.Evaluate(caseViewFor(c))
	}
}

// sampleInflow draws a Poisson count of new filings for today from the
// configured rate and inserts them into the population with a deterministic
// sub-stream seed keyed by the day (spec §4.9 "Case inflow").
func (e *Engine) sampleInflow(today core.Date) {
	src := rand.New(rand.NewSource(int64(rng.SeedFor(e.MasterSeed, inflowStreamKey, today))))
	n := sampleInflowCount(src, e.Options.Inflow)
	for i := 0; i < n; i++ {
		caseType, stage := sampleInflowAttrs(src, e.Options.Inflow)
		id := core.CaseID(fmt.Sprintf("inflow-%d-%d", today.Ordinal(), e.inflowSeq))
		e.inflowSeq++
		c := casepop.NewCase(id, caseType, today, stage)
		if !e.Population.Insert(c) {
			e.Logger.Warn("inflow case id collision, skipped", zap.String("case_id", string(id)))
		}
	}
}

// caseViewFor duplicates schedalgo's view projection; kept local (rather
// than imported) since schedalgo.viewOf is unexported.
func caseViewFor(c *casepop.Case) ripeness.CaseView {
	var gaps []int
	var last *core.Date
	for _, rec := range c.History {
		if rec.Outcome != core.OutcomeHeard && rec.Outcome != core.OutcomeAdjourned {
			continue
		}
		d := rec.Date
		if last != nil {
			gaps = append(gaps, d.Sub(*last))
		}
		last = &d
	}
	return ripeness.CaseView{
		Stage:              c.Stage,
		HearingCount:       c.HearingCount,
		LastHearingPurpose: c.LastHearingPurpose,
		HearingGapDays:     gaps,
	}
}
