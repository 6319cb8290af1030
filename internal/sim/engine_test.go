package sim_test

import (
	"context"
	"fmt"
	"time"

	"github.com/Pallinder/go-randomdata"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/courtsim/causelist/internal/allocator"
	"github.com/courtsim/causelist/internal/casepop"
	"github.com/courtsim/causelist/internal/config"
	"github.com/courtsim/causelist/internal/core"
	"github.com/courtsim/causelist/internal/override"
	"github.com/courtsim/causelist/internal/params"
	"github.com/courtsim/causelist/internal/policy"
	"github.com/courtsim/causelist/internal/ripeness"
	"github.com/courtsim/causelist/internal/sim"
	"github.com/courtsim/causelist/pkg/calendar"
)

// randomActorID mimics the teacher's randomized-fixture-data idiom for
// filling in a field the assertions never inspect by value.
func randomActorID() string {
	return randomdata.FirstName(randomdata.RandomGender) + " " + randomdata.LastName()
}

func day(y int, m time.Month, d int) core.Date {
	return core.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func seedCases(n int, start core.Date) []*casepop.Case {
	out := make([]*casepop.Case, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, casepop.NewCase(core.CaseID(fmt.Sprintf("case-%03d", i)), "crp", start, "arguments"))
	}
	return out
}

func buildTables() *params.Tables {
	tables, _ := params.NewTables(params.Config{
		StageVocabulary: []core.Stage{"arguments", core.StageDisposed},
		Transitions: map[core.Stage]map[core.CaseType]params.Distribution{
			"arguments": {"crp": {core.StageDisposed: 0.3, "arguments": 0.7}},
		},
		Adjournment: map[core.Stage]map[core.CaseType]float64{
			"arguments": {"crp": 0.2},
		},
		TypeStats: map[core.CaseType]params.TypeStats{
			"crp": {MedianHearingsToDisposal: 6, MedianInterHearingGap: 20},
		},
		Capacity: 10,
	}, nil)
	return tables
}

func buildEngine(seed uint64, n int, start core.Date) *sim.Engine {
	pop, _ := casepop.NewPopulation(seedCases(n, start))
	courtrooms := allocator.NewSet([]*allocator.Courtroom{
		allocator.NewCourtroom("room-1", 5),
		allocator.NewCourtroom("room-2", 5),
	})
	classifier := ripeness.NewClassifier(ripeness.DefaultThresholds())
	return sim.NewEngine(
		pop, courtrooms, calendar.AllDays{}, classifier, policy.FIFO{}, buildTables(),
		seed, nil,
		sim.EngineOptions{MinGapDays: 7, HardMaxCapacity: 10, RipenessEvalPeriodDays: 7},
	)
}

var _ = Describe("Engine", func() {
	start := day(2024, time.January, 1)

	It("produces identical summaries for identical seeds and inputs", func() {
		e1 := buildEngine(42, 20, start)
		s1, err1 := e1.Run(context.Background(), start, 30)
		Expect(err1).NotTo(HaveOccurred())

		e2 := buildEngine(42, 20, start)
		s2, err2 := e2.Run(context.Background(), start, 30)
		Expect(err2).NotTo(HaveOccurred())

		Expect(s1).To(Equal(s2))
	})

	It("conserves cases: disposed + active equals initial + inflow", func() {
		e := buildEngine(7, 15, start)
		e.Run(context.Background(), start, 60)

		disposed := e.Population.CountDisposed()
		active := len(e.Population.Active())
		Expect(disposed + active).To(Equal(e.Population.Len()))
	})

	It("returns a partial summary when the context is cancelled mid-run", func() {
		e := buildEngine(7, 10, start)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		summary, err := e.Run(ctx, start, 30)
		Expect(err).To(HaveOccurred())
		Expect(summary.TotalDays).To(Equal(0))
	})

	It("completes a normal run without invoking the invariant violation hook", func() {
		violations := 0
		pop, _ := casepop.NewPopulation(seedCases(1, start))
		courtrooms := allocator.NewSet([]*allocator.Courtroom{allocator.NewCourtroom("room-1", 5)})
		classifier := ripeness.NewClassifier(ripeness.DefaultThresholds())
		e := sim.NewEngine(
			pop, courtrooms, calendar.AllDays{}, classifier, policy.FIFO{}, buildTables(),
			7, nil,
			sim.EngineOptions{
				MinGapDays: 7, HardMaxCapacity: 10, RipenessEvalPeriodDays: 7,
				OnInvariantViolation: func(v sim.Violation) { violations++ },
			},
		)
		_, err := e.Run(context.Background(), start, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(violations).To(Equal(0))
	})

	It("grows the population when inflow is enabled", func() {
		pop, _ := casepop.NewPopulation(seedCases(5, start))
		courtrooms := allocator.NewSet([]*allocator.Courtroom{allocator.NewCourtroom("room-1", 50)})
		classifier := ripeness.NewClassifier(ripeness.DefaultThresholds())
		e := sim.NewEngine(
			pop, courtrooms, calendar.AllDays{}, classifier, policy.FIFO{}, buildTables(),
			7, nil,
			sim.EngineOptions{
				MinGapDays: 0, HardMaxCapacity: 50, RipenessEvalPeriodDays: 7,
				Inflow: config.InflowConfig{
					Enabled:     true,
					RatePerDay:  3,
					TypeWeights: map[core.CaseType]float64{"crp": 1.0},
					InitialStageWeights: map[core.Stage]float64{
						"arguments": 1.0,
					},
				},
			},
		)
		initialLen := e.Population.Len()
		e.Run(context.Background(), start, 20)
		Expect(e.Population.Len()).To(BeNumerically(">", initialLen))
	})

	It("logs a repeatedly-rejected override once rather than once per day", func() {
		pop, _ := casepop.NewPopulation(seedCases(1, start))
		disposed, _ := pop.Get("case-000")
		disposed.MarkDisposed(start, "final-disposal")
		courtrooms := allocator.NewSet([]*allocator.Courtroom{allocator.NewCourtroom("room-1", 5)})
		classifier := ripeness.NewClassifier(ripeness.DefaultThresholds())

		obsCore, logs := observer.New(zapcore.WarnLevel)
		logger := zap.New(obsCore)

		actor := randomActorID()
		e := sim.NewEngine(
			pop, courtrooms, calendar.AllDays{}, classifier, policy.FIFO{}, buildTables(),
			7, logger,
			sim.EngineOptions{
				MinGapDays: 7, HardMaxCapacity: 10, RipenessEvalPeriodDays: 7,
				Overrides: func(today core.Date) []override.Request {
					return []override.Request{{Kind: override.KindAdd, CaseID: "case-000", ActorID: actor}}
				},
			},
		)
		_, err := e.Run(context.Background(), start, 10)
		Expect(err).NotTo(HaveOccurred())

		rejections := logs.FilterMessage("override rejected").All()
		Expect(rejections).To(HaveLen(1))
		Expect(rejections[0].ContextMap()["reason"]).To(Equal("case is disposed"))
	})
})
