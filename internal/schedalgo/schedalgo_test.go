package schedalgo_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/courtsim/causelist/internal/allocator"
	"github.com/courtsim/causelist/internal/casepop"
	"github.com/courtsim/causelist/internal/core"
	"github.com/courtsim/causelist/internal/override"
	"github.com/courtsim/causelist/internal/params"
	"github.com/courtsim/causelist/internal/policy"
	"github.com/courtsim/causelist/internal/ripeness"
	"github.com/courtsim/causelist/internal/schedalgo"
)

func day(y int, m time.Month, d int) core.Date {
	return core.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func tablesAllRipe() *params.Tables {
	tables, err := params.NewTables(params.Config{
		StageVocabulary: []core.Stage{"arguments"},
		TypeStats: map[core.CaseType]params.TypeStats{
			"crp": {MedianHearingsToDisposal: 6, MedianInterHearingGap: 20},
		},
		Capacity: 10,
	}, nil)
	Expect(err).NotTo(HaveOccurred())
	return tables
}

var _ = Describe("ScheduleDay", func() {
	var (
		classifier *ripeness.Classifier
		tables     *params.Tables
		pol        policy.Policy
		population *casepop.Population
	)

	BeforeEach(func() {
		classifier = ripeness.NewClassifier(ripeness.DefaultThresholds())
		tables = tablesAllRipe()
		pol = policy.FIFO{}
		population = mustPopulation(nil)
	})

	// Scenario 1: deterministic FIFO ordering under a tight single-courtroom
	// capacity. The earlier-filed case is scheduled, the later one is
	// capacity_limited.
	It("orders by filed date and marks the overflow capacity_limited", func() {
		a := casepop.NewCase("A", "crp", day(2024, time.January, 1), "arguments")
		b := casepop.NewCase("B", "crp", day(2024, time.January, 2), "arguments")
		courtrooms := allocator.NewSet([]*allocator.Courtroom{allocator.NewCourtroom("room-1", 1)})
		courtrooms.ResetDay()
		today := day(2024, time.February, 1)

		result, err := schedalgo.ScheduleDay([]*casepop.Case{b, a}, population, courtrooms, today, nil, pol, classifier, tables, schedalgo.Options{MinGapDays: 7, HardMaxCapacity: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Scheduled).To(ConsistOf(core.CaseID("A")))
		Expect(result.CapacityLimited).To(ConsistOf(core.CaseID("B")))
	})

	// Scenario 2: minimum inter-hearing gap enforcement. A case last heard on
	// 2024-03-01 with min_gap_days=14 is gap_blocked on 2024-03-10 and
	// eligible again on 2024-03-15.
	It("blocks a case until its minimum hearing gap has elapsed", func() {
		c := casepop.NewCase("C", "crp", day(2024, time.January, 1), "arguments")
		lastHeard := day(2024, time.March, 1)
		c.LastHearingDate = &lastHeard
		courtrooms := allocator.NewSet([]*allocator.Courtroom{allocator.NewCourtroom("room-1", 10)})
		courtrooms.ResetDay()
		opts := schedalgo.Options{MinGapDays: 14, HardMaxCapacity: 10}

		blocked, err := schedalgo.ScheduleDay([]*casepop.Case{c}, population, courtrooms, day(2024, time.March, 10), nil, pol, classifier, tables, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(blocked.Scheduled).To(BeEmpty())
		Expect(blocked.GapBlocked).To(HaveLen(1))
		Expect(blocked.GapBlocked[0].CaseID).To(Equal(core.CaseID("C")))

		courtrooms.ResetDay()
		eligible, err := schedalgo.ScheduleDay([]*casepop.Case{c}, population, courtrooms, day(2024, time.March, 15), nil, pol, classifier, tables, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(eligible.Scheduled).To(ConsistOf(core.CaseID("C")))
	})

	// Scenario 6: strict ripeness filtering rejects a case the non-strict
	// classifier would default to ripe.
	It("filters cases that fail the strict ripeness classifier", func() {
		loose := ripeness.DefaultThresholds()
		loose.MinServiceHearings = 0
		loose.Strict = true
		strictClassifier := ripeness.NewClassifier(loose)

		c := casepop.NewCase("D", "crp", day(2024, time.January, 1), core.StageAdmission)
		courtrooms := allocator.NewSet([]*allocator.Courtroom{allocator.NewCourtroom("room-1", 10)})
		courtrooms.ResetDay()

		result, err := schedalgo.ScheduleDay([]*casepop.Case{c}, population, courtrooms, day(2024, time.February, 1), nil, pol, strictClassifier, tables, schedalgo.Options{MinGapDays: 7, HardMaxCapacity: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Scheduled).To(BeEmpty())
		Expect(result.UnripeRejected).To(HaveLen(1))
	})

	It("rejects an add override for an already-disposed case instead of scheduling it", func() {
		disposed := casepop.NewCase("ghost", "crp", day(2024, time.January, 1), "arguments")
		disposed.MarkDisposed(day(2024, time.January, 15), core.StageDisposed)
		pop := mustPopulation([]*casepop.Case{disposed})
		courtrooms := allocator.NewSet([]*allocator.Courtroom{allocator.NewCourtroom("room-1", 10)})
		courtrooms.ResetDay()

		requests := []override.Request{{Kind: override.KindAdd, CaseID: "ghost", Position: 0}}
		result, err := schedalgo.ScheduleDay(nil, pop, courtrooms, day(2024, time.February, 1), requests, pol, classifier, tables, schedalgo.Options{MinGapDays: 7, HardMaxCapacity: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Scheduled).To(BeEmpty())
		Expect(result.RejectedOverrides).To(HaveLen(1))
		Expect(result.RejectedOverrides[0].Reason).To(Equal("case is disposed"))
	})
})

func mustPopulation(cases []*casepop.Case) *casepop.Population {
	p, _ := casepop.NewPopulation(cases)
	return p
}
