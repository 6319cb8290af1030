package config

import (
	"errors"
	"testing"
	"time"

	"github.com/courtsim/causelist/internal/core"
	"github.com/courtsim/causelist/internal/params"
)

func validSimConfig() SimulationConfig {
	return SimulationConfig{
		StartDate:              core.NewDate(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)),
		HorizonDays:            365,
		Seed:                   42,
		Courtrooms:             []CourtroomSpec{{ID: "room-1", Capacity: 10}},
		PolicyName:             "fifo",
		MinGapDays:             7,
		RipenessEvalPeriodDays: 7,
		DurationPercentile:     params.PercentileMedian,
	}
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	if err := validSimConfig().Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsEmptyCourtroomSet(t *testing.T) {
	cfg := validSimConfig()
	cfg.Courtrooms = nil
	err := cfg.Validate()
	if !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("err = %v, want core.ErrConfiguration", err)
	}
}

func TestValidateRejectsNegativeCourtroomCapacity(t *testing.T) {
	cfg := validSimConfig()
	cfg.Courtrooms = []CourtroomSpec{{ID: "room-1", Capacity: -1}}
	err := cfg.Validate()
	if !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("err = %v, want core.ErrConfiguration", err)
	}
}

func TestValidateRejectsDuplicateCourtroomIDs(t *testing.T) {
	cfg := validSimConfig()
	cfg.Courtrooms = []CourtroomSpec{
		{ID: "room-1", Capacity: 10},
		{ID: "room-1", Capacity: 5},
	}
	err := cfg.Validate()
	if !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("err = %v, want core.ErrConfiguration", err)
	}
}

func TestValidateRejectsZeroHorizon(t *testing.T) {
	cfg := validSimConfig()
	cfg.HorizonDays = 0
	if err := cfg.Validate(); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("err = %v, want core.ErrConfiguration", err)
	}
}

func TestValidateRejectsMissingPolicyName(t *testing.T) {
	cfg := validSimConfig()
	cfg.PolicyName = ""
	if err := cfg.Validate(); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("err = %v, want core.ErrConfiguration", err)
	}
}

func TestWithDefaultsFillsRipenessPeriodAndPercentile(t *testing.T) {
	cfg := SimulationConfig{}
	got := cfg.WithDefaults()
	if got.RipenessEvalPeriodDays != DefaultRipenessEvalPeriodDays {
		t.Errorf("RipenessEvalPeriodDays = %d, want default %d", got.RipenessEvalPeriodDays, DefaultRipenessEvalPeriodDays)
	}
	if got.DurationPercentile != params.PercentileMedian {
		t.Errorf("DurationPercentile = %v, want median default", got.DurationPercentile)
	}
}

func TestWithDefaultsLeavesExplicitValuesAlone(t *testing.T) {
	cfg := SimulationConfig{RipenessEvalPeriodDays: 14, DurationPercentile: params.PercentileP90}
	got := cfg.WithDefaults()
	if got.RipenessEvalPeriodDays != 14 {
		t.Errorf("RipenessEvalPeriodDays = %d, want explicit 14 preserved", got.RipenessEvalPeriodDays)
	}
	if got.DurationPercentile != params.PercentileP90 {
		t.Errorf("DurationPercentile = %v, want explicit p90 preserved", got.DurationPercentile)
	}
}
