// Package config defines the simulation's input configuration and validates
// it the way the teacher's pkg/apis/config/settings.Settings does: declarative
// struct tags checked by go-playground/validator, with a constructor that
// turns a failed validation into a core.ErrConfiguration wrapping the
// validator's field-level errors, rather than panicking (the teacher panics
// because a bad ConfigMap is an operator error it cannot recover from at
// runtime; this core is a library called by a harness that should get a
// typed error back).
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/courtsim/causelist/internal/core"
	"github.com/courtsim/causelist/internal/params"
)

// CourtroomSpec is one entry of the injected courtroom set (spec §6).
type CourtroomSpec struct {
	ID       string `validate:"required"`
	Capacity int    `validate:"gte=0"`
}

// InflowConfig parameterizes case inflow (spec §4.9 "Case inflow").
type InflowConfig struct {
	Enabled           bool
	RatePerDay        float64 `validate:"gte=0"`
	TypeWeights       map[core.CaseType]float64
	InitialStageWeights map[core.Stage]float64
}

// SimulationConfig is the full per-run configuration (spec §6).
type SimulationConfig struct {
	StartDate              core.Date
	HorizonDays            int    `validate:"gt=0"`
	Seed                   uint64
	Courtrooms             []CourtroomSpec `validate:"required,min=1,dive"`
	PolicyName             string          `validate:"required"`
	MinGapDays             int             `validate:"gte=0"`
	RipenessEvalPeriodDays int             `validate:"gt=0"`
	StrictRipeness         bool
	Inflow                 InflowConfig
	DurationPercentile     params.Percentile `validate:"required"`
}

// DefaultRipenessEvalPeriodDays is the spec's default re-evaluation cadence
// (spec §4.9: "default every 7 calendar days").
const DefaultRipenessEvalPeriodDays = 7

var validate = validator.New()

// Validate checks structural validity per spec §7 "Configuration" errors:
// negative capacity, empty courtroom set, unknown policy name (checked by
// the caller against its policy registry, not here, since this package does
// not import internal/policy to avoid a cycle), empty stage vocabulary
// (checked by params.NewTables). Returns an error wrapping
// core.ErrConfiguration on any failure.
func (c SimulationConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %s", core.ErrConfiguration, err)
	}
	seen := map[string]bool{}
	for _, cr := range c.Courtrooms {
		if seen[cr.ID] {
			return fmt.Errorf("%w: duplicate courtroom id %q", core.ErrConfiguration, cr.ID)
		}
		seen[cr.ID] = true
	}
	return nil
}

// WithDefaults fills in documented defaults (spec §9 open questions: the
// default mode is non-strict; the default ripeness re-evaluation period is
// 7 days) for any zero-valued field a caller left unset.
func (c SimulationConfig) WithDefaults() SimulationConfig {
	if c.RipenessEvalPeriodDays == 0 {
		c.RipenessEvalPeriodDays = DefaultRipenessEvalPeriodDays
	}
	if c.DurationPercentile == "" {
		c.DurationPercentile = params.PercentileMedian
	}
	return c
}
