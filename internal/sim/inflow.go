package sim

import (
	"math"
	"math/rand"
	"sort"

	"github.com/courtsim/causelist/internal/config"
	"github.com/courtsim/causelist/internal/core"
)

// poisson draws a Poisson-distributed count via Knuth's algorithm, adequate
// for the modest daily filing rates this simulator's inflow models (spec
// §4.9 "a parameterised Poisson-like rate per day").
func poisson(src *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		k++
		p *= src.Float64()
		if p <= l {
			return k - 1
		}
	}
}

// pickCaseType draws a case type from weights using u in [0,1), iterating
// keys in a fixed (sorted) order so the draw is reproducible regardless of
// map iteration order (same discipline as sampler.sampleNextStage).
func pickCaseType(weights map[core.CaseType]float64, u float64) core.CaseType {
	keys := make([]core.CaseType, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	cumulative := 0.0
	for _, k := range keys {
		cumulative += weights[k]
		if u < cumulative {
			return k
		}
	}
	if len(keys) == 0 {
		return ""
	}
	return keys[len(keys)-1]
}

func pickStage(weights map[core.Stage]float64, u float64) core.Stage {
	keys := make([]core.Stage, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	cumulative := 0.0
	for _, k := range keys {
		cumulative += weights[k]
		if u < cumulative {
			return k
		}
	}
	if len(keys) == 0 {
		return core.StageAdmission
	}
	return keys[len(keys)-1]
}

// sampleInflowCount and sampleInflowAttrs are split out from the engine's
// Run loop so the inflow formula (spec §4.9 "Case inflow") can be unit
// tested without constructing a full Engine.
func sampleInflowCount(src *rand.Rand, cfg config.InflowConfig) int {
	return poisson(src, cfg.RatePerDay)
}

func sampleInflowAttrs(src *rand.Rand, cfg config.InflowConfig) (core.CaseType, core.Stage) {
	return pickCaseType(cfg.TypeWeights, src.Float64()), pickStage(cfg.InitialStageWeights, src.Float64())
}
