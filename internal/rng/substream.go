// Package rng derives deterministic, per-(case, day) RNG sub-streams from a
// single master seed (spec §4.8, §9 "RNG sub-streams"). Keying by a stable
// hash rather than incrementing a shared counter is what makes outcome
// sampling safe to parallelize across cases within a day (spec §5): no
// sub-stream's sequence depends on the order other cases were drawn in.
package rng

import (
	"math/rand"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/courtsim/causelist/internal/core"
)

// key is hashed, never the bare strings, so the derivation is stable
// regardless of Go's map/string internals changing between versions — the
// same pattern the teacher uses in pkg/utils/pretty.ChangeMonitor to turn an
// arbitrary value into a stable cache key via hashstructure.
type key struct {
	MasterSeed uint64
	CaseID     core.CaseID
	DateOrdinal int
}

// SeedFor derives the sub-stream seed for (masterSeed, caseID, date).
// Implementations must never read from a shared *rand.Rand concurrently
// (spec §9); deriving an independent seed per (case, day) and constructing
// an independent *rand.Rand from it is what guarantees that.
func SeedFor(masterSeed uint64, caseID core.CaseID, date core.Date) uint64 {
	h, err := hashstructure.Hash(key{MasterSeed: masterSeed, CaseID: caseID, DateOrdinal: date.Ordinal()}, hashstructure.FormatV2, nil)
	if err != nil {
		// hashstructure only fails on unsupported types; key is a plain
		// struct of a uint64, a string, and an int, which it always supports.
		panic("rng: unexpected hashstructure failure: " + err.Error())
	}
	return h
}

// SubStream constructs an independent, deterministic *rand.Rand for
// (masterSeed, caseID, date). Safe to use concurrently with other
// sub-streams, never safe to share across goroutines itself.
func SubStream(masterSeed uint64, caseID core.CaseID, date core.Date) *rand.Rand {
	seed := SeedFor(masterSeed, caseID, date)
	// #nosec G404 -- deterministic reproducibility is the explicit design
	// goal (spec §4.8), not cryptographic unpredictability.
	return rand.New(rand.NewSource(int64(seed)))
}

// Draw returns a single u in [0,1) from the case/day sub-stream (spec §4.8
// step 1).
func Draw(masterSeed uint64, caseID core.CaseID, date core.Date) float64 {
	return SubStream(masterSeed, caseID, date).Float64()
}
