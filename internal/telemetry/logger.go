// Package telemetry constructs the simulator's root structured logger and a
// change-monitor helper for deduplicating noisy diagnostics, the way the
// teacher repo bootstraps a single root *zap.Logger in its operator package
// and reduces log spam with a hash-keyed change monitor
// (pkg/utils/pretty.ChangeMonitor) instead of sprinkling if-not-logged-yet
// flags through business logic.
package telemetry

import (
	"time"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the root logger for a simulation run. development=true
// selects a human-readable console encoder at debug level (used by test
// suites and local runs); development=false selects the JSON production
// encoder at info level.
func NewLogger(development bool) (*zap.Logger, error) {
	if development {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// ChangeMonitor reduces log volume for conditions that repeat across many
// simulated days (a parameter-table miss for the same (stage, type), the
// same override rejection reason) by only reporting the first time a keyed
// value is seen, or the first time it changes. Ported from the teacher's
// pkg/utils/pretty.ChangeMonitor, generalized from a fixed 24h visibility
// window to a caller-supplied one since this simulator has no wall-clock
// notion of "still relevant" — a run's entire horizon can be a few seconds.
type ChangeMonitor struct {
	lastSeen *cache.Cache
}

// NewChangeMonitor constructs a ChangeMonitor. visibility controls how long
// a previously-seen key is remembered; zero means "remember forever", which
// is what a single simulation run wants (there's no reason to re-warn about
// the same missing parameter on day 400 having already warned on day 1).
func NewChangeMonitor(visibility time.Duration) *ChangeMonitor {
	if visibility <= 0 {
		return &ChangeMonitor{lastSeen: cache.New(cache.NoExpiration, cache.NoExpiration)}
	}
	return &ChangeMonitor{lastSeen: cache.New(visibility, visibility/2)}
}

// HasChanged reports true if value's hash differs from (or is absent from)
// what was last recorded under key, and records the new hash as a
// side-effect. Used to gate a log line, not to gate correctness.
func (c *ChangeMonitor) HasChanged(key string, value any) bool {
	hv, _ := hashstructure.Hash(value, hashstructure.FormatV2, &hashstructure.HashOptions{SlicesAsSets: true})
	existing, ok := c.lastSeen.Get(key)
	var existingHash uint64
	if ok {
		existingHash = existing.(uint64)
	}
	if !ok || existingHash != hv {
		c.lastSeen.SetDefault(key, hv)
		return true
	}
	return false
}
