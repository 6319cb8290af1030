package core

import "errors"

// Error kinds per spec §7. Configuration and invariant-violation errors are
// surfaced (the caller decides whether that means a test failure or a
// logged-and-skipped production event, spec §4.11); everything else is
// absorbed locally into counters and never becomes a Go error at all.
var (
	// ErrInvariantViolation is wrapped with context describing which
	// invariant failed (spec §4.11: disposed case reaching the allocator,
	// terminal case as a transition source, probability sums off by more
	// than 1e-6).
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrConfiguration is wrapped with context describing the offending
	// field (spec §7: invalid weights, negative capacity, unknown policy
	// name, empty courtroom set, empty stage vocabulary). Fatal at
	// construction.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrUnknownPolicy is returned by the policy registry when a
	// configuration names a policy that isn't registered.
	ErrUnknownPolicy = errors.New("unknown policy")

	// ErrCaseNotFound names a missing case id. Population.Get reports a
	// miss with a bool, not with this error.
	ErrCaseNotFound = errors.New("case not found")

	// ErrCourtroomNotFound names a missing courtroom id. allocator.Set.Get
	// reports a miss with a bool, not with this error.
	ErrCourtroomNotFound = errors.New("courtroom not found")
)

// ProbabilityTolerance is the tolerance within which a discrete distribution
// must sum to 1 before it is treated as an invariant violation (spec §7).
const ProbabilityTolerance = 1e-6
