package policy

import (
	"fmt"

	"github.com/courtsim/causelist/internal/core"
)

// Registry resolves a configured policy_name to a Policy instance (spec §6
// "policy_name"; spec §7 "unknown policy name" is a fatal configuration
// error at construction). External-scorer policies are not resolvable by
// name since they require a caller-supplied function value; construct them
// directly with ExternalScorer{}.
type Registry struct {
	byName map[string]func() Policy
}

// NewRegistry constructs a registry pre-populated with the three built-in,
// name-addressable variants (spec §4.4).
func NewRegistry() *Registry {
	r := &Registry{byName: map[string]func() Policy{}}
	r.Register("fifo", func() Policy { return FIFO{} })
	r.Register("age", func() Policy { return Age{} })
	r.Register("composite-readiness", func() Policy { return NewCompositeReadiness() })
	return r
}

// Register adds or replaces a named policy constructor.
func (r *Registry) Register(name string, ctor func() Policy) {
	r.byName[name] = ctor
}

// Resolve returns the named policy, or an error wrapping
// core.ErrUnknownPolicy (spec §7).
func (r *Registry) Resolve(name string) (Policy, error) {
	ctor, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownPolicy, name)
	}
	return ctor(), nil
}
