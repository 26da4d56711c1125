package types

import "time"

// SideEffect describes an external action a mutation wants performed.
// The engine surfaces side effects in results but does not dispatch
// them; downstream dispatch is the caller's concern.
type SideEffect struct {
	// Type is the effect kind (e.g. "notify", "invalidate_cache").
	Type string `json:"type" msgpack:"type"`
	// Target is the effect destination.
	Target string `json:"target,omitempty" msgpack:"target,omitempty"`
	// Payload carries effect-specific data.
	Payload map[string]any `json:"payload,omitempty" msgpack:"payload,omitempty"`
}

// Result is the outcome of a single mutation execution.
// Every result carries a ChangeSet, including failures (possibly empty).
type Result[S any] struct {
	// Success indicates whether the mutation applied.
	Success bool
	// NewState is the resulting state. Zero value on failure; HasState
	// distinguishes a present zero-valued state from an absent one.
	NewState S
	// HasState is true when NewState is meaningful.
	HasState bool
	// Changes is the ordered record of state deltas.
	Changes ChangeSet
	// Validation is the validation outcome, when validation ran.
	Validation ValidationResult
	// PolicyDecisions are the decisions recorded during evaluation.
	PolicyDecisions []PolicyDecision
	// SideEffects are effects the mutation requested. Never dispatched
	// by the engine.
	SideEffects []SideEffect
	// Metrics are the per-execution timings, populated by the engine.
	Metrics MutationMetrics
	// Err is the failure cause, when one exists.
	Err error
	// CompletedAt is when the result was finalized.
	CompletedAt time.Time
}

// NewSuccess produces a successful result carrying the new state.
func NewSuccess[S any](newState S, changes ChangeSet, sideEffects ...SideEffect) *Result[S] {
	return &Result[S]{
		Success:     true,
		NewState:    newState,
		HasState:    true,
		Changes:     changes,
		SideEffects: sideEffects,
		CompletedAt: time.Now().UTC(),
	}
}

// NewFailure produces a failed result from a validation outcome.
func NewFailure[S any](validation ValidationResult) *Result[S] {
	return &Result[S]{
		Success:     false,
		Validation:  validation,
		CompletedAt: time.Now().UTC(),
	}
}

// NewPolicyBlocked produces a failed result from a denying decision.
func NewPolicyBlocked[S any](decision PolicyDecision) *Result[S] {
	return &Result[S]{
		Success:         false,
		PolicyDecisions: []PolicyDecision{decision},
		CompletedAt:     time.Now().UTC(),
	}
}

// BlockingDecision returns the first denying decision, if any.
func (r *Result[S]) BlockingDecision() (PolicyDecision, bool) {
	for _, d := range r.PolicyDecisions {
		if !d.Allowed {
			return d, true
		}
	}
	return PolicyDecision{}, false
}
