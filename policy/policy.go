// Package policy defines governance policies and their evaluation order.
//
// A policy is a named, prioritized rule producing an allow/deny/modify
// decision over a mutation and the state it targets. Policies must be
// side-effect free: evaluation may not mutate the state, the mutation,
// or any shared structure.
package policy

import "github.com/wardenlabs/warden/types"

// Policy is a governance rule over mutations of state type S.
//
// Evaluation order is descending by Priority; policies registered
// earlier win ties. Evaluate must be side-effect free and safe for
// concurrent calls.
type Policy[S any] interface {
	// Name is the unique policy name within a registry.
	Name() string

	// Priority orders evaluation. Higher priority evaluates first.
	Priority() int

	// Description is a human-readable summary.
	Description() string

	// Evaluate produces a decision for the mutation against the state.
	Evaluate(mutation types.Mutation[S], state S) types.PolicyDecision
}

// Func adapts a plain function into a Policy.
// Used for inline policies in tests and small callers.
type Func[S any] struct {
	// PolicyName is the unique policy name.
	PolicyName string
	// PolicyPriority orders evaluation.
	PolicyPriority int
	// PolicyDescription is an optional summary.
	PolicyDescription string
	// EvaluateFunc produces the decision.
	EvaluateFunc func(mutation types.Mutation[S], state S) types.PolicyDecision
}

// Name implements Policy.
func (f Func[S]) Name() string { return f.PolicyName }

// Priority implements Policy.
func (f Func[S]) Priority() int { return f.PolicyPriority }

// Description implements Policy.
func (f Func[S]) Description() string { return f.PolicyDescription }

// Evaluate implements Policy.
func (f Func[S]) Evaluate(mutation types.Mutation[S], state S) types.PolicyDecision {
	return f.EvaluateFunc(mutation, state)
}
