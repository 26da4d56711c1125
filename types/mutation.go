package types

// Mutation is a unit of state change bound to a state type S.
//
// All three operations must be pure with respect to the input state:
// Validate and Simulate must leave the state observably unchanged, and
// Apply must be deterministic — identical (state, intent, context)
// must produce identical results. Mutations are immutable and safe to
// share by reference.
type Mutation[S any] interface {
	// Intent declares what the mutation intends to change.
	Intent() Intent

	// Context describes who initiated the mutation and in which mode.
	Context() Context

	// Validate checks the mutation against the state without mutating it.
	Validate(state S) ValidationResult

	// Simulate behaves identically to Apply except no persistence is
	// implied. Must not mutate the input state.
	Simulate(state S) (*Result[S], error)

	// Apply produces the new state. Deterministic; must not mutate the
	// input state in place.
	Apply(state S) (*Result[S], error)
}
