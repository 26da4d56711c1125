package policy

import "github.com/wardenlabs/warden/types"

// Evaluation is the outcome of evaluating a registry against a mutation.
type Evaluation struct {
	// Effective is the single effective decision.
	Effective types.PolicyDecision
	// Decisions are all decisions produced, in evaluation order. The
	// synthetic allow produced when every policy passes is not among
	// them.
	Decisions []types.PolicyDecision
	// Evaluated is the number of policies that ran.
	Evaluated int
}

// Evaluate runs the registry's policies in order (descending priority,
// registration order on ties) and produces the effective decision:
//
//   - the first denying decision short-circuits evaluation, or
//   - the first decision carrying modifications is effective (still
//     allowed) and short-circuits, or
//   - after all policies pass, a synthetic allow.
//
// An empty registry yields a synthetic allow.
func Evaluate[S any](registry *Registry[S], mutation types.Mutation[S], state S) Evaluation {
	var eval Evaluation

	for _, p := range registry.Policies() {
		decision := p.Evaluate(mutation, state)
		if decision.PolicyName == "" {
			decision.PolicyName = p.Name()
		}
		eval.Decisions = append(eval.Decisions, decision)
		eval.Evaluated++

		if !decision.Allowed {
			eval.Effective = decision
			return eval
		}
		if len(decision.Modifications) > 0 {
			eval.Effective = decision
			return eval
		}
	}

	eval.Effective = types.Allow()
	return eval
}
