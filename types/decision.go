package types

import "time"

// Requirement is a condition a policy attaches to an approval.
type Requirement struct {
	// Type is the requirement kind (e.g. "approval").
	Type string `json:"type" msgpack:"type"`
	// Description explains what must be fulfilled.
	Description string `json:"description" msgpack:"description"`
	// Data carries requirement-specific payload.
	Data map[string]any `json:"data,omitempty" msgpack:"data,omitempty"`
	// Fulfilled indicates whether the requirement has been met.
	Fulfilled bool `json:"fulfilled" msgpack:"fulfilled"`
}

// PolicyDecision is the outcome of evaluating one policy against a
// mutation. Decisions are values; stores copy them and never mutate
// them after record.
type PolicyDecision struct {
	// Allowed indicates whether the policy permits the mutation.
	Allowed bool `json:"allowed" msgpack:"allowed"`
	// Reason explains the decision.
	Reason string `json:"reason,omitempty" msgpack:"reason,omitempty"`
	// PolicyName is the name of the deciding policy. Empty for the
	// synthetic allow produced when no policy objects.
	PolicyName string `json:"policy_name,omitempty" msgpack:"policy_name,omitempty"`
	// Severity classifies the decision.
	Severity Severity `json:"severity" msgpack:"severity"`
	// Modifications is a reserved map of policy-requested changes.
	// The engine records but does not interpret it.
	Modifications map[string]any `json:"modifications,omitempty" msgpack:"modifications,omitempty"`
	// Requirements are conditions attached to an approval.
	Requirements []Requirement `json:"requirements,omitempty" msgpack:"requirements,omitempty"`
	// Metadata carries additional decision attributes.
	Metadata map[string]any `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
	// Timestamp is when the decision was produced.
	Timestamp time.Time `json:"timestamp" msgpack:"timestamp"`
}

// Allow produces a permitting decision.
func Allow() PolicyDecision {
	return PolicyDecision{
		Allowed:   true,
		Severity:  SeverityInfo,
		Timestamp: time.Now().UTC(),
	}
}

// Deny produces a blocking decision with the given reason.
func Deny(policyName, reason string) PolicyDecision {
	return PolicyDecision{
		Allowed:    false,
		Reason:     reason,
		PolicyName: policyName,
		Severity:   SeverityError,
		Timestamp:  time.Now().UTC(),
	}
}

// DenyCritical produces a blocking decision at critical severity.
func DenyCritical(policyName, reason string) PolicyDecision {
	d := Deny(policyName, reason)
	d.Severity = SeverityCritical
	return d
}

// Modify produces a permitting decision carrying a modifications map.
// The map schema is reserved; the engine records it without applying it.
func Modify(policyName string, modifications map[string]any) PolicyDecision {
	return PolicyDecision{
		Allowed:       true,
		PolicyName:    policyName,
		Severity:      SeverityInfo,
		Modifications: modifications,
		Timestamp:     time.Now().UTC(),
	}
}

// RequireApproval produces a blocking decision carrying an unfulfilled
// approval requirement. The mutation is denied until the requirement
// is met and the mutation resubmitted.
func RequireApproval(policyName, reason string, req Requirement) PolicyDecision {
	return PolicyDecision{
		Allowed:      false,
		Reason:       reason,
		PolicyName:   policyName,
		Severity:     SeverityWarning,
		Requirements: []Requirement{req},
		Timestamp:    time.Now().UTC(),
	}
}
