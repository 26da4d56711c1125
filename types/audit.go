package types

import "time"

// AuditEntry is an append-only record of one attempted mutation.
// Entries are written for every execution — success, validation
// failure, policy block, and exception — in every mode; the mode is
// reflected in the embedded context.
type AuditEntry struct {
	// ExecutionID is the engine-generated identifier of the attempt.
	ExecutionID string `json:"execution_id" msgpack:"execution_id"`
	// StateID identifies the governed entity, when known.
	StateID string `json:"state_id,omitempty" msgpack:"state_id,omitempty"`
	// StateType is the Go type name of the governed state.
	StateType string `json:"state_type" msgpack:"state_type"`
	// Intent is the declared intent of the mutation.
	Intent Intent `json:"intent" msgpack:"intent"`
	// Context is the mutation context.
	Context Context `json:"context" msgpack:"context"`
	// Changes is the recorded change-set (possibly empty).
	Changes []StateChange `json:"changes,omitempty" msgpack:"changes,omitempty"`
	// Success indicates whether the mutation applied.
	Success bool `json:"success" msgpack:"success"`
	// ErrorMessage carries the failure cause, when one exists.
	ErrorMessage string `json:"error_message,omitempty" msgpack:"error_message,omitempty"`
	// PolicyDecisions are the decisions recorded during evaluation.
	PolicyDecisions []PolicyDecision `json:"policy_decisions,omitempty" msgpack:"policy_decisions,omitempty"`
	// Timestamp is when the entry was recorded.
	Timestamp time.Time `json:"timestamp" msgpack:"timestamp"`
	// Duration is the execution wall-clock time.
	Duration time.Duration `json:"duration" msgpack:"duration"`
	// SourceIP mirrors the context source address for query convenience.
	SourceIP string `json:"source_ip,omitempty" msgpack:"source_ip,omitempty"`
	// UserAgent mirrors the context user agent for query convenience.
	UserAgent string `json:"user_agent,omitempty" msgpack:"user_agent,omitempty"`
	// Metadata carries additional audit attributes.
	Metadata map[string]any `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
}
