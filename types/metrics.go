package types

import "time"

// MutationMetrics records per-execution timings and counters.
// Built once per execution by the metrics scope; never mutated after
// record.
type MutationMetrics struct {
	// RecordedAt is when the metrics were finalized.
	RecordedAt time.Time `json:"recorded_at" msgpack:"recorded_at"`
	// ExecutionTime is the total wall-clock time of the execution.
	ExecutionTime time.Duration `json:"execution_time" msgpack:"execution_time"`
	// ValidationTime is the time spent in validation.
	ValidationTime time.Duration `json:"validation_time" msgpack:"validation_time"`
	// PolicyEvaluationTime is the time spent evaluating policies.
	PolicyEvaluationTime time.Duration `json:"policy_evaluation_time" msgpack:"policy_evaluation_time"`
	// ValidatedRules is the number of validation rules checked.
	ValidatedRules int `json:"validated_rules" msgpack:"validated_rules"`
	// EvaluatedPolicies is the number of policies evaluated.
	EvaluatedPolicies int `json:"evaluated_policies" msgpack:"evaluated_policies"`
	// ChangesCount is the number of recorded state changes.
	ChangesCount int `json:"changes_count" msgpack:"changes_count"`
	// StateSize is an estimate of the state size in bytes, when known.
	StateSize int64 `json:"state_size,omitempty" msgpack:"state_size,omitempty"`
	// MemoryUsed is an estimate of memory consumed, when known.
	MemoryUsed int64 `json:"memory_used,omitempty" msgpack:"memory_used,omitempty"`
	// UsedCache indicates whether a cached evaluation was reused.
	UsedCache bool `json:"used_cache" msgpack:"used_cache"`
	// AdditionalMetrics carries implementation-specific values.
	AdditionalMetrics map[string]any `json:"additional_metrics,omitempty" msgpack:"additional_metrics,omitempty"`
}
