package metrics

import (
	"sync"
	"time"

	"github.com/wardenlabs/warden/types"
)

// Scope records the timings and counters of one execution.
// Opened by Collector.BeginScope; finalized once via Build. A scope is
// used by a single execution and guards its fields for the engine's
// concurrent downstream writes.
type Scope struct {
	executionID string
	startedAt   time.Time

	mu                   sync.Mutex
	validationTime       time.Duration
	policyEvaluationTime time.Duration
	validatedRules       int
	evaluatedPolicies    int
	changesCount         int
	stateSize            int64
	memoryUsed           int64
	usedCache            bool
	additional           map[string]any
}

// ExecutionID returns the owning execution id.
func (s *Scope) ExecutionID() string { return s.executionID }

// StartedAt returns when the scope's wall clock started.
func (s *Scope) StartedAt() time.Time { return s.startedAt }

// Elapsed returns the wall-clock time since the scope opened.
func (s *Scope) Elapsed() time.Duration { return time.Since(s.startedAt) }

// SetValidationTime records the time spent validating.
func (s *Scope) SetValidationTime(d time.Duration) {
	s.mu.Lock()
	s.validationTime = d
	s.mu.Unlock()
}

// SetPolicyEvaluationTime records the time spent evaluating policies.
func (s *Scope) SetPolicyEvaluationTime(d time.Duration) {
	s.mu.Lock()
	s.policyEvaluationTime = d
	s.mu.Unlock()
}

// SetValidatedRules records the number of validation rules checked.
func (s *Scope) SetValidatedRules(n int) {
	s.mu.Lock()
	s.validatedRules = n
	s.mu.Unlock()
}

// SetEvaluatedPolicies records the number of policies evaluated.
func (s *Scope) SetEvaluatedPolicies(n int) {
	s.mu.Lock()
	s.evaluatedPolicies = n
	s.mu.Unlock()
}

// SetChangesCount records the recorded change-set size.
func (s *Scope) SetChangesCount(n int) {
	s.mu.Lock()
	s.changesCount = n
	s.mu.Unlock()
}

// SetStateSize records the state size estimate in bytes.
func (s *Scope) SetStateSize(n int64) {
	s.mu.Lock()
	s.stateSize = n
	s.mu.Unlock()
}

// SetMemoryUsed records the memory estimate in bytes.
func (s *Scope) SetMemoryUsed(n int64) {
	s.mu.Lock()
	s.memoryUsed = n
	s.mu.Unlock()
}

// SetUsedCache records whether a cached evaluation was reused.
func (s *Scope) SetUsedCache(used bool) {
	s.mu.Lock()
	s.usedCache = used
	s.mu.Unlock()
}

// AddMetric records an implementation-specific value.
func (s *Scope) AddMetric(key string, value any) {
	s.mu.Lock()
	if s.additional == nil {
		s.additional = make(map[string]any)
	}
	s.additional[key] = value
	s.mu.Unlock()
}

// Build stops the wall clock and produces the finalized metrics.
func (s *Scope) Build() types.MutationMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	var additional map[string]any
	if len(s.additional) > 0 {
		additional = make(map[string]any, len(s.additional))
		for k, v := range s.additional {
			additional[k] = v
		}
	}

	return types.MutationMetrics{
		RecordedAt:           time.Now().UTC(),
		ExecutionTime:        time.Since(s.startedAt),
		ValidationTime:       s.validationTime,
		PolicyEvaluationTime: s.policyEvaluationTime,
		ValidatedRules:       s.validatedRules,
		EvaluatedPolicies:    s.evaluatedPolicies,
		ChangesCount:         s.changesCount,
		StateSize:            s.stateSize,
		MemoryUsed:           s.memoryUsed,
		UsedCache:            s.usedCache,
		AdditionalMetrics:    additional,
	}
}
