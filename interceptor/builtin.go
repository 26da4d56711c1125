package interceptor

import (
	"context"
	"sync"

	"github.com/wardenlabs/warden/log"
	"github.com/wardenlabs/warden/types"
)

// Logging logs every lifecycle event with execution identity fields.
type Logging[S any] struct {
	Base[S]
	logger *log.Logger
	order  int
}

// NewLogging creates a logging interceptor at the given order.
func NewLogging[S any](logger *log.Logger, order int) *Logging[S] {
	if logger == nil {
		logger = log.Nop()
	}
	return &Logging[S]{logger: logger, order: order}
}

// Name implements Interceptor.
func (l *Logging[S]) Name() string { return "Logging" }

// Order implements Interceptor.
func (l *Logging[S]) Order() int { return l.order }

// OnBefore implements Interceptor.
func (l *Logging[S]) OnBefore(_ context.Context, intent types.Intent, mctx types.Context, _ S, executionID string) error {
	l.logger.Info("mutation starting", map[string]any{
		"execution_id": executionID,
		"operation":    intent.Operation,
		"mode":         string(mctx.Mode),
		"actor":        mctx.Actor.ID,
	})
	return nil
}

// OnAfter implements Interceptor.
func (l *Logging[S]) OnAfter(_ context.Context, intent types.Intent, _ types.Context, _, _ S, changes types.ChangeSet, executionID string) error {
	l.logger.Info("mutation applied", map[string]any{
		"execution_id": executionID,
		"operation":    intent.Operation,
		"changes":      changes.Len(),
	})
	return nil
}

// OnFailed implements Interceptor.
func (l *Logging[S]) OnFailed(_ context.Context, intent types.Intent, _ types.Context, _ S, cause error, executionID string) error {
	fields := map[string]any{
		"execution_id": executionID,
		"operation":    intent.Operation,
	}
	if cause != nil {
		fields["error"] = cause.Error()
	}
	l.logger.Warn("mutation failed", fields)
	return nil
}

// OnPolicyBlocked implements Interceptor.
func (l *Logging[S]) OnPolicyBlocked(_ context.Context, intent types.Intent, _ types.Context, _ S, decision types.PolicyDecision, executionID string) error {
	l.logger.Warn("mutation blocked by policy", map[string]any{
		"execution_id": executionID,
		"operation":    intent.Operation,
		"policy":       decision.PolicyName,
		"reason":       decision.Reason,
	})
	return nil
}

// Counters is a lifecycle event counter for observability and tests.
type Counters[S any] struct {
	Base[S]
	order int

	mu      sync.Mutex
	before  int64
	after   int64
	failed  int64
	blocked int64
}

// NewCounters creates a counting interceptor at the given order.
func NewCounters[S any](order int) *Counters[S] {
	return &Counters[S]{order: order}
}

// Name implements Interceptor.
func (c *Counters[S]) Name() string { return "Counters" }

// Order implements Interceptor.
func (c *Counters[S]) Order() int { return c.order }

// OnBefore implements Interceptor.
func (c *Counters[S]) OnBefore(context.Context, types.Intent, types.Context, S, string) error {
	c.mu.Lock()
	c.before++
	c.mu.Unlock()
	return nil
}

// OnAfter implements Interceptor.
func (c *Counters[S]) OnAfter(context.Context, types.Intent, types.Context, S, S, types.ChangeSet, string) error {
	c.mu.Lock()
	c.after++
	c.mu.Unlock()
	return nil
}

// OnFailed implements Interceptor.
func (c *Counters[S]) OnFailed(context.Context, types.Intent, types.Context, S, error, string) error {
	c.mu.Lock()
	c.failed++
	c.mu.Unlock()
	return nil
}

// OnPolicyBlocked implements Interceptor.
func (c *Counters[S]) OnPolicyBlocked(context.Context, types.Intent, types.Context, S, types.PolicyDecision, string) error {
	c.mu.Lock()
	c.blocked++
	c.mu.Unlock()
	return nil
}

// Snapshot returns the counters (before, after, failed, blocked).
func (c *Counters[S]) Snapshot() (before, after, failed, blocked int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.before, c.after, c.failed, c.blocked
}
