package engine

import (
	"context"
	"time"

	"github.com/wardenlabs/warden/types"
)

// ExecutionContext carries per-execution identity and bounds into the
// executor. Created fresh per ExecuteSingle call and discarded on
// return.
type ExecutionContext struct {
	// ExecutionID is the engine-generated identifier of the attempt.
	ExecutionID string
	// StartedAt is when the execution opened.
	StartedAt time.Time
	// Timeout bounds the apply phase. Zero means unbounded.
	Timeout time.Duration
}

// Elapsed returns the time since the execution opened.
func (c *ExecutionContext) Elapsed() time.Duration {
	return time.Since(c.StartedAt)
}

// IsTimedOut reports whether the elapsed time exceeds the timeout.
// Always false when no timeout is configured.
func (c *ExecutionContext) IsTimedOut() bool {
	return c.Timeout > 0 && c.Elapsed() > c.Timeout
}

// Executor is the low-level applier of a single mutation.
//
// It enforces the execution timeout and cooperative cancellation and
// nothing else: no policy checks, no validation, no auditing. It is
// the sole place where timeout and cancellation are translated into
// errors during apply.
type Executor[S any] struct{}

// NewExecutor creates an executor.
func NewExecutor[S any]() *Executor[S] {
	return &Executor[S]{}
}

// Execute applies the mutation to the state.
//
// The timeout is checked before apply starts and again after it
// returns; apply itself always runs to completion (the apply contract
// is pure and synchronous, so an over-budget result is discarded, not
// abandoned mid-flight). Cancellation is checked before apply.
func (e *Executor[S]) Execute(ctx context.Context, mutation types.Mutation[S], state S, execCtx *ExecutionContext) (*types.Result[S], error) {
	if execCtx.IsTimedOut() {
		return nil, &TimeoutError{
			Configured: execCtx.Timeout,
			Elapsed:    execCtx.Elapsed(),
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := mutation.Apply(state)
	if err != nil {
		return nil, err
	}

	if execCtx.IsTimedOut() {
		return nil, &TimeoutError{
			Configured: execCtx.Timeout,
			Elapsed:    execCtx.Elapsed(),
		}
	}

	return result, nil
}
