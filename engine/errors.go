// Package engine orchestrates the mutation governance pipeline:
// interceptors, policy evaluation, validation, apply, audit, history,
// and metrics.
//
// This file defines the engine error taxonomy. Validation failures and
// policy denials are never raised; they come back as structured
// results. Timeouts, cancellations, and execution exceptions are
// raised, and every path — recovered or raised — produces an audit
// entry.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for failure classification.
// Use errors.Is(err, ErrXxx) for typed assertions.
var (
	// ErrTimeout indicates the apply phase exceeded the configured bound.
	ErrTimeout = errors.New("execution timed out")

	// ErrNilMutation indicates a nil mutation was submitted.
	ErrNilMutation = errors.New("mutation must be non-nil")
)

// TimeoutError reports an apply-phase timeout with the configured
// bound and the observed elapsed time.
type TimeoutError struct {
	// Configured is the execution timeout from the engine options.
	Configured time.Duration
	// Elapsed is the observed elapsed time at the check-point.
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("execution timed out after %v (configured %v)", e.Elapsed, e.Configured)
}

// Is reports whether the error matches ErrTimeout.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// ExecutionError wraps an exception raised during the pipeline with
// the execution id that produced it. It preserves the original error
// in the chain for inspection via errors.Is/As.
type ExecutionError struct {
	// ExecutionID is the engine-generated identifier of the attempt.
	ExecutionID string
	// Op is the pipeline phase that failed (e.g. "apply", "before-hook").
	Op string
	// Err is the underlying error.
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution %s: %s: %v", e.ExecutionID, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// IsCancellation returns true for cooperative cancellation errors.
// Cancellation is propagated without wrapping.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
