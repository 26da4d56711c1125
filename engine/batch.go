package engine

import (
	"context"
	"time"

	"github.com/wardenlabs/warden/types"
)

// BatchResult aggregates the outcomes of a sequential batch execution.
type BatchResult[S any] struct {
	// Results holds one result per executed mutation, in order.
	Results []*types.Result[S]
	// Success is true when every executed mutation succeeded.
	Success bool
	// FinalState is the state after the last successful mutation. When
	// mutations fail, it reflects the successful ones only.
	FinalState S
	// Changes is the ordered concatenation of the successful
	// per-mutation change-sets.
	Changes types.ChangeSet
	// SuccessCount and FailureCount partition the executed results.
	SuccessCount int
	FailureCount int
	// Canceled is true when outer cancellation aborted the batch
	// between iterations.
	Canceled bool
	// TotalExecutionTime is the batch wall-clock time.
	TotalExecutionTime time.Duration
}

// ExecuteBatch runs the mutations in order, threading the state:
// each mutation executes against the state produced by the last
// successful one.
//
// Failed results (validation failures, policy denials) are appended
// and, unless StopBatchOnFirstFailure is set, the batch continues with
// the unchanged current state. Raised errors (timeout, cancellation,
// execution exceptions) propagate immediately alongside the partial
// batch. Outer cancellation between iterations aborts the loop;
// in-flight executions run to their own cancellation check.
//
// An empty batch succeeds with the input state and an empty change-set.
func (e *Engine[S]) ExecuteBatch(ctx context.Context, mutations []types.Mutation[S], state S) (*BatchResult[S], error) {
	start := time.Now()
	batch := &BatchResult[S]{FinalState: state}

	current := state
	for _, m := range mutations {
		if ctx.Err() != nil {
			batch.Canceled = true
			break
		}

		result, err := e.ExecuteSingle(ctx, m, current)
		if err != nil {
			batch.FailureCount++
			batch.Success = false
			batch.FinalState = current
			batch.TotalExecutionTime = time.Since(start)
			return batch, err
		}

		batch.Results = append(batch.Results, result)
		if result.Success {
			batch.SuccessCount++
			current = result.NewState
			batch.Changes.Merge(result.Changes)
		} else {
			batch.FailureCount++
			if e.opts.StopBatchOnFirstFailure {
				break
			}
		}
	}

	batch.Success = batch.FailureCount == 0
	batch.FinalState = current
	batch.TotalExecutionTime = time.Since(start)
	return batch, nil
}
