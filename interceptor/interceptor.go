// Package interceptor defines cross-cutting mutation observers.
//
// Interceptors are named, ordered hooks invoked on mutation lifecycle
// events. They observe; they must not mutate state or alter mutation
// outcomes. A hook returning an error aborts the execution and the
// error propagates to the caller.
package interceptor

import (
	"context"

	"github.com/wardenlabs/warden/types"
)

// Interceptor observes mutation lifecycle events for state type S.
//
// Lower order runs first; interceptors registered earlier win ties.
// Hooks run sequentially within one execution and are never
// parallelized. Hooks see the old/new state pair supplied by the
// engine; no hook sees another hook's effects.
type Interceptor[S any] interface {
	// Name is the unique interceptor name within a pipeline.
	Name() string

	// Order positions the interceptor. Lower order runs first.
	Order() int

	// ShouldRun filters participation per lifecycle event. An
	// interceptor participates iff this returns true for the
	// mutation's intent and context.
	ShouldRun(intent types.Intent, mctx types.Context) bool

	// OnBefore runs before policy evaluation.
	OnBefore(ctx context.Context, intent types.Intent, mctx types.Context, state S, executionID string) error

	// OnAfter runs after a successful apply.
	OnAfter(ctx context.Context, intent types.Intent, mctx types.Context, oldState, newState S, changes types.ChangeSet, executionID string) error

	// OnFailed runs when execution fails with an error or invalid
	// validation. It also runs when an OnAfter or OnPolicyBlocked hook
	// returns an error, after that hook.
	OnFailed(ctx context.Context, intent types.Intent, mctx types.Context, state S, cause error, executionID string) error

	// OnPolicyBlocked runs when the effective policy decision denies.
	// Mutually exclusive with OnAfter.
	OnPolicyBlocked(ctx context.Context, intent types.Intent, mctx types.Context, state S, decision types.PolicyDecision, executionID string) error
}

// Base is a no-op Interceptor for embedding. Implementations embed
// Base and override the hooks they care about.
type Base[S any] struct{}

// ShouldRun implements Interceptor. Always participates.
func (Base[S]) ShouldRun(types.Intent, types.Context) bool { return true }

// OnBefore implements Interceptor.
func (Base[S]) OnBefore(context.Context, types.Intent, types.Context, S, string) error {
	return nil
}

// OnAfter implements Interceptor.
func (Base[S]) OnAfter(context.Context, types.Intent, types.Context, S, S, types.ChangeSet, string) error {
	return nil
}

// OnFailed implements Interceptor.
func (Base[S]) OnFailed(context.Context, types.Intent, types.Context, S, error, string) error {
	return nil
}

// OnPolicyBlocked implements Interceptor.
func (Base[S]) OnPolicyBlocked(context.Context, types.Intent, types.Context, S, types.PolicyDecision, string) error {
	return nil
}
