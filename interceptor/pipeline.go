package interceptor

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/wardenlabs/warden/types"
)

// Pipeline holds interceptors sorted by order.
//
// Thread-safe. Each lifecycle event takes a snapshot before invoking
// hooks, so registrations made mid-execution are invisible to the
// current call. Hooks run sequentially in snapshot order; the first
// hook error aborts the event and propagates.
type Pipeline[S any] struct {
	mu           sync.RWMutex
	interceptors []Interceptor[S]
	seq          int
	order        map[string]int // name -> registration sequence for tie-breaks
}

// NewPipeline creates an empty pipeline.
func NewPipeline[S any]() *Pipeline[S] {
	return &Pipeline[S]{order: make(map[string]int)}
}

// Register adds an interceptor and re-sorts the pipeline.
// Returns an error if an interceptor with the same name is registered.
func (p *Pipeline[S]) Register(i Interceptor[S]) error {
	if i.Name() == "" {
		return fmt.Errorf("interceptor name must be non-empty")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, existing := range p.interceptors {
		if existing.Name() == i.Name() {
			return fmt.Errorf("interceptor %q already registered", i.Name())
		}
	}

	p.order[i.Name()] = p.seq
	p.seq++
	p.interceptors = append(p.interceptors, i)

	// Keep sorted: ascending order, registration order on ties.
	sort.SliceStable(p.interceptors, func(a, b int) bool {
		ia, ib := p.interceptors[a], p.interceptors[b]
		if ia.Order() != ib.Order() {
			return ia.Order() < ib.Order()
		}
		return p.order[ia.Name()] < p.order[ib.Name()]
	})
	return nil
}

// Unregister removes the named interceptor. Returns true if it was present.
func (p *Pipeline[S]) Unregister(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, it := range p.interceptors {
		if it.Name() == name {
			p.interceptors = append(p.interceptors[:i], p.interceptors[i+1:]...)
			delete(p.order, name)
			return true
		}
	}
	return false
}

// Len returns the number of registered interceptors.
func (p *Pipeline[S]) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.interceptors)
}

// snapshot returns the interceptors participating in an event for the
// given intent and context, in pipeline order.
func (p *Pipeline[S]) snapshot(intent types.Intent, mctx types.Context) []Interceptor[S] {
	p.mu.RLock()
	all := make([]Interceptor[S], len(p.interceptors))
	copy(all, p.interceptors)
	p.mu.RUnlock()

	// Filter outside the lock; ShouldRun is caller code.
	var out []Interceptor[S]
	for _, i := range all {
		if i.ShouldRun(intent, mctx) {
			out = append(out, i)
		}
	}
	return out
}

// OnBefore invokes the before hooks in order.
func (p *Pipeline[S]) OnBefore(ctx context.Context, intent types.Intent, mctx types.Context, state S, executionID string) error {
	for _, i := range p.snapshot(intent, mctx) {
		if err := i.OnBefore(ctx, intent, mctx, state, executionID); err != nil {
			return fmt.Errorf("interceptor %q before: %w", i.Name(), err)
		}
	}
	return nil
}

// OnAfter invokes the after hooks in order.
func (p *Pipeline[S]) OnAfter(ctx context.Context, intent types.Intent, mctx types.Context, oldState, newState S, changes types.ChangeSet, executionID string) error {
	for _, i := range p.snapshot(intent, mctx) {
		if err := i.OnAfter(ctx, intent, mctx, oldState, newState, changes, executionID); err != nil {
			return fmt.Errorf("interceptor %q after: %w", i.Name(), err)
		}
	}
	return nil
}

// OnFailed invokes the failure hooks in order.
func (p *Pipeline[S]) OnFailed(ctx context.Context, intent types.Intent, mctx types.Context, state S, cause error, executionID string) error {
	for _, i := range p.snapshot(intent, mctx) {
		if err := i.OnFailed(ctx, intent, mctx, state, cause, executionID); err != nil {
			return fmt.Errorf("interceptor %q failed-hook: %w", i.Name(), err)
		}
	}
	return nil
}

// OnPolicyBlocked invokes the policy-block hooks in order.
func (p *Pipeline[S]) OnPolicyBlocked(ctx context.Context, intent types.Intent, mctx types.Context, state S, decision types.PolicyDecision, executionID string) error {
	for _, i := range p.snapshot(intent, mctx) {
		if err := i.OnPolicyBlocked(ctx, intent, mctx, state, decision, executionID); err != nil {
			return fmt.Errorf("interceptor %q policy-blocked: %w", i.Name(), err)
		}
	}
	return nil
}
