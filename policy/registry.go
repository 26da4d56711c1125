package policy

import (
	"fmt"
	"sort"
	"sync"
)

// Registry stores policies for one state type.
//
// Thread-safe. Registration order is preserved so that policies with
// equal priority evaluate deterministically in the order they were
// registered.
type Registry[S any] struct {
	mu       sync.RWMutex
	policies []Policy[S]
}

// NewRegistry creates an empty registry.
func NewRegistry[S any]() *Registry[S] {
	return &Registry[S]{}
}

// Register adds a policy. Returns an error if a policy with the same
// name is already registered.
func (r *Registry[S]) Register(p Policy[S]) error {
	if p.Name() == "" {
		return fmt.Errorf("policy name must be non-empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.policies {
		if existing.Name() == p.Name() {
			return fmt.Errorf("policy %q already registered", p.Name())
		}
	}
	r.policies = append(r.policies, p)
	return nil
}

// Unregister removes the named policy. Returns true if it was present.
func (r *Registry[S]) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.policies {
		if p.Name() == name {
			r.policies = append(r.policies[:i], r.policies[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the named policy.
func (r *Registry[S]) Get(name string) (Policy[S], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.policies {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// Policies returns a snapshot of registered policies sorted for
// evaluation: descending priority, registration order on ties.
func (r *Registry[S]) Policies() []Policy[S] {
	r.mu.RLock()
	snapshot := make([]Policy[S], len(r.policies))
	copy(snapshot, r.policies)
	r.mu.RUnlock()

	// Stable sort preserves registration order within equal priority.
	sort.SliceStable(snapshot, func(i, j int) bool {
		return snapshot[i].Priority() > snapshot[j].Priority()
	})
	return snapshot
}

// Len returns the number of registered policies.
func (r *Registry[S]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.policies)
}

// Clear removes all policies. Intended for test harnesses; production
// paths never clear a registry.
func (r *Registry[S]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.policies = nil
}
