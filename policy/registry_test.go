package policy

import (
	"fmt"
	"sync"
	"testing"

	"github.com/wardenlabs/warden/types"
)

// testState is a minimal governed state for policy tests.
type testState struct {
	value int
}

// testMutation is a fixed-intent mutation for policy tests.
type testMutation struct {
	intent types.Intent
	mctx   types.Context
}

func (m testMutation) Intent() types.Intent   { return m.intent }
func (m testMutation) Context() types.Context { return m.mctx }
func (m testMutation) Validate(testState) types.ValidationResult {
	return types.Valid()
}
func (m testMutation) Simulate(s testState) (*types.Result[testState], error) {
	return types.NewSuccess(s, types.NewChangeSet()), nil
}
func (m testMutation) Apply(s testState) (*types.Result[testState], error) {
	return types.NewSuccess(s, types.NewChangeSet()), nil
}

func allowPolicy(name string, priority int) Policy[testState] {
	return Func[testState]{
		PolicyName:     name,
		PolicyPriority: priority,
		EvaluateFunc: func(types.Mutation[testState], testState) types.PolicyDecision {
			return types.Allow()
		},
	}
}

func denyPolicy(name string, priority int) Policy[testState] {
	return Func[testState]{
		PolicyName:     name,
		PolicyPriority: priority,
		EvaluateFunc: func(types.Mutation[testState], testState) types.PolicyDecision {
			return types.Deny(name, "denied by "+name)
		},
	}
}

func TestRegistry_OrderingByPriority(t *testing.T) {
	r := NewRegistry[testState]()
	mustRegister(t, r, allowPolicy("low", 10))
	mustRegister(t, r, allowPolicy("high", 100))
	mustRegister(t, r, allowPolicy("mid", 50))

	got := r.Policies()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Name() != "high" || got[1].Name() != "mid" || got[2].Name() != "low" {
		t.Errorf("order = %s, %s, %s", got[0].Name(), got[1].Name(), got[2].Name())
	}
}

func TestRegistry_EqualPriorityKeepsRegistrationOrder(t *testing.T) {
	r := NewRegistry[testState]()
	mustRegister(t, r, allowPolicy("first", 50))
	mustRegister(t, r, allowPolicy("second", 50))
	mustRegister(t, r, allowPolicy("third", 50))

	got := r.Policies()
	if got[0].Name() != "first" || got[1].Name() != "second" || got[2].Name() != "third" {
		t.Errorf("tie-break order = %s, %s, %s", got[0].Name(), got[1].Name(), got[2].Name())
	}
}

func TestRegistry_DuplicateNameRejected(t *testing.T) {
	r := NewRegistry[testState]()
	mustRegister(t, r, allowPolicy("dup", 1))
	if err := r.Register(allowPolicy("dup", 2)); err == nil {
		t.Error("duplicate name accepted")
	}
}

func TestRegistry_EmptyNameRejected(t *testing.T) {
	r := NewRegistry[testState]()
	if err := r.Register(allowPolicy("", 1)); err == nil {
		t.Error("empty name accepted")
	}
}

func TestRegistry_Unregister(t *testing.T) {
	r := NewRegistry[testState]()
	mustRegister(t, r, allowPolicy("a", 1))
	mustRegister(t, r, allowPolicy("b", 2))

	if !r.Unregister("a") {
		t.Error("Unregister(a) = false, want true")
	}
	if r.Unregister("a") {
		t.Error("second Unregister(a) = true, want false")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
	if _, ok := r.Get("a"); ok {
		t.Error("a still present after unregister")
	}
	if _, ok := r.Get("b"); !ok {
		t.Error("b missing")
	}
}

func TestRegistry_SnapshotIsolation(t *testing.T) {
	r := NewRegistry[testState]()
	mustRegister(t, r, allowPolicy("a", 1))

	snap := r.Policies()
	mustRegister(t, r, allowPolicy("b", 2))

	if len(snap) != 1 {
		t.Errorf("snapshot grew after registration: len = %d", len(snap))
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry[testState]()
	const goroutines = 8

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		g := g
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				name := fmt.Sprintf("p-%d-%d", g, i)
				_ = r.Register(allowPolicy(name, i))
				_ = r.Policies()
				_, _ = r.Get(name)
			}
		}()
	}
	wg.Wait()

	if r.Len() != goroutines*100 {
		t.Errorf("Len = %d, want %d", r.Len(), goroutines*100)
	}
}

func mustRegister(t *testing.T, r *Registry[testState], p Policy[testState]) {
	t.Helper()
	if err := r.Register(p); err != nil {
		t.Fatalf("register %s: %v", p.Name(), err)
	}
}
