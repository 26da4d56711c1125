package interceptor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wardenlabs/warden/types"
)

type testState struct {
	value int
}

// recorder appends its name to a shared trace on every hook.
type recorder struct {
	Base[testState]
	name      string
	order     int
	trace     *[]string
	runFilter func(types.Intent, types.Context) bool
	beforeErr error
}

func (r *recorder) Name() string { return r.name }
func (r *recorder) Order() int   { return r.order }

func (r *recorder) ShouldRun(intent types.Intent, mctx types.Context) bool {
	if r.runFilter != nil {
		return r.runFilter(intent, mctx)
	}
	return true
}

func (r *recorder) OnBefore(_ context.Context, _ types.Intent, _ types.Context, _ testState, _ string) error {
	*r.trace = append(*r.trace, r.name+":before")
	return r.beforeErr
}

func (r *recorder) OnAfter(_ context.Context, _ types.Intent, _ types.Context, _, _ testState, _ types.ChangeSet, _ string) error {
	*r.trace = append(*r.trace, r.name+":after")
	return nil
}

func (r *recorder) OnFailed(_ context.Context, _ types.Intent, _ types.Context, _ testState, _ error, _ string) error {
	*r.trace = append(*r.trace, r.name+":failed")
	return nil
}

func (r *recorder) OnPolicyBlocked(_ context.Context, _ types.Intent, _ types.Context, _ testState, _ types.PolicyDecision, _ string) error {
	*r.trace = append(*r.trace, r.name+":blocked")
	return nil
}

func TestPipeline_AscendingOrder(t *testing.T) {
	var trace []string
	p := NewPipeline[testState]()
	mustRegister(t, p, &recorder{name: "third", order: 30, trace: &trace})
	mustRegister(t, p, &recorder{name: "first", order: 10, trace: &trace})
	mustRegister(t, p, &recorder{name: "second", order: 20, trace: &trace})

	if err := p.OnBefore(context.Background(), types.Intent{}, types.Context{}, testState{}, "x-1"); err != nil {
		t.Fatalf("OnBefore: %v", err)
	}

	want := []string{"first:before", "second:before", "third:before"}
	assertTrace(t, trace, want)
}

func TestPipeline_EqualOrderKeepsRegistrationOrder(t *testing.T) {
	var trace []string
	p := NewPipeline[testState]()
	mustRegister(t, p, &recorder{name: "a", order: 5, trace: &trace})
	mustRegister(t, p, &recorder{name: "b", order: 5, trace: &trace})
	mustRegister(t, p, &recorder{name: "c", order: 5, trace: &trace})

	if err := p.OnAfter(context.Background(), types.Intent{}, types.Context{}, testState{}, testState{}, types.NewChangeSet(), "x-1"); err != nil {
		t.Fatalf("OnAfter: %v", err)
	}

	assertTrace(t, trace, []string{"a:after", "b:after", "c:after"})
}

func TestPipeline_ShouldRunFilters(t *testing.T) {
	var trace []string
	p := NewPipeline[testState]()
	mustRegister(t, p, &recorder{name: "always", order: 1, trace: &trace})
	mustRegister(t, p, &recorder{
		name: "commit-only", order: 2, trace: &trace,
		runFilter: func(_ types.Intent, mctx types.Context) bool {
			return mctx.Mode == types.ModeCommit
		},
	})

	mctx := types.Context{Mode: types.ModeSimulate}
	if err := p.OnBefore(context.Background(), types.Intent{}, mctx, testState{}, "x-1"); err != nil {
		t.Fatalf("OnBefore: %v", err)
	}

	assertTrace(t, trace, []string{"always:before"})
}

func TestPipeline_HookErrorPropagatesAndStops(t *testing.T) {
	var trace []string
	boom := errors.New("boom")
	p := NewPipeline[testState]()
	mustRegister(t, p, &recorder{name: "ok", order: 1, trace: &trace})
	mustRegister(t, p, &recorder{name: "bad", order: 2, trace: &trace, beforeErr: boom})
	mustRegister(t, p, &recorder{name: "unreached", order: 3, trace: &trace})

	err := p.OnBefore(context.Background(), types.Intent{}, types.Context{}, testState{}, "x-1")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
	if !strings.Contains(err.Error(), `"bad"`) {
		t.Errorf("error should name the interceptor: %v", err)
	}

	assertTrace(t, trace, []string{"ok:before", "bad:before"})
}

func TestPipeline_Unregister(t *testing.T) {
	var trace []string
	p := NewPipeline[testState]()
	mustRegister(t, p, &recorder{name: "a", order: 1, trace: &trace})
	mustRegister(t, p, &recorder{name: "b", order: 2, trace: &trace})

	if !p.Unregister("a") {
		t.Error("Unregister(a) = false")
	}
	if p.Unregister("a") {
		t.Error("second Unregister(a) = true")
	}
	if p.Len() != 1 {
		t.Errorf("Len = %d, want 1", p.Len())
	}

	if err := p.OnPolicyBlocked(context.Background(), types.Intent{}, types.Context{}, testState{}, types.Deny("p", "r"), "x-1"); err != nil {
		t.Fatalf("OnPolicyBlocked: %v", err)
	}
	assertTrace(t, trace, []string{"b:blocked"})
}

func TestPipeline_DuplicateNameRejected(t *testing.T) {
	var trace []string
	p := NewPipeline[testState]()
	mustRegister(t, p, &recorder{name: "dup", order: 1, trace: &trace})
	if err := p.Register(&recorder{name: "dup", order: 2, trace: &trace}); err == nil {
		t.Error("duplicate name accepted")
	}
}

func TestBase_IsNoOp(t *testing.T) {
	var b Base[testState]
	if !b.ShouldRun(types.Intent{}, types.Context{}) {
		t.Error("Base should always participate")
	}
	if err := b.OnBefore(context.Background(), types.Intent{}, types.Context{}, testState{}, "x"); err != nil {
		t.Errorf("OnBefore: %v", err)
	}
	if err := b.OnAfter(context.Background(), types.Intent{}, types.Context{}, testState{}, testState{}, types.NewChangeSet(), "x"); err != nil {
		t.Errorf("OnAfter: %v", err)
	}
	if err := b.OnFailed(context.Background(), types.Intent{}, types.Context{}, testState{}, nil, "x"); err != nil {
		t.Errorf("OnFailed: %v", err)
	}
	if err := b.OnPolicyBlocked(context.Background(), types.Intent{}, types.Context{}, testState{}, types.PolicyDecision{}, "x"); err != nil {
		t.Errorf("OnPolicyBlocked: %v", err)
	}
}

func TestCounters(t *testing.T) {
	c := NewCounters[testState](1)
	_ = c.OnBefore(context.Background(), types.Intent{}, types.Context{}, testState{}, "x")
	_ = c.OnBefore(context.Background(), types.Intent{}, types.Context{}, testState{}, "y")
	_ = c.OnAfter(context.Background(), types.Intent{}, types.Context{}, testState{}, testState{}, types.NewChangeSet(), "x")
	_ = c.OnFailed(context.Background(), types.Intent{}, types.Context{}, testState{}, nil, "y")
	_ = c.OnPolicyBlocked(context.Background(), types.Intent{}, types.Context{}, testState{}, types.PolicyDecision{}, "z")

	before, after, failed, blocked := c.Snapshot()
	if before != 2 || after != 1 || failed != 1 || blocked != 1 {
		t.Errorf("counters = %d, %d, %d, %d", before, after, failed, blocked)
	}
}

func assertTrace(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("trace = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("trace[%d] = %s, want %s (full: %v)", i, got[i], want[i], got)
		}
	}
}

func mustRegister(t *testing.T, p *Pipeline[testState], i Interceptor[testState]) {
	t.Helper()
	if err := p.Register(i); err != nil {
		t.Fatalf("register %s: %v", i.Name(), err)
	}
}
