package engine

import (
	"context"
	"testing"

	"github.com/wardenlabs/warden/policy"
	"github.com/wardenlabs/warden/types"
)

// denyFlag denies mutations whose intent targets the given flag.
func denyFlag(flag string) policy.Policy[flagState] {
	return policy.Func[flagState]{
		PolicyName:     "deny-" + flag,
		PolicyPriority: 100,
		EvaluateFunc: func(m types.Mutation[flagState], _ flagState) types.PolicyDecision {
			if m.Intent().Metadata["flag"] == flag {
				return types.Deny("deny-"+flag, "flag is frozen")
			}
			return types.Allow()
		},
	}
}

func TestExecuteBatch_MiddleFailureContinues(t *testing.T) {
	e := newTestEngine(t, DefaultOptions())
	if err := e.RegisterPolicy(denyFlag("B")); err != nil {
		t.Fatal(err)
	}

	mctx := commitCtx("alice")
	mutations := []types.Mutation[flagState]{
		enable("A", mctx),
		enable("B", mctx),
		enable("C", mctx),
	}

	batch, err := e.ExecuteBatch(context.Background(), mutations, flagState{ID: "S", Flags: map[string]bool{}})
	if err != nil {
		t.Fatalf("ExecuteBatch: %v", err)
	}

	if len(batch.Results) != 3 {
		t.Fatalf("results len = %d, want 3", len(batch.Results))
	}
	if batch.Success {
		t.Error("batch with a failure reported success")
	}
	if batch.SuccessCount != 2 || batch.FailureCount != 1 {
		t.Errorf("counts = %d, %d, want 2, 1", batch.SuccessCount, batch.FailureCount)
	}

	final := batch.FinalState.Flags
	if !final["A"] || final["B"] || !final["C"] {
		t.Errorf("final flags = %v", final)
	}

	// Aggregated change-set: exactly A's and C's changes, in order.
	changes := batch.Changes.Changes()
	if len(changes) != 2 {
		t.Fatalf("aggregated changes len = %d, want 2", len(changes))
	}
	if changes[0].Path != "flags.A" || changes[1].Path != "flags.C" {
		t.Errorf("aggregated paths = %s, %s", changes[0].Path, changes[1].Path)
	}
}

func TestExecuteBatch_ThreadsState(t *testing.T) {
	e := newTestEngine(t, DefaultOptions())
	mctx := commitCtx("alice")

	batch, err := e.ExecuteBatch(context.Background(), []types.Mutation[flagState]{
		enable("A", mctx),
		disable("A", mctx),
	}, flagState{ID: "S", Flags: map[string]bool{}})
	if err != nil {
		t.Fatalf("ExecuteBatch: %v", err)
	}

	if !batch.Success {
		t.Fatal("batch failed")
	}
	if batch.FinalState.Flags["A"] {
		t.Error("second mutation did not see the first one's state")
	}
	// The second change observed the first one's effect.
	second := batch.Results[1].Changes.Changes()[0]
	if second.Before != true || second.After != false {
		t.Errorf("second change = %+v", second)
	}
}

func TestExecuteBatch_Empty(t *testing.T) {
	e := newTestEngine(t, DefaultOptions())
	state := initialState()

	batch, err := e.ExecuteBatch(context.Background(), nil, state)
	if err != nil {
		t.Fatalf("ExecuteBatch: %v", err)
	}
	if !batch.Success {
		t.Error("empty batch should succeed")
	}
	if len(batch.Results) != 0 {
		t.Errorf("results len = %d, want 0", len(batch.Results))
	}
	if batch.Changes.Len() != 0 {
		t.Error("empty batch should have no changes")
	}
	if batch.FinalState.Flags["NewCheckout"] != state.Flags["NewCheckout"] {
		t.Error("empty batch changed the state")
	}
}

func TestExecuteBatch_StopOnFirstFailure(t *testing.T) {
	e := newTestEngine(t, Options{StopBatchOnFirstFailure: true})
	if err := e.RegisterPolicy(denyFlag("B")); err != nil {
		t.Fatal(err)
	}

	mctx := commitCtx("alice")
	batch, err := e.ExecuteBatch(context.Background(), []types.Mutation[flagState]{
		enable("A", mctx),
		enable("B", mctx),
		enable("C", mctx),
	}, flagState{ID: "S", Flags: map[string]bool{}})
	if err != nil {
		t.Fatalf("ExecuteBatch: %v", err)
	}

	if len(batch.Results) != 2 {
		t.Fatalf("results len = %d, want 2 (short-circuit)", len(batch.Results))
	}
	if batch.FinalState.Flags["C"] {
		t.Error("mutation after the failure still ran")
	}
}

func TestExecuteBatch_CancellationBetweenIterations(t *testing.T) {
	e := newTestEngine(t, DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())

	mctx := commitCtx("alice")
	first := enable("A", mctx)
	// Cancel while the first mutation applies; the second iteration
	// observes it and the batch aborts.
	first.onApply = cancel

	batch, err := e.ExecuteBatch(ctx, []types.Mutation[flagState]{
		first,
		enable("B", mctx),
	}, flagState{ID: "S", Flags: map[string]bool{}})
	if err != nil {
		t.Fatalf("ExecuteBatch: %v", err)
	}

	if len(batch.Results) != 1 {
		t.Fatalf("results len = %d, want 1", len(batch.Results))
	}
	if !batch.Canceled {
		t.Error("batch not marked canceled")
	}
	// The in-flight first mutation ran to completion.
	if !batch.FinalState.Flags["A"] {
		t.Error("first mutation result lost")
	}
	if batch.FinalState.Flags["B"] {
		t.Error("second mutation ran after cancellation")
	}
}

func TestExecuteBatch_RaisedErrorPropagates(t *testing.T) {
	e := newTestEngine(t, DefaultOptions())
	mctx := commitCtx("alice")
	bad := enable("B", mctx)
	bad.applyErr = errTestBoom

	batch, err := e.ExecuteBatch(context.Background(), []types.Mutation[flagState]{
		enable("A", mctx),
		bad,
		enable("C", mctx),
	}, flagState{ID: "S", Flags: map[string]bool{}})
	if err == nil {
		t.Fatal("raised error swallowed by batch")
	}
	if batch == nil {
		t.Fatal("partial batch missing")
	}
	if len(batch.Results) != 1 {
		t.Errorf("partial results len = %d, want 1", len(batch.Results))
	}
	if !batch.FinalState.Flags["A"] {
		t.Error("partial final state missing first mutation")
	}
}
