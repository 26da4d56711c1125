package cmd

import (
	"testing"

	"github.com/wardenlabs/warden/types"
)

func TestApplyChanges_SetAndRemove(t *testing.T) {
	initial := map[string]any{
		"flags": map[string]any{"A": false, "B": true},
	}

	out := ApplyChanges(initial, []types.StateChange{
		{Path: "flags.A", After: true, Kind: types.ChangeModified},
		{Path: "flags.C", After: true, Kind: types.ChangeAdded},
		{Path: "flags.B", Kind: types.ChangeRemoved},
	})

	flags := out["flags"].(map[string]any)
	if flags["A"] != true {
		t.Errorf("A = %v", flags["A"])
	}
	if flags["C"] != true {
		t.Errorf("C = %v", flags["C"])
	}
	if _, ok := flags["B"]; ok {
		t.Error("B not removed")
	}

	// The input map is untouched.
	origFlags := initial["flags"].(map[string]any)
	if origFlags["A"] != false {
		t.Error("input map mutated")
	}
	if _, ok := origFlags["B"]; !ok {
		t.Error("input map mutated by removal")
	}
}

func TestApplyChanges_CreatesIntermediateMaps(t *testing.T) {
	out := ApplyChanges(map[string]any{}, []types.StateChange{
		{Path: "limits.requests.max", After: 100, Kind: types.ChangeAdded},
	})

	limits, ok := out["limits"].(map[string]any)
	if !ok {
		t.Fatal("limits map missing")
	}
	requests, ok := limits["requests"].(map[string]any)
	if !ok {
		t.Fatal("requests map missing")
	}
	if requests["max"] != 100 {
		t.Errorf("max = %v", requests["max"])
	}
}

func TestApplyChanges_RemoveMissingPathIsNoOp(t *testing.T) {
	out := ApplyChanges(map[string]any{"flags": map[string]any{}}, []types.StateChange{
		{Path: "limits.requests.max", Kind: types.ChangeRemoved},
	})
	if _, ok := out["limits"]; ok {
		t.Error("removal created intermediate maps")
	}
}
