package history

import (
	"time"

	"github.com/wardenlabs/warden/types"
)

// History is a chronological view of one state's committed mutations.
// Views are finite materialized sequences, not restartable streams;
// each store query produces a fresh History.
type History struct {
	// StateID identifies the governed entity.
	StateID string
	// Entries are ascending by timestamp.
	Entries []types.HistoryEntry
}

// Len returns the number of entries.
func (h History) Len() int { return len(h.Entries) }

// IsEmpty returns true when the history has no entries.
func (h History) IsEmpty() bool { return len(h.Entries) == 0 }

// TimelinePoint is one change observation in a path timeline.
type TimelinePoint struct {
	// Timestamp is when the owning mutation committed.
	Timestamp time.Time `json:"timestamp"`
	// Change is the observed delta.
	Change types.StateChange `json:"change"`
	// ExecutionID identifies the owning execution.
	ExecutionID string `json:"execution_id"`
	// ActorID identifies who initiated the mutation.
	ActorID string `json:"actor_id"`
	// Reason is the stated justification.
	Reason string `json:"reason,omitempty"`
}

// TimelineForPath returns the chronological sequence of changes at or
// under the given dotted path.
func (h History) TimelineForPath(path string) []TimelinePoint {
	var out []TimelinePoint
	for _, e := range h.Entries {
		for _, c := range e.Changes {
			if !types.PathTouches(c.Path, path) {
				continue
			}
			out = append(out, TimelinePoint{
				Timestamp:   e.Timestamp,
				Change:      c,
				ExecutionID: e.ExecutionID,
				ActorID:     e.Context.Actor.ID,
				Reason:      e.Context.Reason,
			})
		}
	}
	return out
}

// Stats summarizes a history.
type Stats struct {
	// TotalMutations is the number of committed mutations.
	TotalMutations int `json:"total_mutations"`
	// UniqueActors is the number of distinct initiating actor ids.
	UniqueActors int `json:"unique_actors"`
	// MutationsByCategory counts mutations per intent category.
	MutationsByCategory map[string]int `json:"mutations_by_category"`
	// AverageChangesPerMutation is the mean change-set size.
	AverageChangesPerMutation float64 `json:"average_changes_per_mutation"`
}

// Statistics computes summary statistics over the history.
func (h History) Statistics() Stats {
	stats := Stats{MutationsByCategory: make(map[string]int)}

	actors := make(map[string]bool)
	totalChanges := 0
	for _, e := range h.Entries {
		stats.TotalMutations++
		actors[e.Context.Actor.ID] = true
		stats.MutationsByCategory[e.Intent.Category]++
		totalChanges += len(e.Changes)
	}
	stats.UniqueActors = len(actors)
	if stats.TotalMutations > 0 {
		stats.AverageChangesPerMutation = float64(totalChanges) / float64(stats.TotalMutations)
	}
	return stats
}

// Replay folds applyFn over the history's change-sets in chronological
// order, reconstructing a state from the initial value.
func Replay[S any](h History, initial S, applyFn func(S, []types.StateChange) S) S {
	state := initial
	for _, e := range h.Entries {
		state = applyFn(state, e.Changes)
	}
	return state
}

// ReplayUntil folds applyFn over entries with timestamp <= until.
// When no entry qualifies, the initial state is returned unchanged.
func ReplayUntil[S any](h History, initial S, until time.Time, applyFn func(S, []types.StateChange) S) S {
	state := initial
	for _, e := range h.Entries {
		if e.Timestamp.After(until) {
			continue
		}
		state = applyFn(state, e.Changes)
	}
	return state
}

// VerifyChain walks the hash chain and returns the execution id of the
// first entry whose links are inconsistent, or "" when the chain holds.
// Entries must be in append order for the check to be meaningful.
func (h History) VerifyChain() string {
	prev := ""
	for _, e := range h.Entries {
		if e.PreviousHash != prev {
			return e.ExecutionID
		}
		prev = e.NewHash
	}
	return ""
}
