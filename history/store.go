// Package history provides the per-entity log of committed mutations.
//
// The store is keyed by state id and append-only. Entries exist only
// for successful committed mutations; simulate and validate runs never
// write history. Queries re-materialize chronological views from the
// store on each call.
package history

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wardenlabs/warden/types"
)

// ErrStateIDRequired is returned when appending an entry without a
// state id.
var ErrStateIDRequired = errors.New("stable stateId required")

// Store keeps per-state chronological mutation history.
// Thread-safe. The order of Append calls is preserved as they arrive;
// callers needing per-entity serialization supply it externally.
type Store struct {
	mu      sync.RWMutex
	entries map[string][]types.HistoryEntry
}

// NewStore creates an empty history store.
func NewStore() *Store {
	return &Store{entries: make(map[string][]types.HistoryEntry)}
}

// Append records a committed mutation for entry.StateID.
// The store computes the integrity hash chain at append time:
// PreviousHash links to the prior entry's NewHash (empty for the first
// entry), and NewHash covers (stateId, executionId, previousHash,
// changes).
func (s *Store) Append(entry types.HistoryEntry) error {
	if entry.StateID == "" {
		return ErrStateIDRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	chain := s.entries[entry.StateID]
	if n := len(chain); n > 0 {
		entry.PreviousHash = chain[n-1].NewHash
	} else {
		entry.PreviousHash = ""
	}
	entry.NewHash = entryHash(entry)

	s.entries[entry.StateID] = append(chain, entry)
	return nil
}

// Get returns the full chronological history for the state id,
// ascending by timestamp. A missing state yields an empty history.
func (s *Store) Get(stateID string) History {
	s.mu.RLock()
	chain := make([]types.HistoryEntry, len(s.entries[stateID]))
	copy(chain, s.entries[stateID])
	s.mu.RUnlock()

	sort.SliceStable(chain, func(i, j int) bool {
		return chain[i].Timestamp.Before(chain[j].Timestamp)
	})
	return History{StateID: stateID, Entries: chain}
}

// GetRange returns entries with from <= timestamp <= to, ascending.
func (s *Store) GetRange(stateID string, from, to time.Time) History {
	full := s.Get(stateID)

	var out []types.HistoryEntry
	for _, e := range full.Entries {
		if e.Timestamp.Before(from) || e.Timestamp.After(to) {
			continue
		}
		out = append(out, e)
	}
	return History{StateID: stateID, Entries: out}
}

// GetRecent returns at most n entries, descending by timestamp.
func (s *Store) GetRecent(stateID string, n int) []types.HistoryEntry {
	full := s.Get(stateID)

	entries := full.Entries
	// Reverse into descending order.
	out := make([]types.HistoryEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i])
	}
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// StateIDs returns the known state ids in unspecified order.
func (s *Store) StateIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.entries))
	for id := range s.entries {
		out = append(out, id)
	}
	return out
}

// Clear removes all history. Intended for test harnesses; production
// paths never clear the store.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[string][]types.HistoryEntry)
	s.mu.Unlock()
}

// entryHash computes the integrity hash of an entry over the fields
// that identify the transition. Changes are serialized as JSON; the
// apply contract is deterministic, so identical transitions hash
// identically.
func entryHash(entry types.HistoryEntry) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|", entry.StateID, entry.ExecutionID, entry.PreviousHash)
	if b, err := json.Marshal(entry.Changes); err == nil {
		h.Write(b)
	}
	return hex.EncodeToString(h.Sum(nil))
}
