// Package audit provides the append-only ledger of attempted mutations.
//
// Every execution produces exactly one audit entry regardless of
// outcome or mode: successes, validation failures, policy blocks, and
// exceptions are all recorded. Entries are never updated or deleted.
package audit

import (
	"sync"
	"time"

	"github.com/wardenlabs/warden/types"
)

// Auditor records attempted mutations and answers time-range queries.
// Implementations must be safe for concurrent writers and readers and
// must preserve the order of Record calls as observed from any single
// caller.
type Auditor interface {
	// Record appends an entry. Entries are immutable after record.
	Record(entry types.AuditEntry)

	// Query returns entries for the state id, optionally restricted to
	// an inclusive time range, in insertion order.
	Query(stateID string, from, to *time.Time) []types.AuditEntry
}

// Log is the in-memory Auditor: a single guarded append-only sequence.
type Log struct {
	mu      sync.RWMutex
	entries []types.AuditEntry
}

// NewLog creates an empty audit log.
func NewLog() *Log {
	return &Log{}
}

// Record implements Auditor.
func (l *Log) Record(entry types.AuditEntry) {
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
}

// Query implements Auditor. Bounds are inclusive on both ends; a state
// id with no entries yields an empty result.
func (l *Log) Query(stateID string, from, to *time.Time) []types.AuditEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []types.AuditEntry
	for _, e := range l.entries {
		if e.StateID != stateID {
			continue
		}
		if from != nil && e.Timestamp.Before(*from) {
			continue
		}
		if to != nil && e.Timestamp.After(*to) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Entries returns a snapshot of all entries in insertion order.
func (l *Log) Entries() []types.AuditEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]types.AuditEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear removes all entries. Intended for test harnesses; production
// paths never clear the ledger.
func (l *Log) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}

// Verify Log implements Auditor.
var _ Auditor = (*Log)(nil)
