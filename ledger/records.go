// Package ledger provides durable archival of audit and history
// entries behind the in-process stores' append-only contracts.
//
// Records are encoded as msgpack and written to a Store (filesystem or
// S3) under partitioned keys. The same ordering invariants as the
// in-memory stores hold; keys are deterministic per entry, so archiving
// an entry again replaces its record rather than adding a second one.
package ledger

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/wardenlabs/warden/types"
)

// RecordKind discriminator values.
const (
	RecordKindAudit   = "audit_entry"
	RecordKindHistory = "history_entry"
)

// unkeyedPartition is the key segment for entries without a state id.
const unkeyedPartition = "-"

// Record is the archival envelope for one ledger entry.
// Exactly one of Audit or History is set, matching Kind.
type Record struct {
	// Kind discriminates the payload.
	Kind string `msgpack:"kind"`
	// Dataset names the owning ledger dataset.
	Dataset string `msgpack:"dataset"`
	// Audit is the audit payload for RecordKindAudit.
	Audit *types.AuditEntry `msgpack:"audit,omitempty"`
	// History is the history payload for RecordKindHistory.
	History *types.HistoryEntry `msgpack:"history,omitempty"`
}

// EncodeRecord serializes a record to msgpack.
func EncodeRecord(r Record) ([]byte, error) {
	b, err := msgpack.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("ledger: encode %s record: %w", r.Kind, err)
	}
	return b, nil
}

// DecodeRecord deserializes a msgpack record.
func DecodeRecord(data []byte) (Record, error) {
	var r Record
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("ledger: decode record: %w", err)
	}
	switch r.Kind {
	case RecordKindAudit, RecordKindHistory:
	default:
		return Record{}, fmt.Errorf("ledger: unknown record kind %q", r.Kind)
	}
	return r, nil
}

// AuditKey computes the partitioned storage key for an audit entry.
// Format: <dataset>/audit/state_id=<id>/<ts>-<execution_id>
// Timestamps are nanosecond UTC so lexicographic listing is
// chronological.
func AuditKey(dataset string, e types.AuditEntry) string {
	return entryKey(dataset, "audit", e.StateID, e.Timestamp, e.ExecutionID)
}

// HistoryKey computes the partitioned storage key for a history entry.
// Format: <dataset>/history/state_id=<id>/<ts>-<execution_id>
func HistoryKey(dataset string, e types.HistoryEntry) string {
	return entryKey(dataset, "history", e.StateID, e.Timestamp, e.ExecutionID)
}

// AuditPrefix computes the listing prefix for a state's audit records.
func AuditPrefix(dataset, stateID string) string {
	return partitionPrefix(dataset, "audit", stateID)
}

// HistoryPrefix computes the listing prefix for a state's history records.
func HistoryPrefix(dataset, stateID string) string {
	return partitionPrefix(dataset, "history", stateID)
}

func entryKey(dataset, kind, stateID string, ts time.Time, executionID string) string {
	return fmt.Sprintf("%s%020d-%s.msgpack", partitionPrefix(dataset, kind, stateID), ts.UTC().UnixNano(), executionID)
}

func partitionPrefix(dataset, kind, stateID string) string {
	if stateID == "" {
		stateID = unkeyedPartition
	}
	return fmt.Sprintf("%s/%s/state_id=%s/", dataset, kind, stateID)
}
