package ledger

import (
	"context"
	"time"

	"github.com/wardenlabs/warden/audit"
	"github.com/wardenlabs/warden/history"
	"github.com/wardenlabs/warden/log"
	"github.com/wardenlabs/warden/types"
)

// putTimeout bounds each archival write so a slow backend cannot
// stall the execution pipeline indefinitely.
const putTimeout = 30 * time.Second

// Archiver decorates an in-process Auditor with durable archival.
//
// Record appends to the wrapped auditor first, then mirrors the entry
// into the store best-effort: archival failures are logged, never
// raised, so a degraded backend does not fail executions. Queries are
// answered by the wrapped auditor.
type Archiver struct {
	dataset string
	store   Store
	inner   audit.Auditor
	logger  *log.Logger
}

// NewArchiver creates an archiver over the given auditor and store.
func NewArchiver(dataset string, store Store, inner audit.Auditor, logger *log.Logger) *Archiver {
	if inner == nil {
		inner = audit.NewLog()
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Archiver{
		dataset: dataset,
		store:   store,
		inner:   inner,
		logger:  logger,
	}
}

// Record implements audit.Auditor.
func (a *Archiver) Record(entry types.AuditEntry) {
	a.inner.Record(entry)

	payload, err := EncodeRecord(Record{
		Kind:    RecordKindAudit,
		Dataset: a.dataset,
		Audit:   &entry,
	})
	if err != nil {
		a.logger.Warn("audit archival encode failed (best effort)", map[string]any{
			"execution_id": entry.ExecutionID,
			"error":        err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), putTimeout)
	defer cancel()
	if err := a.store.Put(ctx, AuditKey(a.dataset, entry), payload); err != nil {
		a.logger.Warn("audit archival write failed (best effort)", map[string]any{
			"execution_id": entry.ExecutionID,
			"error":        err.Error(),
		})
	}
}

// Query implements audit.Auditor.
func (a *Archiver) Query(stateID string, from, to *time.Time) []types.AuditEntry {
	return a.inner.Query(stateID, from, to)
}

// SnapshotHistory archives every committed history entry currently in
// the store. Keys are deterministic, so re-running a snapshot
// overwrites identical records rather than duplicating them.
func (a *Archiver) SnapshotHistory(ctx context.Context, hs *history.Store) error {
	for _, stateID := range hs.StateIDs() {
		h := hs.Get(stateID)
		for _, entry := range h.Entries {
			payload, err := EncodeRecord(Record{
				Kind:    RecordKindHistory,
				Dataset: a.dataset,
				History: &entry,
			})
			if err != nil {
				return err
			}
			if err := a.store.Put(ctx, HistoryKey(a.dataset, entry), payload); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close releases the underlying store.
func (a *Archiver) Close() error {
	return a.store.Close()
}

// Verify Archiver implements audit.Auditor.
var _ audit.Auditor = (*Archiver)(nil)

// ReadAudit reads a state's archived audit entries in key order
// (chronological).
func ReadAudit(ctx context.Context, store Store, dataset, stateID string) ([]types.AuditEntry, error) {
	keys, err := store.List(ctx, AuditPrefix(dataset, stateID))
	if err != nil {
		return nil, err
	}

	var out []types.AuditEntry
	for _, key := range keys {
		data, err := store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		rec, err := DecodeRecord(data)
		if err != nil {
			return nil, err
		}
		if rec.Kind != RecordKindAudit || rec.Audit == nil {
			continue
		}
		out = append(out, *rec.Audit)
	}
	return out, nil
}

// ReadHistory reads a state's archived history entries in key order
// (chronological).
func ReadHistory(ctx context.Context, store Store, dataset, stateID string) ([]types.HistoryEntry, error) {
	keys, err := store.List(ctx, HistoryPrefix(dataset, stateID))
	if err != nil {
		return nil, err
	}

	var out []types.HistoryEntry
	for _, key := range keys {
		data, err := store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		rec, err := DecodeRecord(data)
		if err != nil {
			return nil, err
		}
		if rec.Kind != RecordKindHistory || rec.History == nil {
			continue
		}
		out = append(out, *rec.History)
	}
	return out, nil
}
