package adapter

import (
	"context"
	"time"

	"github.com/wardenlabs/warden/interceptor"
	"github.com/wardenlabs/warden/log"
	"github.com/wardenlabs/warden/types"
)

// Publisher is an interceptor that publishes a MutationCommittedEvent
// after every successful commit.
//
// Interceptors must not alter mutation outcomes, so publish failures
// are logged and swallowed, never raised. Simulate and validate runs
// publish nothing.
type Publisher[S any] struct {
	interceptor.Base[S]
	adapter Adapter
	logger  *log.Logger
	stateID func(S) string
	order   int
}

// NewPublisher creates the publishing interceptor at the given order.
// stateID extracts the entity id from the committed state; nil leaves
// the event's state id empty.
func NewPublisher[S any](a Adapter, logger *log.Logger, stateID func(S) string, order int) *Publisher[S] {
	if logger == nil {
		logger = log.Nop()
	}
	return &Publisher[S]{
		adapter: a,
		logger:  logger,
		stateID: stateID,
		order:   order,
	}
}

// Name implements interceptor.Interceptor.
func (p *Publisher[S]) Name() string { return "AdapterPublisher" }

// Order implements interceptor.Interceptor.
func (p *Publisher[S]) Order() int { return p.order }

// ShouldRun implements interceptor.Interceptor. Participates only in
// commit mode.
func (p *Publisher[S]) ShouldRun(_ types.Intent, mctx types.Context) bool {
	return mctx.Mode == types.ModeCommit
}

// OnAfter implements interceptor.Interceptor.
func (p *Publisher[S]) OnAfter(ctx context.Context, intent types.Intent, mctx types.Context, _, newState S, changes types.ChangeSet, executionID string) error {
	stateID := ""
	if p.stateID != nil {
		stateID = p.stateID(newState)
	}

	event := &MutationCommittedEvent{
		EventType:     EventTypeMutationCommitted,
		ExecutionID:   executionID,
		StateID:       stateID,
		Operation:     intent.Operation,
		Category:      intent.Category,
		ActorID:       mctx.Actor.ID,
		Mode:          string(mctx.Mode),
		ChangesCount:  changes.Len(),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		CorrelationID: mctx.CorrelationID,
	}

	if err := p.adapter.Publish(ctx, event); err != nil {
		p.logger.Warn("adapter publish failed (best effort)", map[string]any{
			"execution_id": executionID,
			"error":        err.Error(),
		})
	}
	return nil
}
