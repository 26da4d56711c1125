// Package adapter defines the event-bus boundary for committed
// mutations.
//
// Adapters publish post-commit notifications to downstream systems.
// The engine core does not depend on adapters; they attach through an
// interceptor that observes successful commits.
package adapter

import "context"

// EventTypeMutationCommitted is the event type discriminator.
const EventTypeMutationCommitted = "mutation_committed"

// MutationCommittedEvent is the payload published when a mutation
// commits successfully.
type MutationCommittedEvent struct {
	EventType     string `json:"event_type"` // always "mutation_committed"
	ExecutionID   string `json:"execution_id"`
	StateID       string `json:"state_id,omitempty"`
	Operation     string `json:"operation"`
	Category      string `json:"category"`
	ActorID       string `json:"actor_id"`
	Mode          string `json:"mode"`
	ChangesCount  int    `json:"changes_count"`
	Timestamp     string `json:"timestamp"` // ISO 8601
	CorrelationID string `json:"correlation_id,omitempty"`
}

// Adapter publishes committed-mutation events to a downstream system.
type Adapter interface {
	// Publish sends a committed-mutation event to the downstream system.
	// Must respect context cancellation and deadlines.
	Publish(ctx context.Context, event *MutationCommittedEvent) error

	// Close releases adapter resources.
	Close() error
}
