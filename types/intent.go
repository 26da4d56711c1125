// Package types defines core domain types for the Warden mutation engine.
//
//nolint:revive // types is a common Go package naming convention
package types

import "time"

// Intent declares what a mutation intends to change and why.
// Intents are immutable for the lifetime of the mutation.
type Intent struct {
	// Operation is the operation name (e.g. "enable_feature").
	Operation string `json:"operation" msgpack:"operation"`
	// Category groups related operations (e.g. "feature_flags").
	Category string `json:"category" msgpack:"category"`
	// Description is a human-readable summary.
	Description string `json:"description,omitempty" msgpack:"description,omitempty"`
	// Risk is the estimated risk level.
	Risk RiskLevel `json:"risk" msgpack:"risk"`
	// Reversible indicates whether the mutation can be undone.
	Reversible bool `json:"reversible" msgpack:"reversible"`
	// BlastRadius is the estimated impact scope.
	BlastRadius BlastRadius `json:"blast_radius" msgpack:"blast_radius"`
	// Tags is a set of free-form labels.
	Tags []string `json:"tags,omitempty" msgpack:"tags,omitempty"`
	// Metadata carries additional intent attributes.
	Metadata map[string]any `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
	// CreatedAt is the intent creation timestamp.
	CreatedAt time.Time `json:"created_at" msgpack:"created_at"`
}

// HasTag returns true if the intent carries the given tag.
func (i Intent) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
