package types

// Mode selects how a mutation is executed.
type Mode string

// Mode constants.
const (
	// ModeSimulate is a dry run: the mutation's Simulate is invoked and
	// nothing is persisted.
	ModeSimulate Mode = "simulate"
	// ModeValidate runs validation only; no state transition occurs.
	ModeValidate Mode = "validate"
	// ModeCommit applies the mutation and persists the transition.
	ModeCommit Mode = "commit"
)

// Persists returns true if this mode produces a history entry on success.
func (m Mode) Persists() bool {
	return m == ModeCommit
}

// ActorType classifies the identity that initiated a mutation.
type ActorType string

// Actor type constants.
const (
	ActorTypeUnknown       ActorType = "unknown"
	ActorTypeUser          ActorType = "user"
	ActorTypeSystem        ActorType = "system"
	ActorTypeService       ActorType = "service"
	ActorTypePolicy        ActorType = "policy"
	ActorTypeScheduler     ActorType = "scheduler"
	ActorTypeAdministrator ActorType = "administrator"
)

// RiskLevel estimates the risk of a mutation.
type RiskLevel string

// Risk level constants, ordered from lowest to highest.
const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// riskRank maps risk levels to a total order for threshold comparisons.
var riskRank = map[RiskLevel]int{
	RiskLow:      0,
	RiskMedium:   1,
	RiskHigh:     2,
	RiskCritical: 3,
}

// AtLeast returns true if r is at or above the given threshold.
// Unknown levels rank below RiskLow.
func (r RiskLevel) AtLeast(threshold RiskLevel) bool {
	return rankOf(r) >= rankOf(threshold)
}

// rankOf returns the rank of l, or -1 for an unknown level.
func rankOf(l RiskLevel) int {
	if rank, ok := riskRank[l]; ok {
		return rank
	}
	return -1
}

// BlastRadius estimates the impact scope of a mutation.
type BlastRadius string

// Blast radius constants.
const (
	BlastSingle BlastRadius = "single"
	BlastModule BlastRadius = "module"
	BlastSystem BlastRadius = "system"
	BlastGlobal BlastRadius = "global"
)

// Severity classifies validation issues and policy decisions.
type Severity string

// Severity constants, ordered from lowest to highest.
const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// ChangeKind classifies a single state delta.
type ChangeKind string

// Change kind constants.
const (
	ChangeModified ChangeKind = "modified"
	ChangeAdded    ChangeKind = "added"
	ChangeRemoved  ChangeKind = "removed"
	ChangeReplaced ChangeKind = "replaced"
	ChangeMoved    ChangeKind = "moved"
)
