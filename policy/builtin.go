package policy

import (
	"fmt"
	"strings"
	"time"

	"github.com/wardenlabs/warden/types"
)

// BusinessHours denies mutations outside a configured daily window.
// Hours are compared in the clock's local time; the window is
// inclusive of OpenHour and exclusive of CloseHour.
type BusinessHours[S any] struct {
	// OpenHour is the first permitted hour (0-23).
	OpenHour int
	// CloseHour is the first denied hour after the window (0-23).
	CloseHour int
	// Now overrides the clock. Nil uses time.Now.
	Now func() time.Time

	priority int
}

// NewBusinessHours creates the policy with the given window and priority.
func NewBusinessHours[S any](openHour, closeHour, priority int) *BusinessHours[S] {
	return &BusinessHours[S]{
		OpenHour:  openHour,
		CloseHour: closeHour,
		priority:  priority,
	}
}

// Name implements Policy.
func (p *BusinessHours[S]) Name() string { return "BusinessHours" }

// Priority implements Policy.
func (p *BusinessHours[S]) Priority() int { return p.priority }

// Description implements Policy.
func (p *BusinessHours[S]) Description() string {
	return fmt.Sprintf("denies mutations outside %02d:00-%02d:00", p.OpenHour, p.CloseHour)
}

// Evaluate implements Policy.
func (p *BusinessHours[S]) Evaluate(_ types.Mutation[S], _ S) types.PolicyDecision {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	hour := now().Hour()
	if hour < p.OpenHour || hour >= p.CloseHour {
		return types.Deny(p.Name(), fmt.Sprintf("mutations are not permitted at hour %d", hour))
	}
	return types.Allow()
}

// TwoManApproval denies mutations whose context metadata does not name
// at least two distinct approvers under the "approvedBy" key.
// The value is a comma-separated list of approver ids.
type TwoManApproval[S any] struct {
	priority int
}

// NewTwoManApproval creates the policy with the given priority.
func NewTwoManApproval[S any](priority int) *TwoManApproval[S] {
	return &TwoManApproval[S]{priority: priority}
}

// Name implements Policy.
func (p *TwoManApproval[S]) Name() string { return "TwoManApproval" }

// Priority implements Policy.
func (p *TwoManApproval[S]) Priority() int { return p.priority }

// Description implements Policy.
func (p *TwoManApproval[S]) Description() string {
	return "requires two distinct approvers in context metadata"
}

// Evaluate implements Policy.
func (p *TwoManApproval[S]) Evaluate(mutation types.Mutation[S], _ S) types.PolicyDecision {
	ctx := mutation.Context()
	approvers := distinctApprovers(ctx.MetadataString("approvedBy"))
	if len(approvers) >= 2 {
		return types.Allow()
	}

	return types.RequireApproval(p.Name(),
		fmt.Sprintf("two distinct approvers required, have %d", len(approvers)),
		types.Requirement{
			Type:        "approval",
			Description: "two distinct approver ids under metadata key approvedBy",
			Data:        map[string]any{"have": len(approvers), "need": 2},
		})
}

// distinctApprovers parses a comma-separated approver list, trimming
// whitespace and dropping duplicates and empty entries.
func distinctApprovers(s string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, part := range strings.Split(s, ",") {
		id := strings.TrimSpace(part)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// RiskThreshold denies mutations whose declared intent risk is at or
// above a configured level.
type RiskThreshold[S any] struct {
	// Threshold is the lowest denied risk level.
	Threshold types.RiskLevel

	priority int
}

// NewRiskThreshold creates the policy with the given threshold and priority.
func NewRiskThreshold[S any](threshold types.RiskLevel, priority int) *RiskThreshold[S] {
	return &RiskThreshold[S]{Threshold: threshold, priority: priority}
}

// Name implements Policy.
func (p *RiskThreshold[S]) Name() string { return "RiskThreshold" }

// Priority implements Policy.
func (p *RiskThreshold[S]) Priority() int { return p.priority }

// Description implements Policy.
func (p *RiskThreshold[S]) Description() string {
	return fmt.Sprintf("denies mutations with risk >= %s", p.Threshold)
}

// Evaluate implements Policy.
func (p *RiskThreshold[S]) Evaluate(mutation types.Mutation[S], _ S) types.PolicyDecision {
	risk := mutation.Intent().Risk
	if risk.AtLeast(p.Threshold) {
		if risk == types.RiskCritical {
			return types.DenyCritical(p.Name(), fmt.Sprintf("risk %s is at or above threshold %s", risk, p.Threshold))
		}
		return types.Deny(p.Name(), fmt.Sprintf("risk %s is at or above threshold %s", risk, p.Threshold))
	}
	return types.Allow()
}
