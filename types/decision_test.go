package types

import "testing"

func TestDecisionConstructors(t *testing.T) {
	if d := Allow(); !d.Allowed || d.Severity != SeverityInfo {
		t.Errorf("Allow() = %+v", d)
	}

	d := Deny("BusinessHours", "outside window")
	if d.Allowed {
		t.Error("Deny should not allow")
	}
	if d.PolicyName != "BusinessHours" || d.Reason != "outside window" {
		t.Errorf("Deny fields = %+v", d)
	}
	if d.Severity != SeverityError {
		t.Errorf("Deny severity = %s, want error", d.Severity)
	}

	if d := DenyCritical("Lockdown", "frozen"); d.Severity != SeverityCritical || d.Allowed {
		t.Errorf("DenyCritical = %+v", d)
	}

	m := Modify("Rewrite", map[string]any{"ttl": 60})
	if !m.Allowed {
		t.Error("Modify should allow")
	}
	if len(m.Modifications) != 1 {
		t.Errorf("Modifications = %v", m.Modifications)
	}

	r := RequireApproval("TwoManApproval", "need approvers", Requirement{Type: "approval", Description: "two ids"})
	if r.Allowed {
		t.Error("RequireApproval should deny until fulfilled")
	}
	if len(r.Requirements) != 1 || r.Requirements[0].Type != "approval" {
		t.Errorf("Requirements = %+v", r.Requirements)
	}
}

func TestValidationResult(t *testing.T) {
	v := Valid()
	if !v.IsValid() {
		t.Error("Valid() should be valid")
	}

	v.AddWarning("flags.A", "deprecated", "W001")
	if !v.IsValid() {
		t.Error("warnings should not invalidate")
	}

	v.AddError("flags.A", "unknown flag", "E001")
	if v.IsValid() {
		t.Error("errors should invalidate")
	}
	if v.Errors[0].Severity != SeverityError {
		t.Errorf("error severity = %s", v.Errors[0].Severity)
	}

	v.AddInfo("", "checked", "")
	if len(v.Infos) != 1 {
		t.Errorf("Infos len = %d, want 1", len(v.Infos))
	}
}

func TestRiskLevel_AtLeast(t *testing.T) {
	if !RiskCritical.AtLeast(RiskHigh) {
		t.Error("critical should be at least high")
	}
	if RiskLow.AtLeast(RiskMedium) {
		t.Error("low should not be at least medium")
	}
	if !RiskMedium.AtLeast(RiskMedium) {
		t.Error("medium should be at least medium")
	}
}

func TestMode_Persists(t *testing.T) {
	if !ModeCommit.Persists() {
		t.Error("commit should persist")
	}
	if ModeSimulate.Persists() || ModeValidate.Persists() {
		t.Error("simulate/validate should not persist")
	}
}

func TestContext_Validate(t *testing.T) {
	ctx := Context{Mode: ModeCommit, Actor: Actor{ID: "alice", Type: ActorTypeUser}}
	if err := ctx.Validate(); err != nil {
		t.Errorf("valid context rejected: %v", err)
	}

	bad := Context{Mode: "dry-run", Actor: Actor{ID: "alice"}}
	if err := bad.Validate(); err == nil {
		t.Error("unknown mode accepted")
	}

	noActor := Context{Mode: ModeSimulate}
	if err := noActor.Validate(); err == nil {
		t.Error("empty actor id accepted")
	}
}

func TestContext_MetadataString(t *testing.T) {
	ctx := Context{Metadata: map[string]any{"approvedBy": "alice,bob", "count": 3}}
	if got := ctx.MetadataString("approvedBy"); got != "alice,bob" {
		t.Errorf("MetadataString = %q", got)
	}
	if got := ctx.MetadataString("count"); got != "" {
		t.Errorf("non-string value should yield empty, got %q", got)
	}
	if got := (&Context{}).MetadataString("x"); got != "" {
		t.Errorf("nil metadata should yield empty, got %q", got)
	}
}
