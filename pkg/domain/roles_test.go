package domain

import (
	"strings"
	"testing"
)

func TestEvaluateOverrideJustificationBoundary(t *testing.T) {
	just19 := strings.Repeat("x", 19)
	just20 := strings.Repeat("x", 20)

	if EvaluateOverride(just19, RoleSteward) {
		t.Fatal("19-character justification must be rejected")
	}
	if !EvaluateOverride(just20, RoleSteward) {
		t.Fatal("20-character justification with an allowed role must be approved")
	}
}

func TestEvaluateOverrideRoles(t *testing.T) {
	just := "override needed for IRB-sanctioned export"
	for _, r := range []Role{RoleSteward, RoleAdmin, RoleIRBOfficer, RoleComplianceOfficer} {
		if !EvaluateOverride(just, r) {
			t.Fatalf("role %s should be allowed to override", r)
		}
	}
	for _, r := range []Role{RoleViewer, RoleResearcher, Role("AUDITOR"), Role("")} {
		if EvaluateOverride(just, r) {
			t.Fatalf("role %s should not be allowed to override", r)
		}
	}
}

func TestParseRoleCaseInsensitive(t *testing.T) {
	if ParseRole("irb_officer") != RoleIRBOfficer {
		t.Fatal("role parsing should be case-insensitive")
	}
	if ParseRole("  admin ") != RoleAdmin {
		t.Fatal("role parsing should trim whitespace")
	}
}

func TestRoleLadder(t *testing.T) {
	if !RoleAdmin.AtLeast(RoleSteward) {
		t.Fatal("ADMIN outranks STEWARD")
	}
	if RoleResearcher.AtLeast(RoleSteward) {
		t.Fatal("RESEARCHER does not reach STEWARD")
	}
	// Officer roles sit outside the ladder.
	if RoleIRBOfficer.AtLeast(RoleSteward) {
		t.Fatal("IRB_OFFICER is not on the approval ladder")
	}
}
