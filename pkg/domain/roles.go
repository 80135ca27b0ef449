package domain

import "strings"

type Role string

const (
	RoleViewer            Role = "VIEWER"
	RoleResearcher        Role = "RESEARCHER"
	RoleSteward           Role = "STEWARD"
	RoleAdmin             Role = "ADMIN"
	RoleIRBOfficer        Role = "IRB_OFFICER"
	RoleComplianceOfficer Role = "COMPLIANCE_OFFICER"
)

var roleRank = map[Role]int{
	RoleViewer:     1,
	RoleResearcher: 2,
	RoleSteward:    3,
	RoleAdmin:      4,
}

func ParseRole(s string) Role {
	return Role(strings.ToUpper(strings.TrimSpace(s)))
}

// AtLeast reports whether r carries at least the authority of min on the
// viewer..admin ladder. Officer roles sit outside the ladder and only
// matter for overrides.
func (r Role) AtLeast(min Role) bool {
	rv, ok := roleRank[r]
	mv, okMin := roleRank[min]
	if !ok || !okMin {
		return false
	}
	return rv >= mv
}

// overrideRoles may authorize a PHI export override.
var overrideRoles = map[Role]bool{
	RoleSteward:           true,
	RoleAdmin:             true,
	RoleIRBOfficer:        true,
	RoleComplianceOfficer: true,
}

func CanAuthorizeOverride(r Role) bool { return overrideRoles[r] }

// minOverrideJustification is the shortest justification an override can be
// approved with.
const minOverrideJustification = 20

// EvaluateOverride decides an override request. Rejection is a result with
// Approved=false, never an error: a refused override is itself auditable.
func EvaluateOverride(justification string, role Role) bool {
	return len(justification) >= minOverrideJustification && CanAuthorizeOverride(role)
}
