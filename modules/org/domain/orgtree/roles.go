package orgtree

import "strings"

// Role is the closed set of engineering roles the org model recognizes.
type Role string

const (
	RoleEngineer           Role = "engineer"
	RoleSeniorEngineer     Role = "senior_engineer"
	RoleStaffEngineer      Role = "staff_engineer"
	RoleEngineeringManager Role = "engineering_manager"
	RoleHeadOfEngineering  Role = "head_of_engineering"
	RolePrincipalEngineer  Role = "principal_engineer"
)

var roleLabels = map[Role]string{
	RoleEngineer:           "Engineer",
	RoleSeniorEngineer:     "Senior Engineer",
	RoleStaffEngineer:      "Staff Engineer",
	RoleEngineeringManager: "Engineering Manager",
	RoleHeadOfEngineering:  "Head of Engineering",
	RolePrincipalEngineer:  "Principal Engineer",
}

// Roles in display order.
var AllRoles = []Role{
	RoleEngineer,
	RoleSeniorEngineer,
	RoleStaffEngineer,
	RoleEngineeringManager,
	RoleHeadOfEngineering,
	RolePrincipalEngineer,
}

func (r Role) Label() string {
	return roleLabels[r]
}

// IsEngineer reports whether the role is an importable engineering role
// (engineer or senior engineer).
func (r Role) IsEngineer() bool {
	return r == RoleEngineer || r == RoleSeniorEngineer
}

// RoleFromLabel resolves a display label case-insensitively.
func RoleFromLabel(label string) (Role, bool) {
	label = strings.TrimSpace(label)
	for _, r := range AllRoles {
		if strings.EqualFold(label, roleLabels[r]) {
			return r, true
		}
	}
	return "", false
}

type Location string

const (
	LocationOnshore   Location = "onshore"
	LocationNearshore Location = "nearshore"
	LocationOffshore  Location = "offshore"
)

// LocationFromString resolves a location token case-insensitively.
// Blank or unrecognized values default to onshore.
func LocationFromString(v string) Location {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case string(LocationNearshore):
		return LocationNearshore
	case string(LocationOffshore):
		return LocationOffshore
	default:
		return LocationOnshore
	}
}

type EmploymentType string

const (
	TypeEmployee   EmploymentType = "employee"
	TypeContractor EmploymentType = "contractor"
)
