package auth

// Role represents a portal persona.
type Role string

const (
	RoleResident        Role = "resident"
	RoleManagementBoard Role = "board"
	RoleAccountant      Role = "accountant"
	RolePoliceLiaison   Role = "police"
)

// DefaultRole is the role preselected on the login screen.
const DefaultRole = RoleResident

var roleLabels = map[Role]string{
	RoleResident:        "Cư dân",
	RoleManagementBoard: "Ban quản trị",
	RoleAccountant:      "Kế toán",
	RolePoliceLiaison:   "Công an",
}

// AllRoles returns roles in display order.
func AllRoles() []Role {
	return []Role{RoleResident, RoleManagementBoard, RoleAccountant, RolePoliceLiaison}
}

// NormalizeRole validates and normalizes a role string.
func NormalizeRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleResident, RoleManagementBoard, RoleAccountant, RolePoliceLiaison:
		return Role(value), true
	default:
		return "", false
	}
}

// Label returns the Vietnamese display name.
func (r Role) Label() string {
	return roleLabels[r]
}

// LandingPath returns the dashboard a signed-in role lands on.
func (r Role) LandingPath() string {
	if r == RoleResident {
		return "/resident_dashboard"
	}
	return "/dashboard"
}
