package user

import "strings"

type Role string

const (
	RoleAdmin    Role = "admin"    // HR administrator - full access
	RoleManager  Role = "manager"  // Can approve and cancel leave
	RoleEmployee Role = "employee" // Regular employee
)

// ParseRole normalizes a role claim into a known Role.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleManager:
		return RoleManager, true
	case RoleEmployee:
		return RoleEmployee, true
	}
	return "", false
}

// IsPrivileged checks if the role can act on other employees' requests
func (r Role) IsPrivileged() bool {
	return r == RoleManager || r == RoleAdmin
}
