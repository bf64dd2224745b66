package domain

import (
	"fmt"
	"strings"
)

// Role is the access-level category assigned to a user at account creation.
type Role string

const (
	RoleCustomer  Role = "customer"
	RoleDoctor    Role = "doctor"
	RoleWholesale Role = "wholesale"
	RoleAdmin     Role = "admin"
)

// Roles lists every known role. DashboardRoute and the role check constraint
// in the user_roles table must stay in step with it.
var Roles = []Role{RoleCustomer, RoleDoctor, RoleWholesale, RoleAdmin}

// ParseRole converts a stored role attribute into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleDoctor, RoleWholesale, RoleAdmin:
		return true
	}
	return false
}

// DashboardRoute returns the landing route for the role. Unknown values land
// on the customer dashboard, the least privileged surface.
func (r Role) DashboardRoute() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleDoctor:
		return "/doctor/dashboard"
	case RoleWholesale:
		return "/wholesale/dashboard"
	case RoleCustomer:
		return "/dashboard"
	}
	return "/dashboard"
}

func (r Role) String() string { return string(r) }
