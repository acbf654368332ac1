package core

import "fmt"

// Role is the closed set of identities a console user can hold.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleCompanyOwner Role = "company_owner"
	RoleStoreOwner   Role = "store_owner"
	RoleAgent        Role = "agent"
	RoleReadonly     Role = "readonly"
)

// AllRoles lists every valid role in display order.
var AllRoles = []Role{RoleAdmin, RoleCompanyOwner, RoleStoreOwner, RoleAgent, RoleReadonly}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCompanyOwner, RoleStoreOwner, RoleAgent, RoleReadonly:
		return true
	}
	return false
}

// Label returns a human-readable role name for tables and badges.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleCompanyOwner:
		return "Company Owner"
	case RoleStoreOwner:
		return "Store Owner"
	case RoleAgent:
		return "Agent"
	case RoleReadonly:
		return "Read Only"
	}
	return "Unknown"
}

// ParseRole converts s into a Role, rejecting anything outside the closed set.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Visible reports whether role is one of allowed. It decides which controls a page
// shows and nothing more; handlers and the backend enforce the same rule on their own.
func Visible(role Role, allowed ...Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}
