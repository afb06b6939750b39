package tenant

import (
	"strings"

	"github.com/google/uuid"
)

// Role is the privilege level stored on a profile.
type Role string

const (
	RoleGlobalAdmin     Role = "global_admin"
	RoleEnterpriseAdmin Role = "enterprise_admin"
	RoleBusinessAdmin   Role = "business_admin"
	RoleUser            Role = "user"
)

// Roles lists every role in ascending privilege order.
var Roles = []Role{RoleUser, RoleBusinessAdmin, RoleEnterpriseAdmin, RoleGlobalAdmin}

// ParseRole maps a stored role string to a Role. Unknown values resolve to RoleUser,
// the least privileged role, which is still tenant restricted.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleGlobalAdmin:
		return RoleGlobalAdmin
	case RoleEnterpriseAdmin:
		return RoleEnterpriseAdmin
	case RoleBusinessAdmin:
		return RoleBusinessAdmin
	default:
		return RoleUser
	}
}

// IsAdmin reports whether the role may manage tenant configuration.
func (r Role) IsAdmin() bool {
	return r == RoleGlobalAdmin || r == RoleEnterpriseAdmin || r == RoleBusinessAdmin
}

// Principal is the authenticated caller, resolved once per request.
type Principal struct {
	ID       uuid.UUID  `json:"id"`
	Email    string     `json:"email"`
	Role     Role       `json:"role"`
	TenantID *uuid.UUID `json:"tenant_id,omitempty"`
}
