package tenant

import "github.com/google/uuid"

type filterKind uint8

const (
	filterInvalid filterKind = iota
	filterNone
	filterRestricted
)

// Filter decides whether tenant filtering applies. The zero value is invalid and
// makes every scoped query fail with ErrNoTenantConfigured.
type Filter struct {
	kind     filterKind
	tenantID uuid.UUID
}

// NoFilter is the unrestricted filter reserved for global admins.
func NoFilter() Filter {
	return Filter{kind: filterNone}
}

// Restricted limits queries to rows owned by tenantID.
func Restricted(tenantID uuid.UUID) Filter {
	if tenantID == uuid.Nil {
		return Filter{}
	}
	return Filter{kind: filterRestricted, tenantID: tenantID}
}

func (f Filter) Valid() bool        { return f.kind != filterInvalid }
func (f Filter) IsRestricted() bool { return f.kind == filterRestricted }
func (f Filter) IsNone() bool       { return f.kind == filterNone }

// TenantID returns the restricting tenant, if any.
func (f Filter) TenantID() (uuid.UUID, bool) {
	if f.kind != filterRestricted {
		return uuid.Nil, false
	}
	return f.tenantID, true
}

func (f Filter) String() string {
	switch f.kind {
	case filterNone:
		return "none"
	case filterRestricted:
		return "tenant:" + f.tenantID.String()
	default:
		return "invalid"
	}
}

// Scope is the tenant policy. It has no I/O and is total over every principal:
// global admins are unrestricted on purpose, everyone else is pinned to their tenant.
// A non-global principal without a tenant yields the invalid filter.
func Scope(p Principal) Filter {
	if p.Role == RoleGlobalAdmin {
		return NoFilter()
	}
	if p.TenantID == nil {
		return Filter{}
	}
	return Restricted(*p.TenantID)
}
