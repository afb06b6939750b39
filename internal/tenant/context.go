package tenant

import (
	"context"

	"github.com/google/uuid"
)

// RequestContext binds a principal to the filter derived from it. It is built per
// request and cannot be mutated; ForTenant returns a new value.
type RequestContext struct {
	principal Principal
	filter    Filter
}

// NewRequestContext applies the tenant policy, failing closed for principals that
// need a tenant but have none.
func NewRequestContext(p Principal) (*RequestContext, error) {
	if p.Role != RoleGlobalAdmin && (p.TenantID == nil || *p.TenantID == uuid.Nil) {
		return nil, ErrNoTenantConfigured
	}
	return &RequestContext{principal: p, filter: Scope(p)}, nil
}

func (rc *RequestContext) Principal() Principal { return rc.principal }
func (rc *RequestContext) Filter() Filter       { return rc.filter }

// ForTenant narrows the context to one tenant. Global admins may target any tenant;
// other callers only their own.
func (rc *RequestContext) ForTenant(tenantID uuid.UUID) (*RequestContext, error) {
	if tenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}
	if own, ok := rc.filter.TenantID(); ok {
		if own != tenantID {
			return nil, ErrForbiddenTenant
		}
		return rc, nil
	}
	if !rc.filter.IsNone() {
		return nil, ErrNoTenantConfigured
	}
	return &RequestContext{principal: rc.principal, filter: Restricted(tenantID)}, nil
}

type ctxKey struct{}

// WithContext stores rc on ctx.
func WithContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, rc)
}

// FromContext returns the RequestContext stored by WithContext.
func FromContext(ctx context.Context) (*RequestContext, error) {
	rc, ok := ctx.Value(ctxKey{}).(*RequestContext)
	if !ok || rc == nil {
		return nil, ErrNoRequestContext
	}
	return rc, nil
}
