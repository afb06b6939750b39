package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leadengage/internal/pkg/response"
	"leadengage/internal/tenant"
)

// TargetContext returns the caller's RequestContext, narrowed to the tenant named in
// the tenant_id query parameter when one is given. Writes by a global admin need it.
func TargetContext(c *gin.Context) (*tenant.RequestContext, error) {
	rc, err := RequestContext(c)
	if err != nil {
		return nil, err
	}
	raw := c.Query("tenant_id")
	if raw == "" {
		return rc, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, tenant.ErrTenantRequired
	}
	return rc.ForTenant(id)
}

// ScopeError writes the response for tenant scoping failures. It reports false
// when err is not one of them.
func ScopeError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, tenant.ErrNoRequestContext):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	case errors.Is(err, tenant.ErrNoTenantConfigured):
		c.JSON(http.StatusForbidden, gin.H{"error": "No tenant access configured"})
	case errors.Is(err, tenant.ErrForbiddenTenant):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Tenant is outside your access scope")
	case errors.Is(err, tenant.ErrTenantRequired):
		response.Error(c, http.StatusBadRequest, "TENANT_REQUIRED", "A valid tenant_id query parameter is required")
	default:
		return false
	}
	return true
}

// Scoped binds store to the target RequestContext of the request. When it reports
// false the error response has been written.
func Scoped(c *gin.Context, store *tenant.Store) (*tenant.Scoped, bool) {
	rc, err := TargetContext(c)
	if err == nil {
		var scoped *tenant.Scoped
		if scoped, err = store.Scoped(rc); err == nil {
			return scoped, true
		}
	}
	if !ScopeError(c, err) {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to resolve tenant scope")
	}
	return nil, false
}
