package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadengage/internal/pkg/response"
	"leadengage/internal/tenant"
)

// RequireRole ensures that the authenticated caller has one of roles.
func RequireRole(roles ...tenant.Role) gin.HandlerFunc {
	allowed := make(map[tenant.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		rc, err := RequestContext(c)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		if _, ok := allowed[rc.Principal().Role]; !ok {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			return
		}

		c.Next()
	}
}

// AdminOnly allows every admin role.
func AdminOnly() gin.HandlerFunc {
	return RequireRole(tenant.RoleGlobalAdmin, tenant.RoleEnterpriseAdmin, tenant.RoleBusinessAdmin)
}
