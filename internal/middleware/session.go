package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"leadengage/internal/domain/session"
	"leadengage/internal/pkg/response"
	"leadengage/internal/tenant"
)

const requestContextKey = "request_context"

type principalResolver interface {
	Resolve(ctx context.Context, authorization string) (*tenant.Principal, error)
}

// Session resolves the caller and attaches a fresh RequestContext to the request.
// timeout bounds token validation and the profile lookup.
func Session(resolver principalResolver, timeout time.Duration, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		resolveCtx, cancel := context.WithTimeout(ctx, timeout)
		principal, err := resolver.Resolve(resolveCtx, c.GetHeader("Authorization"))
		cancel()
		if err != nil {
			abortSessionError(c, err, log)
			return
		}

		rc, err := tenant.NewRequestContext(*principal)
		if err != nil {
			log.Warn("principal without tenant",
				zap.String("principal_id", principal.ID.String()),
				zap.String("role", string(principal.Role)))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "No tenant access configured"})
			return
		}

		SetRequestContext(c, rc)

		c.Next()
	}
}

func abortSessionError(c *gin.Context, err error, log *zap.Logger) {
	switch {
	case errors.Is(err, session.ErrProfileNotFound):
		response.Abort(c, http.StatusUnauthorized, "PROFILE_NOT_FOUND", "No profile exists for this account")
	case errors.Is(err, session.ErrUnauthenticated):
		response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing bearer token")
	default:
		log.Error("session resolution failed", zap.Error(err))
		response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load caller profile")
	}
}

// SetRequestContext attaches rc to the gin context and to the request context.
func SetRequestContext(c *gin.Context, rc *tenant.RequestContext) {
	p := rc.Principal()
	c.Set(requestContextKey, rc)
	c.Set("principal_id", p.ID.String())
	c.Set("role", string(p.Role))
	c.Set("tenant", rc.Filter().String())
	c.Request = c.Request.WithContext(tenant.WithContext(c.Request.Context(), rc))
}

// RequestContext returns the context attached by Session.
func RequestContext(c *gin.Context) (*tenant.RequestContext, error) {
	v, ok := c.Get(requestContextKey)
	if !ok {
		return nil, tenant.ErrNoRequestContext
	}
	rc, ok := v.(*tenant.RequestContext)
	if !ok || rc == nil {
		return nil, tenant.ErrNoRequestContext
	}
	return rc, nil
}
