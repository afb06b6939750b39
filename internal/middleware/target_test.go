package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadengage/internal/tenant"
)

func contextWith(t *testing.T, p tenant.Principal, url string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, url, nil)
	rc, err := tenant.NewRequestContext(p)
	require.NoError(t, err)
	c.Set(requestContextKey, rc)
	return c
}

func TestTargetContext_GlobalAdmin(t *testing.T) {
	target := uuid.New()
	c := contextWith(t, tenant.Principal{Role: tenant.RoleGlobalAdmin}, "/x?tenant_id="+target.String())

	rc, err := TargetContext(c)
	require.NoError(t, err)
	got, ok := rc.Filter().TenantID()
	require.True(t, ok)
	assert.Equal(t, target, got)
}

func TestTargetContext_WithoutParam(t *testing.T) {
	c := contextWith(t, tenant.Principal{Role: tenant.RoleGlobalAdmin}, "/x")

	rc, err := TargetContext(c)
	require.NoError(t, err)
	assert.True(t, rc.Filter().IsNone())
}

func TestTargetContext_ForeignTenant(t *testing.T) {
	own := uuid.New()
	c := contextWith(t, tenant.Principal{Role: tenant.RoleBusinessAdmin, TenantID: &own}, "/x?tenant_id="+uuid.NewString())

	_, err := TargetContext(c)
	assert.ErrorIs(t, err, tenant.ErrForbiddenTenant)
}

func TestTargetContext_BadParam(t *testing.T) {
	c := contextWith(t, tenant.Principal{Role: tenant.RoleGlobalAdmin}, "/x?tenant_id=acme")

	_, err := TargetContext(c)
	assert.ErrorIs(t, err, tenant.ErrTenantRequired)
}

func TestScopeError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	assert.True(t, ScopeError(c, tenant.ErrNoTenantConfigured))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, ScopeError(c, assert.AnError))
}
