package tenant

import "errors"

var (
	ErrNoTenantConfigured = errors.New("no tenant access configured")
	ErrForbiddenTenant    = errors.New("tenant is outside caller scope")
	ErrTenantRequired     = errors.New("write requires a single target tenant")
	ErrNoRequestContext   = errors.New("request context missing")
)
