package fieldconfig

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"leadengage/internal/middleware"
	"leadengage/internal/pkg/response"
	"leadengage/internal/pkg/validator"
	"leadengage/internal/tenant"
)

type Handler struct {
	store     *tenant.Store
	repo      *Repository
	registry  *Registry
	legacyKey []string
}

func NewHandler(store *tenant.Store, repo *Repository, registry *Registry, legacyKey []string) *Handler {
	return &Handler{store: store, repo: repo, registry: registry, legacyKey: legacyKey}
}

// List handles GET /api/v1/field-configs
// @Summary List lead field configuration
// @Tags Field Config
// @Produce json
// @Security BearerAuth
// @Param tenant_id query string false "Target tenant (global admins)"
// @Success 200 {object} response.Response{data=ListResponse}
// @Router /field-configs [get]
func (h *Handler) List(c *gin.Context) {
	scoped, ok := middleware.Scoped(c, h.store)
	if !ok {
		return
	}

	rows, err := h.repo.List(c.Request.Context(), scoped)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load field configuration")
		return
	}

	snap := NewSnapshot(rows)
	keyFields, fallback := snap.KeyFields(h.legacyKey)
	response.Success(c, http.StatusOK, ListResponse{
		Fields:         rows,
		RequiredFields: snap.Required(),
		KeyFields:      keyFields,
		KeyFallback:    fallback,
	})
}

// Replace handles PUT /api/v1/field-configs
// @Summary Replace lead field configuration
// @Tags Field Config
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tenant_id query string false "Target tenant (required for global admins)"
// @Param request body ReplaceRequest true "Fields"
// @Success 200 {object} response.Response{data=ListResponse}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /field-configs [put]
func (h *Handler) Replace(c *gin.Context) {
	scoped, ok := middleware.Scoped(c, h.store)
	if !ok {
		return
	}

	var req ReplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid field configuration", errs)
		return
	}

	rows, err := BuildRows(req)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.repo.Replace(c.Request.Context(), scoped, rows); err != nil {
		if errors.Is(err, tenant.ErrTenantRequired) {
			middleware.ScopeError(c, err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save field configuration")
		return
	}

	h.List(c)
}
