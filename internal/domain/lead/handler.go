package lead

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leadengage/internal/middleware"
	"leadengage/internal/pkg/response"
	"leadengage/internal/pkg/validator"
	"leadengage/internal/tenant"
)

type Handler struct {
	store   *tenant.Store
	service *Service
}

func NewHandler(store *tenant.Store, service *Service) *Handler {
	return &Handler{store: store, service: service}
}

// ListLeads handles GET /api/v1/leads
// @Summary List leads
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param campaign_id query string false "Filter by campaign"
// @Param limit query int false "Limit" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} response.Response{data=ListResponse}
// @Failure 500 {object} response.Response
// @Router /leads [get]
func (h *Handler) ListLeads(c *gin.Context) {
	scoped, ok := middleware.Scoped(c, h.store)
	if !ok {
		return
	}

	f := ListFilter{Status: c.Query("status")}
	if raw := c.Query("campaign_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid campaign ID")
			return
		}
		f.CampaignID = &id
	}
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil {
			f.Limit = v
		}
	}
	if o := c.Query("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil {
			f.Offset = v
		}
	}

	out, err := h.service.List(c.Request.Context(), scoped, f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list leads")
		return
	}
	response.Success(c, http.StatusOK, out)
}

// GetLead handles GET /api/v1/leads/:id
// @Summary Get lead by ID
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 200 {object} response.Response{data=Lead}
// @Failure 404 {object} response.Response
// @Router /leads/{id} [get]
func (h *Handler) GetLead(c *gin.Context) {
	scoped, ok := middleware.Scoped(c, h.store)
	if !ok {
		return
	}
	id, ok := leadID(c)
	if !ok {
		return
	}

	l, err := h.service.Get(c.Request.Context(), scoped, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

// UpdateStatus handles PATCH /api/v1/leads/:id/status
// @Summary Update lead status
// @Description Appends a status history entry when the status changes
// @Tags Leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Param request body UpdateStatusRequest true "Status update"
// @Success 200 {object} response.Response{data=Lead}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /leads/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	scoped, ok := middleware.Scoped(c, h.store)
	if !ok {
		return
	}
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid status update", errs)
		return
	}

	l, err := h.service.UpdateStatus(c.Request.Context(), scoped, id, req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

// DeleteLead handles DELETE /api/v1/leads/:id
// @Summary Delete lead
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /leads/{id} [delete]
func (h *Handler) DeleteLead(c *gin.Context) {
	scoped, ok := middleware.Scoped(c, h.store)
	if !ok {
		return
	}
	id, ok := leadID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), scoped, id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Lead deleted"})
}

// GetStats handles GET /api/v1/leads/stats
// @Summary Lead counts by status
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=StatsResponse}
// @Router /leads/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	scoped, ok := middleware.Scoped(c, h.store)
	if !ok {
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), scoped)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load lead stats")
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrLeadNotFound):
		response.Error(c, http.StatusNotFound, "LEAD_NOT_FOUND", "Lead not found")
	case errors.Is(err, ErrStatusConflict):
		response.Error(c, http.StatusConflict, "STATUS_CONFLICT", "Lead status was changed by another request")
	case errors.Is(err, ErrEmptyStatus):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case middleware.ScopeError(c, err):
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Lead operation failed")
	}
}

func leadID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return uuid.Nil, false
	}
	return id, true
}
