package campaign

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leadengage/internal/middleware"
	"leadengage/internal/pkg/response"
	"leadengage/internal/pkg/validator"
	"leadengage/internal/tenant"
)

type Handler struct {
	store *tenant.Store
	repo  *Repository
}

func NewHandler(store *tenant.Store, repo *Repository) *Handler {
	return &Handler{store: store, repo: repo}
}

// List handles GET /api/v1/campaigns
// @Summary List campaigns
// @Tags Campaigns
// @Produce json
// @Security BearerAuth
// @Param active query bool false "Only active campaigns"
// @Success 200 {object} response.Response{data=[]Campaign}
// @Router /campaigns [get]
func (h *Handler) List(c *gin.Context) {
	scoped, ok := middleware.Scoped(c, h.store)
	if !ok {
		return
	}

	rows, err := h.repo.List(c.Request.Context(), scoped, c.Query("active") == "true")
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list campaigns")
		return
	}
	response.Success(c, http.StatusOK, rows)
}

// Create handles POST /api/v1/campaigns
// @Summary Create campaign
// @Tags Campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRequest true "Campaign"
// @Success 201 {object} response.Response{data=Campaign}
// @Failure 409 {object} response.Response
// @Router /campaigns [post]
func (h *Handler) Create(c *gin.Context) {
	scoped, ok := middleware.Scoped(c, h.store)
	if !ok {
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid campaign", errs)
		return
	}

	camp := &Campaign{Name: strings.TrimSpace(req.Name), IsActive: true}
	if req.IsActive != nil {
		camp.IsActive = *req.IsActive
	}

	if err := h.repo.Create(c.Request.Context(), scoped, camp); err != nil {
		switch {
		case errors.Is(err, ErrNameExists):
			response.Error(c, http.StatusConflict, "CAMPAIGN_EXISTS", "A campaign with this name already exists")
		case middleware.ScopeError(c, err):
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create campaign")
		}
		return
	}
	response.Success(c, http.StatusCreated, camp)
}

// Update handles PATCH /api/v1/campaigns/:id
// @Summary Activate or deactivate campaign
// @Tags Campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Param request body UpdateRequest true "State"
// @Success 200 {object} response.Response{data=Campaign}
// @Failure 404 {object} response.Response
// @Router /campaigns/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	scoped, ok := middleware.Scoped(c, h.store)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid campaign ID")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid campaign update", errs)
		return
	}

	camp, err := h.repo.SetActive(c.Request.Context(), scoped, id, *req.IsActive)
	if err != nil {
		if errors.Is(err, ErrCampaignNotFound) {
			response.Error(c, http.StatusNotFound, "CAMPAIGN_NOT_FOUND", "Campaign not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update campaign")
		return
	}
	response.Success(c, http.StatusOK, camp)
}
