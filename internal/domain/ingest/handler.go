package ingest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"leadengage/internal/middleware"
	"leadengage/internal/pkg/response"
	"leadengage/internal/tenant"
)

const maxImportFileSize = 10 << 20

// KeyFallbackHeader names the identity field used when a tenant configured none.
const KeyFallbackHeader = "X-Dedup-Key-Fallback"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// BulkImport handles POST /api/v1/leads/bulk-import
// @Summary Bulk import leads
// @Description Validates, deduplicates and inserts a batch of leads in one transaction
// @Tags Leads Import
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tenant_id query string false "Target tenant (required for global admins)"
// @Param request body BulkImportRequest true "Records"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /leads/bulk-import [post]
func (h *Handler) BulkImport(c *gin.Context) {
	var req BulkImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid JSON body", 0, nil)
		return
	}
	h.run(c, req.Records)
}

// ImportFile handles POST /api/v1/leads/import
// @Summary Import leads from a CSV or XLSX file
// @Tags Leads Import
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param tenant_id query string false "Target tenant (required for global admins)"
// @Param file formData file true "CSV or XLSX file, first row is the header"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /leads/import [post]
func (h *Handler) ImportFile(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "A file field is required", 0, nil)
		return
	}
	if fh.Size > maxImportFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "File exceeds the 10 MB import limit", "uploaded": 0, "skipped": 0, "added": 0,
		})
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, "Failed to read uploaded file", 0, nil)
		return
	}
	defer f.Close()

	records, err := ParseFile(fh.Filename, f)
	if err != nil {
		badRequest(c, err.Error(), 0, nil)
		return
	}
	h.run(c, records)
}

func (h *Handler) run(c *gin.Context, records []Record) {
	rc, err := middleware.TargetContext(c)
	if err != nil {
		writeScopeError(c, err)
		return
	}

	res, err := h.service.Import(c.Request.Context(), rc, records)
	if err != nil {
		writeImportError(c, err, len(records))
		return
	}

	if res.KeyFallback {
		c.Header(KeyFallbackHeader, strings.Join(res.KeyFields, ","))
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  fmt.Sprintf("Imported %d of %d records", res.Added, res.Uploaded),
		"uploaded": res.Uploaded,
		"skipped":  res.Skipped,
		"added":    res.Added,
	})
}

func writeImportError(c *gin.Context, err error, uploaded int) {
	ie, ok := AsError(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(), "uploaded": uploaded, "skipped": uploaded, "added": 0,
		})
		return
	}

	res := ie.Result
	switch status := ie.Kind.Status(); status {
	case http.StatusForbidden:
		c.JSON(status, gin.H{"error": ie.Message})
	case http.StatusBadRequest:
		badRequest(c, ie.Message, res.Uploaded, ie.RequiredFields)
	case http.StatusUnprocessableEntity:
		allowed := ie.AllowedCampaigns
		if allowed == nil {
			allowed = []string{}
		}
		c.JSON(status, gin.H{
			"error":            ie.Message,
			"allowedCampaigns": allowed,
			"uploaded":         res.Uploaded,
			"skipped":          res.Skipped,
			"added":            0,
		})
	case http.StatusInternalServerError:
		// Store failures are reported verbatim.
		c.JSON(status, gin.H{
			"error": ie.Error(), "uploaded": res.Uploaded, "skipped": res.Skipped, "added": 0,
		})
	default:
		c.JSON(status, gin.H{
			"error": ie.Message, "uploaded": res.Uploaded, "skipped": res.Skipped, "added": 0,
		})
	}
}

func badRequest(c *gin.Context, msg string, uploaded int, required []string) {
	if required == nil {
		required = []string{}
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error":          msg,
		"uploaded":       uploaded,
		"skipped":        uploaded,
		"added":          0,
		"requiredFields": required,
	})
}

func writeScopeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tenant.ErrNoRequestContext):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	case errors.Is(err, tenant.ErrForbiddenTenant):
		c.JSON(http.StatusForbidden, gin.H{"error": "Tenant is outside your access scope"})
	case errors.Is(err, tenant.ErrTenantRequired):
		c.JSON(http.StatusForbidden, gin.H{"error": "A valid target tenant_id is required"})
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "No tenant access configured"})
	}
}
