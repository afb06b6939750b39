package ingest

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/leads")
	{
		g.POST("/bulk-import", h.BulkImport)
		g.POST("/import", h.ImportFile)
	}
}
