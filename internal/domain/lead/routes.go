package lead

import (
	"github.com/gin-gonic/gin"

	"leadengage/internal/middleware"
)

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	leads := protected.Group("/leads")
	{
		leads.GET("", h.ListLeads)
		leads.GET("/stats", h.GetStats)
		leads.GET("/:id", h.GetLead)
		leads.PATCH("/:id/status", h.UpdateStatus)
		leads.DELETE("/:id", middleware.AdminOnly(), h.DeleteLead)
	}
}
