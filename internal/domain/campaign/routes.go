package campaign

import (
	"github.com/gin-gonic/gin"

	"leadengage/internal/middleware"
)

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/campaigns")
	{
		g.GET("", h.List)
		g.POST("", middleware.AdminOnly(), h.Create)
		g.PATCH("/:id", middleware.AdminOnly(), h.Update)
	}
}
