package fieldconfig

import (
	"github.com/gin-gonic/gin"

	"leadengage/internal/middleware"
)

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/field-configs")
	{
		g.GET("", h.List)
		g.PUT("", middleware.AdminOnly(), h.Replace)
	}
}
