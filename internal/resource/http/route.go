package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers resource-related routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, operatorMiddleware gin.HandlerFunc) {
	group := g.Group("/resources")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
	}

	// === Operator Routes (manager or sysadmin) ===
	ops := group.Group("")
	ops.Use(operatorMiddleware)
	{
		ops.POST("", h.Create)
		ops.PATCH("/:id", h.Update)
		ops.POST("/:id/deactivate", h.Deactivate)
		ops.POST("/:id/activate", h.Activate)
	}
}
