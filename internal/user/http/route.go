package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers user-related routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, sysAdminMiddleware gin.HandlerFunc) {
	group := g.Group("/users")

	// === Public Routes ===
	group.POST("/register", h.Register)
	group.POST("/login", h.Login)

	// === Authenticated Routes ===
	group.GET("/me", authMiddleware, h.Me)

	// === SysAdmin Routes ===
	admin := group.Group("")
	admin.Use(authMiddleware, sysAdminMiddleware)
	{
		admin.GET("", h.List)
		admin.PATCH("/:id", h.Update)
	}
}
