package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers amenity photo routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, operatorMiddleware gin.HandlerFunc) {
	resources := g.Group("/resources/:id/photos")
	resources.Use(authMiddleware)
	{
		resources.GET("", h.ListByResource)

		ops := resources.Group("")
		ops.Use(operatorMiddleware)
		ops.POST("", h.Upload)
	}

	photos := g.Group("/photos")
	photos.Use(authMiddleware)
	{
		photos.GET("/:id", h.Serve)
		photos.GET("/:id/thumbnail", h.ServeThumbnail)

		ops := photos.Group("")
		ops.Use(operatorMiddleware)
		ops.DELETE("/:id", h.Delete)
	}
}
