package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers delivery ledger routes. All operations are
// staff actions, so the whole group sits behind the operator middleware.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, operatorMiddleware gin.HandlerFunc) {
	group := g.Group("/deliveries")
	group.Use(authMiddleware, operatorMiddleware)
	{
		group.POST("/:reservationId", h.Open)
		group.GET("/:reservationId", h.Get)
		group.POST("/:reservationId/delivered", h.MarkDelivered)
		group.POST("/:reservationId/paid", h.MarkDeliveryPaid)
		group.POST("/:reservationId/damage", h.RecordDamage)
		group.POST("/:reservationId/close", h.Close)
	}
}
