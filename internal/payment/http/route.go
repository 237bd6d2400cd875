package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GatewayTokenHeader carries the shared secret on settlement callbacks.
const GatewayTokenHeader = "X-Gateway-Token"

// RequireGatewayToken rejects callbacks that do not present the configured
// shared secret. The comparison is constant-time.
func RequireGatewayToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(GatewayTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid gateway token"})
			return
		}
		c.Next()
	}
}

// RegisterRoutes registers the payment settlement callback.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, gatewayToken gin.HandlerFunc) {
	group := g.Group("/payments")

	group.POST("/callback", gatewayToken, h.Callback)
}
