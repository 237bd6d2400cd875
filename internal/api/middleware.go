package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/residesk/amenity-booking-backend/internal/auth"
	"github.com/residesk/amenity-booking-backend/internal/user"
)

// RequireSysAdmin ensures the authenticated user is a sysadmin.
// It MUST be used after auth.AuthRequired middleware.
func RequireSysAdmin(userService user.Service) gin.HandlerFunc {
	return requireRole(userService, func(role user.Role) bool {
		return role == user.RoleSysAdmin
	}, "sysadmin access required")
}

// RequireOperator ensures the authenticated user is a manager or sysadmin.
// It MUST be used after auth.AuthRequired middleware.
func RequireOperator(userService user.Service) gin.HandlerFunc {
	return requireRole(userService, func(role user.Role) bool {
		return role.Privileged()
	}, "manager access required")
}

// requireRole re-reads the user so role changes and deactivations take
// effect immediately, not only after the token expires.
func requireRole(userService user.Service, allowed func(user.Role) bool, denial string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		u, err := userService.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		if !u.IsActive || !allowed(u.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: " + denial})
			return
		}

		c.Next()
	}
}
