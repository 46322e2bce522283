package middleware

import (
	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// userIDKey is the key used to store the authenticated user's ID in the Gin context.
// Using a custom type prevents collisions.
const userIDKey = contextKey("userID")

// userRoleKey is the key used to store the authenticated user's role.
const userRoleKey = contextKey("userRole")

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check in the request context as well
		userIdVal := c.Request.Context().Value(userIDKey)
		if userIdVal != nil {
			return userIdVal.(string), true
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		// This should not happen if the auth middleware sets it correctly
		// Consider logging an error here if it occurs.
		return "", false
	}

	return userID, true
}

// GetUserRoleFromContext retrieves the authenticated user's role from the Gin
// context. It returns the role and a boolean indicating if it was found.
func GetUserRoleFromContext(c *gin.Context) (domain.UserRole, bool) {
	roleVal, exists := c.Get(string(userRoleKey))
	if !exists {
		ctxVal := c.Request.Context().Value(userRoleKey)
		if ctxVal != nil {
			return ctxVal.(domain.UserRole), true
		}
		return "", false
	}

	role, ok := roleVal.(domain.UserRole)
	if !ok {
		return "", false
	}

	return role, true
}
