package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/Entelsac/ENTEL-SAC/internal/constants"
	"github.com/Entelsac/ENTEL-SAC/internal/database"
	apierrors "github.com/Entelsac/ENTEL-SAC/internal/errors"
	"github.com/Entelsac/ENTEL-SAC/internal/models"
)

// RequireAuth resolves the session to a user record. A missing token and a
// token pointing at a deleted user are treated identically: the caller is
// simply unauthenticated.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		raw := session.Get(constants.ContextKeyUserID)
		if raw == nil {
			apierrors.Unauthorized(c)
			c.Abort()
			return
		}

		userID, ok := toUint64(raw)
		if !ok {
			apierrors.Unauthorized(c)
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			apierrors.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	raw, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUint64(raw)
}

// GetCurrentUser retrieves the resolved user record from context
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	raw, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := raw.(models.User)
	if !ok {
		return nil, false
	}
	return &user, true
}

func toUint64(v interface{}) (uint64, bool) {
	switch n := v.(type) {
	case uint64:
		return n, true
	case uint:
		return uint64(n), true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	default:
		return 0, false
	}
}
