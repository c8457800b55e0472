package middleware

import (
	"github.com/gin-gonic/gin"

	apierrors "github.com/Entelsac/ENTEL-SAC/internal/errors"
	"github.com/Entelsac/ENTEL-SAC/internal/models"
)

// RequireRole gates a route group to the given roles. Must run after
// RequireAuth. The denial body carries no detail about what lives behind
// the gate.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c)
			c.Abort()
			return
		}

		if _, ok := allowed[user.Role]; !ok {
			apierrors.Forbidden(c)
			c.Abort()
			return
		}

		c.Next()
	}
}
