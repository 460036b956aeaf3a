package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventfinder/eventfinder/internal/helpers"
	"github.com/eventfinder/eventfinder/internal/models"
	"github.com/eventfinder/eventfinder/internal/services"
)

const currentUserKey = "current_user"

// AuthMiddleware verifies the bearer token and resolves it to a local user
// row, which is threaded through the request context. No ambient auth
// state exists outside the context value.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := helpers.BearerToken(c)
		if !ok {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		identity, err := helpers.VerifyToken(token)
		if err != nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid token")
			c.Abort()
			return
		}

		db := GetDB(c)
		if db == nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found")
			c.Abort()
			return
		}

		user, err := services.NewIdentityService(db).FindByIdentityKey(identity.Key)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				helpers.RespondWithError(c, http.StatusUnauthorized, "User not found")
			} else {
				helpers.RespondWithError(c, http.StatusInternalServerError, "Error resolving user")
			}
			c.Abort()
			return
		}

		if !user.IsActive {
			helpers.RespondWithError(c, http.StatusForbidden, "Account is inactive")
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// RequireRole gates a route group behind a minimum role level.
func RequireRole(minimum models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		if user.Role.Level() < minimum.Level() {
			message := "Admin access required"
			if minimum == models.RoleOwner {
				message = "Owner access required"
			}
			helpers.RespondWithError(c, http.StatusForbidden, message)
			c.Abort()
			return
		}

		c.Next()
	}
}
