package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"rental-backend/models"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// Authenticator resolves a bearer token to an active user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	utils.JSONError(c, http.StatusUnauthorized, message)
	c.Abort()
}

// RequireAuth rejects requests without a valid bearer token and stores the
// authenticated user on the context.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c, "not authenticated")
			return
		}
		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, services.ErrUnauthorized) {
				unauthorized(c, err.Error())
				return
			}
			slog.ErrorContext(c.Request.Context(), "authentication failed", "error", err)
			utils.JSONError(c, http.StatusInternalServerError, "internal server error")
			c.Abort()
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(authority string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			unauthorized(c, "not authenticated")
			return
		}
		if user.Role.Authority != authority {
			utils.JSONError(c, http.StatusForbidden, "this action requires the "+authority+" role")
			c.Abort()
			return
		}
		c.Next()
	}
}

func RequireOwner() gin.HandlerFunc { return RequireRole(models.AuthorityOwner) }
func RequireAdmin() gin.HandlerFunc { return RequireRole(models.AuthorityAdmin) }

// CurrentUser returns the user set by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
