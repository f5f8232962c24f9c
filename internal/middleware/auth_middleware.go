package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"tasktracker/internal/model"
	"tasktracker/internal/web"
)

// UserKey is the gin context key holding the resolved *model.User.
const UserKey = "current_user"

// UserResolver turns a session token into a user, nil for anonymous.
type UserResolver interface {
	CurrentUser(ctx context.Context, token string) (*model.User, error)
}

// SessionAuth resolves the session cookie on every request. Requests without
// a valid session continue as anonymous.
func SessionAuth(resolver UserResolver, cookieName string, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		user, err := resolver.CurrentUser(c.Request.Context(), token)
		if err != nil {
			logger.Error().
				Err(err).
				Msg("failed to resolve session")
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		if user != nil {
			c.Set(UserKey, user)
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c *gin.Context) *model.User {
	value, exists := c.Get(UserKey)
	if !exists {
		return nil
	}
	user, _ := value.(*model.User)
	return user
}

// RequireUser sends anonymous visitors of HTML pages to the login form.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			web.SetFlash(c, web.FlashInfo, "Please log in to access this page.")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAPIUser rejects anonymous API calls with a JSON error.
func RequireAPIUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
			return
		}
		c.Next()
	}
}
