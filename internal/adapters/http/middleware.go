package http

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/dkeye/Collab/internal/auth"
	"github.com/dkeye/Collab/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const userKey = "user"

type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (domain.User, error)
}

// BearerAuthMiddleware resolves the caller before any handler runs. Browsers
// cannot set headers on a websocket upgrade, so the token query parameter is
// accepted as a fallback.
func BearerAuthMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := auth.BearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			raw = c.Query("token")
		}
		user, err := authn.Authenticate(c.Request.Context(), raw)
		if err != nil {
			log.Info().Err(err).Str("module", "adapters.http").Str("path", c.FullPath()).Msg("unauthenticated")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// InternalKeyMiddleware guards service-to-service routes. An empty key disables them.
func InternalKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader("X-Internal-Key")
		if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) domain.User {
	u, _ := c.Get(userKey)
	user, _ := u.(domain.User)
	return user
}
