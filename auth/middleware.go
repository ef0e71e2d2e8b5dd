package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const contextTokenKey = "access_token"

// RequireToken extracts the caller's access token from the session cookie or
// an Authorization header and aborts with 401 when neither is present. The
// token is forwarded verbatim to the remote API; this service never
// validates it itself.
func RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AccessTokenCookie)
		if err != nil || token == "" {
			header := c.GetHeader("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimPrefix(header, "Bearer ")
			}
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		c.Set(contextTokenKey, token)
		c.Next()
	}
}

// TokenFromContext returns the access token stored by RequireToken
func TokenFromContext(c *gin.Context) string {
	return c.GetString(contextTokenKey)
}
