package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	principalKey  = "principal"
	SessionCookie = "session"
)

// Authenticate resolves the caller from a bearer token or the session cookie.
// Missing or invalid credentials leave the request anonymous; RequireAuth
// decides whether that is acceptable.
func Authenticate(tokens *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			raw, _ = c.Cookie(SessionCookie)
		}
		if raw != "" {
			if p, err := tokens.Parse(raw); err == nil {
				c.Set(principalKey, p)
			}
		}
		c.Next()
	}
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !PrincipalFrom(c).Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"kind":    "unauthorized",
				"message": "Unauthorized",
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin is the single place the role flag is checked.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := PrincipalFrom(c)
		if !p.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"kind":    "unauthorized",
				"message": "Unauthorized",
			})
			return
		}
		if !p.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"kind":    "forbidden",
				"message": "Forbidden",
			})
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the anonymous principal when none was resolved.
func PrincipalFrom(c *gin.Context) Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(Principal); ok {
			return p
		}
	}
	return Principal{}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
