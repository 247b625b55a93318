package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/elijahbrown/collabhub/internal/auth"
)

// ContextKeyAdminEmail is the gin.Context key the validated admin
// identity is stored under. A constant rather than an inline string:
// a typo in c.Get("admn_email") compiles fine and silently returns
// nil, a typo in the constant name does not compile.
const (
	ContextKeyAdminEmail = "admin_email"
)

// AuthMiddleware validates the bearer token on every management-API
// request. Invalid or missing token aborts the chain with a 401; the
// handler never runs.
//
// Why take `secret` as a parameter?
//   - The middleware never imports the config package; main.go passes
//     cfg.JWTSecret when wiring things up.
//   - Tests pass whatever secret they signed their tokens with.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Step 1: the Authorization header, expected as
		// "Bearer eyJhbGciOi...".
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing authorization header",
			})
			return
		}

		// Step 2: split off the scheme and keep the token string.
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid authorization format, expected: Bearer <token>",
			})
			return
		}

		// Step 3: parse and validate — signature, expiry, signing method.
		claims, err := auth.ParseToken(parts[1], secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		// Step 4: stash the identity so handlers can read it without
		// parsing the token again.
		c.Set(ContextKeyAdminEmail, claims.Email)
		c.Next()
	}
}

// GetAdminEmail reads the validated identity back out of the request
// context. Handlers use this instead of c.Get directly so the type
// assertion lives in one place; a missing key yields "".
func GetAdminEmail(c *gin.Context) string {
	val, exists := c.Get(ContextKeyAdminEmail)
	if !exists {
		return ""
	}
	email, ok := val.(string)
	if !ok {
		return ""
	}
	return email
}
