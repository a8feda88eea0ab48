package middlewares

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Keep these interfaces small so tests can fake them easily.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

type AccountChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type AuthMiddleware struct {
	jwt      TokenVerifier
	accounts AccountChecker
}

func NewAuthMiddleware(jwt TokenVerifier, accounts AccountChecker) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, accounts: accounts}
}

const ctxAccountIDKey = "auth.accountID"

// RequireAuth reads the raw token from the Authorization header. There is
// no "Bearer " prefix on this API; the header value is the token itself.
// Missing header, bad token, expired token and a token whose account no
// longer exists all produce the same 401 body.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		if raw == "" {
			unauthorized(c)
			return
		}

		accountID, err := m.jwt.Verify(raw)
		if err != nil {
			unauthorized(c)
			return
		}

		ok, err := m.accounts.Exists(c.Request.Context(), accountID)
		if err != nil || !ok {
			unauthorized(c)
			return
		}

		// Stash the verified identity on the context
		c.Set(ctxAccountIDKey, accountID)

		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "unauthorized",
			"message": "Unauthorized",
		},
	})
}

// Helper so handlers don't need to know the magic key.

func AccountIDFromContext(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ctxAccountIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
