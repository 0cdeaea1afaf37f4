package middleware

import (
	"net/http"
	"strings"

	"parkbridge/internal/handler/httperr"
	"parkbridge/internal/pkg/errs"
	"parkbridge/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

const usernameKey = "auth_username"

type AuthMiddleware struct {
	tokens commands.TokenValidator
}

func NewAuthMiddleware(tokens commands.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth rejects requests without a valid bearer token.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized,
				errs.New("missing authorization header"), "Authentication required", nil)
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized,
				errs.New("malformed authorization header"), "Authentication required", nil)
			return
		}

		username, err := m.tokens.ValidateToken(token)
		if err != nil {
			httperr.AbortWithError(c, http.StatusUnauthorized,
				errs.Wrap(err, "token validation failed"), "Invalid or expired token", nil)
			return
		}

		c.Set(usernameKey, username)
		c.Next()
	}
}

func GetUsername(c *gin.Context) string {
	if v, exists := c.Get(usernameKey); exists {
		if username, ok := v.(string); ok {
			return username
		}
	}
	return ""
}
