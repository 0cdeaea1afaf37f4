//go:build unit

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"parkbridge/internal/handler/middleware"
	"parkbridge/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T, tokens *jwt.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	auth := middleware.NewAuthMiddleware(tokens)
	router.GET("/protected", auth.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": middleware.GetUsername(c)})
	})
	return router
}

func performGet(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	tokens := jwt.NewService("test-secret", time.Hour)
	router := newAuthRouter(t, tokens)

	t.Run("valid token passes and exposes the username", func(t *testing.T) {
		token, err := tokens.GenerateToken("admin")
		require.NoError(t, err)

		rec := performGet(router, "Bearer "+token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"username":"admin"`)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		rec := performGet(router, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		rec := performGet(router, "Token abc")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with a different secret is rejected", func(t *testing.T) {
		other := jwt.NewService("other-secret", time.Hour)
		token, err := other.GenerateToken("admin")
		require.NoError(t, err)

		rec := performGet(router, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		expired := jwt.NewService("test-secret", -time.Minute)
		token, err := expired.GenerateToken("admin")
		require.NoError(t, err)

		rec := performGet(router, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
