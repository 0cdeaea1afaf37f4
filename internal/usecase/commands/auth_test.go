//go:build unit

package commands_test

import (
	"testing"
	"time"

	"parkbridge/internal/pkg/config"
	"parkbridge/internal/pkg/jwt"
	"parkbridge/internal/pkg/password"
	"parkbridge/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthLogin(t *testing.T) {
	hash, err := password.Hash("s3cret-pass")
	require.NoError(t, err)

	tokens := jwt.NewService("test-secret", time.Hour)
	uc := commands.NewAuthUseCase(config.APIConfig{
		Username:     "admin",
		PasswordHash: hash,
	}, tokens)

	t.Run("valid credentials yield a verifiable token", func(t *testing.T) {
		token, err := uc.Login(t.Context(), "admin", "s3cret-pass")
		require.NoError(t, err)

		subject, err := tokens.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "admin", subject)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := uc.Login(t.Context(), "admin", "wrong")
		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})

	t.Run("wrong username", func(t *testing.T) {
		_, err := uc.Login(t.Context(), "intruder", "s3cret-pass")
		assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})
}
