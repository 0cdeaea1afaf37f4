//go:build unit

package password_test

import (
	"testing"

	"parkbridge/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	t.Run("hash verifies against the original password", func(t *testing.T) {
		hash, err := password.Hash("correct horse battery staple")
		require.NoError(t, err)
		assert.NotEqual(t, "correct horse battery staple", hash)
		assert.NoError(t, password.Compare(hash, "correct horse battery staple"))
	})

	t.Run("mismatch is reported", func(t *testing.T) {
		hash, err := password.Hash("correct horse battery staple")
		require.NoError(t, err)
		assert.ErrorIs(t, password.Compare(hash, "wrong"), password.ErrComparisonFailed)
	})

	t.Run("empty inputs are rejected", func(t *testing.T) {
		_, err := password.Hash("")
		assert.ErrorIs(t, err, password.ErrInvalidPassword)
		assert.ErrorIs(t, password.Compare("", "x"), password.ErrInvalidPassword)
		assert.ErrorIs(t, password.Compare("hash", ""), password.ErrInvalidPassword)
	})
}
