//go:build unit

package ownership_test

import (
	"io"
	"log/slog"
	"testing"

	"parkbridge/internal/ownership"
	ownershipmock "parkbridge/tests/mock/ownership"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const entryID = "resident@example.com"

func newStore(t *testing.T) (*ownership.Store, *ownershipmock.MockRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := ownershipmock.NewMockRepository(ctrl)
	store := ownership.NewStore(repo, entryID, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return store, repo
}

func TestStoreLoad(t *testing.T) {
	t.Run("replaces the in-memory set", func(t *testing.T) {
		store, repo := newStore(t)
		repo.EXPECT().Load(gomock.Any(), entryID).Return([]int64{3, 1, 2}, nil)

		require.NoError(t, store.Load(t.Context()))
		assert.Equal(t, []int64{1, 2, 3}, store.IDs())
	})

	t.Run("drops non-positive IDs from legacy data", func(t *testing.T) {
		store, repo := newStore(t)
		repo.EXPECT().Load(gomock.Any(), entryID).Return([]int64{0, -5, 7}, nil)

		require.NoError(t, store.Load(t.Context()))
		assert.Equal(t, []int64{7}, store.IDs())
	})
}

func TestStoreAddRemove(t *testing.T) {
	t.Run("add persists the updated set", func(t *testing.T) {
		store, repo := newStore(t)
		repo.EXPECT().Save(gomock.Any(), entryID, []int64{5}).Return(nil)

		require.NoError(t, store.Add(t.Context(), 5))
		assert.True(t, store.Contains(5))
	})

	t.Run("duplicate add does not persist again", func(t *testing.T) {
		store, repo := newStore(t)
		repo.EXPECT().Save(gomock.Any(), entryID, []int64{5}).Return(nil).Times(1)

		require.NoError(t, store.Add(t.Context(), 5))
		require.NoError(t, store.Add(t.Context(), 5))
	})

	t.Run("non-positive IDs are ignored", func(t *testing.T) {
		store, _ := newStore(t)
		require.NoError(t, store.Add(t.Context(), 0))
		require.NoError(t, store.Add(t.Context(), -1))
		assert.Empty(t, store.IDs())
	})

	t.Run("batch remove persists once", func(t *testing.T) {
		store, repo := newStore(t)
		gomock.InOrder(
			repo.EXPECT().Save(gomock.Any(), entryID, []int64{5}).Return(nil),
			repo.EXPECT().Save(gomock.Any(), entryID, []int64{5, 6}).Return(nil),
			repo.EXPECT().Save(gomock.Any(), entryID, []int64{}).Return(nil),
		)

		require.NoError(t, store.Add(t.Context(), 5))
		require.NoError(t, store.Add(t.Context(), 6))
		require.NoError(t, store.Remove(t.Context(), 5, 6, 99))
		assert.Empty(t, store.IDs())
	})

	t.Run("removing unknown IDs is a no-op", func(t *testing.T) {
		store, _ := newStore(t)
		require.NoError(t, store.Remove(t.Context(), 1, 2))
	})
}

func TestStorePruneTo(t *testing.T) {
	t.Run("intersects with live reservations", func(t *testing.T) {
		store, repo := newStore(t)
		repo.EXPECT().Load(gomock.Any(), entryID).Return([]int64{1, 2, 3}, nil)
		repo.EXPECT().Save(gomock.Any(), entryID, []int64{2}).Return(nil)

		require.NoError(t, store.Load(t.Context()))

		changed, err := store.PruneTo(t.Context(), map[int64]struct{}{2: {}})
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, []int64{2}, store.IDs())
	})

	t.Run("does not persist when nothing changed", func(t *testing.T) {
		store, repo := newStore(t)
		repo.EXPECT().Load(gomock.Any(), entryID).Return([]int64{1}, nil)

		require.NoError(t, store.Load(t.Context()))

		changed, err := store.PruneTo(t.Context(), map[int64]struct{}{1: {}, 9: {}})
		require.NoError(t, err)
		assert.False(t, changed)
	})
}
