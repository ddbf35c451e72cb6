package persistence

import (
	"context"
	"testing"

	"github.com/hustle/backend/internal/domain/seller"
	"github.com/hustle/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSellerTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&seller.Seller{})
	require.NoError(t, err)

	return db
}

func TestSellerRepository_CreateIfAbsent(t *testing.T) {
	db := setupSellerTestDB(t)
	repo := NewGormSellerRepository(db)
	ctx := context.Background()

	t.Run("inserts new seller", func(t *testing.T) {
		s, err := seller.NewSeller("15551230001", "aaaa1111")
		require.NoError(t, err)

		created, err := repo.CreateIfAbsent(ctx, s)
		require.NoError(t, err)
		assert.True(t, created)

		found, err := repo.FindByChannelID(ctx, "15551230001")
		require.NoError(t, err)
		assert.Equal(t, s.ID, found.ID)
		assert.Equal(t, "aaaa1111", found.CatalogSlug)
	})

	t.Run("second insert for same channel is a no-op", func(t *testing.T) {
		first, err := seller.NewSeller("15551230002", "bbbb2222")
		require.NoError(t, err)
		created, err := repo.CreateIfAbsent(ctx, first)
		require.NoError(t, err)
		require.True(t, created)

		second, err := seller.NewSeller("15551230002", "cccc3333")
		require.NoError(t, err)
		created, err = repo.CreateIfAbsent(ctx, second)
		require.NoError(t, err)
		assert.False(t, created)

		// The winner's row is untouched
		found, err := repo.FindByChannelID(ctx, "15551230002")
		require.NoError(t, err)
		assert.Equal(t, first.ID, found.ID)
		assert.Equal(t, "bbbb2222", found.CatalogSlug)
	})
}

func TestSellerRepository_FindBySlug(t *testing.T) {
	db := setupSellerTestDB(t)
	repo := NewGormSellerRepository(db)
	ctx := context.Background()

	s, err := seller.NewSeller("15551230003", "dddd4444")
	require.NoError(t, err)
	_, err = repo.CreateIfAbsent(ctx, s)
	require.NoError(t, err)

	t.Run("finds existing slug", func(t *testing.T) {
		found, err := repo.FindBySlug(ctx, "dddd4444")
		require.NoError(t, err)
		assert.Equal(t, s.ID, found.ID)
	})

	t.Run("unknown slug fails not found", func(t *testing.T) {
		_, err := repo.FindBySlug(ctx, "zzzz9999")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("SlugExists reflects assignment", func(t *testing.T) {
		exists, err := repo.SlugExists(ctx, "dddd4444")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.SlugExists(ctx, "zzzz9999")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestSellerRepository_Save(t *testing.T) {
	db := setupSellerTestDB(t)
	repo := NewGormSellerRepository(db)
	ctx := context.Background()

	s, err := seller.NewSeller("15551230004", "eeee5555")
	require.NoError(t, err)
	_, err = repo.CreateIfAbsent(ctx, s)
	require.NoError(t, err)

	require.NoError(t, s.UpdateProfile("Ada's Shoes"))
	require.NoError(t, repo.Save(ctx, s))

	found, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada's Shoes", found.DisplayName)
}
