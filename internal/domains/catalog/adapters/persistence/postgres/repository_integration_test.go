//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/domain"
	"github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/ports"
	"github.com/AhmetSulu/online-shopping-api/internal/platform/migrations"
)

func setupCatalogPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("shop_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestCatalogRepository_SaveAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	product, err := domain.NewProduct(0, "Keyboard", decimal.NewFromFloat(49.90), 12)
	require.NoError(t, err)
	require.NoError(t, product.UpdateCategory(domain.CategoryElectronics))
	product.ImageURLs = []string{"http://example.com/keyboard.jpg"}

	saved, err := repo.Save(ctx, product)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.False(t, saved.Audit.CreatedAt.IsZero())

	retrieved, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keyboard", retrieved.Name)
	assert.True(t, retrieved.Price.Equal(decimal.NewFromFloat(49.90)))
	assert.Equal(t, 12, retrieved.StockQuantity)
	assert.Equal(t, domain.CategoryElectronics, retrieved.Category)
	assert.Equal(t, []string{"http://example.com/keyboard.jpg"}, retrieved.ImageURLs)
}

func TestCatalogRepository_GetByName(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	product, err := domain.NewProduct(0, "Monitor", decimal.NewFromInt(199), 3)
	require.NoError(t, err)
	_, err = repo.Save(ctx, product)
	require.NoError(t, err)

	found, err := repo.GetByName(ctx, "monitor")
	require.NoError(t, err)
	assert.Equal(t, "Monitor", found.Name)

	_, err = repo.GetByName(ctx, "no such thing")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestCatalogRepository_ListExcludesDeleted(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	var lastID int64
	for i := 1; i <= 3; i++ {
		product, err := domain.NewProduct(0, fmt.Sprintf("Product %d", i), decimal.NewFromInt(int64(i)), i)
		require.NoError(t, err)
		saved, err := repo.Save(ctx, product)
		require.NoError(t, err)
		lastID = saved.ID
	}

	require.NoError(t, repo.Delete(ctx, lastID))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = repo.GetByID(ctx, lastID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, lastID), ports.ErrNotFound)
}

func TestCatalogRepository_UpdatePreservesCreatedAt(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	product, err := domain.NewProduct(0, "Cable", decimal.NewFromFloat(4.99), 100)
	require.NoError(t, err)
	saved, err := repo.Save(ctx, product)
	require.NoError(t, err)
	createdAt := saved.Audit.CreatedAt

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, saved.SetPrice(decimal.NewFromFloat(5.49)))
	updated, err := repo.Save(ctx, saved)
	require.NoError(t, err)

	assert.True(t, updated.Price.Equal(decimal.NewFromFloat(5.49)))
	assert.Equal(t, createdAt.Unix(), updated.Audit.CreatedAt.Unix())
	assert.True(t, updated.Audit.ModifiedAt.After(createdAt))
}
