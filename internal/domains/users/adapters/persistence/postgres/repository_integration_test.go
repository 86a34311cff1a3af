//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/users/domain"
	"github.com/AhmetSulu/online-shopping-api/internal/domains/users/ports"
	"github.com/AhmetSulu/online-shopping-api/internal/platform/migrations"
)

func setupUsersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
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

func TestRepository_SaveAndGetByUsername(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	user, err := domain.NewUser("alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	saved, err := repo.Save(ctx, user)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, "alice", saved.Username)

	fetched, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, fetched.ID)
	assert.Equal(t, "alice@example.com", fetched.Email)
	assert.True(t, fetched.CheckPassword("s3cret-pass"))

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_UpdateKeepsIdentity(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	user, err := domain.NewUser("alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	saved, err := repo.Save(ctx, user)
	require.NoError(t, err)

	require.NoError(t, saved.SetPassword("n3w-password"))
	require.NoError(t, saved.SetEmail("alice.new@example.com"))
	updated, err := repo.Save(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)
	assert.True(t, updated.CheckPassword("n3w-password"))
	assert.Equal(t, "alice.new@example.com", updated.Email)
}

func TestRepository_ListAndDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	for _, name := range []string{"alice", "bob"} {
		user, err := domain.NewUser(name, name+"@example.com", "s3cret-pass")
		require.NoError(t, err)
		_, err = repo.Save(ctx, user)
		require.NoError(t, err)
	}

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	require.NoError(t, repo.Delete(ctx, "alice"))
	_, err = repo.GetByUsername(ctx, "alice")
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "alice"), ports.ErrNotFound)
}

func TestSessionStore_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	store := NewSessionStore(db, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok-1", "alice"))
	require.NoError(t, store.Save(ctx, "tok-2", "alice"))

	username, err := store.Resolve(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	require.NoError(t, store.DeleteByUsername(ctx, "alice"))
	_, err = store.Resolve(ctx, "tok-1")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
	_, err = store.Resolve(ctx, "tok-2")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_ExpiredTokensAreInvisible(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	store := NewSessionStore(db, time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok-1", "alice"))
	time.Sleep(50 * time.Millisecond)

	_, err := store.Resolve(ctx, "tok-1")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	require.NoError(t, store.PurgeExpired(ctx))
}
