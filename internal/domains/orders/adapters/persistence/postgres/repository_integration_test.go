//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres

import (
	"context"
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

	catalogpostgres "github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogdomain "github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/domain"
	"github.com/AhmetSulu/online-shopping-api/internal/domains/orders/application"
	"github.com/AhmetSulu/online-shopping-api/internal/domains/orders/domain"
	"github.com/AhmetSulu/online-shopping-api/internal/domains/orders/ports"
	"github.com/AhmetSulu/online-shopping-api/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
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

func seedProduct(t *testing.T, db *gorm.DB, id int64, name string, price decimal.Decimal, stock int) {
	t.Helper()
	products := catalogpostgres.NewRepository(db)
	product, err := catalogdomain.NewProduct(id, name, price, stock)
	require.NoError(t, err)
	_, err = products.Save(context.Background(), product)
	require.NoError(t, err)
}

func productStock(t *testing.T, db *gorm.DB, id int64) int {
	t.Helper()
	product, err := catalogpostgres.NewRepository(db).GetByID(context.Background(), id)
	require.NoError(t, err)
	return product.StockQuantity
}

func newService(db *gorm.DB, opts ...application.Option) *application.Service {
	return application.NewService(NewRepository(db), NewLedger(db), NewTxManager(db), opts...)
}

func TestPostgresOrders_CreateReservesStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	seedProduct(t, db, 1, "Laptop", decimal.NewFromInt(1200), 10)
	seedProduct(t, db, 2, "Mouse", decimal.NewFromFloat(25.50), 3)

	svc := newService(db)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, ports.CreateOrderInput{
		CustomerID: 7,
		Lines: []ports.LineRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 3},
		},
	})
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromFloat(2476.50)))

	assert.Equal(t, 8, productStock(t, db, 1))
	assert.Equal(t, 0, productStock(t, db, 2))

	retrieved, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, retrieved.Lines, 2)
	assert.True(t, retrieved.TotalAmount.Equal(order.TotalAmount))
	assert.False(t, retrieved.Audit.CreatedAt.IsZero())
}

func TestPostgresOrders_FailedLineRollsBackReservations(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	seedProduct(t, db, 1, "Laptop", decimal.NewFromInt(1200), 10)

	svc := newService(db)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, ports.CreateOrderInput{
		CustomerID: 7,
		Lines: []ports.LineRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 99, Quantity: 1},
		},
	})
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	// the first line's decrement must not survive the rolled back transaction
	assert.Equal(t, 10, productStock(t, db, 1))

	orders, err := svc.GetAllOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestPostgresOrders_InsufficientStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	seedProduct(t, db, 1, "Mouse", decimal.NewFromFloat(25.50), 3)

	svc := newService(db)

	_, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID: 7,
		Lines:      []ports.LineRequest{{ProductID: 1, Quantity: 4}},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 3, productStock(t, db, 1))
}

func TestPostgresOrders_UpdateReplacesLines(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	seedProduct(t, db, 1, "Laptop", decimal.NewFromInt(1200), 10)
	seedProduct(t, db, 2, "Mouse", decimal.NewFromFloat(25.50), 3)

	svc := newService(db)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, ports.CreateOrderInput{
		CustomerID: 7,
		Lines:      []ports.LineRequest{{ProductID: 1, Quantity: 3}},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateOrder(ctx, ports.UpdateOrderInput{
		OrderID:   order.ID,
		OrderDate: order.OrderDate,
		Lines: []ports.LineRequest{
			{ProductID: 1, Quantity: 1},
			{ProductID: 2, Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Len(t, updated.Lines, 2)
	assert.True(t, updated.TotalAmount.Equal(decimal.NewFromFloat(1251.00)))

	// the old reservation was credited before the new one was taken
	assert.Equal(t, 9, productStock(t, db, 1))
	assert.Equal(t, 1, productStock(t, db, 2))
}

func TestPostgresOrders_SoftDeleteAndPurge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	seedProduct(t, db, 1, "Laptop", decimal.NewFromInt(1200), 10)

	svc := newService(db)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, ports.CreateOrderInput{
		CustomerID: 7,
		Lines:      []ports.LineRequest{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(ctx, order.ID))

	_, err = svc.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	// a fresh delete of the same order must also report not found
	assert.ErrorIs(t, svc.DeleteOrder(ctx, order.ID), ports.ErrNotFound)

	repo := NewRepository(db)
	purged, err := repo.HardDeleteBefore(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	purged, err = repo.HardDeleteBefore(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Zero(t, purged)
}

func TestPostgresOrders_RestoreOnDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	seedProduct(t, db, 1, "Laptop", decimal.NewFromInt(1200), 10)

	svc := newService(db, application.WithRestoreOnDelete(true))
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, ports.CreateOrderInput{
		CustomerID: 7,
		Lines:      []ports.LineRequest{{ProductID: 1, Quantity: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, productStock(t, db, 1))

	require.NoError(t, svc.DeleteOrder(ctx, order.ID))
	assert.Equal(t, 10, productStock(t, db, 1))
}
