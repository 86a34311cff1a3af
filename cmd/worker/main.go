package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	appapi "github.com/AhmetSulu/online-shopping-api/internal/app/api"
	catalogmemory "github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/adapters/memory"
	ordersmemory "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/application"
	ordersports "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/ports"
	orderworkflows "github.com/AhmetSulu/online-shopping-api/internal/durable/temporal/workflows/orders"
	"github.com/AhmetSulu/online-shopping-api/internal/platform/migrations"
	platformobservability "github.com/AhmetSulu/online-shopping-api/internal/platform/observability"
	platformpostgres "github.com/AhmetSulu/online-shopping-api/internal/platform/postgres"
	orderactivities "github.com/AhmetSulu/online-shopping-api/internal/platform/temporal/activities/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "shopping-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := appapi.LoadConfig()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	orderService, cleanupStores := buildOrderService(ctx, cfg, instruments)
	defer cleanupStores()
	orderActivities := orderactivities.NewActivities(orderService)

	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer("temporal-worker"),
	})
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(orderActivities.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPlacementTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildOrderService(ctx context.Context, cfg appapi.Config, instruments *platformobservability.Instruments) (ordersports.Service, func()) {
	logger := instruments.Logger
	var (
		orders  ordersports.Repository
		ledger  ordersports.InventoryLedger
		tx      ordersports.TxManager
		cleanup = func() {}
	)
	db, dbCleanup := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	if db != nil {
		if err := migrations.Run(db); err != nil {
			logger.Warn("failed to run migrations", slog.String("error", err.Error()))
		}
		orders = orderspostgres.NewRepository(db)
		ledger = orderspostgres.NewLedger(db)
		tx = orderspostgres.NewTxManager(db)
		cleanup = dbCleanup
		logger.Info("worker order stores configured with postgres")
	} else {
		store := ordersmemory.NewStore(catalogmemory.NewRepository())
		orders, ledger, tx = store, store, store
		logger.Warn("worker falling back to in-memory order stores")
	}

	service := ordersobs.New(
		ordersapp.NewService(orders, ledger, tx, ordersapp.WithRestoreOnDelete(cfg.RestoreStockOnDelete)),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	return service, cleanup
}
