package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	catalogmemory "github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/application"
	catalogports "github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/ports"
	orderskafka "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/adapters/events/kafka"
	ordersmemory "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/application"
	ordersports "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/ports"
	settingsmemory "github.com/AhmetSulu/online-shopping-api/internal/domains/settings/adapters/memory"
	settingspostgres "github.com/AhmetSulu/online-shopping-api/internal/domains/settings/adapters/persistence/postgres"
	settingsapp "github.com/AhmetSulu/online-shopping-api/internal/domains/settings/application"
	settingsports "github.com/AhmetSulu/online-shopping-api/internal/domains/settings/ports"
	usersmemory "github.com/AhmetSulu/online-shopping-api/internal/domains/users/adapters/memory"
	usersobs "github.com/AhmetSulu/online-shopping-api/internal/domains/users/adapters/observability"
	userspostgres "github.com/AhmetSulu/online-shopping-api/internal/domains/users/adapters/persistence/postgres"
	usersredis "github.com/AhmetSulu/online-shopping-api/internal/domains/users/adapters/redis"
	usersapp "github.com/AhmetSulu/online-shopping-api/internal/domains/users/application"
	usersports "github.com/AhmetSulu/online-shopping-api/internal/domains/users/ports"
	"github.com/AhmetSulu/online-shopping-api/internal/httpapi"
	"github.com/AhmetSulu/online-shopping-api/internal/platform/migrations"
	platformobservability "github.com/AhmetSulu/online-shopping-api/internal/platform/observability"
	platformpostgres "github.com/AhmetSulu/online-shopping-api/internal/platform/postgres"
)

// Run boots the shop HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "shopping-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	db, cleanupDB := connectDatabase(ctx, cfg, logger)
	defer cleanupDB()

	stores := buildStores(cfg, db, logger)

	catalogService := catalogobs.New(
		catalogapp.NewService(stores.products),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)

	orderOptions := []ordersapp.Option{ordersapp.WithRestoreOnDelete(cfg.RestoreStockOnDelete)}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := orderskafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaOrdersTopic, logger)
		defer publisher.Close()
		orderOptions = append(orderOptions, ordersapp.WithEventPublisher(publisher))
		logger.Info("order events enabled", slog.String("kafka.topic", cfg.KafkaOrdersTopic))
	}
	orderService := ordersobs.New(
		ordersapp.NewService(stores.orders, stores.ledger, stores.tx, orderOptions...),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	var orderWorkflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	userService := usersobs.New(
		usersapp.NewService(stores.users, stores.sessions),
		usersobs.WithLogger(logger),
		usersobs.WithTracer(instruments.Tracer("internal.users.application")),
		usersobs.WithMeter(instruments.Meter("internal.users.application")),
	)
	settingsService := settingsapp.NewService(stores.settings, logger)

	router := httpapi.NewRouter(httpapi.Handlers{
		Orders:   httpapi.NewOrderAPI(orderService, orderWorkflows),
		Products: httpapi.NewProductAPI(catalogService),
		Auth:     httpapi.NewAuthAPI(userService),
		Settings: httpapi.NewSettingsAPI(settingsService),
		Users:    userService,
	},
		otelgin.Middleware(serviceName),
		httpapi.Maintenance(settingsService),
	)

	addr := ":" + cfg.Port
	logger.Info("shopping API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("shopping API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// boundStores groups the persistence adapters so memory and postgres variants
// are swapped together. The orders store and the catalog repository must share
// state for the memory variant, which is why they are built in one place.
type boundStores struct {
	products catalogports.Repository
	orders   ordersports.Repository
	ledger   ordersports.InventoryLedger
	tx       ordersports.TxManager
	users    usersports.Repository
	sessions usersports.SessionStore
	settings settingsports.Repository
}

func connectDatabase(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory stores")
		return nil, func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return nil, func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to run migrations", slog.String("error", err.Error()))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("stores configured with postgres")
	return db, func() { _ = sqlDB.Close() }
}

func buildStores(cfg Config, db *gorm.DB, logger *slog.Logger) boundStores {
	if db == nil {
		productRepo := catalogmemory.NewRepository()
		orderStore := ordersmemory.NewStore(productRepo)
		return boundStores{
			products: productRepo,
			orders:   orderStore,
			ledger:   orderStore,
			tx:       orderStore,
			users:    usersmemory.NewRepository(),
			sessions: buildSessionStore(cfg, nil, logger),
			settings: settingsmemory.NewRepository(),
		}
	}
	return boundStores{
		products: catalogpostgres.NewRepository(db),
		orders:   orderspostgres.NewRepository(db),
		ledger:   orderspostgres.NewLedger(db),
		tx:       orderspostgres.NewTxManager(db),
		users:    userspostgres.NewRepository(db),
		sessions: buildSessionStore(cfg, db, logger),
		settings: settingspostgres.NewRepository(db),
	}
}

func buildSessionStore(cfg Config, db *gorm.DB, logger *slog.Logger) usersports.SessionStore {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		logger.Info("session store configured with redis", slog.String("redis.addr", cfg.RedisAddr))
		return usersredis.NewSessionStore(client, cfg.SessionTTL)
	}
	if db != nil {
		return userspostgres.NewSessionStore(db, cfg.SessionTTL)
	}
	return usersmemory.NewSessionStore(cfg.SessionTTL)
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
