package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	orderspostgres "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/adapters/persistence/postgres"
	platformpostgres "github.com/AhmetSulu/online-shopping-api/internal/platform/postgres"
)

// Removes soft-deleted orders past the retention window. Run from cron.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, strings.TrimSpace(os.Getenv("POSTGRES_DSN")), logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge orders")
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDaysFromEnv())
	repo := orderspostgres.NewRepository(db)
	purged, err := repo.HardDeleteBefore(ctx, cutoff)
	if err != nil {
		log.Fatalf("failed to purge orders: %v", err)
	}
	log.Printf("order purge completed: %d orders removed (cutoff %s)", purged, cutoff.Format(time.RFC3339))
}

func retentionDaysFromEnv() int {
	const defaultRetentionDays = 30
	raw := strings.TrimSpace(os.Getenv("ORDER_RETENTION_DAYS"))
	if raw == "" {
		return defaultRetentionDays
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return defaultRetentionDays
	}
	return days
}
