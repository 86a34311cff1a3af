package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port                 string
	PostgresDSN          string
	RedisAddr            string
	KafkaBrokers         []string
	KafkaOrdersTopic     string
	TemporalAddress      string
	TemporalNamespace    string
	TemporalDisabled     bool
	SessionTTL           time.Duration
	OrderRetentionDays   int
	RestoreStockOnDelete bool
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:                 envDefault("PORT", "8080"),
		PostgresDSN:          strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisAddr:            strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		KafkaOrdersTopic:     envDefault("KAFKA_ORDERS_TOPIC", "shop.orders"),
		TemporalAddress:      envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:    envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:     isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		SessionTTL:           24 * time.Hour,
		OrderRetentionDays:   30,
		RestoreStockOnDelete: isTruthy(os.Getenv("RESTORE_STOCK_ON_DELETE")),
	}
	if raw := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); raw != "" {
		for _, broker := range strings.Split(raw, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
			}
		}
	}
	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("SESSION_TTL_HOURS must be a positive integer")
		}
		cfg.SessionTTL = time.Duration(hours) * time.Hour
	}
	if raw := strings.TrimSpace(os.Getenv("ORDER_RETENTION_DAYS")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			return Config{}, fmt.Errorf("ORDER_RETENTION_DAYS must be a positive integer")
		}
		cfg.OrderRetentionDays = days
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
