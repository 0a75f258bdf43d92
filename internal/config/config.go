package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig is the process configuration, loaded from environment variables.
type AppConfig struct {
	Port string

	// DatabaseURL enables the PostgreSQL stores; empty runs on the
	// in-memory store.
	DatabaseURL string

	// RedisAddr enables the current-weather cache; empty disables it.
	RedisAddr string
	CacheTTL  time.Duration

	// KafkaBrokers enables alert-event publishing; empty disables it.
	KafkaBrokers    []string
	KafkaAlertTopic string

	// FetchInterval controls how often the scheduler refreshes all cities.
	FetchInterval time.Duration

	// HTTPTimeout bounds each outbound provider call.
	HTTPTimeout time.Duration

	// OpenMeteoBaseURL overrides the provider endpoint (tests, proxies).
	OpenMeteoBaseURL string

	// ProviderRPS/ProviderBurst bound outbound request rate to the provider.
	ProviderRPS   float64
	ProviderBurst int

	// WindowHours is the heat-wave detector scan horizon.
	WindowHours int

	// In-memory store retention (used when DatabaseURL is empty).
	StoreMaxHistory int
	StoreMaxAge     time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.KafkaAlertTopic = getenvDefault("KAFKA_ALERT_TOPIC", "heat-alerts")

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	var err error
	if cfg.CacheTTL, err = getenvDuration("CACHE_TTL", "10m"); err != nil {
		return nil, err
	}
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}

	cfg.OpenMeteoBaseURL = os.Getenv("OPENMETEO_BASE_URL")
	cfg.ProviderRPS = getenvFloat("PROVIDER_RPS", 5)
	cfg.ProviderBurst = getenvInt("PROVIDER_BURST", 10)
	cfg.WindowHours = getenvInt("FORECAST_WINDOW_HOURS", 72)
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 96) // roughly 24h at 15-minute intervals

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
