package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/senalert/alerte-chaleur/internal/api/http"
	"github.com/senalert/alerte-chaleur/internal/cache"
	"github.com/senalert/alerte-chaleur/internal/config"
	"github.com/senalert/alerte-chaleur/internal/notify"
	"github.com/senalert/alerte-chaleur/internal/scheduler"
	"github.com/senalert/alerte-chaleur/internal/store"
	"github.com/senalert/alerte-chaleur/internal/weather"
	"github.com/senalert/alerte-chaleur/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Persistence: PostgreSQL when configured, in-memory otherwise.
	var (
		alertStore   store.AlertStore
		historyStore store.HistoryStore
	)
	if cfg.DatabaseURL != "" {
		pg, err := store.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer pg.Close()
		alertStore, historyStore = pg, pg
	} else {
		log.Println("INFO: DATABASE_URL not set; using in-memory store")
		mem := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
		alertStore, historyStore = mem, mem
	}

	opts := weather.ServiceOptions{WindowHours: cfg.WindowHours}

	// Optional Redis cache for current conditions.
	if cfg.RedisAddr != "" {
		c, err := cache.New(cfg.RedisAddr, cfg.CacheTTL)
		if err != nil {
			log.Printf("WARN: redis unavailable, running without cache: %v", err)
		} else {
			defer c.Close()
			opts.Cache = c
		}
	}

	// Optional Kafka producer for alert events.
	if len(cfg.KafkaBrokers) > 0 {
		producer := notify.NewProducer(cfg.KafkaBrokers, cfg.KafkaAlertTopic)
		defer producer.Close()
		opts.Publisher = producer
	}

	// Open-Meteo provider with resilience (rate limit + backoff + breaker).
	provider := providers.NewOpenMeteoProvider(httpClient, cfg.OpenMeteoBaseURL, cfg.ProviderRPS, cfg.ProviderBurst)

	// Core service orchestrating provider, detector, and stores.
	service := weather.NewService(provider, alertStore, historyStore, opts)

	// Scheduler that periodically refreshes data and alerts.
	sched := scheduler.New(cfg.FetchInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "alerte-chaleur",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "alerte-chaleur",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
