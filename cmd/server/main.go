package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/arborhq/planwise/internal/adapter/ai/openai"
	"github.com/arborhq/planwise/internal/adapter/cache"
	"github.com/arborhq/planwise/internal/adapter/http/fiber/handlers"
	"github.com/arborhq/planwise/internal/adapter/http/fiber/middleware"
	"github.com/arborhq/planwise/internal/adapter/queue"
	"github.com/arborhq/planwise/internal/adapter/storage/file"
	"github.com/arborhq/planwise/internal/adapter/vault"
	"github.com/arborhq/planwise/internal/observability/telemetry"
	"github.com/arborhq/planwise/internal/ports"
	"github.com/arborhq/planwise/internal/service/explain"
	"github.com/arborhq/planwise/internal/service/recommendation"
	"github.com/arborhq/planwise/pkg/config"
)

const (
	serviceName    = "planwise"
	serviceVersion = "v1.0.0"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting Planwise",
		zap.String("service", serviceName),
		zap.String("version", serviceVersion),
	)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(serviceName, cfg.OpenTelemetry.Jaeger.Endpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// Redis when configured, in-memory otherwise. The cache only holds
	// enriched customer snapshots, so losing it costs a file re-read.
	var appCache ports.Cache
	if cfg.Redis.URL != "" {
		appCache, err = cache.NewRedisCache(cfg.Redis.URL, logger)
		if err != nil {
			logger.Warn("Redis unavailable, using in-memory cache", zap.Error(err))
			appCache = cache.NewLocalCache(cfg.Cache.CleanupInterval, logger)
		}
	} else {
		appCache = cache.NewLocalCache(cfg.Cache.CleanupInterval, logger)
	}
	defer appCache.Close()

	messageQueue := connectQueue(cfg, logger)
	if messageQueue != nil {
		defer messageQueue.Close()
	}

	store := file.NewStore(cfg.Data.Dir, logger)

	explainer := buildExplainer(cfg, logger)

	recService := recommendation.NewService(
		store, store, appCache, explainer, messageQueue, cfg.Cache.CustomerTTL, logger,
	)

	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ServerHeader:          serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.NewCORS(cfg.CORS))
	if cfg.RateLimiting.Enabled {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimiting.MaxRequests,
			Expiration: cfg.RateLimiting.Window,
		}))
	}
	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker(logger))
	}

	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		if err := appCache.Ping(); err != nil {
			return c.Status(503).SendString("Cache not ready")
		}
		if _, err := store.ListCustomers(c.Context()); err != nil {
			return c.Status(503).SendString("Data not ready")
		}
		return c.SendString("Ready")
	})

	if cfg.Prometheus.Enabled {
		app.Get(cfg.Prometheus.Path, func(c *fiber.Ctx) error {
			handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
			handler(c.Context())
			return nil
		})
	}

	v1 := app.Group("/api/v1")

	recHandler := handlers.NewRecommendationHandler(recService, logger)
	v1.Post("/recommendations", recHandler.Generate)

	customerHandler := handlers.NewCustomerHandler(store, logger)
	v1.Get("/customers", customerHandler.List)
	v1.Get("/customers/:id", customerHandler.Get)

	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// connectQueue picks the event transport: RabbitMQ when configured, then
// NATS. Events are best effort, so no transport just means no events.
func connectQueue(cfg *config.Config, logger *zap.Logger) queue.MessageQueue {
	if cfg.RabbitMQ.URL != "" {
		mq, err := queue.NewRabbitMQQueue(cfg.RabbitMQ.URL, logger)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, events disabled", zap.Error(err))
			return nil
		}
		return mq
	}
	if cfg.NATS.URL != "" {
		mq, err := queue.NewNATSQueue(cfg.NATS.URL, logger)
		if err != nil {
			logger.Warn("NATS unavailable, events disabled", zap.Error(err))
			return nil
		}
		return mq
	}
	return nil
}

// buildExplainer assembles the explanation pipeline. Without an API key the
// engine runs entirely on templates.
func buildExplainer(cfg *config.Config, logger *zap.Logger) *explain.Batch {
	if cfg.OpenAI.DemoMode {
		return explain.NewBatch(nil, explain.NewDemoTemplate(), cfg.OpenAI.ExplanationTimeout, logger)
	}

	apiKey := cfg.OpenAI.APIKey
	if cfg.Vault.Enabled {
		sm, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token)
		if err != nil {
			logger.Warn("Vault unavailable, falling back to configured API key", zap.Error(err))
		} else if key, err := sm.GetOpenAIAPIKey(); err != nil {
			logger.Warn("Failed to read API key from Vault", zap.Error(err))
		} else {
			apiKey = key
		}
	}

	var primary ports.Explainer
	if apiKey != "" {
		primary = openai.NewClient(apiKey, logger)
	} else {
		logger.Warn("No OpenAI API key configured, explanations use templates")
	}
	return explain.NewBatch(primary, explain.NewTemplate(), cfg.OpenAI.ExplanationTimeout, logger)
}
