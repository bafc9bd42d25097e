package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/svstupireburgh/FeelmeTown-sub000/api/routes"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/notifications"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/payments"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/config"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/database"
	"github.com/svstupireburgh/FeelmeTown-sub000/pkg/logger"
	"github.com/svstupireburgh/FeelmeTown-sub000/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	appLogger := logger.GetDefault()

	// Smart environment loading
	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)
	if cfg.IsProduction() && cfg.JWT.Secret == config.DefaultJWTSecret {
		appLogger.Warn("JWT_SECRET is not set, operator tokens are signed with the default secret")
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Rate limiting needs Redis
	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled && db.GetRedis() != nil {
		rateLimiterConfig := &ratelimit.Config{
			Enabled:                cfg.RateLimit.Enabled,
			WindowDuration:         cfg.RateLimit.WindowDuration,
			DefaultRequests:        cfg.RateLimit.DefaultRequests,
			PublicRequests:         cfg.RateLimit.PublicRequests,
			WizardRequests:         cfg.RateLimit.WizardRequests,
			WizardCriticalRequests: cfg.RateLimit.WizardCriticalRequests,
			CouponRequests:         cfg.RateLimit.CouponRequests,
			AdminRequests:          cfg.RateLimit.AdminRequests,
			HealthRequests:         cfg.RateLimit.HealthRequests,
			WhitelistedIPs:         cfg.RateLimit.WhitelistedIPs,
		}

		rateLimiter = ratelimit.NewRateLimiter(db.GetRedis(), rateLimiterConfig)
		appLogger.Info("Rate limiter initialized",
			slog.Bool("enabled", cfg.RateLimit.Enabled),
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	// Notification producer: Kafka when enabled, log-only otherwise
	var publisher *notifications.NotificationPublisher
	producer, err := notifications.NewProducer(cfg.Kafka, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize notification producer", slog.Any("error", err))
		appLogger.Info("Continuing without notifications - confirmations and incomplete-booking alerts will not be sent")
	} else {
		publisher = notifications.NewNotificationPublisher(producer)
		appLogger.Info("Notification producer initialized", slog.Bool("kafka", cfg.Kafka.Enabled))

		defer func() {
			appLogger.Info("Closing notification producer...")
			if err := producer.Close(); err != nil {
				appLogger.Error("Error closing notification producer", slog.Any("error", err))
			}
		}()
	}

	gateway, err := payments.NewGateway(cfg.Payment)
	if err != nil {
		appLogger.Error("Failed to initialize payment gateway", slog.Any("error", err))
		os.Exit(1)
	}
	appLogger.Info("Payment gateway initialized", slog.String("provider", gateway.Name()))

	appRouter := routes.NewRouter(cfg, db, publisher, gateway)
	router := setupRouter(appRouter, rateLimiter)

	jobsCtx, jobsCancel := context.WithCancel(context.Background())
	defer jobsCancel()
	appRouter.StartJobs(jobsCtx)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("🚀 Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Port)),
			slog.String("version", Version),
			slog.String("commit", GitCommit),
			slog.String("built", BuildTime),
			slog.Bool("redis_cache", db.GetRedis() != nil),
			slog.Bool("rate_limiting", rateLimiter != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	// Open wizards are closed after the last request so incomplete drafts still get reported
	appRouter.Shutdown(ctx)

	appLogger.Info("Server exited gracefully")
}

func setupRouter(appRouter *routes.Router, rateLimiter *ratelimit.RateLimiter) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	// Built-in middleware: logs requests + recovers from panics
	engine.Use(RequestLoggerMiddleware(appLogger), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true // allow every origin dynamically
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-RateLimit-*"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
		appLogger.Info("Rate limiting middleware applied to all routes")
	}

	appRouter.SetupRoutes(engine)

	return engine
}

func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		l.LogHTTPRequest(c, duration)
	}
}
