package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/TheManishHQ/shipos-kit/internal/ai"
	"github.com/TheManishHQ/shipos-kit/internal/billing"
	"github.com/TheManishHQ/shipos-kit/internal/cache"
	"github.com/TheManishHQ/shipos-kit/internal/config"
	"github.com/TheManishHQ/shipos-kit/internal/database"
	"github.com/TheManishHQ/shipos-kit/internal/handlers"
	"github.com/TheManishHQ/shipos-kit/internal/logging"
	"github.com/TheManishHQ/shipos-kit/internal/mail"
	"github.com/TheManishHQ/shipos-kit/internal/metrics"
	"github.com/TheManishHQ/shipos-kit/internal/middleware"
	"github.com/TheManishHQ/shipos-kit/internal/payments"
	"github.com/TheManishHQ/shipos-kit/internal/repository"
	"github.com/TheManishHQ/shipos-kit/internal/routes"
	"github.com/TheManishHQ/shipos-kit/internal/services"
	"github.com/TheManishHQ/shipos-kit/internal/storage"
)

const webhookDedupeTTL = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Structured logging (JSON to stdout)
	stdout := logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db, 5*time.Second)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, pgLogHandler)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cleanupDone)

	var guard cache.EventGuard = cache.NoopEventGuard{}
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := cache.Connect(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			slog.Warn("redis unavailable, webhook dedupe disabled", "error", err)
		} else {
			defer client.Close()
			guard = cache.NewRedisEventGuard(client, webhookDedupeTTL)
		}
	}

	catalog, err := billing.LoadFromFile(cfg.PlansConfigPath)
	if err != nil {
		slog.Error("failed to load plan catalog", "path", cfg.PlansConfigPath, "error", err)
		os.Exit(1)
	}

	var sender mail.Sender = mail.LogSender{}
	if cfg.ResendAPIKey != "" {
		sender = mail.NewResendSender(cfg.ResendAPIKey, cfg.MailFrom)
	}

	m := metrics.New()
	store := repository.New(db)
	provider := payments.NewStripeProvider(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.StripeAPIURL)
	aiClient := ai.NewClient(ai.Config{
		APIKey:             cfg.OpenAIAPIKey,
		BaseURL:            cfg.OpenAIBaseURL,
		Model:              cfg.OpenAIModel,
		ImageModel:         cfg.OpenAIImageModel,
		TranscriptionModel: cfg.OpenAITranscriptionModel,
		Timeout:            cfg.AITimeout,
	})
	signer := storage.NewSigner(storage.Config{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Buckets:         cfg.StorageBuckets(),
	})

	// Services
	authService := services.NewAuthService(store, cfg)
	reconciler := services.NewReconciler(store, provider, guard, m)
	billingService := services.NewBillingService(store, provider, catalog, cfg.BaseURL)
	chatService := services.NewChatService(store, aiClient, m)
	adminService := services.NewAdminService(store)
	userService := services.NewUserService(store, signer)
	orgService := services.NewOrganizationService(store)
	marketingService := services.NewMarketingService(mail.NewMailer(sender, cfg.DefaultLocale), cfg.ContactFormTo)

	// Handlers
	h := routes.Handlers{
		Auth: handlers.NewAuthHandler(authService),
		Health: handlers.NewHealthHandler(func(ctx context.Context) error {
			return database.Ping(ctx, db)
		}),
		Webhook:      handlers.NewWebhookHandler(provider, reconciler),
		Admin:        handlers.NewAdminHandler(adminService),
		AI:           handlers.NewAIHandler(chatService),
		Payments:     handlers.NewPaymentsHandler(billingService),
		Users:        handlers.NewUsersHandler(userService),
		Marketing:    handlers.NewMarketingHandler(marketingService),
		Organization: handlers.NewOrganizationHandler(orgService),
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: cfg.TracesSampleRate(),
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    26 * 1024 * 1024,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestContext())
	app.Use(m.Middleware())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})
	app.Use(middleware.Locale(cfg.DefaultLocale))

	// Routes
	routes.Setup(app, cfg, h, store.Users, m.Registry)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
