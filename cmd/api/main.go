package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sangkips/kasir-api/internal/application/service"
	"github.com/sangkips/kasir-api/internal/config"
	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/internal/domain/pos"
	domainRepo "github.com/sangkips/kasir-api/internal/domain/repository"
	"github.com/sangkips/kasir-api/internal/infrastructure/database"
	"github.com/sangkips/kasir-api/internal/infrastructure/repository"
	"github.com/sangkips/kasir-api/internal/infrastructure/sequence"
	"github.com/sangkips/kasir-api/internal/presentation/http/handler"
	"github.com/sangkips/kasir-api/internal/presentation/http/middleware"
	"github.com/sangkips/kasir-api/internal/presentation/http/routes"
	"github.com/sangkips/kasir-api/internal/presentation/http/validation"
	"github.com/sangkips/kasir-api/pkg/email"
	"github.com/sangkips/kasir-api/pkg/logger"
	"github.com/sangkips/kasir-api/pkg/metrics"
	"github.com/sangkips/kasir-api/pkg/money"
	"github.com/sangkips/kasir-api/pkg/printer"
	"github.com/sangkips/kasir-api/pkg/redis"
	"github.com/sangkips/kasir-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.New(logger.Options{
		ServiceName: cfg.App.Name,
		Level:       logger.ParseLevel(cfg.Log.Level),
		Format:      cfg.Log.Format,
	})
	base := log.Zerolog()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := validation.Register(); err != nil {
		base.Fatal().Err(err).Msg("failed to configure request validation")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.Open(&cfg.Database, cfg.App.Debug)
	if err != nil {
		base.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to connect to database")
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		base.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Seed default data
	if err := database.SeedDefaultData(db, cfg.Admin); err != nil {
		log.Warn(ctx, "failed to seed default data", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	posMetrics := metrics.NewPOSMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	prefixes := pos.InvoicePrefixes{Auto: cfg.Invoice.AutoPrefix, Manual: cfg.Invoice.ManualPrefix}

	var invoices domainRepo.InvoiceNumberGenerator = repository.NewInvoiceSequenceRepository(db, prefixes)
	if cfg.Redis.Addr != "" {
		redisClient, err := redis.New(ctx, redis.Config{
			Address:      cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		if err != nil {
			log.Warn(ctx, "redis unavailable, invoice numbers fall back to the database", err)
		} else {
			defer redisClient.Close()
			invoices = sequence.NewRedisGenerator(redisClient, prefixes)
			base.Info().Str("addr", cfg.Redis.Addr).Msg("invoice numbers use redis counters")
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	passwordResetRepo := repository.NewPasswordResetTokenRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	reconciliation := repository.NewReconciliationReport(db)
	providers := repository.NewProviderFactory(db, invoices, prefixes)

	sessions := service.NewSessionRegistry(providers, posMetrics, log, cfg.Session.IdleTimeout)
	go sessions.Run(ctx, cfg.Session.SweepInterval)

	// Initialize email service
	emailService := email.NewService(email.Config{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		FrontendURL:  cfg.App.FrontendURL,
		StoreName:    cfg.Store.Name,
	})
	if !emailService.Enabled() {
		log.Info(ctx, "SMTP not configured, password reset mail is disabled")
	}

	authService := service.NewAuthService(userRepo, passwordResetRepo, jwtManager, emailService, log)
	adminVerifier, err := service.NewAdminVerifier(cfg.Admin.Password)
	if err != nil {
		base.Fatal().Err(err).Msg("failed to prepare admin verifier")
	}

	formatter, err := money.NewFormatter(money.Config{
		Locale:         cfg.Currency.Locale,
		Currency:       cfg.Currency.Code,
		Symbol:         cfg.Currency.Symbol,
		FractionDigits: cfg.Currency.FractionDigits,
	})
	if err != nil {
		log.Warn(ctx, "invalid currency settings, using rupiah defaults", err)
		formatter, _ = money.NewFormatter(money.DefaultConfig)
	}

	// Initialize thermal printer
	transport, err := printer.NewTransportFromConfig(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.Warn(ctx, "failed to initialize printer, receipts go to the browser", err)
		transport = printer.NewNullTransport()
	}
	watcher := printer.NewWatcher(transport, cfg.Printer.PollInterval)
	go watcher.Run(ctx)

	tickets := service.NewTicketBuilder(entity.TicketHeader{
		StoreName: cfg.Store.Name,
		Address:   cfg.Store.Address,
		Phone:     cfg.Store.Phone,
	}, formatter)
	chain := service.NewPrintChain(transport, service.HTMLTicketRenderer{}, tickets, cfg.Printer.Width, posMetrics, log)
	printerService := service.NewPrinterService(transport, watcher, chain, cfg.Printer.Type, log)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Requests: cfg.RateLimit.Requests,
		Window:   time.Duration(cfg.RateLimit.Duration) * time.Second,
	})
	defer rateLimiter.Close()

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Admin:   handler.NewAdminHandler(adminVerifier, reconciliation),
		Product: handler.NewProductHandler(),
		Cart:    handler.NewCartHandler(formatter),
		Sale:    handler.NewSaleHandler(printerService),
		Printer: handler.NewPrinterHandler(printerService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Sessions:        sessions,
		RateLimiter:     rateLimiter,
		Log:             log,
		HTTPMetrics:     httpMetrics,
		Gatherer:        registry,
	})

	go purgeExpired(ctx, log, idempotencyRepo, passwordResetRepo)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		base.Info().Str("port", port).Str("env", cfg.App.Env).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			base.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	base.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", err)
	}
	if err := transport.Disconnect(shutdownCtx); err != nil {
		log.Warn(shutdownCtx, "printer disconnect failed", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// purgeExpired drops stale idempotency keys and reset tokens once an hour.
func purgeExpired(ctx context.Context, log *logger.Logger, keys domainRepo.IdempotencyRepository, tokens domainRepo.PasswordResetTokenRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := keys.DeleteExpired(ctx); err != nil {
				log.Warn(ctx, "failed to purge idempotency keys", err)
			}
			if err := tokens.DeleteExpired(ctx); err != nil {
				log.Warn(ctx, "failed to purge password reset tokens", err)
			}
		}
	}
}
