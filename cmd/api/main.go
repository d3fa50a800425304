package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shoes-store/internal/auth"
	"shoes-store/internal/catalog"
	"shoes-store/internal/checkout"
	"shoes-store/internal/config"
	"shoes-store/internal/database"
	"shoes-store/internal/handler"
	"shoes-store/internal/otp"
	"shoes-store/internal/payment"
	"shoes-store/internal/repository"
	"shoes-store/internal/router"
	"shoes-store/internal/service"
	"shoes-store/internal/session"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("env", cfg.Env).Msg("starting shoes-store API server")

	if cfg.UsingFallbackJWTSecret() {
		logger.Warn().Msg("JWT_SECRET is not set, using the development fallback secret")
	}
	if cfg.Database.URL == config.FallbackDatabaseURL {
		logger.Warn().Msg("DATABASE_URL is not set, using the local development database")
	}

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(cfg.Database.URL, database.DirectionUp); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info().Msg("database migrations applied")
	}

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Load the catalogue, from S3 with local fallback when enabled
	cat, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to load catalogue: %w", err)
	}
	logger.Info().Int("products", cat.Len()).Msg("catalogue ready")

	// Phone verification
	var otpStore otp.Store
	if cfg.OTP.Store == "memory" {
		otpStore = otp.NewMemoryStore()
	} else {
		otpStore = repository.NewOTPRepository(pool, logger)
	}

	var sender otp.Sender
	if cfg.SMS.Provider == "smslocal" {
		sender = otp.NewSMSLocalSender(cfg.SMS.APIKey, cfg.SMS.BaseURL, cfg.SMS.SenderID)
	} else {
		logger.Warn().Msg("SMS provider is log, OTP codes are written to the log")
		sender = otp.NewLogSender(logger)
	}

	flow := otp.NewFlow(otpStore, sender, otp.Config{
		TTL:            cfg.OTP.TTL,
		ResendCooldown: cfg.OTP.ResendCooldown,
	}, logger)

	// Payment gateway
	var gateway payment.Gateway
	if cfg.Payment.StripeSecretKey != "" {
		gateway = payment.NewStripeGateway(cfg.Payment.StripeSecretKey, logger)
		logger.Info().Msg("using Stripe payment gateway")
	} else {
		mock := payment.NewMockGateway(logger)
		go mock.Run(ctx, time.Minute)
		gateway = mock
		logger.Info().Msg("using mock payment gateway (STRIPE_SECRET_KEY not set)")
	}

	// Initialize services
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	userService := service.NewUserService(userRepo, cat, tokens, auth.NewHasher(cfg.Auth.BcryptCost), logger)
	orderService := service.NewOrderService(orderRepo, logger)
	orchestrator := checkout.NewOrchestrator(gateway, orderService, checkout.Config{
		ShippingFee: cfg.Checkout.ShippingFee,
		TaxRate:     cfg.Checkout.TaxRate,
		Currency:    cfg.Checkout.Currency,
	}, logger)

	sessions := session.NewRegistry(cfg.Session.IdleTimeout, cfg.Session.MaxSessions, logger)

	// Background cleanup
	go otp.NewSweeper(otpStore, cfg.OTP.SweepInterval, logger).Run(ctx)
	go sessions.Run(ctx, time.Hour)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Product:  handler.NewProductHandler(cat, logger),
		Cart:     handler.NewCartHandler(cat, logger),
		OTP:      handler.NewOTPHandler(flow, userService, logger),
		Checkout: handler.NewCheckoutHandler(orchestrator, logger),
		User:     handler.NewUserHandler(userService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
	}

	// Initialize router
	mux := router.New(handlers, sessions, tokens, cfg.Server.AllowedOrigin, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Stop background workers
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// loadCatalog reads the catalogue named by CATALOG_FILE. With S3 enabled the
// object is fetched from the bucket first and the local file is the fallback.
func loadCatalog(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*catalog.Catalog, error) {
	fileLoader := catalog.NewFileLoader(logger)

	if !cfg.S3.Enabled {
		if cfg.Catalog.File == "" {
			logger.Info().Msg("using built-in catalogue")
		}
		return catalog.Load(ctx, fileLoader, cfg.Catalog.File)
	}

	s3Loader, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		return catalog.Load(ctx, fileLoader, cfg.Catalog.File)
	}

	path := cfg.Catalog.File
	if path == "" {
		path = catalog.DefaultObjectName
	}
	c, err := catalog.Load(ctx, catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, true, logger), path)
	if err != nil && cfg.Catalog.File == "" {
		logger.Warn().Err(err).Msg("catalogue object unavailable, using built-in catalogue")
		return catalog.Load(ctx, fileLoader, "")
	}
	return c, err
}
