package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taraz-store/internal/config"
	"taraz-store/internal/domain/ports/adapter"
	"taraz-store/internal/infra/auth"
	pg "taraz-store/internal/infra/db/postgres"
	"taraz-store/internal/infra/i18n"
	"taraz-store/internal/infra/logging"
	"taraz-store/internal/infra/metrics"
	"taraz-store/internal/infra/payment"
	red "taraz-store/internal/infra/redis"
	"taraz-store/internal/infra/sched"
	"taraz-store/internal/infra/sms"
	"taraz-store/internal/infra/web"
	"taraz-store/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("dev mode enabled")
	}

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.PoolSize)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	productRepo := pg.NewProductRepo(pool)
	couponRepo := pg.NewCouponRepo(pool)
	orderRepo := pg.NewOrderRepo(pool)
	licenseRepo := pg.NewLicenseRepo(pool)
	otpRepo := pg.NewOTPRepo(pool)
	userRepo := pg.NewUserRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Adapters ----
	gateway := payment.NewZarinPalGateway(cfg.Payment.ZarinPal.MerchantID, cfg.Payment.ZarinPal.Sandbox)

	var sender adapter.SMSSender
	if cfg.SMS.Username == "" && cfg.Runtime.Dev {
		sender = sms.NewLogSender(logger)
		logger.Warn().Msg("no SMS credentials, using log sender")
	} else {
		sender = sms.NewRayganSender(cfg.SMS.Username, cfg.SMS.Password)
	}

	sessions := auth.NewSessionManager(userRepo, cfg.Auth.JWTSecret, cfg.Auth.SessionTTL, cfg.Auth.AccountDomain)

	tr, err := i18n.NewTranslator(i18n.LocalesFS, "fa")
	if err != nil {
		logger.Fatal().Err(err).Msg("i18n")
	}

	// ---- Use cases ----
	orderUC := usecase.NewOrderUseCase(productRepo, couponRepo, orderRepo, licenseRepo, gateway, txManager, cfg.HTTP.PublicBaseURL, logger)
	otpUC := usecase.NewOTPUseCase(otpRepo, sender, sessions, rateLimiter, usecase.OTPConfig{
		CodeTTL:     cfg.OTP.CodeTTL,
		MaxRequests: cfg.OTP.MaxRequests,
		Window:      cfg.OTP.Window,
		RevealInDev: cfg.OTP.RevealInDev,
	}, cfg.Runtime.Dev, logger)
	activationUC := usecase.NewActivationUseCase(licenseRepo, productRepo, logger)
	catalogUC := usecase.NewCatalogUseCase(productRepo, couponRepo)
	licenseAdminUC := usecase.NewLicenseAdminUseCase(licenseRepo, orderRepo, productRepo, logger)
	statsUC := usecase.NewStatsUseCase(orderRepo, userRepo)

	// ---- Metrics ----
	metrics.MustRegister()

	// ---- HTTP server ----
	srv := web.NewServer(orderUC, otpUC, activationUC, catalogUC, licenseAdminUC, statsUC, tr, cfg.HTTP.AdminAPIKey, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- OTP cleanup worker ----
	cleanup := sched.NewOTPCleanupWorker(15*time.Minute, otpRepo, logger)
	go func() { _ = cleanup.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
