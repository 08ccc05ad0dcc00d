package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"payment-gateway/config"
	httpHandler "payment-gateway/internal/adapter/http/handler"
	pgStorage "payment-gateway/internal/adapter/storage/postgres"
	redisStorage "payment-gateway/internal/adapter/storage/redis"
	"payment-gateway/internal/core/ports"
	"payment-gateway/internal/service"
	"payment-gateway/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("api", cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Payment Gateway API")

	ctx := context.Background()

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Repositories
	merchantRepo := pgStorage.NewMerchantRepo(pool)
	orderRepo := pgStorage.NewOrderRepo(pool)
	paymentRepo := pgStorage.NewPaymentRepo(pool)
	refundRepo := pgStorage.NewRefundRepo(pool)
	webhookRepo := pgStorage.NewWebhookRepo(pool)
	idempotencyRepo := pgStorage.NewIdempotencyRepo(pool)

	// Redis adapters
	jobQueue := redisStorage.NewJobQueue(rdb)
	idempotencyCache := redisStorage.NewIdempotencyCache(rdb)

	// Core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	producer := service.NewQueueJobProducer(jobQueue)
	idempotencySvc := service.NewIdempotencyService(idempotencyCache, idempotencyRepo, log)

	// Business services
	authSvc := service.NewAuthService(merchantRepo, hashSvc, tokenSvc)
	orderSvc := service.NewOrderService(orderRepo)
	paymentSvc := service.NewPaymentService(paymentRepo, orderRepo, producer, idempotencySvc, log)
	refundSvc := service.NewRefundService(refundRepo, paymentRepo, producer, log)
	webhookSvc := service.NewWebhookService(webhookRepo, producer, log)
	merchantSvc := service.NewMerchantService(merchantRepo)
	jobStatusSvc := service.NewJobStatusService(jobQueue)

	// Health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		OrderSvc:       orderSvc,
		PaymentSvc:     paymentSvc,
		RefundSvc:      refundSvc,
		WebhookSvc:     webhookSvc,
		MerchantSvc:    merchantSvc,
		JobStatusSvc:   jobStatusSvc,
		MerchantRepo:   merchantRepo,
		TokenSvc:       tokenSvc,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
