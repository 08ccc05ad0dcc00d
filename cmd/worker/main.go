package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"payment-gateway/config"
	pgStorage "payment-gateway/internal/adapter/storage/postgres"
	redisStorage "payment-gateway/internal/adapter/storage/redis"
	"payment-gateway/internal/core/domain"
	"payment-gateway/internal/service"
	"payment-gateway/internal/worker"
	"payment-gateway/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("worker", cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Bool("test_mode", cfg.Worker.TestMode).
		Msg("Starting Payment Gateway worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
	paymentRepo := pgStorage.NewPaymentRepo(pool)
	refundRepo := pgStorage.NewRefundRepo(pool)
	webhookRepo := pgStorage.NewWebhookRepo(pool)

	// Queue plumbing
	jobQueue := redisStorage.NewJobQueue(rdb)
	producer := service.NewQueueJobProducer(jobQueue)
	sigSvc := service.NewHMACSignatureService()

	outcomes := worker.NewOutcomeSource(cfg.Worker)
	backoff := worker.NewBackoffSchedule(cfg.Worker.TestMode)

	paymentWorker := worker.NewPaymentWorker(paymentRepo, producer, outcomes, log)
	refundWorker := worker.NewRefundWorker(refundRepo, producer, outcomes, log)
	webhookWorker := worker.NewWebhookWorker(
		webhookRepo,
		merchantRepo,
		sigSvc,
		&http.Client{Timeout: cfg.Worker.WebhookTimeout},
		backoff,
		cfg.Worker.WebhookTimeout,
		log,
	)

	scheduler := worker.NewRetryScheduler(
		webhookRepo,
		producer,
		cfg.Worker.RetrySweepInterval,
		cfg.Worker.RetryLease,
		log,
	)

	runner := worker.NewRunner(jobQueue, scheduler, cfg.Worker.PollTimeout, cfg.Worker.ShutdownGrace, log)
	runner.Register(domain.QueuePayments, paymentWorker)
	runner.Register(domain.QueueRefunds, refundWorker)
	runner.Register(domain.QueueWebhooks, webhookWorker)

	runner.Run(ctx)

	log.Info().Msg("Worker exited")
}
