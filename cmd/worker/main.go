package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"reminderd/internal/config"
	"reminderd/internal/repository/postgres"
	"reminderd/internal/service/digest"
	triggerredis "reminderd/internal/trigger/redis"
	internalworker "reminderd/internal/worker"
	"reminderd/pkg/chat/discord"
	"reminderd/pkg/logger"
	messagingredis "reminderd/pkg/messaging/redis"
	"reminderd/pkg/metrics"
	"reminderd/pkg/worker"
)

func setupHealthCheck(addr string, logger *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error(err, "Health check server failed")
			os.Exit(1)
		}
	}()
}

func main() {
	// Load config
	cfg, err := config.LoadWorkerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger := logger.NewLogger(nil)

	// Initialize database
	db, err := postgres.NewDB(cfg.ToDatabaseConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Initialize Redis broker
	broker, err := messagingredis.NewRedisBroker(messagingredis.Config{
		URL:          cfg.RedisURL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 5,
	}, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Redis broker")
	}
	defer broker.Close()

	// Initialize delayed-trigger scheduler for the poller
	scheduler, err := triggerredis.NewScheduler(triggerredis.Config{
		URL: cfg.RedisURL,
		Key: cfg.TriggerKey,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer scheduler.Close()

	// Initialize chat client for the digest
	chatClient, err := discord.NewClient(discord.Config{
		BaseURL:  cfg.ChatBaseURL,
		BotToken: cfg.ChatBotToken,
		GuildID:  cfg.ChatGuildID,
		Timeout:  cfg.ChatTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create chat client")
	}

	// Initialize repositories
	reminderRepo := postgres.NewReminderRepository(db)
	outboxRepo := postgres.NewOutboxRepository(postgres.NewBaseRepository(db))

	m := metrics.NewMetrics("reminderd", "worker")

	// Initialize outbox processor
	processor := worker.NewOutboxProcessor(
		outboxRepo,
		broker,
		worker.OutboxProcessorConfig{
			BatchSize:     cfg.OutboxBatchSize,
			PollInterval:  cfg.OutboxPollInterval,
			RetryAttempts: cfg.RetryAttempts,
			RetryDelay:    cfg.RetryDelay,
			MaxRetries:    cfg.OutboxMaxRetries,
			RetryBackoff:  cfg.OutboxRetryBackoff,
		},
		logger,
		m,
	)

	// Initialize trigger poller
	poller := triggerredis.NewPoller(scheduler, triggerredis.PollerConfig{
		FireURL:       cfg.FireURL,
		BatchSize:     cfg.PollBatchSize,
		PollInterval:  cfg.PollInterval,
		RetryAttempts: cfg.RetryAttempts,
		RetryDelay:    cfg.RetryDelay,
	}, logger, m)

	digestSvc := digest.NewService(reminderRepo, chatClient, logger)

	retention := internalworker.NewRetentionWorker(
		reminderRepo,
		outboxRepo,
		cfg.RetentionDays,
		cfg.CleanupInterval,
		logger,
		m,
	)

	// Setup health check endpoints
	setupHealthCheck(cfg.HealthAddr, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutting down...")
		cancel()
	}()

	// Schedule the morning digest
	c := cron.New()
	if _, err := c.AddFunc(cfg.DigestCron, func() {
		if err := digestSvc.Run(ctx); err != nil {
			logger.Error(err, "Digest run failed")
		}
	}); err != nil {
		log.Fatal().Err(err).Msg("Invalid digest cron spec")
	}
	c.Start()
	defer c.Stop()

	go poller.Start(ctx)
	go retention.Start(ctx)

	processor.Start(ctx)
}
