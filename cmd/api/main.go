package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"reminderd/internal/config"
	healthHandler "reminderd/internal/handler/health"
	reminderHandler "reminderd/internal/handler/reminder"
	triggerHandler "reminderd/internal/handler/trigger"
	"reminderd/internal/middleware"
	"reminderd/internal/repository/postgres"
	"reminderd/internal/router"
	"reminderd/internal/service/dispatch"
	reminderService "reminderd/internal/service/reminder"
	triggerredis "reminderd/internal/trigger/redis"
	"reminderd/pkg/chat/discord"
	"reminderd/pkg/logger"
	"reminderd/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logger.NewLogger(nil)

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	reminderRepo := postgres.NewReminderRepository(db)
	outboxRepo := postgres.NewOutboxRepository(postgres.NewBaseRepository(db))

	// Initialize delayed-trigger scheduler
	scheduler, err := triggerredis.NewScheduler(triggerredis.Config{
		URL:          cfg.Redis.URL,
		Key:          cfg.Redis.Key,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer scheduler.Close()

	// Initialize chat client
	chatClient, err := discord.NewClient(discord.Config{
		BaseURL:  cfg.Chat.BaseURL,
		BotToken: cfg.Chat.BotToken,
		GuildID:  cfg.Chat.GuildID,
		Timeout:  cfg.Chat.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create chat client")
	}

	m := metrics.NewMetrics("reminderd", "engine")

	// Initialize services
	dispatcher := dispatch.NewService(chatClient, logger, m)
	reminderSvc := reminderService.NewService(
		reminderRepo,
		outboxRepo,
		scheduler,
		dispatcher,
		chatClient,
		cfg.Engine.DefaultChannel,
		logger,
		m,
	)

	// Initialize handlers
	reminderH := reminderHandler.NewHandler(reminderSvc)
	triggerH := triggerHandler.NewHandler(reminderSvc)
	healthH := healthHandler.NewHandler(db, scheduler.Client())

	// Setup router
	r := router.NewRouter(reminderH, triggerH, healthH, router.Config{
		RateLimit: middleware.RateLimiterConfig{
			Rate:  rate.Limit(cfg.RateLimit.RequestsPerSecond),
			Burst: cfg.RateLimit.Burst,
			TTL:   10 * time.Minute,
		},
		CORSConfig: middleware.DefaultCORSConfig(),
		Timeout:    cfg.Server.RequestTimeout,
	})
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	logger.Info("Server started", "port", cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
