package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"social_watcher/internal/bot"
	"social_watcher/internal/config"
	"social_watcher/internal/delivery"
	"social_watcher/internal/extract"
	"social_watcher/internal/llm"
	"social_watcher/internal/publisher"
	"social_watcher/internal/scheduler"
	"social_watcher/internal/service"
	"social_watcher/internal/source/truthsocial"
	"social_watcher/internal/source/twitter"
	"social_watcher/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	accounts := config.Normalize(cfg.SocialNetworks)
	if len(accounts) == 0 {
		logger.Error("no accounts left after normalization")
		os.Exit(1)
	}

	// Optional processed-post store for cross-run dedup
	var processed service.ProcessedStore
	if cfg.Database.Enabled {
		db, err := sqlx.Connect("postgres", cfg.Database.DSN())
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		logger.Info("connected to database")

		processed = postgres.NewProcessedStore(db)
	}

	// Optional notification publisher
	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()

		pub = rabbitMQ
	}

	// Initialize fetch adapters
	sources := []service.Source{
		truthsocial.New(truthsocial.Config{}, logger),
		twitter.New(twitter.Config{
			BearerToken: os.Getenv("TWITTER_BEARER_TOKEN"),
		}, logger),
	}

	extractor := extract.New(llm.New(cfg.LLM), cfg.LLM.MaxRetries, logger)

	fanout := delivery.New(
		cfg.Delivery,
		bot.NewWeCom(bot.WeComConfig{}, logger),
		bot.NewWeChat(bot.WeChatConfig{}, logger),
		bot.NewQQ(bot.QQConfig{}, logger),
		logger,
	)

	watchService := service.NewWatchService(
		sources,
		extractor,
		fanout,
		processed,
		pub,
		accounts,
		logger,
	)

	sched := scheduler.NewScheduler(watchService, cfg.Watch.Interval, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("starting social watcher",
		"accounts", len(accounts),
		"interval", cfg.Watch.Interval,
		"max_retries", cfg.LLM.MaxRetries,
	)

	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
