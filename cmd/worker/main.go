package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/infrastructure-search/internal/bootstrap"
	"github.com/infrastructure-search/internal/config"
	"github.com/infrastructure-search/internal/pkg/logger"
	redisRepo "github.com/infrastructure-search/internal/repository/redis"
	"github.com/infrastructure-search/internal/worker"
	"github.com/infrastructure-search/internal/worker/search"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Infrastructure Search Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Duration("search_timeout", cfg.Worker.SearchTimeout),
		zap.String("cache_backend", cfg.Cache.Backend))

	// 3. Build search pipeline, Redis is required for streams
	components, err := bootstrap.Build(cfg, log, bootstrap.Options{RequireRedis: true})
	if err != nil {
		log.Fatal("Failed to initialize search pipeline", zap.Error(err))
	}
	defer func() {
		if err := components.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 4. Initialize workers
	streamRepo := redisRepo.NewStreamRepository(components.Redis.Client(), cfg.Worker.StreamReadTimeout, log)
	searchWorker := search.NewSearchWorker(
		streamRepo,
		components.SearchUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.SearchTimeout,
		log,
	)

	workerManager := worker.NewWorkerManager(worker.DefaultShutdownTimeout, log)
	workerManager.Register(searchWorker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// Stop сначала даёт воркерам закончить текущий поиск, затем отменяем ctx
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}
	cancel()

	log.Info("Worker shutdown complete")
}
