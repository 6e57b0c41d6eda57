package main

// @title Infrastructure Search API
// @version 1.0.0
// @description Поиск объектов инфраструктуры OpenStreetMap по запросу на естественном языке.
// @description
// @description Основные возможности:
// @description - Разбор запросов вида "google data centers in california" и type:/operator:/region:/near:
// @description - Геокодирование области с кешем и ограничением частоты запросов
// @description - Запрос к серверам Overpass с переключением на резервные зеркала
// @description - Статистика по операторам и типам объектов

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/infrastructure-search/docs"
	"github.com/infrastructure-search/internal/bootstrap"
	"github.com/infrastructure-search/internal/config"
	httpDelivery "github.com/infrastructure-search/internal/delivery/http"
	"github.com/infrastructure-search/internal/delivery/http/handler"
	"github.com/infrastructure-search/internal/pkg/logger"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Infrastructure Search API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.Strings("overpass_endpoints", cfg.Overpass.Endpoints),
	)

	// 3. Build search pipeline
	components, err := bootstrap.Build(cfg, log, bootstrap.Options{})
	if err != nil {
		log.Fatal("Failed to initialize search pipeline", zap.Error(err))
	}

	checks := map[string]handler.HealthChecker{}
	if components.Redis != nil {
		checks["redis"] = components.Redis
	}

	// 4. Initialize HTTP Handlers
	server := httpDelivery.NewServer(
		cfg,
		log,
		handler.NewSearchHandler(components.SearchUC, log),
		handler.NewCatalogHandler(components.Taxonomy),
		handler.NewHealthHandler(checks, log),
	)

	// 5. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 6. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := components.Close(); err != nil {
		log.Error("Failed to close Redis", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
