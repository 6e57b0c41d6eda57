// Package bootstrap собирает поисковый конвейер из конфигурации.
// Используется API, воркером и CLI.
package bootstrap

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/infrastructure-search/internal/config"
	"github.com/infrastructure-search/internal/infrastructure/nominatim"
	"github.com/infrastructure-search/internal/infrastructure/overpass"
	"github.com/infrastructure-search/internal/pkg/ratelimit"
	"github.com/infrastructure-search/internal/repository/cache"
	"github.com/infrastructure-search/internal/taxonomy"
	"github.com/infrastructure-search/internal/usecase"
)

// Components - собранные зависимости процесса
type Components struct {
	Taxonomy *taxonomy.Taxonomy
	Redis    *cache.Redis
	SearchUC *usecase.InfrastructureSearchUseCase
}

// Options - что нужно процессу помимо конвейера
type Options struct {
	// RequireRedis открывает соединение с Redis даже при кеше в памяти (воркеру нужны стримы)
	RequireRedis bool
}

// Build создаёт компоненты. При ошибке уже открытые соединения закрываются.
func Build(cfg *config.Config, logger *zap.Logger, opts Options) (*Components, error) {
	tax, err := taxonomy.Open(cfg.Taxonomy.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy: %w", err)
	}
	logger.Info("Taxonomy loaded",
		zap.Int("types", len(tax.Types())),
		zap.Int("operators", len(tax.Operators())),
		zap.String("file", cfg.Taxonomy.File))

	c := &Components{Taxonomy: tax}

	if opts.RequireRedis || cfg.Cache.Backend == config.CacheBackendRedis {
		c.Redis, err = cache.NewRedis(&cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
	}

	store, err := cache.NewStore(&cfg.Cache, c.Redis, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create cache store: %w", err)
	}
	cacheRepo := cache.NewCacheRepository(store, logger)

	// один ограничитель на процесс: лимит геокодера общий для всех запросов
	limiter := ratelimit.New(cfg.Nominatim.MinInterval)
	resolver := usecase.NewLocationResolver(
		nominatim.NewNominatimClient(&cfg.Nominatim, logger),
		cacheRepo,
		limiter,
		cfg.Cache.GeoTTL,
		logger,
	)

	executor := overpass.NewFailoverExecutor(
		overpass.NewEndpointClients(cfg.Overpass.Endpoints, logger),
		cfg.Overpass.RequestTimeout,
		overpass.NewNormalizer(),
		logger,
	)

	c.SearchUC = usecase.NewInfrastructureSearchUseCase(
		usecase.NewQueryParser(tax),
		resolver,
		overpass.NewBuilder(tax, cfg.Overpass.QueryTimeout, cfg.Overpass.MaxSize, cfg.Overpass.ResultLimit),
		executor,
		cacheRepo,
		cfg.Cache.SearchTTL,
		logger,
	)

	return c, nil
}

// Close закрывает соединения
func (c *Components) Close() error {
	if c.Redis != nil {
		return c.Redis.Close()
	}
	return nil
}
