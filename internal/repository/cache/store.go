package cache

import (
	"fmt"

	"github.com/infrastructure-search/internal/config"
	"github.com/infrastructure-search/internal/domain/repository"
	"go.uber.org/zap"
)

// NewStore выбирает хранилище по CACHE_BACKEND.
// Для redis нужен открытый клиент, для memory он не используется и может быть nil.
func NewStore(cfg *config.CacheConfig, r *Redis, logger *zap.Logger) (repository.CacheStore, error) {
	switch cfg.Backend {
	case config.CacheBackendMemory, "":
		maxTTL := cfg.GeoTTL
		if cfg.SearchTTL > maxTTL {
			maxTTL = cfg.SearchTTL
		}
		logger.Info("Using in-memory cache",
			zap.Int("max_entries", cfg.MaxEntries),
			zap.Duration("max_ttl", maxTTL))
		return NewMemoryStore(cfg.MaxEntries, maxTTL), nil
	case config.CacheBackendRedis:
		if r == nil {
			return nil, fmt.Errorf("redis cache backend requires a redis connection")
		}
		logger.Info("Using redis cache")
		return NewRedisStore(r.Client(), logger), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
