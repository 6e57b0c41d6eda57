package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/infrastructure-search/internal/domain"
	"github.com/infrastructure-search/internal/domain/repository"
	"github.com/infrastructure-search/internal/metrics"
	"go.uber.org/zap"
)

const (
	geoKeyPrefix    = "geo:"
	searchKeyPrefix = "search:"
)

type cacheRepository struct {
	store  repository.CacheStore
	logger *zap.Logger
}

// NewCacheRepository - типизированные кеши геокодирования и поиска поверх store
func NewCacheRepository(store repository.CacheStore, logger *zap.Logger) repository.CacheRepository {
	return &cacheRepository{
		store:  store,
		logger: logger,
	}
}

// GeoKey - ключ хранилища для кеша геокодирования
func GeoKey(key string) string {
	return geoKeyPrefix + hashKey(key)
}

// SearchKey - ключ хранилища для кеша поиска
func SearchKey(key string) string {
	return searchKeyPrefix + hashKey(key)
}

func hashKey(key string) string {
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

func (r *cacheRepository) GetGeoResult(ctx context.Context, key string) (*domain.GeoResult, error) {
	var result domain.GeoResult
	found, err := r.get(ctx, metrics.CacheGeo, GeoKey(key), &result)
	if err != nil || !found {
		return nil, err
	}
	return &result, nil
}

func (r *cacheRepository) SetGeoResult(ctx context.Context, key string, result *domain.GeoResult, ttl time.Duration) error {
	return r.set(ctx, GeoKey(key), result, ttl)
}

func (r *cacheRepository) GetSearchResult(ctx context.Context, key string) (*domain.SearchResult, error) {
	var result domain.SearchResult
	found, err := r.get(ctx, metrics.CacheSearch, SearchKey(key), &result)
	if err != nil || !found {
		return nil, err
	}
	return &result, nil
}

func (r *cacheRepository) SetSearchResult(ctx context.Context, key string, result *domain.SearchResult, ttl time.Duration) error {
	return r.set(ctx, SearchKey(key), result, ttl)
}

func (r *cacheRepository) get(ctx context.Context, cacheName, key string, dst interface{}) (bool, error) {
	data, err := r.store.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if data == nil {
		metrics.ObserveCache(cacheName, false)
		return false, nil
	}

	if err := json.Unmarshal(data, dst); err != nil {
		// битая запись равносильна промаху
		r.logger.Warn("Failed to unmarshal cache entry, dropping",
			zap.String("key", key),
			zap.Error(err))
		_ = r.store.Delete(ctx, key)
		metrics.ObserveCache(cacheName, false)
		return false, nil
	}

	metrics.ObserveCache(cacheName, true)
	r.logger.Debug("Cache hit", zap.String("cache", cacheName), zap.String("key", key))
	return true, nil
}

func (r *cacheRepository) set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	return r.store.Set(ctx, key, data, ttl)
}
