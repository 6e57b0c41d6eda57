package repository

import (
	"context"
	"time"

	"github.com/infrastructure-search/internal/domain"
)

// CacheStore - хранилище байтовых значений с TTL (память или Redis)
type CacheStore interface {
	// Get получает значение из кеша по ключу, nil без ошибки при промахе
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// Exists проверяет существование ключа
	Exists(ctx context.Context, key string) (bool, error)
}

// CacheRepository определяет методы для работы с кешами геокодирования и поиска
type CacheRepository interface {
	// GetGeoResult получает результат геокодирования, nil при промахе
	GetGeoResult(ctx context.Context, key string) (*domain.GeoResult, error)

	// SetGeoResult сохраняет результат геокодирования
	SetGeoResult(ctx context.Context, key string, result *domain.GeoResult, ttl time.Duration) error

	// GetSearchResult получает результат поиска, nil при промахе
	GetSearchResult(ctx context.Context, key string) (*domain.SearchResult, error)

	// SetSearchResult сохраняет результат поиска
	SetSearchResult(ctx context.Context, key string, result *domain.SearchResult, ttl time.Duration) error
}
