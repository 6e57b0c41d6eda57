package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/infrastructure-search/internal/domain"
	"github.com/infrastructure-search/internal/domain/repository"
	"github.com/infrastructure-search/internal/pkg/ratelimit"
)

// importanceThreshold - кандидат важнее этого порога принимается независимо от типа
const importanceThreshold = 0.5

var adminPlaceTypes = map[string]struct{}{
	"administrative": {},
	"state":          {},
	"city":           {},
	"town":           {},
	"village":        {},
	"county":         {},
	"district":       {},
}

// LocationResolver геокодирует название места: кеш, затем ограничитель частоты, затем геокодер
type LocationResolver struct {
	geocoder repository.GeocoderRepository
	cache    repository.CacheRepository
	limiter  *ratelimit.Limiter
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewLocationResolver создает резолвер. limiter общий для всего процесса.
func NewLocationResolver(
	geocoder repository.GeocoderRepository,
	cache repository.CacheRepository,
	limiter *ratelimit.Limiter,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *LocationResolver {
	return &LocationResolver{
		geocoder: geocoder,
		cache:    cache,
		limiter:  limiter,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Resolve возвращает лучший кандидат либо nil, nil если место не найдено.
// countryCode (alpha-2) ограничивает поиск страной, пустая строка - без ограничения.
func (r *LocationResolver) Resolve(ctx context.Context, text, countryCode string) (*domain.GeoResult, error) {
	countryCode = strings.ToLower(strings.TrimSpace(countryCode))
	key := geoCacheKey(text, countryCode)

	cached, err := r.cache.GetGeoResult(ctx, key)
	if err != nil {
		r.logger.Warn("Geo cache lookup failed", zap.String("text", text), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	if err := r.limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	candidates, err := r.geocoder.Search(ctx, text, countryCode)
	if err != nil {
		return nil, err
	}

	best := SelectCandidate(candidates)
	if best == nil {
		r.logger.Info("Location not found", zap.String("text", text), zap.String("country_code", countryCode))
		return nil, nil
	}

	if err := r.cache.SetGeoResult(ctx, key, best, r.cacheTTL); err != nil {
		r.logger.Warn("Failed to cache geo result", zap.String("text", text), zap.Error(err))
	}

	r.logger.Debug("Location resolved",
		zap.String("text", text),
		zap.String("display_name", best.DisplayName),
		zap.String("osm_type", string(best.OSMType)),
		zap.Int64("osm_id", best.OSMID))

	return best, nil
}

// geoCacheKey - исходный текст, плюс код страны если он ограничивает поиск
func geoCacheKey(text, countryCode string) string {
	if countryCode == "" {
		return text
	}
	return text + "|" + countryCode
}

// SelectCandidate берёт первый административный или важный (> 0.5) кандидат,
// иначе кандидат с максимальной важностью. Пустой список - nil.
func SelectCandidate(candidates []domain.GeoResult) *domain.GeoResult {
	if len(candidates) == 0 {
		return nil
	}

	for i := range candidates {
		_, admin := adminPlaceTypes[candidates[i].Type]
		if admin || candidates[i].Importance > importanceThreshold {
			c := candidates[i]
			return &c
		}
	}

	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Importance > candidates[best].Importance {
			best = i
		}
	}
	c := candidates[best]
	return &c
}
