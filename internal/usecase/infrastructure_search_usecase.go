package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/infrastructure-search/internal/domain"
	"github.com/infrastructure-search/internal/domain/repository"
	"github.com/infrastructure-search/internal/metrics"
	"github.com/infrastructure-search/internal/pkg/errors"
	"github.com/infrastructure-search/internal/pkg/geo"
)

// InfrastructureSearchUseCase - конвейер поиска: разбор, проверка, кеш, геокодирование,
// геометрия, построение и выполнение запроса, статистика, сохранение в кеш.
// Результат либо полный, либо ошибка: частичные результаты не возвращаются и не кешируются.
type InfrastructureSearchUseCase struct {
	parser    *QueryParser
	resolver  *LocationResolver
	builder   repository.QueryBuilder
	executor  repository.AssetQueryRepository
	cacheRepo repository.CacheRepository
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewInfrastructureSearchUseCase - создание нового InfrastructureSearchUseCase
func NewInfrastructureSearchUseCase(
	parser *QueryParser,
	resolver *LocationResolver,
	builder repository.QueryBuilder,
	executor repository.AssetQueryRepository,
	cacheRepo repository.CacheRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *InfrastructureSearchUseCase {
	return &InfrastructureSearchUseCase{
		parser:    parser,
		resolver:  resolver,
		builder:   builder,
		executor:  executor,
		cacheRepo: cacheRepo,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// Parse разбирает запрос без сетевых вызовов и возвращает результат проверки
func (uc *InfrastructureSearchUseCase) Parse(text string) (domain.ParsedQuery, ValidationResult) {
	q := uc.parser.Parse(text)
	return q, ValidateQuery(q)
}

// Search выполняет конвейер для текста запроса
func (uc *InfrastructureSearchUseCase) Search(ctx context.Context, text string) (*domain.SearchResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, uc.fail(errors.ErrMissingQuery)
	}
	if utf8.RuneCountInString(text) > domain.MaxQueryLength {
		return nil, uc.fail(errors.ErrQueryTooLong)
	}

	return uc.SearchParsed(ctx, uc.parser.Parse(text))
}

// SearchParsed выполняет конвейер для уже разобранного запроса
func (uc *InfrastructureSearchUseCase) SearchParsed(ctx context.Context, q domain.ParsedQuery) (*domain.SearchResult, error) {
	if v := ValidateQuery(q); !v.Valid {
		return nil, uc.fail(errors.ErrInvalidQuery.WithMessage(v.Error))
	}

	key := SearchCacheKey(q)
	cached, err := uc.cacheRepo.GetSearchResult(ctx, key)
	if err != nil {
		uc.logger.Warn("Search cache lookup failed", zap.Error(err))
	} else if cached != nil {
		metrics.SearchTotal.WithLabelValues("cached").Inc()
		uc.logger.Debug("Search served from cache", zap.String("raw", q.Raw))
		// запись общая для эквивалентных запросов, разбор возвращаем вызывающего
		cached.Query = q
		return cached, nil
	}

	assetQuery, err := uc.resolveScope(ctx, q)
	if err != nil {
		return nil, uc.fail(err)
	}

	// валидатор уже отсёк такие запросы
	if !q.HasFilter() {
		return nil, uc.fail(errors.ErrInsufficientFilters)
	}
	assetQuery.Type = domain.StringValue(q.Type)
	assetQuery.Operator = domain.StringValue(q.Operator)

	queryText, err := uc.builder.Build(assetQuery)
	if err != nil {
		return nil, uc.fail(fmt.Errorf("build query: %w", err))
	}

	assets, err := uc.executor.Execute(ctx, queryText)
	if err != nil {
		return nil, uc.fail(uc.mapUpstreamError(ctx, err))
	}

	bounds := assetQuery.BBox
	result := &domain.SearchResult{
		Results: assets,
		Stats:   AggregateStats(assets),
		Bounds:  &bounds,
		Query:   q,
	}

	if err := uc.cacheRepo.SetSearchResult(ctx, key, result, uc.cacheTTL); err != nil {
		uc.logger.Warn("Failed to cache search result", zap.Error(err))
	}

	metrics.SearchTotal.WithLabelValues("ok").Inc()
	uc.logger.Info("Search completed",
		zap.String("type", assetQuery.Type),
		zap.String("operator", assetQuery.Operator),
		zap.Bool("area_scoped", assetQuery.AreaID != nil),
		zap.Int("results", len(assets)))

	return result, nil
}

// Geocode разрешает название места через общий резолвер
func (uc *InfrastructureSearchUseCase) Geocode(ctx context.Context, text, countryCode string) (*domain.GeoResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.ErrMissingQuery
	}

	result, err := uc.resolver.Resolve(ctx, strings.TrimSpace(text), countryCode)
	if err != nil {
		return nil, uc.mapUpstreamError(ctx, err)
	}
	if result == nil {
		return nil, errors.ErrLocationNotFound
	}
	return result, nil
}

// resolveScope определяет географический фильтр запроса.
// near: прямоугольник радиуса вокруг точки. region/country: область по id элемента,
// если он конвертируется, иначе расширенный прямоугольник геокодера.
func (uc *InfrastructureSearchUseCase) resolveScope(ctx context.Context, q domain.ParsedQuery) (domain.AssetQuery, error) {
	countryCode, countryText := splitCountry(q.Country)

	if q.Near != nil {
		place, err := uc.resolve(ctx, *q.Near, countryCode)
		if err != nil {
			return domain.AssetQuery{}, err
		}
		return domain.AssetQuery{
			BBox: geo.BoundingBoxFromPoint(place.Lat, place.Lon, float64(q.Radius)),
		}, nil
	}

	var text string
	switch {
	case q.Region != nil:
		text = *q.Region
		if countryText != "" {
			text += ", " + countryText
		}
	case countryText != "":
		text = countryText
	case countryCode != "":
		text = countryCode
	default:
		return domain.AssetQuery{}, errors.ErrMissingLocation
	}

	place, err := uc.resolve(ctx, text, countryCode)
	if err != nil {
		return domain.AssetQuery{}, err
	}

	out := domain.AssetQuery{BBox: geo.Expand(place.BoundingBox, geo.DefaultExpandFactor)}
	if id, ok := geo.AreaID(place.OSMType, place.OSMID); ok {
		out.AreaID = &id
	}
	return out, nil
}

func (uc *InfrastructureSearchUseCase) resolve(ctx context.Context, text, countryCode string) (*domain.GeoResult, error) {
	place, err := uc.resolver.Resolve(ctx, text, countryCode)
	if err != nil {
		return nil, uc.mapUpstreamError(ctx, err)
	}
	if place == nil {
		return nil, errors.ErrLocationNotFound.WithDetails(map[string]interface{}{"location": text})
	}
	return place, nil
}

// splitCountry: двухбуквенное значение - код страны для ограничения поиска,
// иначе название, которое дописывается к тексту места
func splitCountry(country *string) (code, text string) {
	c := strings.TrimSpace(domain.StringValue(country))
	if utf8.RuneCountInString(c) == 2 {
		return strings.ToLower(c), ""
	}
	return "", c
}

// SearchCacheKey - канонические поля фильтра, а не исходный текст:
// разные формулировки одного запроса делят запись кеша
func SearchCacheKey(q domain.ParsedQuery) string {
	parts := []string{
		domain.StringValue(q.Type),
		domain.StringValue(q.Operator),
		domain.StringValue(q.Region),
		domain.StringValue(q.Country),
		domain.StringValue(q.Near),
		strconv.Itoa(q.Radius),
	}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(parts, "|")
}

// mapUpstreamError переводит отказ внешнего сервиса в код ошибки API
func (uc *InfrastructureSearchUseCase) mapUpstreamError(ctx context.Context, err error) error {
	if _, ok := errors.AsAppError(err); ok {
		return err
	}

	uc.logger.Warn("Upstream call failed", zap.Error(err))
	if domain.IsRateLimited(err) {
		return errors.ErrUpstreamRateLimited
	}

	var upErr *domain.UpstreamError
	if stderrors.As(err, &upErr) ||
		stderrors.Is(err, context.DeadlineExceeded) ||
		ctx.Err() != nil {
		return errors.ErrUpstreamTimeout
	}
	return err
}

// fail считает исход поиска и оставляет ошибку как есть.
// Неожиданные ошибки логирует вызывающая сторона (HTTP, воркер).
func (uc *InfrastructureSearchUseCase) fail(err error) error {
	outcome := errors.CodeInternalError
	if appErr, ok := errors.AsAppError(err); ok {
		outcome = appErr.Code
	}
	metrics.SearchTotal.WithLabelValues(outcome).Inc()
	return err
}
