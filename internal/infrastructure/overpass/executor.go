package overpass

import (
	"context"
	"errors"
	"time"

	"github.com/infrastructure-search/internal/domain"
	"github.com/infrastructure-search/internal/domain/repository"
	"go.uber.org/zap"
)

// DefaultRequestTimeout - таймаут одного обращения к зеркалу
const DefaultRequestTimeout = 60 * time.Second

// ErrNoEndpoints - список зеркал пуст
var ErrNoEndpoints = errors.New("overpass: no endpoints configured")

// FailoverExecutor перебирает зеркала строго по очереди до первого успеха.
// Каждое зеркало запрашивается не более одного раза за вызов.
type FailoverExecutor struct {
	clients    []EndpointClient
	timeout    time.Duration
	normalizer *Normalizer
	logger     *zap.Logger
}

var _ repository.AssetQueryRepository = (*FailoverExecutor)(nil)

// NewFailoverExecutor создает исполнитель; порядок clients - порядок перебора
func NewFailoverExecutor(clients []EndpointClient, timeout time.Duration, normalizer *Normalizer, logger *zap.Logger) *FailoverExecutor {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &FailoverExecutor{
		clients:    clients,
		timeout:    timeout,
		normalizer: normalizer,
		logger:     logger,
	}
}

// ExecuteWithFailover возвращает первый успешный ответ либо последнюю ошибку
func (e *FailoverExecutor) ExecuteWithFailover(ctx context.Context, query string) (*Response, error) {
	if len(e.clients) == 0 {
		return nil, ErrNoEndpoints
	}

	var lastErr error
	for i, c := range e.clients {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return nil, lastErr
			}
			return nil, err
		}

		resp, err := e.call(ctx, c, query)
		if err == nil {
			if i > 0 {
				e.logger.Info("Overpass query served by fallback endpoint",
					zap.String("endpoint", c.Endpoint()),
					zap.Int("attempt", i+1))
			}
			return resp, nil
		}

		lastErr = err
		e.logger.Warn("Overpass endpoint failed",
			zap.String("endpoint", c.Endpoint()),
			zap.Int("attempt", i+1),
			zap.Int("endpoints", len(e.clients)),
			zap.Error(err))
	}

	return nil, lastErr
}

func (e *FailoverExecutor) call(ctx context.Context, c EndpointClient, query string) (*Response, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := c.Do(callCtx, query)
	if err != nil {
		var upErr *domain.UpstreamError
		if errors.As(err, &upErr) {
			return nil, err
		}
		// клиенты не обязаны классифицировать ошибки сами
		return nil, &domain.UpstreamError{
			Service:  serviceName,
			Endpoint: c.Endpoint(),
			Kind:     domain.FailureTransport,
			Err:      err,
		}
	}
	if resp == nil {
		return nil, &domain.UpstreamError{
			Service:  serviceName,
			Endpoint: c.Endpoint(),
			Kind:     domain.FailureEndpoint,
			Err:      errors.New("empty response"),
		}
	}
	return resp, nil
}

// Execute выполняет запрос и нормализует элементы
func (e *FailoverExecutor) Execute(ctx context.Context, query string) ([]domain.Asset, error) {
	resp, err := e.ExecuteWithFailover(ctx, query)
	if err != nil {
		return nil, err
	}

	assets := e.normalizer.Normalize(resp.Elements)

	e.logger.Debug("Overpass query executed",
		zap.Int("elements", len(resp.Elements)),
		zap.Int("assets", len(assets)))

	return assets, nil
}
