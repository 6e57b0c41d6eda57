package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/infrastructure-search/internal/domain"
	"github.com/infrastructure-search/internal/domain/repository"
	apperrors "github.com/infrastructure-search/internal/pkg/errors"
	"github.com/infrastructure-search/internal/worker"
)

const (
	workerName           = "infra-search"
	defaultSearchTimeout = 2 * time.Minute
)

// errMalformed - сообщение нельзя разобрать, оно подтверждается без ответа
var errMalformed = errors.New("malformed search request")

// Searcher выполняет поисковый конвейер
type Searcher interface {
	Search(ctx context.Context, text string) (*domain.SearchResult, error)
}

// SearchWorker выполняет поисковые запросы из stream:infra:search:request
// и публикует результат в stream:infra:search:done
type SearchWorker struct {
	*worker.BaseWorker
	streamRepo    repository.StreamRepository
	searcher      Searcher
	searchTimeout time.Duration
}

// NewSearchWorker создает новый SearchWorker. searchTimeout ограничивает один поиск.
func NewSearchWorker(
	streamRepo repository.StreamRepository,
	searcher Searcher,
	consumerGroup string,
	searchTimeout time.Duration,
	logger *zap.Logger,
) *SearchWorker {
	if searchTimeout <= 0 {
		searchTimeout = defaultSearchTimeout
	}
	return &SearchWorker{
		BaseWorker:    worker.NewBaseWorker(workerName, consumerGroup, logger),
		streamRepo:    streamRepo,
		searcher:      searcher,
		searchTimeout: searchTimeout,
	}
}

// Start запускает воркер
func (w *SearchWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting SearchWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()),
		zap.Duration("search_timeout", w.searchTimeout))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamSearchRequest, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	// чтение останавливается и по Stop, и по отмене ctx
	consumeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	msgChan, err := w.streamRepo.ConsumeStream(consumeCtx, domain.StreamSearchRequest, w.ConsumerGroup(), w.ConsumerName())
	if err != nil {
		return fmt.Errorf("failed to consume stream: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		case msg, ok := <-msgChan:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("message channel closed")
			}

			if err := w.ProcessMessage(ctx, msg); err != nil {
				// без ACK сообщение останется в pending и будет прочитано повторно
				logger.Error("Failed to process message",
					zap.String("message_id", msg.ID),
					zap.Error(err))
				continue
			}

			if err := w.streamRepo.AckMessage(ctx, domain.StreamSearchRequest, w.ConsumerGroup(), msg.ID); err != nil {
				logger.Error("Failed to acknowledge message",
					zap.String("message_id", msg.ID),
					zap.Error(err))
			}
		}
	}
}

// ProcessMessage выполняет поиск по одному сообщению и публикует ответ.
// Ошибка возвращается только если ответ не удалось опубликовать.
func (w *SearchWorker) ProcessMessage(ctx context.Context, msg domain.StreamMessage) error {
	logger := w.Logger()

	event, err := parseRequest(msg.Data)
	if err != nil {
		logger.Warn("Skipping malformed message",
			zap.String("message_id", msg.ID),
			zap.String("raw_data", msg.Data),
			zap.Error(err))
		return nil
	}

	searchCtx, cancel := context.WithTimeout(ctx, w.searchTimeout)
	defer cancel()

	started := time.Now()
	result, err := w.searcher.Search(searchCtx, event.Query)

	done := domain.SearchDoneEvent{RequestID: event.RequestID, Result: result}
	if err != nil {
		appErr, ok := apperrors.AsAppError(err)
		if !ok {
			logger.Error("Search failed",
				zap.String("request_id", event.RequestID.String()),
				zap.Error(err))
			appErr = apperrors.ErrInternal
		}
		done = domain.SearchDoneEvent{RequestID: event.RequestID, Error: appErr.Message, Code: appErr.Code}
	}

	if err := w.streamRepo.PublishToStream(ctx, domain.StreamSearchDone, &done); err != nil {
		return fmt.Errorf("failed to publish result: %w", err)
	}

	fields := []zap.Field{
		zap.String("request_id", event.RequestID.String()),
		zap.Duration("duration", time.Since(started)),
	}
	if done.Failed() {
		logger.Info("Search finished with error", append(fields, zap.String("code", done.Code))...)
	} else {
		logger.Info("Search finished", append(fields, zap.Int("results", result.Stats.Total))...)
	}

	return nil
}

func parseRequest(data string) (*domain.SearchRequestEvent, error) {
	var event domain.SearchRequestEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if event.RequestID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing request_id", errMalformed)
	}
	return &event, nil
}
