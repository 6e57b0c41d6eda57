package repository

import (
	"context"

	"github.com/infrastructure-search/internal/domain"
)

// GeocoderRepository определяет методы для работы с сервисом геокодирования
type GeocoderRepository interface {
	// Search возвращает ранжированный список кандидатов для названия места.
	// countryCode (ISO 3166-1 alpha-2) ограничивает поиск страной, пустая строка - без ограничения.
	Search(ctx context.Context, text, countryCode string) ([]domain.GeoResult, error)
}
