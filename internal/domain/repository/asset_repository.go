package repository

import (
	"context"

	"github.com/infrastructure-search/internal/domain"
)

// QueryBuilder компилирует фильтр поиска в текст запроса к географической базе
type QueryBuilder interface {
	Build(q domain.AssetQuery) (string, error)
}

// AssetQueryRepository выполняет запрос к географической базе и возвращает нормализованные объекты
type AssetQueryRepository interface {
	Execute(ctx context.Context, query string) ([]domain.Asset, error)
}
