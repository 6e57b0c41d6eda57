package dto

import "github.com/infrastructure-search/internal/domain"

// ParseResponse - результат разбора запроса без выполнения поиска
type ParseResponse struct {
	Query    domain.ParsedQuery `json:"query"`
	Valid    bool               `json:"valid"`
	Error    string             `json:"error,omitempty"`
	CacheKey string             `json:"cache_key"`
}

// AssetTypeResponse - тип объекта из справочника
type AssetTypeResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// OperatorResponse - оператор и его синонимы
type OperatorResponse struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
}

// HealthResponse - состояние сервиса
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
