package usecase

import "github.com/infrastructure-search/internal/domain"

const (
	msgMissingFilter = "must specify an asset type or operator"
	msgMissingScope  = "must specify a geographic scope"
)

// ValidationResult - итог проверки полноты запроса
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidateQuery проверяет, что задан фильтр (тип или оператор) и географическая область
func ValidateQuery(q domain.ParsedQuery) ValidationResult {
	if !q.HasFilter() {
		return ValidationResult{Error: msgMissingFilter}
	}
	if !q.HasScope() {
		return ValidationResult{Error: msgMissingScope}
	}
	return ValidationResult{Valid: true}
}
