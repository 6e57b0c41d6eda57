package usecase

import "github.com/infrastructure-search/internal/domain"

// AggregateStats считает объекты по операторам и типам
func AggregateStats(assets []domain.Asset) domain.SearchStats {
	stats := domain.SearchStats{
		Total:     len(assets),
		Operators: make(map[string]int),
		Types:     make(map[string]int),
	}

	for _, a := range assets {
		op := domain.UnknownOperator
		if a.Operator != nil {
			op = *a.Operator
		}
		stats.Operators[op]++
		stats.Types[a.Type]++
	}

	return stats
}
