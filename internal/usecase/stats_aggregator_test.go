package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/infrastructure-search/internal/domain"
	"github.com/infrastructure-search/internal/usecase"
)

func TestAggregateStats(t *testing.T) {
	assets := []domain.Asset{
		{ID: "node/1", Type: "data_center", Operator: ptrString("google")},
		{ID: "node/2", Type: "telecom"},
		{ID: "way/3", Type: "data_center", Operator: ptrString("google")},
	}

	stats := usecase.AggregateStats(assets)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, map[string]int{"google": 2, "Unknown": 1}, stats.Operators)
	assert.Equal(t, map[string]int{"data_center": 2, "telecom": 1}, stats.Types)
}

func TestAggregateStats_Empty(t *testing.T) {
	stats := usecase.AggregateStats(nil)

	assert.Equal(t, 0, stats.Total)
	assert.NotNil(t, stats.Operators)
	assert.Empty(t, stats.Operators)
	assert.Empty(t, stats.Types)
}
