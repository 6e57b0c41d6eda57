package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/infrastructure-search/internal/domain"
)

// MockGeocoderRepository is a mock of GeocoderRepository
type MockGeocoderRepository struct {
	mock.Mock
}

func (m *MockGeocoderRepository) Search(ctx context.Context, text, countryCode string) ([]domain.GeoResult, error) {
	args := m.Called(ctx, text, countryCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GeoResult), args.Error(1)
}

// MockAssetQueryRepository is a mock of AssetQueryRepository
type MockAssetQueryRepository struct {
	mock.Mock
}

func (m *MockAssetQueryRepository) Execute(ctx context.Context, query string) ([]domain.Asset, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Asset), args.Error(1)
}

func ptrString(s string) *string {
	return &s
}
