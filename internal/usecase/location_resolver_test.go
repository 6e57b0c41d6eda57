package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/infrastructure-search/internal/domain"
	"github.com/infrastructure-search/internal/pkg/ratelimit"
	"github.com/infrastructure-search/internal/repository/cache"
	"github.com/infrastructure-search/internal/usecase"
)

func karnataka() domain.GeoResult {
	return domain.GeoResult{
		DisplayName: "Karnataka, India",
		Lat:         14.52,
		Lon:         75.72,
		BoundingBox: domain.BoundingBox{South: 11.59, North: 18.45, West: 74.05, East: 78.59},
		Type:        "administrative",
		Importance:  0.72,
		OSMType:     domain.ElementRelation,
		OSMID:       2019939,
	}
}

func newResolver(geocoder *MockGeocoderRepository, limiter *ratelimit.Limiter) *usecase.LocationResolver {
	cacheRepo := cache.NewCacheRepository(cache.NewMemoryStore(100, time.Hour), zap.NewNop())
	return usecase.NewLocationResolver(geocoder, cacheRepo, limiter, time.Hour, zap.NewNop())
}

func TestLocationResolver_CachesResolvedPlace(t *testing.T) {
	geocoder := new(MockGeocoderRepository)
	geocoder.On("Search", mock.Anything, "karnataka", "").
		Return([]domain.GeoResult{karnataka()}, nil).Once()

	resolver := newResolver(geocoder, ratelimit.New(0))
	ctx := context.Background()

	first, err := resolver.Resolve(ctx, "karnataka", "")
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := resolver.Resolve(ctx, "karnataka", "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	geocoder.AssertNumberOfCalls(t, "Search", 1)
}

func TestLocationResolver_CountryCodeIsPartOfKey(t *testing.T) {
	geocoder := new(MockGeocoderRepository)
	geocoder.On("Search", mock.Anything, "georgia", "").
		Return([]domain.GeoResult{{DisplayName: "Georgia, United States", Type: "state", OSMType: domain.ElementRelation, OSMID: 161957}}, nil)
	geocoder.On("Search", mock.Anything, "georgia", "ge").
		Return([]domain.GeoResult{{DisplayName: "Georgia", Type: "administrative", OSMType: domain.ElementRelation, OSMID: 28699}}, nil)

	resolver := newResolver(geocoder, ratelimit.New(0))
	ctx := context.Background()

	us, err := resolver.Resolve(ctx, "georgia", "")
	require.NoError(t, err)
	country, err := resolver.Resolve(ctx, "georgia", "GE")
	require.NoError(t, err)

	assert.Equal(t, int64(161957), us.OSMID)
	assert.Equal(t, int64(28699), country.OSMID)
	geocoder.AssertExpectations(t)
}

func TestLocationResolver_NotFoundIsNotCached(t *testing.T) {
	geocoder := new(MockGeocoderRepository)
	geocoder.On("Search", mock.Anything, "atlantis", "").Return([]domain.GeoResult{}, nil)

	resolver := newResolver(geocoder, ratelimit.New(0))

	for i := 0; i < 2; i++ {
		place, err := resolver.Resolve(context.Background(), "atlantis", "")
		require.NoError(t, err)
		assert.Nil(t, place)
	}

	geocoder.AssertNumberOfCalls(t, "Search", 2)
}

func TestLocationResolver_GeocoderErrorIsReturned(t *testing.T) {
	upErr := &domain.UpstreamError{Service: "nominatim", Endpoint: "search", Kind: domain.FailureRateLimited, StatusCode: 429}

	geocoder := new(MockGeocoderRepository)
	geocoder.On("Search", mock.Anything, "pune", "").Return(nil, upErr)

	resolver := newResolver(geocoder, ratelimit.New(0))

	place, err := resolver.Resolve(context.Background(), "pune", "")
	assert.Nil(t, place)
	assert.ErrorIs(t, err, upErr)
}

func TestLocationResolver_CancelledWhileWaitingForLimiter(t *testing.T) {
	geocoder := new(MockGeocoderRepository)
	limiter := ratelimit.New(time.Hour)

	// первый вызов забирает единственный токен
	require.NoError(t, limiter.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	resolver := newResolver(geocoder, limiter)
	place, err := resolver.Resolve(ctx, "pune", "")

	assert.Nil(t, place)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	geocoder.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestSelectCandidate(t *testing.T) {
	tests := []struct {
		name       string
		candidates []domain.GeoResult
		expected   string
	}{
		{
			name:       "empty",
			candidates: nil,
			expected:   "",
		},
		{
			name: "first administrative wins",
			candidates: []domain.GeoResult{
				{DisplayName: "Springfield Mall", Type: "retail", Importance: 0.3},
				{DisplayName: "Springfield, IL", Type: "city", Importance: 0.4},
				{DisplayName: "Springfield, MA", Type: "city", Importance: 0.45},
			},
			expected: "Springfield, IL",
		},
		{
			name: "important non administrative accepted",
			candidates: []domain.GeoResult{
				{DisplayName: "Big Airport", Type: "aerodrome", Importance: 0.6},
				{DisplayName: "Small Town", Type: "town", Importance: 0.2},
			},
			expected: "Big Airport",
		},
		{
			name: "fallback to max importance",
			candidates: []domain.GeoResult{
				{DisplayName: "a", Type: "road", Importance: 0.1},
				{DisplayName: "b", Type: "road", Importance: 0.4},
				{DisplayName: "c", Type: "road", Importance: 0.3},
			},
			expected: "b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := usecase.SelectCandidate(tt.candidates)
			if tt.expected == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, got.DisplayName)
		})
	}
}
