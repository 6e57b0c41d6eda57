package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSearchDoneEvent_Failed(t *testing.T) {
	tests := []struct {
		name     string
		event    SearchDoneEvent
		expected bool
	}{
		{
			name: "result without error",
			event: SearchDoneEvent{
				RequestID: uuid.New(),
				Result:    &SearchResult{},
			},
			expected: false,
		},
		{
			name: "error with code",
			event: SearchDoneEvent{
				RequestID: uuid.New(),
				Error:     "Location not found",
				Code:      "LOCATION_NOT_FOUND",
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.Failed())
		})
	}
}

func TestParsedQuery_FilterAndScope(t *testing.T) {
	q := ParsedQuery{Radius: DefaultRadiusKm}
	assert.False(t, q.HasFilter())
	assert.False(t, q.HasScope())

	q.Operator = StringPtr("google")
	q.Country = StringPtr("india")
	assert.True(t, q.HasFilter())
	assert.True(t, q.HasScope())
}

func TestClampRadius(t *testing.T) {
	tests := []struct {
		in       int
		expected int
	}{
		{-10, 1},
		{0, 1},
		{1, 1},
		{50, 50},
		{500, 500},
		{501, 500},
		{100000, 500},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.in), func(t *testing.T) {
			assert.Equal(t, tt.expected, ClampRadius(tt.in))
		})
	}
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr(""))
	assert.Equal(t, "x", StringValue(StringPtr("x")))
	assert.Equal(t, "", StringValue(nil))
}

func TestParseElementKind(t *testing.T) {
	kind, ok := ParseElementKind("R")
	assert.True(t, ok)
	assert.Equal(t, ElementRelation, kind)

	kind, ok = ParseElementKind("way")
	assert.True(t, ok)
	assert.Equal(t, ElementWay, kind)

	_, ok = ParseElementKind("area")
	assert.False(t, ok)
}

func TestBoundingBox_CenterAndContains(t *testing.T) {
	b := BoundingBox{South: -1, North: 1, West: 10, East: 12}

	assert.Equal(t, Point{Lat: 0, Lon: 11}, b.Center())
	assert.True(t, b.Contains(Point{Lat: 1, Lon: 10}))
	assert.False(t, b.Contains(Point{Lat: 1.5, Lon: 11}))
}

func TestIsRateLimited(t *testing.T) {
	limited := &UpstreamError{Service: "overpass", Endpoint: "a", Kind: FailureRateLimited, StatusCode: 429}
	failed := &UpstreamError{Service: "overpass", Endpoint: "a", Kind: FailureEndpoint, StatusCode: 502}

	assert.True(t, IsRateLimited(limited))
	assert.True(t, IsRateLimited(fmt.Errorf("wrapped: %w", limited)))
	assert.False(t, IsRateLimited(failed))
	assert.False(t, IsRateLimited(errors.New("boom")))
	assert.Contains(t, failed.Error(), "status 502")
}
