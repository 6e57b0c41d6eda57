package overpass

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/infrastructure-search/internal/domain"
)

func TestEndpointClient_Do(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   domain.FailureKind
	}{
		{"rate limited", http.StatusTooManyRequests, "", domain.FailureRateLimited},
		{"gateway timeout", http.StatusGatewayTimeout, "", domain.FailureEndpoint},
		{"malformed body", http.StatusOK, "<html>", domain.FailureEndpoint},
		{"runtime remark", http.StatusOK, `{"elements":[],"remark":"runtime error: Query timed out in \"query\" at line 3 after 26 seconds."}`, domain.FailureEndpoint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewEndpointClient(server.URL, nil, zap.NewNop()).Do(context.Background(), "q")

			var upErr *domain.UpstreamError
			require.True(t, errors.As(err, &upErr))
			assert.Equal(t, tt.kind, upErr.Kind)
			assert.Equal(t, server.URL, upErr.Endpoint)
		})
	}
}

func TestEndpointClient_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "node(1);out;", r.PostForm.Get("data"))
		_, _ = w.Write([]byte(`{"elements":[{"type":"node","id":1,"lat":1.5,"lon":2.5}]}`))
	}))
	defer server.Close()

	resp, err := NewEndpointClient(server.URL, nil, zap.NewNop()).Do(context.Background(), "node(1);out;")
	require.NoError(t, err)
	require.Len(t, resp.Elements, 1)
	assert.Equal(t, 1.5, *resp.Elements[0].Lat)
}

func TestEndpointClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	_, err := NewEndpointClient(endpoint, nil, zap.NewNop()).Do(context.Background(), "q")

	var upErr *domain.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, domain.FailureTransport, upErr.Kind)
}
