package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/infrastructure-search/internal/domain"
	"github.com/infrastructure-search/internal/metrics"
	"go.uber.org/zap"
)

const serviceName = "overpass"

// Element - элемент ответа сервиса
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *domain.Point     `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// Response - ответ сервиса в формате [out:json]
type Response struct {
	Elements []Element `json:"elements"`
	Remark   string    `json:"remark,omitempty"`
}

// EndpointClient выполняет запрос на одном зеркале сервиса
type EndpointClient interface {
	Endpoint() string
	Do(ctx context.Context, query string) (*Response, error)
}

type httpEndpoint struct {
	httpClient *http.Client
	endpoint   string
	logger     *zap.Logger
}

// NewEndpointClient создает HTTP-клиент одного зеркала.
// Таймаут задаётся контекстом вызова.
func NewEndpointClient(endpoint string, httpClient *http.Client, logger *zap.Logger) EndpointClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &httpEndpoint{
		httpClient: httpClient,
		endpoint:   endpoint,
		logger:     logger,
	}
}

// NewEndpointClients создает клиенты для списка зеркал в заданном порядке
func NewEndpointClients(endpoints []string, logger *zap.Logger) []EndpointClient {
	httpClient := &http.Client{}
	clients := make([]EndpointClient, 0, len(endpoints))
	for _, e := range endpoints {
		clients = append(clients, NewEndpointClient(e, httpClient, logger))
	}
	return clients
}

func (c *httpEndpoint) Endpoint() string {
	return c.endpoint
}

// Do отправляет запрос формой data=<query>
func (c *httpEndpoint) Do(ctx context.Context, query string) (*Response, error) {
	form := url.Values{}
	form.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(serviceName, c.endpoint, string(domain.FailureTransport), started)
		return nil, c.failure(domain.FailureTransport, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

		kind := domain.FailureEndpoint
		if resp.StatusCode == http.StatusTooManyRequests {
			kind = domain.FailureRateLimited
		}
		metrics.ObserveUpstream(serviceName, c.endpoint, string(kind), started)
		return nil, c.failure(kind, resp.StatusCode, nil)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		// обрыв чтения по таймауту - это отказ транспорта, а не ответа
		kind := domain.FailureEndpoint
		if ctx.Err() != nil {
			kind = domain.FailureTransport
		}
		metrics.ObserveUpstream(serviceName, c.endpoint, string(kind), started)
		return nil, c.failure(kind, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}

	// сервис сообщает о таймауте/нехватке памяти через remark при статусе 200
	if strings.Contains(out.Remark, "runtime error") {
		metrics.ObserveUpstream(serviceName, c.endpoint, string(domain.FailureEndpoint), started)
		return nil, c.failure(domain.FailureEndpoint, resp.StatusCode, fmt.Errorf("remark: %s", out.Remark))
	}

	metrics.ObserveUpstream(serviceName, c.endpoint, "ok", started)
	return &out, nil
}

func (c *httpEndpoint) failure(kind domain.FailureKind, status int, err error) error {
	return &domain.UpstreamError{
		Service:    serviceName,
		Endpoint:   c.endpoint,
		Kind:       kind,
		StatusCode: status,
		Err:        err,
	}
}
