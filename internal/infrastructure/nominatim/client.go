package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/infrastructure-search/internal/config"
	"github.com/infrastructure-search/internal/domain"
	"github.com/infrastructure-search/internal/domain/repository"
	"github.com/infrastructure-search/internal/metrics"
	"go.uber.org/zap"
)

const serviceName = "nominatim"

type client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	email       string
	resultLimit int
	logger      *zap.Logger
}

// NewNominatimClient создает клиент сервиса геокодирования
func NewNominatimClient(cfg *config.NominatimConfig, logger *zap.Logger) repository.GeocoderRepository {
	limit := cfg.ResultLimit
	if limit <= 0 {
		limit = 5
	}

	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:     cfg.BaseURL,
		userAgent:   cfg.UserAgent,
		email:       cfg.Email,
		resultLimit: limit,
		logger:      logger,
	}
}

// place - кандидат в формате jsonv2
type place struct {
	DisplayName string   `json:"display_name"`
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	BoundingBox []string `json:"boundingbox"`
	Type        string   `json:"type"`
	AddressType string   `json:"addresstype"`
	Importance  float64  `json:"importance"`
	OSMType     string   `json:"osm_type"`
	OSMID       int64    `json:"osm_id"`
	Address     struct {
		Country     string `json:"country"`
		CountryCode string `json:"country_code"`
		State       string `json:"state"`
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
	} `json:"address"`
}

// Search возвращает кандидатов в порядке ранжирования геокодера
func (c *client) Search(ctx context.Context, text, countryCode string) ([]domain.GeoResult, error) {
	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("q", text)
	params.Set("limit", strconv.Itoa(c.resultLimit))
	params.Set("addressdetails", "1")
	if countryCode != "" {
		params.Set("countrycodes", countryCode)
	}
	if c.email != "" {
		params.Set("email", c.email)
	}

	endpoint := c.baseURL + "/search"

	c.logger.Debug("Calling Nominatim search",
		zap.String("query", text),
		zap.String("country_code", countryCode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(serviceName, c.baseURL, string(domain.FailureTransport), started)
		c.logger.Warn("Nominatim request failed", zap.Error(err))
		return nil, &domain.UpstreamError{
			Service:  serviceName,
			Endpoint: c.baseURL,
			Kind:     domain.FailureTransport,
			Err:      err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		kind := domain.FailureEndpoint
		if resp.StatusCode == http.StatusTooManyRequests {
			kind = domain.FailureRateLimited
		}
		metrics.ObserveUpstream(serviceName, c.baseURL, string(kind), started)

		c.logger.Warn("Nominatim returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, &domain.UpstreamError{
			Service:    serviceName,
			Endpoint:   c.baseURL,
			Kind:       kind,
			StatusCode: resp.StatusCode,
		}
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		metrics.ObserveUpstream(serviceName, c.baseURL, string(domain.FailureEndpoint), started)
		return nil, &domain.UpstreamError{
			Service:    serviceName,
			Endpoint:   c.baseURL,
			Kind:       domain.FailureEndpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to decode response: %w", err),
		}
	}
	metrics.ObserveUpstream(serviceName, c.baseURL, "ok", started)

	results := make([]domain.GeoResult, 0, len(places))
	for _, p := range places {
		r, err := p.toDomain()
		if err != nil {
			c.logger.Debug("Skipping malformed candidate",
				zap.String("display_name", p.DisplayName),
				zap.Error(err))
			continue
		}
		results = append(results, r)
	}

	c.logger.Debug("Nominatim search successful",
		zap.String("query", text),
		zap.Int("candidates", len(results)))

	return results, nil
}

func (p place) toDomain() (domain.GeoResult, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return domain.GeoResult{}, fmt.Errorf("invalid lat %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return domain.GeoResult{}, fmt.Errorf("invalid lon %q: %w", p.Lon, err)
	}

	// boundingbox: [south, north, west, east]
	bbox := domain.BoundingBox{South: lat, North: lat, West: lon, East: lon}
	if len(p.BoundingBox) == 4 {
		var v [4]float64
		for i, s := range p.BoundingBox {
			if v[i], err = strconv.ParseFloat(s, 64); err != nil {
				return domain.GeoResult{}, fmt.Errorf("invalid boundingbox %v: %w", p.BoundingBox, err)
			}
		}
		bbox = domain.BoundingBox{South: v[0], North: v[1], West: v[2], East: v[3]}
	}

	kind, _ := domain.ParseElementKind(p.OSMType)

	placeType := p.Type
	if placeType == "" {
		placeType = p.AddressType
	}

	city := p.Address.City
	if city == "" {
		city = p.Address.Town
	}
	if city == "" {
		city = p.Address.Village
	}

	return domain.GeoResult{
		DisplayName: p.DisplayName,
		Lat:         lat,
		Lon:         lon,
		BoundingBox: bbox,
		Type:        placeType,
		Importance:  p.Importance,
		OSMType:     kind,
		OSMID:       p.OSMID,
		AddressComponents: domain.AddressComponents{
			Country:     p.Address.Country,
			CountryCode: p.Address.CountryCode,
			State:       p.Address.State,
			City:        city,
		},
	}, nil
}
