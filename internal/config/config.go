package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cache backends
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Log       LogConfig
	Worker    WorkerConfig
	Nominatim NominatimConfig
	Overpass  OverpassConfig
	Taxonomy  TaxonomyConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	Backend    string
	MaxEntries int
	GeoTTL     time.Duration
	SearchTTL  time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	SearchTimeout     time.Duration
}

// NominatimConfig - сервис геокодирования
type NominatimConfig struct {
	BaseURL        string
	UserAgent      string
	Email          string
	ResultLimit    int
	MinInterval    time.Duration
	RequestTimeout time.Duration
}

// OverpassConfig - сервис запросов к географической базе
type OverpassConfig struct {
	Endpoints      []string
	RequestTimeout time.Duration
	QueryTimeout   time.Duration
	MaxSize        int64
	ResultLimit    int
}

type TaxonomyConfig struct {
	File string
}

var defaults = map[string]interface{}{
	"API_HOST":                   "0.0.0.0",
	"API_PORT":                   8080,
	"API_ENV":                    "development",
	"LOG_LEVEL":                  "info",
	"REDIS_HOST":                 "localhost",
	"REDIS_PORT":                 6379,
	"REDIS_DB":                   0,
	"CACHE_BACKEND":              CacheBackendMemory,
	"CACHE_MAX_ENTRIES":          10000,
	"GEO_CACHE_TTL":              7 * 24 * 3600,
	"SEARCH_CACHE_TTL":           3600,
	"WORKER_ENABLED":             true,
	"WORKER_CONSUMER_GROUP":      "infra-search-workers",
	"WORKER_STREAM_READ_TIMEOUT": 5000,
	"WORKER_SEARCH_TIMEOUT":      120,
	"NOMINATIM_BASE_URL":         "https://nominatim.openstreetmap.org",
	"NOMINATIM_USER_AGENT":       "infrastructure-search/1.0",
	"NOMINATIM_RESULT_LIMIT":     5,
	"NOMINATIM_MIN_INTERVAL":     1000,
	"NOMINATIM_TIMEOUT":          10,
	"OVERPASS_ENDPOINTS": strings.Join([]string{
		"https://overpass-api.de/api/interpreter",
		"https://overpass.kumi.systems/api/interpreter",
		"https://maps.mail.ru/osm/tools/overpass/api/interpreter",
	}, ","),
	"OVERPASS_REQUEST_TIMEOUT": 60,
	"OVERPASS_QUERY_TIMEOUT":   60,
	"OVERPASS_MAX_SIZE":        536870912,
	"OVERPASS_RESULT_LIMIT":    1000,
}

// Load читает конфигурацию из .env (если есть) и переменных окружения
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile читает конфигурацию из указанного env-файла и переменных окружения.
// Отсутствие файла не считается ошибкой.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("API_HOST"),
			Port: v.GetInt("API_PORT"),
			Env:  v.GetString("API_ENV"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			Backend:    strings.ToLower(v.GetString("CACHE_BACKEND")),
			MaxEntries: v.GetInt("CACHE_MAX_ENTRIES"),
			GeoTTL:     time.Duration(v.GetInt("GEO_CACHE_TTL")) * time.Second,
			SearchTTL:  time.Duration(v.GetInt("SEARCH_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:           v.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     v.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(v.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			SearchTimeout:     time.Duration(v.GetInt("WORKER_SEARCH_TIMEOUT")) * time.Second,
		},
		Nominatim: NominatimConfig{
			BaseURL:        strings.TrimRight(v.GetString("NOMINATIM_BASE_URL"), "/"),
			UserAgent:      v.GetString("NOMINATIM_USER_AGENT"),
			Email:          v.GetString("NOMINATIM_EMAIL"),
			ResultLimit:    v.GetInt("NOMINATIM_RESULT_LIMIT"),
			MinInterval:    time.Duration(v.GetInt("NOMINATIM_MIN_INTERVAL")) * time.Millisecond,
			RequestTimeout: time.Duration(v.GetInt("NOMINATIM_TIMEOUT")) * time.Second,
		},
		Overpass: OverpassConfig{
			Endpoints:      parseList(v.GetString("OVERPASS_ENDPOINTS")),
			RequestTimeout: time.Duration(v.GetInt("OVERPASS_REQUEST_TIMEOUT")) * time.Second,
			QueryTimeout:   time.Duration(v.GetInt("OVERPASS_QUERY_TIMEOUT")) * time.Second,
			MaxSize:        v.GetInt64("OVERPASS_MAX_SIZE"),
			ResultLimit:    v.GetInt("OVERPASS_RESULT_LIMIT"),
		},
		Taxonomy: TaxonomyConfig{
			File: v.GetString("TAXONOMY_FILE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	var errs []error

	if c.Cache.Backend != CacheBackendMemory && c.Cache.Backend != CacheBackendRedis {
		errs = append(errs, fmt.Errorf("CACHE_BACKEND must be %q or %q, got %q",
			CacheBackendMemory, CacheBackendRedis, c.Cache.Backend))
	}
	if c.Cache.MaxEntries <= 0 {
		errs = append(errs, errors.New("CACHE_MAX_ENTRIES must be positive"))
	}
	if len(c.Overpass.Endpoints) == 0 {
		errs = append(errs, errors.New("OVERPASS_ENDPOINTS must list at least one endpoint"))
	}
	if c.Nominatim.UserAgent == "" {
		errs = append(errs, errors.New("NOMINATIM_USER_AGENT is required"))
	}
	if c.Nominatim.MinInterval < 0 {
		errs = append(errs, errors.New("NOMINATIM_MIN_INTERVAL must not be negative"))
	}

	return errors.Join(errs...)
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
