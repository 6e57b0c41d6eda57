package bootstrap_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/infrastructure-search/internal/bootstrap"
	"github.com/infrastructure-search/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			Backend:    config.CacheBackendMemory,
			MaxEntries: 10,
			GeoTTL:     time.Hour,
			SearchTTL:  time.Minute,
		},
		Nominatim: config.NominatimConfig{BaseURL: "http://127.0.0.1:1"},
		Overpass:  config.OverpassConfig{Endpoints: []string{"http://127.0.0.1:1"}},
	}
}

func TestBuild_MemoryBackend(t *testing.T) {
	c, err := bootstrap.Build(testConfig(), zap.NewNop(), bootstrap.Options{})
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.Redis)
	assert.NotNil(t, c.SearchUC)
	assert.True(t, c.Taxonomy.Has("data_center"))

	// разбор не требует сети
	q, v := c.SearchUC.Parse("google data centers in ireland")
	assert.True(t, v.Valid)
	assert.Equal(t, "google", *q.Operator)
}

func TestBuild_RequireRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Redis = config.RedisConfig{Host: mr.Host(), Port: port}

	c, err := bootstrap.Build(cfg, zap.NewNop(), bootstrap.Options{RequireRedis: true})
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.Redis)
	assert.NoError(t, c.Redis.Health(context.Background()))
}

func TestBuild_MissingTaxonomyFile(t *testing.T) {
	cfg := testConfig()
	cfg.Taxonomy.File = "/nonexistent/taxonomy.yaml"

	_, err := bootstrap.Build(cfg, zap.NewNop(), bootstrap.Options{})
	assert.ErrorContains(t, err, "failed to load taxonomy")
}
