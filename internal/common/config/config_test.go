// internal/common/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalConfig = `
camunda:
  broker_address: localhost:26500
  plaintext: true
database:
  postgres:
    host: localhost
    database: storefront
    user: ranking
  redis:
    address: localhost:6379
`

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "product-ranking", cfg.App.Name)
	assert.Equal(t, 10, cfg.Camunda.MaxJobsActive)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "products", cfg.Database.Elasticsearch.Index)
	assert.False(t, cfg.Database.Elasticsearch.Enabled())
	assert.Equal(t, ":8080", cfg.Server.MetricsAddr)
	assert.Equal(t, ProfileBackendRedis, cfg.Profiles.Backend)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.InDelta(t, 0.40, cfg.Ranking.Weights.Sales, 1e-9)
	assert.Len(t, cfg.Ranking.TimeDecay, 5)
	assert.Contains(t, cfg.Ranking.Seasonal, "toys")
}

func TestLoadFromFile_PartialRankingOverride(t *testing.T) {
	body := minimalConfig + `
ranking:
  market:
    avg_revenue: 5000
    avg_order_value: 100
    avg_views: 300
  weights:
    sales: 0.5
    engagement: 0.2
    inventory: 0.1
    seller: 0.1
    content: 0.05
    admin: 0.05
`
	cfg, err := LoadFromFile(writeConfig(t, body))
	require.NoError(t, err)

	assert.InDelta(t, 5000, cfg.Ranking.Market.AvgRevenue, 1e-9)
	assert.InDelta(t, 0.5, cfg.Ranking.Weights.Sales, 1e-9)
	// untouched sections keep the built-in tables
	assert.InDelta(t, 0.4, cfg.Ranking.Sales.Velocity, 1e-9)
	assert.InDelta(t, 4.3, cfg.Ranking.References.WeeksPerMonth, 1e-9)
}

func TestLoadFromFile_PartialSectionIsNotMerged(t *testing.T) {
	tests := []struct {
		name    string
		section string
		errMsg  string
	}{
		{
			name: "references with one key",
			section: `
  references:
    velocity_ceiling: 3.0
`,
			errMsg: "ranking.references.",
		},
		{
			name: "market with one key",
			section: `
  market:
    avg_revenue: 5000
`,
			errMsg: "ranking.market averages must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, minimalConfig+"ranking:"+tt.section))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadFromFile_RejectsBadWeights(t *testing.T) {
	body := minimalConfig + `
ranking:
  trending:
    views: 0.5
    sales: 0.5
    wishlist: 0.5
`
	_, err := LoadFromFile(writeConfig(t, body))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ranking.trending must sum to 1.0")
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing broker",
			body:    "database:\n  postgres:\n    host: h\n    database: d\n    user: u\n",
			wantErr: "camunda.broker_address is required",
		},
		{
			name:    "missing postgres host",
			body:    "camunda:\n  broker_address: b\n",
			wantErr: "database.postgres.host is required",
		},
		{
			name: "redis backend without address",
			body: "camunda:\n  broker_address: b\ndatabase:\n  postgres:\n    host: h\n    database: d\n    user: u\n",
			wantErr: "database.redis.address is required",
		},
		{
			name: "unknown backend",
			body: "camunda:\n  broker_address: b\ndatabase:\n  postgres:\n    host: h\n    database: d\n    user: u\nprofiles:\n  backend: dynamo\n",
			wantErr: "profiles.backend must be",
		},
		{
			name: "sns without topic",
			body: minimalConfig + "notifications:\n  sns:\n    enabled: true\n",
			wantErr: "trending_topic_arn is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_USER", "")
			t.Setenv("SNS_TRENDING_TOPIC_ARN", "")
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MemoryBackendNeedsNoRedis(t *testing.T) {
	body := "camunda:\n  broker_address: b\ndatabase:\n  postgres:\n    host: h\n    database: d\n    user: u\nprofiles:\n  backend: memory\n"
	cfg, err := LoadFromFile(writeConfig(t, body))
	require.NoError(t, err)
	assert.Equal(t, ProfileBackendMemory, cfg.Profiles.Backend)
}

func TestLoadFromFile_ExpandsEnvVars(t *testing.T) {
	t.Setenv("RANKING_TEST_PG_PASSWORD", "s3cret")
	body := `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: storefront
    user: ranking
    password: ${RANKING_TEST_PG_PASSWORD}
  redis:
    address: localhost:6379
`
	cfg, err := LoadFromFile(writeConfig(t, body))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Contains(t, cfg.Database.Postgres.GetDSN(), "password=s3cret")
}

func TestLoadFromFile_WorkerDefaults(t *testing.T) {
	body := minimalConfig + `
workers:
  calculate-product-score:
    enabled: true
  get-trending-products:
    enabled: false
    timeout: 5000
`
	cfg, err := LoadFromFile(writeConfig(t, body))
	require.NoError(t, err)

	score := GetWorkerConfig(cfg, "calculate-product-score")
	assert.Equal(t, 5, score.MaxJobsActive)
	assert.Equal(t, 30000, score.Timeout)
	assert.Equal(t, 3, score.MaxRetries)

	assert.False(t, IsWorkerEnabled(cfg, "get-trending-products"))
	assert.Equal(t, 5*time.Second, GetDuration(GetWorkerConfig(cfg, "get-trending-products").Timeout))

	assert.True(t, IsWorkerEnabled(cfg, "not-configured"))
	assert.Equal(t, 30000, GetWorkerConfig(cfg, "not-configured").Timeout)
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
