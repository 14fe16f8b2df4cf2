// internal/common/config/loader_test.go
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

func TestLoadFromFile_DefaultsAndDegradedMode(t *testing.T) {
	path := writeConfig(t, `
camunda:
  broker_address: localhost:26500
workers:
  process-chat-turn:
    enabled: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "lead-intelligence", cfg.App.Name)
	assert.False(t, cfg.Database.Postgres.Configured())
	assert.False(t, cfg.Database.Redis.Configured())
	assert.False(t, cfg.Database.Elasticsearch.Configured())
	assert.Equal(t, "lead-intelligence", cfg.Database.Elasticsearch.LeadIndex)
	assert.Equal(t, 5, cfg.Workers["process-chat-turn"].MaxJobsActive)
	assert.Equal(t, 30000, cfg.Workers["process-chat-turn"].Timeout)
	assert.Equal(t, 3, cfg.Chat.WriteRetries)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "gpt-4o-mini", cfg.APIs.OpenAI.Model)
	assert.Equal(t, 1.0, cfg.Observability.SampleRatio)
}

func TestLoadFromFile_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_PG_HOST", "db.internal")
	t.Setenv("ZOHO_CRM_API_KEY", "zoho-key")

	path := writeConfig(t, `
camunda:
  broker_address: zeebe:26500
database:
  postgres:
    host: ${TEST_PG_HOST}
    database: leads
    user: svc
  elasticsearch:
    addresses: ["http://es:9200"]
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
	assert.True(t, cfg.Database.Postgres.Configured())
	assert.Equal(t, "http://es:9200", cfg.Database.Elasticsearch.GetURL())
	assert.Equal(t, "zoho-key", cfg.Integrations.Zoho.APIKey)
	assert.Contains(t, cfg.Database.Postgres.GetDSN(), "host=db.internal port=5432")
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing broker", "app:\n  name: x\n"},
		{"tracing without endpoint", "camunda:\n  broker_address: z:1\nobservability:\n  tracing_enabled: true\n"},
		{"bad ratio", "camunda:\n  broker_address: z:1\nobservability:\n  sample_ratio: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestGetWorkerConfig(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"check-lead-priority": {Enabled: false, MaxJobsActive: 2},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "check-lead-priority"))
	assert.True(t, IsWorkerEnabled(cfg, "unknown-worker"))
	assert.Equal(t, 5, GetWorkerConfig(cfg, "unknown-worker").MaxJobsActive)
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
