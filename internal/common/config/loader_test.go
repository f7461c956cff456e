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

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  address: ":8080"
model:
  path: "model/credit_risk.onnx"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "credit-risk-dashboard", cfg.App.Name)
	assert.Equal(t, "model/credit_risk.json", cfg.Model.MetadataPath)
	assert.Equal(t, 10000, cfg.Server.ReadTimeout)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "credit-risk-dashboard", cfg.Observability.ServiceName)
	assert.Equal(t, "configs/activity-registry.json", cfg.RegistryPath)
	assert.False(t, cfg.Camunda.Enabled)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_RISK_MODEL_PATH", "/opt/models/risk.onnx")
	path := writeConfig(t, `
server:
  address: ":8080"
model:
  path: "${TEST_RISK_MODEL_PATH}"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/models/risk.onnx", cfg.Model.Path)
	assert.Equal(t, "/opt/models/risk.json", cfg.Model.MetadataPath)
}

func TestLoadFromFile_WorkerDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  address: ":8080"
model:
  path: "model/credit_risk.onnx"
camunda:
  enabled: true
  broker_address: "localhost:26500"
workers:
  predict-credit-risk:
    enabled: false
  normalize-applicant:
    enabled: true
    max_jobs_active: 2
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	predict := GetWorkerConfig(cfg, "predict-credit-risk")
	assert.False(t, predict.Enabled)
	assert.Equal(t, 5, predict.MaxJobsActive)
	assert.Equal(t, 30000, predict.Timeout)

	normalize := GetWorkerConfig(cfg, "normalize-applicant")
	assert.Equal(t, 2, normalize.MaxJobsActive)

	assert.False(t, IsWorkerEnabled(cfg, "predict-credit-risk"))
	assert.True(t, IsWorkerEnabled(cfg, "normalize-applicant"))
	assert.True(t, IsWorkerEnabled(cfg, "unknown-worker"))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "missing model path",
			mutate:  func(cfg *Config) { cfg.Model.Path = "" },
			wantErr: "model.path is required",
		},
		{
			name:    "missing server address",
			mutate:  func(cfg *Config) { cfg.Server.Address = "" },
			wantErr: "server.address is required",
		},
		{
			name:    "camunda enabled without broker",
			mutate:  func(cfg *Config) { cfg.Camunda.Enabled = true },
			wantErr: "camunda.broker_address is required",
		},
		{
			name:   "camunda disabled without broker",
			mutate: func(cfg *Config) { cfg.Camunda.Enabled = false },
		},
		{
			name:    "negative burst",
			mutate:  func(cfg *Config) { cfg.RateLimit.Burst = -1 },
			wantErr: "rate_limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Server: ServerConfig{Address: ":8080"},
				Model:  ModelConfig{Path: "model/credit_risk.onnx"},
			}
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}

func TestLoadFromFile_ShippedConfig(t *testing.T) {
	t.Setenv("MODEL_PATH", "models/credit_risk.onnx")
	t.Setenv("MODEL_METADATA_PATH", "")
	t.Setenv("REDIS_ADDRESS", "")

	cfg, err := LoadFromFile(filepath.Join("..", "..", "..", "configs", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8501", cfg.Server.Address)
	assert.Equal(t, "models/credit_risk.onnx", cfg.Model.Path)
	assert.Equal(t, "models/credit_risk.json", cfg.Model.MetadataPath)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Empty(t, cfg.Database.Redis.Address)
	assert.Equal(t, 10*time.Second, GetDuration(GetWorkerConfig(cfg, "normalize-applicant").Timeout))
}
