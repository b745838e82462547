package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8000), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, "baas", cfg.DataSource.Default)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, DefaultLowCodeBaseURL, cfg.LowCode.BaseURL)
	assert.Zero(t, cfg.LowCode.Timeout)
	assert.Equal(t, StorageLocal, cfg.Storage.Provider)
	assert.True(t, cfg.Diagnostics.Enabled)
	assert.Equal(t, "*/15 * * * *", cfg.Diagnostics.Schedule)
}

func TestNewConfig_Environment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_SOURCE", "jeecg")
	t.Setenv("LOWCODE_BASE_URL", "https://erp.example.com/jeecg-boot")
	t.Setenv("LOWCODE_TOKEN", "tok")
	t.Setenv("LOWCODE_TIMEOUT", "15s")
	t.Setenv("STORAGE_PROVIDER", "s3")
	t.Setenv("S3_ENDPOINT", "http://minio:9000")
	t.Setenv("DIAGNOSTICS_ENABLED", "false")

	cfg := NewConfig()

	assert.Equal(t, int32(9090), cfg.HTTP.Port)
	assert.Equal(t, "jeecg", cfg.DataSource.Default)
	assert.Equal(t, "https://erp.example.com/jeecg-boot", cfg.LowCode.BaseURL)
	assert.Equal(t, "tok", cfg.LowCode.Token)
	assert.Equal(t, 15*time.Second, cfg.LowCode.Timeout)
	assert.Equal(t, StorageS3, cfg.Storage.Provider)
	assert.Equal(t, "http://minio:9000", cfg.S3.Endpoint)
	assert.False(t, cfg.Diagnostics.Enabled)
}
