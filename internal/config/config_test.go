package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.HTTP.Port)
	assert.Equal(t, 60, cfg.HTTP.ReadTimeoutSec)
	assert.False(t, cfg.HTTP.EnableHTTPS)
	assert.Equal(t, "devsecret", cfg.JWT.Secret)
	assert.Equal(t, "localhost:9000", cfg.Storage.Endpoint)
	assert.Equal(t, "filevault-files", cfg.Storage.Bucket)
	assert.Equal(t, "http://localhost:9000", cfg.Storage.PublicURL)
	assert.Equal(t, int64(64<<20), cfg.Upload.MaxSizeBytes)
	assert.Equal(t, "test@example.com", cfg.Seed.Email)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("JWT_SECRET", "supersecret")
	t.Setenv("MINIO_BUCKET_NAME", "uploads")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("UPLOAD_MAX_SIZE", "1048576")
	t.Setenv("DATABASE_DSN", "postgres://u:p@db:5432/files")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "supersecret", cfg.JWT.Secret)
	assert.Equal(t, "uploads", cfg.Storage.Bucket)
	assert.True(t, cfg.Storage.UseSSL)
	assert.Equal(t, int64(1<<20), cfg.Upload.MaxSizeBytes)
	assert.Equal(t, "postgres://u:p@db:5432/files", cfg.Database.DSN)
}
