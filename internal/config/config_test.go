package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "dispatch_events", cfg.RabbitMQ.EventsQueue)
	assert.Equal(t, "dispatch_status_reports", cfg.RabbitMQ.ReportsQueue)
	assert.Equal(t, LockModePostgres, cfg.Dispatch.LockMode)
	assert.Equal(t, 100, cfg.Dispatch.ActivationBatchSize)
	assert.Equal(t, 30*time.Second, cfg.Dispatch.InstancePollInterval)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DISPATCH_LOCK_MODE", "Local")
	t.Setenv("DISPATCH_BATCH_SIZE", "250")
	t.Setenv("INSTANCE_POLL_INTERVAL", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, LockModeLocal, cfg.Dispatch.LockMode)
	assert.Equal(t, 250, cfg.Dispatch.ActivationBatchSize)
	assert.Equal(t, 5*time.Second, cfg.Dispatch.InstancePollInterval)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.AllowedOrigins)
}

func TestLoadFallsBackToAdvisoryLock(t *testing.T) {
	for _, mode := range []string{"redis", ""} {
		t.Setenv("DISPATCH_LOCK_MODE", mode)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, LockModePostgres, cfg.Dispatch.LockMode, mode)
	}
}
