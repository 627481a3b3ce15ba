package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "SESSION_STORE", "DATA_SOURCE", "SESSION_TTL", "SESSION_IDLE_TIMEOUT", "SESSION_MAX_ACTIVE", "CORS_ALLOWED_ORIGINS", "DATA_SEED"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Equal(t, DataSourceFixtures, cfg.Data.Source)
	assert.Equal(t, 30*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, 10000, cfg.Session.MaxActive)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.NeedsDatabase())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SESSION_IDLE_TIMEOUT", "5m")
	t.Setenv("SESSION_MAX_ACTIVE", "500")
	t.Setenv("DATA_SOURCE", "postgres")
	t.Setenv("DATA_SEED", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.axis.health, ,https://admin.axis.health")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, SessionStoreRedis, cfg.Session.Store)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 5*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, 500, cfg.Session.MaxActive)
	assert.Equal(t, DataSourcePostgres, cfg.Data.Source)
	assert.True(t, cfg.Data.Seed)
	assert.Equal(t, []string{"https://app.axis.health", "https://admin.axis.health"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.NeedsDatabase())
	assert.NoError(t, cfg.Validate())
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("SERVER_PORT", "eighty")
	t.Setenv("SESSION_TTL", "forever")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*24*time.Hour, cfg.Session.TTL)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 8080},
			Session: SessionConfig{Store: SessionStoreMemory},
			Data:    DataConfig{Source: DataSourceFixtures},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"bad session store", func(c *Config) { c.Session.Store = "localstorage" }},
		{"bad data source", func(c *Config) { c.Data.Source = "csv" }},
		{"negative ttl", func(c *Config) { c.Session.TTL = -time.Second }},
		{"negative idle timeout", func(c *Config) { c.Session.IdleTimeout = -time.Minute }},
		{"negative max active", func(c *Config) { c.Session.MaxActive = -1 }},
		{"seed without postgres", func(c *Config) { c.Data.Seed = true }},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
