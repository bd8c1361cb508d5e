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

	assert.Equal(t, "taskdesk", cfg.AppName)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Equal(t, "session_id", cfg.Session.CookieName)
	assert.Equal(t, 30*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, time.Hour, cfg.JWT.TTL)
	assert.True(t, cfg.Migrations.Enabled)
	assert.NotEmpty(t, cfg.Database.URL, "a postgres URL is always derived")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SESSION_TTL", "24h")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "10")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/tasks?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Address())
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	// Bare integers are read as seconds.
	assert.Equal(t, 10*time.Second, cfg.Context.RequestTimeout)
	assert.False(t, cfg.Migrations.Enabled)
	assert.Equal(t, "postgres://u:p@db:5432/tasks?sslmode=disable", cfg.Database.URL)
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("SESSION_COOKIE_SECURE", "not-a-bool")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.False(t, cfg.Session.Secure)
}
