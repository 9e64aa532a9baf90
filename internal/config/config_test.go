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

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./data/case_records.db", cfg.DatabasePath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.SessionCacheTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "admin", cfg.AdminLogin)
	assert.Empty(t, cfg.AdminPassword)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_TTL_HOURS", "48")
	t.Setenv("ADMIN_PASSWORD", "changeme1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 48*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "changeme1", cfg.AdminPassword)
}

func TestLoadInvalidNumber(t *testing.T) {
	t.Setenv("BCRYPT_COST", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}
