package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 8*time.Second, cfg.CheckTimeout)
	assert.Equal(t, "IN", cfg.DefaultPhoneRegion)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("CHECK_TIMEOUT", "2s")
	t.Setenv("DEFAULT_PHONE_REGION", "US")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, 2*time.Second, cfg.CheckTimeout)
	assert.Equal(t, "US", cfg.DefaultPhoneRegion)
}

func TestLoad_BareSecondsTimeout(t *testing.T) {
	t.Setenv("CHECK_TIMEOUT", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.CheckTimeout)
}

func TestLoad_UnparseableTimeoutFallsBackToDefault(t *testing.T) {
	t.Setenv("CHECK_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8*time.Second, cfg.CheckTimeout)
}
