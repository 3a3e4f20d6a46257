package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DEFAULT_ALPHA", "DEFAULT_CONFIDENCE", "POSTHOC_TIMEOUT",
		"PORT", "GIN_MODE", "DATABASE_URL", "PPROF_PORT", "PPROF_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0.05, config.Analysis.DefaultAlpha)
	assert.Equal(t, 0.95, config.Analysis.DefaultConfidence)
	assert.Equal(t, 10*time.Second, config.Analysis.PostHocTimeout)
	assert.Equal(t, "8080", config.Server.Port)
	assert.Equal(t, "release", config.Server.GinMode)
	assert.Empty(t, config.Database.URL)
	assert.False(t, config.Profiling.Enabled)
	assert.Equal(t, "6060", config.Profiling.Port)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEFAULT_ALPHA", "0.01")
	t.Setenv("POSTHOC_TIMEOUT", "30s")
	t.Setenv("PORT", "9090")
	t.Setenv("PPROF_ENABLED", "true")

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0.01, config.Analysis.DefaultAlpha)
	assert.Equal(t, 30*time.Second, config.Analysis.PostHocTimeout)
	assert.Equal(t, "9090", config.Server.Port)
	assert.True(t, config.Profiling.Enabled)
}

func TestLoadRejectsAlphaOutOfRange(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEFAULT_ALPHA", "1.5")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEFAULT_ALPHA")
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTHOC_TIMEOUT", "-5s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTHOC_TIMEOUT")
}

func TestLoadIgnoresUnparseableValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEFAULT_ALPHA", "not-a-number")
	t.Setenv("PPROF_ENABLED", "yes-please")

	config, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.05, config.Analysis.DefaultAlpha)
	assert.False(t, config.Profiling.Enabled)
}
