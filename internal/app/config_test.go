package app

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s")
	t.Setenv("CSRF_SECRET", "c")
	t.Setenv("INVENTORY_API_URL", "")
	require.NoError(t, os.Unsetenv("INVENTORY_API_URL"))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/v1/saep", cfg.InventoryAPIURL)
	assert.Equal(t, 30*time.Second, cfg.AppRequestTimeout)
	assert.Equal(t, 120, cfg.AppRateLimit)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("CSRF_SECRET", "c")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsRelativeAPIURL(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s")
	t.Setenv("CSRF_SECRET", "c")
	t.Setenv("INVENTORY_API_URL", "/v1/saep")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsUnknownLogLevel(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s")
	t.Setenv("CSRF_SECRET", "c")
	t.Setenv("LOG_LEVEL", "loud")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "log level")
}
