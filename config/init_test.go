package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig_Defaults(t *testing.T) {
	t.Setenv("API_KEY", "secret")

	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "12222", cfg.AppConfig.APIPort)
	assert.Equal(t, "secret", cfg.AppConfig.APIKey)
	assert.Equal(t, 30*time.Second, cfg.AppConfig.UpstreamTimeout)
	assert.Equal(t, 0, cfg.AppConfig.FanOutConcurrency)
	assert.Equal(t, time.Duration(0), cfg.AppConfig.CursorCacheTTL)
	assert.Equal(t, "https://graph.microsoft.com/v1.0", cfg.GraphConfig.Url)
	assert.Equal(t, "https://api.postmarkapp.com", cfg.PostmarkConfig.Url)
	assert.Equal(t, "drayinsight.com", cfg.PostmarkConfig.SenderDomain)
	assert.Empty(t, cfg.GmailConfig.ApiEndpoint)
	assert.Equal(t, "mailbridge", cfg.Tracing.ServiceName)
}

func TestInitConfig_MissingApiKey(t *testing.T) {
	t.Setenv("API_KEY", "")
	require.NoError(t, os.Unsetenv("API_KEY"))

	_, err := InitConfig()
	assert.Error(t, err)
}

func TestInitConfig_Overrides(t *testing.T) {
	t.Setenv("API_KEY", "secret")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")
	t.Setenv("CURSOR_CACHE_TTL", "1h")
	t.Setenv("POSTMARK_SENDER_DOMAIN", "example.com")

	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.AppConfig.UpstreamTimeout)
	assert.Equal(t, time.Hour, cfg.AppConfig.CursorCacheTTL)
	assert.Equal(t, "example.com", cfg.PostmarkConfig.SenderDomain)
}

func TestInitConfig_NegativeConcurrency(t *testing.T) {
	t.Setenv("API_KEY", "secret")
	t.Setenv("FANOUT_CONCURRENCY", "-1")

	_, err := InitConfig()
	assert.Error(t, err)
}
