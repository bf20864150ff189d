package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FREE_MESSAGE_LIMIT", "")
	t.Setenv("LLM_MAX_TOKENS", "")
	t.Setenv("GO_ENV", "")
	t.Setenv("LLM_TEMPERATURE", "")

	cfg := Load()

	assert.Equal(t, 10, cfg.Quota.FreeLimit)
	assert.Equal(t, "database", cfg.Quota.Backend)
	assert.Equal(t, 500, cfg.Ai.MaxTokens)
	assert.Equal(t, 0.7, cfg.Ai.Temperature)
	assert.Equal(t, "session", cfg.Auth.CookieName)
	assert.Equal(t, 30, cfg.Auth.CookieMaxAgeDays)
	assert.Equal(t, 10, cfg.Auth.CodeTTLMinutes)
	assert.False(t, cfg.App.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FREE_MESSAGE_LIMIT", "3")
	t.Setenv("QUOTA_BACKEND", "redis")
	t.Setenv("GO_ENV", "production")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("LLM_MAX_TOKENS", "not-a-number")
	t.Setenv("LLM_TEMPERATURE", "0.3")

	cfg := Load()

	assert.Equal(t, 3, cfg.Quota.FreeLimit)
	assert.Equal(t, "redis", cfg.Quota.Backend)
	assert.True(t, cfg.App.IsProduction())
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 500, cfg.Ai.MaxTokens)
	assert.Equal(t, 0.3, cfg.Ai.Temperature)
}
