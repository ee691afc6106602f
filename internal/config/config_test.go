package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRejectsEmptyProvider(t *testing.T) {
	t.Setenv("ASSISTANT_PROVIDER", "")
	t.Setenv("PORT", "8080")

	cfg, err := Load()
	require.Error(t, err, "empty provider is not a known provider")
	assert.Nil(t, cfg)
}

func TestLoadKeywordProvider(t *testing.T) {
	t.Setenv("ASSISTANT_PROVIDER", "Keyword")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, ,http://127.0.0.1:3000")
	t.Setenv("SMTP_USER", "me@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderKeyword, cfg.Assistant.Provider)
	assert.Equal(t, time.Second, cfg.Assistant.ThinkingDelay)
	assert.Equal(t, 5*time.Second, cfg.CounterVisible)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORSOrigins)
	assert.Equal(t, "me@example.com", cfg.Mail.From)
	assert.Equal(t, 587, cfg.Mail.SMTPPort)
	assert.False(t, cfg.IsProduction())
}

func TestLoadModelProviderNeedsKey(t *testing.T) {
	t.Setenv("ASSISTANT_PROVIDER", ProviderOpenAI)
	t.Setenv("ASSISTANT_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ASSISTANT_API_KEY")

	t.Setenv("ASSISTANT_API_KEY", "sk-test")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.Assistant.ThinkingDelay)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Port:       "8080",
			DBPath:     "x.db",
			SessionTTL: time.Hour,
			Assistant:  AssistantConfig{Provider: ProviderKeyword, IdleTTL: time.Hour},
		}
	}

	require.NoError(t, base().Validate())

	c := base()
	c.DBPath = ""
	assert.Error(t, c.Validate())

	c = base()
	c.DBPath = ""
	c.RedisURL = "redis://localhost:6379/0"
	assert.NoError(t, c.Validate())

	c = base()
	c.Assistant.Provider = "gemini"
	assert.Error(t, c.Validate())

	c = base()
	c.Assistant.ThinkingDelay = -time.Second
	assert.Error(t, c.Validate())
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("ASSISTANT_PROVIDER", ProviderKeyword)
	t.Setenv("ASSISTANT_THINKING_DELAY", "1")
	t.Setenv("SMTP_PORT", "five-eight-seven")

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), `ASSISTANT_THINKING_DELAY="1"`)
	assert.Contains(t, err.Error(), "SMTP_PORT")
}

func TestEnvParser(t *testing.T) {
	var env envParser

	t.Setenv("SOME_DURATION", "250ms")
	assert.Equal(t, 250*time.Millisecond, env.getDuration("SOME_DURATION", time.Minute))

	t.Setenv("SOME_DURATION", "")
	assert.Equal(t, time.Minute, env.getDuration("SOME_DURATION", time.Minute))
	assert.Equal(t, 7, env.getInt("UNSET_INT_FOR_TEST", 7))
	assert.Empty(t, env.errs)

	t.Setenv("SOME_DURATION", "soon")
	assert.Equal(t, time.Minute, env.getDuration("SOME_DURATION", time.Minute))
	assert.Len(t, env.errs, 1)
}
