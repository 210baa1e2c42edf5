package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortunegram/fortunegram/llm"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "STORAGE_TYPE", "REDIS_HOST", "REDIS_PORT", "REDIS_DB",
		"RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW_SECONDS", "RATE_LIMIT_MAX_CLIENTS", "RATE_LIMIT_SWEEP_INTERVAL_SECONDS",
		"FORTUNE_PROVIDER", "ANTHROPIC_MODEL", "GENERATION_TIMEOUT_SECONDS", "GENERATION_MAX_TOKENS", "GENERATION_MAX_RETRIES", "RANDOM_SEED",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, StorageMemory, cfg.Storage.Type)
	assert.Equal(t, "localhost:6379", cfg.Storage.Redis.Addr())
	assert.Equal(t, RateLimiterConfig{
		Requests:      10,
		Window:        time.Hour,
		MaxClients:    10000,
		SweepInterval: 5 * time.Minute,
	}, cfg.RateLimiter)
	assert.Equal(t, llm.Anthropic, cfg.Generation.Provider)
	assert.Equal(t, llm.DefaultAnthropicModel, cfg.Generation.Anthropic.Model)
	assert.Equal(t, 20*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, 300, cfg.Generation.MaxTokens)
	assert.Equal(t, 2, cfg.Generation.MaxRetries)
	assert.Zero(t, cfg.Generation.Seed)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_TYPE", "Redis")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("RATE_LIMIT_REQUESTS", "3")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "60")
	t.Setenv("FORTUNE_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-test")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:1234/v1")
	t.Setenv("GENERATION_MAX_RETRIES", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr())
	assert.Equal(t, StorageRedis, cfg.Storage.Type)
	assert.Equal(t, "cache:6380", cfg.Storage.Redis.Addr())
	assert.Equal(t, uint64(3), cfg.RateLimiter.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimiter.Window)

	got := cfg.Generation.LLM()
	assert.Equal(t, llm.OpenAI, got.Provider)
	assert.Equal(t, "sk-test", got.APIKey)
	assert.Equal(t, "gpt-test", got.Model)
	assert.Equal(t, "http://localhost:1234/v1", got.BaseURL)
	assert.Equal(t, 0, got.MaxRetries)
}

func TestLoad_Invalid(t *testing.T) {
	tt := []struct {
		key, value, mentions string
	}{
		{key: "REDIS_PORT", value: "abc", mentions: "REDIS_PORT"},
		{key: "RATE_LIMIT_REQUESTS", value: "0", mentions: "RATE_LIMIT_REQUESTS"},
		{key: "RATE_LIMIT_WINDOW_SECONDS", value: "-5", mentions: "RATE_LIMIT_WINDOW_SECONDS"},
		{key: "GENERATION_TIMEOUT_SECONDS", value: "soon", mentions: "GENERATION_TIMEOUT_SECONDS"},
		{key: "GENERATION_MAX_RETRIES", value: "-1", mentions: "GENERATION_MAX_RETRIES"},
		{key: "STORAGE_TYPE", value: "postgres", mentions: "STORAGE_TYPE"},
		{key: "FORTUNE_PROVIDER", value: "crystal-ball", mentions: "FORTUNE_PROVIDER"},
		{key: "RANDOM_SEED", value: "x", mentions: "RANDOM_SEED"},
	}

	for _, ts := range tt {
		t.Run(ts.key, func(t *testing.T) {
			t.Setenv(ts.key, ts.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), ts.mentions)
		})
	}
}
