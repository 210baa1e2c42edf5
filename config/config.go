// Package config loads the server configuration from the environment, with an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/fortunegram/fortunegram/llm"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	Server      ServerConfig
	Storage     StorageConfig
	RateLimiter RateLimiterConfig
	Generation  GenerationConfig
}

type ServerConfig struct {
	Port string
}

func (s ServerConfig) Addr() string {
	return ":" + s.Port
}

type StorageConfig struct {
	Type  string
	Redis RedisConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type RateLimiterConfig struct {
	Requests      uint64
	Window        time.Duration
	MaxClients    int
	SweepInterval time.Duration
}

type GenerationConfig struct {
	Provider   llm.Provider
	Anthropic  ProviderConfig
	OpenAI     ProviderConfig
	Gemini     ProviderConfig
	Timeout    time.Duration
	MaxTokens  int
	MaxRetries int
	// Seed fixes the random source for draws and quote fallbacks. Zero seeds
	// from the clock.
	Seed int64
}

type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// LLM returns the settings for the selected provider.
func (g GenerationConfig) LLM() llm.Config {
	var p ProviderConfig
	switch g.Provider {
	case llm.OpenAI:
		p = g.OpenAI
	case llm.Gemini:
		p = g.Gemini
	default:
		p = g.Anthropic
	}
	return llm.Config{
		Provider:   g.Provider,
		APIKey:     p.APIKey,
		Model:      p.Model,
		BaseURL:    p.BaseURL,
		MaxRetries: g.MaxRetries,
		Timeout:    g.Timeout,
	}
}

func Load() (Config, error) {
	_ = godotenv.Load()

	server := ServerConfig{Port: getEnv("SERVER_PORT", "8080")}

	storageType := strings.ToLower(getEnv("STORAGE_TYPE", StorageMemory))
	if storageType != StorageMemory && storageType != StorageRedis {
		return Config{}, fmt.Errorf("invalid STORAGE_TYPE %q: want %q or %q", storageType, StorageMemory, StorageRedis)
	}

	redisConfig, err := buildRedisConfig()
	if err != nil {
		return Config{}, err
	}

	rateLimiterConfig, err := buildRateLimiterConfig()
	if err != nil {
		return Config{}, err
	}

	generationConfig, err := buildGenerationConfig()
	if err != nil {
		return Config{}, err
	}

	return Config{
		Server: server,
		Storage: StorageConfig{
			Type:  storageType,
			Redis: redisConfig,
		},
		RateLimiter: rateLimiterConfig,
		Generation:  generationConfig,
	}, nil
}

func buildRedisConfig() (RedisConfig, error) {
	port, err := getInt("REDIS_PORT", 6379)
	if err != nil {
		return RedisConfig{}, err
	}
	db, err := getInt("REDIS_DB", 0)
	if err != nil {
		return RedisConfig{}, err
	}

	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}, nil
}

func buildRateLimiterConfig() (RateLimiterConfig, error) {
	requests, err := getPositive("RATE_LIMIT_REQUESTS", 10)
	if err != nil {
		return RateLimiterConfig{}, err
	}
	windowSeconds, err := getPositive("RATE_LIMIT_WINDOW_SECONDS", 3600)
	if err != nil {
		return RateLimiterConfig{}, err
	}
	maxClients, err := getPositive("RATE_LIMIT_MAX_CLIENTS", 10000)
	if err != nil {
		return RateLimiterConfig{}, err
	}
	sweepSeconds, err := getPositive("RATE_LIMIT_SWEEP_INTERVAL_SECONDS", 300)
	if err != nil {
		return RateLimiterConfig{}, err
	}

	return RateLimiterConfig{
		Requests:      uint64(requests),
		Window:        time.Duration(windowSeconds) * time.Second,
		MaxClients:    maxClients,
		SweepInterval: time.Duration(sweepSeconds) * time.Second,
	}, nil
}

func buildGenerationConfig() (GenerationConfig, error) {
	provider := llm.Provider(strings.ToLower(getEnv("FORTUNE_PROVIDER", string(llm.Anthropic))))
	switch provider {
	case llm.Anthropic, llm.OpenAI, llm.Gemini, llm.Offline:
	default:
		return GenerationConfig{}, fmt.Errorf("invalid FORTUNE_PROVIDER %q", provider)
	}

	timeoutSeconds, err := getPositive("GENERATION_TIMEOUT_SECONDS", 20)
	if err != nil {
		return GenerationConfig{}, err
	}
	maxTokens, err := getPositive("GENERATION_MAX_TOKENS", llm.DefaultMaxTokens)
	if err != nil {
		return GenerationConfig{}, err
	}
	maxRetries, err := getInt("GENERATION_MAX_RETRIES", 2)
	if err != nil {
		return GenerationConfig{}, err
	}
	if maxRetries < 0 {
		return GenerationConfig{}, fmt.Errorf("invalid GENERATION_MAX_RETRIES: must not be negative")
	}
	seed, err := strconv.ParseInt(getEnv("RANDOM_SEED", "0"), 10, 64)
	if err != nil {
		return GenerationConfig{}, fmt.Errorf("invalid RANDOM_SEED: %w", err)
	}

	return GenerationConfig{
		Provider: provider,
		Anthropic: ProviderConfig{
			APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
			Model:   getEnv("ANTHROPIC_MODEL", llm.DefaultAnthropicModel),
			BaseURL: os.Getenv("ANTHROPIC_BASE_URL"),
		},
		OpenAI: ProviderConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			Model:   getEnv("OPENAI_MODEL", llm.DefaultOpenAIModel),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
		},
		Gemini: ProviderConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnv("GEMINI_MODEL", llm.DefaultGeminiModel),
		},
		Timeout:    time.Duration(timeoutSeconds) * time.Second,
		MaxTokens:  maxTokens,
		MaxRetries: maxRetries,
		Seed:       seed,
	}, nil
}

func getInt(key string, fallback int) (int, error) {
	v, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getPositive(key string, fallback int) (int, error) {
	v, err := getInt(key, fallback)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive, got %d", key, v)
	}
	return v, nil
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
