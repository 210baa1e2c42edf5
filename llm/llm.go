// Package llm wraps the hosted text-generation APIs behind one Generator
// interface: a system prompt and one user turn in, the first text segment out.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrAuthentication means the provider rejected the credentials.
	ErrAuthentication = errors.New("authentication failed")
	// ErrRateLimited means the provider is throttling this account.
	ErrRateLimited = errors.New("rate limited")
	// ErrNoText means the reply carried no text segment to return.
	ErrNoText = errors.New("no text in response")
)

// Provider names a supported backend.
type Provider string

const (
	Anthropic Provider = "anthropic"
	OpenAI    Provider = "openai"
	Gemini    Provider = "gemini"
	Offline   Provider = "offline"
)

const (
	DefaultAnthropicModel = "claude-sonnet-4-20250514"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultGeminiModel    = "gemini-2.5-flash"

	DefaultMaxTokens = 300
	DefaultTimeout   = 20 * time.Second
)

// Request is a single-turn generation request. There is no history.
type Request struct {
	System    string
	Prompt    string
	MaxTokens int
}

type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Config selects and configures a provider.
type Config struct {
	Provider   Provider
	APIKey     string
	Model      string
	BaseURL    string
	MaxRetries int
	Timeout    time.Duration
	HTTPClient *http.Client
}

// New builds the Generator for cfg.Provider. Offline yields a nil Generator
// and no error.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Generator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	switch Provider(strings.ToLower(string(cfg.Provider))) {
	case Anthropic, "":
		return NewAnthropicGenerator(cfg, logger), nil
	case OpenAI:
		return NewOpenAIGenerator(cfg, logger), nil
	case Gemini:
		gen, err := NewGeminiGenerator(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return gen, nil
	case Offline:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// StatusError is a non-2xx reply from a provider. It unwraps to
// ErrAuthentication or ErrRateLimited when the status says so.
type StatusError struct {
	Provider   Provider
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
}

func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuthentication
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}
	return nil
}

func maxTokens(n int) int {
	if n <= 0 {
		return DefaultMaxTokens
	}
	return n
}
