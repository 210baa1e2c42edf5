package fortunegram

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	_ http.Handler = &httpRateLimiterHandler{}
	_ Extractor    = &forwardedForExtractor{}
)

const (
	rateLimitingTotalRequests = "Rate-Limiting-Total-Requests"
	rateLimitingState         = "Rate-Limiting-State"
	rateLimitingExpiresAt     = "Rate-Limiting-Expires-At"

	// ForwardedForHeader carries the client address set by the fronting proxy.
	ForwardedForHeader = "X-Forwarded-For"

	// UnknownClient is the shared bucket for requests without a forwarded address.
	UnknownClient = "unknown"
)

// Extractor extracts a key from an HTTP request for rate limiting.
type Extractor interface {
	Extract(r *http.Request) (string, error)
}

type forwardedForExtractor struct{}

// Extract returns the first address of X-Forwarded-For, or UnknownClient.
func (forwardedForExtractor) Extract(r *http.Request) (string, error) {
	raw := r.Header.Get(ForwardedForHeader)
	first, _, _ := strings.Cut(raw, ",")
	if first = strings.TrimSpace(first); first != "" {
		return first, nil
	}
	return UnknownClient, nil
}

// NewForwardedForExtractor creates an Extractor keyed on the forwarded client address.
func NewForwardedForExtractor() Extractor {
	return forwardedForExtractor{}
}

// RateLimiterConfig holds configuration for rate limiting.
type RateLimiterConfig struct {
	Extractor   Extractor
	Strategy    Strategy
	Expiration  time.Duration
	MaxRequests uint64
	Logger      *zap.Logger
	// Now must be the clock the Strategy uses. Defaults to time.Now.
	Now func() time.Time
}

// ExceededMessage is the client-facing text of a 429 response.
func (c *RateLimiterConfig) ExceededMessage() string {
	return fmt.Sprintf("Rate limit exceeded. Maximum %d requests per %s.", c.MaxRequests, windowUnit(c.Expiration))
}

func windowUnit(d time.Duration) string {
	switch d {
	case time.Hour:
		return "hour"
	case time.Minute:
		return "minute"
	case time.Second:
		return "second"
	case 24 * time.Hour:
		return "day"
	}
	return d.String()
}

type httpRateLimiterHandler struct {
	handler http.Handler
	config  *RateLimiterConfig
	logger  *zap.Logger
}

// NewHTTPRateLimiterHandler wraps an existing http.Handler and performs rate limiting before forwarding the
// request to the API
func NewHTTPRateLimiterHandler(originalHandler http.Handler, config *RateLimiterConfig) http.Handler {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Extractor == nil {
		config.Extractor = NewForwardedForExtractor()
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &httpRateLimiterHandler{
		handler: originalHandler,
		config:  config,
		logger:  logger,
	}
}

// RateLimit adapts NewHTTPRateLimiterHandler to router middleware.
func RateLimit(config *RateLimiterConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return NewHTTPRateLimiterHandler(next, config)
	}
}

// ServeHTTP performs rate limiting and forwards the request if allowed.
func (h *httpRateLimiterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key, err := h.config.Extractor.Extract(r)
	if err != nil {
		h.logger.Warn("rate limit key extraction failed", zap.Error(err))
		key = UnknownClient
	}

	result, err := h.config.Strategy.Execute(r.Context(), &Request{
		Key:      key,
		Limit:    h.config.MaxRequests,
		Duration: h.config.Expiration,
	})
	if err != nil {
		h.logger.Error("rate limiting failed", zap.String("client", key), zap.Error(err))
		h.writeResponse(w, http.StatusInternalServerError, map[string]any{
			"error":   "The stars are obscured today. Please try again.",
			"success": false,
		})
		return
	}

	w.Header().Set(rateLimitingTotalRequests, strconv.FormatUint(result.TotalRequests, 10))
	w.Header().Set(rateLimitingState, result.State.String())
	w.Header().Set(rateLimitingExpiresAt, result.ExpiresAt.Format(time.RFC3339))

	// Too many requests
	if result.State == Deny {
		h.logger.Info("rate limit exceeded", zap.String("client", key), zap.Uint64("total", result.TotalRequests))
		retryAfter := math.Ceil(result.ExpiresAt.Sub(h.config.Now()).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter)))
		h.writeResponse(w, http.StatusTooManyRequests, map[string]string{"error": h.config.ExceededMessage()})
		return
	}

	h.handler.ServeHTTP(w, r)
}

func (h *httpRateLimiterHandler) writeResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("failed to write body to HTTP request", zap.Error(err))
	}
}
