package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAnthropic(t *testing.T, handler http.HandlerFunc, retries int) *AnthropicGenerator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAnthropicGenerator(Config{APIKey: "test-key", BaseURL: srv.URL, MaxRetries: retries, HTTPClient: srv.Client()}, zap.NewNop())
}

func TestAnthropicGenerator_Generate(t *testing.T) {
	tt := []struct {
		desc   string
		status int
		body   string
		want   string
		err    error
	}{
		{
			desc:   "returns the first text block verbatim",
			status: http.StatusOK,
			body:   `{"content":[{"type":"text","text":"  The tide turns.  "},{"type":"text","text":"ignored"}]}`,
			want:   "  The tide turns.  ",
		},
		{
			desc:   "first block is not text",
			status: http.StatusOK,
			body:   `{"content":[{"type":"tool_use","id":"x"},{"type":"text","text":"late"}]}`,
			err:    ErrNoText,
		},
		{
			desc:   "empty content",
			status: http.StatusOK,
			body:   `{"content":[]}`,
			err:    ErrNoText,
		},
		{
			desc:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`,
			err:    ErrAuthentication,
		},
		{
			desc:   "forbidden",
			status: http.StatusForbidden,
			body:   `{"type":"error","error":{"type":"permission_error","message":"nope"}}`,
			err:    ErrAuthentication,
		},
		{
			desc:   "throttled",
			status: http.StatusTooManyRequests,
			body:   `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`,
			err:    ErrRateLimited,
		},
	}

	for _, ts := range tt {
		t.Run(ts.desc, func(t *testing.T) {
			gen := newAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(ts.status)
				_, _ = io.WriteString(w, ts.body)
			}, 0)

			got, err := gen.Generate(context.Background(), Request{System: "sys", Prompt: "Generate the fortune now."})
			if ts.err != nil {
				assert.ErrorIs(t, err, ts.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ts.want, got)
		})
	}
}

func TestAnthropicGenerator_SendsSingleTurnRequest(t *testing.T) {
	var got anthropicRequest
	gen := newAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"content":[{"type":"text","text":"ok"}]}`)
	}, 0)

	_, err := gen.Generate(context.Background(), Request{System: "You are the oracle.", Prompt: "Generate the fortune now."})
	require.NoError(t, err)

	assert.Equal(t, DefaultAnthropicModel, got.Model)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	assert.Equal(t, "You are the oracle.", got.System)
	assert.Equal(t, []anthropicMessage{{Role: "user", Content: "Generate the fortune now."}}, got.Messages)
}

func TestAnthropicGenerator_ServerErrorIsNotClassified(t *testing.T) {
	gen := newAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, 0)

	_, err := gen.Generate(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAuthentication)
	assert.NotErrorIs(t, err, ErrRateLimited)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

func TestAnthropicGenerator_RetriesThrottling(t *testing.T) {
	var calls atomic.Int32
	gen := newAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = io.WriteString(w, `{"content":[{"type":"text","text":"patience"}]}`)
	}, 1)

	got, err := gen.Generate(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "patience", got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestAnthropicGenerator_DoesNotRetryAuthFailures(t *testing.T) {
	var calls atomic.Int32
	gen := newAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}, 2)

	_, err := gen.Generate(context.Background(), Request{Prompt: "p"})
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Equal(t, int32(1), calls.Load())
}

func TestAnthropicGenerator_MissingKey(t *testing.T) {
	gen := NewAnthropicGenerator(Config{}, zap.NewNop())
	_, err := gen.Generate(context.Background(), Request{Prompt: "p"})
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestAnthropicGenerator_HonoursDeadline(t *testing.T) {
	gen := newAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := gen.Generate(ctx, Request{Prompt: "p"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func newOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIGenerator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIGenerator(Config{APIKey: "test-key", BaseURL: srv.URL, HTTPClient: srv.Client()}, zap.NewNop())
}

func TestOpenAIGenerator_Generate(t *testing.T) {
	tt := []struct {
		desc   string
		status int
		body   string
		want   string
		err    error
	}{
		{
			desc:   "returns the first choice",
			status: http.StatusOK,
			body:   `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Fortune favours you."}}]}`,
			want:   "Fortune favours you.",
		},
		{
			desc:   "no choices",
			status: http.StatusOK,
			body:   `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini","choices":[]}`,
			err:    ErrNoText,
		},
		{
			desc:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`,
			err:    ErrAuthentication,
		},
		{
			desc:   "throttled",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`,
			err:    ErrRateLimited,
		},
	}

	for _, ts := range tt {
		t.Run(ts.desc, func(t *testing.T) {
			gen := newOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
				assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(ts.status)
				_, _ = io.WriteString(w, ts.body)
			})

			got, err := gen.Generate(context.Background(), Request{System: "sys", Prompt: "Generate the fortune now."})
			if ts.err != nil {
				assert.ErrorIs(t, err, ts.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ts.want, got)
		})
	}
}

func TestOpenAIGenerator_SendsSystemAndUser(t *testing.T) {
	var body struct {
		Model               string `json:"model"`
		MaxCompletionTokens int    `json:"max_completion_tokens"`
		Messages            []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	gen := newOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"m","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"ok"}}]}`)
	})

	_, err := gen.Generate(context.Background(), Request{System: "You are the oracle.", Prompt: "Generate the fortune now.", MaxTokens: 120})
	require.NoError(t, err)

	assert.Equal(t, DefaultOpenAIModel, body.Model)
	assert.Equal(t, 120, body.MaxCompletionTokens)
	require.Len(t, body.Messages, 2)
	assert.Equal(t, "system", body.Messages[0].Role)
	assert.Equal(t, "You are the oracle.", body.Messages[0].Content)
	assert.Equal(t, "user", body.Messages[1].Role)
	assert.Equal(t, "Generate the fortune now.", body.Messages[1].Content)
}

func newGemini(t *testing.T, handler http.HandlerFunc) *GeminiGenerator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	gen, err := NewGeminiGenerator(context.Background(), Config{APIKey: "test-key", BaseURL: srv.URL, HTTPClient: srv.Client()}, zap.NewNop())
	require.NoError(t, err)
	return gen
}

func TestGeminiGenerator_Generate(t *testing.T) {
	gen := newGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, DefaultGeminiModel+":generateContent"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"The river remembers."}]}}]}`)
	})

	got, err := gen.Generate(context.Background(), Request{System: "sys", Prompt: "Generate the fortune now."})
	require.NoError(t, err)
	assert.Equal(t, "The river remembers.", got)
}

func TestGeminiGenerator_NoCandidates(t *testing.T) {
	gen := newGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[]}`)
	})

	_, err := gen.Generate(context.Background(), Request{Prompt: "p"})
	assert.ErrorIs(t, err, ErrNoText)
}

func TestGeminiGenerator_Unauthorized(t *testing.T) {
	gen := newGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"code":401,"message":"API key not valid","status":"UNAUTHENTICATED"}}`)
	})

	_, err := gen.Generate(context.Background(), Request{Prompt: "p"})
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestNewGeminiGenerator_RequiresKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), Config{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestNew(t *testing.T) {
	gen, err := New(context.Background(), Config{Provider: Offline}, nil)
	require.NoError(t, err)
	assert.Nil(t, gen)

	gen, err = New(context.Background(), Config{Provider: "Anthropic", APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &AnthropicGenerator{}, gen)

	gen, err = New(context.Background(), Config{Provider: OpenAI, APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIGenerator{}, gen)

	_, err = New(context.Background(), Config{Provider: "crystal-ball"}, nil)
	assert.Error(t, err)
}

func TestStatusError(t *testing.T) {
	err := &StatusError{Provider: Anthropic, StatusCode: 429, Message: "slow down"}
	assert.Equal(t, "anthropic: status 429: slow down", err.Error())
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Nil(t, (&StatusError{StatusCode: 418}).Unwrap())
}
