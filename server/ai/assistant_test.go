package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/elsahq/elsa/internal/errors"
)

// fakeLLM serves the OpenAI-compatible chat completions endpoint.
func fakeLLM(t *testing.T, reply string) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Messages)
		assert.Equal(t, "system", req.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": reply}},
			},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testProviderConfig(baseURL, label string) ProviderConfig {
	return ProviderConfig{
		BaseURL:    baseURL,
		APIKey:     "test-key",
		Model:      "test-model",
		Label:      label,
		MaxRetries: 1,
		Timeout:    2 * time.Second,
	}
}

func TestAssistant_ResolveAliases(t *testing.T) {
	srv := fakeLLM(t, "ok")
	a := NewAssistant(Config{
		Claude: testProviderConfig(srv.URL, "Claude Sonnet 4"),
		GPT:    testProviderConfig(srv.URL, "GPT-4o"),
		Gemini: testProviderConfig(srv.URL, "Gemini 1.5 Flash"),
	})

	tests := []struct {
		name          string
		model         string
		expectedLabel string
	}{
		{"explicit claude", "claude", "Claude Sonnet 4"},
		{"anthropic synonym", "anthropic", "Claude Sonnet 4"},
		{"explicit gpt", "gpt", "GPT-4o"},
		{"openai synonym", "openai", "GPT-4o"},
		{"explicit gemini", "gemini", "Gemini 1.5 Flash"},
		{"google synonym", "google", "Gemini 1.5 Flash"},
		{"auto prefers claude", "auto", "Claude Sonnet 4"},
		{"unknown falls back to auto", "llama", "Claude Sonnet 4"},
		{"empty falls back to auto", "", "Claude Sonnet 4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := a.Resolve(tt.model)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedLabel, p.Label())
		})
	}
}

func TestAssistant_ResolveUnconfiguredFallsBack(t *testing.T) {
	srv := fakeLLM(t, "ok")
	a := NewAssistant(Config{
		GPT: testProviderConfig(srv.URL, "GPT-4o"),
	})

	// Claude is requested but not configured: auto picks the next provider.
	p, err := a.Resolve("claude")
	require.NoError(t, err)
	assert.Equal(t, "GPT-4o", p.Label())

	assert.Equal(t, []string{"GPT-4o"}, a.Available())
}

func TestAssistant_ResolveNoProviders(t *testing.T) {
	a := NewAssistant(Config{})

	_, err := a.Resolve("auto")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeLLMUnavailable))
	assert.Empty(t, a.Available())
}

func TestAssistant_ConfiguredFlags(t *testing.T) {
	srv := fakeLLM(t, "ok")

	a := NewAssistant(Config{GPT: testProviderConfig(srv.URL, "GPT-4o")})
	assert.Equal(t, map[string]bool{"claude": false, "gpt": true, "gemini": false}, a.Configured())

	assert.Equal(t,
		map[string]bool{"claude": false, "gpt": false, "gemini": false},
		NewAssistant(Config{}).Configured())
}

func TestAssistant_ChatKeepsHistory(t *testing.T) {
	srv := fakeLLM(t, "nice to meet you")
	a := NewAssistant(Config{
		Claude: testProviderConfig(srv.URL, "Claude Sonnet 4"),
	})

	reply, label, err := a.Chat(context.Background(), "hello", "auto")
	require.NoError(t, err)
	assert.Equal(t, "nice to meet you", reply)
	assert.Equal(t, "Claude Sonnet 4", label)
	// One user turn plus one assistant turn.
	assert.Equal(t, 2, a.HistoryLen())

	_, _, err = a.Chat(context.Background(), "how are you", "auto")
	require.NoError(t, err)
	assert.Equal(t, 4, a.HistoryLen())

	a.Clear()
	assert.Equal(t, 0, a.HistoryLen())
}

func TestAssistant_ChatFailureDropsUserTurn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	a := NewAssistant(Config{
		GPT: testProviderConfig(srv.URL, "GPT-4o"),
	})

	_, _, err := a.Chat(context.Background(), "hello", "gpt")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeLLMUnavailable))
	// The failed turn is not left dangling in history.
	assert.Equal(t, 0, a.HistoryLen())
}

func TestAssistant_ChatRateLimit(t *testing.T) {
	srv := fakeLLM(t, "ok")
	a := NewAssistant(Config{
		Claude:     testProviderConfig(srv.URL, "Claude Sonnet 4"),
		RatePerSec: 0.001,
		RateBurst:  1,
	})

	_, _, err := a.Chat(context.Background(), "first", "auto")
	require.NoError(t, err)

	_, _, err = a.Chat(context.Background(), "second", "auto")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeRateLimitExceeded))
}

func TestNormalizeAlias(t *testing.T) {
	assert.Equal(t, AliasClaude, normalizeAlias(" Claude "))
	assert.Equal(t, AliasGPT, normalizeAlias("OPENAI"))
	assert.Equal(t, AliasGemini, normalizeAlias("google"))
	assert.Equal(t, AliasAuto, normalizeAlias("auto"))
	assert.Equal(t, AliasAuto, normalizeAlias("whatever"))
}
