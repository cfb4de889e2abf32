// Package ai provides the chat brain of the backend: a set of
// OpenAI-compatible providers behind model aliases, a shared conversation
// history, and image generation.
package ai

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/elsahq/elsa/internal/errors"
)

// DefaultSystemPrompt is the assistant persona sent with every conversation.
const DefaultSystemPrompt = `You are ELSA - an ultra-intelligent, warm, witty AI assistant.
You are ELSA, uniquely yourself. You know everything about every topic: science, tech,
history, culture, arts, sports, philosophy, coding, math, medicine, law, finance,
entertainment, travel, food, and much more.
Respond helpfully, accurately, with personality. Be conversational but smart.`

// historyLimit caps the shared conversation history.
const historyLimit = 30

// Alias is a user-facing model selector.
type Alias string

const (
	AliasAuto   Alias = "auto"
	AliasClaude Alias = "claude"
	AliasGPT    Alias = "gpt"
	AliasGemini Alias = "gemini"
)

// aliasOrder is the preference order used by auto selection.
var aliasOrder = []Alias{AliasClaude, AliasGPT, AliasGemini}

// normalizeAlias folds provider synonyms onto their alias.
func normalizeAlias(model string) Alias {
	switch strings.ToLower(strings.TrimSpace(model)) {
	case "claude", "anthropic":
		return AliasClaude
	case "gpt", "openai":
		return AliasGPT
	case "gemini", "google":
		return AliasGemini
	default:
		return AliasAuto
	}
}

// Config holds the assistant-wide settings.
type Config struct {
	Claude ProviderConfig
	GPT    ProviderConfig
	Gemini ProviderConfig

	SystemPrompt string
	// RatePerSec limits chat requests; zero disables limiting.
	RatePerSec float64
	RateBurst  int
}

// Assistant routes chats to the selected provider and keeps the shared
// conversation history. Safe for concurrent use.
type Assistant struct {
	providers map[Alias]*Provider
	prompt    string
	limiter   *rate.Limiter

	mu      sync.Mutex
	history []Message
}

// NewAssistant builds the assistant from configured providers. Providers
// without an API key are left out.
func NewAssistant(cfg Config) *Assistant {
	providers := make(map[Alias]*Provider)
	for alias, pc := range map[Alias]ProviderConfig{
		AliasClaude: cfg.Claude,
		AliasGPT:    cfg.GPT,
		AliasGemini: cfg.Gemini,
	} {
		if pc.APIKey == "" {
			continue
		}
		providers[alias] = NewProvider(pc)
	}

	prompt := cfg.SystemPrompt
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}

	var limiter *rate.Limiter
	if cfg.RatePerSec > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), burst)
	}

	return &Assistant{
		providers: providers,
		prompt:    prompt,
		limiter:   limiter,
	}
}

// Available returns the labels of configured providers in preference order.
func (a *Assistant) Available() []string {
	labels := make([]string, 0, len(a.providers))
	for _, alias := range aliasOrder {
		if p, ok := a.providers[alias]; ok {
			labels = append(labels, p.Label())
		}
	}
	return labels
}

// Configured reports each provider alias's configured state, keyed by alias
// name. This is the /api/health providers map.
func (a *Assistant) Configured() map[string]bool {
	flags := make(map[string]bool, len(aliasOrder))
	for _, alias := range aliasOrder {
		_, ok := a.providers[alias]
		flags[string(alias)] = ok
	}
	return flags
}

// Resolve maps a model selector to a configured provider. Auto (and any
// unknown selector) picks the first configured provider in preference order;
// a named but unconfigured provider also falls back to auto.
func (a *Assistant) Resolve(model string) (*Provider, error) {
	alias := normalizeAlias(model)
	if alias != AliasAuto {
		if p, ok := a.providers[alias]; ok {
			return p, nil
		}
	}
	for _, candidate := range aliasOrder {
		if p, ok := a.providers[candidate]; ok {
			return p, nil
		}
	}
	return nil, apperrors.LLMUnavailable("no AI providers configured")
}

// Chat sends one user message through the selected provider and returns the
// reply together with the provider label.
func (a *Assistant) Chat(ctx context.Context, message, model string) (string, string, error) {
	if a.limiter != nil && !a.limiter.Allow() {
		return "", "", apperrors.RateLimitExceeded("chat rate limit exceeded")
	}

	provider, err := a.Resolve(model)
	if err != nil {
		return "", "", err
	}

	messages := a.appendUser(message)

	reply, err := provider.Chat(ctx, messages)
	if err != nil {
		a.dropLastUser()
		return "", "", apperrors.Wrap(err, apperrors.ErrCodeLLMUnavailable, "chat completion failed")
	}

	a.appendAssistant(reply)
	return reply, provider.Label(), nil
}

// GenerateImage renders an image using the first provider that is configured.
func (a *Assistant) GenerateImage(ctx context.Context, prompt string) (string, error) {
	provider, err := a.Resolve(string(AliasGPT))
	if err != nil {
		return "", err
	}
	url, err := provider.GenerateImage(ctx, prompt)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeLLMUnavailable, "image generation failed")
	}
	return url, nil
}

// Clear wipes the shared conversation history.
func (a *Assistant) Clear() {
	a.mu.Lock()
	a.history = nil
	a.mu.Unlock()
}

// HistoryLen reports the number of stored conversation turns.
func (a *Assistant) HistoryLen() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.history)
}

// appendUser records the user turn and returns the full prompt message list
// (system prompt + capped history).
func (a *Assistant) appendUser(message string) []Message {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.history = append(a.history, Message{Role: "user", Content: message})
	if len(a.history) > historyLimit {
		a.history = a.history[len(a.history)-historyLimit:]
	}

	messages := make([]Message, 0, len(a.history)+1)
	messages = append(messages, Message{Role: "system", Content: a.prompt})
	messages = append(messages, a.history...)
	return messages
}

func (a *Assistant) appendAssistant(reply string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = append(a.history, Message{Role: "assistant", Content: reply})
}

// dropLastUser removes the just-appended user turn after a failed completion
// so a retry does not duplicate it.
func (a *Assistant) dropLastUser() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n := len(a.history); n > 0 && a.history[n-1].Role == "user" {
		a.history = a.history[:n-1]
	}
}

// DefaultConfigs returns the built-in provider endpoints. Keys come from the
// profile; empty keys leave the provider unconfigured.
func DefaultConfigs(claudeKey, openaiKey, geminiKey string) Config {
	return Config{
		Claude: ProviderConfig{
			BaseURL: "https://api.anthropic.com/v1",
			APIKey:  claudeKey,
			Model:   "claude-sonnet-4-20250514",
			Label:   "Claude Sonnet 4",
			Timeout: 30 * time.Second,
		},
		GPT: ProviderConfig{
			BaseURL: "https://api.openai.com/v1",
			APIKey:  openaiKey,
			Model:   "gpt-4o",
			Label:   "GPT-4o",
			Timeout: 30 * time.Second,
		},
		Gemini: ProviderConfig{
			BaseURL: "https://generativelanguage.googleapis.com/v1beta/openai",
			APIKey:  geminiKey,
			Model:   "gemini-1.5-flash",
			Label:   "Gemini 1.5 Flash",
			Timeout: 30 * time.Second,
		},
		RatePerSec: 2,
		RateBurst:  5,
	}
}
