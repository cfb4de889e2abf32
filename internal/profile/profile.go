package profile

import (
	"fmt"
	"os"
	"strconv"
)

// Profile is the configuration to start the assistant.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for the backend server
	Addr string
	// Port is the binding port for the backend server
	Port int
	// Version is the current version of the assistant
	Version string

	// BackendURL is the backend the REPL dispatches against.
	BackendURL string
	// Engine is the default Normal-Mode search engine.
	Engine string
	// Model is the default chat model selector (auto|claude|gpt|gemini).
	Model string
	// VoiceReply controls whether the REPL voices replies.
	VoiceReply bool

	// Provider credentials. An empty key leaves the provider unconfigured.
	AnthropicAPIKey string // ELSA_ANTHROPIC_API_KEY
	OpenAIAPIKey    string // ELSA_OPENAI_API_KEY
	GeminiAPIKey    string // ELSA_GEMINI_API_KEY

	// ChatRatePerSec limits backend chat requests; zero disables limiting.
	ChatRatePerSec float64
	ChatRateBurst  int
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// HasProvider reports whether at least one chat provider is configured.
func (p *Profile) HasProvider() bool {
	return p.AnthropicAPIKey != "" || p.OpenAIAPIKey != "" || p.GeminiAPIKey != ""
}

// ServeAddr is the backend bind address in host:port form.
func (p *Profile) ServeAddr() string {
	return fmt.Sprintf("%s:%d", p.Addr, p.Port)
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from ELSA_* environment variables. Values
// already set by flags win over the environment.
func (p *Profile) FromEnv() {
	if p.Addr == "" {
		p.Addr = getEnvOrDefault("ELSA_ADDR", "127.0.0.1")
	}
	if p.Port == 0 {
		if port, err := strconv.Atoi(getEnvOrDefault("ELSA_PORT", "5000")); err == nil {
			p.Port = port
		}
	}
	if p.Mode == "" {
		p.Mode = getEnvOrDefault("ELSA_MODE", "dev")
	}
	if p.BackendURL == "" {
		p.BackendURL = getEnvOrDefault("ELSA_BACKEND_URL", fmt.Sprintf("http://%s:%d", p.Addr, p.Port))
	}
	if p.Engine == "" {
		p.Engine = getEnvOrDefault("ELSA_ENGINE", "google")
	}
	if p.Model == "" {
		p.Model = getEnvOrDefault("ELSA_MODEL", "auto")
	}
	if os.Getenv("ELSA_VOICE_REPLY") == "true" {
		p.VoiceReply = true
	}

	p.AnthropicAPIKey = getEnvOrDefault("ELSA_ANTHROPIC_API_KEY", p.AnthropicAPIKey)
	p.OpenAIAPIKey = getEnvOrDefault("ELSA_OPENAI_API_KEY", p.OpenAIAPIKey)
	p.GeminiAPIKey = getEnvOrDefault("ELSA_GEMINI_API_KEY", p.GeminiAPIKey)

	if p.ChatRatePerSec == 0 {
		if v, err := strconv.ParseFloat(getEnvOrDefault("ELSA_CHAT_RATE", "2"), 64); err == nil {
			p.ChatRatePerSec = v
		}
	}
	if p.ChatRateBurst == 0 {
		if v, err := strconv.Atoi(getEnvOrDefault("ELSA_CHAT_BURST", "5")); err == nil {
			p.ChatRateBurst = v
		}
	}
}

// Validate normalizes the profile and rejects unusable values.
func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}
	if p.Port <= 0 || p.Port > 65535 {
		return fmt.Errorf("invalid port %d", p.Port)
	}
	if p.Engine == "" {
		p.Engine = "google"
	}
	if p.Model == "" {
		p.Model = "auto"
	}
	return nil
}
