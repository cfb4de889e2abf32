package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearElsaEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ELSA_ADDR", "ELSA_PORT", "ELSA_MODE", "ELSA_BACKEND_URL",
		"ELSA_ENGINE", "ELSA_MODEL", "ELSA_VOICE_REPLY",
		"ELSA_ANTHROPIC_API_KEY", "ELSA_OPENAI_API_KEY", "ELSA_GEMINI_API_KEY",
		"ELSA_CHAT_RATE", "ELSA_CHAT_BURST",
	} {
		t.Setenv(key, "")
	}
}

func TestProfileDefaults(t *testing.T) {
	clearElsaEnv(t)

	p := &Profile{}
	p.FromEnv()
	require.NoError(t, p.Validate())

	assert.Equal(t, "127.0.0.1", p.Addr)
	assert.Equal(t, 5000, p.Port)
	assert.Equal(t, "dev", p.Mode)
	assert.Equal(t, "http://127.0.0.1:5000", p.BackendURL)
	assert.Equal(t, "google", p.Engine)
	assert.Equal(t, "auto", p.Model)
	assert.False(t, p.VoiceReply)
	assert.False(t, p.HasProvider())
	assert.Equal(t, "127.0.0.1:5000", p.ServeAddr())
	assert.Equal(t, 2.0, p.ChatRatePerSec)
	assert.Equal(t, 5, p.ChatRateBurst)
}

func TestProfileFromEnv(t *testing.T) {
	clearElsaEnv(t)
	t.Setenv("ELSA_PORT", "8088")
	t.Setenv("ELSA_MODE", "prod")
	t.Setenv("ELSA_ENGINE", "duckduckgo")
	t.Setenv("ELSA_MODEL", "claude")
	t.Setenv("ELSA_VOICE_REPLY", "true")
	t.Setenv("ELSA_ANTHROPIC_API_KEY", "sk-test")

	p := &Profile{}
	p.FromEnv()
	require.NoError(t, p.Validate())

	assert.Equal(t, 8088, p.Port)
	assert.Equal(t, "prod", p.Mode)
	assert.False(t, p.IsDev())
	assert.Equal(t, "http://127.0.0.1:8088", p.BackendURL)
	assert.Equal(t, "duckduckgo", p.Engine)
	assert.Equal(t, "claude", p.Model)
	assert.True(t, p.VoiceReply)
	assert.True(t, p.HasProvider())
}

func TestProfileFlagsWinOverEnv(t *testing.T) {
	clearElsaEnv(t)
	t.Setenv("ELSA_PORT", "8088")

	p := &Profile{Port: 9000}
	p.FromEnv()
	require.NoError(t, p.Validate())
	assert.Equal(t, 9000, p.Port)
}

func TestProfileValidate(t *testing.T) {
	p := &Profile{Mode: "weird", Port: 5000}
	require.NoError(t, p.Validate())
	assert.Equal(t, "demo", p.Mode)

	p = &Profile{Mode: "dev", Port: -1}
	assert.Error(t, p.Validate())
}
