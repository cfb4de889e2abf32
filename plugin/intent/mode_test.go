package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngine_SearchURL(t *testing.T) {
	tests := []struct {
		name     string
		engine   Engine
		query    string
		expected string
	}{
		{"google", EngineGoogle, "golang slices", "https://www.google.com/search?q=golang+slices"},
		{"chrome aliases google", EngineChrome, "golang slices", "https://www.google.com/search?q=golang+slices"},
		{"bing", EngineBing, "golang slices", "https://www.bing.com/search?q=golang+slices"},
		{"edge aliases bing", EngineEdge, "golang slices", "https://www.bing.com/search?q=golang+slices"},
		{"youtube", EngineYouTube, "lo-fi beats", "https://www.youtube.com/results?search_query=lo-fi+beats"},
		{"duckduckgo", EngineDuckDuckGo, "privacy", "https://duckduckgo.com/?q=privacy"},
		{"wikipedia", EngineWikipedia, "Alan Turing", "https://en.wikipedia.org/wiki/Special:Search?search=Alan+Turing"},
		{"unknown falls back to google", Engine("altavista"), "retro", "https://www.google.com/search?q=retro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.engine.SearchURL(tt.query))
		})
	}
}

func TestEngine_Valid(t *testing.T) {
	for _, e := range Engines {
		assert.True(t, e.Valid(), "engine %s", e)
	}
	assert.False(t, Engine("altavista").Valid())
	assert.False(t, Engine("").Valid())
}

func TestSettings_Toggle(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, AIMode, s.Mode)

	assert.Equal(t, NormalMode, s.Toggle())
	assert.Equal(t, NormalMode, s.Mode)

	assert.Equal(t, AIMode, s.Toggle())
	assert.Equal(t, AIMode, s.Mode)
}

func TestSettings_SetEngine(t *testing.T) {
	s := DefaultSettings()

	assert.True(t, s.SetEngine(EngineDuckDuckGo))
	assert.Equal(t, EngineDuckDuckGo, s.Engine)

	// Unknown engines are rejected and the current selection is kept.
	assert.False(t, s.SetEngine(Engine("altavista")))
	assert.Equal(t, EngineDuckDuckGo, s.Engine)
}
