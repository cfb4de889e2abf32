package intent

import "net/url"

// Mode selects what happens to utterances that match no rule.
type Mode string

const (
	// AIMode sends unmatched utterances to the open-ended chat backend.
	AIMode Mode = "ai"
	// NormalMode searches unmatched utterances directly on the selected engine.
	NormalMode Mode = "normal"
)

// Engine is a Normal-Mode search engine.
type Engine string

const (
	EngineGoogle     Engine = "google"
	EngineBing       Engine = "bing"
	EngineEdge       Engine = "edge"
	EngineChrome     Engine = "chrome"
	EngineYouTube    Engine = "youtube"
	EngineDuckDuckGo Engine = "duckduckgo"
	EngineWikipedia  Engine = "wikipedia"
)

// Engines lists the selectable Normal-Mode engines.
var Engines = []Engine{
	EngineGoogle, EngineBing, EngineEdge, EngineChrome,
	EngineYouTube, EngineDuckDuckGo, EngineWikipedia,
}

// Valid reports whether e is a known engine.
func (e Engine) Valid() bool {
	for _, known := range Engines {
		if e == known {
			return true
		}
	}
	return false
}

// SearchURL builds the direct search URL for a query on this engine.
// Unknown engines fall back to Google.
func (e Engine) SearchURL(query string) string {
	q := url.QueryEscape(query)
	switch e {
	case EngineGoogle, EngineChrome:
		return "https://www.google.com/search?q=" + q
	case EngineBing, EngineEdge:
		return "https://www.bing.com/search?q=" + q
	case EngineYouTube:
		return "https://www.youtube.com/results?search_query=" + q
	case EngineDuckDuckGo:
		return "https://duckduckgo.com/?q=" + q
	case EngineWikipedia:
		return "https://en.wikipedia.org/wiki/Special:Search?search=" + q
	default:
		return "https://www.google.com/search?q=" + q
	}
}

// Settings is the per-resolution configuration the matcher consults on the
// unmatched path. It is passed in explicitly rather than read from a shared
// singleton, so resolution stays deterministic under test.
type Settings struct {
	Mode   Mode
	Engine Engine
	Model  string // active chat model selector: auto|claude|gpt|gemini
}

// DefaultSettings mirror the assistant's boot state: AI mode, Google engine,
// automatic model selection.
func DefaultSettings() Settings {
	return Settings{Mode: AIMode, Engine: EngineGoogle, Model: "auto"}
}

// Toggle flips between AI and Normal mode, returning the new mode.
func (s *Settings) Toggle() Mode {
	if s.Mode == AIMode {
		s.Mode = NormalMode
	} else {
		s.Mode = AIMode
	}
	return s.Mode
}

// SetEngine selects the Normal-Mode search engine. Unknown names are ignored
// and the current engine is kept.
func (s *Settings) SetEngine(e Engine) bool {
	if !e.Valid() {
		return false
	}
	s.Engine = e
	return true
}
