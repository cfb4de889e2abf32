package intent

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_BasicIntents(t *testing.T) {
	matcher := NewMatcher()

	tests := []struct {
		name           string
		input          string
		expectedAction ActionID
		expectedParams map[string]string
	}{
		{
			name:           "Wake word greeting",
			input:          "hey elsa",
			expectedAction: ActionGreeting,
		},
		{
			name:           "Good morning",
			input:          "Good Morning!",
			expectedAction: ActionGoodMorning,
		},
		{
			name:           "Good evening carries daypart",
			input:          "good evening",
			expectedAction: ActionGoodDaypart,
			expectedParams: map[string]string{"daypart": "Evening"},
		},
		{
			name:           "Creator question",
			input:          "who made you?",
			expectedAction: ActionIdentityCreator,
		},
		{
			name:           "Identity question",
			input:          "who are you",
			expectedAction: ActionIdentityQuery,
		},
		{
			name:           "Screenshot",
			input:          "take a screenshot please",
			expectedAction: ActionScreenshot,
		},
		{
			name:           "System info",
			input:          "show me cpu usage",
			expectedAction: ActionSystemInfo,
		},
		{
			name:           "Running apps",
			input:          "list apps",
			expectedAction: ActionRunningApps,
		},
		{
			name:           "Restart",
			input:          "restart",
			expectedAction: ActionPowerRestart,
		},
		{
			name:           "Lock screen",
			input:          "lock screen",
			expectedAction: ActionPowerLock,
		},
		{
			name:           "Clear conversation",
			input:          "clear chat",
			expectedAction: ActionClearConversation,
		},
		{
			name:           "WhatsApp call shortcut",
			input:          "whatsapp call",
			expectedAction: ActionOpenWhatsAppCall,
		},
		{
			name:           "Phone dialer shortcut",
			input:          "phone dialer",
			expectedAction: ActionOpenPhone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := matcher.Resolve(NewUtterance(tt.input))
			require.True(t, result.Matched, "should match")
			assert.Equal(t, tt.expectedAction, result.Action)
			for k, v := range tt.expectedParams {
				assert.Equal(t, v, result.Param(k), "param %s", k)
			}
		})
	}
}

func TestMatcher_Guards(t *testing.T) {
	matcher := NewMatcher()

	tests := []struct {
		name        string
		input       string
		vetoed      ActionID
		description string
	}{
		{
			name:   "Bedtime does not report time",
			input:  "what's your bedtime",
			vetoed: ActionReportTime,
		},
		{
			name:   "Lifetime does not report time",
			input:  "tell me about your lifetime achievements",
			vetoed: ActionReportTime,
		},
		{
			name:   "Update does not report date",
			input:  "update the date",
			vetoed: ActionReportDate,
		},
		{
			name:   "Candidate does not report date",
			input:  "the candidate date sheet",
			vetoed: ActionReportDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := matcher.Resolve(NewUtterance(tt.input))
			if result.Matched {
				assert.NotEqual(t, tt.vetoed, result.Action)
			}
		})
	}

	// The positive cases still fire.
	result := matcher.Resolve(NewUtterance("what time is it"))
	require.True(t, result.Matched)
	assert.Equal(t, ActionReportTime, result.Action)

	result = matcher.Resolve(NewUtterance("what is the date today"))
	require.True(t, result.Matched)
	assert.Equal(t, ActionReportDate, result.Action)
}

func TestMatcher_RecordingBeforeGenericOpen(t *testing.T) {
	matcher := NewMatcher()

	result := matcher.Resolve(NewUtterance("start screen recording"))
	require.True(t, result.Matched)
	assert.Equal(t, ActionStartRecording, result.Action,
		"recording rules must win over the generic open rule")

	result = matcher.Resolve(NewUtterance("stop recording"))
	require.True(t, result.Matched)
	assert.Equal(t, ActionStopRecording, result.Action)
}

func TestMatcher_OpenTargetRerouting(t *testing.T) {
	matcher := NewMatcher()

	tests := []struct {
		name           string
		input          string
		expectedAction ActionID
		expectedName   string
	}{
		{
			name:           "Website name re-routes to open_website",
			input:          "Open YouTube",
			expectedAction: ActionOpenWebsite,
			expectedName:   "youtube",
		},
		{
			name:           "Qualifier word stripped before lookup",
			input:          "open spotify app",
			expectedAction: ActionOpenWebsite,
			expectedName:   "spotify",
		},
		{
			name:           "Desktop app stays open_app",
			input:          "open vlc media player",
			expectedAction: ActionOpenApp,
			expectedName:   "vlc media player",
		},
		{
			name:           "Launch phrasing",
			input:          "launch blender application",
			expectedAction: ActionOpenApp,
			expectedName:   "blender",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := matcher.Resolve(NewUtterance(tt.input))
			require.True(t, result.Matched)
			assert.Equal(t, tt.expectedAction, result.Action)
			assert.Equal(t, tt.expectedName, result.Param("name"))
		})
	}
}

func TestMatcher_PlayVideoAlternatives(t *testing.T) {
	matcher := NewMatcher()

	tests := []struct {
		name          string
		input         string
		expectedQuery string
	}{
		{
			name:          "Play on youtube suffix stripped",
			input:         "play highway to hell on youtube",
			expectedQuery: "highway to hell",
		},
		{
			name:          "Bare play",
			input:         "play Bohemian Rhapsody",
			expectedQuery: "Bohemian Rhapsody",
		},
		{
			name:          "Search on youtube",
			input:         "search lo-fi beats on youtube",
			expectedQuery: "lo-fi beats",
		},
		{
			name:          "Youtube prefix",
			input:         "youtube cat videos",
			expectedQuery: "cat videos",
		},
		{
			name:          "Song prefix",
			input:         "song thunderstruck",
			expectedQuery: "thunderstruck",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := matcher.Resolve(NewUtterance(tt.input))
			require.True(t, result.Matched)
			assert.Equal(t, ActionPlayVideo, result.Action)
			assert.Equal(t, tt.expectedQuery, result.Param("query"))
		})
	}
}

func TestMatcher_PlayVideoKeywordGuard(t *testing.T) {
	matcher := NewMatcher()

	// "songs" alone routes to video playback with the whole text as query.
	result := matcher.Resolve(NewUtterance("some relaxing songs"))
	require.True(t, result.Matched)
	assert.Equal(t, ActionPlayVideo, result.Action)
	assert.Equal(t, "some relaxing songs", result.Param("query"))

	// With "search" present, the guard vetoes the keyword rule and the
	// generic search rule picks it up instead.
	result = matcher.Resolve(NewUtterance("search songs about rain"))
	require.True(t, result.Matched)
	assert.Equal(t, ActionSearchGoogle, result.Action)
}

func TestMatcher_SearchFamily(t *testing.T) {
	matcher := NewMatcher()

	tests := []struct {
		name           string
		input          string
		expectedAction ActionID
		expectedQuery  string
	}{
		{
			name:           "Wikipedia with query",
			input:          "search wikipedia for Alan Turing",
			expectedAction: ActionSearchWikipedia,
			expectedQuery:  "Alan Turing",
		},
		{
			name:           "Edge search",
			input:          "search in edge for golang generics",
			expectedAction: ActionSearchEdge,
			expectedQuery:  "golang generics",
		},
		{
			name:           "Chrome search",
			input:          "search chrome for echo middleware",
			expectedAction: ActionSearchChrome,
			expectedQuery:  "echo middleware",
		},
		{
			name:           "ChatGPT ask",
			input:          "ask chatgpt about goroutines",
			expectedAction: ActionSearchChatGPT,
			expectedQuery:  "goroutines",
		},
		{
			name:           "Google search keeps original case",
			input:          "search for Quantum Computing",
			expectedAction: ActionSearchGoogle,
			expectedQuery:  "Quantum Computing",
		},
		{
			name:           "Question words route to search",
			input:          "what is the capital of France",
			expectedAction: ActionSearchGoogle,
			expectedQuery:  "what is the capital of France",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := matcher.Resolve(NewUtterance(tt.input))
			require.True(t, result.Matched)
			assert.Equal(t, tt.expectedAction, result.Action)
			assert.Equal(t, tt.expectedQuery, result.Param("query"))
		})
	}
}

func TestMatcher_LocationWeatherCalculator(t *testing.T) {
	matcher := NewMatcher()

	result := matcher.Resolve(NewUtterance("location of Eiffel Tower"))
	require.True(t, result.Matched)
	assert.Equal(t, ActionOpenLocation, result.Action)
	assert.Equal(t, "Eiffel Tower", result.Param("place"))

	// "find location of X" is captured by the earlier generic search rule;
	// the location rule only sees phrasings without a search verb.
	result = matcher.Resolve(NewUtterance("find location of Eiffel Tower"))
	require.True(t, result.Matched)
	assert.Equal(t, ActionSearchGoogle, result.Action)

	result = matcher.Resolve(NewUtterance("weather in Bengaluru"))
	require.True(t, result.Matched)
	assert.Equal(t, ActionOpenWeather, result.Action)
	assert.Equal(t, "Bengaluru", result.Param("place"))

	result = matcher.Resolve(NewUtterance("how's the weather"))
	require.True(t, result.Matched)
	assert.Equal(t, ActionOpenWeather, result.Action)
	assert.Equal(t, "", result.Param("place"))

	result = matcher.Resolve(NewUtterance("calculator"))
	require.True(t, result.Matched)
	assert.Equal(t, ActionOpenCalculator, result.Action)
}

func TestMatcher_GenerateImage(t *testing.T) {
	matcher := NewMatcher()

	result := matcher.Resolve(NewUtterance("generate an image of a red dragon"))
	require.True(t, result.Matched)
	assert.Equal(t, ActionGenerateImage, result.Action)
	assert.Equal(t, "a red dragon", result.Param("prompt"))

	// The article is consumed by the prompt pattern.
	result = matcher.Resolve(NewUtterance("draw a castle at sunset"))
	require.True(t, result.Matched)
	assert.Equal(t, ActionGenerateImage, result.Action)
	assert.Equal(t, "castle at sunset", result.Param("prompt"))
}

func TestMatcher_Determinism(t *testing.T) {
	matcher := NewMatcher()
	u := NewUtterance("play highway to hell on youtube")

	first := matcher.Resolve(u)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, matcher.Resolve(u))
	}
}

func TestMatcher_Fallback(t *testing.T) {
	matcher := NewMatcher()
	u := NewUtterance("xyzzy plugh")

	// Resolve alone yields unmatched.
	result := matcher.Resolve(u)
	assert.False(t, result.Matched)

	// AI mode falls back to chat with the raw message.
	settings := DefaultSettings()
	result = matcher.Route(u, settings)
	require.True(t, result.Matched)
	assert.Equal(t, ActionChat, result.Action)
	assert.Equal(t, "xyzzy plugh", result.Param("message"))
	assert.Equal(t, "auto", result.Param("model"))

	// Normal mode falls back to a direct search on the selected engine.
	settings.Toggle()
	settings.SetEngine(EngineDuckDuckGo)
	result = matcher.Route(u, settings)
	require.True(t, result.Matched)
	assert.Equal(t, ActionNormalSearch, result.Action)
	assert.Equal(t, "xyzzy plugh", result.Param("query"))
	assert.Equal(t, "duckduckgo", result.Param("engine"))
}

func TestMatcher_OrderingSurvivesAppendedRules(t *testing.T) {
	// Appending rules after the recording rules must not change how
	// "start screen recording" resolves.
	rules := append(DefaultRules(), Rule{
		Action:   ActionID("noise"),
		Patterns: []*regexp.Regexp{re(`recording`)},
	})
	matcher := NewMatcherWithRules(rules, nil)

	result := matcher.Resolve(NewUtterance("start screen recording"))
	require.True(t, result.Matched)
	assert.Equal(t, ActionStartRecording, result.Action)
}
