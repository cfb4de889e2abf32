package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/browser"

	"github.com/elsahq/elsa/plugin/intent"
	"github.com/elsahq/elsa/internal/observability"
)

// URLOpener opens a URL on the local machine. Injected so tests (and headless
// hosts) never spawn a browser.
type URLOpener func(rawURL string) error

// Outcome is what a dispatched action reports back: the chat message, the
// text to speak aloud, and whether the action succeeded. A zero Outcome means
// the action was a silent no-op.
type Outcome struct {
	Message string
	Speech  string
	OK      bool
}

// IsZero reports whether the outcome carries nothing to show or speak.
func (o Outcome) IsZero() bool {
	return o.Message == "" && o.Speech == "" && !o.OK
}

// Options tunes a Dispatcher. Zero values select production defaults.
type Options struct {
	OpenURL URLOpener        // defaults to browser.OpenURL
	Clock   func() time.Time // defaults to time.Now
	Logger  *slog.Logger     // defaults to slog.Default()
}

// Dispatcher turns resolved intents into effects. Backend-executable actions
// go to the backend when it is reachable; actions with a browser equivalent
// fall back to opening the constructed URL locally.
type Dispatcher struct {
	client *Client
	index  *intent.CategoryIndex
	open   URLOpener
	now    func() time.Time
	logger *slog.Logger
}

// NewDispatcher builds a dispatcher over a backend client and the website
// category index used for URL resolution.
func NewDispatcher(client *Client, index *intent.CategoryIndex, opts Options) *Dispatcher {
	if opts.OpenURL == nil {
		opts.OpenURL = browser.OpenURL
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if index == nil {
		index = intent.NewCategoryIndex()
	}
	return &Dispatcher{
		client: client,
		index:  index,
		open:   opts.OpenURL,
		now:    opts.Clock,
		logger: opts.Logger,
	}
}

// Dispatch executes one resolved action and returns its single confirmation.
// Required-parameter actions with an empty parameter return a zero Outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, r intent.MatchResult) Outcome {
	var reqCtx *observability.RequestContext
	if id := observabilityID(ctx); id != "" {
		reqCtx = observability.NewRequestContextWithID(d.logger, id, string(r.Action))
	} else {
		reqCtx = observability.NewRequestContext(d.logger, string(r.Action))
	}
	metrics := observability.GlobalMetrics()
	metrics.RecordDispatch(string(r.Action))

	out := d.dispatch(ctx, r)

	metrics.RecordDuration(string(r.Action), reqCtx.Duration())
	if !out.OK && !out.IsZero() {
		metrics.RecordFailure(string(r.Action))
	}
	reqCtx.Debug("action dispatched",
		slog.Bool("ok", out.OK),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
	return out
}

func (d *Dispatcher) dispatch(ctx context.Context, r intent.MatchResult) Outcome {
	switch r.Action {
	case intent.ActionGreeting:
		return say("Hello! How may I help you?")
	case intent.ActionGoodMorning:
		return Outcome{Message: "Good Morning! Have a great day! ☀️", Speech: "Good Morning! Have a great day!", OK: true}
	case intent.ActionGoodNight:
		return Outcome{Message: "Good Night! Sweet dreams! 🌙", Speech: "Good Night! Sweet dreams!", OK: true}
	case intent.ActionGoodDaypart:
		part := r.Param("daypart")
		return Outcome{Message: "Good " + part + "! 👋", Speech: "Good " + part + "!", OK: true}
	case intent.ActionIdentityCreator:
		return say("I am created by Ashrith. I am ELSA 4.0 — an Ultra Advanced AI Assistant!")
	case intent.ActionIdentityQuery:
		return say("My name is ELSA 4.0. I am a virtual AI assistant created by Ashrith. How can I help you?")
	case intent.ActionCapabilities:
		return say("My work is to open apps, search any information on Google, open any video or song on YouTube, find locations on Google Maps, check weather, control your PC, take screenshots, record screen, and answer any question!")
	case intent.ActionReportTime:
		t := d.now().Format("3:04 PM")
		return Outcome{Message: "🕐 Current time: " + t, Speech: "The time is " + t, OK: true}
	case intent.ActionReportDate:
		day := d.now().Format("Monday, January 2, 2006")
		return Outcome{Message: "📅 Today is " + day, Speech: "Today is " + day, OK: true}

	case intent.ActionScreenshot:
		return d.screenshot(ctx)
	case intent.ActionStartRecording:
		return d.recording(ctx, "start_recording")
	case intent.ActionStopRecording:
		return d.recording(ctx, "stop_recording")
	case intent.ActionSystemInfo:
		return d.systemInfo(ctx)
	case intent.ActionRunningApps:
		return d.runningApps(ctx)

	case intent.ActionPowerShutdown:
		return d.power(ctx, "shutdown")
	case intent.ActionPowerRestart:
		return d.power(ctx, "restart")
	case intent.ActionPowerSleep:
		return d.power(ctx, "sleep")
	case intent.ActionPowerLock:
		return d.power(ctx, "lock_screen")

	case intent.ActionOpenApp:
		return d.openApp(ctx, r.Param("name"))
	case intent.ActionOpenWebsite:
		return d.openWebsite(ctx, r.Param("name"))
	case intent.ActionPlayVideo:
		return d.playVideo(ctx, r.Param("query"))
	case intent.ActionSearchWikipedia:
		return d.searchWikipedia(ctx, r.Param("query"))
	case intent.ActionSearchEdge:
		return d.searchEdge(ctx, r.Param("query"))
	case intent.ActionSearchChrome:
		return d.searchChrome(ctx, r.Param("query"))
	case intent.ActionSearchChatGPT:
		return d.searchChatGPT(r.Param("query"))
	case intent.ActionOpenClaude:
		return d.openLocal("https://claude.ai", "Opening Claude AI...", "")
	case intent.ActionSearchGoogle:
		return d.searchGoogle(ctx, r.Param("query"))
	case intent.ActionOpenLocation:
		return d.openLocation(r.Param("place"))
	case intent.ActionOpenWeather:
		return d.openWeather(r.Param("place"))
	case intent.ActionOpenCalculator:
		return d.openLocal("https://www.google.com/search?q=calculator", "🔢 Opening calculator...", "Opening calculator")
	case intent.ActionGenerateImage:
		return d.generateImage(ctx, r.Param("prompt"))
	case intent.ActionClearConversation:
		return d.clearConversation(ctx)

	case intent.ActionOpenPhone:
		return d.openLocal("tel:", "📱 Opening Phone Dialer...", "Opening Phone Dialer")
	case intent.ActionOpenSMS:
		return d.openLocal("sms:", "💬 Opening SMS...", "Opening SMS")
	case intent.ActionOpenWhatsAppCall:
		return d.openLocal("https://wa.me/", "📞 Opening WhatsApp Call...", "Opening WhatsApp call")
	case intent.ActionOpenCamera:
		return d.openLocal("camera://", "📷 Opening Camera...", "Opening camera")

	case intent.ActionChat:
		return d.chat(ctx, r.Param("message"), r.Param("model"))
	case intent.ActionNormalSearch:
		return d.normalSearch(ctx, r.Param("query"), r.Param("engine"))
	}
	return Outcome{}
}

func say(text string) Outcome {
	return Outcome{Message: text, Speech: text, OK: true}
}

// openLocal opens a URL on this machine and confirms.
func (d *Dispatcher) openLocal(rawURL, message, speech string) Outcome {
	if err := d.open(rawURL); err != nil {
		d.logger.Warn("local url open failed", "url", rawURL, "error", err)
		return Outcome{Message: "❌ Could not open browser: " + err.Error()}
	}
	return Outcome{Message: message, Speech: speech, OK: true}
}

// backendOrLocal sends an action to the backend when it is online and falls
// back to opening the local URL when the backend is missing or the call fails.
func (d *Dispatcher) backendOrLocal(ctx context.Context, action string, params map[string]any, localURL string) bool {
	if d.client != nil && d.client.Online(ctx) {
		if _, err := d.client.Command(ctx, action, params); err == nil {
			return true
		}
		d.logger.Warn("backend command failed, opening locally", "action", action)
	}
	if err := d.open(localURL); err != nil {
		d.logger.Warn("local url open failed", "url", localURL, "error", err)
		return false
	}
	return true
}

func (d *Dispatcher) openWebsite(ctx context.Context, name string) Outcome {
	if name == "" {
		return Outcome{}
	}
	target := d.index.ResolveURL(name)
	if !d.backendOrLocal(ctx, "open_website", map[string]any{"url": name}, target) {
		return Outcome{Message: "❌ Could not open " + name}
	}
	return Outcome{Message: "🌐 Opening " + name + "...", Speech: "Opening " + name, OK: true}
}

func (d *Dispatcher) playVideo(ctx context.Context, query string) Outcome {
	if query == "" {
		return Outcome{}
	}
	target := "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)
	if !d.backendOrLocal(ctx, "play_youtube", map[string]any{"query": query}, target) {
		return Outcome{Message: "❌ Could not play " + query}
	}
	return Outcome{Message: "🎵 Playing \"" + query + "\" on YouTube!", Speech: "Playing " + query + " on YouTube", OK: true}
}

func (d *Dispatcher) searchGoogle(ctx context.Context, query string) Outcome {
	if query == "" {
		return Outcome{}
	}
	target := "https://www.google.com/search?q=" + url.QueryEscape(query)
	if !d.backendOrLocal(ctx, "search_google", map[string]any{"query": query}, target) {
		return Outcome{Message: "❌ Could not search for " + query}
	}
	return Outcome{Message: "🔍 Searching Google for: " + query, Speech: "Searching Google for " + query, OK: true}
}

func (d *Dispatcher) searchWikipedia(ctx context.Context, query string) Outcome {
	if query == "" {
		return Outcome{}
	}
	target := "https://en.wikipedia.org/wiki/Special:Search?search=" + url.QueryEscape(query)
	if !d.backendOrLocal(ctx, "search_wikipedia", map[string]any{"query": query}, target) {
		return Outcome{Message: "❌ Could not search for " + query}
	}
	return Outcome{Message: "📖 Searching Wikipedia for: " + query, Speech: "Searching Wikipedia for " + query, OK: true}
}

// searchEdge prefers the backend (which opens the real Edge browser); the
// local fallback is a Bing search in the default browser.
func (d *Dispatcher) searchEdge(ctx context.Context, query string) Outcome {
	if query == "" {
		return Outcome{}
	}
	if d.client != nil && d.client.Online(ctx) {
		if resp, err := d.client.Command(ctx, "search_edge", map[string]any{"query": query}); err == nil && resp.Success {
			return Outcome{Message: "🔵 Opening Microsoft Edge → Searching: " + query, Speech: "Searching Edge for " + query, OK: true}
		}
	}
	target := "https://www.bing.com/search?q=" + url.QueryEscape(query)
	if err := d.open(target); err != nil {
		return Outcome{Message: "❌ Could not search for " + query}
	}
	return Outcome{Message: "🔵 Searching Bing (Edge) for: " + query, Speech: "Searching Edge for " + query, OK: true}
}

func (d *Dispatcher) searchChrome(ctx context.Context, query string) Outcome {
	if query == "" {
		return Outcome{}
	}
	if d.client != nil && d.client.Online(ctx) {
		if resp, err := d.client.Command(ctx, "search_chrome", map[string]any{"query": query}); err == nil && resp.Success {
			return Outcome{Message: "🔴 Opening Google Chrome → Searching: " + query, Speech: "Searching Chrome for " + query, OK: true}
		}
	}
	target := "https://www.google.com/search?q=" + url.QueryEscape(query)
	if err := d.open(target); err != nil {
		return Outcome{Message: "❌ Could not search for " + query}
	}
	return Outcome{Message: "🔴 Searching Google (Chrome) for: " + query, Speech: "Searching Chrome for " + query, OK: true}
}

func (d *Dispatcher) searchChatGPT(query string) Outcome {
	if query == "" {
		return Outcome{}
	}
	return d.openLocal("https://chatgpt.com/?q="+url.QueryEscape(query),
		"🤖 Searching ChatGPT for: "+query, "Opening ChatGPT")
}

func (d *Dispatcher) openLocation(place string) Outcome {
	if place == "" {
		return Outcome{}
	}
	return d.openLocal("https://www.google.com/maps/search/"+url.QueryEscape(place),
		"📍 Opening location for: "+place, "Opening location")
}

func (d *Dispatcher) openWeather(place string) Outcome {
	q := place
	if q == "" {
		q = "today"
	}
	message := "🌦️ Opening weather..."
	if place != "" {
		message = "🌦️ Opening weather for " + place + "..."
	}
	return d.openLocal("https://www.google.com/search?q=weather+"+url.QueryEscape(q),
		message, "Opening weather")
}

// openApp launches a desktop application. There is no local equivalent, so a
// missing backend is surfaced instead of silently ignored.
func (d *Dispatcher) openApp(ctx context.Context, name string) Outcome {
	if name == "" {
		return Outcome{}
	}
	if d.client == nil || !d.client.Online(ctx) {
		return Outcome{Message: "⚠️ Backend needed to open desktop apps. Run: elsa serve"}
	}
	resp, err := d.client.OpenApp(ctx, name)
	if err != nil {
		return Outcome{Message: "❌ Error opening " + name + ": " + err.Error()}
	}
	if !resp.Success {
		return Outcome{Message: resp.Message, Speech: "Could not open " + name + ". Make sure it is installed."}
	}
	return Outcome{Message: resp.Message, Speech: "Opening " + name, OK: true}
}

func (d *Dispatcher) screenshot(ctx context.Context) Outcome {
	if d.client == nil || !d.client.Online(ctx) {
		return Outcome{Message: "⚠️ Backend needed to take screenshots. Run: elsa serve"}
	}
	resp, err := d.client.Screenshot(ctx)
	if err != nil {
		return Outcome{Message: "❌ Screenshot error: " + err.Error()}
	}
	if !resp.Success {
		return Outcome{Message: "❌ " + resp.Message, Speech: "Screenshot failed. " + resp.Message}
	}
	return Outcome{Message: "✅ " + resp.Message, Speech: "Screenshot taken!", OK: true}
}

func (d *Dispatcher) recording(ctx context.Context, action string) Outcome {
	if d.client == nil || !d.client.Online(ctx) {
		return Outcome{Message: "⚠️ Backend needed for screen recording. Run: elsa serve"}
	}
	resp, err := d.client.Command(ctx, action, map[string]any{})
	if err != nil {
		return Outcome{Message: "❌ Screen record error: " + err.Error()}
	}
	if !resp.Success {
		return Outcome{Message: "❌ " + resp.Message}
	}
	return Outcome{Message: resp.Message, Speech: resp.Message, OK: true}
}

func (d *Dispatcher) power(ctx context.Context, action string) Outcome {
	if d.client == nil || !d.client.Online(ctx) {
		return Outcome{Message: "⚠️ Backend needed for power actions."}
	}
	resp, err := d.client.Command(ctx, action, map[string]any{})
	if err != nil {
		return Outcome{Message: "❌ " + err.Error()}
	}
	return Outcome{Message: resp.Message, Speech: resp.Message, OK: resp.Success}
}

func (d *Dispatcher) systemInfo(ctx context.Context) Outcome {
	if d.client == nil || !d.client.Online(ctx) {
		return Outcome{Message: "⚠️ Backend offline for system info."}
	}
	resp, err := d.client.SystemInfo(ctx)
	if err != nil {
		return Outcome{Message: "❌ System info error: " + err.Error()}
	}
	i := resp.Info
	msg := fmt.Sprintf("🖥️ System: %s | CPU %.1f%% (%d cores) | RAM %.1f/%.1f GB (%.1f%%) | Disk %.1f%%",
		i.OS, i.CPUUsage, i.CPUCores, i.MemoryUsed, i.MemoryTotal, i.MemoryPercent, i.DiskPercent)
	speech := fmt.Sprintf("CPU at %.0f percent. RAM %.0f percent used.", i.CPUUsage, i.MemoryPercent)
	return Outcome{Message: msg, Speech: speech, OK: true}
}

func (d *Dispatcher) runningApps(ctx context.Context) Outcome {
	if d.client == nil || !d.client.Online(ctx) {
		return Outcome{Message: "⚠️ Backend offline."}
	}
	resp, err := d.client.RunningApps(ctx)
	if err != nil {
		return Outcome{Message: "❌ Error: " + err.Error()}
	}
	var b strings.Builder
	b.WriteString("📋 Running apps:")
	for _, p := range resp.Processes {
		fmt.Fprintf(&b, "\n• %s — %.1f MB", p.Name, p.Memory)
	}
	speech := fmt.Sprintf("Found %d running processes.", len(resp.Processes))
	return Outcome{Message: b.String(), Speech: speech, OK: true}
}

func (d *Dispatcher) generateImage(ctx context.Context, prompt string) Outcome {
	if prompt == "" {
		return Outcome{}
	}
	if d.client == nil || !d.client.Online(ctx) {
		return Outcome{Message: "⚠️ Backend needed for image generation."}
	}
	resp, err := d.client.GenerateImage(ctx, prompt)
	if err != nil {
		return Outcome{Message: "❌ Image error: " + err.Error()}
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "Failed to generate image"
		}
		return Outcome{Message: "❌ " + msg}
	}
	return Outcome{Message: "🎨 Image generated: " + resp.ImageURL, Speech: "Image generated!", OK: true}
}

func (d *Dispatcher) clearConversation(ctx context.Context) Outcome {
	if d.client != nil && d.client.Online(ctx) {
		if _, err := d.client.ClearHistory(ctx); err != nil {
			d.logger.Warn("backend history clear failed", "error", err)
		}
	}
	return Outcome{Message: "Chat cleared! 🗑️", OK: true}
}

func (d *Dispatcher) chat(ctx context.Context, message, model string) Outcome {
	if message == "" {
		return Outcome{}
	}
	if d.client == nil || !d.client.Online(ctx) {
		return Outcome{
			Message: "⚠️ Backend offline. Start: elsa serve",
			Speech:  "Backend is offline. Please start the backend server.",
		}
	}
	resp, err := d.client.Chat(ctx, message, model)
	if err != nil {
		return Outcome{Message: "❌ Connection error: " + err.Error()}
	}
	if !resp.Success {
		e := resp.Error
		if e == "" {
			e = "Unknown error"
		}
		return Outcome{Message: "⚠️ " + e}
	}
	return Outcome{Message: resp.Response, Speech: resp.Response, OK: true}
}

func (d *Dispatcher) normalSearch(ctx context.Context, query, engine string) Outcome {
	if query == "" {
		return Outcome{}
	}
	eng := intent.Engine(engine)
	if !eng.Valid() {
		eng = intent.EngineGoogle
	}
	label := strings.ToUpper(string(eng))
	// Edge and Chrome searches can be steered through the backend so the
	// named browser actually opens.
	if (eng == intent.EngineEdge || eng == intent.EngineChrome) && d.client != nil && d.client.Online(ctx) {
		if _, err := d.client.Command(ctx, "search_"+string(eng), map[string]any{"query": query}); err == nil {
			return Outcome{
				Message: "🔍 [Normal Mode] Searching " + label + " for: " + query,
				Speech:  "Searching " + string(eng) + " for " + query,
				OK:      true,
			}
		}
	}
	if err := d.open(eng.SearchURL(query)); err != nil {
		return Outcome{Message: "❌ Could not search for " + query}
	}
	return Outcome{
		Message: "🔍 [Normal Mode] Searching " + label + " for: " + query,
		Speech:  "Searching for " + query,
		OK:      true,
	}
}

// observabilityID returns the request ID a server handler attached to the
// context, or "" when the dispatch did not come through the API.
func observabilityID(ctx context.Context) string {
	if reqCtx, ok := observability.FromContext(ctx); ok {
		return reqCtx.RequestID
	}
	return ""
}
