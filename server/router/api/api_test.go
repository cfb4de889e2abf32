package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elsahq/elsa/internal/profile"
	"github.com/elsahq/elsa/server/ai"
	"github.com/elsahq/elsa/server/system"
)

type hostRecorder struct {
	calls [][]string
	urls  []string
}

func (h *hostRecorder) run(_ context.Context, name string, args ...string) error {
	h.calls = append(h.calls, append([]string{name}, args...))
	return nil
}

func (h *hostRecorder) output(_ context.Context, name string, args ...string) (string, error) {
	h.calls = append(h.calls, append([]string{name}, args...))
	return "", nil
}

func (h *hostRecorder) open(u string) error {
	h.urls = append(h.urls, u)
	return nil
}

func newTestService(t *testing.T, assistant *ai.Assistant) (*echo.Echo, *hostRecorder) {
	t.Helper()
	rec := &hostRecorder{}
	executor := system.NewExecutor(system.Options{
		GOOS:    "linux",
		Run:     rec.run,
		Output:  rec.output,
		OpenURL: rec.open,
	})
	if assistant == nil {
		assistant = ai.NewAssistant(ai.Config{})
	}
	p := &profile.Profile{Mode: "dev", Addr: "127.0.0.1", Port: 5000, Version: "test"}

	e := echo.New()
	NewService(p, assistant, executor, nil).Register(e)
	return e, rec
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	e, _ := newTestService(t, nil)

	rr := doJSON(e, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "linux", body["os"])
	assert.Equal(t, "test", body["version"])
	assert.Equal(t, map[string]any{"claude": false, "gpt": false, "gemini": false}, body["providers"])
}

func TestHealth_ProviderFlags(t *testing.T) {
	assistant := ai.NewAssistant(ai.Config{
		GPT: ai.ProviderConfig{APIKey: "test-key", Model: "gpt-4o", Label: "GPT-4o"},
	})
	e, _ := newTestService(t, assistant)

	rr := doJSON(e, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	assert.Equal(t, map[string]any{"claude": false, "gpt": true, "gemini": false}, body["providers"])
}

func TestChat_EmptyMessage(t *testing.T) {
	e, _ := newTestService(t, nil)

	rr := doJSON(e, http.MethodPost, "/api/chat", `{"message":""}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Empty message", decode(t, rr)["error"])
}

func TestChat_NoProviders(t *testing.T) {
	e, _ := newTestService(t, nil)

	rr := doJSON(e, http.MethodPost, "/api/chat", `{"message":"hello","model":"auto"}`)
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, decode(t, rr)["error"], "no AI providers")
}

func TestChat_Success(t *testing.T) {
	llm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hi there"}}]}`))
	}))
	t.Cleanup(llm.Close)

	assistant := ai.NewAssistant(ai.Config{
		GPT: ai.ProviderConfig{
			BaseURL:    llm.URL,
			APIKey:     "test-key",
			Model:      "test-model",
			Label:      "GPT-4o",
			MaxRetries: 1,
			Timeout:    2 * time.Second,
		},
	})
	e, _ := newTestService(t, assistant)

	rr := doJSON(e, http.MethodPost, "/api/chat", `{"message":"hello","model":"gpt"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "hi there", body["response"])
	assert.Equal(t, "GPT-4o", body["model"])
}

func TestCommand_OpenWebsite(t *testing.T) {
	e, rec := newTestService(t, nil)

	rr := doJSON(e, http.MethodPost, "/api/command", `{"action":"open_website","params":{"url":"youtube"}}`)
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	assert.Equal(t, true, body["success"])
	require.Len(t, rec.urls, 1)
	assert.Equal(t, "https://youtube.com", rec.urls[0])
}

func TestCommand_PlayYouTube(t *testing.T) {
	e, rec := newTestService(t, nil)

	rr := doJSON(e, http.MethodPost, "/api/command", `{"action":"play_youtube","params":{"query":"lo-fi beats"}}`)
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "✅ Playing 'lo-fi beats' on YouTube...", body["message"])
	require.Len(t, rec.urls, 1)
	assert.Equal(t, "https://www.youtube.com/results?search_query=lo-fi+beats", rec.urls[0])
}

func TestCommand_LockScreen(t *testing.T) {
	e, rec := newTestService(t, nil)

	rr := doJSON(e, http.MethodPost, "/api/command", `{"action":"lock_screen","params":{}}`)
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "✅ Screen locked!", body["message"])
	require.Len(t, rec.calls, 1)
	assert.Equal(t, []string{"loginctl", "lock-session"}, rec.calls[0])
}

func TestCommand_ShutdownDelay(t *testing.T) {
	e, rec := newTestService(t, nil)

	rr := doJSON(e, http.MethodPost, "/api/command", `{"action":"shutdown","params":{"delay":9}}`)
	require.Equal(t, http.StatusOK, rr.Code)

	// Linux shutdown ignores the delay in its argv but reports it back.
	body := decode(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "✅ Shutdown in 9s", body["message"])
	require.NotEmpty(t, rec.calls)
	assert.Equal(t, "shutdown", rec.calls[0][0])
}

func TestCommand_GetTime(t *testing.T) {
	e, _ := newTestService(t, nil)

	rr := doJSON(e, http.MethodPost, "/api/command", `{"action":"get_time","params":{}}`)
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["time"])
	assert.NotEmpty(t, body["date"])
}

func TestCommand_Unknown(t *testing.T) {
	e, _ := newTestService(t, nil)

	rr := doJSON(e, http.MethodPost, "/api/command", `{"action":"fly_to_moon","params":{}}`)
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Unknown action: fly_to_moon", body["message"])
}

func TestOpenAppEndpoint(t *testing.T) {
	e, rec := newTestService(t, nil)

	rr := doJSON(e, http.MethodPost, "/api/system/open-app", `{"app_name":"vscode."}`)
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	assert.Equal(t, true, body["success"])
	require.Len(t, rec.calls, 1)
	assert.Equal(t, []string{"code"}, rec.calls[0])
}

func TestClearEndpoint(t *testing.T) {
	e, _ := newTestService(t, nil)

	rr := doJSON(e, http.MethodPost, "/api/clear", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "✅ History cleared!", decode(t, rr)["message"])
}

func TestSystemEndpoints(t *testing.T) {
	e, rec := newTestService(t, nil)
	rec.calls = nil

	rr := doJSON(e, http.MethodGet, "/api/system/info", "")
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, true, body["success"])
	info, ok := body["info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "linux", info["os"])

	rr = doJSON(e, http.MethodGet, "/api/system/apps", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, decode(t, rr)["success"])
}
