package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/elsahq/elsa/plugin/intent"
)

// commandRequest is the /api/command envelope.
type commandRequest struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params"`
}

func (r commandRequest) str(key string) string {
	if v, ok := r.Params[key].(string); ok {
		return v
	}
	return ""
}

func (r commandRequest) num(key string, fallback int) int {
	if v, ok := r.Params[key].(float64); ok {
		return int(v)
	}
	return fallback
}

// command executes one named action. The action names are the stable wire
// contract; clients and the REPL dispatcher both speak them.
func (s *Service) command(c echo.Context) error {
	var req commandRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()

	msg, err := s.runCommand(ctx, req)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": errMessage(err)})
	}
	if msg == "" {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "Unknown action: " + req.Action})
	}
	if req.Action == "get_time" {
		now := time.Now()
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"time":    now.Format("3:04 PM"),
			"date":    now.Format("Monday, January 2, 2006"),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": msg})
}

func (s *Service) runCommand(ctx context.Context, req commandRequest) (string, error) {
	exec := s.Executor
	switch req.Action {
	case "open_app":
		return exec.OpenApp(ctx, req.str("name"))
	case "open_website":
		return exec.OpenURL(ctx, s.Index.ResolveURL(req.str("url")))
	case "play_youtube":
		q := req.str("query")
		_, err := exec.OpenURL(ctx, "https://www.youtube.com/results?search_query="+url.QueryEscape(q))
		if err != nil {
			return "", err
		}
		return "✅ Playing '" + q + "' on YouTube...", nil
	case "search_google":
		return s.search(ctx, intent.EngineGoogle, req.str("query"))
	case "search_wikipedia":
		return s.search(ctx, intent.EngineWikipedia, req.str("query"))
	case "search_edge":
		return s.search(ctx, intent.EngineEdge, req.str("query"))
	case "search_chrome":
		return s.search(ctx, intent.EngineChrome, req.str("query"))
	case "open_chatgpt":
		return exec.OpenURL(ctx, "https://chatgpt.com/?q="+url.QueryEscape(req.str("prompt")))
	case "open_claude":
		return exec.OpenURL(ctx, "https://claude.ai")
	case "screenshot":
		return exec.Screenshot(ctx)
	case "start_recording":
		return exec.StartRecording(ctx)
	case "stop_recording":
		return exec.StopRecording()
	case "recording_status":
		if exec.RecordingActive() {
			return "🔴 Recording in progress", nil
		}
		return "⏹️ Not recording", nil
	case "shutdown":
		return exec.Power(ctx, "shutdown", req.num("delay", 5))
	case "restart":
		return exec.Power(ctx, "restart", req.num("delay", 5))
	case "sleep":
		return exec.Power(ctx, "sleep", 0)
	case "cancel_shutdown":
		return exec.Power(ctx, "cancel", 0)
	case "lock_screen":
		return exec.Lock(ctx)
	case "clear_history":
		s.Assistant.Clear()
		return "✅ History cleared!", nil
	case "get_time":
		return "time", nil // payload is built by the handler
	}
	return "", nil
}

func (s *Service) search(ctx context.Context, engine intent.Engine, query string) (string, error) {
	return s.Executor.Search(ctx, string(engine), query, engine.SearchURL(query))
}
