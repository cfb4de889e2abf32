// Package api exposes the backend HTTP surface: health, chat, command
// execution, capture, image generation and system inspection.
package api

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/elsahq/elsa/internal/profile"
	"github.com/elsahq/elsa/plugin/intent"
	"github.com/elsahq/elsa/server/ai"
	apperrors "github.com/elsahq/elsa/internal/errors"
	"github.com/elsahq/elsa/internal/observability"
	"github.com/elsahq/elsa/server/system"
)

// Service binds the route handlers to their collaborators.
type Service struct {
	Profile   *profile.Profile
	Assistant *ai.Assistant
	Executor  *system.Executor
	Index     *intent.CategoryIndex

	logger *slog.Logger
}

// NewService wires the API service.
func NewService(p *profile.Profile, assistant *ai.Assistant, executor *system.Executor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Profile:   p,
		Assistant: assistant,
		Executor:  executor,
		Index:     intent.NewCategoryIndex(),
		logger:    logger,
	}
}

// Register mounts all routes on the echo instance.
func (s *Service) Register(e *echo.Echo) {
	e.GET("/", s.home)

	g := e.Group("/api", s.requestLogger)
	g.GET("/health", s.health)
	g.POST("/chat", s.chat)
	g.POST("/command", s.command)
	g.GET("/screenshot", s.screenshot)
	g.POST("/screenshot", s.screenshot)
	g.POST("/image/generate", s.generateImage)
	g.GET("/system/info", s.systemInfo)
	g.GET("/system/apps", s.runningApps)
	g.POST("/system/open-app", s.openApp)
	g.POST("/clear", s.clear)
}

// requestLogger attaches a request-scoped logging context and logs each call.
func (s *Service) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqCtx := observability.NewRequestContext(s.logger, c.Request().Method+" "+c.Path())
		c.SetRequest(c.Request().WithContext(
			observability.WithRequestContext(c.Request().Context(), reqCtx)))

		err := next(c)

		if err != nil {
			reqCtx.Error("request failed", err,
				slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
		} else {
			reqCtx.Debug("request served",
				slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
		}
		return err
	}
}

func (s *Service) home(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"name":    "ELSA 4.0",
		"status":  "ok",
		"os":      s.Executor.SystemInfo(c.Request().Context()).OS,
		"version": s.Profile.Version,
		"models":  s.Assistant.Available(),
	})
}

// health reports liveness. The providers field is a name->configured map;
// clients probe it to decide which model selectors to offer.
func (s *Service) health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "healthy",
		"os":        s.Executor.SystemInfo(c.Request().Context()).OS,
		"version":   s.Profile.Version,
		"providers": s.Assistant.Configured(),
	})
}

func (s *Service) chat(c echo.Context) error {
	var req struct {
		Message string `json:"message"`
		Model   string `json:"model"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Empty message"})
	}

	reply, label, err := s.Assistant.Chat(c.Request().Context(), req.Message, req.Model)
	if err != nil {
		return c.JSON(statusForError(err), echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"response": reply,
		"model":    label,
	})
}

func (s *Service) screenshot(c echo.Context) error {
	msg, err := s.Executor.Screenshot(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": errMessage(err)})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": msg})
}

func (s *Service) generateImage(c echo.Context) error {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := c.Bind(&req); err != nil || req.Prompt == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Empty prompt"})
	}
	url, err := s.Assistant.GenerateImage(c.Request().Context(), req.Prompt)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": errMessage(err)})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "image_url": url, "message": "✅ Image generated!"})
}

func (s *Service) systemInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"info":    s.Executor.SystemInfo(c.Request().Context()),
	})
}

func (s *Service) runningApps(c echo.Context) error {
	procs, err := s.Executor.RunningApps(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": errMessage(err)})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "processes": procs})
}

func (s *Service) openApp(c echo.Context) error {
	var req struct {
		AppName string `json:"app_name"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	msg, err := s.Executor.OpenApp(c.Request().Context(), req.AppName)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": errMessage(err)})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": msg})
}

func (s *Service) clear(c echo.Context) error {
	s.Assistant.Clear()
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "✅ History cleared!"})
}

// errMessage prefers the structured message over the full wrapped chain so
// clients get a displayable string.
func errMessage(err error) string {
	if aerr, ok := err.(*apperrors.AssistantError); ok {
		return "❌ " + aerr.Message
	}
	return "❌ " + err.Error()
}

func statusForError(err error) int {
	switch apperrors.GetCodeFromError(err, apperrors.ErrCodeActionFailed) {
	case apperrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case apperrors.ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case apperrors.ErrCodeLLMUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
