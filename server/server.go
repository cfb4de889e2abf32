// Package server assembles the backend HTTP server.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/elsahq/elsa/internal/profile"
	"github.com/elsahq/elsa/server/ai"
	elsamw "github.com/elsahq/elsa/server/middleware"
	"github.com/elsahq/elsa/server/router/api"
	"github.com/elsahq/elsa/server/system"
)

// Server is the backend HTTP server.
type Server struct {
	echo    *echo.Echo
	profile *profile.Profile
}

// New assembles the echo instance, the assistant and the executor.
func New(p *profile.Profile, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(elsamw.NewClientLimiter(20, 40).Middleware())

	cfg := ai.DefaultConfigs(p.AnthropicAPIKey, p.OpenAIAPIKey, p.GeminiAPIKey)
	cfg.RatePerSec = p.ChatRatePerSec
	cfg.RateBurst = p.ChatRateBurst
	assistant := ai.NewAssistant(cfg)

	executor := system.NewExecutor(system.Options{Logger: logger})

	svc := api.NewService(p, assistant, executor, logger)
	svc.Register(e)

	return &Server{echo: e, profile: p}
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(s.profile.ServeAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	slog.Info("backend listening",
		"addr", s.profile.ServeAddr(),
		"mode", s.profile.Mode,
		"version", s.profile.Version)

	select {
	case err := <-errCh:
		return errors.Wrap(err, "backend server failed")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "backend shutdown failed")
	}
	slog.Info("backend stopped")
	return nil
}
