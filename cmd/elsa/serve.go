package main

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/elsahq/elsa/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the backend HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := loadProfile()
		if err != nil {
			return err
		}
		if !p.HasProvider() {
			slog.Warn("no AI provider keys configured, chat will be unavailable",
				"hint", "set ELSA_ANTHROPIC_API_KEY, ELSA_OPENAI_API_KEY or ELSA_GEMINI_API_KEY")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.New(p, slog.Default()).Start(ctx)
	},
}
