package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/elsahq/elsa/internal/profile"
)

var rootCmd = &cobra.Command{
	Use:   "elsa",
	Short: "ELSA - voice assistant backend and REPL",
	Long: `ELSA 4.0 is an AI voice assistant. It routes spoken commands through a
rule cascade (open apps, play videos, search, power control) and sends
everything else to a chat model.

Commands:
  serve   run the backend HTTP server
  repl    talk to the assistant from the terminal`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("mode", "", "run mode: dev, prod or demo")
	pf.String("addr", "", "backend bind address")
	pf.Int("port", 0, "backend bind port")
	pf.String("backend-url", "", "backend base URL the REPL dispatches against")
	pf.String("engine", "", "default Normal-Mode search engine")
	pf.String("model", "", "default chat model: auto, claude, gpt or gemini")
	pf.Bool("voice", false, "voice replies in the REPL")
	pf.Bool("debug", false, "debug logging")

	viper.SetEnvPrefix("elsa")
	viper.AutomaticEnv()
	for _, name := range []string{"mode", "addr", "port", "backend-url", "engine", "model", "voice", "debug"} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}

	rootCmd.Version = Version
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(replCmd)
}

// loadProfile merges flags, ELSA_* environment variables and defaults into a
// validated profile. Flag values win over the environment.
func loadProfile() (*profile.Profile, error) {
	p := &profile.Profile{
		Mode:       viper.GetString("mode"),
		Addr:       viper.GetString("addr"),
		Port:       viper.GetInt("port"),
		Version:    Version,
		BackendURL: viper.GetString("backend-url"),
		Engine:     viper.GetString("engine"),
		Model:      viper.GetString("model"),
		VoiceReply: viper.GetBool("voice"),
	}
	p.FromEnv()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if viper.GetBool("debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return p, nil
}
