package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/elsahq/elsa/internal/profile"
	"github.com/elsahq/elsa/plugin/dispatch"
	"github.com/elsahq/elsa/plugin/intent"
	"github.com/elsahq/elsa/plugin/speech"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Talk to the assistant from the terminal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := loadProfile()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runREPL(ctx, p, os.Stdin, os.Stdout)
	},
}

// lineRecognizer captures one "utterance" per line of input. It stands in
// for a speech engine so the capture-session guard applies to typed input
// the same way it would to a microphone.
type lineRecognizer struct {
	in  *bufio.Reader
	out io.Writer
}

func (r *lineRecognizer) Listen(ctx context.Context) (string, error) {
	fmt.Fprint(r.out, "You: ")

	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := r.in.ReadString('\n')
		ch <- result{line, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		return strings.TrimRight(res.line, "\r\n"), res.err
	}
}

func runREPL(ctx context.Context, p *profile.Profile, in io.Reader, out io.Writer) error {
	matcher := intent.NewMatcher()
	client := dispatch.NewClient(p.BackendURL, 0)
	dispatcher := dispatch.NewDispatcher(client, matcher.Index(), dispatch.Options{})
	session := speech.NewSession(&lineRecognizer{in: bufio.NewReader(in), out: out}, nil)

	var speaker speech.Speaker = speech.NopSpeaker{}
	if p.VoiceReply {
		speaker = speech.WriterSpeaker{W: out}
	}

	settings := intent.DefaultSettings()
	settings.SetEngine(intent.Engine(p.Engine))
	settings.Model = p.Model

	fmt.Fprintln(out, "ELSA 4.0 — Ultra Advanced AI Assistant")
	if client.Online(ctx) {
		fmt.Fprintln(out, "✅ Backend connected:", p.BackendURL)
	} else {
		fmt.Fprintln(out, "⚠️ Backend offline — desktop actions fall back to the browser. Run: elsa serve")
	}
	fmt.Fprintln(out, "Type /help for commands, /quit to exit.")
	fmt.Fprintln(out)

	for {
		line, _, err := session.Listen(ctx)
		if err != nil {
			if err == io.EOF || ctx.Err() != nil {
				fmt.Fprintln(out, "\nGoodbye! 👋")
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := replControl(out, line, &settings); quit {
				fmt.Fprintln(out, "Goodbye! 👋")
				return nil
			}
			continue
		}

		result := matcher.Route(intent.NewUtterance(line), settings)
		outcome := dispatcher.Dispatch(ctx, result)
		if outcome.IsZero() {
			continue
		}
		fmt.Fprintln(out, "ELSA:", outcome.Message)
		_ = speaker.Speak(ctx, outcome.Speech)
	}
}

// replControl handles slash commands. Returns true when the REPL should exit.
func replControl(out io.Writer, line string, settings *intent.Settings) bool {
	cmd, arg, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "quit", "exit":
		return true
	case "mode":
		if settings.Toggle() == intent.AIMode {
			fmt.Fprintln(out, "🧠 AI Mode — unmatched questions go to the chat model.")
		} else {
			fmt.Fprintf(out, "🔍 Normal Mode — unmatched questions search %s.\n", settings.Engine)
		}
	case "engine":
		if arg == "" {
			fmt.Fprintf(out, "Current engine: %s. Available: %s\n", settings.Engine, engineList())
		} else if settings.SetEngine(intent.Engine(strings.ToLower(arg))) {
			fmt.Fprintf(out, "✅ Search engine set to %s\n", settings.Engine)
		} else {
			fmt.Fprintf(out, "Unknown engine %q. Available: %s\n", arg, engineList())
		}
	case "model":
		if arg == "" {
			fmt.Fprintf(out, "Current model: %s\n", settings.Model)
		} else {
			settings.Model = strings.ToLower(arg)
			fmt.Fprintf(out, "✅ Chat model set to %s\n", settings.Model)
		}
	case "help":
		fmt.Fprintln(out, `Commands:
  /mode            toggle AI Mode / Normal Mode
  /engine [name]   show or set the Normal-Mode search engine
  /model [name]    show or set the chat model (auto, claude, gpt, gemini)
  /quit            exit`)
	default:
		fmt.Fprintf(out, "Unknown command /%s — try /help\n", cmd)
	}
	return false
}

func engineList() string {
	names := make([]string, len(intent.Engines))
	for i, e := range intent.Engines {
		names[i] = string(e)
	}
	return strings.Join(names, ", ")
}
