// Command shato-chat is a terminal REPL against the command pipeline.
// It talks to the language-model service directly (no HTTP layer) and
// prints the validated command for each utterance. Typing "listen"
// captures one spoken utterance through the speech-to-text service
// instead of the keyboard.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/shatolabs/shato/internal/config"
	"github.com/shatolabs/shato/internal/log"
	"github.com/shatolabs/shato/pkg/command"
	"github.com/shatolabs/shato/pkg/extract"
	"github.com/shatolabs/shato/pkg/llm"
	"github.com/shatolabs/shato/pkg/orchestrator"
	"github.com/shatolabs/shato/pkg/stt"
	"github.com/shatolabs/shato/pkg/validate"
)

// listenOnce captures one spoken utterance: it starts a recording
// session, waits for wait to return, then stops the session and
// returns the transcription.
func listenOnce(ctx context.Context, voice stt.Transcriber, wait func()) (string, error) {
	if err := voice.Start(ctx); err != nil {
		return "", err
	}
	wait()
	return voice.Stop(ctx)
}

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	llmURL := flag.String("llm-url", "", "Language-model service URL (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *llmURL != "" {
		cfg.LLMServiceURL = *llmURL
	}

	log.Init("warn")

	model, err := llm.NewClient(
		llm.WithBaseURL(cfg.LLMServiceURL),
		llm.WithTimeout(cfg.LLMTimeout),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer model.Close()

	schema := command.NewSchema(command.Bounds{
		XMin: cfg.Workspace.XMin, XMax: cfg.Workspace.XMax,
		YMin: cfg.Workspace.YMin, YMax: cfg.Workspace.YMax,
	}, cfg.PatrolRoutes)

	loop := extract.NewLoop(model, validate.New(schema),
		extract.WithMaxAttempts(cfg.MaxAttempts))
	orch := orchestrator.New(loop)

	voice, err := stt.NewClient(cfg.STTServiceURL, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("SHATO command console. Type an instruction, 'listen' to speak, or 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		if line == "listen" {
			fmt.Println("recording... press Enter to stop")
			text, err := listenOnce(context.Background(), voice, func() { scanner.Scan() })
			if err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			if text == "" {
				fmt.Println("(heard nothing)")
				continue
			}
			fmt.Printf("heard: %s\n", text)
			line = text
		}

		result, err := orch.Process(context.Background(), line)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}

		fmt.Println(result.Response)
		if result.Command != "" {
			fmt.Printf("  -> %s %v\n", result.Command, result.CommandParams)
		}
		if result.Exhausted {
			fmt.Println("  (no valid command after retries)")
		}
	}
}
