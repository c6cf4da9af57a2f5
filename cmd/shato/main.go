// Command shato runs the SHATO orchestrator: the HTTP service that
// turns natural-language utterances into validated robot commands.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shatolabs/shato/internal/config"
	"github.com/shatolabs/shato/internal/log"
	"github.com/shatolabs/shato/pkg/command"
	"github.com/shatolabs/shato/pkg/extract"
	"github.com/shatolabs/shato/pkg/llm"
	"github.com/shatolabs/shato/pkg/orchestrator"
	"github.com/shatolabs/shato/pkg/tts"
	"github.com/shatolabs/shato/pkg/validate"
	"github.com/shatolabs/shato/pkg/web"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	port := flag.String("port", "", "Listen port (overrides config)")
	llmURL := flag.String("llm-url", "", "Language-model service URL (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.ListenPort = *port
	}
	if *llmURL != "" {
		cfg.LLMServiceURL = *llmURL
	}
	if *debug {
		cfg.LogLevel = "debug"
	}

	log.Init(cfg.LogLevel)
	log.Info("starting shato orchestrator",
		"port", cfg.ListenPort,
		"llm_service", cfg.LLMServiceURL,
		"max_attempts", cfg.MaxAttempts,
		"tts_enabled", cfg.EnableTTS)

	model, err := llm.NewClient(
		llm.WithBaseURL(cfg.LLMServiceURL),
		llm.WithTimeout(cfg.LLMTimeout),
		llm.WithLogger(log.L()),
	)
	if err != nil {
		log.Error("llm client setup failed", "error", err)
		os.Exit(1)
	}
	defer model.Close()

	schema := command.NewSchema(command.Bounds{
		XMin: cfg.Workspace.XMin, XMax: cfg.Workspace.XMax,
		YMin: cfg.Workspace.YMin, YMax: cfg.Workspace.YMax,
	}, cfg.PatrolRoutes)

	loop := extract.NewLoop(model, validate.New(schema),
		extract.WithMaxAttempts(cfg.MaxAttempts),
		extract.WithLogger(log.L()),
	)

	opts := []orchestrator.Option{
		orchestrator.WithLogger(log.L()),
	}
	if cfg.EnableTTS {
		speech, err := tts.NewClient(
			tts.WithBaseURL(cfg.TTSServiceURL),
			tts.WithLogger(log.L()),
		)
		if err != nil {
			log.Error("tts client setup failed", "error", err)
			os.Exit(1)
		}
		defer speech.Close()
		opts = append(opts, orchestrator.WithTTS(speech))
	}

	// The server is also the activity-feed sink; indirect through a
	// closure since it is constructed after the orchestrator.
	var server *web.Server
	opts = append(opts, orchestrator.WithEventObserver(func(ev orchestrator.Event) {
		if server != nil {
			server.PublishEvent(ev)
		}
	}))

	orch := orchestrator.New(loop, opts...)
	server = web.NewServer(cfg.ListenPort, orch, schema)

	// Graceful shutdown on SIGINT/SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down")
		server.Shutdown()
	}()

	if err := server.Start(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
