// Package config provides configuration for the shato command pipeline.
// Settings come from an optional YAML file, overridden by environment
// variables, overridden by flags in the commands.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for the pipeline services.
const (
	DefaultLLMServiceURL = "http://llm-service:8002"
	DefaultTTSServiceURL = "http://tts-service:8003"
	DefaultSTTServiceURL = "http://stt-service:8004"
	DefaultListenPort    = "8001"
	DefaultMaxAttempts   = 2
	DefaultLLMTimeout    = 120 * time.Second
)

// Workspace is the bounded coordinate range move_to targets must fall in.
type Workspace struct {
	XMin float64 `yaml:"x_min"`
	XMax float64 `yaml:"x_max"`
	YMin float64 `yaml:"y_min"`
	YMax float64 `yaml:"y_max"`
}

// Config holds process-level configuration.
type Config struct {
	LLMServiceURL string `yaml:"llm_service_url"`
	TTSServiceURL string `yaml:"tts_service_url"`
	STTServiceURL string `yaml:"stt_service_url"`

	ListenPort string `yaml:"listen_port"`
	LogLevel   string `yaml:"log_level"`

	// MaxAttempts is the total extraction attempts per request,
	// including the first one.
	MaxAttempts int           `yaml:"max_attempts"`
	LLMTimeout  time.Duration `yaml:"llm_timeout"`

	Workspace Workspace `yaml:"workspace"`

	// PatrolRoutes are the route ids the robot knows. Utterances may
	// still name free-text routes; these just mark known ones.
	PatrolRoutes []string `yaml:"patrol_routes"`

	// EnableTTS synthesizes spoken replies when true.
	EnableTTS bool `yaml:"enable_tts"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LLMServiceURL: DefaultLLMServiceURL,
		TTSServiceURL: DefaultTTSServiceURL,
		STTServiceURL: DefaultSTTServiceURL,
		ListenPort:    DefaultListenPort,
		LogLevel:      "info",
		MaxAttempts:   DefaultMaxAttempts,
		LLMTimeout:    DefaultLLMTimeout,
		Workspace:     Workspace{XMin: -100, XMax: 100, YMin: -100, YMax: 100},
		PatrolRoutes:  []string{"first_floor", "bedrooms", "second_floor"},
		EnableTTS:     false,
	}
}

// Load reads configuration from the given YAML file (if path is non-empty)
// and applies environment overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.LLMServiceURL = envOr("LLM_SERVICE_URL", c.LLMServiceURL)
	c.TTSServiceURL = envOr("TTS_SERVICE_URL", c.TTSServiceURL)
	c.STTServiceURL = envOr("STT_SERVICE_URL", c.STTServiceURL)
	c.ListenPort = envOr("SHATO_PORT", c.ListenPort)
	c.LogLevel = envOr("SHATO_LOG_LEVEL", c.LogLevel)

	if v := os.Getenv("SHATO_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxAttempts = n
		}
	}
	if v := os.Getenv("SHATO_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.LLMTimeout = d
		}
	}
	if v := os.Getenv("SHATO_ENABLE_TTS"); v != "" {
		c.EnableTTS = v == "1" || v == "true"
	}
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("config: max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("config: llm_timeout must be positive, got %s", c.LLMTimeout)
	}
	if c.Workspace.XMin >= c.Workspace.XMax {
		return fmt.Errorf("config: workspace x range [%g, %g] is empty", c.Workspace.XMin, c.Workspace.XMax)
	}
	if c.Workspace.YMin >= c.Workspace.YMax {
		return fmt.Errorf("config: workspace y range [%g, %g] is empty", c.Workspace.YMin, c.Workspace.YMax)
	}
	return nil
}

// envOr returns the environment variable value or the fallback.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
