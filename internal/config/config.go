// Package config provides configuration management for planr-service.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the service configuration.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Logging LoggingConfig `yaml:"logging"`
	LLM     LLMConfig     `yaml:"llm"`
	History HistoryConfig `yaml:"history"`
}

// ServiceConfig contains service-level settings.
type ServiceConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	DataDir string `yaml:"data_dir"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `yaml:"level"`
	Format     string   `yaml:"format"` // "json" or "text"
	Output     []string `yaml:"output"` // "stdout", "file", "both"
	TimeFormat string   `yaml:"time_format"`
	MaxSizeMB  int      `yaml:"max_size_mb"`
	MaxBackups int      `yaml:"max_backups"`
}

// LLMConfig contains language model settings.
type LLMConfig struct {
	// Provider selects the backend: "ollama" or "gemini".
	Provider string `yaml:"provider"`

	// Model is the model identifier passed to the provider.
	Model string `yaml:"model"`

	// OllamaURL is the base URL of the local Ollama instance.
	OllamaURL string `yaml:"ollama_url"`

	// GeminiAPIKey enables the Gemini backend when set.
	GeminiAPIKey string `yaml:"gemini_api_key"`

	// AnthropicAPIKey enables the Claude backend when set.
	AnthropicAPIKey string `yaml:"anthropic_api_key"`

	// Temperature controls generation randomness.
	Temperature float64 `yaml:"temperature"`

	// MaxTokens bounds the completion length.
	MaxTokens int `yaml:"max_tokens"`
}

// HistoryConfig contains plan history settings.
type HistoryConfig struct {
	// Limit caps the number of retained history items.
	Limit int `yaml:"limit"`

	// Similarity enables the vector index over past goals.
	Similarity bool `yaml:"similarity"`

	// EmbedModel is the Ollama embedding model for the similarity index.
	EmbedModel string `yaml:"embed_model"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Host:    "127.0.0.1",
			Port:    8520,
			DataDir: DefaultDataDir(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout"},
		},
		LLM: LLMConfig{
			Provider:        "ollama",
			Model:           "llama3:latest",
			OllamaURL:       "http://localhost:11434",
			GeminiAPIKey:    os.Getenv("GOOGLE_GEMINI_API_KEY"),
			AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
			Temperature:     0.3,
			MaxTokens:       2000,
		},
		History: HistoryConfig{
			Limit:      10,
			Similarity: false,
			EmbedModel: "nomic-embed-text",
		},
	}
}

// DefaultDataDir returns the default data directory based on OS.
func DefaultDataDir() string {
	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "planr-service")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "AppData", "Roaming", "planr-service")
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "planr-service")
	default: // linux and others
		// Check XDG_DATA_HOME first
		xdgData := os.Getenv("XDG_DATA_HOME")
		if xdgData != "" {
			return filepath.Join(xdgData, "planr-service")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".planr-service")
	}
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if no config file exists
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand environment variables in the config
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	// Expand tilde in data_dir
	if strings.HasPrefix(cfg.Service.DataDir, "~/") {
		home, _ := os.UserHomeDir()
		cfg.Service.DataDir = filepath.Join(home, cfg.Service.DataDir[2:])
	}

	return cfg, nil
}

// Save saves the configuration to a file.
func (c *Config) Save(path string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Address returns the full address string for the HTTP server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Service.Host, c.Service.Port)
}

// HistoryDir returns the path to the plan history directory.
func (c *Config) HistoryDir() string {
	return filepath.Join(c.Service.DataDir, "history")
}

// PromptsPath returns the path to the optional prompt override file.
func (c *Config) PromptsPath() string {
	return filepath.Join(c.Service.DataDir, "prompts.toml")
}

// LogPath returns the path to the service log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Service.DataDir, "logs", "service.log")
}

// PIDPath returns the path to the daemon PID file.
func (c *Config) PIDPath() string {
	return filepath.Join(c.Service.DataDir, "planr-service.pid")
}

// EnsureDirectories creates all necessary directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Service.DataDir,
		c.HistoryDir(),
		filepath.Dir(c.LogPath()),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
