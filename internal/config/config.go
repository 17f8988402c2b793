// Package config provides unified configuration loading for the document
// parser. Supports YAML files, environment variables, and programmatic
// overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the document parser service.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Converter     ConverterConfig     `yaml:"converter"`
	Vision        VisionConfig        `yaml:"vision"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

// ConverterConfig holds settings for the PDF and Office converter stack.
type ConverterConfig struct {
	LibreOfficeBin string `yaml:"libreoffice_bin"`
	PDFImagesBin   string `yaml:"pdfimages_bin"`
}

// VisionConfig holds settings for the vision captioning endpoint.
type VisionConfig struct {
	BaseURL        string        `yaml:"base_url"`
	APIKey         string        `yaml:"api_key"`
	Model          string        `yaml:"model"`
	TaskPrompt     string        `yaml:"task_prompt"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file and applies environment
// overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for
// development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8001,
			ReadTimeout:      60 * time.Second,
			WriteTimeout:     5 * time.Minute,
			IdleTimeout:      120 * time.Second,
			RequestTimeout:   5 * time.Minute,
			GracefulShutdown: 10 * time.Second,
		},
		Converter: ConverterConfig{
			LibreOfficeBin: "libreoffice",
			PDFImagesBin:   "pdfimages",
		},
		Vision: VisionConfig{
			BaseURL:        "https://openrouter.ai/api/v1/chat/completions",
			Model:          "x-ai/grok-4.1-fast:free",
			TaskPrompt:     "<MORE_DETAILED_CAPTION>",
			RequestTimeout: 2 * time.Minute,
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			ServiceName: "document-parser",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Vision.BaseURL == "" {
		return fmt.Errorf("vision base_url must not be empty")
	}

	if c.Vision.Model == "" {
		return fmt.Errorf("vision model must not be empty")
	}

	if c.Converter.LibreOfficeBin == "" {
		return fmt.Errorf("converter libreoffice_bin must not be empty")
	}

	if c.Converter.PDFImagesBin == "" {
		return fmt.Errorf("converter pdfimages_bin must not be empty")
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("SERVER_PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		cfg.Vision.APIKey = v
	}

	if v := os.Getenv("VISION_BASE_URL"); v != "" {
		cfg.Vision.BaseURL = v
	}

	if v := os.Getenv("VISION_MODEL"); v != "" {
		cfg.Vision.Model = v
	}

	if v := os.Getenv("VISION_TASK_PROMPT"); v != "" {
		cfg.Vision.TaskPrompt = v
	}

	if v := os.Getenv("LIBREOFFICE_BIN"); v != "" {
		cfg.Converter.LibreOfficeBin = v
	}

	if v := os.Getenv("PDFIMAGES_BIN"); v != "" {
		cfg.Converter.PDFImagesBin = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
