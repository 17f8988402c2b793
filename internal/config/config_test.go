package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8001, cfg.Server.Port)
	assert.Equal(t, "libreoffice", cfg.Converter.LibreOfficeBin)
	assert.Equal(t, "pdfimages", cfg.Converter.PDFImagesBin)
	assert.Equal(t, "https://openrouter.ai/api/v1/chat/completions", cfg.Vision.BaseURL)
	assert.Equal(t, "<MORE_DETAILED_CAPTION>", cfg.Vision.TaskPrompt)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.Equal(t, "json", cfg.Observability.LogFormat)
}

func TestLoadYAMLFile(t *testing.T) {
	content := `
server:
  port: 9090
  request_timeout: 30s
vision:
  model: some-org/some-model
  task_prompt: "<OCR>"
converter:
  libreoffice_bin: /opt/libreoffice/program/soffice
observability:
  log_level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "some-org/some-model", cfg.Vision.Model)
	assert.Equal(t, "<OCR>", cfg.Vision.TaskPrompt)
	assert.Equal(t, "/opt/libreoffice/program/soffice", cfg.Converter.LibreOfficeBin)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)

	// Fields absent from the file keep their defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "pdfimages", cfg.Converter.PDFImagesBin)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("VISION_BASE_URL", "http://localhost:1234/v1/chat/completions")
	t.Setenv("VISION_MODEL", "local/model")
	t.Setenv("VISION_TASK_PROMPT", "<CAPTION>")
	t.Setenv("LIBREOFFICE_BIN", "/usr/bin/soffice")
	t.Setenv("PDFIMAGES_BIN", "/usr/bin/pdfimages")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sk-test", cfg.Vision.APIKey)
	assert.Equal(t, "http://localhost:1234/v1/chat/completions", cfg.Vision.BaseURL)
	assert.Equal(t, "local/model", cfg.Vision.Model)
	assert.Equal(t, "<CAPTION>", cfg.Vision.TaskPrompt)
	assert.Equal(t, "/usr/bin/soffice", cfg.Converter.LibreOfficeBin)
	assert.Equal(t, "/usr/bin/pdfimages", cfg.Converter.PDFImagesBin)
	assert.Equal(t, "warn", cfg.Observability.LogLevel)
	assert.Equal(t, "console", cfg.Observability.LogFormat)
}

func TestEnvOverridesBeatFile(t *testing.T) {
	content := "server:\n  port: 9090\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("SERVER_PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestEnvOverrideBadPortIgnored(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8001, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"empty base url", func(c *Config) { c.Vision.BaseURL = "" }, "base_url"},
		{"empty model", func(c *Config) { c.Vision.Model = "" }, "model"},
		{"empty libreoffice bin", func(c *Config) { c.Converter.LibreOfficeBin = "" }, "libreoffice_bin"},
		{"empty pdfimages bin", func(c *Config) { c.Converter.PDFImagesBin = "" }, "pdfimages_bin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
