package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	WorkspaceDir   string            `yaml:"workspace_dir"`
	DBPath         string            `yaml:"db_path"`
	TracePath      string            `yaml:"trace_path"`
	GeminiAPIKey   string            `yaml:"gemini_api_key,omitempty"`
	GeminiModel    string            `yaml:"gemini_model"`
	TimeoutSeconds int               `yaml:"generative_timeout_seconds"`
	HistoryWindow  int               `yaml:"history_window"`
	Formats        []string          `yaml:"supported_formats"`
	AppAliases     map[string]string `yaml:"app_aliases"`
}

// Default returns the default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	base := filepath.Join(homeDir, ".jarvis")
	return &Config{
		WorkspaceDir:   filepath.Join(homeDir, "JARVIS_Workspace"),
		DBPath:         filepath.Join(base, "jarvis.db"),
		TracePath:      filepath.Join(base, "analysis_trace.jsonl"),
		GeminiAPIKey:   "",
		GeminiModel:    "gemini-2.5-flash-lite",
		TimeoutSeconds: 30,
		HistoryWindow:  6,
		Formats:        []string{"docx", "xlsx", "pdf", "txt", "py", "json", "html", "md", "csv"},
		AppAliases: map[string]string{
			"visual studio code": "code",
			"vscode":             "code",
			"vs code":            "code",
			"word":               "winword",
			"excel":              "excel",
			"notepad":            "notepad",
			"calculator":         "calc",
			"chrome":             "chrome",
			"firefox":            "firefox",
			"browser":            "chrome",
		},
	}
}

// Load reads configuration from file, creating it with defaults if it
// doesn't exist. The GOOGLE_API_KEY environment variable overrides the
// file's API key so the key never has to live on disk.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := cfg.Save(path); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		cfg.GeminiAPIKey = key
	}

	return cfg, nil
}

// Save writes the configuration to file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default config file path.
func GetConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".jarvis", "config.yaml")
}
