package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.GeminiModel != "gemini-2.5-flash-lite" {
		t.Errorf("Unexpected default model: %q", cfg.GeminiModel)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("Expected 30s timeout, got %d", cfg.TimeoutSeconds)
	}
	if cfg.HistoryWindow != 6 {
		t.Errorf("Expected history window 6, got %d", cfg.HistoryWindow)
	}
	if cfg.WorkspaceDir == "" || cfg.DBPath == "" || cfg.TracePath == "" {
		t.Error("Expected non-empty default paths")
	}
	if cfg.AppAliases["vscode"] != "code" {
		t.Errorf("Expected vscode alias 'code', got %q", cfg.AppAliases["vscode"])
	}
	if len(cfg.Formats) == 0 {
		t.Error("Expected default supported formats")
	}
}

func TestLoadCreatesDefault(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.GeminiModel != Default().GeminiModel {
		t.Errorf("Expected default model, got %q", cfg.GeminiModel)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected config file to be created: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.WorkspaceDir = "/tmp/custom-workspace"
	cfg.TimeoutSeconds = 10
	cfg.AppAliases = map[string]string{"editor": "vim"}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.WorkspaceDir != "/tmp/custom-workspace" {
		t.Errorf("Expected custom workspace, got %q", loaded.WorkspaceDir)
	}
	if loaded.TimeoutSeconds != 10 {
		t.Errorf("Expected timeout 10, got %d", loaded.TimeoutSeconds)
	}
	if loaded.AppAliases["editor"] != "vim" {
		t.Errorf("Expected editor alias 'vim', got %q", loaded.AppAliases["editor"])
	}
}

func TestLoadEnvOverridesAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.GeminiAPIKey = "file-key"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("GOOGLE_API_KEY", "env-key")
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.GeminiAPIKey != "env-key" {
		t.Errorf("Expected env key to win, got %q", loaded.GeminiAPIKey)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{not valid: yaml: ["), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}
