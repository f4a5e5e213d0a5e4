// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Backend.BaseURL != "http://127.0.0.1:8780" {
		t.Errorf("unexpected default base URL: %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.ChatTimeoutSecs != 90 {
		t.Errorf("expected 90s chat timeout, got %d", cfg.Backend.ChatTimeoutSecs)
	}
	if cfg.Backend.ToolTimeoutSecs != 60 {
		t.Errorf("expected 60s tool timeout, got %d", cfg.Backend.ToolTimeoutSecs)
	}
	if cfg.DefaultModel == "" {
		t.Error("default model should not be empty")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromPath_TOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `default_model = "studio-chat-large"

[backend]
base_url = "http://backend.internal:9000"
chat_timeout_secs = 30

[ui]
theme = "light"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}

	if cfg.DefaultModel != "studio-chat-large" {
		t.Errorf("DefaultModel = %q", cfg.DefaultModel)
	}
	if cfg.Backend.BaseURL != "http://backend.internal:9000" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.ChatTimeoutSecs != 30 {
		t.Errorf("ChatTimeoutSecs = %d", cfg.Backend.ChatTimeoutSecs)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}

	// Fields absent from the file fall back to defaults.
	if cfg.Backend.ToolTimeoutSecs != 60 {
		t.Errorf("ToolTimeoutSecs should default to 60, got %d", cfg.Backend.ToolTimeoutSecs)
	}
	if cfg.UI.SyntaxTheme != "monokai" {
		t.Errorf("SyntaxTheme should default to monokai, got %q", cfg.UI.SyntaxTheme)
	}
}

func TestLoadFromPath_JSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := Default()
	cfg.Backend.BaseURL = "https://api.brightfold.example"
	cfg.Storage.MaxThreads = 25

	if err := SaveJSON(cfg, path); err != nil {
		t.Fatalf("SaveJSON() error = %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if loaded.Backend.BaseURL != cfg.Backend.BaseURL {
		t.Errorf("BaseURL = %q, want %q", loaded.Backend.BaseURL, cfg.Backend.BaseURL)
	}
	if loaded.Storage.MaxThreads != 25 {
		t.Errorf("MaxThreads = %d, want 25", loaded.Storage.MaxThreads)
	}

	// Config files must be owner-only.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file permissions = %o, want 0600", perm)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad scheme", func(c *Config) { c.Backend.BaseURL = "ftp://example.com" }},
		{"negative chat timeout", func(c *Config) { c.Backend.ChatTimeoutSecs = -1 }},
		{"negative rate", func(c *Config) { c.Backend.RequestsPerSecond = -2 }},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }},
		{"max threads out of range", func(c *Config) { c.Storage.MaxThreads = 99999 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should have failed")
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("STUDIO_BACKEND_URL", "http://other:8888")
	t.Setenv("STUDIO_MODEL", "studio-chat-large")
	t.Setenv("STUDIO_API_KEY", "sk-test-123")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Backend.BaseURL != "http://other:8888" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.DefaultModel != "studio-chat-large" {
		t.Errorf("DefaultModel = %q", cfg.DefaultModel)
	}
	if cfg.Backend.APIKey != "sk-test-123" {
		t.Errorf("APIKey = %q", cfg.Backend.APIKey)
	}
}

func TestString_RedactsAPIKey(t *testing.T) {
	cfg := Default()
	cfg.Backend.APIKey = "sk-very-secret"

	out := cfg.String()
	if !strings.Contains(out, "[REDACTED]") {
		t.Error("String() should redact the API key")
	}
	if strings.Contains(out, "sk-very-secret") {
		t.Error("String() leaked the API key")
	}
	// Original must be untouched.
	if cfg.Backend.APIKey != "sk-very-secret" {
		t.Error("String() mutated the config")
	}
}

// TestConfig_ConcurrentAccess tests that Global(), SetGlobal(), and ReloadGlobal()
// can be safely called concurrently without race conditions.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()
	SetGlobal(Default())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()

		go func() {
			defer wg.Done()
			cfg := Global()
			if cfg == nil {
				t.Error("Global() returned nil")
			}
		}()
	}

	wg.Wait()
}
