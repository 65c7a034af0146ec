package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Not parallel: mutates process env.
	t.Setenv("N8N_BASE_URL", "")
	t.Setenv("MCP_HTTP_ADDR", "")
	t.Setenv("MCP_CALL_TIMEOUT", "")

	cfg := Load()
	if cfg.N8NBaseURL != "http://localhost:5678" {
		t.Errorf("N8NBaseURL = %q", cfg.N8NBaseURL)
	}
	if cfg.HTTPAddr != "127.0.0.1:8080" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.CallTimeout != DefaultCallTimeout {
		t.Errorf("CallTimeout = %v", cfg.CallTimeout)
	}
	if cfg.AuditDBPath != "" {
		t.Errorf("AuditDBPath = %q, want disabled by default", cfg.AuditDBPath)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("N8N_BASE_URL", "https://n8n.internal:5678")
	t.Setenv("N8N_API_KEY", "key-123")
	t.Setenv("MCP_CALL_TIMEOUT", "5s")

	cfg := Load()
	if cfg.N8NBaseURL != "https://n8n.internal:5678" {
		t.Errorf("N8NBaseURL = %q", cfg.N8NBaseURL)
	}
	if cfg.N8NAPIKey != "key-123" {
		t.Errorf("N8NAPIKey = %q", cfg.N8NAPIKey)
	}
	if cfg.CallTimeout != 5*time.Second {
		t.Errorf("CallTimeout = %v", cfg.CallTimeout)
	}
}

func TestLoad_InvalidTimeoutFallsBack(t *testing.T) {
	t.Setenv("MCP_CALL_TIMEOUT", "not-a-duration")

	if cfg := Load(); cfg.CallTimeout != DefaultCallTimeout {
		t.Errorf("CallTimeout = %v, want default", cfg.CallTimeout)
	}
}

func TestLoadFile_OverridesEnv(t *testing.T) {
	t.Setenv("N8N_BASE_URL", "http://from-env:5678")
	t.Setenv("N8N_API_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "n8n_base_url: http://from-file:5678\ncall_timeout: 10s\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.N8NBaseURL != "http://from-file:5678" {
		t.Errorf("N8NBaseURL = %q, file should win", cfg.N8NBaseURL)
	}
	if cfg.N8NAPIKey != "env-key" {
		t.Errorf("N8NAPIKey = %q, env value should survive", cfg.N8NAPIKey)
	}
	if cfg.CallTimeout != 10*time.Second {
		t.Errorf("CallTimeout = %v", cfg.CallTimeout)
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadFile_BadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
