// Package config provides application-wide configuration. Values come from
// environment variables with safe defaults; an optional YAML file (--config)
// overrides the environment for deployments that prefer files over env.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the n8n MCP server.
type Config struct {
	// Upstream n8n instance.
	N8NBaseURL  string `yaml:"n8n_base_url"`  // N8N_BASE_URL — default: "http://localhost:5678"
	N8NAPIKey   string `yaml:"n8n_api_key"`   // N8N_API_KEY — required for authenticated instances
	N8NUser     string `yaml:"n8n_user"`      // N8N_USER — optional basic auth for webhook endpoints
	N8NPassword string `yaml:"n8n_password"`  // N8N_PASSWORD — optional basic auth

	// HTTP transport (only used with --http).
	HTTPAddr        string `yaml:"http_addr"`         // MCP_HTTP_ADDR — default: "127.0.0.1:8080"
	JWTSecret       string `yaml:"jwt_secret"`        // MCP_JWT_SECRET — enables JWT bearer auth when set
	AccessTokenHash string `yaml:"access_token_hash"` // MCP_ACCESS_TOKEN_HASH — bcrypt hash of a static token

	// Dispatch.
	CallTimeout time.Duration `yaml:"call_timeout"` // MCP_CALL_TIMEOUT — default: 30s

	// Invocation audit log. Empty path disables auditing.
	AuditDBPath string `yaml:"audit_db"` // MCP_AUDIT_DB — default: "" (disabled)
}

const (
	envKeyN8NBaseURL      = "N8N_BASE_URL"
	envKeyN8NAPIKey       = "N8N_API_KEY"
	envKeyN8NUser         = "N8N_USER"
	envKeyN8NPassword     = "N8N_PASSWORD"
	envKeyHTTPAddr        = "MCP_HTTP_ADDR"
	envKeyJWTSecret       = "MCP_JWT_SECRET"
	envKeyAccessTokenHash = "MCP_ACCESS_TOKEN_HASH"
	envKeyCallTimeout     = "MCP_CALL_TIMEOUT"
	envKeyAuditDB         = "MCP_AUDIT_DB"
)

// DefaultCallTimeout bounds a single tool dispatch when the caller supplies
// no deadline of its own.
const DefaultCallTimeout = 30 * time.Second

// Load reads configuration from environment variables, applying defaults for
// missing values.
func Load() Config {
	return Config{
		N8NBaseURL:      envOr(envKeyN8NBaseURL, "http://localhost:5678"),
		N8NAPIKey:       os.Getenv(envKeyN8NAPIKey),
		N8NUser:         os.Getenv(envKeyN8NUser),
		N8NPassword:     os.Getenv(envKeyN8NPassword),
		HTTPAddr:        envOr(envKeyHTTPAddr, "127.0.0.1:8080"),
		JWTSecret:       os.Getenv(envKeyJWTSecret),
		AccessTokenHash: os.Getenv(envKeyAccessTokenHash),
		CallTimeout:     envDurationOr(envKeyCallTimeout, DefaultCallTimeout),
		AuditDBPath:     os.Getenv(envKeyAuditDB),
	}
}

// LoadFile loads env-based configuration and then applies non-zero values
// from the YAML file at path on top of it.
func LoadFile(path string) (Config, error) {
	cfg := Load()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %q: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
	}

	merge(&cfg, file)
	return cfg, nil
}

// merge copies non-zero fields from src onto dst.
func merge(dst *Config, src Config) {
	if src.N8NBaseURL != "" {
		dst.N8NBaseURL = src.N8NBaseURL
	}
	if src.N8NAPIKey != "" {
		dst.N8NAPIKey = src.N8NAPIKey
	}
	if src.N8NUser != "" {
		dst.N8NUser = src.N8NUser
	}
	if src.N8NPassword != "" {
		dst.N8NPassword = src.N8NPassword
	}
	if src.HTTPAddr != "" {
		dst.HTTPAddr = src.HTTPAddr
	}
	if src.JWTSecret != "" {
		dst.JWTSecret = src.JWTSecret
	}
	if src.AccessTokenHash != "" {
		dst.AccessTokenHash = src.AccessTokenHash
	}
	if src.CallTimeout != 0 {
		dst.CallTimeout = src.CallTimeout
	}
	if src.AuditDBPath != "" {
		dst.AuditDBPath = src.AuditDBPath
	}
}

// envOr returns the value of the environment variable key, or fallback if not set.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envDurationOr parses the environment variable key as a Go duration,
// or returns fallback if unset or invalid.
func envDurationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
