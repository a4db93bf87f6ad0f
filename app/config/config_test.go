package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testConfig = `
env: development
server:
  baseUrl: http://localhost:8000
  timeout: 5s
chain:
  nodeUrl: http://localhost:26657
  timeout: 2s
  connIdle: 1m
log:
  level: debug
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write a config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.BaseURL != "http://localhost:8000" || cfg.Server.Timeout != 5*time.Second {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Chain.Prefix != "thasa" {
		t.Errorf("expected the default prefix, have: %s", cfg.Chain.Prefix)
	}
	if cfg.Chain.Decimals != defaultDecimals {
		t.Errorf("expected default decimals, have: %d", cfg.Chain.Decimals)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("unexpected log level: %s", cfg.Logging.Level)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("WALLET_SERVER_BASEURL", "https://wallet.example.com")
	t.Setenv("WALLET_CHAIN_PREFIX", "terra")

	cfg, err := Load(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.BaseURL != "https://wallet.example.com" {
		t.Errorf("env must override the file, have: %s", cfg.Server.BaseURL)
	}
	if cfg.Chain.Prefix != "terra" {
		t.Errorf("env must override the default, have: %s", cfg.Chain.Prefix)
	}
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("WALLET_SERVER_BASEURL", "https://wallet.example.com")
	t.Setenv("WALLET_CHAIN_NODEURL", "https://rpc.example.com")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != EnvProduction {
		t.Errorf("expected production by default, have: %s", cfg.Env)
	}
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, `
env: staging
server:
  baseUrl: not a url
chain:
  timeout: 0s
auth:
  email: demo@example.com
`))
	if err == nil {
		t.Fatal("expected a validation error")
	}
	for _, msg := range []string{"unknown env", "invalid server base url", "chain node url", "chain timeout", "auth email and password"} {
		if !strings.Contains(err.Error(), msg) {
			t.Errorf("expected %q in %q", msg, err.Error())
		}
	}
}

func TestServer_InsecureInProduction(t *testing.T) {
	s := Server{BaseURL: "https://wallet.example.com", Timeout: time.Second, InsecureSkipVerify: true}
	if err := s.Validate(EnvProduction); err == nil {
		t.Error("insecureSkipVerify must be rejected in production")
	}
	if err := s.Validate(EnvDevelopment); err != nil {
		t.Errorf("insecureSkipVerify is allowed in development: %v", err)
	}
}

func TestChain_ConnIdle(t *testing.T) {
	c := Chain{NodeURL: "http://localhost:26657", Prefix: "thasa", Timeout: time.Minute, ConnIdle: time.Second}
	if err := c.Validate(); err == nil {
		t.Error("connIdle shorter than the timeout must be rejected")
	}
}
