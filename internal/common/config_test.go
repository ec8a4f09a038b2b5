package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Clients.Upstox.BaseURL != "https://api.upstox.com/v2" {
		t.Errorf("upstox base URL = %s", cfg.Clients.Upstox.BaseURL)
	}
	if cfg.Clients.UseSimulated {
		t.Error("simulated brokers should be off by default")
	}
	if cfg.UserID != "default" {
		t.Errorf("user id = %s, want default", cfg.UserID)
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zenith.toml")
	content := `
environment = "production"

[server]
port = 9090

[clients]
use_simulated = true

[clients.fyers]
base_url = "http://localhost:9999"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if !cfg.Clients.UseSimulated {
		t.Error("use_simulated not applied")
	}
	if cfg.Clients.Fyers.BaseURL != "http://localhost:9999" {
		t.Errorf("fyers base URL = %s", cfg.Clients.Fyers.BaseURL)
	}
	// Untouched sections keep defaults
	if cfg.Clients.AngelOne.BaseURL != "https://apiconnect.angelbroking.com" {
		t.Errorf("angelone base URL lost default: %s", cfg.Clients.AngelOne.BaseURL)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false for environment=production")
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want default 8080", cfg.Server.Port)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ZENITH_PORT", "7001")
	t.Setenv("ZENITH_USER_ID", "bench")
	t.Setenv("ZENITH_USE_SIMULATED_BROKER", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 7001 {
		t.Errorf("port = %d, want 7001", cfg.Server.Port)
	}
	if cfg.UserID != "bench" {
		t.Errorf("user id = %s, want bench", cfg.UserID)
	}
	if !cfg.Clients.UseSimulated {
		t.Error("ZENITH_USE_SIMULATED_BROKER not applied")
	}
}

func TestBrokerConfig_GetTimeout(t *testing.T) {
	c := BrokerConfig{Timeout: "5s"}
	if c.GetTimeout().Seconds() != 5 {
		t.Errorf("timeout = %v, want 5s", c.GetTimeout())
	}

	c = BrokerConfig{Timeout: "bogus"}
	if c.GetTimeout().Seconds() != 30 {
		t.Errorf("fallback timeout = %v, want 30s", c.GetTimeout())
	}
}
