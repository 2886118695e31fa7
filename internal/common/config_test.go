package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.Currency != "INR" {
		t.Errorf("Currency = %q, want INR", cfg.Currency)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.Address != "ws://localhost:8000/rpc" {
		t.Errorf("Storage.Address = %q", cfg.Storage.Address)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.RPS != 20 || cfg.RateLimit.Burst != 40 {
		t.Errorf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "finvoice.toml")
	content := `
environment = "production"
currency = "usd"

[server]
port = 9090

[storage]
database = "ledger_prod"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("expected production environment")
	}
	if cfg.Currency != "USD" {
		t.Errorf("Currency = %q, want USD (normalized)", cfg.Currency)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	// Values not present in the file keep their defaults.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want default", cfg.Server.Host)
	}
	if cfg.Storage.Database != "ledger_prod" {
		t.Errorf("Storage.Database = %q", cfg.Storage.Database)
	}
	if cfg.Storage.Namespace != "finvoice" {
		t.Errorf("Storage.Namespace = %q, want default", cfg.Storage.Namespace)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Currency != "INR" || cfg.Server.Port != 8080 {
		t.Errorf("expected defaults, got currency=%q port=%d", cfg.Currency, cfg.Server.Port)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("FINVOICE_PORT", "7070")
	t.Setenv("FINVOICE_CURRENCY", "eur")
	t.Setenv("FINVOICE_DB_DATABASE", "ledger_env")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR", cfg.Currency)
	}
	if cfg.Storage.Database != "ledger_env" {
		t.Errorf("Storage.Database = %q, want ledger_env", cfg.Storage.Database)
	}
}

func TestValidateCurrencyFallback(t *testing.T) {
	t.Setenv("FINVOICE_CURRENCY", "rupees")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Currency != "INR" {
		t.Errorf("Currency = %q, want INR fallback for invalid code", cfg.Currency)
	}
}

func TestGetTokenExpiry(t *testing.T) {
	a := AuthConfig{TokenExpiry: "2h"}
	if got := a.GetTokenExpiry(); got != 2*time.Hour {
		t.Errorf("GetTokenExpiry() = %v, want 2h", got)
	}
	a.TokenExpiry = "garbage"
	if got := a.GetTokenExpiry(); got != 24*time.Hour {
		t.Errorf("GetTokenExpiry() fallback = %v, want 24h", got)
	}
}
