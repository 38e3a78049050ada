package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if err := mgr.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := mgr.Get()
	if cfg.Model != DefaultModel {
		t.Errorf("Model = %q, want %q", cfg.Model, DefaultModel)
	}
	if cfg.Temperature != DefaultTemperature || cfg.TopP != DefaultTopP {
		t.Errorf("sampling = %f/%f, want %f/%f", cfg.Temperature, cfg.TopP, DefaultTemperature, DefaultTopP)
	}
	if cfg.MaxTokens != DefaultMaxTokens {
		t.Errorf("MaxTokens = %d, want %d", cfg.MaxTokens, DefaultMaxTokens)
	}
	if cfg.ContextPercentage != DefaultContextPercentage {
		t.Errorf("ContextPercentage = %f, want %f", cfg.ContextPercentage, DefaultContextPercentage)
	}
	if cfg.TargetPageSize != DefaultTargetPageSize {
		t.Errorf("TargetPageSize = %d, want %d", cfg.TargetPageSize, DefaultTargetPageSize)
	}
	if cfg.MaxRetries != DefaultMaxRetries {
		t.Errorf("MaxRetries = %d, want %d", cfg.MaxRetries, DefaultMaxRetries)
	}
}

func TestLoad_SidecarPathsDefaultNextToConfig(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if err := mgr.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := mgr.Get()
	if want := filepath.Join(dir, "pricing_config.json"); cfg.PricingConfigPath != want {
		t.Errorf("PricingConfigPath = %q, want %q", cfg.PricingConfigPath, want)
	}
	if want := filepath.Join(dir, "token_usage.json"); cfg.UsageDataPath != want {
		t.Errorf("UsageDataPath = %q, want %q", cfg.UsageDataPath, want)
	}
}

func TestLoad_PartialFileBackfilled(t *testing.T) {
	t.Setenv(EnvBaseURL, "")

	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"api_key": "sk-test", "model": "gpt-4o-mini"}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if err := mgr.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := mgr.Get()
	if cfg.APIKey != "sk-test" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "sk-test")
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want %q", cfg.Model, "gpt-4o-mini")
	}
	if cfg.MaxRetries != DefaultMaxRetries {
		t.Errorf("MaxRetries = %d, want backfilled default %d", cfg.MaxRetries, DefaultMaxRetries)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want backfilled default", cfg.BaseURL)
	}
}

func TestLoad_ExplicitZeroSamplingPreserved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"api_key": "sk-test", "temperature": 0, "top_p": 0}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if err := mgr.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := mgr.Get()
	if cfg.Temperature != 0 {
		t.Errorf("Temperature = %f, want explicit 0 preserved", cfg.Temperature)
	}
	if cfg.TopP != 0 {
		t.Errorf("TopP = %f, want explicit 0 preserved", cfg.TopP)
	}
	// Absent keys still get the defaults
	if cfg.MaxTokens != DefaultMaxTokens {
		t.Errorf("MaxTokens = %d, want backfilled default %d", cfg.MaxTokens, DefaultMaxTokens)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvAPIKey, "sk-from-env")
	t.Setenv(EnvBaseURL, "https://proxy.example.com/v1")

	mgr, err := NewManager(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if err := mgr.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := mgr.Get()
	if cfg.APIKey != "sk-from-env" {
		t.Errorf("APIKey = %q, want env value", cfg.APIKey)
	}
	if cfg.BaseURL != "https://proxy.example.com/v1" {
		t.Errorf("BaseURL = %q, want env value", cfg.BaseURL)
	}
}

func TestLoad_FileKeyBeatsEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "sk-from-env")

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"api_key": "sk-from-file"}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if err := mgr.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := mgr.Get().APIKey; got != "sk-from-file" {
		t.Errorf("APIKey = %q, want file value to win", got)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if err := mgr.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	mgr.Get().APIKey = "sk-saved"
	mgr.Get().Model = "o3-mini"
	if err := mgr.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file mode = %o, want 0600", perm)
	}

	reloaded, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := reloaded.Get().Model; got != "o3-mini" {
		t.Errorf("reloaded Model = %q, want %q", got, "o3-mini")
	}
}

func TestLoad_MalformedFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{broken"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if err := mgr.Load(); err != nil {
		t.Fatalf("Load() error = %v, want graceful fallback", err)
	}
	if got := mgr.Get().Model; got != DefaultModel {
		t.Errorf("Model = %q, want default after malformed file", got)
	}
}
