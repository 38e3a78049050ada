package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"cjk-translator/internal/types"
)

func TestNewCatalog_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing_config.json")

	catalog, err := NewCatalog(path)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("default catalog was not persisted: %v", err)
	}
	if got := catalog.GetPricingUnit(); got != DefaultPricingUnit {
		t.Errorf("GetPricingUnit() = %f, want %d", got, DefaultPricingUnit)
	}
	if got := catalog.GetMonthlyLimit(); got != DefaultMonthlyLimit {
		t.Errorf("GetMonthlyLimit() = %f, want %f", got, float64(DefaultMonthlyLimit))
	}

	entry, err := catalog.GetModelPricing("gpt-4o")
	if err != nil {
		t.Fatalf("GetModelPricing(gpt-4o) error = %v", err)
	}
	if entry.Input != 2.75 || entry.Output != 11.00 {
		t.Errorf("gpt-4o rates = %+v, want {2.75 11.00}", entry)
	}
}

func TestGetModelPricing_FallbackForUnknownModel(t *testing.T) {
	catalog, err := NewCatalog(filepath.Join(t.TempDir(), "pricing_config.json"))
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	entry, err := catalog.GetModelPricing("some-new-model")
	if err != nil {
		t.Fatalf("GetModelPricing() error = %v", err)
	}

	fallback, err := catalog.GetModelPricing(DefaultFallbackModel)
	if err != nil {
		t.Fatalf("GetModelPricing(fallback) error = %v", err)
	}
	if entry != fallback {
		t.Errorf("unknown model rates = %+v, want fallback rates %+v", entry, fallback)
	}
}

func TestGetModelPricing_NoFallbackFailsLoudly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing_config.json")
	data := `{"pricing_unit": 1000000, "monthly_limit": 50, "fallback_model": "", "models": {"gpt-4o": {"input": 2.75, "output": 11.0}}}`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	catalog, err := NewCatalog(path)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	_, err = catalog.GetModelPricing("unknown-model")
	if err == nil {
		t.Fatal("GetModelPricing() = nil error, want loud failure with no fallback")
	}
	if types.CodeOf(err) != types.ErrPricing {
		t.Errorf("error code = %v, want %v", types.CodeOf(err), types.ErrPricing)
	}
}

func TestNewCatalog_MalformedIsHardError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing_config.json")
	if err := os.WriteFile(path, []byte("{broken"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := NewCatalog(path)
	if err == nil {
		t.Fatal("NewCatalog() = nil error, want hard failure on malformed rates")
	}
	if types.CodeOf(err) != types.ErrPricing {
		t.Errorf("error code = %v, want %v", types.CodeOf(err), types.ErrPricing)
	}
}

func TestUpdatePricing_PersistsImmediately(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing_config.json")
	catalog, err := NewCatalog(path)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	if err := catalog.UpdatePricing("my-model", 1.5, 3.0); err != nil {
		t.Fatalf("UpdatePricing() error = %v", err)
	}

	reloaded, err := NewCatalog(path)
	if err != nil {
		t.Fatalf("NewCatalog() reload error = %v", err)
	}
	entry, err := reloaded.GetModelPricing("my-model")
	if err != nil {
		t.Fatalf("GetModelPricing() error = %v", err)
	}
	if entry.Input != 1.5 || entry.Output != 3.0 {
		t.Errorf("reloaded rates = %+v, want {1.5 3.0}", entry)
	}
}

func TestUpdatePricing_RejectsInvalid(t *testing.T) {
	catalog, err := NewCatalog(filepath.Join(t.TempDir(), "pricing_config.json"))
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	if err := catalog.UpdatePricing("", 1, 1); err == nil {
		t.Error("UpdatePricing with empty model = nil error, want failure")
	}
	if err := catalog.UpdatePricing("m", -1, 1); err == nil {
		t.Error("UpdatePricing with negative rate = nil error, want failure")
	}
}

func TestSetMonthlyLimit_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing_config.json")
	catalog, err := NewCatalog(path)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	if err := catalog.SetMonthlyLimit(120); err != nil {
		t.Fatalf("SetMonthlyLimit() error = %v", err)
	}

	reloaded, err := NewCatalog(path)
	if err != nil {
		t.Fatalf("NewCatalog() reload error = %v", err)
	}
	if got := reloaded.GetMonthlyLimit(); got != 120 {
		t.Errorf("reloaded limit = %f, want 120", got)
	}
}
