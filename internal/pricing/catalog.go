// Package pricing manages per-model token rates, the pricing unit, and
// the monthly spending limit. The catalog is persisted as a JSON
// document and rewritten in full on every update.
package pricing

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"cjk-translator/internal/logger"
	"cjk-translator/internal/types"
)

const (
	// DefaultPricingUnit is the token-count divisor applied before
	// multiplying by a model's rate (rates are per 1M tokens).
	DefaultPricingUnit = 1_000_000
	// DefaultMonthlyLimit is the monthly spending ceiling in dollars
	DefaultMonthlyLimit = 50.0
	// DefaultFallbackModel is billed when an unknown model is seen
	DefaultFallbackModel = "gpt-4o-mini"
)

// Entry holds per-model input/output rates in dollars per pricing-unit
// tokens.
type Entry struct {
	Input  float64 `json:"input"`
	Output float64 `json:"output"`
}

// catalogFile is the on-disk schema of the pricing catalog.
type catalogFile struct {
	PricingUnit   float64          `json:"pricing_unit"`
	MonthlyLimit  float64          `json:"monthly_limit"`
	FallbackModel string           `json:"fallback_model"`
	Models        map[string]Entry `json:"models"`
}

// Catalog supplies model rates to the usage ledger and supports online
// updates. Updates persist immediately, so a changed rate takes effect
// on the very next recorded call.
type Catalog struct {
	filePath string
	data     *catalogFile
	mu       sync.RWMutex
}

// defaultCatalog returns the catalog written on first run.
func defaultCatalog() *catalogFile {
	return &catalogFile{
		PricingUnit:   DefaultPricingUnit,
		MonthlyLimit:  DefaultMonthlyLimit,
		FallbackModel: DefaultFallbackModel,
		Models: map[string]Entry{
			"o3-mini":                     {Input: 1.21, Output: 4.84},
			"gpt-4o-mini":                 {Input: 0.165, Output: 0.66},
			"gpt-4o":                      {Input: 2.75, Output: 11.00},
			"gpt-35-turbo-16k":            {Input: 3.00, Output: 4.00},
			"Mistral-Small":               {Input: 1.00, Output: 3.00},
			"Meta-Llama-3-1-8B-Instruct":  {Input: 3.00, Output: 0.61},
			"Meta-Llama-3-1-70B-Instruct": {Input: 2.68, Output: 3.54},
		},
	}
}

// NewCatalog loads the pricing catalog from filePath. A missing file is
// replaced with the default catalog and persisted; a malformed file is
// a hard error because the system cannot bill without trusted rates.
func NewCatalog(filePath string) (*Catalog, error) {
	c := &Catalog{filePath: filePath}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, types.NewAppError(types.ErrPricing, "failed to read pricing config", err)
		}
		c.data = defaultCatalog()
		if err := c.save(); err != nil {
			return nil, err
		}
		logger.Info("created default pricing configuration", logger.String("path", filePath))
		return c, nil
	}

	parsed := &catalogFile{}
	if err := json.Unmarshal(data, parsed); err != nil {
		return nil, types.NewAppError(types.ErrPricing, "malformed pricing config", err)
	}
	if parsed.Models == nil {
		return nil, types.NewAppError(types.ErrPricing, "pricing config has no model rates", nil)
	}
	if parsed.PricingUnit <= 0 {
		parsed.PricingUnit = DefaultPricingUnit
	}

	c.data = parsed
	logger.Info("pricing configuration loaded",
		logger.String("path", filePath),
		logger.Int("models", len(parsed.Models)),
		logger.Float64("monthlyLimit", parsed.MonthlyLimit))
	return c, nil
}

// GetModelPricing returns the rates for the given model. An unknown
// model bills at the fallback model's rate with a logged warning; when
// no fallback rate is configured either, the lookup fails loudly
// rather than silently assuming zero cost.
func (c *Catalog) GetModelPricing(model string) (Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if entry, ok := c.data.Models[model]; ok {
		return entry, nil
	}

	fallback := c.data.FallbackModel
	if fallback != "" {
		if entry, ok := c.data.Models[fallback]; ok {
			logger.Warn("model not found in pricing config, billing at fallback rate",
				logger.String("model", model),
				logger.String("fallback", fallback))
			return entry, nil
		}
	}

	return Entry{}, types.NewAppErrorWithDetails(types.ErrPricing,
		"no pricing configured for model and no fallback available", model, nil)
}

// UpdatePricing sets the rates for a model and persists the catalog.
func (c *Catalog) UpdatePricing(model string, input, output float64) error {
	if model == "" {
		return types.NewAppError(types.ErrInvalidInput, "model name cannot be empty", nil)
	}
	if input < 0 || output < 0 {
		return types.NewAppError(types.ErrInvalidInput, "pricing rates cannot be negative", nil)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.data.Models[model] = Entry{Input: input, Output: output}
	if err := c.save(); err != nil {
		return err
	}

	logger.Info("pricing updated",
		logger.String("model", model),
		logger.Float64("input", input),
		logger.Float64("output", output))
	return nil
}

// GetPricingUnit returns the token-count divisor for cost computation.
func (c *Catalog) GetPricingUnit() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.PricingUnit
}

// GetMonthlyLimit returns the configured monthly spending ceiling.
func (c *Catalog) GetMonthlyLimit() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.MonthlyLimit
}

// SetMonthlyLimit updates the monthly spending ceiling and persists.
func (c *Catalog) SetMonthlyLimit(limit float64) error {
	if limit < 0 {
		return types.NewAppError(types.ErrInvalidInput, "monthly limit cannot be negative", nil)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.data.MonthlyLimit = limit
	return c.save()
}

// Models returns a copy of all configured model rates.
func (c *Catalog) Models() map[string]Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]Entry, len(c.data.Models))
	for k, v := range c.data.Models {
		out[k] = v
	}
	return out
}

// save writes the catalog to disk. Callers must hold the lock.
func (c *Catalog) save() error {
	dir := filepath.Dir(c.filePath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return types.NewAppError(types.ErrPricing, "failed to create pricing config directory", err)
		}
	}

	data, err := json.MarshalIndent(c.data, "", "  ")
	if err != nil {
		return types.NewAppError(types.ErrPricing, "failed to marshal pricing config", err)
	}

	if err := os.WriteFile(c.filePath, data, 0600); err != nil {
		return types.NewAppError(types.ErrPricing, "failed to write pricing config", err)
	}
	return nil
}
