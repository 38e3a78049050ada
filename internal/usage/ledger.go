// Package usage implements the per-user token usage ledger. Every
// successful model call is recorded into layered aggregates (lifetime,
// per-model, per-day) plus a session history, and the full ledger state
// is persisted after each record. Monthly figures are derived on read
// from the daily aggregates; they are never stored.
package usage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"cjk-translator/internal/logger"
	"cjk-translator/internal/pricing"
	"cjk-translator/internal/types"
)

const (
	// dayFormat keys the daily aggregates (local calendar date)
	dayFormat = "2006-01-02"
	// monthFormat selects daily keys for the monthly rollup
	monthFormat = "2006-01"
)

// Record is the immutable record of one completed model call. It is
// created only for successful, token-metered responses.
type Record struct {
	Model            string  `json:"model"`
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	Timestamp        string  `json:"timestamp"`
	InputCost        float64 `json:"input_cost"`
	OutputCost       float64 `json:"output_cost"`
	TotalCost        float64 `json:"total_cost"`
}

// Stats is a mutable accumulator over records.
type Stats struct {
	TotalTokens       int     `json:"total_tokens"`
	TotalInputTokens  int     `json:"total_input_tokens"`
	TotalOutputTokens int     `json:"total_output_tokens"`
	TotalCost         float64 `json:"total_cost"`
	CallCount         int     `json:"call_count"`
}

// add accumulates one call into the stats.
func (s *Stats) add(promptTokens, completionTokens, totalTokens int, cost float64) {
	s.TotalTokens += totalTokens
	s.TotalInputTokens += promptTokens
	s.TotalOutputTokens += completionTokens
	s.TotalCost += cost
	s.CallCount++
}

// merge accumulates another stats value, used for monthly rollups.
func (s *Stats) merge(other Stats) {
	s.TotalTokens += other.TotalTokens
	s.TotalInputTokens += other.TotalInputTokens
	s.TotalOutputTokens += other.TotalOutputTokens
	s.TotalCost += other.TotalCost
	s.CallCount += other.CallCount
}

// ledgerFile is the on-disk schema of the ledger.
type ledgerFile struct {
	TotalUsage     Stats            `json:"total_usage"`
	ModelUsage     map[string]Stats `json:"model_usage"`
	DailyUsage     map[string]Stats `json:"daily_usage"`
	SessionHistory []Record         `json:"session_history"`
}

func emptyLedger() *ledgerFile {
	return &ledgerFile{
		ModelUsage:     map[string]Stats{},
		DailyUsage:     map[string]Stats{},
		SessionHistory: []Record{},
	}
}

// Ledger owns the usage data and its persistence. It reads pricing from
// the catalog at record time rather than caching rates, so a pricing
// update takes effect on the next call. Concurrent writers to the same
// ledger file are not supported; one Ledger instance per user/session.
type Ledger struct {
	filePath string
	catalog  *pricing.Catalog
	data     *ledgerFile
	mu       sync.Mutex
	now      func() time.Time
}

// NewLedger creates a Ledger backed by the given file and pricing
// catalog. A missing or malformed ledger file is treated as an empty
// ledger, not an error.
func NewLedger(filePath string, catalog *pricing.Catalog) (*Ledger, error) {
	if catalog == nil {
		return nil, types.NewAppError(types.ErrPricing, "usage ledger requires a pricing catalog", nil)
	}

	l := &Ledger{
		filePath: filePath,
		catalog:  catalog,
		data:     emptyLedger(),
		now:      time.Now,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read usage data, starting with empty ledger",
				logger.String("path", filePath), logger.Err(err))
		}
		return l, nil
	}

	parsed := emptyLedger()
	if err := json.Unmarshal(data, parsed); err != nil {
		logger.Warn("malformed usage data, starting with empty ledger",
			logger.String("path", filePath), logger.Err(err))
		return l, nil
	}
	if parsed.ModelUsage == nil {
		parsed.ModelUsage = map[string]Stats{}
	}
	if parsed.DailyUsage == nil {
		parsed.DailyUsage = map[string]Stats{}
	}

	l.data = parsed
	logger.Info("usage ledger loaded",
		logger.String("path", filePath),
		logger.Int("sessions", len(parsed.SessionHistory)))
	return l, nil
}

// RecordUsage records one completed model call. billedModel is the
// model name the provider echoed back; requestedModel, when non-empty,
// is preferred for the pricing lookup because providers may echo dated
// snapshot names that are not in the catalog. All three aggregates are
// updated atomically and the ledger is persisted before returning.
func (l *Ledger) RecordUsage(billedModel string, promptTokens, completionTokens, totalTokens int, requestedModel string) (*Record, error) {
	pricingModel := billedModel
	if requestedModel != "" {
		pricingModel = requestedModel
	}

	entry, err := l.catalog.GetModelPricing(pricingModel)
	if err != nil {
		return nil, err
	}

	unit := l.catalog.GetPricingUnit()
	inputCost := float64(promptTokens) / unit * entry.Input
	outputCost := float64(completionTokens) / unit * entry.Output
	totalCost := inputCost + outputCost

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	record := Record{
		Model:            billedModel,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      totalTokens,
		Timestamp:        now.Format(time.RFC3339),
		InputCost:        inputCost,
		OutputCost:       outputCost,
		TotalCost:        totalCost,
	}

	l.data.TotalUsage.add(promptTokens, completionTokens, totalTokens, totalCost)

	modelStats := l.data.ModelUsage[billedModel]
	modelStats.add(promptTokens, completionTokens, totalTokens, totalCost)
	l.data.ModelUsage[billedModel] = modelStats

	day := now.Format(dayFormat)
	dayStats := l.data.DailyUsage[day]
	dayStats.add(promptTokens, completionTokens, totalTokens, totalCost)
	l.data.DailyUsage[day] = dayStats

	l.data.SessionHistory = append(l.data.SessionHistory, record)

	if err := l.save(); err != nil {
		return nil, err
	}

	logger.Info("token usage recorded",
		logger.String("model", billedModel),
		logger.Int("totalTokens", totalTokens),
		logger.Float64("cost", totalCost))
	return &record, nil
}

// GetTotalUsage returns the lifetime aggregate.
func (l *Ledger) GetTotalUsage() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.data.TotalUsage
}

// GetModelUsage returns a copy of the per-model aggregates.
func (l *Ledger) GetModelUsage() map[string]Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]Stats, len(l.data.ModelUsage))
	for k, v := range l.data.ModelUsage {
		out[k] = v
	}
	return out
}

// GetDailyUsage returns the aggregate for the given date in
// "2006-01-02" form, or for today when date is empty. Days with no
// recorded usage return zero stats.
func (l *Ledger) GetDailyUsage(date string) Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	if date == "" {
		date = l.now().Format(dayFormat)
	}
	return l.data.DailyUsage[date]
}

// GetMonthlyUsage derives the aggregate for the given month in
// "2006-01" form, or for the current month when month is empty, by
// summing all matching daily entries. The stored state is never
// mutated by this query.
func (l *Ledger) GetMonthlyUsage(month string) Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	if month == "" {
		month = l.now().Format(monthFormat)
	}

	var total Stats
	for day, stats := range l.data.DailyUsage {
		if strings.HasPrefix(day, month+"-") {
			total.merge(stats)
		}
	}
	return total
}

// IsMonthlyLimitExceeded reports whether this month's cost has reached
// the configured limit. Reaching the limit exactly counts as exceeded.
func (l *Ledger) IsMonthlyLimitExceeded() bool {
	return l.GetMonthlyUsage("").TotalCost >= l.catalog.GetMonthlyLimit()
}

// RemainingMonthlyBudget returns the budget left this month, floored at
// zero.
func (l *Ledger) RemainingMonthlyBudget() float64 {
	remaining := l.catalog.GetMonthlyLimit() - l.GetMonthlyUsage("").TotalCost
	if remaining < 0 {
		return 0
	}
	return remaining
}

// MonthlyUsagePercentage returns this month's cost as a percentage of
// the limit. A zero limit reports 100 once anything is spent.
func (l *Ledger) MonthlyUsagePercentage() float64 {
	limit := l.catalog.GetMonthlyLimit()
	cost := l.GetMonthlyUsage("").TotalCost
	if limit <= 0 {
		if cost > 0 {
			return 100
		}
		return 0
	}
	return cost / limit * 100
}

// RecentSessions returns the last n session records, newest last.
func (l *Ledger) RecentSessions(n int) []Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	history := l.data.SessionHistory
	if n <= 0 || n > len(history) {
		n = len(history)
	}
	out := make([]Record, n)
	copy(out, history[len(history)-n:])
	return out
}

// save writes the ledger to disk. Callers must hold the lock.
func (l *Ledger) save() error {
	dir := filepath.Dir(l.filePath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return types.NewAppError(types.ErrInternal, "failed to create usage data directory", err)
		}
	}

	data, err := json.MarshalIndent(l.data, "", "  ")
	if err != nil {
		return types.NewAppError(types.ErrInternal, "failed to marshal usage data", err)
	}

	if err := os.WriteFile(l.filePath, data, 0600); err != nil {
		return types.NewAppError(types.ErrInternal, "failed to write usage data", err)
	}
	return nil
}
