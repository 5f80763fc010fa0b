package models

import "time"

// ScanOptions tune one evaluate call.
type ScanOptions struct {
	Force          bool `json:"force"`
	SkipCache      bool `json:"skip_cache"`
	SkipCooldown   bool `json:"skip_cooldown"`
	SkipVolatility bool `json:"skip_volatility"`
}

// ScanResult is the batch outcome of evaluating one strategy across a symbol
// list. Per-symbol failures land in Errors; they never abort the batch.
type ScanResult struct {
	StrategyID string            `json:"strategy_id"`
	Decisions  []*Decision       `json:"decisions"`
	Errors     map[string]string `json:"errors,omitempty"`
	FromCache  map[string]bool   `json:"from_cache,omitempty"`
	StartedAt  time.Time         `json:"started_at"`
	Duration   time.Duration     `json:"duration_ms"`
}

// ScanLock is the ephemeral per-strategy lock record. It exists only while a
// scan is in flight.
type ScanLock struct {
	StrategyID  string    `json:"strategy_id"`
	StartedAt   time.Time `json:"started_at"`
	SymbolCount int       `json:"symbol_count"`
}
