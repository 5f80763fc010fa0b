package models

import (
	"fmt"
	"time"
)

// CooldownEntry is the persistent dedup record for one
// (symbol, style, strategy) key. At most one active entry exists per key.
type CooldownEntry struct {
	Symbol     string    `json:"symbol"`
	Style      Style     `json:"style"`
	StrategyID string    `json:"strategy_id"`
	Direction  Direction `json:"direction"`
	Grade      Grade     `json:"grade"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Key returns the composite storage key. The strategy id is part of the key
// on purpose: omitting it would let one strategy's cooldown suppress
// another's.
func (e *CooldownEntry) Key() string {
	return CooldownKey(e.Symbol, e.Style, e.StrategyID)
}

// CooldownKey builds the composite cooldown key.
func CooldownKey(symbol string, style Style, strategyID string) string {
	return fmt.Sprintf("%s|%s|%s", symbol, style, strategyID)
}

// Expired reports whether the entry's window has elapsed at now.
func (e *CooldownEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// CooldownVerdict is the outcome of a cooldown check.
type CooldownVerdict struct {
	Allowed   bool          `json:"allowed"`
	Reason    string        `json:"reason,omitempty"`
	Remaining time.Duration `json:"remaining,omitempty"`
}
