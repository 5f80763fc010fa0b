package models

import "time"

// Style is the trading style a request evaluates under. It drives timeframe
// selection and default cooldown/validity windows.
type Style string

const (
	StyleScalping Style = "scalping"
	StyleIntraday Style = "intraday"
	StyleSwing    Style = "swing"
	StylePosition Style = "position"
)

// ValidStyle reports whether s is a supported style.
func ValidStyle(s Style) bool {
	switch s {
	case StyleScalping, StyleIntraday, StyleSwing, StylePosition:
		return true
	}
	return false
}

// NormalizeStyle converts a raw string to a valid style, defaulting to
// intraday.
func NormalizeStyle(s string) Style {
	if s == "" {
		return StyleIntraday
	}
	st := Style(s)
	if ValidStyle(st) {
		return st
	}
	return StyleIntraday
}

// Timeframe returns the signal timeframe for the style.
func (s Style) Timeframe() string {
	switch s {
	case StyleScalping:
		return "5m"
	case StyleIntraday:
		return "15m"
	case StyleSwing:
		return "1h"
	case StylePosition:
		return "4h"
	}
	return "15m"
}

// TrendTimeframe returns the higher timeframe used for trend context.
func (s Style) TrendTimeframe() string {
	switch s {
	case StyleScalping:
		return "15m"
	case StyleIntraday:
		return "1h"
	case StyleSwing:
		return "4h"
	case StylePosition:
		return "1d"
	}
	return "1h"
}

// CooldownWindow is the style default for dedup suppression; an explicit
// ValidUntil on the decision takes precedence over it at every call site.
func (s Style) CooldownWindow() time.Duration {
	switch s {
	case StyleScalping:
		return 30 * time.Minute
	case StyleIntraday:
		return 2 * time.Hour
	case StyleSwing:
		return 8 * time.Hour
	case StylePosition:
		return 24 * time.Hour
	}
	return 2 * time.Hour
}

// BarDuration returns the nominal duration of one bar for a timeframe
// string.
func BarDuration(tf string) time.Duration {
	switch tf {
	case "1m":
		return time.Minute
	case "5m":
		return 5 * time.Minute
	case "15m":
		return 15 * time.Minute
	case "30m":
		return 30 * time.Minute
	case "1h":
		return time.Hour
	case "4h":
		return 4 * time.Hour
	case "1d":
		return 24 * time.Hour
	}
	return 15 * time.Minute
}

// UserSettings are the per-request account parameters. They are external and
// immutable for the duration of one evaluation.
type UserSettings struct {
	AccountSize float64 `json:"account_size" validate:"required,gt=0"`
	RiskPercent float64 `json:"risk_percent" default:"1" validate:"gte=0.1,lte=5"`
	Style       Style   `json:"style" default:"intraday" validate:"oneof=scalping intraday swing position"`
	Timezone    string  `json:"timezone" default:"UTC"`
}
