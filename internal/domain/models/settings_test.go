package models

import (
	"testing"
	"time"
)

func TestNormalizeStyle(t *testing.T) {
	if got := NormalizeStyle(""); got != StyleIntraday {
		t.Fatalf("empty style should default to intraday, got %s", got)
	}
	if got := NormalizeStyle("swing"); got != StyleSwing {
		t.Fatalf("valid style should pass through, got %s", got)
	}
	if got := NormalizeStyle("yolo"); got != StyleIntraday {
		t.Fatalf("unknown style should default to intraday, got %s", got)
	}
}

func TestStyleWindows(t *testing.T) {
	if StyleScalping.CooldownWindow() >= StyleIntraday.CooldownWindow() {
		t.Fatalf("scalping window should be shortest")
	}
	if StylePosition.CooldownWindow() != 24*time.Hour {
		t.Fatalf("position window should be a day")
	}
	if StyleSwing.Timeframe() != "1h" || StyleSwing.TrendTimeframe() != "4h" {
		t.Fatalf("swing timeframes wrong: %s / %s", StyleSwing.Timeframe(), StyleSwing.TrendTimeframe())
	}
}

func TestBarDuration(t *testing.T) {
	if BarDuration("15m") != 15*time.Minute {
		t.Fatalf("15m bar duration wrong")
	}
	if BarDuration("weird") != 15*time.Minute {
		t.Fatalf("unknown timeframe should fall back to 15m")
	}
}

func TestCooldownEntryExpiry(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	e := &CooldownEntry{Symbol: "EURUSD", Style: StyleIntraday, StrategyID: "rsi_reversal", ExpiresAt: now.Add(time.Hour)}
	if e.Expired(now) {
		t.Fatalf("entry should still be live")
	}
	if !e.Expired(now.Add(time.Hour)) {
		t.Fatalf("entry should expire exactly at its boundary")
	}
	if e.Key() != "EURUSD|intraday|rsi_reversal" {
		t.Fatalf("unexpected key %q", e.Key())
	}
}
