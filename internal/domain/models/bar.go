package models

import "time"

// Bar is one immutable OHLCV candle for a symbol/timeframe.
type Bar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Range returns high minus low.
func (b Bar) Range() float64 { return b.High - b.Low }

// Bullish reports whether the bar closed above its open.
func (b Bar) Bullish() bool { return b.Close > b.Open }

// Bearish reports whether the bar closed below its open.
func (b Bar) Bearish() bool { return b.Close < b.Open }

// Bar indexing convention: the last bar (N-1) is still forming, so only its
// open is trustworthy; all signal logic evaluates on N-2, the last closed bar.
// This one-bar lag prevents lookahead bias.

// SignalBar returns the last fully closed bar, or false if there are fewer
// than two bars.
func SignalBar(bars []Bar) (Bar, bool) {
	if len(bars) < 2 {
		return Bar{}, false
	}
	return bars[len(bars)-2], true
}

// EntryBar returns the still-forming bar whose open is the assumed execution
// price, or false if the slice is empty.
func EntryBar(bars []Bar) (Bar, bool) {
	if len(bars) == 0 {
		return Bar{}, false
	}
	return bars[len(bars)-1], true
}
