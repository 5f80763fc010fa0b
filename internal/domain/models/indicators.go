package models

// Value is a tri-state indicator reading. A reading of exactly zero is a
// legitimate value; absence is carried in Present, never inferred from the
// float.
type Value struct {
	F       float64 `json:"f"`
	Present bool    `json:"present"`
}

// Num wraps a present numeric value.
func Num(f float64) Value { return Value{F: f, Present: true} }

// Missing is the absent-value sentinel.
var Missing = Value{}

// Series is an ordered sequence of indicator values aligned 1:1 with a bar
// slice by index.
type Series []Value

// At returns the value at i, or Missing when i is out of range.
func (s Series) At(i int) Value {
	if i < 0 || i >= len(s) {
		return Missing
	}
	return s[i]
}

// Last returns the value aligned with the signal bar (index N-2).
func (s Series) Last() Value { return s.At(len(s) - 2) }

// Prev returns the value one bar before the signal bar.
func (s Series) Prev() Value { return s.At(len(s) - 3) }

// FromFloats builds a Series marking every element present.
func FromFloats(fs []float64) Series {
	out := make(Series, len(fs))
	for i, f := range fs {
		out[i] = Num(f)
	}
	return out
}

// IndicatorBundle is the aligned market view one evaluation consumes: bars
// for the signal timeframe, optional higher-timeframe bars for trend context,
// and named indicator series.
type IndicatorBundle struct {
	Symbol    string            `json:"symbol"`
	Timeframe string            `json:"timeframe"`
	Bars      []Bar             `json:"bars"`
	TrendBars []Bar             `json:"trend_bars,omitempty"`
	Series    map[string]Series `json:"series"`
}

// Align corrects any series whose length disagrees with the bar count:
// longer series are trimmed oldest-first so the newest values stay aligned,
// shorter ones are front-padded with Missing. Upstream providers may return
// partial data; alignment happens here, once, at the ingestion boundary.
func (ib *IndicatorBundle) Align() {
	n := len(ib.Bars)
	for name, s := range ib.Series {
		switch {
		case len(s) > n:
			ib.Series[name] = s[len(s)-n:]
		case len(s) < n:
			padded := make(Series, n)
			copy(padded[n-len(s):], s)
			ib.Series[name] = padded
		}
	}
}

// Indicator returns the named series, or an empty one when absent.
func (ib *IndicatorBundle) Indicator(name string) Series {
	if s, ok := ib.Series[name]; ok {
		return s
	}
	return nil
}

// Canonical indicator names used across strategies.
const (
	IndATR      = "atr"
	IndRSI      = "rsi"
	IndEMAFast  = "ema_fast"
	IndEMASlow  = "ema_slow"
	IndADX      = "adx"
	IndMACD     = "macd"
	IndMACDSig  = "macd_signal"
	IndMACDHist = "macd_hist"
)
