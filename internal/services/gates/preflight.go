package gates

import (
	"fmt"
	"time"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
)

// Preflight reject reasons.
const (
	RejectInsufficientBars = "insufficient_bars"
	RejectBarsNotClosed    = "bars_not_closed"
	RejectStaleEntry       = "stale_entry"
	RejectDeadMarket       = "dead_market"
)

// Higher-timeframe trend series names expected in the bundle.
const (
	IndHTFEMAFast = "htf_ema_fast"
	IndHTFEMASlow = "htf_ema_slow"
	IndHTFADX     = "htf_adx"
)

// TrendContext is the higher-timeframe view computed on preflight success.
// It informs confidence scoring; it never rejects on its own.
type TrendContext struct {
	Direction models.Direction `json:"direction"`
	Strength  float64          `json:"strength"` // ADX reading, 0 when absent
	Strong    bool             `json:"strong"`
}

// PreflightResult is the gate outcome for one evaluation.
type PreflightResult struct {
	OK              bool         `json:"ok"`
	Reason          string       `json:"reason,omitempty"`
	Detail          string       `json:"detail,omitempty"`
	Trend           TrendContext `json:"trend"`
	ConfidenceDelta float64      `json:"confidence_delta"`
}

// PreflightConfig tunes the quality gate.
type PreflightConfig struct {
	MinBars         int
	ATRFloorPercent float64 // ATR as % of price below which the market is dead
	StaleFactor     float64 // entry bar age ceiling as a multiple of bar duration
	ADXStrong       float64
}

// Preflight runs the shared pre-evaluation checks every strategy consumes
// before its signal logic: bar sufficiency, closed-bar enforcement, entry-bar
// freshness and a volatility floor, in that order, each a hard reject.
type Preflight struct {
	cfg PreflightConfig
	now func() time.Time
}

// NewPreflight creates the quality gate. clock may be nil for wall time.
func NewPreflight(cfg PreflightConfig, clock func() time.Time) *Preflight {
	if cfg.MinBars <= 0 {
		cfg.MinBars = 50
	}
	if cfg.ATRFloorPercent <= 0 {
		cfg.ATRFloorPercent = 0.02
	}
	if cfg.StaleFactor <= 0 {
		cfg.StaleFactor = 1.5
	}
	if cfg.ADXStrong <= 0 {
		cfg.ADXStrong = 25
	}
	if clock == nil {
		clock = time.Now
	}
	return &Preflight{cfg: cfg, now: clock}
}

// Check validates the bundle and, on success, attaches trend context and a
// session-quality confidence adjustment.
func (p *Preflight) Check(bundle *models.IndicatorBundle, minBars int) PreflightResult {
	if minBars <= 0 {
		minBars = p.cfg.MinBars
	}
	if len(bundle.Bars) < minBars {
		return PreflightResult{
			Reason: RejectInsufficientBars,
			Detail: fmt.Sprintf("have %d bars, need %d", len(bundle.Bars), minBars),
		}
	}

	signal, _ := models.SignalBar(bundle.Bars)
	entry, _ := models.EntryBar(bundle.Bars)

	// The signal bar must have opened strictly before the entry bar; equal or
	// inverted timestamps mean the provider handed us an unclosed or
	// disordered sequence.
	if !signal.Timestamp.Before(entry.Timestamp) {
		return PreflightResult{
			Reason: RejectBarsNotClosed,
			Detail: fmt.Sprintf("signal bar %s not before entry bar %s",
				signal.Timestamp.Format(time.RFC3339), entry.Timestamp.Format(time.RFC3339)),
		}
	}

	barDur := models.BarDuration(bundle.Timeframe)
	ceiling := time.Duration(float64(barDur) * p.cfg.StaleFactor)
	if age := p.now().Sub(entry.Timestamp); age > ceiling {
		return PreflightResult{
			Reason: RejectStaleEntry,
			Detail: fmt.Sprintf("entry bar is %s old, ceiling %s", age.Round(time.Second), ceiling),
		}
	}

	atr := bundle.Indicator(models.IndATR).Last()
	if !atr.Present {
		return PreflightResult{Reason: RejectDeadMarket, Detail: "no ATR reading"}
	}
	if signal.Close > 0 {
		atrPct := atr.F / signal.Close * 100
		if atrPct < p.cfg.ATRFloorPercent {
			return PreflightResult{
				Reason: RejectDeadMarket,
				Detail: fmt.Sprintf("ATR %.4f%% of price below floor %.4f%%", atrPct, p.cfg.ATRFloorPercent),
			}
		}
	}

	return PreflightResult{
		OK:              true,
		Trend:           p.trendContext(bundle),
		ConfidenceDelta: sessionQualityDelta(entry.Timestamp),
	}
}

// trendContext reads the higher-timeframe EMA pair and ADX out of the bundle.
// Absent series yield a neutral context rather than an error.
func (p *Preflight) trendContext(bundle *models.IndicatorBundle) TrendContext {
	fast := bundle.Indicator(IndHTFEMAFast).Last()
	slow := bundle.Indicator(IndHTFEMASlow).Last()
	adx := bundle.Indicator(IndHTFADX).Last()

	ctx := TrendContext{Direction: models.DirectionNone}
	if adx.Present {
		ctx.Strength = adx.F
		ctx.Strong = adx.F >= p.cfg.ADXStrong
	}
	if !fast.Present || !slow.Present {
		return ctx
	}
	switch {
	case fast.F > slow.F:
		ctx.Direction = models.DirectionLong
	case fast.F < slow.F:
		ctx.Direction = models.DirectionShort
	}
	return ctx
}

// sessionQualityDelta scores the trading session the entry bar falls in.
// London/NY overlap is the most liquid window; the rollover hour after the
// NY close is the worst.
func sessionQualityDelta(ts time.Time) float64 {
	h := ts.UTC().Hour()
	switch {
	case h >= 12 && h < 16: // London/NY overlap
		return 5
	case h >= 7 && h < 12: // London
		return 3
	case h >= 16 && h < 21: // NY afternoon
		return 0
	case h >= 21 || h < 1: // rollover
		return -5
	default: // Asia
		return -2
	}
}

// Alignment relates a proposed direction to the higher-timeframe trend.
func (t TrendContext) Alignment(dir models.Direction) models.TrendAlignment {
	if t.Direction == models.DirectionNone || dir == models.DirectionNone {
		return models.TrendNeutral
	}
	if t.Direction == dir {
		return models.TrendAligned
	}
	return models.TrendAgainst
}
