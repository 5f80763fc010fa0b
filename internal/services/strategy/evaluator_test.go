package strategy

import (
	"testing"
	"time"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/services/gates"
)

// Fixed evaluation time inside the London/NY overlap so the session delta
// is deterministic (+5).
var stratNow = time.Date(2025, 6, 2, 13, 0, 0, 0, time.UTC)

func stratClock() time.Time { return stratNow }

func testGate() *gates.Preflight {
	return gates.NewPreflight(gates.PreflightConfig{}, stratClock)
}

// marketBundle builds n fresh 15m bars, mildly bullish, with a flat 0.0012
// ATR series. Tests mutate the bars and series they care about.
func marketBundle(n int) *models.IndicatorBundle {
	bars := make([]models.Bar, n)
	start := stratNow.Add(-time.Duration(n) * 15 * time.Minute)
	for i := range bars {
		bars[i] = models.Bar{
			Timestamp: start.Add(time.Duration(i) * 15 * time.Minute),
			Open:      1.0850, High: 1.0860, Low: 1.0840, Close: 1.0855,
		}
	}
	atr := make([]float64, n)
	for i := range atr {
		atr[i] = 0.0012
	}
	return &models.IndicatorBundle{
		Symbol:    "EURUSD",
		Timeframe: "15m",
		Bars:      bars,
		Series:    map[string]models.Series{models.IndATR: models.FromFloats(atr)},
	}
}

func flatSeries(n int, v float64) models.Series {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = v
	}
	return models.FromFloats(vals)
}

func testSettings() models.UserSettings {
	return models.UserSettings{AccountSize: 10000, RiskPercent: 1, Style: models.StyleIntraday}
}

func TestRegistryDispatch(t *testing.T) {
	gate := testGate()
	r := NewRegistry(
		NewRSIReversal(gate, Params{}, stratClock),
		NewEMATrend(gate, Params{}, stratClock),
	)
	if _, ok := r.Get("rsi_reversal"); !ok {
		t.Fatalf("registered evaluator not found")
	}
	if _, ok := r.Get("nope"); ok {
		t.Fatalf("unknown id should miss")
	}
	infos := r.List()
	if len(infos) != 2 || infos[0].ID != "ema_trend" || infos[1].ID != "rsi_reversal" {
		t.Fatalf("list should be sorted by id, got %+v", infos)
	}
}

func TestRegistryDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("duplicate id must panic at wiring time")
		}
	}()
	gate := testGate()
	NewRegistry(
		NewRSIReversal(gate, Params{}, stratClock),
		NewRSIReversal(gate, Params{}, stratClock),
	)
}

func TestLevelsLong(t *testing.T) {
	bars := marketBundle(60).Bars
	p := Params{}.withDefaults()
	stop, target, ok := levels(models.DirectionLong, 1.0850, 0.0012, bars, p)
	if !ok {
		t.Fatalf("expected valid levels")
	}
	if stop >= 1.0850 {
		t.Fatalf("long stop must sit below entry, got %.5f", stop)
	}
	risk := 1.0850 - stop
	if reward := target - 1.0850; reward < p.RewardRatio*risk-1e-9 {
		t.Fatalf("reward %.5f below %.1fx risk %.5f", reward, p.RewardRatio, risk)
	}
}

func TestLevelsZeroATRInvalid(t *testing.T) {
	bars := marketBundle(60).Bars
	// All lows sit at the entry price: no structure and no ATR distance.
	for i := range bars {
		bars[i].Low = 1.0850
	}
	if _, _, ok := levels(models.DirectionLong, 1.0850, 0, bars, Params{}.withDefaults()); ok {
		t.Fatalf("stop at or above entry must be rejected")
	}
}

func TestLevelsShort(t *testing.T) {
	bars := marketBundle(60).Bars
	p := Params{}.withDefaults()
	stop, target, ok := levels(models.DirectionShort, 1.0850, 0.0012, bars, p)
	if !ok {
		t.Fatalf("expected valid levels")
	}
	if stop <= 1.0850 || target >= 1.0850 {
		t.Fatalf("short levels inverted: stop=%.5f target=%.5f", stop, target)
	}
}
