package gates

import (
	"testing"
	"time"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
)

var testNow = time.Date(2025, 6, 2, 13, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

// healthyBundle builds n 15m bars whose entry bar opens just before testNow,
// with a flat ATR series.
func healthyBundle(n int) *models.IndicatorBundle {
	bars := make([]models.Bar, n)
	start := testNow.Add(-time.Duration(n) * 15 * time.Minute)
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

func TestPreflightInsufficientBars(t *testing.T) {
	g := NewPreflight(PreflightConfig{}, testClock)
	res := g.Check(healthyBundle(10), 50)
	if res.OK || res.Reason != RejectInsufficientBars {
		t.Fatalf("expected insufficient_bars, got %+v", res)
	}
}

func TestPreflightUnclosedBars(t *testing.T) {
	g := NewPreflight(PreflightConfig{}, testClock)
	b := healthyBundle(60)
	b.Bars[len(b.Bars)-1].Timestamp = b.Bars[len(b.Bars)-2].Timestamp
	res := g.Check(b, 50)
	if res.OK || res.Reason != RejectBarsNotClosed {
		t.Fatalf("expected bars_not_closed, got %+v", res)
	}
}

func TestPreflightStaleEntry(t *testing.T) {
	g := NewPreflight(PreflightConfig{}, testClock)
	b := healthyBundle(60)
	for i := range b.Bars {
		b.Bars[i].Timestamp = b.Bars[i].Timestamp.Add(-2 * time.Hour)
	}
	res := g.Check(b, 50)
	if res.OK || res.Reason != RejectStaleEntry {
		t.Fatalf("expected stale_entry, got %+v", res)
	}
}

func TestPreflightDeadMarket(t *testing.T) {
	g := NewPreflight(PreflightConfig{ATRFloorPercent: 0.02}, testClock)
	b := healthyBundle(60)
	flat := make([]float64, len(b.Bars))
	for i := range flat {
		flat[i] = 0.00001
	}
	b.Series[models.IndATR] = models.FromFloats(flat)
	res := g.Check(b, 50)
	if res.OK || res.Reason != RejectDeadMarket {
		t.Fatalf("expected dead_market, got %+v", res)
	}

	b.Series[models.IndATR] = nil
	res = g.Check(b, 50)
	if res.OK || res.Reason != RejectDeadMarket {
		t.Fatalf("missing ATR should read as dead market, got %+v", res)
	}
}

func TestPreflightOKWithTrend(t *testing.T) {
	g := NewPreflight(PreflightConfig{}, testClock)
	b := healthyBundle(60)
	n := len(b.Bars)
	fast, slow, adx := make([]float64, n), make([]float64, n), make([]float64, n)
	for i := range fast {
		fast[i], slow[i], adx[i] = 1.0860, 1.0840, 30
	}
	b.Series[IndHTFEMAFast] = models.FromFloats(fast)
	b.Series[IndHTFEMASlow] = models.FromFloats(slow)
	b.Series[IndHTFADX] = models.FromFloats(adx)

	res := g.Check(b, 50)
	if !res.OK {
		t.Fatalf("healthy bundle rejected: %+v", res)
	}
	if res.Trend.Direction != models.DirectionLong || !res.Trend.Strong {
		t.Fatalf("expected strong long trend, got %+v", res.Trend)
	}
	// testNow falls in the London/NY overlap.
	if res.ConfidenceDelta != 5 {
		t.Fatalf("expected overlap session bonus, got %v", res.ConfidenceDelta)
	}
}

func TestPreflightMissingTrendIsNeutral(t *testing.T) {
	g := NewPreflight(PreflightConfig{}, testClock)
	res := g.Check(healthyBundle(60), 50)
	if !res.OK {
		t.Fatalf("healthy bundle rejected: %+v", res)
	}
	if res.Trend.Direction != models.DirectionNone {
		t.Fatalf("absent trend series must be neutral, got %+v", res.Trend)
	}
}

func TestTrendAlignment(t *testing.T) {
	up := TrendContext{Direction: models.DirectionLong}
	if up.Alignment(models.DirectionLong) != models.TrendAligned {
		t.Fatalf("same direction should align")
	}
	if up.Alignment(models.DirectionShort) != models.TrendAgainst {
		t.Fatalf("opposite direction should be against")
	}
	none := TrendContext{Direction: models.DirectionNone}
	if none.Alignment(models.DirectionLong) != models.TrendNeutral {
		t.Fatalf("no trend should be neutral")
	}
}
