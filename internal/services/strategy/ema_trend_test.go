package strategy

import (
	"context"
	"testing"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
)

func TestEMATrendCrossover(t *testing.T) {
	s := NewEMATrend(testGate(), Params{}, stratClock)
	b := marketBundle(60)
	n := len(b.Bars)

	fast := flatSeries(n, 1.0845)
	fast[n-2] = models.Num(1.0855) // crosses above slow on the signal bar
	b.Series[models.IndEMAFast] = fast
	b.Series[models.IndEMASlow] = flatSeries(n, 1.0850)
	b.Series[models.IndADX] = flatSeries(n, 30)

	d, err := s.Evaluate(context.Background(), b, testSettings())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Direction != models.DirectionLong {
		t.Fatalf("expected long on bullish crossover, got %s (%v)", d.Direction, d.Reasons)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("emitted decision violates order invariant: %v", err)
	}
}

func TestEMATrendPullback(t *testing.T) {
	s := NewEMATrend(testGate(), Params{}, stratClock)
	b := marketBundle(60)
	n := len(b.Bars)

	// Fast above slow throughout; the signal bar dips to the fast EMA and
	// closes back above it.
	b.Series[models.IndEMAFast] = flatSeries(n, 1.0845)
	b.Series[models.IndEMASlow] = flatSeries(n, 1.0830)

	d, err := s.Evaluate(context.Background(), b, testSettings())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Direction != models.DirectionLong {
		t.Fatalf("expected long on pullback resolution, got %s (%v)", d.Direction, d.Reasons)
	}
}

func TestEMATrendNoTrigger(t *testing.T) {
	s := NewEMATrend(testGate(), Params{}, stratClock)
	b := marketBundle(60)
	n := len(b.Bars)

	// Fast below slow with no cross and no pullback geometry.
	b.Series[models.IndEMAFast] = flatSeries(n, 1.0900)
	b.Series[models.IndEMASlow] = flatSeries(n, 1.0920)

	d, err := s.Evaluate(context.Background(), b, testSettings())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Direction != models.DirectionNone {
		t.Fatalf("expected no-trade, got %s", d.Direction)
	}
}

func TestEMATrendMissingSeries(t *testing.T) {
	s := NewEMATrend(testGate(), Params{}, stratClock)
	d, err := s.Evaluate(context.Background(), marketBundle(60), testSettings())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Direction != models.DirectionNone {
		t.Fatalf("absent ema pair must yield no-trade")
	}
}
