package strategy

import (
	"context"
	"testing"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
)

func TestMACDMomentumFlipPositive(t *testing.T) {
	s := NewMACDMomentum(testGate(), Params{}, stratClock)
	b := marketBundle(60)
	n := len(b.Bars)

	hist := flatSeries(n, -0.0001)
	hist[n-2] = models.Num(0.0002)
	b.Series[models.IndMACDHist] = hist
	b.Series[models.IndMACD] = flatSeries(n, 0.0005) // trend side of zero

	d, err := s.Evaluate(context.Background(), b, testSettings())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Direction != models.DirectionLong {
		t.Fatalf("expected long on positive flip, got %s (%v)", d.Direction, d.Reasons)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("emitted decision violates order invariant: %v", err)
	}
}

func TestMACDMomentumFlipNegative(t *testing.T) {
	s := NewMACDMomentum(testGate(), Params{}, stratClock)
	b := marketBundle(60)
	n := len(b.Bars)

	hist := flatSeries(n, 0.0001)
	hist[n-2] = models.Num(-0.0002)
	b.Series[models.IndMACDHist] = hist
	b.Series[models.IndMACD] = flatSeries(n, -0.0005)

	d, err := s.Evaluate(context.Background(), b, testSettings())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Direction != models.DirectionShort {
		t.Fatalf("expected short on negative flip, got %s (%v)", d.Direction, d.Reasons)
	}
}

func TestMACDMomentumNoFlip(t *testing.T) {
	s := NewMACDMomentum(testGate(), Params{}, stratClock)
	b := marketBundle(60)
	b.Series[models.IndMACDHist] = flatSeries(len(b.Bars), 0.0001)

	d, err := s.Evaluate(context.Background(), b, testSettings())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Direction != models.DirectionNone {
		t.Fatalf("a histogram holding its sign must not trade, got %s", d.Direction)
	}
}

func TestSwingLevelsExcludeFormingBar(t *testing.T) {
	bars := marketBundle(20).Bars
	n := len(bars)
	bars[n-1].Low = 1.0000  // forming bar must not set the swing low
	bars[n-1].High = 1.2000 // nor the swing high
	if low := SwingLow(bars, 10); low != 1.0840 {
		t.Fatalf("swing low read the forming bar: %.4f", low)
	}
	if high := SwingHigh(bars, 10); high != 1.0860 {
		t.Fatalf("swing high read the forming bar: %.4f", high)
	}
}
