package strategy

import (
	"context"
	"testing"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
)

func TestRangeBreakoutLong(t *testing.T) {
	s := NewRangeBreakout(testGate(), Params{}, stratClock)
	b := marketBundle(60)
	n := len(b.Bars)

	// Signal bar closes above the 20-bar range high with a conviction close.
	b.Bars[n-2] = models.Bar{
		Timestamp: b.Bars[n-2].Timestamp,
		Open:      1.0850, High: 1.0880, Low: 1.0855, Close: 1.0875,
	}

	d, err := s.Evaluate(context.Background(), b, testSettings())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Direction != models.DirectionLong {
		t.Fatalf("expected long break, got %s (%v)", d.Direction, d.Reasons)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("emitted decision violates order invariant: %v", err)
	}
}

func TestRangeBreakoutShort(t *testing.T) {
	s := NewRangeBreakout(testGate(), Params{}, stratClock)
	b := marketBundle(60)
	n := len(b.Bars)

	b.Bars[n-2] = models.Bar{
		Timestamp: b.Bars[n-2].Timestamp,
		Open:      1.0850, High: 1.0852, Low: 1.0820, Close: 1.0825,
	}

	d, err := s.Evaluate(context.Background(), b, testSettings())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Direction != models.DirectionShort {
		t.Fatalf("expected short break, got %s (%v)", d.Direction, d.Reasons)
	}
}

func TestRangeBreakoutInsideRange(t *testing.T) {
	s := NewRangeBreakout(testGate(), Params{}, stratClock)
	d, err := s.Evaluate(context.Background(), marketBundle(60), testSettings())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Direction != models.DirectionNone {
		t.Fatalf("a close inside the range must not trade, got %s", d.Direction)
	}
}
