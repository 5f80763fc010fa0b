package strategy

import (
	"context"
	"testing"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/services/gates"
)

func TestRSIReversalOversoldHook(t *testing.T) {
	s := NewRSIReversal(testGate(), Params{}, stratClock)
	b := marketBundle(60)
	n := len(b.Bars)

	rsi := flatSeries(n, 50)
	rsi[n-3] = models.Num(22) // falling into oversold
	rsi[n-2] = models.Num(25) // turning back up on the signal bar
	b.Series[models.IndRSI] = rsi

	d, err := s.Evaluate(context.Background(), b, testSettings())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Direction != models.DirectionLong {
		t.Fatalf("expected long, got %s (%v)", d.Direction, d.Reasons)
	}
	if d.Confidence < 50 {
		t.Fatalf("confidence %.1f below actionable floor", d.Confidence)
	}
	if d.Entry != 1.0850 {
		t.Fatalf("entry should be the forming bar's open, got %.5f", d.Entry)
	}
	if d.StopLoss >= d.Entry {
		t.Fatalf("stop %.5f must sit below entry", d.StopLoss)
	}
	if rr := (d.TakeProfit - d.Entry) / (d.Entry - d.StopLoss); rr < 1.2 {
		t.Fatalf("reward ratio %.2f below 1.2", rr)
	}
	if d.Grade == models.GradeNoTrade {
		t.Fatalf("actionable decision must carry a tradable grade")
	}
	if d.ValidUntil.Sub(d.EvaluatedAt) <= 0 {
		t.Fatalf("decision must carry a validity window")
	}
}

func TestRSIReversalOverboughtHook(t *testing.T) {
	s := NewRSIReversal(testGate(), Params{}, stratClock)
	b := marketBundle(60)
	n := len(b.Bars)

	rsi := flatSeries(n, 50)
	rsi[n-3] = models.Num(82) // extreme reading adds points
	rsi[n-2] = models.Num(75)
	b.Series[models.IndRSI] = rsi

	d, err := s.Evaluate(context.Background(), b, testSettings())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Direction != models.DirectionShort {
		t.Fatalf("expected short, got %s (%v)", d.Direction, d.Reasons)
	}
	if !(d.TakeProfit < d.Entry && d.Entry < d.StopLoss) {
		t.Fatalf("short order invariant violated: stop=%.5f entry=%.5f target=%.5f",
			d.StopLoss, d.Entry, d.TakeProfit)
	}
}

func TestRSIReversalNoHook(t *testing.T) {
	s := NewRSIReversal(testGate(), Params{}, stratClock)
	b := marketBundle(60)
	b.Series[models.IndRSI] = flatSeries(len(b.Bars), 50)

	d, err := s.Evaluate(context.Background(), b, testSettings())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Direction != models.DirectionNone || d.Grade != models.GradeNoTrade {
		t.Fatalf("mid-range rsi must not trade, got %+v", d)
	}
}

func TestRSIReversalMissingSeries(t *testing.T) {
	s := NewRSIReversal(testGate(), Params{}, stratClock)
	d, err := s.Evaluate(context.Background(), marketBundle(60), testSettings())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Direction != models.DirectionNone {
		t.Fatalf("absent rsi series must yield no-trade")
	}
}

func TestRSIReversalPreflightRejectPropagates(t *testing.T) {
	s := NewRSIReversal(testGate(), Params{}, stratClock)
	d, err := s.Evaluate(context.Background(), marketBundle(10), testSettings())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Direction != models.DirectionNone || len(d.Reasons) == 0 {
		t.Fatalf("preflight reject should yield an annotated no-trade, got %+v", d)
	}
}

func TestRSIReversalAgainstTrendLosesConfidence(t *testing.T) {
	s := NewRSIReversal(testGate(), Params{MinConfidence: 60}, stratClock)
	b := marketBundle(60)
	n := len(b.Bars)

	rsi := flatSeries(n, 50)
	rsi[n-3] = models.Num(22)
	rsi[n-2] = models.Num(25)
	b.Series[models.IndRSI] = rsi
	// Strong higher-timeframe downtrend against the long hook.
	b.Series[gates.IndHTFEMAFast] = flatSeries(n, 1.0800)
	b.Series[gates.IndHTFEMASlow] = flatSeries(n, 1.0900)
	b.Series[gates.IndHTFADX] = flatSeries(n, 30)

	d, err := s.Evaluate(context.Background(), b, testSettings())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if d.Direction != models.DirectionNone {
		t.Fatalf("counter-trend hook under a raised floor must not trade, got %+v", d)
	}
}
