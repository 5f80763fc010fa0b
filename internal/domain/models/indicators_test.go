package models

import (
	"testing"
	"time"
)

func testBars(n int) []Bar {
	start := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	bars := make([]Bar, n)
	for i := range bars {
		bars[i] = Bar{
			Timestamp: start.Add(time.Duration(i) * 15 * time.Minute),
			Open:      1.08, High: 1.081, Low: 1.079, Close: 1.0805,
		}
	}
	return bars
}

func TestSeriesSignalAlignment(t *testing.T) {
	s := FromFloats([]float64{10, 20, 30, 40})
	if got := s.Last(); got.F != 30 {
		t.Fatalf("Last should read the signal bar value, got %v", got.F)
	}
	if got := s.Prev(); got.F != 20 {
		t.Fatalf("Prev should read one bar earlier, got %v", got.F)
	}
	if Series(nil).Last().Present {
		t.Fatalf("empty series must read missing")
	}
}

func TestValueZeroIsPresent(t *testing.T) {
	v := Num(0)
	if !v.Present || v.F != 0 {
		t.Fatalf("an exact zero reading is a legitimate value")
	}
	if Missing.Present {
		t.Fatalf("missing sentinel must not be present")
	}
}

func TestAlignTrimsLongerSeries(t *testing.T) {
	ib := &IndicatorBundle{
		Bars:   testBars(3),
		Series: map[string]Series{IndRSI: FromFloats([]float64{1, 2, 3, 4, 5})},
	}
	ib.Align()
	s := ib.Indicator(IndRSI)
	if len(s) != 3 {
		t.Fatalf("expected 3 values after trim, got %d", len(s))
	}
	if s[0].F != 3 || s[2].F != 5 {
		t.Fatalf("trim must drop oldest values, got %v", s)
	}
}

func TestAlignPadsShorterSeries(t *testing.T) {
	ib := &IndicatorBundle{
		Bars:   testBars(4),
		Series: map[string]Series{IndATR: FromFloats([]float64{7, 8})},
	}
	ib.Align()
	s := ib.Indicator(IndATR)
	if len(s) != 4 {
		t.Fatalf("expected 4 values after pad, got %d", len(s))
	}
	if s[0].Present || s[1].Present {
		t.Fatalf("front padding must be missing, got %v", s)
	}
	if s[2].F != 7 || s[3].F != 8 {
		t.Fatalf("newest values must stay aligned, got %v", s)
	}
}

func TestSignalAndEntryBar(t *testing.T) {
	bars := testBars(5)
	signal, ok := SignalBar(bars)
	if !ok || !signal.Timestamp.Equal(bars[3].Timestamp) {
		t.Fatalf("signal bar should be N-2")
	}
	entry, ok := EntryBar(bars)
	if !ok || !entry.Timestamp.Equal(bars[4].Timestamp) {
		t.Fatalf("entry bar should be N-1")
	}
	if _, ok := SignalBar(bars[:1]); ok {
		t.Fatalf("one bar cannot yield a signal bar")
	}
}
