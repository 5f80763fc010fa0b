package gates

import (
	"testing"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
)

func TestVolatilityLevels(t *testing.T) {
	g := NewVolatilityGate(VolatilityConfig{LowRatio: 0.6, HighRatio: 1.5, ExtremeRatio: 2.5})
	history := []float64{0.0010, 0.0010, 0.0010}

	cases := []struct {
		atr     float64
		level   models.VolatilityLevel
		allowed bool
	}{
		{0.0005, models.VolLow, true},
		{0.0010, models.VolNormal, true},
		{0.0018, models.VolHigh, true},
		{0.0030, models.VolExtreme, false},
	}
	for _, c := range cases {
		v := g.Check("EURUSD", c.atr, history)
		if v.Level != c.level || v.Allowed != c.allowed {
			t.Fatalf("atr %.4f: got level=%s allowed=%v, want level=%s allowed=%v",
				c.atr, v.Level, v.Allowed, c.level, c.allowed)
		}
	}
}

func TestVolatilityEmptyHistory(t *testing.T) {
	g := NewVolatilityGate(VolatilityConfig{})
	v := g.Check("EURUSD", 0.0030, nil)
	if !v.Allowed || v.Level != models.VolNormal {
		t.Fatalf("no trailing history must read as normal, got %+v", v)
	}
}

func TestVolatilityIgnoresNonPositiveSamples(t *testing.T) {
	g := NewVolatilityGate(VolatilityConfig{})
	v := g.Check("EURUSD", 0.0010, []float64{0, -1, 0.0010})
	if v.Ratio != 1 || v.Level != models.VolNormal {
		t.Fatalf("zero samples must not drag the average, got %+v", v)
	}
}

func TestVolatilityOnlyExtremeBlocks(t *testing.T) {
	g := NewVolatilityGate(VolatilityConfig{})
	v := g.Check("GBPUSD", 0.0020, []float64{0.0010})
	if !v.Allowed || v.Level != models.VolHigh {
		t.Fatalf("high volatility must warn, not block: %+v", v)
	}
	v = g.Check("GBPUSD", 0.0030, []float64{0.0010})
	if v.Allowed || v.Reason == "" {
		t.Fatalf("extreme volatility must block with a reason: %+v", v)
	}
}
