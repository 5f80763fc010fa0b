package gates

import (
	"fmt"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
)

// VolatilityVerdict is the outcome of the volatility gate.
type VolatilityVerdict struct {
	Allowed bool                   `json:"allowed"`
	Level   models.VolatilityLevel `json:"level"`
	Ratio   float64                `json:"ratio"`
	Reason  string                 `json:"reason,omitempty"`
}

// VolatilityConfig sets the classification thresholds on the ratio of
// current ATR to its trailing average.
type VolatilityConfig struct {
	LowRatio     float64
	HighRatio    float64
	ExtremeRatio float64
}

// VolatilityGate classifies current volatility and blocks only at extreme.
// A block here suppresses the decision without starting a cooldown window:
// the market condition, not the signal, caused the suppression.
type VolatilityGate struct {
	cfg VolatilityConfig
}

// NewVolatilityGate creates the gate with sane threshold defaults.
func NewVolatilityGate(cfg VolatilityConfig) *VolatilityGate {
	if cfg.LowRatio <= 0 {
		cfg.LowRatio = 0.6
	}
	if cfg.HighRatio <= 0 {
		cfg.HighRatio = 1.5
	}
	if cfg.ExtremeRatio <= cfg.HighRatio {
		cfg.ExtremeRatio = 2.5
	}
	return &VolatilityGate{cfg: cfg}
}

// Check classifies currentATR against the trailing average of history.
// An empty history reads as normal; only extreme blocks.
func (g *VolatilityGate) Check(symbol string, currentATR float64, history []float64) VolatilityVerdict {
	avg := trailingAverage(history)
	if avg <= 0 || currentATR <= 0 {
		return VolatilityVerdict{Allowed: true, Level: models.VolNormal, Ratio: 1}
	}

	ratio := currentATR / avg
	verdict := VolatilityVerdict{Allowed: true, Ratio: ratio}
	switch {
	case ratio >= g.cfg.ExtremeRatio:
		verdict.Allowed = false
		verdict.Level = models.VolExtreme
		verdict.Reason = fmt.Sprintf("%s ATR %.2fx trailing average", symbol, ratio)
	case ratio >= g.cfg.HighRatio:
		verdict.Level = models.VolHigh
	case ratio <= g.cfg.LowRatio:
		verdict.Level = models.VolLow
	default:
		verdict.Level = models.VolNormal
	}
	return verdict
}

func trailingAverage(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	var n int
	for _, x := range xs {
		if x > 0 {
			sum += x
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
