package strategy

import (
	"context"
	"time"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/services/gates"
)

const (
	rsiOversold    = 30.0
	rsiOverbought  = 70.0
	rsiExtremeLow  = 20.0
	rsiExtremeHigh = 80.0
	rsiReversalID  = "rsi_reversal"
)

// RSIReversal trades oversold/overbought hooks: an RSI extreme on the signal
// bar turning back toward the mean.
type RSIReversal struct {
	gate   *gates.Preflight
	params Params
	now    func() time.Time
}

// NewRSIReversal creates the mean-reversion evaluator.
func NewRSIReversal(gate *gates.Preflight, params Params, clock func() time.Time) *RSIReversal {
	if clock == nil {
		clock = time.Now
	}
	return &RSIReversal{gate: gate, params: params.withDefaults(), now: clock}
}

func (s *RSIReversal) ID() string           { return rsiReversalID }
func (s *RSIReversal) Archetype() Archetype { return ArchetypeMeanReversion }

func (s *RSIReversal) RequiredIndicators() []string {
	return []string{models.IndRSI, models.IndATR}
}

func (s *RSIReversal) Evaluate(_ context.Context, bundle *models.IndicatorBundle, settings models.UserSettings) (*models.Decision, error) {
	now := s.now()

	pf := s.gate.Check(bundle, s.params.MinBars)
	if !pf.OK {
		return models.NoTrade(bundle.Symbol, s.ID(), now, pf.Reason+": "+pf.Detail), nil
	}

	rsi := bundle.Indicator(models.IndRSI)
	last, prev := rsi.Last(), rsi.Prev()
	if !last.Present || !prev.Present {
		return models.NoTrade(bundle.Symbol, s.ID(), now, "rsi unavailable"), nil
	}

	var dir models.Direction
	switch {
	case last.F < rsiOversold && last.F > prev.F:
		dir = models.DirectionLong
	case last.F > rsiOverbought && last.F < prev.F:
		dir = models.DirectionShort
	default:
		return models.NoTrade(bundle.Symbol, s.ID(), now, "no rsi hook"), nil
	}

	signal, _ := models.SignalBar(bundle.Bars)
	entry, _ := models.EntryBar(bundle.Bars)
	atr := bundle.Indicator(models.IndATR).Last().F

	sc := &score{}
	if dir == models.DirectionLong {
		sc.add(pointsPrimaryTrigger, "rsi oversold hook turning up")
	} else {
		sc.add(pointsPrimaryTrigger, "rsi overbought hook turning down")
	}
	if prev.F < rsiExtremeLow || prev.F > rsiExtremeHigh {
		sc.add(pointsExtreme, "rsi extreme reading")
	}
	align := sc.addTrend(pf.Trend, dir)
	if (dir == models.DirectionLong && signal.Bullish()) || (dir == models.DirectionShort && signal.Bearish()) {
		sc.add(pointsConfirmation, "confirmation candle")
	}
	sc.total += pf.ConfidenceDelta

	stop, target, ok := levels(dir, entry.Open, atr, bundle.Bars, s.params)
	if !ok {
		return models.NoTrade(bundle.Symbol, s.ID(), now, "no valid stop level"), nil
	}
	if risk := absDiff(entry.Open, stop); risk > 0 && risk <= s.params.ATRStopMult*atr {
		sc.add(pointsFavorableRisk, "tight structural risk")
	}

	if clampConfidence(sc.total) < s.params.MinConfidence {
		return models.NoTrade(bundle.Symbol, s.ID(), now, "confidence below minimum"), nil
	}

	return compose(bundle.Symbol, s.ID(), dir, sc, align, entry.Open, stop, target, now, settings.Style), nil
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
