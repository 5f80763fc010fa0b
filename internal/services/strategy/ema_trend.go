package strategy

import (
	"context"
	"time"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/services/gates"
)

const emaTrendID = "ema_trend"

// EMATrend trades continuation setups: a fast/slow EMA crossover on the
// signal bar, or a pullback into the fast EMA that resolves back in the
// trend direction.
type EMATrend struct {
	gate   *gates.Preflight
	params Params
	now    func() time.Time
}

// NewEMATrend creates the trend-continuation evaluator.
func NewEMATrend(gate *gates.Preflight, params Params, clock func() time.Time) *EMATrend {
	if clock == nil {
		clock = time.Now
	}
	return &EMATrend{gate: gate, params: params.withDefaults(), now: clock}
}

func (s *EMATrend) ID() string           { return emaTrendID }
func (s *EMATrend) Archetype() Archetype { return ArchetypeTrend }

func (s *EMATrend) RequiredIndicators() []string {
	return []string{models.IndEMAFast, models.IndEMASlow, models.IndADX, models.IndATR}
}

func (s *EMATrend) Evaluate(_ context.Context, bundle *models.IndicatorBundle, settings models.UserSettings) (*models.Decision, error) {
	now := s.now()

	pf := s.gate.Check(bundle, s.params.MinBars)
	if !pf.OK {
		return models.NoTrade(bundle.Symbol, s.ID(), now, pf.Reason+": "+pf.Detail), nil
	}

	fast := bundle.Indicator(models.IndEMAFast)
	slow := bundle.Indicator(models.IndEMASlow)
	if !fast.Last().Present || !slow.Last().Present || !fast.Prev().Present || !slow.Prev().Present {
		return models.NoTrade(bundle.Symbol, s.ID(), now, "ema pair unavailable"), nil
	}

	signal, _ := models.SignalBar(bundle.Bars)
	entry, _ := models.EntryBar(bundle.Bars)
	atr := bundle.Indicator(models.IndATR).Last().F

	crossedUp := fast.Prev().F <= slow.Prev().F && fast.Last().F > slow.Last().F
	crossedDown := fast.Prev().F >= slow.Prev().F && fast.Last().F < slow.Last().F
	pullbackLong := fast.Last().F > slow.Last().F && signal.Low <= fast.Last().F && signal.Close > fast.Last().F
	pullbackShort := fast.Last().F < slow.Last().F && signal.High >= fast.Last().F && signal.Close < fast.Last().F

	var dir models.Direction
	sc := &score{}
	switch {
	case crossedUp:
		dir = models.DirectionLong
		sc.add(pointsPrimaryTrigger, "fast ema crossed above slow")
	case crossedDown:
		dir = models.DirectionShort
		sc.add(pointsPrimaryTrigger, "fast ema crossed below slow")
	case pullbackLong:
		dir = models.DirectionLong
		sc.add(pointsPrimaryTrigger, "pullback to fast ema resolved up")
	case pullbackShort:
		dir = models.DirectionShort
		sc.add(pointsPrimaryTrigger, "pullback to fast ema resolved down")
	default:
		return models.NoTrade(bundle.Symbol, s.ID(), now, "no trend trigger"), nil
	}

	if adx := bundle.Indicator(models.IndADX).Last(); adx.Present && adx.F >= 25 {
		sc.add(pointsExtreme, "strong adx trend reading")
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
