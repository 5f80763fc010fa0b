package strategy

import (
	"context"
	"time"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/services/gates"
)

const macdMomentumID = "macd_momentum"

// MACDMomentum trades histogram flips: the MACD histogram crossing zero on
// the signal bar, with the zero-line side as a quality filter.
type MACDMomentum struct {
	gate   *gates.Preflight
	params Params
	now    func() time.Time
}

// NewMACDMomentum creates the momentum evaluator.
func NewMACDMomentum(gate *gates.Preflight, params Params, clock func() time.Time) *MACDMomentum {
	if clock == nil {
		clock = time.Now
	}
	return &MACDMomentum{gate: gate, params: params.withDefaults(), now: clock}
}

func (s *MACDMomentum) ID() string           { return macdMomentumID }
func (s *MACDMomentum) Archetype() Archetype { return ArchetypeMomentum }

func (s *MACDMomentum) RequiredIndicators() []string {
	return []string{models.IndMACD, models.IndMACDSig, models.IndMACDHist, models.IndATR}
}

func (s *MACDMomentum) Evaluate(_ context.Context, bundle *models.IndicatorBundle, settings models.UserSettings) (*models.Decision, error) {
	now := s.now()

	pf := s.gate.Check(bundle, s.params.MinBars)
	if !pf.OK {
		return models.NoTrade(bundle.Symbol, s.ID(), now, pf.Reason+": "+pf.Detail), nil
	}

	hist := bundle.Indicator(models.IndMACDHist)
	last, prev := hist.Last(), hist.Prev()
	if !last.Present || !prev.Present {
		return models.NoTrade(bundle.Symbol, s.ID(), now, "macd histogram unavailable"), nil
	}

	var dir models.Direction
	sc := &score{}
	switch {
	case prev.F <= 0 && last.F > 0:
		dir = models.DirectionLong
		sc.add(pointsPrimaryTrigger, "macd histogram flipped positive")
	case prev.F >= 0 && last.F < 0:
		dir = models.DirectionShort
		sc.add(pointsPrimaryTrigger, "macd histogram flipped negative")
	default:
		return models.NoTrade(bundle.Symbol, s.ID(), now, "no histogram flip"), nil
	}

	if macd := bundle.Indicator(models.IndMACD).Last(); macd.Present {
		if (dir == models.DirectionLong && macd.F > 0) || (dir == models.DirectionShort && macd.F < 0) {
			sc.add(pointsExtreme, "macd on trend side of zero line")
		}
	}

	signal, _ := models.SignalBar(bundle.Bars)
	entry, _ := models.EntryBar(bundle.Bars)
	atr := bundle.Indicator(models.IndATR).Last().F

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
