package strategy

import (
	"context"
	"time"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/services/gates"
)

const (
	rangeBreakoutID = "range_breakout"
	breakoutWindow  = 20
)

// RangeBreakout trades structural breaks: a signal-bar close beyond the
// high/low of the preceding range window.
type RangeBreakout struct {
	gate   *gates.Preflight
	params Params
	now    func() time.Time
}

// NewRangeBreakout creates the breakout evaluator.
func NewRangeBreakout(gate *gates.Preflight, params Params, clock func() time.Time) *RangeBreakout {
	if clock == nil {
		clock = time.Now
	}
	return &RangeBreakout{gate: gate, params: params.withDefaults(), now: clock}
}

func (s *RangeBreakout) ID() string           { return rangeBreakoutID }
func (s *RangeBreakout) Archetype() Archetype { return ArchetypeBreakout }

func (s *RangeBreakout) RequiredIndicators() []string {
	return []string{models.IndATR}
}

func (s *RangeBreakout) Evaluate(_ context.Context, bundle *models.IndicatorBundle, settings models.UserSettings) (*models.Decision, error) {
	now := s.now()

	pf := s.gate.Check(bundle, s.params.MinBars)
	if !pf.OK {
		return models.NoTrade(bundle.Symbol, s.ID(), now, pf.Reason+": "+pf.Detail), nil
	}

	bars := bundle.Bars
	signal, _ := models.SignalBar(bars)
	entry, _ := models.EntryBar(bars)
	atr := bundle.Indicator(models.IndATR).Last().F

	// Range window: the closed bars preceding the signal bar.
	window := bars[:len(bars)-2]
	if len(window) > breakoutWindow {
		window = window[len(window)-breakoutWindow:]
	}
	if len(window) == 0 {
		return models.NoTrade(bundle.Symbol, s.ID(), now, "no range window"), nil
	}
	rangeHigh, rangeLow := window[0].High, window[0].Low
	for _, b := range window[1:] {
		if b.High > rangeHigh {
			rangeHigh = b.High
		}
		if b.Low < rangeLow {
			rangeLow = b.Low
		}
	}

	var dir models.Direction
	sc := &score{}
	switch {
	case signal.Close > rangeHigh:
		dir = models.DirectionLong
		sc.add(pointsPrimaryTrigger, "close above range high")
	case signal.Close < rangeLow:
		dir = models.DirectionShort
		sc.add(pointsPrimaryTrigger, "close below range low")
	default:
		return models.NoTrade(bundle.Symbol, s.ID(), now, "no range break"), nil
	}

	// A close deep in the breakout direction's end of the bar shows
	// conviction rather than a fading wick.
	if r := signal.Range(); r > 0 {
		pos := (signal.Close - signal.Low) / r
		if (dir == models.DirectionLong && pos >= 0.66) || (dir == models.DirectionShort && pos <= 0.34) {
			sc.add(pointsConfirmation, "conviction close")
		}
	}
	if prevATR := bundle.Indicator(models.IndATR).Prev(); prevATR.Present && atr > prevATR.F {
		sc.add(pointsExtreme, "expanding volatility on break")
	}
	align := sc.addTrend(pf.Trend, dir)
	sc.total += pf.ConfidenceDelta

	stop, target, ok := levels(dir, entry.Open, atr, bars, s.params)
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
