package strategy

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/services/gates"
)

// Archetype classifies what kind of setup a rule-set trades.
type Archetype string

const (
	ArchetypeTrend         Archetype = "trend-continuation"
	ArchetypeMeanReversion Archetype = "mean-reversion"
	ArchetypeBreakout      Archetype = "breakout"
	ArchetypeMomentum      Archetype = "momentum"
)

// Evaluator is one trading rule-set. Implementations are pure functions of
// their inputs: no side effects, no shared state.
type Evaluator interface {
	ID() string
	Archetype() Archetype
	RequiredIndicators() []string
	Evaluate(ctx context.Context, bundle *models.IndicatorBundle, settings models.UserSettings) (*models.Decision, error)
}

// Info describes a registered evaluator for API listings.
type Info struct {
	ID         string    `json:"id"`
	Archetype  Archetype `json:"archetype"`
	Indicators []string  `json:"indicators"`
}

// Registry maps strategy ids to evaluators, enabling static dispatch per
// strategy without inheritance chains.
type Registry struct {
	evals map[string]Evaluator
}

// NewRegistry builds a registry from the given evaluators. Duplicate ids
// panic: registration happens once at wiring time and a collision is a
// programming error.
func NewRegistry(evals ...Evaluator) *Registry {
	m := make(map[string]Evaluator, len(evals))
	for _, e := range evals {
		if _, dup := m[e.ID()]; dup {
			panic(fmt.Sprintf("strategy: duplicate evaluator id %q", e.ID()))
		}
		m[e.ID()] = e
	}
	return &Registry{evals: m}
}

// Get returns the evaluator for id.
func (r *Registry) Get(id string) (Evaluator, bool) {
	e, ok := r.evals[id]
	return e, ok
}

// List returns evaluator descriptions sorted by id.
func (r *Registry) List() []Info {
	out := make([]Info, 0, len(r.evals))
	for _, e := range r.evals {
		out = append(out, Info{ID: e.ID(), Archetype: e.Archetype(), Indicators: e.RequiredIndicators()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Params are the shared per-strategy tunables.
type Params struct {
	MinBars       int
	MinConfidence float64
	ATRStopMult   float64
	RewardRatio   float64
	SwingLookback int
}

func (p Params) withDefaults() Params {
	if p.MinBars <= 0 {
		p.MinBars = 50
	}
	if p.MinConfidence <= 0 {
		p.MinConfidence = 50
	}
	if p.ATRStopMult <= 0 {
		p.ATRStopMult = 1.5
	}
	if p.RewardRatio <= 0 {
		p.RewardRatio = 1.8
	}
	if p.SwingLookback <= 0 {
		p.SwingLookback = 10
	}
	return p
}

// Fixed confidence point values. Scores are additive per category and
// clamped to [0,100] before grading.
const (
	pointsPrimaryTrigger = 50.0
	pointsTrendAligned   = 10.0
	pointsTrendAgainst   = -15.0
	pointsConfirmation   = 5.0
	pointsExtreme        = 10.0
	pointsFavorableRisk  = 5.0
)

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

// score accumulates the additive confidence model shared by all rule-sets.
type score struct {
	total   float64
	reasons []string
}

func (s *score) add(points float64, reason string) {
	s.total += points
	s.reasons = append(s.reasons, reason)
}

func (s *score) addTrend(trend gates.TrendContext, dir models.Direction) models.TrendAlignment {
	align := trend.Alignment(dir)
	switch align {
	case models.TrendAligned:
		s.add(pointsTrendAligned, "higher timeframe trend aligned")
	case models.TrendAgainst:
		s.add(pointsTrendAgainst, "against higher timeframe trend")
	}
	return align
}

// levels computes the stop and target for a direction: the stop is the
// tighter of the structural swing level and an ATR multiple, the target a
// fixed risk multiple off the realized stop distance.
func levels(dir models.Direction, entry, atr float64, bars []models.Bar, p Params) (stop, target float64, ok bool) {
	buffer := 0.1 * atr
	switch dir {
	case models.DirectionLong:
		swingStop := SwingLow(bars, p.SwingLookback) - buffer
		atrStop := entry - p.ATRStopMult*atr
		stop = swingStop
		if atrStop > stop {
			stop = atrStop
		}
		if stop >= entry {
			return 0, 0, false
		}
		target = entry + p.RewardRatio*(entry-stop)
	case models.DirectionShort:
		swingStop := SwingHigh(bars, p.SwingLookback) + buffer
		atrStop := entry + p.ATRStopMult*atr
		stop = swingStop
		if atrStop < stop {
			stop = atrStop
		}
		if stop <= entry {
			return 0, 0, false
		}
		target = entry - p.RewardRatio*(entry-stop)
	default:
		return 0, 0, false
	}
	return stop, target, true
}

// compose assembles and validates the final decision. A level set that
// violates the order invariant is downgraded to no-trade rather than
// returned.
func compose(symbol, strategyID string, dir models.Direction, sc *score, trendAlign models.TrendAlignment,
	entry, stop, target float64, now time.Time, style models.Style) *models.Decision {

	conf := clampConfidence(sc.total)
	d := &models.Decision{
		Symbol:      symbol,
		StrategyID:  strategyID,
		Direction:   dir,
		Confidence:  conf,
		Grade:       models.GradeForConfidence(conf),
		Entry:       entry,
		StopLoss:    stop,
		TakeProfit:  target,
		Reasons:     sc.reasons,
		Gating:      models.GatingOutcome{TrendAlignment: trendAlign},
		EvaluatedAt: now,
		ValidUntil:  now.Add(6 * models.BarDuration(style.Timeframe())),
	}
	if err := d.Validate(); err != nil {
		return models.NoTrade(symbol, strategyID, now, "invalid levels: "+err.Error())
	}
	return d
}
