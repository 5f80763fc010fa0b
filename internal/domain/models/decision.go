package models

import (
	"fmt"
	"time"
)

// Direction of a proposed trade.
type Direction string

const (
	DirectionNone  Direction = "none"
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// Grade is a discrete signal-quality tier with a total order used for
// cooldown upgrade comparisons.
type Grade string

const (
	GradeNoTrade Grade = "no_trade"
	GradeC       Grade = "C"
	GradeB       Grade = "B"
	GradeBPlus   Grade = "B+"
	GradeA       Grade = "A"
	GradeAPlus   Grade = "A+"
)

var gradeRanks = map[Grade]int{
	GradeNoTrade: 0,
	GradeC:       1,
	GradeB:       2,
	GradeBPlus:   3,
	GradeA:       4,
	GradeAPlus:   5,
}

// Rank returns the grade's position in the total order; unknown grades rank
// lowest.
func (g Grade) Rank() int { return gradeRanks[g] }

// GradeForConfidence maps a clamped confidence score to a grade tier.
func GradeForConfidence(confidence float64) Grade {
	switch {
	case confidence >= 90:
		return GradeAPlus
	case confidence >= 80:
		return GradeA
	case confidence >= 70:
		return GradeBPlus
	case confidence >= 60:
		return GradeB
	case confidence >= 50:
		return GradeC
	default:
		return GradeNoTrade
	}
}

// TrendAlignment describes how the higher-timeframe trend relates to the
// proposed direction.
type TrendAlignment string

const (
	TrendAligned TrendAlignment = "aligned"
	TrendAgainst TrendAlignment = "against"
	TrendNeutral TrendAlignment = "neutral"
)

// GatingOutcome records what the post-evaluation gates did to a decision. It
// travels with the Decision and is never stored independently.
type GatingOutcome struct {
	CooldownBlocked   bool            `json:"cooldown_blocked"`
	CooldownReason    string          `json:"cooldown_reason,omitempty"`
	VolatilityBlocked bool            `json:"volatility_blocked"`
	VolatilityLevel   VolatilityLevel `json:"volatility_level,omitempty"`
	TrendAlignment    TrendAlignment  `json:"trend_alignment,omitempty"`
}

// VolatilityLevel classifies current ATR against its trailing average.
type VolatilityLevel string

const (
	VolLow     VolatilityLevel = "low"
	VolNormal  VolatilityLevel = "normal"
	VolHigh    VolatilityLevel = "high"
	VolExtreme VolatilityLevel = "extreme"
)

// Decision is the ephemeral output of one evaluation cycle for one
// (symbol, strategy) pair. It is recomputed every cycle and never mutated
// after creation, only superseded.
type Decision struct {
	Symbol       string        `json:"symbol"`
	StrategyID   string        `json:"strategy_id"`
	Direction    Direction     `json:"direction"`
	Confidence   float64       `json:"confidence"`
	Grade        Grade         `json:"grade"`
	Entry        float64       `json:"entry,omitempty"`
	StopLoss     float64       `json:"stop_loss,omitempty"`
	TakeProfit   float64       `json:"take_profit,omitempty"`
	PositionSize float64       `json:"position_size,omitempty"`
	Reasons      []string      `json:"reasons,omitempty"`
	Gating       GatingOutcome `json:"gating"`
	EvaluatedAt  time.Time     `json:"evaluated_at"`
	ValidUntil   time.Time     `json:"valid_until,omitempty"`
}

// Actionable reports whether the decision proposes a trade that survived all
// gates.
func (d *Decision) Actionable() bool {
	return d != nil &&
		d.Direction != DirectionNone &&
		!d.Gating.CooldownBlocked &&
		!d.Gating.VolatilityBlocked
}

// Validate enforces the order invariant: stop beyond entry against the trade
// direction, target beyond entry in the trade direction. A violating decision
// must never reach a caller.
func (d *Decision) Validate() error {
	switch d.Direction {
	case DirectionNone:
		return nil
	case DirectionLong:
		if !(d.StopLoss < d.Entry && d.Entry < d.TakeProfit) {
			return fmt.Errorf("long order invariant violated: stop=%.5f entry=%.5f target=%.5f",
				d.StopLoss, d.Entry, d.TakeProfit)
		}
	case DirectionShort:
		if !(d.TakeProfit < d.Entry && d.Entry < d.StopLoss) {
			return fmt.Errorf("short order invariant violated: stop=%.5f entry=%.5f target=%.5f",
				d.StopLoss, d.Entry, d.TakeProfit)
		}
	default:
		return fmt.Errorf("unknown direction %q", d.Direction)
	}
	return nil
}

// NoTrade builds a non-actionable decision carrying the reasons it was
// suppressed.
func NoTrade(symbol, strategyID string, now time.Time, reasons ...string) *Decision {
	return &Decision{
		Symbol:      symbol,
		StrategyID:  strategyID,
		Direction:   DirectionNone,
		Grade:       GradeNoTrade,
		Reasons:     reasons,
		EvaluatedAt: now,
	}
}
