package sizing

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/repository"
)

// Sizer converts a candidate decision's risk into a lot size under the
// account's risk budget and the instrument's contract rules.
type Sizer struct {
	instruments repository.InstrumentProvider
}

func NewSizer(instruments repository.InstrumentProvider) *Sizer {
	return &Sizer{instruments: instruments}
}

// Size returns the lot size for a stop placement, or (nil, false) when the
// symbol has no instrument specification. Unknown symbols never size: a
// defaulted per-unit multiplier oversizes crypto positions by orders of
// magnitude, so absence of a spec is a hard refusal.
func (s *Sizer) Size(symbol string, entry, stop float64, settings models.UserSettings) (*models.PositionSizeResult, bool) {
	spec, ok := s.instruments.GetSpec(symbol)
	if !ok {
		return nil, false
	}

	res := &models.PositionSizeResult{}

	stopDistance := math.Abs(entry - stop)
	if stopDistance <= 0 || entry <= 0 {
		res.Warnings = append(res.Warnings, "zero stop distance")
		return res, true
	}

	riskAmount := settings.AccountSize * settings.RiskPercent / 100

	// Per-lot loss if the stop is hit. Crypto contracts price risk directly
	// off contract size; everything else goes through pip math.
	var perLotRisk float64
	if spec.Class == models.ClassCrypto {
		perLotRisk = stopDistance * spec.ContractSize
	} else {
		stopPips := stopDistance/spec.PipSize + spec.SpreadPips
		perLotRisk = stopPips * spec.PipValuePerLot
	}
	perLotRisk += spec.CommissionPerLot
	if perLotRisk <= 0 {
		res.Warnings = append(res.Warnings, "non-positive per-lot risk")
		return res, true
	}

	lots := riskAmount / perLotRisk

	if spec.Leverage > 0 && spec.ContractSize > 0 {
		maxByMargin := (settings.AccountSize * spec.Leverage) / (entry * spec.ContractSize)
		if lots > maxByMargin {
			lots = maxByMargin
			res.MarginLimited = true
			res.Warnings = append(res.Warnings, "position capped by available margin")
		}
	}

	if spec.MaxLot > 0 && lots > spec.MaxLot {
		lots = spec.MaxLot
		res.Warnings = append(res.Warnings, "position capped at instrument max lot")
	}

	lots = roundToStep(lots, spec.LotStep)

	if lots < spec.MinLot {
		res.Lots = 0
		res.IsValid = false
		res.Warnings = append(res.Warnings, "risk budget below minimum tradable lot")
		return res, true
	}

	res.Lots = lots
	res.RiskAmount = lots * perLotRisk
	if spec.Leverage > 0 {
		res.MarginUsed = lots * entry * spec.ContractSize / spec.Leverage
	}
	res.IsValid = true
	return res, true
}

// roundToStep floors lots to the broker's lot increment. Rounding down keeps
// realized risk at or under the requested budget.
func roundToStep(lots, step float64) float64 {
	if step <= 0 {
		return lots
	}
	d := decimal.NewFromFloat(lots)
	st := decimal.NewFromFloat(step)
	stepped := d.Div(st).Floor().Mul(st)
	f, _ := stepped.Float64()
	return f
}
