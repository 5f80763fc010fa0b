package models

// InstrumentClass selects the sizing branch. Crypto sizing must use contract
// size, not pip math.
type InstrumentClass string

const (
	ClassForex  InstrumentClass = "forex"
	ClassMetal  InstrumentClass = "metal"
	ClassIndex  InstrumentClass = "index"
	ClassCrypto InstrumentClass = "crypto"
)

// InstrumentSpec holds the static per-symbol contract rules sizing depends
// on.
type InstrumentSpec struct {
	Symbol           string          `json:"symbol"`
	Class            InstrumentClass `json:"class"`
	PipSize          float64         `json:"pip_size"`
	PipValuePerLot   float64         `json:"pip_value_per_lot"`
	ContractSize     float64         `json:"contract_size"`
	Leverage         float64         `json:"leverage"`
	MinLot           float64         `json:"min_lot"`
	MaxLot           float64         `json:"max_lot"`
	LotStep          float64         `json:"lot_step"`
	SpreadPips       float64         `json:"spread_pips"`
	CommissionPerLot float64         `json:"commission_per_lot"`
}

// PositionSizeResult is what the sizer returns for a candidate decision.
type PositionSizeResult struct {
	Lots          float64  `json:"lots"`
	RiskAmount    float64  `json:"risk_amount"`
	MarginUsed    float64  `json:"margin_used"`
	MarginLimited bool     `json:"margin_limited"`
	IsValid       bool     `json:"is_valid"`
	Warnings      []string `json:"warnings,omitempty"`
}
