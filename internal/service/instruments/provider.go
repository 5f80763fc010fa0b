package instruments

import (
	"sort"
	"strings"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
)

// StaticProvider serves instrument specifications from a fixed table.
// Symbols outside the table get no spec at all: sizing must fail closed
// rather than guess a contract multiplier.
type StaticProvider struct {
	specs map[string]models.InstrumentSpec
}

// NewStaticProvider builds the provider with the default table plus any
// overrides.
func NewStaticProvider(overrides ...models.InstrumentSpec) *StaticProvider {
	specs := make(map[string]models.InstrumentSpec, len(defaultSpecs)+len(overrides))
	for _, s := range defaultSpecs {
		specs[s.Symbol] = s
	}
	for _, s := range overrides {
		specs[s.Symbol] = s
	}
	return &StaticProvider{specs: specs}
}

func (p *StaticProvider) GetSpec(symbol string) (*models.InstrumentSpec, bool) {
	s, ok := p.specs[strings.ToUpper(symbol)]
	if !ok {
		return nil, false
	}
	cp := s
	return &cp, true
}

// Symbols returns the known symbols sorted.
func (p *StaticProvider) Symbols() []string {
	out := make([]string, 0, len(p.specs))
	for sym := range p.specs {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

var defaultSpecs = []models.InstrumentSpec{
	{Symbol: "EURUSD", Class: models.ClassForex, PipSize: 0.0001, PipValuePerLot: 10, ContractSize: 100000, Leverage: 30, MinLot: 0.01, MaxLot: 100, LotStep: 0.01, SpreadPips: 0.8, CommissionPerLot: 6},
	{Symbol: "GBPUSD", Class: models.ClassForex, PipSize: 0.0001, PipValuePerLot: 10, ContractSize: 100000, Leverage: 30, MinLot: 0.01, MaxLot: 100, LotStep: 0.01, SpreadPips: 1.1, CommissionPerLot: 6},
	{Symbol: "USDJPY", Class: models.ClassForex, PipSize: 0.01, PipValuePerLot: 6.8, ContractSize: 100000, Leverage: 30, MinLot: 0.01, MaxLot: 100, LotStep: 0.01, SpreadPips: 0.9, CommissionPerLot: 6},
	{Symbol: "AUDUSD", Class: models.ClassForex, PipSize: 0.0001, PipValuePerLot: 10, ContractSize: 100000, Leverage: 30, MinLot: 0.01, MaxLot: 100, LotStep: 0.01, SpreadPips: 1.0, CommissionPerLot: 6},
	{Symbol: "USDCAD", Class: models.ClassForex, PipSize: 0.0001, PipValuePerLot: 7.3, ContractSize: 100000, Leverage: 30, MinLot: 0.01, MaxLot: 100, LotStep: 0.01, SpreadPips: 1.2, CommissionPerLot: 6},
	{Symbol: "XAUUSD", Class: models.ClassMetal, PipSize: 0.1, PipValuePerLot: 10, ContractSize: 100, Leverage: 20, MinLot: 0.01, MaxLot: 50, LotStep: 0.01, SpreadPips: 2.5, CommissionPerLot: 8},
	{Symbol: "XAGUSD", Class: models.ClassMetal, PipSize: 0.01, PipValuePerLot: 50, ContractSize: 5000, Leverage: 10, MinLot: 0.01, MaxLot: 50, LotStep: 0.01, SpreadPips: 3.0, CommissionPerLot: 8},
	{Symbol: "US30", Class: models.ClassIndex, PipSize: 1, PipValuePerLot: 1, ContractSize: 1, Leverage: 20, MinLot: 0.1, MaxLot: 200, LotStep: 0.1, SpreadPips: 2.2, CommissionPerLot: 0},
	{Symbol: "NAS100", Class: models.ClassIndex, PipSize: 1, PipValuePerLot: 1, ContractSize: 1, Leverage: 20, MinLot: 0.1, MaxLot: 200, LotStep: 0.1, SpreadPips: 1.8, CommissionPerLot: 0},
	{Symbol: "BTCUSD", Class: models.ClassCrypto, PipSize: 1, PipValuePerLot: 1, ContractSize: 1, Leverage: 2, MinLot: 0.001, MaxLot: 10, LotStep: 0.001, SpreadPips: 25, CommissionPerLot: 0},
	{Symbol: "ETHUSD", Class: models.ClassCrypto, PipSize: 0.1, PipValuePerLot: 1, ContractSize: 1, Leverage: 2, MinLot: 0.01, MaxLot: 100, LotStep: 0.01, SpreadPips: 1.5, CommissionPerLot: 0},
}
