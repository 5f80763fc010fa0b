package sizing

import (
	"math"
	"testing"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
)

type specMap map[string]*models.InstrumentSpec

func (m specMap) GetSpec(symbol string) (*models.InstrumentSpec, bool) {
	s, ok := m[symbol]
	return s, ok
}

func eurusdSpec() *models.InstrumentSpec {
	return &models.InstrumentSpec{
		Symbol: "EURUSD", Class: models.ClassForex,
		PipSize: 0.0001, PipValuePerLot: 10,
		ContractSize: 100000, Leverage: 30,
		MinLot: 0.01, MaxLot: 100, LotStep: 0.01,
		SpreadPips: 1,
	}
}

func settings(account, riskPct float64) models.UserSettings {
	return models.UserSettings{AccountSize: account, RiskPercent: riskPct, Style: models.StyleIntraday}
}

func TestSizeUnknownSymbolFailsClosed(t *testing.T) {
	s := NewSizer(specMap{})
	res, ok := s.Size("DOGEUSD", 0.1, 0.09, settings(10000, 1))
	if ok || res != nil {
		t.Fatalf("unknown symbol must refuse to size, got %+v ok=%v", res, ok)
	}
}

func TestSizeForex(t *testing.T) {
	s := NewSizer(specMap{"EURUSD": eurusdSpec()})
	// 20 pip stop + 1 pip spread = 21 pips * $10 = $210 per lot.
	// $100 risk budget / $210 = 0.476 lots, floored to 0.47.
	res, ok := s.Size("EURUSD", 1.0850, 1.0830, settings(10000, 1))
	if !ok || !res.IsValid {
		t.Fatalf("expected valid sizing, got %+v ok=%v", res, ok)
	}
	if math.Abs(res.Lots-0.47) > 1e-9 {
		t.Fatalf("expected 0.47 lots, got %v", res.Lots)
	}
	if res.RiskAmount > 100 {
		t.Fatalf("realized risk %.2f exceeds the budget", res.RiskAmount)
	}
	if res.MarginLimited {
		t.Fatalf("small position should not hit the margin cap")
	}
}

func TestSizeCryptoUsesContractSize(t *testing.T) {
	s := NewSizer(specMap{"BTCUSD": {
		Symbol: "BTCUSD", Class: models.ClassCrypto,
		ContractSize: 1, Leverage: 5,
		MinLot: 0.01, MaxLot: 10, LotStep: 0.01,
	}})
	// $1000 stop distance * contract size 1 = $1000 per lot.
	res, ok := s.Size("BTCUSD", 50000, 49000, settings(10000, 1))
	if !ok || !res.IsValid {
		t.Fatalf("expected valid sizing, got %+v ok=%v", res, ok)
	}
	if math.Abs(res.Lots-0.1) > 1e-9 {
		t.Fatalf("expected 0.1 lots, got %v", res.Lots)
	}
}

func TestSizeMarginCap(t *testing.T) {
	spec := eurusdSpec()
	spec.Leverage = 1
	s := NewSizer(specMap{"EURUSD": spec})
	// Unlevered, $10k buys well under the risk-derived lot count.
	res, ok := s.Size("EURUSD", 1.0850, 1.0830, settings(10000, 5))
	if !ok || !res.IsValid {
		t.Fatalf("expected valid sizing, got %+v ok=%v", res, ok)
	}
	if !res.MarginLimited {
		t.Fatalf("expected margin cap to bind, got %+v", res)
	}
	maxByMargin := 10000.0 / (1.0850 * 100000)
	if res.Lots > maxByMargin {
		t.Fatalf("lots %.4f exceed margin capacity %.4f", res.Lots, maxByMargin)
	}
}

func TestSizeBelowMinLot(t *testing.T) {
	s := NewSizer(specMap{"EURUSD": eurusdSpec()})
	// $1 of risk budget cannot buy the 0.01 minimum.
	res, ok := s.Size("EURUSD", 1.0850, 1.0830, settings(100, 1))
	if !ok {
		t.Fatalf("known symbol should size")
	}
	if res.IsValid || res.Lots != 0 {
		t.Fatalf("sub-minimum budget must be invalid, got %+v", res)
	}
	if len(res.Warnings) == 0 {
		t.Fatalf("invalid sizing should explain itself")
	}
}

func TestSizeZeroStopDistance(t *testing.T) {
	s := NewSizer(specMap{"EURUSD": eurusdSpec()})
	res, ok := s.Size("EURUSD", 1.0850, 1.0850, settings(10000, 1))
	if !ok {
		t.Fatalf("known symbol should size")
	}
	if res.IsValid {
		t.Fatalf("zero stop distance must not produce a valid size")
	}
}

func TestRoundToStepFloors(t *testing.T) {
	if got := roundToStep(0.479, 0.01); math.Abs(got-0.47) > 1e-9 {
		t.Fatalf("expected floor to 0.47, got %v", got)
	}
	if got := roundToStep(1.5, 0); got != 1.5 {
		t.Fatalf("zero step should pass through, got %v", got)
	}
}
