package instruments

import "testing"

func TestGetSpecCaseInsensitive(t *testing.T) {
	p := NewStaticProvider()
	spec, ok := p.GetSpec("eurusd")
	if !ok || spec.Symbol != "EURUSD" {
		t.Fatalf("lookup should normalize case, got %+v ok=%v", spec, ok)
	}
	if _, ok := p.GetSpec("DOGEUSD"); ok {
		t.Fatalf("unlisted symbol must miss")
	}
}

func TestCryptoSpecsCarryContractSize(t *testing.T) {
	p := NewStaticProvider()
	spec, ok := p.GetSpec("BTCUSD")
	if !ok {
		t.Fatalf("btc spec missing")
	}
	if spec.ContractSize <= 0 {
		t.Fatalf("crypto sizing needs a contract size, got %+v", spec)
	}
}

func TestSymbolsSorted(t *testing.T) {
	p := NewStaticProvider()
	syms := p.Symbols()
	if len(syms) == 0 {
		t.Fatalf("expected built-in symbols")
	}
	for i := 1; i < len(syms); i++ {
		if syms[i] < syms[i-1] {
			t.Fatalf("symbols not sorted: %v", syms)
		}
	}
}
