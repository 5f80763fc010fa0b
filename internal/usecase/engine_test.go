package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/repository"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/service/cache"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/services/gates"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/services/sizing"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/services/strategy"
)

var engNow = time.Date(2025, 6, 2, 13, 0, 0, 0, time.UTC)

// stubIndicators returns a canned bundle per symbol.
type stubIndicators struct {
	bundles map[string]*models.IndicatorBundle
}

func (s *stubIndicators) GetIndicators(_ context.Context, symbol string, _ models.Style) (*models.IndicatorBundle, error) {
	b, ok := s.bundles[symbol]
	if !ok {
		return &models.IndicatorBundle{Symbol: symbol, Timeframe: "15m"}, nil
	}
	return b, nil
}

type stubInstruments map[string]*models.InstrumentSpec

func (m stubInstruments) GetSpec(symbol string) (*models.InstrumentSpec, bool) {
	s, ok := m[symbol]
	return s, ok
}

// hookBundle builds a fresh 15m EURUSD-style bundle with an oversold RSI
// hook on the signal bar. atrLast overrides the signal-bar ATR so a test can
// spike current volatility against the flat 0.0012 history.
func hookBundle(symbol string, atrLast float64) *models.IndicatorBundle {
	n := 60
	bars := make([]models.Bar, n)
	start := engNow.Add(-time.Duration(n) * 15 * time.Minute)
	for i := range bars {
		bars[i] = models.Bar{
			Timestamp: start.Add(time.Duration(i) * 15 * time.Minute),
			Open:      1.0850, High: 1.0860, Low: 1.0840, Close: 1.0855,
		}
	}
	atr := make(models.Series, n)
	rsi := make(models.Series, n)
	for i := range atr {
		atr[i] = models.Num(0.0012)
		rsi[i] = models.Num(50)
	}
	atr[n-2] = models.Num(atrLast)
	rsi[n-3] = models.Num(22)
	rsi[n-2] = models.Num(25)
	return &models.IndicatorBundle{
		Symbol:    symbol,
		Timeframe: "15m",
		Bars:      bars,
		Series:    map[string]models.Series{models.IndATR: atr, models.IndRSI: rsi},
	}
}

func defaultSpec(symbol string) *models.InstrumentSpec {
	return &models.InstrumentSpec{
		Symbol: symbol, Class: models.ClassForex,
		PipSize: 0.0001, PipValuePerLot: 10,
		ContractSize: 100000, Leverage: 30,
		MinLot: 0.01, MaxLot: 100, LotStep: 0.01,
		SpreadPips: 1,
	}
}

type engineFixture struct {
	engine    *ScanEngine
	cooldowns *CooldownTracker
	lifecycle *DetectionLifecycle
	metrics   *nopMetrics
	clock     *fakeClock
}

func newEngineFixture(t *testing.T, indicators *stubIndicators, instruments stubInstruments) *engineFixture {
	t.Helper()
	clock := newFakeClock(engNow)
	log := testLogger(t)
	m := newNopMetrics()

	gate := gates.NewPreflight(gates.PreflightConfig{}, clock.Now)
	reg := strategy.NewRegistry(strategy.NewRSIReversal(gate, strategy.Params{}, clock.Now))
	cds := NewCooldownTracker(nil, log, m, clock.Now)
	store := repository.NewMemoryDetectionStore(repository.MemoryStoreConfig{}, clock.Now)
	lc := NewDetectionLifecycle(store, nil, log, m, clock.Now, LifecycleConfig{})
	locker := NewScanLocker(3, 2*time.Minute, log, m, clock.Now)
	decisions := cache.NewDecisionCache(cache.NewTTLCache(), 5*time.Minute, time.Minute)

	eng := NewScanEngine(reg, indicators, sizing.NewSizer(instruments), gates.NewVolatilityGate(gates.VolatilityConfig{}),
		cds, lc, locker, decisions, log, m, clock.Now)
	return &engineFixture{engine: eng, cooldowns: cds, lifecycle: lc, metrics: m, clock: clock}
}

func TestEvaluatePipeline(t *testing.T) {
	fx := newEngineFixture(t,
		&stubIndicators{bundles: map[string]*models.IndicatorBundle{"EURUSD": hookBundle("EURUSD", 0.0012)}},
		stubInstruments{"EURUSD": defaultSpec("EURUSD")})
	ctx := context.Background()
	settings := models.UserSettings{AccountSize: 10000, RiskPercent: 1, Style: models.StyleIntraday}

	res, err := fx.engine.Evaluate(ctx, []string{"EURUSD"}, "rsi_reversal", settings, models.ScanOptions{})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(res.Decisions) != 1 || len(res.Errors) != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	d := res.Decisions[0]
	if d.Direction != models.DirectionLong || !d.Actionable() {
		t.Fatalf("expected actionable long, got %+v", d)
	}
	if d.PositionSize <= 0 {
		t.Fatalf("actionable decision must carry a position size")
	}

	// The accepted decision starts a cooldown and a detection.
	if len(fx.cooldowns.Snapshot()) != 1 {
		t.Fatalf("expected one cooldown entry")
	}
	dets, total, err := fx.lifecycle.List(ctx, models.DetectionFilter{})
	if err != nil || total != 1 {
		t.Fatalf("expected one detection, got %d (%v)", total, err)
	}
	if dets[0].Status != models.StatusCoolingDown {
		t.Fatalf("detection should be cooling down, got %s", dets[0].Status)
	}

	// Re-running past the cache hits the cooldown gate but keeps direction.
	res, err = fx.engine.Evaluate(ctx, []string{"EURUSD"}, "rsi_reversal", settings, models.ScanOptions{SkipCache: true})
	if err != nil {
		t.Fatalf("second evaluate: %v", err)
	}
	d = res.Decisions[0]
	if !d.Gating.CooldownBlocked {
		t.Fatalf("duplicate signal should be cooldown blocked, got %+v", d)
	}
	if d.Direction != models.DirectionLong || d.Gating.CooldownReason == "" {
		t.Fatalf("blocked decision must keep its direction and explain itself, got %+v", d)
	}
}

func TestEvaluateCacheHit(t *testing.T) {
	fx := newEngineFixture(t,
		&stubIndicators{bundles: map[string]*models.IndicatorBundle{"EURUSD": hookBundle("EURUSD", 0.0012)}},
		stubInstruments{"EURUSD": defaultSpec("EURUSD")})
	ctx := context.Background()
	settings := models.UserSettings{AccountSize: 10000, RiskPercent: 1, Style: models.StyleIntraday}

	if _, err := fx.engine.Evaluate(ctx, []string{"EURUSD"}, "rsi_reversal", settings, models.ScanOptions{}); err != nil {
		t.Fatalf("first evaluate: %v", err)
	}
	res, err := fx.engine.Evaluate(ctx, []string{"EURUSD"}, "rsi_reversal", settings, models.ScanOptions{})
	if err != nil {
		t.Fatalf("second evaluate: %v", err)
	}
	if !res.FromCache["EURUSD"] {
		t.Fatalf("second scan should be served from cache, got %+v", res)
	}
}

func TestEvaluateExtremeVolatilitySkipsCooldown(t *testing.T) {
	// Current ATR more than 2.5x the trailing average.
	fx := newEngineFixture(t,
		&stubIndicators{bundles: map[string]*models.IndicatorBundle{"EURUSD": hookBundle("EURUSD", 0.0040)}},
		stubInstruments{"EURUSD": defaultSpec("EURUSD")})
	ctx := context.Background()
	settings := models.UserSettings{AccountSize: 10000, RiskPercent: 1, Style: models.StyleIntraday}

	res, err := fx.engine.Evaluate(ctx, []string{"EURUSD"}, "rsi_reversal", settings, models.ScanOptions{})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	d := res.Decisions[0]
	if d.Direction != models.DirectionNone || !d.Gating.VolatilityBlocked {
		t.Fatalf("extreme volatility must supersede the decision, got %+v", d)
	}
	if d.Gating.VolatilityLevel != models.VolExtreme {
		t.Fatalf("expected extreme level, got %s", d.Gating.VolatilityLevel)
	}

	// A market-condition suppression never starts a cooldown: the same
	// signal must pass once volatility settles.
	if len(fx.cooldowns.Snapshot()) != 0 {
		t.Fatalf("volatility block must not record a cooldown")
	}
	if fx.metrics.rejects["volatility"] != 1 {
		t.Fatalf("volatility reject should be counted")
	}
}

func TestEvaluateUnknownInstrumentSuppressed(t *testing.T) {
	fx := newEngineFixture(t,
		&stubIndicators{bundles: map[string]*models.IndicatorBundle{"MYSTERY": hookBundle("MYSTERY", 0.0012)}},
		stubInstruments{})
	ctx := context.Background()
	settings := models.UserSettings{AccountSize: 10000, RiskPercent: 1, Style: models.StyleIntraday}

	res, err := fx.engine.Evaluate(ctx, []string{"MYSTERY"}, "rsi_reversal", settings, models.ScanOptions{})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	d := res.Decisions[0]
	if d.Direction != models.DirectionNone {
		t.Fatalf("a symbol without a spec must never size a trade, got %+v", d)
	}
	if fx.metrics.rejects["sizing"] != 1 {
		t.Fatalf("sizing reject should be counted")
	}
}

func TestEvaluateUnknownStrategy(t *testing.T) {
	fx := newEngineFixture(t, &stubIndicators{}, stubInstruments{})
	_, err := fx.engine.Evaluate(context.Background(), []string{"EURUSD"}, "nope",
		models.UserSettings{AccountSize: 10000, RiskPercent: 1, Style: models.StyleIntraday}, models.ScanOptions{})
	if err == nil {
		t.Fatalf("unknown strategy must fail the whole request")
	}
}

func TestEvaluateIsolatesSymbolFailures(t *testing.T) {
	fx := newEngineFixture(t,
		&stubIndicators{bundles: map[string]*models.IndicatorBundle{"EURUSD": hookBundle("EURUSD", 0.0012)}},
		stubInstruments{"EURUSD": defaultSpec("EURUSD")})
	ctx := context.Background()
	settings := models.UserSettings{AccountSize: 10000, RiskPercent: 1, Style: models.StyleIntraday}

	// GBPUSD gets an empty bundle: preflight turns that into a no-trade,
	// not an error, so the batch stays whole.
	res, err := fx.engine.Evaluate(ctx, []string{"EURUSD", "GBPUSD"}, "rsi_reversal", settings, models.ScanOptions{})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(res.Decisions) != 2 {
		t.Fatalf("expected both symbols decided, got %d", len(res.Decisions))
	}
}
