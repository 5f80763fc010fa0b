package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/repository"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/service/cache"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/services/gates"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/services/sizing"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/services/strategy"
	"github.com/URF365LLC/forex-decision-engine--sub001/pkg/logger"
)

// atrHistoryWindow bounds the trailing ATR sample fed to the volatility
// gate.
const atrHistoryWindow = 20

// ScanEngine runs the full decision pipeline for one strategy across a
// symbol list: cache, indicators, evaluation, sizing, volatility and
// cooldown gates, then promotion into the detection store. Per-symbol
// failures are isolated; one bad symbol never aborts the batch.
type ScanEngine struct {
	registry   *strategy.Registry
	indicators repository.IndicatorProvider
	sizer      *sizing.Sizer
	volGate    *gates.VolatilityGate
	cooldowns  *CooldownTracker
	lifecycle  *DetectionLifecycle
	locker     *ScanLocker
	decisions  *cache.DecisionCache
	log        *logger.Logger
	metrics    repository.Metrics
	now        repository.Clock
}

func NewScanEngine(
	registry *strategy.Registry,
	indicators repository.IndicatorProvider,
	sizer *sizing.Sizer,
	volGate *gates.VolatilityGate,
	cooldowns *CooldownTracker,
	lifecycle *DetectionLifecycle,
	locker *ScanLocker,
	decisions *cache.DecisionCache,
	log *logger.Logger,
	metrics repository.Metrics,
	clock repository.Clock,
) *ScanEngine {
	if clock == nil {
		clock = time.Now
	}
	return &ScanEngine{
		registry:   registry,
		indicators: indicators,
		sizer:      sizer,
		volGate:    volGate,
		cooldowns:  cooldowns,
		lifecycle:  lifecycle,
		locker:     locker,
		decisions:  decisions,
		log:        log,
		metrics:    metrics,
		now:        clock,
	}
}

// Strategies lists the registered evaluators.
func (e *ScanEngine) Strategies() []strategy.Info {
	return e.registry.List()
}

// Cooldowns exposes the tracker for the status API.
func (e *ScanEngine) Cooldowns() *CooldownTracker { return e.cooldowns }

// Locks exposes the scan locker for the status API.
func (e *ScanEngine) Locks() *ScanLocker { return e.locker }

// Evaluate is the single entry point the API layer calls. It holds the
// strategy's scan lock for the duration of the batch.
func (e *ScanEngine) Evaluate(ctx context.Context, symbols []string, strategyID string, settings models.UserSettings, opts models.ScanOptions) (*models.ScanResult, error) {
	eval, ok := e.registry.Get(strategyID)
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", strategyID)
	}

	if err := e.locker.Acquire(strategyID, len(symbols), opts.Force); err != nil {
		return nil, err
	}
	defer e.locker.Release(strategyID)

	started := e.now()
	result := &models.ScanResult{
		StrategyID: strategyID,
		Decisions:  make([]*models.Decision, 0, len(symbols)),
		Errors:     make(map[string]string),
		FromCache:  make(map[string]bool),
		StartedAt:  started,
	}

	for _, symbol := range symbols {
		select {
		case <-ctx.Done():
			result.Errors[symbol] = ctx.Err().Error()
			continue
		default:
		}

		if !opts.SkipCache {
			if cached, hit := e.decisions.Get(symbol, strategyID); hit {
				e.metrics.RecordCacheLookup(true)
				result.FromCache[symbol] = true
				result.Decisions = append(result.Decisions, cached)
				continue
			}
			e.metrics.RecordCacheLookup(false)
		}

		d, err := e.evaluateSymbol(ctx, eval, symbol, settings, opts)
		if err != nil {
			result.Errors[symbol] = err.Error()
			e.log.Warn("symbol evaluation failed",
				logger.String("symbol", symbol),
				logger.String("strategy", strategyID),
				logger.Error(err))
			continue
		}

		e.decisions.Put(d)
		e.metrics.RecordDecision(strategyID, string(d.Direction), string(d.Grade))
		result.Decisions = append(result.Decisions, d)
	}

	result.Duration = e.now().Sub(started)
	outcome := "ok"
	if len(result.Errors) > 0 {
		outcome = "partial"
	}
	e.metrics.RecordScan(strategyID, outcome, result.Duration.Seconds())
	e.log.Info("scan complete",
		logger.String("strategy", strategyID),
		logger.Int("symbols", len(symbols)),
		logger.Int("decisions", len(result.Decisions)),
		logger.Int("errors", len(result.Errors)),
		logger.Duration("took", result.Duration))
	return result, nil
}

// evaluateSymbol runs the pipeline for one symbol. It always returns a
// decision on success; gate failures come back as annotated or no-trade
// decisions, never nil.
func (e *ScanEngine) evaluateSymbol(ctx context.Context, eval strategy.Evaluator, symbol string, settings models.UserSettings, opts models.ScanOptions) (*models.Decision, error) {
	bundle, err := e.indicators.GetIndicators(ctx, symbol, settings.Style)
	if err != nil {
		return nil, fmt.Errorf("fetch indicators: %w", err)
	}
	bundle.Align()

	d, err := eval.Evaluate(ctx, bundle, settings)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", eval.ID(), err)
	}
	if d.Direction == models.DirectionNone {
		return d, nil
	}

	sized, known := e.sizer.Size(symbol, d.Entry, d.StopLoss, settings)
	if !known {
		e.metrics.RecordGateReject("sizing", "unknown_instrument")
		return suppress(d, e.now(), "no instrument specification for "+symbol), nil
	}
	if !sized.IsValid {
		e.metrics.RecordGateReject("sizing", "below_min_lot")
		return suppress(d, e.now(), sized.Warnings...), nil
	}
	d.PositionSize = sized.Lots

	// Volatility before cooldown: an extreme-volatility suppression must
	// never start a cooldown window.
	if !opts.SkipVolatility {
		atr := bundle.Indicator(models.IndATR)
		verdict := e.volGate.Check(symbol, atr.Last().F, atrHistory(atr))
		d.Gating.VolatilityLevel = verdict.Level
		if !verdict.Allowed {
			e.metrics.RecordGateReject("volatility", string(verdict.Level))
			s := suppress(d, e.now(), verdict.Reason)
			s.Gating.VolatilityBlocked = true
			s.Gating.VolatilityLevel = verdict.Level
			return s, nil
		}
	}

	if !opts.SkipCooldown {
		verdict := e.cooldowns.Check(symbol, settings.Style, d.StrategyID, d.Direction, d.Grade)
		if !verdict.Allowed {
			e.metrics.RecordGateReject("cooldown", "duplicate")
			d.Gating.CooldownBlocked = true
			d.Gating.CooldownReason = verdict.Reason
			return d, nil
		}
	}

	e.cooldowns.Record(ctx, symbol, settings.Style, d.StrategyID, d.Direction, d.Grade, d.ValidUntil)
	if _, err := e.lifecycle.PromoteDecision(ctx, d, settings.Style); err != nil {
		e.log.Warn("detection promotion failed",
			logger.String("symbol", symbol), logger.Error(err))
	}
	return d, nil
}

// suppress supersedes a candidate with a no-trade decision carrying both the
// original reasoning and the suppression cause.
func suppress(d *models.Decision, now time.Time, reasons ...string) *models.Decision {
	out := models.NoTrade(d.Symbol, d.StrategyID, now, append(append([]string{}, d.Reasons...), reasons...)...)
	out.Gating.TrendAlignment = d.Gating.TrendAlignment
	return out
}

// atrHistory collects the present ATR readings before the signal bar,
// bounded to the trailing window.
func atrHistory(s models.Series) []float64 {
	end := len(s) - 2
	if end <= 0 {
		return nil
	}
	start := end - atrHistoryWindow
	if start < 0 {
		start = 0
	}
	out := make([]float64, 0, end-start)
	for i := start; i < end; i++ {
		if v := s.At(i); v.Present {
			out = append(out, v.F)
		}
	}
	return out
}
