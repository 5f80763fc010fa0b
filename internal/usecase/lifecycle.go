package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/repository"
	"github.com/URF365LLC/forex-decision-engine--sub001/pkg/logger"
)

// LifecycleConfig tunes detection creation and expiry.
type LifecycleConfig struct {
	CooldownWindow time.Duration
	ValidityBars   int
}

// DetectionLifecycle persists accepted decisions as detections and drives
// their status state machine. New detections start in cooling_down; the
// sweep promotes them to eligible and expires stale ones.
type DetectionLifecycle struct {
	store   repository.DetectionStore
	pub     repository.DetectionPublisher
	log     *logger.Logger
	metrics repository.Metrics
	now     repository.Clock
	cfg     LifecycleConfig
}

func NewDetectionLifecycle(store repository.DetectionStore, pub repository.DetectionPublisher,
	log *logger.Logger, metrics repository.Metrics, clock repository.Clock, cfg LifecycleConfig) *DetectionLifecycle {

	if clock == nil {
		clock = time.Now
	}
	if cfg.CooldownWindow <= 0 {
		cfg.CooldownWindow = 30 * time.Minute
	}
	if cfg.ValidityBars <= 0 {
		cfg.ValidityBars = 6
	}
	return &DetectionLifecycle{store: store, pub: pub, log: log, metrics: metrics, now: clock, cfg: cfg}
}

// PromoteDecision turns an actionable decision into a detection. An existing
// non-terminal detection for the same (strategy, symbol, direction) is
// refreshed instead of duplicated.
func (l *DetectionLifecycle) PromoteDecision(ctx context.Context, d *models.Decision, style models.Style) (*models.Detection, error) {
	if !d.Actionable() {
		return nil, fmt.Errorf("decision for %s is not actionable", d.Symbol)
	}
	now := l.now()

	existing, err := l.store.FindActive(ctx, d.StrategyID, d.Symbol, d.Direction)
	if err != nil {
		l.degrade("find_active", err)
	}
	if existing != nil {
		existing.LastDetectedAt = now
		existing.DetectionCount++
		existing.Confidence = d.Confidence
		existing.Grade = d.Grade
		if err := l.store.Update(ctx, existing); err != nil {
			l.degrade("update", err)
			return existing, fmt.Errorf("refresh detection %s: %w", existing.ID, err)
		}
		return existing, nil
	}

	expires := d.ValidUntil
	if expires.IsZero() {
		expires = now.Add(time.Duration(l.cfg.ValidityBars) * models.BarDuration(style.Timeframe()))
	}

	det := &models.Detection{
		ID:              uuid.NewString(),
		Symbol:          d.Symbol,
		StrategyID:      d.StrategyID,
		Grade:           d.Grade,
		Direction:       d.Direction,
		Confidence:      d.Confidence,
		Entry:           d.Entry,
		StopLoss:        d.StopLoss,
		TakeProfit:      d.TakeProfit,
		Status:          models.StatusCoolingDown,
		Triggers:        d.Reasons,
		FirstDetectedAt: now,
		LastDetectedAt:  now,
		DetectionCount:  1,
		CooldownEndsAt:  now.Add(l.cfg.CooldownWindow),
		BarExpiresAt:    expires,
	}
	if err := l.store.Create(ctx, det); err != nil {
		l.degrade("create", err)
		return nil, fmt.Errorf("create detection: %w", err)
	}

	if l.pub != nil {
		if err := l.pub.Publish(ctx, det); err != nil {
			l.log.Warn("detection publish failed", logger.String("id", det.ID), logger.Error(err))
		}
	}
	l.log.Info("detection created",
		logger.String("id", det.ID),
		logger.String("symbol", det.Symbol),
		logger.String("strategy", det.StrategyID),
		logger.String("grade", string(det.Grade)))
	return det, nil
}

// UpdateStatus applies a caller-driven transition (execute, dismiss,
// invalidate). Illegal moves are rejected by the state machine.
func (l *DetectionLifecycle) UpdateStatus(ctx context.Context, id string, next models.DetectionStatus, reason string) (*models.Detection, error) {
	det, err := l.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load detection %s: %w", id, err)
	}
	if det == nil {
		return nil, fmt.Errorf("detection %s not found", id)
	}
	if err := det.Transition(next); err != nil {
		return nil, err
	}
	if next == models.StatusInvalidated {
		det.InvalidReason = reason
	}
	if err := l.store.Update(ctx, det); err != nil {
		return nil, fmt.Errorf("update detection %s: %w", id, err)
	}
	return det, nil
}

// Get returns one detection by id.
func (l *DetectionLifecycle) Get(ctx context.Context, id string) (*models.Detection, error) {
	return l.store.Get(ctx, id)
}

// List returns detections matching the filter plus a total count.
func (l *DetectionLifecycle) List(ctx context.Context, f models.DetectionFilter) ([]*models.Detection, int64, error) {
	return l.store.List(ctx, f)
}

// FindActive returns the single non-terminal detection for the triple.
func (l *DetectionLifecycle) FindActive(ctx context.Context, strategyID, symbol string, dir models.Direction) (*models.Detection, error) {
	return l.store.FindActive(ctx, strategyID, symbol, dir)
}

// Summary aggregates detection counts per strategy and status.
func (l *DetectionLifecycle) Summary(ctx context.Context) ([]*models.DetectionSummary, error) {
	return l.store.Summary(ctx)
}

// Sweep advances the state machine on the clock: cooling_down detections
// whose window has passed become eligible, and any non-terminal detection
// past its validity window expires. Returns (promoted, expired).
func (l *DetectionLifecycle) Sweep(ctx context.Context) (int, int) {
	now := l.now()
	active, err := l.store.ListNonTerminal(ctx)
	if err != nil {
		l.degrade("sweep_list", err)
		return 0, 0
	}

	var promoted, expired int
	for _, det := range active {
		switch {
		case !det.BarExpiresAt.IsZero() && now.After(det.BarExpiresAt):
			if det.Transition(models.StatusExpired) == nil {
				if err := l.store.Update(ctx, det); err != nil {
					l.degrade("sweep_update", err)
					continue
				}
				expired++
			}
		case det.Status == models.StatusCoolingDown && now.After(det.CooldownEndsAt):
			if det.Transition(models.StatusEligible) == nil {
				if err := l.store.Update(ctx, det); err != nil {
					l.degrade("sweep_update", err)
					continue
				}
				promoted++
			}
		}
	}
	if promoted > 0 || expired > 0 {
		l.log.Debug("detection sweep",
			logger.Int("promoted", promoted),
			logger.Int("expired", expired))
	}
	return promoted, expired
}

func (l *DetectionLifecycle) degrade(op string, err error) {
	l.metrics.RecordStoreDegraded("detection")
	l.log.Warn("detection store error", logger.String("op", op), logger.Error(err))
}
