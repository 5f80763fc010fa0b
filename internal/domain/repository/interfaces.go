package repository

import (
	"context"
	"time"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
)

// IndicatorProvider supplies aligned bar and indicator series per
// symbol/style. Implementations may return partial or misaligned data; the
// bundle is aligned by callers before use.
type IndicatorProvider interface {
	GetIndicators(ctx context.Context, symbol string, style models.Style) (*models.IndicatorBundle, error)
}

// InstrumentProvider is the static lookup of per-symbol contract rules.
// A nil, false result must propagate to a fail-closed sizing outcome.
type InstrumentProvider interface {
	GetSpec(symbol string) (*models.InstrumentSpec, bool)
}

// CooldownStore persists dedup entries. Implementations must tolerate being
// unavailable: callers degrade to memory-only operation on error.
type CooldownStore interface {
	Get(ctx context.Context, key string) (*models.CooldownEntry, error)
	Put(ctx context.Context, entry *models.CooldownEntry) error
	Delete(ctx context.Context, key string) error
	All(ctx context.Context) ([]*models.CooldownEntry, error)
	Health(ctx context.Context) error
}

// DetectionStore persists lifecycle-tracked detections and must support
// restoring active state on restart.
type DetectionStore interface {
	Create(ctx context.Context, d *models.Detection) error
	Update(ctx context.Context, d *models.Detection) error
	Get(ctx context.Context, id string) (*models.Detection, error)
	FindActive(ctx context.Context, strategyID, symbol string, direction models.Direction) (*models.Detection, error)
	List(ctx context.Context, f models.DetectionFilter) ([]*models.Detection, int64, error)
	ListNonTerminal(ctx context.Context) ([]*models.Detection, error)
	Summary(ctx context.Context) ([]*models.DetectionSummary, error)
	Health(ctx context.Context) error
	Close() error
}

// DetectionPublisher fans newly created detections out to downstream
// consumers. Publishing is best effort; failures never block the pipeline.
type DetectionPublisher interface {
	Publish(ctx context.Context, d *models.Detection) error
	Close() error
}

// PriceStream delivers last-trade updates used to refresh entry-bar
// freshness between indicator fetches.
type PriceStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan models.PriceTick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Metrics records engine observability signals.
type Metrics interface {
	RecordScan(strategyID, outcome string, seconds float64)
	RecordGateReject(gate, reason string)
	RecordDecision(strategyID, direction, grade string)
	RecordCacheLookup(hit bool)
	RecordLockContention(strategyID string)
	RecordStoreDegraded(store string)
	RecordLastPrice(symbol string, price float64)
}

// Clock abstracts time so sweeps can be tested deterministically.
type Clock func() time.Time
