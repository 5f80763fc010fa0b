package usecase

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/repository"
	"github.com/URF365LLC/forex-decision-engine--sub001/pkg/logger"
)

// ErrScanInProgress is returned when the requested strategy already holds a
// scan lock.
type ErrScanInProgress struct {
	StrategyID string
	Age        time.Duration
}

func (e *ErrScanInProgress) Error() string {
	return fmt.Sprintf("scan already running for %s (%s)", e.StrategyID, e.Age.Round(time.Second))
}

// ErrScanLimit is returned when the global concurrency ceiling is reached.
type ErrScanLimit struct{ Max int }

func (e *ErrScanLimit) Error() string {
	return fmt.Sprintf("concurrent scan limit reached (%d)", e.Max)
}

// ScanLocker holds one lock per strategy id under a global ceiling, so
// unrelated strategies never serialize each other. Locks auto-expire via
// the stale sweep run before each acquire, protecting against a crashed
// scan pinning its strategy forever.
type ScanLocker struct {
	maxActive int
	timeout   time.Duration
	log       *logger.Logger
	metrics   repository.Metrics
	now       repository.Clock

	mu    sync.Mutex
	locks map[string]*models.ScanLock
}

func NewScanLocker(maxActive int, timeout time.Duration, log *logger.Logger, metrics repository.Metrics, clock repository.Clock) *ScanLocker {
	if maxActive <= 0 {
		maxActive = 3
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	if clock == nil {
		clock = time.Now
	}
	return &ScanLocker{
		maxActive: maxActive,
		timeout:   timeout,
		log:       log,
		metrics:   metrics,
		now:       clock,
		locks:     make(map[string]*models.ScanLock),
	}
}

// Acquire takes the lock for a strategy. With force, an existing lock for
// the same strategy is released first; in-flight work from the previous
// holder is not cancelled.
func (l *ScanLocker) Acquire(strategyID string, symbolCount int, force bool) error {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweepStaleLocked(now)

	if held, ok := l.locks[strategyID]; ok {
		if !force {
			l.metrics.RecordLockContention(strategyID)
			return &ErrScanInProgress{StrategyID: strategyID, Age: now.Sub(held.StartedAt)}
		}
		l.log.Warn("force releasing scan lock", logger.String("strategy", strategyID))
		delete(l.locks, strategyID)
	}

	if len(l.locks) >= l.maxActive {
		l.metrics.RecordLockContention(strategyID)
		return &ErrScanLimit{Max: l.maxActive}
	}

	l.locks[strategyID] = &models.ScanLock{
		StrategyID:  strategyID,
		StartedAt:   now,
		SymbolCount: symbolCount,
	}
	return nil
}

// Release frees the strategy's lock. Callers defer it so cleanup runs
// regardless of how the scan body ends.
func (l *ScanLocker) Release(strategyID string) {
	l.mu.Lock()
	delete(l.locks, strategyID)
	l.mu.Unlock()
}

// Snapshot returns the in-flight locks sorted by strategy id.
func (l *ScanLocker) Snapshot() []*models.ScanLock {
	l.mu.Lock()
	out := make([]*models.ScanLock, 0, len(l.locks))
	for _, lk := range l.locks {
		cp := *lk
		out = append(out, &cp)
	}
	l.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].StrategyID < out[j].StrategyID })
	return out
}

func (l *ScanLocker) sweepStaleLocked(now time.Time) {
	for id, lk := range l.locks {
		if now.Sub(lk.StartedAt) > l.timeout {
			l.log.Warn("releasing stale scan lock",
				logger.String("strategy", id),
				logger.Duration("age", now.Sub(lk.StartedAt)))
			delete(l.locks, id)
		}
	}
}
