package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/repository"
	"github.com/URF365LLC/forex-decision-engine--sub001/pkg/logger"
)

// CooldownTracker suppresses re-emission of equivalent signals per
// (symbol, style, strategy) key. Entries live in a durable store with an
// in-memory mirror; when the store is unreachable the tracker keeps working
// from memory alone rather than blocking signal flow.
type CooldownTracker struct {
	store   repository.CooldownStore
	log     *logger.Logger
	metrics repository.Metrics
	now     repository.Clock

	mu  sync.RWMutex
	mem map[string]*models.CooldownEntry
}

func NewCooldownTracker(store repository.CooldownStore, log *logger.Logger, metrics repository.Metrics, clock repository.Clock) *CooldownTracker {
	if clock == nil {
		clock = time.Now
	}
	return &CooldownTracker{
		store:   store,
		log:     log,
		metrics: metrics,
		now:     clock,
		mem:     make(map[string]*models.CooldownEntry),
	}
}

// Restore loads active entries from the durable store into the memory
// mirror. Called once at startup; a store failure leaves the tracker in
// degraded memory-only mode.
func (t *CooldownTracker) Restore(ctx context.Context) error {
	if t.store == nil {
		return nil
	}
	entries, err := t.store.All(ctx)
	if err != nil {
		t.degrade("restore", err)
		return fmt.Errorf("restore cooldowns: %w", err)
	}
	now := t.now()
	t.mu.Lock()
	for _, e := range entries {
		if !e.Expired(now) {
			t.mem[e.Key()] = e
		}
	}
	restored := len(t.mem)
	t.mu.Unlock()
	t.log.Info("cooldown state restored", logger.Int("entries", restored))
	return nil
}

// Check reports whether a candidate may proceed. Blocked only when an
// unexpired entry holds the same direction at an equal or higher grade;
// expiry, reversal, and grade upgrade all pass.
func (t *CooldownTracker) Check(symbol string, style models.Style, strategyID string, dir models.Direction, grade models.Grade) models.CooldownVerdict {
	key := models.CooldownKey(symbol, style, strategyID)
	t.mu.RLock()
	e, ok := t.mem[key]
	t.mu.RUnlock()
	if !ok {
		return models.CooldownVerdict{Allowed: true}
	}

	now := t.now()
	switch {
	case e.Expired(now):
		return models.CooldownVerdict{Allowed: true, Reason: "previous cooldown expired"}
	case e.Direction != dir:
		return models.CooldownVerdict{Allowed: true, Reason: "direction reversal"}
	case grade.Rank() > e.Grade.Rank():
		return models.CooldownVerdict{Allowed: true, Reason: fmt.Sprintf("grade upgrade %s -> %s", e.Grade, grade)}
	default:
		remaining := e.ExpiresAt.Sub(now)
		return models.CooldownVerdict{
			Allowed:   false,
			Reason:    fmt.Sprintf("duplicate %s %s signal, %s remaining", dir, grade, remaining.Round(time.Second)),
			Remaining: remaining,
		}
	}
}

// Record stores a cooldown for a decision that cleared every other gate.
// Expiry precedence is uniform: an explicit validUntil in the future wins,
// otherwise the style's default window applies.
func (t *CooldownTracker) Record(ctx context.Context, symbol string, style models.Style, strategyID string, dir models.Direction, grade models.Grade, validUntil time.Time) {
	now := t.now()
	expires := now.Add(style.CooldownWindow())
	if !validUntil.IsZero() && validUntil.After(now) {
		expires = validUntil
	}

	e := &models.CooldownEntry{
		Symbol:     symbol,
		Style:      style,
		StrategyID: strategyID,
		Direction:  dir,
		Grade:      grade,
		CreatedAt:  now,
		ExpiresAt:  expires,
	}

	t.mu.Lock()
	t.mem[e.Key()] = e
	t.mu.Unlock()

	if t.store != nil {
		if err := t.store.Put(ctx, e); err != nil {
			t.degrade("record", err)
		}
	}
}

// Sweep evicts expired entries from both layers and returns how many were
// removed from memory.
func (t *CooldownTracker) Sweep(ctx context.Context) int {
	now := t.now()
	var expired []string
	t.mu.Lock()
	for key, e := range t.mem {
		if e.Expired(now) {
			delete(t.mem, key)
			expired = append(expired, key)
		}
	}
	t.mu.Unlock()

	if t.store != nil {
		for _, key := range expired {
			if err := t.store.Delete(ctx, key); err != nil {
				t.degrade("sweep", err)
				break
			}
		}
	}
	if len(expired) > 0 {
		t.log.Debug("cooldown sweep", logger.Int("evicted", len(expired)))
	}
	return len(expired)
}

// Snapshot returns the active entries sorted by key, for the status API.
func (t *CooldownTracker) Snapshot() []*models.CooldownEntry {
	now := t.now()
	t.mu.RLock()
	out := make([]*models.CooldownEntry, 0, len(t.mem))
	for _, e := range t.mem {
		if !e.Expired(now) {
			out = append(out, e)
		}
	}
	t.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

func (t *CooldownTracker) degrade(op string, err error) {
	t.metrics.RecordStoreDegraded("cooldown")
	t.log.Warn("cooldown store unavailable, continuing from memory",
		logger.String("op", op), logger.Error(err))
}
