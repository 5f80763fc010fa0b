package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/repository"
)

// MemoryStoreConfig bounds the in-memory detection fallback. The fallback
// has no external cleanup, so it must never grow without limit.
type MemoryStoreConfig struct {
	MaxAge        time.Duration
	TerminalGrace time.Duration
	MaxCount      int
}

func (c MemoryStoreConfig) withDefaults() MemoryStoreConfig {
	if c.MaxAge <= 0 {
		c.MaxAge = 24 * time.Hour
	}
	if c.TerminalGrace <= 0 {
		c.TerminalGrace = time.Hour
	}
	if c.MaxCount <= 0 {
		c.MaxCount = 500
	}
	return c
}

// MemoryDetectionStore is the in-process detection backend used when no
// durable store is configured or reachable. It self-bounds on every write
// via age eviction, a short grace for terminal entries, and a FIFO cap.
type MemoryDetectionStore struct {
	cfg MemoryStoreConfig
	now repository.Clock

	mu    sync.RWMutex
	byID  map[string]*models.Detection
	order []string // insertion order, oldest first
}

func NewMemoryDetectionStore(cfg MemoryStoreConfig, clock repository.Clock) *MemoryDetectionStore {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryDetectionStore{
		cfg:  cfg.withDefaults(),
		now:  clock,
		byID: make(map[string]*models.Detection),
	}
}

func (s *MemoryDetectionStore) Create(_ context.Context, d *models.Detection) error {
	cp := *d
	s.mu.Lock()
	if _, exists := s.byID[d.ID]; !exists {
		s.order = append(s.order, d.ID)
	}
	s.byID[d.ID] = &cp
	s.evictLocked(s.now())
	s.mu.Unlock()
	return nil
}

func (s *MemoryDetectionStore) Update(ctx context.Context, d *models.Detection) error {
	return s.Create(ctx, d)
}

func (s *MemoryDetectionStore) Get(_ context.Context, id string) (*models.Detection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (s *MemoryDetectionStore) FindActive(_ context.Context, strategyID, symbol string, direction models.Direction) (*models.Detection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *models.Detection
	for _, d := range s.byID {
		if d.Status.Terminal() || d.StrategyID != strategyID || d.Symbol != symbol || d.Direction != direction {
			continue
		}
		if best == nil || d.LastDetectedAt.After(best.LastDetectedAt) {
			best = d
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (s *MemoryDetectionStore) List(_ context.Context, f models.DetectionFilter) ([]*models.Detection, int64, error) {
	s.mu.RLock()
	var matched []*models.Detection
	for _, d := range s.byID {
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		if f.StrategyID != "" && d.StrategyID != f.StrategyID {
			continue
		}
		if f.Symbol != "" && d.Symbol != f.Symbol {
			continue
		}
		if f.Grade != "" && d.Grade != f.Grade {
			continue
		}
		if !f.From.IsZero() && d.LastDetectedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && d.LastDetectedAt.After(f.To) {
			continue
		}
		cp := *d
		matched = append(matched, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].LastDetectedAt.After(matched[j].LastDetectedAt)
	})
	total := int64(len(matched))

	offset := f.Offset
	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (s *MemoryDetectionStore) ListNonTerminal(_ context.Context) ([]*models.Detection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Detection
	for _, d := range s.byID {
		if !d.Status.Terminal() {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemoryDetectionStore) Summary(_ context.Context) ([]*models.DetectionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byStrategy := make(map[string]*models.DetectionSummary)
	for _, d := range s.byID {
		sum, ok := byStrategy[d.StrategyID]
		if !ok {
			sum = &models.DetectionSummary{
				StrategyID: d.StrategyID,
				ByStatus:   make(map[models.DetectionStatus]int64),
			}
			byStrategy[d.StrategyID] = sum
		}
		sum.ByStatus[d.Status]++
		sum.Total++
	}
	out := make([]*models.DetectionSummary, 0, len(byStrategy))
	for _, sum := range byStrategy {
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StrategyID < out[j].StrategyID })
	return out, nil
}

func (s *MemoryDetectionStore) Health(context.Context) error { return nil }

func (s *MemoryDetectionStore) Close() error { return nil }

// Cleanup runs the eviction pass explicitly and returns the store size
// afterwards.
func (s *MemoryDetectionStore) Cleanup() int {
	s.mu.Lock()
	s.evictLocked(s.now())
	n := len(s.byID)
	s.mu.Unlock()
	return n
}

// evictLocked applies the three bounds in order: age, terminal grace, then
// the FIFO cap. Oldest entries always leave first.
func (s *MemoryDetectionStore) evictLocked(now time.Time) {
	keep := s.order[:0]
	for _, id := range s.order {
		d, ok := s.byID[id]
		if !ok {
			continue
		}
		age := now.Sub(d.FirstDetectedAt)
		switch {
		case age > s.cfg.MaxAge:
			delete(s.byID, id)
		case d.Status.Terminal() && now.Sub(d.LastDetectedAt) > s.cfg.TerminalGrace:
			delete(s.byID, id)
		default:
			keep = append(keep, id)
		}
	}
	s.order = keep

	for len(s.order) > s.cfg.MaxCount {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.byID, oldest)
	}
}
