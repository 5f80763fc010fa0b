package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
)

var cdNow = time.Date(2025, 6, 2, 13, 0, 0, 0, time.UTC)

func newTestTracker(t *testing.T, clock *fakeClock) (*CooldownTracker, *nopMetrics) {
	t.Helper()
	m := newNopMetrics()
	return NewCooldownTracker(nil, testLogger(t), m, clock.Now), m
}

func TestCooldownBlocksDuplicate(t *testing.T) {
	clock := newFakeClock(cdNow)
	tr, _ := newTestTracker(t, clock)
	ctx := context.Background()

	tr.Record(ctx, "EURUSD", models.StyleIntraday, "rsi_reversal", models.DirectionLong, models.GradeB, time.Time{})

	v := tr.Check("EURUSD", models.StyleIntraday, "rsi_reversal", models.DirectionLong, models.GradeB)
	if v.Allowed {
		t.Fatalf("equal grade same direction must be blocked")
	}
	if v.Remaining <= 0 {
		t.Fatalf("blocked verdict should report remaining time")
	}

	v = tr.Check("EURUSD", models.StyleIntraday, "rsi_reversal", models.DirectionLong, models.GradeC)
	if v.Allowed {
		t.Fatalf("lower grade must be blocked")
	}
}

func TestCooldownEscapes(t *testing.T) {
	clock := newFakeClock(cdNow)
	tr, _ := newTestTracker(t, clock)
	ctx := context.Background()

	tr.Record(ctx, "EURUSD", models.StyleIntraday, "rsi_reversal", models.DirectionLong, models.GradeB, time.Time{})

	if v := tr.Check("EURUSD", models.StyleIntraday, "rsi_reversal", models.DirectionShort, models.GradeC); !v.Allowed || v.Reason != "direction reversal" {
		t.Fatalf("reversal must pass, got %+v", v)
	}
	if v := tr.Check("EURUSD", models.StyleIntraday, "rsi_reversal", models.DirectionLong, models.GradeA); !v.Allowed || !strings.Contains(v.Reason, "grade upgrade") {
		t.Fatalf("upgrade must pass, got %+v", v)
	}

	clock.Advance(models.StyleIntraday.CooldownWindow() + time.Minute)
	if v := tr.Check("EURUSD", models.StyleIntraday, "rsi_reversal", models.DirectionLong, models.GradeB); !v.Allowed || v.Reason != "previous cooldown expired" {
		t.Fatalf("expiry must pass, got %+v", v)
	}
}

func TestCooldownKeyIsolation(t *testing.T) {
	clock := newFakeClock(cdNow)
	tr, _ := newTestTracker(t, clock)
	ctx := context.Background()

	tr.Record(ctx, "EURUSD", models.StyleIntraday, "rsi_reversal", models.DirectionLong, models.GradeB, time.Time{})

	if v := tr.Check("EURUSD", models.StyleIntraday, "ema_trend", models.DirectionLong, models.GradeB); !v.Allowed {
		t.Fatalf("another strategy's cooldown must not suppress, got %+v", v)
	}
	if v := tr.Check("GBPUSD", models.StyleIntraday, "rsi_reversal", models.DirectionLong, models.GradeB); !v.Allowed {
		t.Fatalf("another symbol's cooldown must not suppress, got %+v", v)
	}
	if v := tr.Check("EURUSD", models.StyleSwing, "rsi_reversal", models.DirectionLong, models.GradeB); !v.Allowed {
		t.Fatalf("another style's cooldown must not suppress, got %+v", v)
	}
}

func TestCooldownExplicitValidUntilWins(t *testing.T) {
	clock := newFakeClock(cdNow)
	tr, _ := newTestTracker(t, clock)
	ctx := context.Background()

	// Explicit expiry shorter than the 2h style window.
	tr.Record(ctx, "EURUSD", models.StyleIntraday, "rsi_reversal", models.DirectionLong, models.GradeB, cdNow.Add(30*time.Minute))

	clock.Advance(45 * time.Minute)
	if v := tr.Check("EURUSD", models.StyleIntraday, "rsi_reversal", models.DirectionLong, models.GradeB); !v.Allowed {
		t.Fatalf("explicit validity should override the style window, got %+v", v)
	}
}

func TestCooldownSweep(t *testing.T) {
	clock := newFakeClock(cdNow)
	tr, _ := newTestTracker(t, clock)
	ctx := context.Background()

	tr.Record(ctx, "EURUSD", models.StyleIntraday, "rsi_reversal", models.DirectionLong, models.GradeB, time.Time{})
	tr.Record(ctx, "GBPUSD", models.StyleSwing, "rsi_reversal", models.DirectionShort, models.GradeA, time.Time{})

	clock.Advance(models.StyleIntraday.CooldownWindow() + time.Minute)
	if n := tr.Sweep(ctx); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}
	snap := tr.Snapshot()
	if len(snap) != 1 || snap[0].Symbol != "GBPUSD" {
		t.Fatalf("swing entry should survive, got %+v", snap)
	}
}

type failingCooldownStore struct{}

func (failingCooldownStore) Get(context.Context, string) (*models.CooldownEntry, error) {
	return nil, errors.New("store down")
}
func (failingCooldownStore) Put(context.Context, *models.CooldownEntry) error {
	return errors.New("store down")
}
func (failingCooldownStore) Delete(context.Context, string) error { return errors.New("store down") }
func (failingCooldownStore) All(context.Context) ([]*models.CooldownEntry, error) {
	return nil, errors.New("store down")
}
func (failingCooldownStore) Health(context.Context) error { return errors.New("store down") }

func TestCooldownDegradesToMemory(t *testing.T) {
	clock := newFakeClock(cdNow)
	m := newNopMetrics()
	tr := NewCooldownTracker(failingCooldownStore{}, testLogger(t), m, clock.Now)
	ctx := context.Background()

	if err := tr.Restore(ctx); err == nil {
		t.Fatalf("restore against a dead store should report the failure")
	}
	tr.Record(ctx, "EURUSD", models.StyleIntraday, "rsi_reversal", models.DirectionLong, models.GradeB, time.Time{})
	if v := tr.Check("EURUSD", models.StyleIntraday, "rsi_reversal", models.DirectionLong, models.GradeB); v.Allowed {
		t.Fatalf("memory mirror must keep blocking while the store is down")
	}
	if m.degraded == 0 {
		t.Fatalf("degraded operation should be recorded")
	}
}
