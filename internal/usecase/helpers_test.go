package usecase

import (
	"testing"
	"time"

	"github.com/URF365LLC/forex-decision-engine--sub001/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

// nopMetrics satisfies the metrics interface while counting the signals the
// tests assert on.
type nopMetrics struct {
	degraded   int
	contention int
	rejects    map[string]int
}

func newNopMetrics() *nopMetrics {
	return &nopMetrics{rejects: make(map[string]int)}
}

func (m *nopMetrics) RecordScan(string, string, float64)    {}
func (m *nopMetrics) RecordGateReject(gate, _ string)       { m.rejects[gate]++ }
func (m *nopMetrics) RecordDecision(string, string, string) {}
func (m *nopMetrics) RecordCacheLookup(bool)                {}
func (m *nopMetrics) RecordLockContention(string)           { m.contention++ }
func (m *nopMetrics) RecordStoreDegraded(string)            { m.degraded++ }
func (m *nopMetrics) RecordLastPrice(string, float64)       {}

// fakeClock is a manually advanced clock for deterministic sweeps.
type fakeClock struct{ t time.Time }

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{t: t} }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
