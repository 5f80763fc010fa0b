package cache

import (
	"encoding/json"
	"time"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
)

// DecisionCache memoizes per (symbol, strategy) evaluation results in two
// TTL buckets: actionable decisions keep longer so repeated scans within a
// signal's life return the same answer, no-trade results expire fast so a
// forming setup is noticed promptly. Invalidation is TTL-only, trading
// bounded staleness for less upstream API pressure.
type DecisionCache struct {
	backend       BytesCache
	actionableTTL time.Duration
	noTradeTTL    time.Duration
}

func NewDecisionCache(backend BytesCache, actionableTTL, noTradeTTL time.Duration) *DecisionCache {
	if actionableTTL <= 0 {
		actionableTTL = 5 * time.Minute
	}
	if noTradeTTL <= 0 {
		noTradeTTL = time.Minute
	}
	return &DecisionCache{backend: backend, actionableTTL: actionableTTL, noTradeTTL: noTradeTTL}
}

func decisionKey(symbol, strategyID string) string {
	return "decision:" + strategyID + ":" + symbol
}

// Get returns the cached decision for the pair if one is still live.
// Backend errors read as misses.
func (c *DecisionCache) Get(symbol, strategyID string) (*models.Decision, bool) {
	b, ok, err := c.backend.GetBytes(decisionKey(symbol, strategyID))
	if err != nil || !ok {
		return nil, false
	}
	var d models.Decision
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, false
	}
	return &d, true
}

// Stats reports the bucket TTLs and, when the backend can count, the live
// entry total.
func (c *DecisionCache) Stats() map[string]interface{} {
	stats := map[string]interface{}{
		"actionable_ttl": c.actionableTTL.String(),
		"no_trade_ttl":   c.noTradeTTL.String(),
	}
	if counter, ok := c.backend.(interface{ Len() int }); ok {
		stats["entries"] = counter.Len()
	}
	return stats
}

// Put stores a decision under the TTL bucket its outcome selects.
func (c *DecisionCache) Put(d *models.Decision) {
	b, err := json.Marshal(d)
	if err != nil {
		return
	}
	ttl := c.noTradeTTL
	if d.Actionable() {
		ttl = c.actionableTTL
	}
	_ = c.backend.SetBytes(decisionKey(d.Symbol, d.StrategyID), b, ttl)
}
