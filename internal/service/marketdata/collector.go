package marketdata

import (
	"context"
	"sync"
	"time"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/repository"
	"github.com/URF365LLC/forex-decision-engine--sub001/pkg/logger"
)

// TickCollector consumes the price stream, throttles per symbol, and keeps
// the last observed price per symbol for freshness checks and the status
// API. High-frequency symbols are sampled, not queued: between indicator
// fetches only the latest price matters.
type TickCollector struct {
	stream      repository.PriceStream
	metrics     repository.Metrics
	log         *logger.Logger
	minInterval time.Duration

	mu       sync.RWMutex
	last     map[string]models.PriceTick
	accepted map[string]time.Time
}

func NewTickCollector(stream repository.PriceStream, metrics repository.Metrics, log *logger.Logger, minInterval time.Duration) *TickCollector {
	if minInterval <= 0 {
		minInterval = time.Second
	}
	return &TickCollector{
		stream:      stream,
		metrics:     metrics,
		log:         log,
		minInterval: minInterval,
		last:        make(map[string]models.PriceTick),
		accepted:    make(map[string]time.Time),
	}
}

// Start connects, subscribes, and launches the consume loop.
func (c *TickCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	ticks, errs := c.stream.Read(ctx)
	go c.consume(ctx, ticks, errs)
	return nil
}

func (c *TickCollector) consume(ctx context.Context, ticks <-chan models.PriceTick, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errs:
			if err != nil {
				c.log.Warn("price stream error, reconnecting", logger.Error(err))
				if rerr := c.stream.Reconnect(ctx); rerr != nil {
					c.log.Error("price stream reconnect failed", logger.Error(rerr))
					return
				}
				ticks, errs = c.stream.Read(ctx)
			}
		case t := <-ticks:
			if t.Symbol == "" {
				continue
			}
			c.accept(t)
		}
	}
}

func (c *TickCollector) accept(t models.PriceTick) {
	now := time.Now()
	c.mu.Lock()
	if last, ok := c.accepted[t.Symbol]; ok && now.Sub(last) < c.minInterval {
		c.last[t.Symbol] = t
		c.mu.Unlock()
		return
	}
	c.accepted[t.Symbol] = now
	c.last[t.Symbol] = t
	c.mu.Unlock()
	c.metrics.RecordLastPrice(t.Symbol, t.Price)
}

// LastPrice returns the most recent tick for a symbol.
func (c *TickCollector) LastPrice(symbol string) (models.PriceTick, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.last[symbol]
	return t, ok
}

// Snapshot returns the last tick per symbol.
func (c *TickCollector) Snapshot() map[string]models.PriceTick {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]models.PriceTick, len(c.last))
	for k, v := range c.last {
		out[k] = v
	}
	return out
}

// IsConnected reports stream health for readiness checks.
func (c *TickCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

// Stop closes the stream.
func (c *TickCollector) Stop() error {
	return c.stream.Close()
}
