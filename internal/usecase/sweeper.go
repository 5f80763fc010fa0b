package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/URF365LLC/forex-decision-engine--sub001/pkg/logger"
)

// Sweeper drives the periodic maintenance passes: promoting and expiring
// detections, and evicting expired cooldown entries. It replaces ad-hoc
// interval timers with one scheduled task owning all sweep work.
type Sweeper struct {
	cooldowns *CooldownTracker
	lifecycle *DetectionLifecycle
	interval  time.Duration
	log       *logger.Logger
	cron      *cron.Cron
}

func NewSweeper(cooldowns *CooldownTracker, lifecycle *DetectionLifecycle, interval time.Duration, log *logger.Logger) *Sweeper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Sweeper{
		cooldowns: cooldowns,
		lifecycle: lifecycle,
		interval:  interval,
		log:       log,
		cron:      cron.New(),
	}
}

// Start schedules the sweep and begins the scheduler.
func (s *Sweeper) Start() error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}
	s.cron.Start()
	s.log.Info("lifecycle sweeper started", logger.Duration("interval", s.interval))
	return nil
}

// RunOnce executes a single sweep pass. Exposed so tests and startup can
// trigger it without the scheduler.
func (s *Sweeper) RunOnce(ctx context.Context) {
	s.cooldowns.Sweep(ctx)
	s.lifecycle.Sweep(ctx)
}

// Stop halts the scheduler and waits for a running pass to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("lifecycle sweeper stopped")
}
