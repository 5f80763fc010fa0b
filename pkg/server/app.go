package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/repository"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/service/marketdata"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/usecase"
	pkgch "github.com/URF365LLC/forex-decision-engine--sub001/pkg/clickhouse"
	"github.com/URF365LLC/forex-decision-engine--sub001/pkg/config"
	xhttp "github.com/URF365LLC/forex-decision-engine--sub001/pkg/http"
	applogger "github.com/URF365LLC/forex-decision-engine--sub001/pkg/logger"
)

// App owns the process lifecycle: restore state, start the tick collector
// and sweeper, serve HTTP, and shut everything down in order on signal.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    xhttp.Handler
	collector  *marketdata.TickCollector
	sweeper    *usecase.Sweeper
	cooldowns  *usecase.CooldownTracker
	pub        repository.DetectionPublisher
	chClient   *pkgch.Client
	redisCli   *redis.Client
	httpServer *xhttp.Server
}

// New creates the application with all dependencies injected.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	collector *marketdata.TickCollector,
	sweeper *usecase.Sweeper,
	cooldowns *usecase.CooldownTracker,
	pub repository.DetectionPublisher,
	chClient *pkgch.Client,
	redisCli *redis.Client,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		handler:   handler,
		collector: collector,
		sweeper:   sweeper,
		cooldowns: cooldowns,
		pub:       pub,
		chClient:  chClient,
		redisCli:  redisCli,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Durable cooldown state first, so the first scan after restart dedups
	// against pre-restart signals.
	restoreCtx, restoreCancel := context.WithTimeout(ctx, 10*time.Second)
	if err := a.cooldowns.Restore(restoreCtx); err != nil {
		a.log.Warn("cooldown restore failed, starting from empty state", applogger.Error(err))
	}
	restoreCancel()

	if err := a.sweeper.Start(); err != nil {
		return err
	}

	if a.cfg.MarketData.WebSocketURL != "" {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				a.log.Error("tick collector error", applogger.Error(err))
			}
		}()
		a.log.Info("tick collector started",
			applogger.Strings("symbols", a.cfg.MarketData.StreamSymbols))
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown stops components in reverse start order.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	a.sweeper.Stop()

	if err := a.collector.Stop(); err != nil {
		a.log.Warn("tick collector stop error", applogger.Error(err))
	}

	if a.pub != nil {
		if err := a.pub.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.redisCli != nil {
		if err := a.redisCli.Close(); err != nil {
			a.log.Warn("redis close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
