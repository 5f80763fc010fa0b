package api

import (
	"github.com/labstack/echo/v4"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/service/cache"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/service/marketdata"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/service/ratelimit"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/usecase"
	xlogger "github.com/URF365LLC/forex-decision-engine--sub001/pkg/logger"
)

// API is the Echo handler set for the decision engine.
type API struct {
	logger    *xlogger.Logger
	engine    *usecase.ScanEngine
	lifecycle *usecase.DetectionLifecycle
	collector *marketdata.TickCollector
	limiter   *ratelimit.Limiter
	decisions *cache.DecisionCache
}

func New(logger *xlogger.Logger, engine *usecase.ScanEngine, lifecycle *usecase.DetectionLifecycle,
	collector *marketdata.TickCollector, limiter *ratelimit.Limiter, decisions *cache.DecisionCache) *API {

	return &API{
		logger:    logger,
		engine:    engine,
		lifecycle: lifecycle,
		collector: collector,
		limiter:   limiter,
		decisions: decisions,
	}
}

func (h *API) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/scan", h.Scan)
	g.GET("/strategies", h.Strategies)

	g.GET("/detections", h.ListDetections)
	g.POST("/detections", h.CreateDetection)
	g.GET("/detections/active", h.ActiveDetection)
	g.GET("/detections/summary", h.DetectionSummary)
	g.GET("/detections/:id", h.GetDetection)
	g.POST("/detections/:id/status", h.UpdateDetectionStatus)

	g.GET("/status/locks", h.Locks)
	g.GET("/status/cooldowns", h.Cooldowns)
	g.GET("/status/cache", h.CacheStats)
	g.GET("/status/prices", h.Prices)

	e.GET("/healthz", h.Healthz)
}
