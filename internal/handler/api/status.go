package api

import (
	"github.com/labstack/echo/v4"

	xhttp "github.com/URF365LLC/forex-decision-engine--sub001/pkg/http"
)

// Locks reports in-flight scan locks.
func (h *API) Locks(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.engine.Locks().Snapshot())
}

// Cooldowns reports the active cooldown entries.
func (h *API) Cooldowns(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.engine.Cooldowns().Snapshot())
}

// CacheStats reports decision cache configuration and size.
func (h *API) CacheStats(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.decisions.Stats())
}

// Prices reports the last tick observed per streamed symbol.
func (h *API) Prices(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.collector.Snapshot())
}

// Healthz is the liveness/readiness probe.
func (h *API) Healthz(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":           "ok",
		"stream_connected": h.collector.IsConnected(),
	})
}
