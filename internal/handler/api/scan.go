package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/usecase"
	xhttp "github.com/URF365LLC/forex-decision-engine--sub001/pkg/http"
	xlogger "github.com/URF365LLC/forex-decision-engine--sub001/pkg/logger"
)

const (
	scanBucketCapacity = 5
	scanRefillPerSec   = 0.5
)

// Scan runs one strategy across the requested symbols and returns the
// per-symbol decisions.
func (h *API) Scan(c echo.Context) error {
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if !h.limiter.Allow("scan:"+req.StrategyID, scanBucketCapacity, scanRefillPerSec) {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError(
			"ERR_RATE_LIMITED", "", "scan rate limit exceeded for "+req.StrategyID, 429))
	}

	req.Settings.Style = models.NormalizeStyle(string(req.Settings.Style))

	res, err := h.engine.Evaluate(c.Request().Context(), req.Symbols, req.StrategyID, req.Settings, req.Options)
	if err != nil {
		var inProgress *usecase.ErrScanInProgress
		var limit *usecase.ErrScanLimit
		switch {
		case errors.As(err, &inProgress):
			return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_SCAN_IN_PROGRESS", "", err.Error(), 409))
		case errors.As(err, &limit):
			return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_SCAN_LIMIT", "", err.Error(), 429))
		}
		h.logger.Error("scan failed",
			xlogger.String("strategy", req.StrategyID),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Strategies lists the registered evaluators.
func (h *API) Strategies(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.engine.Strategies())
}
