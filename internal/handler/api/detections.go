package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
	xhttp "github.com/URF365LLC/forex-decision-engine--sub001/pkg/http"
	xlogger "github.com/URF365LLC/forex-decision-engine--sub001/pkg/logger"
)

// ListDetections returns detections matching the query filters.
func (h *API) ListDetections(c echo.Context) error {
	req := &models.DetectionListRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	from := xhttp.ParseTimeDefault(c.QueryParam("from"), time.Time{})
	to := xhttp.ParseTimeDefault(c.QueryParam("to"), time.Time{})

	rows, total, err := h.lifecycle.List(c.Request().Context(), models.DetectionFilter{
		Status:     models.DetectionStatus(req.Status),
		StrategyID: req.StrategyID,
		Symbol:     req.Symbol,
		Grade:      models.Grade(req.Grade),
		From:       from,
		To:         to,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		h.logger.Error("list detections failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, total)
}

// CreateDetection records an externally sourced detection, for setups spotted
// outside the scan pipeline. It runs through the same promotion path, so an
// existing active detection for the triple is refreshed rather than
// duplicated.
func (h *API) CreateDetection(c echo.Context) error {
	req := &models.CreateDetectionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	d := &models.Decision{
		Symbol:      req.Symbol,
		StrategyID:  req.StrategyID,
		Direction:   models.Direction(req.Direction),
		Confidence:  req.Confidence,
		Grade:       models.GradeForConfidence(req.Confidence),
		Entry:       req.Entry,
		StopLoss:    req.StopLoss,
		TakeProfit:  req.TakeProfit,
		Reasons:     req.Triggers,
		EvaluatedAt: time.Now(),
	}
	if err := d.Validate(); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_LEVELS", "entry", err.Error(), 400))
	}

	det, err := h.lifecycle.PromoteDecision(c.Request().Context(), d, models.NormalizeStyle(req.Style))
	if err != nil {
		h.logger.Error("create detection failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, det)
}

// ActiveDetection returns the single non-terminal detection for a
// (strategy, symbol, direction) triple, if any.
func (h *API) ActiveDetection(c echo.Context) error {
	req := &models.ActiveDetectionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	det, err := h.lifecycle.FindActive(c.Request().Context(), req.StrategyID, req.Symbol, models.Direction(req.Direction))
	if err != nil {
		h.logger.Error("find active detection failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if det == nil {
		return xhttp.NotFoundResponse(c, "no active detection")
	}
	return xhttp.SuccessResponse(c, det)
}

// DetectionSummary aggregates detection counts per strategy and status.
func (h *API) DetectionSummary(c echo.Context) error {
	sum, err := h.lifecycle.Summary(c.Request().Context())
	if err != nil {
		h.logger.Error("detection summary failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, sum)
}

// GetDetection returns one detection by id.
func (h *API) GetDetection(c echo.Context) error {
	id := c.Param("id")
	det, err := h.lifecycle.Get(c.Request().Context(), id)
	if err != nil {
		h.logger.Error("get detection failed", xlogger.String("id", id), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if det == nil {
		return xhttp.NotFoundResponse(c, "detection not found")
	}
	return xhttp.SuccessResponse(c, det)
}

var statusByAction = map[string]models.DetectionStatus{
	"execute":    models.StatusExecuted,
	"dismiss":    models.StatusDismissed,
	"invalidate": models.StatusInvalidated,
}

// UpdateDetectionStatus applies a caller-driven lifecycle transition.
func (h *API) UpdateDetectionStatus(c echo.Context) error {
	id := c.Param("id")
	req := &models.DetectionStatusRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	det, err := h.lifecycle.UpdateStatus(c.Request().Context(), id, statusByAction[req.Action], req.Reason)
	if err != nil {
		h.logger.Warn("detection status update rejected",
			xlogger.String("id", id),
			xlogger.String("action", req.Action),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_TRANSITION", "action", err.Error(), 409))
	}
	return xhttp.SuccessResponse(c, det)
}
