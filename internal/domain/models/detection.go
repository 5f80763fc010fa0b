package models

import (
	"fmt"
	"time"
)

// DetectionStatus is the lifecycle state of a persisted detection.
type DetectionStatus string

const (
	StatusCoolingDown DetectionStatus = "cooling_down"
	StatusEligible    DetectionStatus = "eligible"
	StatusExecuted    DetectionStatus = "executed"
	StatusDismissed   DetectionStatus = "dismissed"
	StatusExpired     DetectionStatus = "expired"
	StatusInvalidated DetectionStatus = "invalidated"
)

// Terminal reports whether the status is final. A detection never leaves a
// terminal state.
func (s DetectionStatus) Terminal() bool {
	switch s {
	case StatusExecuted, StatusDismissed, StatusExpired, StatusInvalidated:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known lifecycle state.
func ValidStatus(s DetectionStatus) bool {
	switch s {
	case StatusCoolingDown, StatusEligible, StatusExecuted, StatusDismissed, StatusExpired, StatusInvalidated:
		return true
	}
	return false
}

// Detection is a promoted, non-blocked decision persisted beyond the
// evaluation cycle and tracked through a status state machine.
type Detection struct {
	ID              string          `json:"id"`
	Symbol          string          `json:"symbol"`
	StrategyID      string          `json:"strategy_id"`
	Grade           Grade           `json:"grade"`
	Direction       Direction       `json:"direction"`
	Confidence      float64         `json:"confidence"`
	Entry           float64         `json:"entry"`
	StopLoss        float64         `json:"stop_loss"`
	TakeProfit      float64         `json:"take_profit"`
	Status          DetectionStatus `json:"status"`
	InvalidReason   string          `json:"invalid_reason,omitempty"`
	Triggers        []string        `json:"triggers,omitempty"`
	FirstDetectedAt time.Time       `json:"first_detected_at"`
	LastDetectedAt  time.Time       `json:"last_detected_at"`
	DetectionCount  int             `json:"detection_count"`
	CooldownEndsAt  time.Time       `json:"cooldown_ends_at"`
	BarExpiresAt    time.Time       `json:"bar_expires_at"`
}

// CanTransition reports whether moving from the current status to next is a
// legal, monotonic step. cooling_down may only advance to eligible or a
// terminal state; eligible only to a terminal state; terminal states are
// absorbing.
func (d *Detection) CanTransition(next DetectionStatus) bool {
	if d.Status.Terminal() {
		return false
	}
	switch d.Status {
	case StatusCoolingDown:
		return next == StatusEligible || next.Terminal()
	case StatusEligible:
		return next.Terminal()
	}
	return false
}

// Transition applies a status change, rejecting any non-monotonic move.
func (d *Detection) Transition(next DetectionStatus) error {
	if !ValidStatus(next) {
		return fmt.Errorf("unknown detection status %q", next)
	}
	if !d.CanTransition(next) {
		return fmt.Errorf("illegal detection transition %s -> %s", d.Status, next)
	}
	d.Status = next
	return nil
}

// DetectionFilter narrows List queries. From/To bound LastDetectedAt.
type DetectionFilter struct {
	Status     DetectionStatus
	StrategyID string
	Symbol     string
	Grade      Grade
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

// DetectionSummary counts detections per status for one strategy.
type DetectionSummary struct {
	StrategyID string                    `json:"strategy_id"`
	ByStatus   map[DetectionStatus]int64 `json:"by_status"`
	Total      int64                     `json:"total"`
}
