package models

// Requests for the HTTP API. Defined in domain for consistency and reuse.

type ScanRequest struct {
	Symbols    []string     `json:"symbols" validate:"required,min=1,max=50,dive,required"`
	StrategyID string       `json:"strategy_id" validate:"required"`
	Settings   UserSettings `json:"settings" validate:"required"`
	Options    ScanOptions  `json:"options"`
}

type DetectionListRequest struct {
	Status     string `query:"status" json:"status" validate:"omitempty,oneof=cooling_down eligible executed dismissed expired invalidated"`
	StrategyID string `query:"strategy_id" json:"strategy_id"`
	Symbol     string `query:"symbol" json:"symbol"`
	Grade      string `query:"grade" json:"grade" validate:"omitempty,oneof=C B B+ A A+"`
	Limit      int    `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=500"`
	Offset     int    `query:"offset" json:"offset" validate:"gte=0"`
}

type CreateDetectionRequest struct {
	Symbol     string   `json:"symbol" validate:"required"`
	StrategyID string   `json:"strategy_id" validate:"required"`
	Direction  string   `json:"direction" validate:"required,oneof=long short"`
	Confidence float64  `json:"confidence" validate:"gte=0,lte=100"`
	Entry      float64  `json:"entry" validate:"required,gt=0"`
	StopLoss   float64  `json:"stop_loss" validate:"required,gt=0"`
	TakeProfit float64  `json:"take_profit" validate:"required,gt=0"`
	Style      string   `json:"style" default:"intraday" validate:"oneof=scalping intraday swing position"`
	Triggers   []string `json:"triggers" validate:"max=20"`
}

type ActiveDetectionRequest struct {
	StrategyID string `query:"strategy_id" json:"strategy_id" validate:"required"`
	Symbol     string `query:"symbol" json:"symbol" validate:"required"`
	Direction  string `query:"direction" json:"direction" validate:"required,oneof=long short"`
}

type DetectionStatusRequest struct {
	Action string `json:"action" validate:"required,oneof=execute dismiss invalidate"`
	Reason string `json:"reason" validate:"required_if=Action invalidate,max=500"`
}
