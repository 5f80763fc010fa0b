package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"
	xhttp "github.com/URF365LLC/forex-decision-engine--sub001/pkg/http"
)

// IndicatorClient fetches aligned bars and indicator series from the market
// data API. Upstream series use null for unavailable readings; pointer
// fields keep that distinct from a legitimate zero, and the tri-state
// conversion happens here, once, at the boundary.
type IndicatorClient struct {
	http    *xhttp.Client
	baseURL string
	apiKey  string
}

func NewIndicatorClient(baseURL, apiKey string, timeout time.Duration) *IndicatorClient {
	return &IndicatorClient{
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type barDTO struct {
	Timestamp int64   `json:"t"`
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    float64 `json:"v"`
}

type indicatorsDTO struct {
	Symbol    string                `json:"symbol"`
	Timeframe string                `json:"timeframe"`
	Bars      []barDTO              `json:"bars"`
	TrendBars []barDTO              `json:"trend_bars"`
	Series    map[string][]*float64 `json:"series"`
}

// GetIndicators fetches the bundle for one symbol at the style's signal and
// trend timeframes.
func (c *IndicatorClient) GetIndicators(ctx context.Context, symbol string, style models.Style) (*models.IndicatorBundle, error) {
	var dto indicatorsDTO
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v1/indicators",
		Headers: map[string]string{
			"X-API-Key": c.apiKey,
		},
		QueryParams: map[string][]string{
			"symbol":          {symbol},
			"timeframe":       {style.Timeframe()},
			"trend_timeframe": {style.TrendTimeframe()},
		},
	}, &dto)
	if err != nil {
		return nil, fmt.Errorf("fetch indicators for %s: %w", symbol, err)
	}

	bundle := &models.IndicatorBundle{
		Symbol:    symbol,
		Timeframe: dto.Timeframe,
		Bars:      toBars(dto.Bars),
		TrendBars: toBars(dto.TrendBars),
		Series:    make(map[string]models.Series, len(dto.Series)),
	}
	for name, vals := range dto.Series {
		s := make(models.Series, len(vals))
		for i, v := range vals {
			if v != nil {
				s[i] = models.Num(*v)
			}
		}
		bundle.Series[name] = s
	}
	return bundle, nil
}

func toBars(dtos []barDTO) []models.Bar {
	out := make([]models.Bar, len(dtos))
	for i, b := range dtos {
		out[i] = models.Bar{
			Timestamp: time.Unix(b.Timestamp, 0).UTC(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		}
	}
	return out
}
