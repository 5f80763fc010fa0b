package strategy

import "github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/models"

// SwingLow returns the lowest low across the lookback window ending at the
// signal bar. The entry bar is excluded: it is still forming.
func SwingLow(bars []models.Bar, lookback int) float64 {
	window := closedWindow(bars, lookback)
	if len(window) == 0 {
		return 0
	}
	low := window[0].Low
	for _, b := range window[1:] {
		if b.Low < low {
			low = b.Low
		}
	}
	return low
}

// SwingHigh returns the highest high across the lookback window ending at
// the signal bar.
func SwingHigh(bars []models.Bar, lookback int) float64 {
	window := closedWindow(bars, lookback)
	if len(window) == 0 {
		return 0
	}
	high := window[0].High
	for _, b := range window[1:] {
		if b.High > high {
			high = b.High
		}
	}
	return high
}

// closedWindow slices the last lookback closed bars (excluding the forming
// entry bar).
func closedWindow(bars []models.Bar, lookback int) []models.Bar {
	if len(bars) < 2 {
		return nil
	}
	end := len(bars) - 1 // exclude entry bar
	start := end - lookback
	if start < 0 {
		start = 0
	}
	return bars[start:end]
}
