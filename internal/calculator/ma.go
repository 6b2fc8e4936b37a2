package calculator

import (
	"errors"

	"TradeSentry/internal/model"
)

// SMA computes the simple moving average of the given prices over the
// specified period, using the most recent `period` values.
func SMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// EMASeries computes the exponential moving average series over the given
// period. Seeded with the first value (recursive form), so EMASeries[i]
// depends only on prices[0..i]. Returns nil when prices is empty.
func EMASeries(prices []float64, period int) []float64 {
	if len(prices) == 0 || period <= 0 {
		return nil
	}
	alpha := 2.0 / (float64(period) + 1.0)
	out := make([]float64, len(prices))
	out[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		out[i] = alpha*prices[i] + (1-alpha)*out[i-1]
	}
	return out
}

// Closes extracts the close prices from a bar series.
func Closes(bars []model.Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// RollingMean returns the mean of the trailing `window` values, falling back
// to the full-series mean when fewer values are available.
func RollingMean(values []float64, window int) float64 {
	if len(values) == 0 {
		return 0
	}
	start := len(values) - window
	if start < 0 {
		start = 0
	}
	sum := 0.0
	for _, v := range values[start:] {
		sum += v
	}
	return sum / float64(len(values)-start)
}
