package calculator

import "TradeSentry/internal/model"

// VWAP computes the cumulative volume-weighted average price over the
// session's bars, using the typical price (H+L+C)/3 per bar. Returns 0 when
// no volume has traded.
func VWAP(bars []model.Bar) float64 {
	var pv, vol float64
	for _, b := range bars {
		typical := (b.High + b.Low + b.Close) / 3.0
		pv += typical * b.Volume
		vol += b.Volume
	}
	if vol <= 0 {
		return 0
	}
	return pv / vol
}

// VolumeRatio returns the last bar's volume relative to the session average.
// Defaults to 1.0 (neutral) when the average is unavailable.
func VolumeRatio(bars []model.Bar) float64 {
	if len(bars) == 0 {
		return 1.0
	}
	var sum float64
	for _, b := range bars {
		sum += b.Volume
	}
	avg := sum / float64(len(bars))
	if avg <= 0 {
		return 1.0
	}
	return bars[len(bars)-1].Volume / avg
}

// SessionLow returns the minimum low across the given bars, or 0 when empty.
func SessionLow(bars []model.Bar) float64 {
	if len(bars) == 0 {
		return 0
	}
	low := bars[0].Low
	for _, b := range bars[1:] {
		if b.Low < low {
			low = b.Low
		}
	}
	return low
}

// SessionHigh returns the maximum high across the given bars, or 0 when empty.
func SessionHigh(bars []model.Bar) float64 {
	if len(bars) == 0 {
		return 0
	}
	high := bars[0].High
	for _, b := range bars[1:] {
		if b.High > high {
			high = b.High
		}
	}
	return high
}
