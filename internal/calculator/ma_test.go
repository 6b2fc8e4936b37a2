package calculator

import (
	"math"
	"testing"

	"TradeSentry/internal/model"
)

func TestSMA(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5}
	got, err := SMA(prices, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got != 4.0 {
		t.Errorf("expected 4.0 (mean of last three), got %f", got)
	}
	if _, err := SMA(prices, 6); err == nil {
		t.Error("expected error for insufficient data")
	}
	if _, err := SMA(prices, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestEMASeries_SeedAndConvergence(t *testing.T) {
	prices := []float64{10, 11, 12, 13, 14}
	ema := EMASeries(prices, 3) // alpha = 0.5
	if ema[0] != 10 {
		t.Errorf("series must seed with the first value, got %f", ema[0])
	}
	// 10 -> 10.5 -> 11.25 -> 12.125 -> 13.0625
	if math.Abs(ema[4]-13.0625) > 1e-9 {
		t.Errorf("expected 13.0625, got %f", ema[4])
	}
	if EMASeries(nil, 3) != nil {
		t.Error("empty input should return nil")
	}
}

func TestRollingMean_ShortSeries(t *testing.T) {
	if got := RollingMean([]float64{2, 4}, 5); got != 3.0 {
		t.Errorf("short series should average everything, got %f", got)
	}
	if got := RollingMean([]float64{1, 2, 3, 4}, 2); got != 3.5 {
		t.Errorf("expected trailing-window mean 3.5, got %f", got)
	}
}

func TestVWAPAndVolumeRatio(t *testing.T) {
	bars := []model.Bar{
		{High: 101, Low: 99, Close: 100, Volume: 1000},
		{High: 103, Low: 101, Close: 102, Volume: 3000},
	}
	// (100*1000 + 102*3000) / 4000
	want := (100.0*1000 + 102.0*3000) / 4000
	if got := VWAP(bars); math.Abs(got-want) > 1e-9 {
		t.Errorf("VWAP: expected %f, got %f", want, got)
	}
	if got := VolumeRatio(bars); math.Abs(got-1.5) > 1e-9 {
		t.Errorf("last bar at 3000 vs avg 2000 should be 1.5, got %f", got)
	}
	if got := VolumeRatio(nil); got != 1.0 {
		t.Errorf("empty bars should default to 1.0, got %f", got)
	}
	if got := VWAP([]model.Bar{{High: 101, Low: 99, Close: 100}}); got != 0 {
		t.Errorf("zero volume should return 0, got %f", got)
	}
}

func TestClassifyDay(t *testing.T) {
	parent := model.Bar{High: 105, Low: 100}
	tests := []struct {
		name    string
		day     model.Bar
		pattern string
	}{
		{"inside", model.Bar{High: 104, Low: 101, Close: 103.5}, model.PatternInside},
		{"outside", model.Bar{High: 106, Low: 99, Close: 100}, model.PatternOutside},
		{"normal", model.Bar{High: 106, Low: 102, Close: 104}, model.PatternNormal},
	}
	for _, tt := range tests {
		pattern, _ := ClassifyDay(parent, tt.day)
		if pattern != tt.pattern {
			t.Errorf("%s: got %s", tt.name, pattern)
		}
	}
}

func TestCloseDirection(t *testing.T) {
	tests := []struct {
		day  model.Bar
		want string
	}{
		{model.Bar{High: 110, Low: 100, Close: 107}, model.DirectionBullish}, // pos 0.7
		{model.Bar{High: 110, Low: 100, Close: 103}, model.DirectionBearish}, // pos 0.3
		{model.Bar{High: 110, Low: 100, Close: 105}, model.DirectionNeutral}, // pos 0.5
		{model.Bar{High: 100, Low: 100, Close: 100}, model.DirectionNeutral}, // no range
	}
	for _, tt := range tests {
		if got := CloseDirection(tt.day); got != tt.want {
			t.Errorf("close %.0f: got %s, want %s", tt.day.Close, got, tt.want)
		}
	}
}
