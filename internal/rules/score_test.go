package rules

import (
	"testing"

	"TradeSentry/internal/model"
)

func TestScore_CleanBreakoutSetup(t *testing.T) {
	// inside day, bullish close, stacked MAs, sitting on the 20MA, volume coil
	in := ScoreInput{
		Pattern:     model.PatternInside,
		Direction:   model.DirectionBullish,
		Close:       100.2,
		MA20:        100.0,
		MA50:        97.0,
		DayHigh:     101.0,
		DayLow:      100.0,
		VolumeRatio: 0.7,
	}
	r := Score(in)
	if r.Candle != 25 {
		t.Errorf("inside+bullish candle should be 25, got %d", r.Candle)
	}
	if r.MATrend != 25 {
		t.Errorf("stacked MAs should be 25, got %d", r.MATrend)
	}
	if r.Support != 25 {
		t.Errorf("on the 20MA should be 25, got %d", r.Support)
	}
	if r.Volume != 18 {
		t.Errorf("quiet coil on an inside day should be 18, got %d", r.Volume)
	}
	if r.Total != 93 || r.Grade != "A+" || r.Recommend != model.Buy {
		t.Errorf("total/grade/recommendation: %d %s %s", r.Total, r.Grade, r.Recommend)
	}
}

func TestScore_WeakSetup(t *testing.T) {
	// outside bearish day closing on its high, below both MAs, no volume
	in := ScoreInput{
		Pattern:     model.PatternOutside,
		Direction:   model.DirectionBearish,
		Close:       95.0,
		MA20:        100.0,
		MA50:        98.0,
		DayHigh:     96.0,
		DayLow:      94.0,
		VolumeRatio: 0.5,
	}
	r := Score(in)
	if r.Candle != 0 || r.MATrend != 0 {
		t.Errorf("worst candle and trend should be 0: %d %d", r.Candle, r.MATrend)
	}
	if r.Total >= 50 {
		t.Errorf("weak setup must score under 50, got %d", r.Total)
	}
	if r.Recommend != "AVOID" {
		t.Errorf("expected AVOID, got %s", r.Recommend)
	}
}

func TestScore_MissingMAsNeutral(t *testing.T) {
	r := Score(ScoreInput{
		Pattern:   model.PatternNormal,
		Direction: model.DirectionNeutral,
		Close:     100.0,
		DayHigh:   101.0,
		DayLow:    99.0,
	})
	if r.MATrend != 10 {
		t.Errorf("missing MAs should score neutral 10, got %d", r.MATrend)
	}
	if r.Volume != 12 {
		t.Errorf("missing volume should score neutral 12, got %d", r.Volume)
	}
}

func TestGradeBoundaries(t *testing.T) {
	tests := []struct {
		total int
		grade string
	}{
		{95, "A+"}, {90, "A+"}, {89, "A"}, {75, "A"},
		{74, "B"}, {50, "B"}, {49, "C"}, {0, "C"},
	}
	for _, tt := range tests {
		if got := Grade(tt.total); got != tt.grade {
			t.Errorf("Grade(%d) = %s, want %s", tt.total, got, tt.grade)
		}
	}
}

func TestRecommendationBoundaries(t *testing.T) {
	if Recommendation(75) != model.Buy {
		t.Error("75 should be BUY")
	}
	if Recommendation(74) != "WAIT" || Recommendation(50) != "WAIT" {
		t.Error("50-74 should be WAIT")
	}
	if Recommendation(49) != "AVOID" {
		t.Error("49 should be AVOID")
	}
}

func TestClassifySetup_Order(t *testing.T) {
	// inside pattern wins over everything
	in := ScoreInput{Pattern: model.PatternInside, Direction: model.DirectionBullish,
		Close: 100.0, MA20: 99.8, MA50: 97.0, DayLow: 99.5}
	if got := ClassifySetup(in, 99.7); got != "breakout" {
		t.Errorf("inside day should tag breakout, got %s", got)
	}

	// wicked below support, closed above
	in = ScoreInput{Pattern: model.PatternNormal, Direction: model.DirectionBullish,
		Close: 100.0, MA20: 95.0, MA50: 93.0, DayLow: 99.0}
	if got := ClassifySetup(in, 99.5); got != "support_bounce" {
		t.Errorf("expected support_bounce, got %s", got)
	}

	// riding an MA
	in = ScoreInput{Pattern: model.PatternNormal, Direction: model.DirectionNeutral,
		Close: 100.0, MA20: 99.5, MA50: 95.0, DayLow: 99.8}
	if got := ClassifySetup(in, 90.0); got != "ma_bounce" {
		t.Errorf("expected ma_bounce, got %s", got)
	}

	// clean uptrend, bullish close, nothing nearby
	in = ScoreInput{Pattern: model.PatternNormal, Direction: model.DirectionBullish,
		Close: 110.0, MA20: 105.0, MA50: 100.0, DayLow: 108.0}
	if got := ClassifySetup(in, 104.0); got != "momentum" {
		t.Errorf("expected momentum, got %s", got)
	}

	// nothing matches
	in = ScoreInput{Pattern: model.PatternNormal, Direction: model.DirectionBearish,
		Close: 100.0, DayLow: 99.0}
	if got := ClassifySetup(in, 0); got != "key_level" {
		t.Errorf("expected key_level fallback, got %s", got)
	}
}
