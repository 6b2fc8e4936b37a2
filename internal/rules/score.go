package rules

import (
	"math"

	"TradeSentry/internal/model"
)

// ScoreInput is everything the composite scorer looks at for one symbol.
// Pattern and Direction describe the most recent completed day.
type ScoreInput struct {
	Pattern     string
	Direction   string
	Close       float64
	MA20        float64
	MA50        float64
	DayHigh     float64
	DayLow      float64
	VolumeRatio float64
}

// ScoreResult breaks a 0-100 composite down into its four 0-25 factors.
type ScoreResult struct {
	Total     int
	Candle    int
	MATrend   int
	Support   int
	Volume    int
	Grade     string
	Recommend string
}

// Score combines candle structure, moving-average posture, support
// proximity and volume into a 0-100 setup quality score.
func Score(in ScoreInput) ScoreResult {
	r := ScoreResult{
		Candle:  scoreCandle(in.Pattern, in.Direction),
		MATrend: scoreMATrend(in.Close, in.MA20, in.MA50),
		Support: scoreSupport(in),
		Volume:  scoreVolume(in),
	}
	r.Total = r.Candle + r.MATrend + r.Support + r.Volume
	r.Grade = Grade(r.Total)
	r.Recommend = Recommendation(r.Total)
	return r
}

// scoreCandle rates the prior day's candle. Inside days with a bullish
// close set up the cleanest breakouts; outside bearish days are the worst.
func scoreCandle(pattern, direction string) int {
	switch {
	case pattern == model.PatternInside && direction == model.DirectionBullish:
		return 25
	case pattern == model.PatternNormal && direction == model.DirectionBullish:
		return 20
	case pattern == model.PatternInside && direction == model.DirectionNeutral:
		return 15
	case pattern == model.PatternOutside && direction == model.DirectionBullish:
		return 15
	case pattern == model.PatternNormal && direction == model.DirectionBearish:
		return 5
	case pattern == model.PatternOutside && direction == model.DirectionBearish:
		return 0
	default:
		return 10
	}
}

func scoreMATrend(close, ma20, ma50 float64) int {
	if ma20 <= 0 || ma50 <= 0 {
		return 10 // not enough history to judge
	}
	within1pct := math.Abs(close-ma20)/ma20 <= 0.01
	switch {
	case close > ma20 && ma20 > ma50:
		return 25
	case within1pct && close > ma50:
		return 22
	case close > ma20 && close > ma50:
		return 15 // above both, but MAs not stacked
	case close > ma20 || close > ma50:
		return 10
	default:
		return 0
	}
}

// scoreSupport rewards price sitting on something: an MA within half a
// percent, or at least the lower part of the day's range.
func scoreSupport(in ScoreInput) int {
	nearMA := func(ma float64) bool {
		return ma > 0 && math.Abs(in.Close-ma)/ma <= 0.005
	}
	if nearMA(in.MA20) || nearMA(in.MA50) {
		return 25
	}
	dayRange := in.DayHigh - in.DayLow
	if dayRange <= 0 {
		return 10
	}
	pos := (in.Close - in.DayLow) / dayRange
	switch {
	case pos <= 0.30:
		return 20
	case pos <= 0.70:
		return 10
	default:
		return 5
	}
}

func scoreVolume(in ScoreInput) int {
	if in.VolumeRatio <= 0 {
		return 12 // unknown volume is scored neutral
	}
	bullish := in.Direction == model.DirectionBullish
	inside := in.Pattern == model.PatternInside
	switch {
	case bullish && in.VolumeRatio >= 1.5:
		return 25
	case bullish && in.VolumeRatio >= 1.2:
		return 20
	case inside && in.VolumeRatio < 0.8:
		return 18 // quiet coil
	case in.VolumeRatio >= 0.8 && in.VolumeRatio <= 1.2:
		return 12
	default:
		return 5
	}
}

// Grade buckets a composite score into letter grades.
func Grade(total int) string {
	switch {
	case total >= 90:
		return "A+"
	case total >= 75:
		return "A"
	case total >= 50:
		return "B"
	default:
		return "C"
	}
}

// Recommendation maps a score to the action shown in scanner output.
func Recommendation(total int) string {
	switch {
	case total >= 75:
		return model.Buy
	case total >= 50:
		return "WAIT"
	default:
		return "AVOID"
	}
}

// ClassifySetup tags a setup with the first matching strategy. Order
// matters: the more specific read wins.
func ClassifySetup(in ScoreInput, support float64) string {
	bullish := in.Direction == model.DirectionBullish
	if in.Pattern == model.PatternInside {
		return "breakout"
	}
	if support > 0 && in.DayLow < support && in.Close > support {
		return "support_bounce"
	}
	within1pct := func(ma float64) bool {
		return ma > 0 && math.Abs(in.Close-ma)/ma <= 0.01
	}
	if within1pct(in.MA20) || within1pct(in.MA50) {
		return "ma_bounce"
	}
	if bullish && in.MA20 > 0 && in.MA50 > 0 && in.Close > in.MA20 && in.MA20 > in.MA50 {
		return "momentum"
	}
	if bullish && support > 0 && in.Close > support {
		return "pullback_buy"
	}
	return "key_level"
}
