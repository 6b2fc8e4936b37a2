package calculator

import "TradeSentry/internal/model"

// ClassifyDay labels a daily candle against its parent day. Inside days sit
// entirely within the parent's range, outside days engulf it. Direction
// comes from where the close sits in the day's own range.
func ClassifyDay(parent, day model.Bar) (pattern, direction string) {
	switch {
	case day.High <= parent.High && day.Low >= parent.Low:
		pattern = model.PatternInside
	case day.High > parent.High && day.Low < parent.Low:
		pattern = model.PatternOutside
	default:
		pattern = model.PatternNormal
	}
	return pattern, CloseDirection(day)
}

// CloseDirection labels a candle bullish when the close lands in the upper
// 40% of the range and bearish in the lower 40%.
func CloseDirection(day model.Bar) string {
	dayRange := day.High - day.Low
	if dayRange <= 0 {
		return model.DirectionNeutral
	}
	pos := (day.Close - day.Low) / dayRange
	switch {
	case pos >= 0.6:
		return model.DirectionBullish
	case pos <= 0.4:
		return model.DirectionBearish
	default:
		return model.DirectionNeutral
	}
}
