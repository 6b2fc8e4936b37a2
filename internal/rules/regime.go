package rules

import "TradeSentry/internal/model"

// ClassifyRegime buckets the broad market by SPY's position against its
// 5, 20 and 50 day moving averages. Missing averages yield CHOPPY - no
// opinion is better than a wrong one.
func ClassifyRegime(close, ma5, ma20, ma50 float64) string {
	if close <= 0 || ma5 <= 0 || ma20 <= 0 || ma50 <= 0 {
		return model.RegimeChoppy
	}
	switch {
	case close > ma5 && ma5 > ma20 && ma20 > ma50:
		return model.RegimeTrendingUp
	case close < ma5 && close < ma20 && close < ma50:
		return model.RegimeTrendingDown
	case close < ma5 && close > ma20:
		return model.RegimePullback
	default:
		return model.RegimeChoppy
	}
}
