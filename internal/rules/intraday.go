package rules

import (
	"fmt"
	"math"

	"TradeSentry/internal/model"
)

// checkOpeningRangeBreakout fires when price closes above the opening
// range high after the range is complete, on expanding volume. Tiny
// opening ranges are skipped: a breakout of nothing is nothing.
func checkOpeningRangeBreakout(symbol string, bars []model.Bar, or OpeningRange, volRatio float64) *model.AlertSignal {
	if !or.Complete || or.Range <= 0 {
		return nil
	}
	if or.RangePct < ORBMinRangePct {
		return nil // range too narrow to trade
	}
	if volRatio < ORBVolumeRatio {
		return nil
	}

	last := bars[len(bars)-1]
	if last.Close <= or.High {
		return nil
	}

	entry := or.High
	stop := or.Low
	confidence := model.ConfidenceMedium
	if volRatio >= ORBHighConfVolRatio {
		confidence = model.ConfidenceHigh
	}
	return &model.AlertSignal{
		Symbol:     symbol,
		Type:       model.OpeningRangeBreakout,
		Direction:  model.Buy,
		Price:      last.Close,
		Entry:      round2(entry),
		Stop:       round2(stop),
		Target1:    round2(entry + or.Range),
		Target2:    round2(entry + 2*or.Range),
		Confidence: confidence,
		Message: fmt.Sprintf("Opening range breakout - closed above $%.2f on %.1fx volume",
			or.High, volRatio),
	}
}

// checkIntradaySupportBounce fires when price tests an intraday support
// level built earlier in the session and closes back above it.
func checkIntradaySupportBounce(symbol string, bars []model.Bar, supports []float64) *model.AlertSignal {
	if len(bars) == 0 || len(supports) == 0 {
		return nil
	}
	last := bars[len(bars)-1]

	for _, lvl := range supports {
		proximity := math.Abs(last.Low-lvl) / lvl
		if proximity > SupportBounceProximityPct {
			continue
		}
		if last.Close <= lvl {
			continue
		}

		entry := lvl
		stop := math.Min(last.Low, lvl*(1-SupportStopOffsetPct))
		risk := entry - stop
		if risk <= 0 {
			continue
		}
		return &model.AlertSignal{
			Symbol:     symbol,
			Type:       model.IntradaySupportBounce,
			Direction:  model.Buy,
			Price:      last.Close,
			Entry:      round2(entry),
			Stop:       round2(stop),
			Target1:    round2(entry + risk),
			Target2:    round2(entry + 2*risk),
			Confidence: model.ConfidenceMedium,
			Message: fmt.Sprintf("Intraday support bounce - held $%.2f, closed at $%.2f",
				lvl, entry),
		}
	}
	return nil
}

// checkSessionLowDoubleBottom fires when price retests the session low set
// earlier in the day and holds it. The low must be old enough to be a real
// level, the retest must come after a genuine recovery, and the retest bar
// must not arrive on heavy volume (heavy selling into a low is a break
// setup, not a bottom).
func checkSessionLowDoubleBottom(symbol string, bars []model.Bar, volRatio float64) *model.AlertSignal {
	if len(bars) < SessionLowMinAgeBars+SessionLowMinRecoveryBars+1 {
		return nil
	}

	// find the session low and where it was set
	lowIdx := 0
	for i, b := range bars {
		if b.Low < bars[lowIdx].Low {
			lowIdx = i
		}
	}
	sessionLow := bars[lowIdx].Low
	last := bars[len(bars)-1]
	n := len(bars)

	if lowIdx > n-1-SessionLowMinAgeBars {
		return nil // low too fresh
	}

	// the recovery between the low and the retest must be sustained: a run
	// of consecutive bars whose lows clear the recovery threshold, not a
	// lone spike
	threshold := sessionLow * (1 + SessionLowRecoveryPct)
	consecutive, longest := 0, 0
	for i := lowIdx + 1; i < n-1; i++ {
		if bars[i].Low > threshold {
			consecutive++
			if consecutive > longest {
				longest = consecutive
			}
		} else {
			consecutive = 0
		}
	}
	if longest < SessionLowMinRecoveryBars {
		return nil
	}

	if last.Low < sessionLow {
		return nil // undercut - the level broke
	}
	if (last.Low-sessionLow)/sessionLow > SessionLowProximityPct {
		return nil // not a retest
	}
	if last.Close <= sessionLow {
		return nil // touched but not bouncing
	}
	if volRatio >= SessionLowMaxRetestVolRatio {
		return nil // heavy selling into the low
	}

	entry := sessionLow
	stop := math.Min(last.Low, sessionLow*(1-SessionLowStopOffsetPct))
	risk := entry - stop
	if risk <= 0 {
		return nil
	}
	return &model.AlertSignal{
		Symbol:     symbol,
		Type:       model.SessionLowDoubleBot,
		Direction:  model.Buy,
		Price:      last.Close,
		Entry:      round2(entry),
		Stop:       round2(stop),
		Target1:    round2(entry + risk),
		Target2:    round2(entry + 2*risk),
		Confidence: model.ConfidenceMedium,
		Message: fmt.Sprintf("Session low double bottom - retested $%.2f and held", sessionLow),
	}
}

// TradePlan holds pre-market levels derived from the prior day's candle.
type TradePlan struct {
	Entry   float64
	Stop    float64
	Target1 float64
	Target2 float64
}

// PlanFromPriorDay builds the pre-market plan for a symbol. Inside days
// have no standalone plan: the inside-day breakout rule owns those levels.
func PlanFromPriorDay(prior *model.PriorDay) *TradePlan {
	if prior == nil || prior.High <= prior.Low {
		return nil
	}
	dayRange := prior.High - prior.Low
	switch prior.Pattern {
	case model.PatternInside:
		return nil
	case model.PatternOutside:
		mid := (prior.High + prior.Low) / 2
		return &TradePlan{
			Entry:   round2(mid),
			Stop:    round2(prior.Low),
			Target1: round2(prior.High),
			Target2: round2(prior.High + (prior.High - mid)),
		}
	default:
		return &TradePlan{
			Entry:   round2(prior.Low),
			Stop:    round2(prior.Low - 0.25*dayRange),
			Target1: round2(prior.High),
			Target2: round2(prior.High + 0.5*dayRange),
		}
	}
}

// planAtLevel replaces the derived plan's entry with a hand-set watch level.
// The derived stop is kept when it sits under the level, otherwise a tight
// 0.5% stop is used, and the targets are rebuilt off the resulting risk.
func planAtLevel(level float64, derived *TradePlan) *TradePlan {
	if level <= 0 {
		return derived
	}
	p := &TradePlan{Entry: round2(level), Stop: round2(level * 0.995)}
	if derived != nil && derived.Stop > 0 && derived.Stop < level {
		p.Stop = derived.Stop
	}
	r := p.Entry - p.Stop
	p.Target1 = round2(p.Entry + r)
	p.Target2 = round2(p.Entry + 2*r)
	return p
}

// checkPlannedLevelTouch fires when price trades into the pre-market plan's
// entry level and holds above it.
func checkPlannedLevelTouch(symbol string, bar model.Bar, plan *TradePlan) *model.AlertSignal {
	if plan == nil || plan.Entry <= 0 {
		return nil
	}
	if math.Abs(bar.Low-plan.Entry)/plan.Entry > PlannedLevelProximityPct {
		return nil
	}
	if bar.Close <= plan.Entry {
		return nil
	}
	if plan.Entry-plan.Stop <= 0 {
		return nil
	}
	return &model.AlertSignal{
		Symbol:     symbol,
		Type:       model.PlannedLevelTouch,
		Direction:  model.Buy,
		Price:      bar.Close,
		Entry:      plan.Entry,
		Stop:       plan.Stop,
		Target1:    plan.Target1,
		Target2:    plan.Target2,
		Confidence: model.ConfidenceHigh,
		Message: fmt.Sprintf("Planned level touch - trading at planned entry $%.2f and holding",
			plan.Entry),
	}
}
