package rules

import (
	"fmt"
	"math"

	"TradeSentry/internal/calculator"
	"TradeSentry/internal/model"
)

// checkMABounce20 fires when price pulls back to the 20MA and bounces -
// bullish in an uptrend (20MA above 50MA). Stop sits below the MA by the
// stop offset or at the bar low, whichever is lower.
func checkMABounce20(symbol string, bar model.Bar, ma20, ma50 float64) *model.AlertSignal {
	if ma20 <= 0 || ma50 <= 0 {
		return nil
	}
	if ma20 <= ma50 {
		return nil // not in uptrend
	}

	proximity := math.Abs(bar.Low-ma20) / ma20
	if proximity > MABounceProximityPct {
		return nil
	}
	if bar.Close <= ma20 {
		return nil // didn't bounce above
	}

	entry := bar.Close
	stop := math.Min(bar.Low, ma20*(1-MAStopOffsetPct))
	risk := entry - stop
	if risk <= 0 {
		return nil
	}

	confidence := model.ConfidenceMedium
	if proximity <= MABounceHighConfPct {
		confidence = model.ConfidenceHigh
	}
	return &model.AlertSignal{
		Symbol:     symbol,
		Type:       model.MABounce20,
		Direction:  model.Buy,
		Price:      bar.Close,
		Entry:      entry,
		Stop:       round2(stop),
		Target1:    round2(entry + risk),
		Target2:    round2(entry + 2*risk),
		Confidence: confidence,
		Message: fmt.Sprintf("MA bounce 20MA - price pulled back to $%.2f and closed above at $%.2f",
			ma20, entry),
	}
}

// checkMABounce50 fires on a deeper pullback to the 50MA. The prior close
// must already be above the 50MA - otherwise this is a breakdown retest,
// not a pullback.
func checkMABounce50(symbol string, bar model.Bar, ma50, priorClose float64) *model.AlertSignal {
	if ma50 <= 0 {
		return nil
	}
	if priorClose > 0 && priorClose <= ma50 {
		return nil // was already below - breakdown, not pullback
	}

	proximity := math.Abs(bar.Low-ma50) / ma50
	if proximity > MABounceProximityPct {
		return nil
	}
	if bar.Close <= ma50 {
		return nil
	}

	entry := bar.Close
	stop := math.Min(bar.Low, ma50*(1-MAStopOffsetPct))
	risk := entry - stop
	if risk <= 0 {
		return nil
	}

	confidence := model.ConfidenceMedium
	if proximity <= MABounceHighConfPct {
		confidence = model.ConfidenceHigh
	}
	return &model.AlertSignal{
		Symbol:     symbol,
		Type:       model.MABounce50,
		Direction:  model.Buy,
		Price:      bar.Close,
		Entry:      entry,
		Stop:       round2(stop),
		Target1:    round2(entry + risk),
		Target2:    round2(entry + 2*risk),
		Confidence: confidence,
		Message: fmt.Sprintf("MA bounce 50MA - price pulled back to $%.2f and closed above at $%.2f",
			ma50, entry),
	}
}

// checkPriorDayLowReclaim fires when the session dipped meaningfully below
// the prior day's low and the latest bar has closed back above it. Entry is
// the reclaimed level; the stop is the session's minimum low.
func checkPriorDayLowReclaim(symbol string, bars []model.Bar, priorDayLow float64) *model.AlertSignal {
	if len(bars) == 0 || priorDayLow <= 0 {
		return nil
	}

	intradayLow := calculator.SessionLow(bars)
	if intradayLow > priorDayLow*(1-PDLDipMinPct) {
		return nil // never dipped far enough
	}

	last := bars[len(bars)-1]
	if last.Close <= priorDayLow {
		return nil // hasn't reclaimed yet
	}

	entry := priorDayLow
	stop := intradayLow
	risk := entry - stop
	if risk <= 0 {
		return nil
	}

	return &model.AlertSignal{
		Symbol:     symbol,
		Type:       model.PriorDayLowReclaim,
		Direction:  model.Buy,
		Price:      last.Close,
		Entry:      round2(entry),
		Stop:       round2(stop),
		Target1:    round2(entry + risk),
		Target2:    round2(entry + 2*risk),
		Confidence: model.ConfidenceHigh,
		Message: fmt.Sprintf("Prior day low reclaim - dipped to $%.2f, reclaimed above $%.2f",
			intradayLow, priorDayLow),
	}
}

// checkInsideDayBreakout fires when the prior session was an inside day and
// the current bar closes above its high. Target 1 projects the inside range;
// target 2 projects the parent session's range.
func checkInsideDayBreakout(symbol string, bar model.Bar, prior *model.PriorDay) *model.AlertSignal {
	if prior == nil || !prior.IsInside {
		return nil
	}
	if bar.Close <= prior.High {
		return nil
	}

	insideRange := prior.High - prior.Low
	parentRange := prior.ParentHigh - prior.ParentLow
	if insideRange <= 0 {
		return nil
	}

	return &model.AlertSignal{
		Symbol:     symbol,
		Type:       model.InsideDayBreakout,
		Direction:  model.Buy,
		Price:      bar.Close,
		Entry:      round2(prior.High),
		Stop:       round2(prior.Low),
		Target1:    round2(prior.High + insideRange),
		Target2:    round2(prior.High + parentRange),
		Confidence: model.ConfidenceHigh,
		Message: fmt.Sprintf("Inside day breakout - broke above $%.2f (inside range $%.2f)",
			prior.High, insideRange),
	}
}

// checkEMACrossover fires when the 5-bar EMA crosses above the 20-bar EMA on
// the final bar. Restricted to mega-cap symbols to avoid noise on illiquid
// names; the stop is the lowest low of the last three bars.
func checkEMACrossover(symbol string, bars []model.Bar, isMegaCap bool) *model.AlertSignal {
	if !isMegaCap {
		return nil
	}
	if len(bars) < EMAMinBars {
		return nil
	}

	closes := calculator.Closes(bars)
	ema5 := calculator.EMASeries(closes, 5)
	ema20 := calculator.EMASeries(closes, 20)

	n := len(bars)
	prevBelow := ema5[n-2] <= ema20[n-2]
	currAbove := ema5[n-1] > ema20[n-1]
	if !prevBelow || !currAbove {
		return nil // no crossover on this bar
	}

	last := bars[n-1]
	entry := last.Close
	stop := calculator.SessionLow(bars[n-3:])
	risk := entry - stop
	if risk <= 0 {
		return nil
	}

	return &model.AlertSignal{
		Symbol:     symbol,
		Type:       model.EMACrossover520,
		Direction:  model.Buy,
		Price:      entry,
		Entry:      round2(entry),
		Stop:       round2(stop),
		Target1:    round2(entry + risk),
		Target2:    round2(entry + 2*risk),
		Confidence: model.ConfidenceHigh,
		Message: fmt.Sprintf("5/20 EMA bullish crossover - EMA5 $%.2f crossed above EMA20 $%.2f",
			ema5[n-1], ema20[n-1]),
	}
}

// checkGapFill fires once an opening gap has completely filled. It is
// informational: no levels attached, and it is exempt from the BUY
// suppression stages (cooldown, regime, noise). Direction is SELL for a
// gap-up fill (bearish cue) and BUY for a gap-down fill.
func checkGapFill(symbol string, bar model.Bar, gap GapStatus) *model.AlertSignal {
	if !gap.Filled || gap.Direction == GapFlat {
		return nil
	}

	direction := model.Buy
	label := "gap down"
	if gap.Direction == GapUp {
		direction = model.Sell
		label = "gap up"
	}

	return &model.AlertSignal{
		Symbol:     symbol,
		Type:       model.GapFill,
		Direction:  direction,
		Price:      bar.Close,
		Confidence: model.ConfidenceMedium,
		Message:    fmt.Sprintf("Gap fill complete - %s (%+.1f%%) fully filled", label, gap.Pct),
	}
}
