package rules

import (
	"fmt"
	"math"

	"TradeSentry/internal/calculator"
	"TradeSentry/internal/model"
)

// checkResistancePriorHigh fires when price trades up into the prior day's
// high. Informational heads-up for holders, not an entry - callers only run
// it when the symbol has an open entry.
func checkResistancePriorHigh(symbol string, bar model.Bar, priorDayHigh float64) *model.AlertSignal {
	if priorDayHigh <= 0 {
		return nil
	}
	if math.Abs(bar.High-priorDayHigh)/priorDayHigh > ResistanceProximityPct {
		return nil
	}
	return &model.AlertSignal{
		Symbol:     symbol,
		Type:       model.ResistancePriorHigh,
		Direction:  model.Sell,
		Price:      bar.Close,
		Confidence: model.ConfidenceMedium,
		Message: fmt.Sprintf("Approaching prior day high $%.2f - watch for rejection",
			priorDayHigh),
	}
}

// checkTargetHits emits target-1 and target-2 alerts for a tracked entry.
// Target 2 supersedes target 1: when both levels are cleared on the same
// bar only the target-2 alert is produced.
func checkTargetHits(symbol string, bar model.Bar, entry model.ActiveEntry) *model.AlertSignal {
	if entry.Target2 > 0 && bar.High >= entry.Target2 {
		return &model.AlertSignal{
			Symbol:     symbol,
			Type:       model.Target2Hit,
			Direction:  model.Sell,
			Price:      entry.Target2,
			Entry:      entry.EntryPrice,
			Confidence: model.ConfidenceHigh,
			Message: fmt.Sprintf("Target 2 hit at $%.2f (entry $%.2f) - close remaining position",
				entry.Target2, entry.EntryPrice),
		}
	}
	if entry.Target1 > 0 && bar.High >= entry.Target1 {
		return &model.AlertSignal{
			Symbol:     symbol,
			Type:       model.Target1Hit,
			Direction:  model.Sell,
			Price:      entry.Target1,
			Entry:      entry.EntryPrice,
			Confidence: model.ConfidenceHigh,
			Message: fmt.Sprintf("Target 1 hit at $%.2f (entry $%.2f) - take partial profits",
				entry.Target1, entry.EntryPrice),
		}
	}
	return nil
}

// checkStopLossHit fires when a tracked entry's stop trades. The stop takes
// precedence over any target alert for the same entry on the same bar.
func checkStopLossHit(symbol string, bar model.Bar, entry model.ActiveEntry) *model.AlertSignal {
	if entry.StopPrice <= 0 || bar.Low > entry.StopPrice {
		return nil
	}
	return &model.AlertSignal{
		Symbol:     symbol,
		Type:       model.StopLossHit,
		Direction:  model.Sell,
		Price:      entry.StopPrice,
		Entry:      entry.EntryPrice,
		Stop:       entry.StopPrice,
		Confidence: model.ConfidenceHigh,
		Message: fmt.Sprintf("Stop loss hit at $%.2f (entry $%.2f) - exit now",
			entry.StopPrice, entry.EntryPrice),
	}
}

// checkAutoStopOut covers positions the user reported entering manually.
// Same semantics as a stop-loss hit but tracked outside the entry store.
func checkAutoStopOut(symbol string, bar model.Bar, auto model.AutoStopEntry) *model.AlertSignal {
	if auto.StopPrice <= 0 || bar.Low > auto.StopPrice {
		return nil
	}
	return &model.AlertSignal{
		Symbol:     symbol,
		Type:       model.AutoStopOut,
		Direction:  model.Sell,
		Price:      auto.StopPrice,
		Entry:      auto.EntryPrice,
		Stop:       auto.StopPrice,
		Confidence: model.ConfidenceHigh,
		Message: fmt.Sprintf("Auto stop triggered at $%.2f (entry $%.2f) - exit now",
			auto.StopPrice, auto.EntryPrice),
	}
}

// checkSupportBreakdown fires a SHORT when price closes decisively below
// the nearest support on heavy volume. Confidence upgrades to high when the
// break also takes out the session low - there is no dip buyer left under it.
func checkSupportBreakdown(symbol string, bars []model.Bar, prior *model.PriorDay, volRatio float64) *model.AlertSignal {
	if len(bars) == 0 || prior == nil {
		return nil
	}
	last := bars[len(bars)-1]

	support, name := NearestSupport(last.Close, prior.Low, prior.MA20, prior.MA50)
	if support <= 0 || last.Close >= support {
		return nil
	}
	if volRatio < BreakdownVolumeRatio {
		return nil
	}

	barRange := last.High - last.Low
	if barRange <= 0 {
		return nil
	}
	closePos := (last.Close - last.Low) / barRange
	if closePos > BreakdownConvictionPct {
		return nil // weak close, no conviction
	}

	entry := last.Close
	stop := support
	risk := stop - entry
	if risk <= 0 {
		return nil
	}

	confidence := model.ConfidenceMedium
	if volRatio >= BreakdownHighConfVolRatio {
		confidence = model.ConfidenceHigh
	}
	if len(bars) > 1 {
		// a support sitting on the session low has no dip buyers left
		sessionLow := calculator.SessionLow(bars[:len(bars)-1])
		if sessionLow > 0 && math.Abs(support-sessionLow)/sessionLow <= SessionLowBreakProximityPct {
			confidence = model.ConfidenceHigh
		}
	}

	return &model.AlertSignal{
		Symbol:     symbol,
		Type:       model.SupportBreakdown,
		Direction:  model.Short,
		Price:      last.Close,
		Entry:      round2(entry),
		Stop:       round2(stop),
		Target1:    round2(entry - risk),
		Target2:    round2(entry - 2*risk),
		Confidence: confidence,
		Message: fmt.Sprintf("Support breakdown - closed below %s $%.2f on %.1fx volume",
			name, support, volRatio),
	}
}
