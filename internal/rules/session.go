package rules

import (
	"math"

	"TradeSentry/internal/calculator"
	"TradeSentry/internal/model"
)

// OpeningRange is the high/low of the first 30 minutes of the session.
type OpeningRange struct {
	High     float64
	Low      float64
	Range    float64
	RangePct float64 // range as a fraction of the OR high
	Complete bool    // true once the session has moved past the OR window
}

// ComputeOpeningRange derives the opening range from today's 5-minute bars.
// The range is only Complete once at least one bar exists beyond it.
func ComputeOpeningRange(bars []model.Bar) OpeningRange {
	if len(bars) <= ORBBars {
		return OpeningRange{}
	}
	window := bars[:ORBBars]
	or := OpeningRange{
		High:     calculator.SessionHigh(window),
		Low:      calculator.SessionLow(window),
		Complete: true,
	}
	or.Range = or.High - or.Low
	if or.High > 0 {
		or.RangePct = or.Range / or.High
	}
	return or
}

// Gap direction labels.
const (
	GapUp   = "gap_up"
	GapDown = "gap_down"
	GapFlat = "flat"
)

// GapStatus describes the open gap against the prior close and whether the
// session has fully filled it.
type GapStatus struct {
	Direction string
	Pct       float64 // signed percent
	Filled    bool
}

// TrackGapFill classifies the opening gap and checks whether any bar so far
// has traded back through the prior close (a complete fill).
func TrackGapFill(bars []model.Bar, priorClose float64) GapStatus {
	if len(bars) == 0 || priorClose <= 0 {
		return GapStatus{Direction: GapFlat}
	}
	open := bars[0].Open
	pct := (open - priorClose) / priorClose * 100
	gs := GapStatus{Pct: pct}
	switch {
	case pct >= GapFlatPct:
		gs.Direction = GapUp
	case pct <= -GapFlatPct:
		gs.Direction = GapDown
	default:
		gs.Direction = GapFlat
		return gs
	}
	for _, b := range bars {
		if gs.Direction == GapUp && b.Low <= priorClose {
			gs.Filled = true
			break
		}
		if gs.Direction == GapDown && b.High >= priorClose {
			gs.Filled = true
			break
		}
	}
	return gs
}

// DetectIntradaySupports finds held hourly support levels in today's bars:
// the low of each completed 12-bar (one hour) chunk, kept when no later bar
// closed below it. Levels within proximity of each other collapse to one.
// Returned ascending.
func DetectIntradaySupports(bars []model.Bar) []float64 {
	const chunk = 12
	if len(bars) < chunk+1 {
		return nil
	}
	var levels []float64
	for start := 0; start+chunk <= len(bars)-1; start += chunk {
		lvl := calculator.SessionLow(bars[start : start+chunk])
		if lvl <= 0 {
			continue
		}
		held := true
		for _, b := range bars[start+chunk:] {
			if b.Close < lvl*(1-SupportBounceProximityPct) {
				held = false
				break
			}
		}
		if !held {
			continue
		}
		dup := false
		for _, existing := range levels {
			if math.Abs(existing-lvl)/existing <= SupportBounceProximityPct {
				dup = true
				break
			}
		}
		if !dup {
			levels = append(levels, lvl)
		}
	}
	for i := 1; i < len(levels); i++ {
		for j := i; j > 0 && levels[j] < levels[j-1]; j-- {
			levels[j], levels[j-1] = levels[j-1], levels[j]
		}
	}
	return levels
}

// NearestSupport finds the closest support level at or below the current
// price among the prior day low and the two daily MAs. When price has broken
// below all of them, the lowest candidate is returned.
func NearestSupport(close, priorLow, ma20, ma50 float64) (float64, string) {
	type candidate struct {
		level float64
		label string
	}
	var candidates []candidate
	if priorLow > 0 {
		candidates = append(candidates, candidate{priorLow, "Prior Day Low"})
	}
	if ma20 > 0 {
		candidates = append(candidates, candidate{ma20, "20 MA"})
	}
	if ma50 > 0 {
		candidates = append(candidates, candidate{ma50, "50 MA"})
	}
	if len(candidates) == 0 {
		return priorLow, "Prior Day Low"
	}

	best := candidate{}
	for _, c := range candidates {
		if c.level <= close && c.level > best.level {
			best = c
		}
	}
	if best.level > 0 {
		return best.level, best.label
	}
	// Everything is above price - return the lowest level.
	best = candidates[0]
	for _, c := range candidates[1:] {
		if c.level < best.level {
			best = c
		}
	}
	return best.level, best.label
}
