// Package rules implements the intraday rule-evaluation engine: mechanical
// pattern detectors over 5-minute bars, a staged suppression pipeline, and a
// composite 0-100 scorer. Evaluate is a pure function of its inputs - all
// state (cooldowns, fired-today sets, active entries) is passed in by the
// caller.
package rules

import "math"

// Rule thresholds. Tunable constants carried over from live calibration;
// no derivation beyond that is implied.
const (
	// MA bounce: bar low must be within this fraction of the MA to qualify.
	MABounceProximityPct = 0.003 // 0.3%

	// MA bounce: stop offset below the MA.
	MAStopOffsetPct = 0.005 // 0.5%

	// High-confidence proximity for MA bounces.
	MABounceHighConfPct = 0.001 // 0.1%

	// Prior day low reclaim: minimum dip below the prior low to qualify.
	PDLDipMinPct = 0.001 // 0.1%

	// Resistance at prior high: proximity threshold.
	ResistanceProximityPct = 0.002 // 0.2%

	// Support breakdown: volume and conviction gates.
	BreakdownVolumeRatio   = 1.5
	BreakdownConvictionPct = 0.30 // close must sit in the lower 30% of the bar range

	// Noise filter: BUY signals below this volume ratio are dropped.
	LowVolumeSkipRatio = 0.4

	// EMA crossover: minimum bar history.
	EMAMinBars = 25

	// Opening range breakout.
	ORBBars             = 6     // 30 minutes of 5-minute bars
	ORBMinRangePct      = 0.003 // OR range must be at least 0.3% of price
	ORBVolumeRatio      = 1.2
	ORBHighConfVolRatio = 1.5

	// Support breakdown on 2x volume is high confidence outright.
	BreakdownHighConfVolRatio = 2.0

	// Intraday support bounce.
	SupportBounceProximityPct = 0.002
	SupportStopOffsetPct      = 0.005

	// Session low double-bottom.
	SessionLowProximityPct      = 0.002
	SessionLowMinAgeBars        = 6
	SessionLowMinRecoveryBars   = 3
	SessionLowRecoveryPct       = 0.005
	SessionLowStopOffsetPct     = 0.005
	SessionLowMaxRetestVolRatio = 1.5
	SessionLowBreakProximityPct = 0.003

	// Planned level touch.
	PlannedLevelProximityPct = 0.002

	// Maximum risk per share as a fraction of entry; stops are tightened to
	// this when a rule's natural stop is wider.
	DayTradeMaxRiskPct = 0.015 // 1.5%

	// Relative strength: demote BUY confidence when the symbol falls this
	// many times harder than SPY intraday.
	RSUnderperformFactor = 1.5

	// Gap classification: open-vs-prior-close moves below this are flat.
	GapFlatPct = 0.1 // percent
)

// round2 rounds a price to cents.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
