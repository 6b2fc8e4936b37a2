package model

// AlertType identifies which rule fired a signal. The catalog is closed:
// every consumer (suppression, notifier, summary) switches exhaustively
// over these values, so adding a rule is a compile-visible change.
type AlertType string

const (
	MABounce20            AlertType = "ma_bounce_20"
	MABounce50            AlertType = "ma_bounce_50"
	PriorDayLowReclaim    AlertType = "prior_day_low_reclaim"
	InsideDayBreakout     AlertType = "inside_day_breakout"
	EMACrossover520       AlertType = "ema_crossover_5_20"
	OpeningRangeBreakout  AlertType = "opening_range_breakout"
	IntradaySupportBounce AlertType = "intraday_support_bounce"
	SessionLowDoubleBot   AlertType = "session_low_double_bottom"
	PlannedLevelTouch     AlertType = "planned_level_touch"
	GapFill               AlertType = "gap_fill"
	ResistancePriorHigh   AlertType = "resistance_prior_high"
	Target1Hit            AlertType = "target_1_hit"
	Target2Hit            AlertType = "target_2_hit"
	StopLossHit           AlertType = "stop_loss_hit"
	SupportBreakdown      AlertType = "support_breakdown"
	AutoStopOut           AlertType = "auto_stop_out"
)

// AllAlertTypes lists the full catalog in rule order.
var AllAlertTypes = []AlertType{
	MABounce20, MABounce50, PriorDayLowReclaim, InsideDayBreakout,
	EMACrossover520, OpeningRangeBreakout, IntradaySupportBounce,
	SessionLowDoubleBot, PlannedLevelTouch, GapFill,
	ResistancePriorHigh, Target1Hit, Target2Hit, StopLossHit,
	SupportBreakdown, AutoStopOut,
}

// Signal directions.
const (
	Buy   = "BUY"
	Sell  = "SELL"
	Short = "SHORT"
)

// Confidence labels attached to signals.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// AlertSignal is the rule engine's single output unit. It is a value object:
// constructed once during evaluation and never mutated after the orchestrator
// returns it.
type AlertSignal struct {
	Symbol    string
	Type      AlertType
	Direction string // BUY / SELL / SHORT
	Price     float64

	// Trade levels. Zero means "not attached" (advisory signals).
	Entry   float64
	Stop    float64
	Target1 float64
	Target2 float64

	Confidence string
	Message    string

	// Context annotations filled in by the orchestrator.
	SpyTrend     string
	SessionPhase string
	VolumeLabel  string
	VWAPPosition string
	GapInfo      string
	RSRatio      float64

	// Composite score (0-100) and display grade (A+/A/B/C).
	Score      int
	ScoreLabel string
}

// HasLevels reports whether the signal carries a full entry/stop pair.
func (s *AlertSignal) HasLevels() bool {
	return s.Entry > 0 && s.Stop > 0
}

// Risk returns the per-share distance between entry and stop (1R), or 0 when
// levels are absent.
func (s *AlertSignal) Risk() float64 {
	if !s.HasLevels() {
		return 0
	}
	if s.Direction == Short {
		return s.Stop - s.Entry
	}
	return s.Entry - s.Stop
}
