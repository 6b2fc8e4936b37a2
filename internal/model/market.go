package model

import "time"

// Bar represents a single candlestick bar (5-minute during the session).
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Day pattern classifications relative to the previous session.
const (
	PatternInside  = "inside"
	PatternOutside = "outside"
	PatternNormal  = "normal"
)

// Close-position direction labels for a daily candle.
const (
	DirectionBullish = "bullish"
	DirectionBearish = "bearish"
	DirectionNeutral = "neutral"
)

// PriorDay is the prior completed session's context: OHLCV, moving averages
// as of that close, pattern classification, and the parent (two sessions
// back) range. Computed fresh per poll; a zero MA means "not available".
type PriorDay struct {
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	MA20 float64
	MA50 float64

	Pattern   string // inside / outside / normal
	Direction string // bullish / bearish / neutral
	IsInside  bool

	ParentHigh  float64
	ParentLow   float64
	ParentRange float64
}

// Market regime labels derived from the reference index (SPY).
const (
	RegimeTrendingUp   = "TRENDING_UP"
	RegimeTrendingDown = "TRENDING_DOWN"
	RegimePullback     = "PULLBACK"
	RegimeChoppy       = "CHOPPY"
)

// SpyContext is a snapshot of the reference index used to gate and annotate
// BUY signals across all symbols.
type SpyContext struct {
	Trend             string // bullish / bearish / neutral (close vs 20MA)
	Regime            string // TRENDING_UP / TRENDING_DOWN / PULLBACK / CHOPPY
	Close             float64
	MA5               float64
	MA20              float64
	MA50              float64
	IntradayChangePct float64
	Bouncing          bool // SPY recovering off its own session low
	IntradayLow       float64
}

// ActiveEntry is a previously fired BUY's levels, tracked until a stop or
// target alert closes it. The rule engine only reads these; status
// transitions belong to the persistence layer and its caller.
type ActiveEntry struct {
	Symbol     string
	EntryPrice float64
	StopPrice  float64
	Target1    float64
	Target2    float64
	AlertType  AlertType
}

// AutoStopEntry is the lighter-weight in-memory tracked entry used for auto
// stop-out checks on positions not persisted to the active_entries table.
type AutoStopEntry struct {
	EntryPrice float64
	StopPrice  float64
	AlertType  AlertType
}
