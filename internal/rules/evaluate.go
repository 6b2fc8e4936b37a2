package rules

import (
	"fmt"

	"TradeSentry/internal/calculator"
	"TradeSentry/internal/model"
)

// FiredKey identifies one (symbol, alert type) pair in the fired-today set.
type FiredKey struct {
	Symbol string
	Type   model.AlertType
}

// Context carries everything Evaluate needs beyond the bars themselves.
// The driver reads clocks and stores; Evaluate only reads this struct, so
// the same inputs always produce the same signals.
type Context struct {
	SessionPhase   string
	EntriesAllowed bool
	IsMegaCap      bool
	CooledDown     bool
	FiredToday     map[FiredKey]bool
	Spy            *model.SpyContext
	ActiveEntries  []model.ActiveEntry
	AutoStop       *model.AutoStopEntry
	RiskCapPct     float64 // 0 means the default cap
	PlannedLevel   float64 // hand-set watch level, 0 means none
}

func (c Context) fired(symbol string, t model.AlertType) bool {
	return c.FiredToday[FiredKey{Symbol: symbol, Type: t}]
}

// Evaluate runs every detector over one symbol's session, suppresses what
// should not fire, and returns finished signals. Output order follows
// detector order; callers sort by score if they want ranking.
func Evaluate(symbol string, bars []model.Bar, prior *model.PriorDay, ctx Context) []model.AlertSignal {
	if len(bars) == 0 || prior == nil {
		return nil
	}

	last := bars[len(bars)-1]
	volRatio := calculator.VolumeRatio(bars)
	gap := TrackGapFill(bars, prior.Close)

	var raw []*model.AlertSignal
	add := func(s *model.AlertSignal) {
		if s != nil {
			raw = append(raw, s)
		}
	}

	// new-entry rules only run inside the entry window
	if ctx.EntriesAllowed {
		add(checkMABounce20(symbol, last, prior.MA20, prior.MA50))
		add(checkMABounce50(symbol, last, prior.MA50, prior.Close))
		add(checkPriorDayLowReclaim(symbol, bars, prior.Low))
		add(checkInsideDayBreakout(symbol, last, prior))
		add(checkEMACrossover(symbol, bars, ctx.IsMegaCap))
		add(checkOpeningRangeBreakout(symbol, bars, ComputeOpeningRange(bars), volRatio))
		add(checkIntradaySupportBounce(symbol, bars, DetectIntradaySupports(bars)))
		add(checkSessionLowDoubleBottom(symbol, bars, volRatio))
		plan := PlanFromPriorDay(prior)
		if ctx.PlannedLevel > 0 {
			plan = planAtLevel(ctx.PlannedLevel, plan)
		}
		add(checkPlannedLevelTouch(symbol, last, plan))
	}
	add(checkGapFill(symbol, last, gap))
	add(checkSupportBreakdown(symbol, bars, prior, volRatio))

	// position management rules always run
	if len(ctx.ActiveEntries) > 0 {
		add(checkResistancePriorHigh(symbol, last, prior.High))
	}
	for _, entry := range ctx.ActiveEntries {
		if s := checkStopLossHit(symbol, last, entry); s != nil {
			add(s)
			continue // stop takes precedence over targets for this entry
		}
		add(checkTargetHits(symbol, last, entry))
	}
	if ctx.AutoStop != nil {
		add(checkAutoStopOut(symbol, last, *ctx.AutoStop))
	}

	// a confirmed breakdown day kills every long idea for the symbol
	breakdownDay := ctx.fired(symbol, model.SupportBreakdown)
	for _, s := range raw {
		if s.Type == model.SupportBreakdown {
			breakdownDay = true
		}
	}

	var out []model.AlertSignal
	for _, s := range raw {
		if breakdownDay && s.Direction == model.Buy && s.Type != model.GapFill {
			continue
		}
		if !keep(s, volRatio, ctx) {
			continue
		}
		out = append(out, finalize(*s, bars, prior, volRatio, gap, ctx))
	}
	return out
}

// keep applies the suppression stages in order. Each stage is a pure
// predicate; the first failing stage drops the signal.
func keep(s *model.AlertSignal, volRatio float64, ctx Context) bool {
	isBuy := s.Direction == model.Buy
	exempt := s.Type == model.GapFill

	// 1. cooldown after a stop-out
	if ctx.CooledDown && isBuy && !exempt {
		return false
	}
	// 2. broad-market downtrend
	if ctx.Spy != nil && ctx.Spy.Regime == model.RegimeTrendingDown && isBuy && !exempt {
		return false
	}
	// 3. already fired today
	if ctx.fired(s.Symbol, s.Type) {
		return false
	}
	// 4. noise: thin volume BUYs are untradeable
	if isBuy && !exempt && volRatio < LowVolumeSkipRatio {
		return false
	}
	return true
}

// finalize builds the outgoing signal: risk capping, context enrichment,
// confidence demotions and the composite score. The input is a copy, so
// the raw detector output is never mutated.
func finalize(s model.AlertSignal, bars []model.Bar, prior *model.PriorDay, volRatio float64, gap GapStatus, ctx Context) model.AlertSignal {
	last := bars[len(bars)-1]

	if s.Direction == model.Buy && s.HasLevels() {
		capRisk(&s, ctx.RiskCapPct)
	}

	s.SessionPhase = ctx.SessionPhase
	s.VolumeLabel = volumeLabel(volRatio)
	s.VWAPPosition = vwapPosition(bars)
	s.GapInfo = gapInfo(gap)
	if ctx.Spy != nil {
		s.SpyTrend = ctx.Spy.Trend
	}

	// SPY recovering off its own session low confirms a bounce setup
	if ctx.Spy != nil && ctx.Spy.Bouncing {
		switch s.Type {
		case model.IntradaySupportBounce:
			s.Confidence = model.ConfidenceHigh
			s.Message += fmt.Sprintf(" | SPY also bouncing from session low $%.2f", ctx.Spy.IntradayLow)
		case model.SessionLowDoubleBot:
			s.Confidence = model.ConfidenceHigh
			s.Message += fmt.Sprintf(" | SPY double-bottom at $%.2f", ctx.Spy.IntradayLow)
		}
	}

	// demotions
	if ctx.Spy != nil && ctx.Spy.Regime == model.RegimeChoppy &&
		s.Direction == model.Buy && s.Confidence == model.ConfidenceHigh {
		s.Confidence = model.ConfidenceMedium
		s.Message += " | Caution: choppy market"
	}
	if ctx.Spy != nil && prior.Close > 0 && s.Direction == model.Buy {
		symChange := (last.Close - prior.Close) / prior.Close * 100
		spyChange := ctx.Spy.IntradayChangePct
		if spyChange != 0 {
			s.RSRatio = round2(symChange / spyChange)
		}
		if spyChange < 0 && symChange < spyChange*RSUnderperformFactor {
			if s.Confidence == model.ConfidenceHigh {
				s.Confidence = model.ConfidenceMedium
			} else if s.Confidence == model.ConfidenceMedium {
				s.Confidence = model.ConfidenceLow
			}
			s.Message += " | Caution: weaker than market"
		}
	}

	score := Score(ScoreInput{
		Pattern:     prior.Pattern,
		Direction:   prior.Direction,
		Close:       last.Close,
		MA20:        prior.MA20,
		MA50:        prior.MA50,
		DayHigh:     calculator.SessionHigh(bars),
		DayLow:      calculator.SessionLow(bars),
		VolumeRatio: volRatio,
	})
	s.Score = score.Total
	s.ScoreLabel = score.Grade
	return s
}

// capRisk tightens the stop when a rule's natural stop puts more than the
// per-share risk limit at stake, then rebuilds the targets off the new risk.
func capRisk(s *model.AlertSignal, capPct float64) {
	if capPct <= 0 {
		capPct = DayTradeMaxRiskPct
	}
	if s.Entry <= 0 || s.Stop <= 0 {
		return
	}
	maxRisk := s.Entry * capPct
	risk := s.Entry - s.Stop
	if risk <= maxRisk {
		return
	}
	s.Stop = round2(s.Entry - maxRisk)
	risk = s.Entry - s.Stop
	s.Target1 = round2(s.Entry + risk)
	s.Target2 = round2(s.Entry + 2*risk)
	s.Message += fmt.Sprintf(" | Stop tightened to $%.2f (%.1f%% risk cap)", s.Stop, capPct*100)
}

func volumeLabel(ratio float64) string {
	switch {
	case ratio >= 2.0:
		return "very high"
	case ratio >= 1.5:
		return "high"
	case ratio >= 0.8:
		return "normal"
	default:
		return "light"
	}
}

func vwapPosition(bars []model.Bar) string {
	vwap := calculator.VWAP(bars)
	if vwap <= 0 {
		return ""
	}
	last := bars[len(bars)-1]
	pct := (last.Close - vwap) / vwap * 100
	if last.Close >= vwap {
		return fmt.Sprintf("above VWAP $%.2f (+%.1f%%)", vwap, pct)
	}
	return fmt.Sprintf("below VWAP $%.2f (%.1f%%)", vwap, pct)
}

func gapInfo(gap GapStatus) string {
	if gap.Direction == GapFlat {
		return ""
	}
	state := "open"
	if gap.Filled {
		state = "filled"
	}
	return fmt.Sprintf("%s %+.1f%% (%s)", gap.Direction, gap.Pct, state)
}
