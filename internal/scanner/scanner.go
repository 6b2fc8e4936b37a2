// Package scanner produces pre-market setup reports for a watchlist from
// daily bars: where support sits, what the trade plan is, and how the setup
// scores.
package scanner

import (
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"TradeSentry/internal/calculator"
	"TradeSentry/internal/feed"
	"TradeSentry/internal/model"
	"TradeSentry/internal/rules"
)

// Support status labels, best first.
const (
	StatusAtSupport     = "AT SUPPORT"
	StatusBreakout      = "BREAKOUT"
	StatusPullbackWatch = "PULLBACK WATCH"
	StatusBroken        = "BROKEN"
)

// AtSupportPct is how close (fraction of the level) price must sit to a
// support to count as testing it.
const AtSupportPct = 0.01

// ReentryStopOffset widens the stop for a second attempt after a shakeout.
const ReentryStopOffset = 1.50

// TradePlan is the scanner's suggested levels for the next session.
type TradePlan struct {
	Entry       float64
	Stop        float64
	ReentryStop float64
	Target1     float64
	Target2     float64
	Risk        float64
	RewardRisk  float64
}

// ScanResult is one symbol's pre-market report.
type ScanResult struct {
	Symbol       string
	Close        float64
	Pattern      string
	Direction    string
	Support      float64
	SupportLabel string
	Status       string
	DistancePct  float64 // close vs support, signed percent
	Plan         *TradePlan
	VolumeRatio  float64
	Score        int
	Grade        string
	Recommend    string
	Tag          string
	Bias         string
}

func statusRank(status string) int {
	switch status {
	case StatusAtSupport:
		return 0
	case StatusBreakout:
		return 1
	case StatusPullbackWatch:
		return 2
	default:
		return 3
	}
}

// AnalyzeSymbol builds the report from daily bars, oldest first, ending on
// the last completed session.
func AnalyzeSymbol(symbol string, daily []model.Bar) (*ScanResult, error) {
	if len(daily) < 3 {
		return nil, fmt.Errorf("%s: need at least 3 daily bars, have %d", symbol, len(daily))
	}
	day := daily[len(daily)-1]
	parent := daily[len(daily)-2]

	pattern, direction := calculator.ClassifyDay(parent, day)

	closes := calculator.Closes(daily)
	var ma20, ma50 float64
	if ma, err := calculator.SMA(closes, 20); err == nil {
		ma20 = ma
	}
	if ma, err := calculator.SMA(closes, 50); err == nil {
		ma50 = ma
	}

	support, supportLabel := rules.NearestSupport(day.Close, parent.Low, ma20, ma50)
	distancePct := 0.0
	if support > 0 {
		distancePct = (day.Close - support) / support * 100
	}

	status := StatusPullbackWatch
	switch {
	case support > 0 && day.Close < support*(1-rules.SupportBounceProximityPct):
		status = StatusBroken
	case support > 0 && math.Abs(distancePct) <= AtSupportPct*100:
		status = StatusAtSupport
	case day.Close > parent.High:
		status = StatusBreakout
	}

	volumes := make([]float64, len(daily))
	for i, b := range daily {
		volumes[i] = b.Volume
	}
	volRatio := 0.0
	if avg := calculator.RollingMean(volumes[:len(volumes)-1], 20); avg > 0 {
		volRatio = day.Volume / avg
	}

	in := rules.ScoreInput{
		Pattern:     pattern,
		Direction:   direction,
		Close:       day.Close,
		MA20:        ma20,
		MA50:        ma50,
		DayHigh:     day.High,
		DayLow:      day.Low,
		VolumeRatio: volRatio,
	}
	score := rules.Score(in)

	return &ScanResult{
		Symbol:       symbol,
		Close:        day.Close,
		Pattern:      pattern,
		Direction:    direction,
		Support:      support,
		SupportLabel: supportLabel,
		Status:       status,
		DistancePct:  distancePct,
		Plan:         buildPlan(day, parent, pattern),
		VolumeRatio:  volRatio,
		Score:        score.Total,
		Grade:        score.Grade,
		Recommend:    score.Recommend,
		Tag:          rules.ClassifySetup(in, support),
		Bias:         biasLine(day.Close, ma20, support, supportLabel),
	}, nil
}

// buildPlan derives next-session levels from the day's candle. Inside days
// plan the breakout of their own range; other patterns plan the dip buy.
func buildPlan(day, parent model.Bar, pattern string) *TradePlan {
	dayRange := day.High - day.Low
	if dayRange <= 0 {
		return nil
	}
	var p TradePlan
	switch pattern {
	case model.PatternInside:
		p = TradePlan{
			Entry:   day.High,
			Stop:    day.Low,
			Target1: day.High + dayRange,
			Target2: day.High + (parent.High - parent.Low),
		}
	case model.PatternOutside:
		mid := (day.High + day.Low) / 2
		p = TradePlan{
			Entry:   mid,
			Stop:    day.Low,
			Target1: day.High,
			Target2: day.High + (day.High - mid),
		}
	default:
		p = TradePlan{
			Entry:   day.Low,
			Stop:    day.Low - 0.25*dayRange,
			Target1: day.High,
			Target2: day.High + 0.5*dayRange,
		}
	}
	p.ReentryStop = p.Stop - ReentryStopOffset
	p.Risk = p.Entry - p.Stop
	if p.Risk > 0 {
		p.RewardRisk = (p.Target1 - p.Entry) / p.Risk
	}
	round := func(v *float64) { *v = math.Round(*v*100) / 100 }
	round(&p.Entry)
	round(&p.Stop)
	round(&p.ReentryStop)
	round(&p.Target1)
	round(&p.Target2)
	round(&p.Risk)
	return &p
}

func biasLine(close, ma20, support float64, supportLabel string) string {
	if support <= 0 {
		return "No defined support nearby"
	}
	side := "above"
	if close < support {
		side = "below"
	}
	trend := ""
	if ma20 > 0 {
		if close > ma20 {
			trend = ", holding the 20 day MA"
		} else {
			trend = ", under the 20 day MA"
		}
	}
	return fmt.Sprintf("Trading %s %s $%.2f%s", side, supportLabel, support, trend)
}

// ScanWatchlist analyzes every symbol and returns results sorted best
// setups first: status rank, then distance to support.
func ScanWatchlist(fetcher feed.Fetcher, symbols []string, now time.Time) []ScanResult {
	var out []ScanResult
	for _, symbol := range symbols {
		daily, err := fetcher.FetchDailyBars(symbol, 90)
		if err != nil {
			log.Printf("[WARN] scan %s: %v", symbol, err)
			continue
		}
		daily = feed.CompletedDays(daily, now)
		res, err := AnalyzeSymbol(symbol, daily)
		if err != nil {
			log.Printf("[WARN] scan %s: %v", symbol, err)
			continue
		}
		out = append(out, *res)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := statusRank(out[i].Status), statusRank(out[j].Status)
		if ri != rj {
			return ri < rj
		}
		return math.Abs(out[i].DistancePct) < math.Abs(out[j].DistancePct)
	})
	return out
}
