package feed

import (
	"fmt"
	"time"

	"TradeSentry/internal/calculator"
	"TradeSentry/internal/markethours"
	"TradeSentry/internal/model"
	"TradeSentry/internal/rules"
)

// Collector fetches market data and assembles rule-engine inputs.
type Collector struct {
	Fetcher Fetcher
}

func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Snapshot returns today's intraday bars and the prior completed day's
// context for one symbol.
func (c *Collector) Snapshot(symbol string) ([]model.Bar, *model.PriorDay, error) {
	intraday, err := c.Fetcher.FetchIntraday(symbol)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch intraday %s: %w", symbol, err)
	}
	daily, err := c.Fetcher.FetchDailyBars(symbol, 90)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch daily %s: %w", symbol, err)
	}
	prior := PriorDayFrom(daily, time.Now())
	if prior == nil {
		return nil, nil, fmt.Errorf("%s: not enough daily history", symbol)
	}
	return intraday, prior, nil
}

// SpySnapshot builds the broad-market context from SPY.
func (c *Collector) SpySnapshot() (*model.SpyContext, error) {
	intraday, err := c.Fetcher.FetchIntraday("SPY")
	if err != nil {
		return nil, fmt.Errorf("fetch SPY intraday: %w", err)
	}
	daily, err := c.Fetcher.FetchDailyBars("SPY", 90)
	if err != nil {
		return nil, fmt.Errorf("fetch SPY daily: %w", err)
	}
	spy := SpyContextFrom(daily, intraday, time.Now())
	if spy == nil {
		return nil, fmt.Errorf("SPY: not enough data")
	}
	return spy, nil
}

// CompletedDays drops a trailing partial bar for today's session.
func CompletedDays(daily []model.Bar, today time.Time) []model.Bar {
	if len(daily) == 0 {
		return daily
	}
	loc := markethours.Location()
	last := daily[len(daily)-1].Time.In(loc)
	now := today.In(loc)
	if last.Year() == now.Year() && last.YearDay() == now.YearDay() {
		return daily[:len(daily)-1]
	}
	return daily
}

// PriorDayFrom derives the prior completed session's context from daily
// bars (oldest first, possibly ending with today's partial bar). Returns
// nil when fewer than two completed days exist.
func PriorDayFrom(daily []model.Bar, today time.Time) *model.PriorDay {
	days := CompletedDays(daily, today)
	if len(days) < 2 {
		return nil
	}
	prior := days[len(days)-1]
	parent := days[len(days)-2]

	pd := &model.PriorDay{
		Open:        prior.Open,
		High:        prior.High,
		Low:         prior.Low,
		Close:       prior.Close,
		Volume:      prior.Volume,
		ParentHigh:  parent.High,
		ParentLow:   parent.Low,
		ParentRange: parent.High - parent.Low,
	}
	pd.Pattern, pd.Direction = calculator.ClassifyDay(parent, prior)
	pd.IsInside = pd.Pattern == model.PatternInside

	closes := calculator.Closes(days)
	if ma, err := calculator.SMA(closes, 20); err == nil {
		pd.MA20 = ma
	}
	if ma, err := calculator.SMA(closes, 50); err == nil {
		pd.MA50 = ma
	}
	return pd
}

// SpyContextFrom assembles the SPY regime snapshot from daily history and
// today's intraday bars.
func SpyContextFrom(daily, intraday []model.Bar, today time.Time) *model.SpyContext {
	days := CompletedDays(daily, today)
	if len(days) == 0 || len(intraday) == 0 {
		return nil
	}
	closes := calculator.Closes(days)
	var ma5, ma20, ma50 float64
	if ma, err := calculator.SMA(closes, 5); err == nil {
		ma5 = ma
	}
	if ma, err := calculator.SMA(closes, 20); err == nil {
		ma20 = ma
	}
	if ma, err := calculator.SMA(closes, 50); err == nil {
		ma50 = ma
	}

	last := intraday[len(intraday)-1].Close
	priorClose := days[len(days)-1].Close
	changePct := 0.0
	if priorClose > 0 {
		changePct = (last - priorClose) / priorClose * 100
	}
	low := calculator.SessionLow(intraday)

	trend := model.DirectionNeutral
	if ma20 > 0 {
		if last > ma20 {
			trend = model.DirectionBullish
		} else {
			trend = model.DirectionBearish
		}
	}

	return &model.SpyContext{
		Trend:             trend,
		Regime:            rules.ClassifyRegime(last, ma5, ma20, ma50),
		Close:             last,
		MA5:               ma5,
		MA20:              ma20,
		MA50:              ma50,
		IntradayChangePct: changePct,
		Bouncing:          changePct < 0 && low > 0 && last >= low*1.002,
		IntradayLow:       low,
	}
}
