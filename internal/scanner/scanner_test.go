package scanner

import (
	"math"
	"testing"

	"TradeSentry/internal/model"
)

// history builds n rising daily bars ending at lastClose, then lets the
// caller overwrite the final two days.
func history(n int, lastClose float64) []model.Bar {
	bars := make([]model.Bar, n)
	for i := 0; i < n; i++ {
		p := lastClose - float64(n-1-i)*0.5
		bars[i] = model.Bar{
			Open: p - 0.2, High: p + 1.0, Low: p - 1.0, Close: p, Volume: 1000000,
		}
	}
	return bars
}

func TestAnalyzeSymbol_InsideDayCoil(t *testing.T) {
	bars := history(60, 100.0)
	n := len(bars)
	// parent day with a wide range, then an inside day closing near its high
	bars[n-2] = model.Bar{Open: 99.0, High: 102.0, Low: 97.0, Close: 100.0, Volume: 1200000}
	bars[n-1] = model.Bar{Open: 99.8, High: 101.0, Low: 99.0, Close: 100.8, Volume: 700000}

	res, err := AnalyzeSymbol("AAPL", bars)
	if err != nil {
		t.Fatal(err)
	}
	if res.Pattern != model.PatternInside || res.Direction != model.DirectionBullish {
		t.Errorf("expected inside/bullish, got %s/%s", res.Pattern, res.Direction)
	}
	if res.Tag != "breakout" {
		t.Errorf("inside day should tag breakout, got %s", res.Tag)
	}
	// inside-day plan: break the day's own range
	if res.Plan == nil || res.Plan.Entry != 101.0 || res.Plan.Stop != 99.0 {
		t.Fatalf("plan should break the inside range: %+v", res.Plan)
	}
	if res.Plan.Target1 != 103.0 {
		t.Errorf("target1 projects the inside range, got %.2f", res.Plan.Target1)
	}
	if res.Plan.Target2 != 106.0 {
		t.Errorf("target2 projects the parent range, got %.2f", res.Plan.Target2)
	}
	if res.Plan.ReentryStop != 97.5 {
		t.Errorf("reentry stop sits 1.50 under the stop, got %.2f", res.Plan.ReentryStop)
	}
	if res.Plan.RewardRisk != 1.0 {
		t.Errorf("2 risk for 2 reward is 1.0 R/R, got %.2f", res.Plan.RewardRisk)
	}
	if res.Score <= 0 || res.Grade == "" || res.Recommend == "" {
		t.Errorf("score fields missing: %+v", res)
	}
}

func TestAnalyzeSymbol_BrokenSupport(t *testing.T) {
	bars := history(60, 100.0)
	n := len(bars)
	// close well below everything: prior low and both MAs
	bars[n-1] = model.Bar{Open: 98.0, High: 98.5, Low: 84.5, Close: 85.0, Volume: 2500000}

	res, err := AnalyzeSymbol("XOM", bars)
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != StatusBroken {
		t.Errorf("expected BROKEN, got %s", res.Status)
	}
	if res.DistancePct >= 0 {
		t.Errorf("distance should be negative below support, got %.2f", res.DistancePct)
	}
	if res.Recommend == model.Buy {
		t.Error("broken support should never recommend BUY")
	}
}

func TestAnalyzeSymbol_NormalDayPlan(t *testing.T) {
	bars := history(60, 100.0)
	n := len(bars)
	bars[n-2] = model.Bar{Open: 99.0, High: 101.0, Low: 98.0, Close: 100.0, Volume: 1000000}
	bars[n-1] = model.Bar{Open: 100.2, High: 104.0, Low: 100.0, Close: 103.5, Volume: 1500000}

	res, err := AnalyzeSymbol("NVDA", bars)
	if err != nil {
		t.Fatal(err)
	}
	if res.Pattern != model.PatternNormal {
		t.Fatalf("expected normal day, got %s", res.Pattern)
	}
	// dip-buy plan off the day low
	if res.Plan.Entry != 100.0 || res.Plan.Stop != 99.0 {
		t.Errorf("normal plan entry/stop: %+v", res.Plan)
	}
	if res.Plan.Target1 != 104.0 || res.Plan.Target2 != 106.0 {
		t.Errorf("normal plan targets: %+v", res.Plan)
	}
	if res.Status != StatusBreakout {
		t.Errorf("close above the parent high should be BREAKOUT, got %s", res.Status)
	}
}

func TestAnalyzeSymbol_TooLittleHistory(t *testing.T) {
	if _, err := AnalyzeSymbol("AAPL", history(2, 100.0)); err == nil {
		t.Error("expected error for two bars")
	}
}

func TestStatusRankOrdering(t *testing.T) {
	order := []string{StatusAtSupport, StatusBreakout, StatusPullbackWatch, StatusBroken}
	for i := 1; i < len(order); i++ {
		if statusRank(order[i-1]) >= statusRank(order[i]) {
			t.Errorf("%s should rank ahead of %s", order[i-1], order[i])
		}
	}
}

func TestBuildPlan_Rounding(t *testing.T) {
	day := model.Bar{High: 103.337, Low: 100.001, Close: 102.0}
	parent := model.Bar{High: 104.0, Low: 99.0}
	p := buildPlan(day, parent, model.PatternNormal)
	if p == nil {
		t.Fatal("expected a plan")
	}
	for _, v := range []float64{p.Entry, p.Stop, p.Target1, p.Target2, p.Risk} {
		if math.Abs(v*100-math.Round(v*100)) > 1e-9 {
			t.Errorf("level %v not rounded to cents", v)
		}
	}
}
