package monitor

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"TradeSentry/internal/config"
	"TradeSentry/internal/feed"
	"TradeSentry/internal/markethours"
	"TradeSentry/internal/model"
	"TradeSentry/internal/notifier"
	"TradeSentry/internal/store"
)

// pollTime is a Tuesday at 15:45 ET, inside market hours but past the
// new-entry cutoff so only position-management rules can fire.
var pollTime = time.Date(2026, 3, 10, 15, 45, 0, 0, markethours.Location())

func testDaily(n int) []model.Bar {
	bars := make([]model.Bar, n)
	for i := 0; i < n; i++ {
		day := pollTime.AddDate(0, 0, -(n - i))
		bars[i] = model.Bar{
			Time: day, Open: 100, High: 101, Low: 95, Close: 100, Volume: 1_000_000,
		}
	}
	return bars
}

// testIntraday opens flat against the prior close of 100 and drifts down
// to a last bar of H 99.20 / L 98.80 / C 98.90 on even volume.
func testIntraday() []model.Bar {
	highs := []float64{100.5, 100.2, 99.9, 99.6, 99.2}
	out := make([]model.Bar, len(highs))
	for i, h := range highs {
		out[i] = model.Bar{
			Time:   pollTime.Add(time.Duration(i-len(highs)) * 5 * time.Minute),
			Open:   h - 0.3,
			High:   h,
			Low:    h - 0.4,
			Close:  h - 0.3,
			Volume: 1_000_000,
		}
	}
	out[0].Open = 100 // no gap vs prior close
	return out
}

func newTestMonitor(t *testing.T) (*Monitor, store.Store) {
	t.Helper()
	mock := &feed.MockFetcher{
		Price: 500, // SPY falls back to generated bars
		IntradayData: map[string][]model.Bar{
			"AAPL": testIntraday(),
		},
		DailyData: map[string][]model.Bar{
			"AAPL": testDaily(30),
		},
	}

	cfg := &config.Config{Watchlist: []string{"AAPL"}}
	cfg.Monitor.CooldownMinutes = 60
	cfg.Risk.MaxRiskPct = 0.015

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "monitor.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	mon := New(context.Background(), feed.NewCollector(mock), st, notifier.New(nil, nil, true), cfg)
	mon.now = func() time.Time { return pollTime }
	return mon, st
}

func TestPollStopLossClosesEntriesAndStartsCooldown(t *testing.T) {
	mon, st := newTestMonitor(t)
	session := store.SessionDate(pollTime, markethours.Location())

	entry := &model.ActiveEntry{
		Symbol: "AAPL", EntryPrice: 100, StopPrice: 99,
		Target1: 101, Target2: 102, AlertType: model.MABounce20,
	}
	if err := st.CreateActiveEntry(entry, session); err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	mon.RunPollNow()

	fired, err := st.WasAlertFired("AAPL", model.StopLossHit, session)
	if err != nil || !fired {
		t.Fatalf("stop loss alert not recorded (fired=%v err=%v)", fired, err)
	}
	open, err := st.ActiveEntries("AAPL", session)
	if err != nil {
		t.Fatalf("active entries: %v", err)
	}
	if len(open) != 0 {
		t.Errorf("expected entry closed after stop, still open: %+v", open)
	}
	cooled, err := st.IsCooledDown("AAPL", session, pollTime)
	if err != nil || !cooled {
		t.Errorf("expected cooldown after stop-out (cooled=%v err=%v)", cooled, err)
	}

	status, err := st.Status()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.Running || status.PollsToday != 1 || status.AlertsToday != 1 {
		t.Errorf("heartbeat = %+v, want running with 1 poll and 1 alert", status)
	}
}

func TestPollTargetHitDedupedAcrossPolls(t *testing.T) {
	mon, st := newTestMonitor(t)
	session := store.SessionDate(pollTime, markethours.Location())

	// stop below the session low so only target 1 can trade
	entry := &model.ActiveEntry{
		Symbol: "AAPL", EntryPrice: 98.5, StopPrice: 98.0,
		Target1: 99.2, Target2: 105, AlertType: model.IntradaySupportBounce,
	}
	if err := st.CreateActiveEntry(entry, session); err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	mon.RunPollNow()
	mon.RunPollNow()

	alerts, err := st.AlertsToday(session)
	if err != nil {
		t.Fatalf("alerts: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert after two polls, got %d: %+v", len(alerts), alerts)
	}
	if alerts[0].Type != model.Target1Hit {
		t.Errorf("alert type = %s, want %s", alerts[0].Type, model.Target1Hit)
	}
	// target 1 keeps the position open
	open, err := st.ActiveEntries("AAPL", session)
	if err != nil || len(open) != 1 {
		t.Errorf("expected entry still open after target 1 (open=%v err=%v)", open, err)
	}
}

func TestPollSkipsOutsideMarketHours(t *testing.T) {
	mon, st := newTestMonitor(t)
	saturday := time.Date(2026, 3, 14, 11, 0, 0, 0, markethours.Location())
	mon.now = func() time.Time { return saturday }

	mon.RunPollNow()

	session := store.SessionDate(saturday, markethours.Location())
	alerts, err := st.AlertsToday(session)
	if err != nil {
		t.Fatalf("alerts: %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("expected no alerts outside market hours, got %d", len(alerts))
	}
}
