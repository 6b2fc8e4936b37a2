package notifier

import (
	"strings"
	"testing"
	"time"

	"TradeSentry/internal/model"
	"TradeSentry/internal/store"
)

func sampleAlert() *model.AlertSignal {
	return &model.AlertSignal{
		Symbol: "AAPL", Type: model.MABounce20, Direction: model.Buy,
		Price: 100.5, Entry: 100.5, Stop: 99.5, Target1: 101.5, Target2: 102.5,
		Confidence: model.ConfidenceHigh,
		Message:    "MA bounce 20MA - price pulled back to $100.00 and closed above at $100.50",
		SessionPhase: "morning", VolumeLabel: "high",
		VWAPPosition: "above VWAP $100.20 (+0.3%)",
		SpyTrend:     "bullish", Score: 82, ScoreLabel: "A",
	}
}

func TestFormatAlertEmail(t *testing.T) {
	prior := &model.PriorDay{
		Pattern: "normal", Direction: "bullish",
		High: 101.8, Low: 95.0, Close: 100.0, Volume: 52000000,
		MA20: 100.0, MA50: 95.0,
	}
	body := FormatAlertEmail(sampleAlert(), prior)
	for _, want := range []string{
		"BUY AAPL", "Entry: $100.50", "Stop: $99.50",
		"Target 1: $101.50", "Score: 82 (A)",
		"phase morning", "52,000,000",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("email body missing %q:\n%s", want, body)
		}
	}
}

func TestFormatAlertSubject(t *testing.T) {
	subject := FormatAlertSubject(sampleAlert())
	if subject != "[TradeSentry] BUY AAPL ma_bounce_20 (A)" {
		t.Errorf("unexpected subject: %s", subject)
	}
}

func TestFormatAlertSMS_OneSegment(t *testing.T) {
	msg := FormatAlertSMS(sampleAlert())
	if len(msg) > 160 {
		t.Errorf("SMS must fit one segment, got %d chars", len(msg))
	}
	for _, want := range []string{"BUY AAPL", "E100.50", "S99.50"} {
		if !strings.Contains(msg, want) {
			t.Errorf("SMS missing %q: %s", want, msg)
		}
	}
}

func TestFormatSessionSummary(t *testing.T) {
	sum := &store.SessionSummary{
		Date: "2025-06-04", Total: 3, Buys: 2, Sells: 1,
		ByType: map[model.AlertType]int{
			model.MABounce20: 2,
			model.Target1Hit: 1,
		},
	}
	cds := []store.Cooldown{{
		Symbol: "AMD", ExpiresAt: time.Date(2025, 6, 4, 14, 30, 0, 0, time.UTC),
		Reason: "stop_loss_hit",
	}}
	body := FormatSessionSummary(sum, cds)
	for _, want := range []string{"2025-06-04", "BUY 2", "ma_bounce_20", "AMD", "stop_loss_hit"} {
		if !strings.Contains(body, want) {
			t.Errorf("summary missing %q:\n%s", want, body)
		}
	}
}
