package notifier

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"TradeSentry/internal/model"
	"TradeSentry/internal/store"
)

// FormatAlertSubject builds the email subject line.
func FormatAlertSubject(sig *model.AlertSignal) string {
	return fmt.Sprintf("[TradeSentry] %s %s %s (%s)",
		sig.Direction, sig.Symbol, sig.Type, sig.ScoreLabel)
}

// FormatAlertEmail builds the full email body for one alert.
func FormatAlertEmail(sig *model.AlertSignal, prior *model.PriorDay) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s %s - %s\n", sig.Direction, sig.Symbol, sig.Type))
	b.WriteString(fmt.Sprintf("%s\n\n", sig.Message))

	b.WriteString(fmt.Sprintf("Price: $%.2f\n", sig.Price))
	if sig.HasLevels() {
		b.WriteString(fmt.Sprintf("Entry: $%.2f | Stop: $%.2f (risk $%.2f/sh)\n",
			sig.Entry, sig.Stop, sig.Risk()))
		b.WriteString(fmt.Sprintf("Target 1: $%.2f | Target 2: $%.2f\n", sig.Target1, sig.Target2))
	}
	b.WriteString(fmt.Sprintf("Confidence: %s | Score: %d (%s)\n", sig.Confidence, sig.Score, sig.ScoreLabel))

	var ctx []string
	if sig.SessionPhase != "" {
		ctx = append(ctx, "phase "+sig.SessionPhase)
	}
	if sig.VolumeLabel != "" {
		ctx = append(ctx, "volume "+sig.VolumeLabel)
	}
	if sig.VWAPPosition != "" {
		ctx = append(ctx, sig.VWAPPosition)
	}
	if sig.GapInfo != "" {
		ctx = append(ctx, "gap "+sig.GapInfo)
	}
	if sig.SpyTrend != "" {
		ctx = append(ctx, "SPY "+sig.SpyTrend)
	}
	if len(ctx) > 0 {
		b.WriteString("Context: " + strings.Join(ctx, " | ") + "\n")
	}

	if prior != nil {
		b.WriteString(fmt.Sprintf("\nPrior day: %s/%s  H $%.2f  L $%.2f  C $%.2f  Vol %s\n",
			prior.Pattern, prior.Direction, prior.High, prior.Low, prior.Close,
			humanize.Comma(int64(prior.Volume))))
		if prior.MA20 > 0 || prior.MA50 > 0 {
			b.WriteString(fmt.Sprintf("MAs: 20d $%.2f | 50d $%.2f\n", prior.MA20, prior.MA50))
		}
	}

	return b.String()
}

// FormatAlertSMS builds the one-segment text message for a BUY alert.
func FormatAlertSMS(sig *model.AlertSignal) string {
	msg := fmt.Sprintf("%s %s %s $%.2f", sig.Direction, sig.Symbol, sig.Type, sig.Price)
	if sig.HasLevels() {
		msg += fmt.Sprintf(" E%.2f S%.2f T%.2f", sig.Entry, sig.Stop, sig.Target1)
	}
	msg += fmt.Sprintf(" %s %d", sig.Confidence, sig.Score)
	if len(msg) > 160 {
		msg = msg[:160]
	}
	return msg
}

// FormatSessionSummary builds the end-of-day digest.
func FormatSessionSummary(sum *store.SessionSummary, cooldowns []store.Cooldown) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("TradeSentry session summary - %s\n\n", sum.Date))
	b.WriteString(fmt.Sprintf("Alerts: %d (BUY %d / SELL %d / SHORT %d)\n\n",
		sum.Total, sum.Buys, sum.Sells, sum.Shorts))

	if len(sum.ByType) > 0 {
		types := make([]string, 0, len(sum.ByType))
		for t := range sum.ByType {
			types = append(types, string(t))
		}
		sort.Strings(types)
		b.WriteString("By rule:\n")
		for _, t := range types {
			b.WriteString(fmt.Sprintf("  %-28s %d\n", t, sum.ByType[model.AlertType(t)]))
		}
	}

	if len(cooldowns) > 0 {
		b.WriteString("\nCooldowns still active:\n")
		for _, c := range cooldowns {
			b.WriteString(fmt.Sprintf("  %s until %s (%s)\n",
				c.Symbol, c.ExpiresAt.Format(time.Kitchen), c.Reason))
		}
	}
	return b.String()
}
