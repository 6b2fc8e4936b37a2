package notifier

import (
	"context"
	"log"

	"TradeSentry/internal/model"
)

// Notifier routes alerts: email for everything, SMS for BUY signals only.
type Notifier struct {
	Email  *EmailSender
	SMS    *SMSSender
	DryRun bool
}

func New(email *EmailSender, sms *SMSSender, dryRun bool) *Notifier {
	return &Notifier{Email: email, SMS: sms, DryRun: dryRun}
}

// Notify delivers one alert and reports which channels succeeded.
func (n *Notifier) Notify(ctx context.Context, sig *model.AlertSignal, prior *model.PriorDay) (emailSent, smsSent bool) {
	subject := FormatAlertSubject(sig)
	body := FormatAlertEmail(sig, prior)

	if n.DryRun {
		log.Printf("[INFO] dry-run alert:\n%s", body)
		return false, false
	}

	if n.Email != nil {
		if err := n.Email.SendWithRetry(ctx, "", subject, body, 2); err != nil {
			log.Printf("[ERROR] email alert %s %s: %v", sig.Symbol, sig.Type, err)
		} else {
			emailSent = true
		}
	}

	if sig.Direction == model.Buy && n.SMS != nil {
		if err := n.SMS.Send(ctx, FormatAlertSMS(sig)); err != nil {
			log.Printf("[ERROR] sms alert %s %s: %v", sig.Symbol, sig.Type, err)
		} else {
			smsSent = true
		}
	}
	return emailSent, smsSent
}

// NotifySummary emails the end-of-day digest.
func (n *Notifier) NotifySummary(ctx context.Context, subject, body string) error {
	if n.DryRun {
		log.Printf("[INFO] dry-run summary:\n%s", body)
		return nil
	}
	if n.Email == nil {
		return nil
	}
	return n.Email.SendWithRetry(ctx, "", subject, body, 2)
}
