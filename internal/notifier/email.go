// Package notifier delivers alerts by email and SMS. Every alert goes out
// by email; only actionable BUY signals page the phone.
package notifier

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"
)

// EmailSender sends mail through an SMTP relay with STARTTLS.
type EmailSender struct {
	Host     string
	Port     int
	From     string
	Password string
	To       string
}

func NewEmailSender(host string, port int, from, password, to string) *EmailSender {
	return &EmailSender{Host: host, Port: port, From: from, Password: password, To: to}
}

// Send delivers one message. An empty subject sends a body-only mail, which
// SMS gateways require.
func (e *EmailSender) Send(to, subject, body string) error {
	if to == "" {
		to = e.To
	}
	addr := fmt.Sprintf("%s:%d", e.Host, e.Port)
	auth := smtp.PlainAuth("", e.From, e.Password, e.Host)

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", e.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	if subject != "" {
		msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(addr, auth, e.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// SendWithRetry sends with exponential backoff.
func (e *EmailSender) SendWithRetry(ctx context.Context, to, subject, body string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := e.Send(to, subject, body); err != nil {
			lastErr = err
			backoff := time.Duration(1<<uint(i)) * time.Second
			log.Printf("[WARN] email send failed (attempt %d/%d): %v, retrying in %v",
				i+1, maxRetries+1, err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}
