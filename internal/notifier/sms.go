package notifier

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SMSSender delivers short messages. The carrier email-to-SMS gateway goes
// first because it is free; Twilio is the paid fallback.
type SMSSender struct {
	GatewayAddress string // e.g. 5551234567@vtext.com
	Email          *EmailSender

	TwilioSID   string
	TwilioToken string
	TwilioFrom  string
	TwilioTo    string
	Client      *http.Client

	twilioURL string
}

func NewSMSSender(gatewayAddress string, email *EmailSender, sid, token, from, to string) *SMSSender {
	return &SMSSender{
		GatewayAddress: gatewayAddress,
		Email:          email,
		TwilioSID:      sid,
		TwilioToken:    token,
		TwilioFrom:     from,
		TwilioTo:       to,
		Client:         &http.Client{Timeout: 30 * time.Second},
		twilioURL:      "https://api.twilio.com",
	}
}

// Send tries the gateway, then Twilio. The body is cut to one SMS segment.
func (s *SMSSender) Send(ctx context.Context, body string) error {
	if len(body) > 160 {
		body = body[:160]
	}

	if s.GatewayAddress != "" && s.Email != nil {
		// gateways reject mails with a Subject header
		if err := s.Email.Send(s.GatewayAddress, "", body); err == nil {
			return nil
		} else {
			log.Printf("[WARN] SMS gateway failed, falling back to Twilio: %v", err)
		}
	}
	if s.TwilioSID != "" {
		return s.sendTwilio(ctx, body)
	}
	return fmt.Errorf("no SMS route configured")
}

func (s *SMSSender) sendTwilio(ctx context.Context, body string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.twilioURL, s.TwilioSID)
	form := url.Values{}
	form.Set("From", s.TwilioFrom)
	form.Set("To", s.TwilioTo)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.TwilioSID, s.TwilioToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("twilio API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
