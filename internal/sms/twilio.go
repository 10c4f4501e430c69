package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	twilioBaseURL = "https://api.twilio.com/2010-04-01"

	maxSendAttempts = 3
	baseBackoff     = 500 * time.Millisecond
)

// TwilioSender sends SMS through the Twilio Messages REST endpoint.
type TwilioSender struct {
	AccountSID string
	AuthToken  string
	From       string
	BaseURL    string // overridable for tests

	httpClient *http.Client
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	return &TwilioSender{
		AccountSID: accountSID,
		AuthToken:  authToken,
		From:       from,
		BaseURL:    twilioBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *TwilioSender) Provider() string {
	return "twilio"
}

// Send posts the message, retrying on 429 and 5xx with capped exponential
// backoff. 4xx responses other than 429 are permanent.
func (s *TwilioSender) Send(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.From)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.BaseURL, s.AccountSID)

	var lastErr error
	for attempt := 0; attempt < maxSendAttempts; attempt++ {
		if attempt > 0 {
			backoff := baseBackoff << (attempt - 1)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return err
		}
		req.SetBasicAuth(s.AccountSID, s.AuthToken)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode < 300 {
			return nil
		}
		lastErr = fmt.Errorf("twilio API error: %s - %s", resp.Status, string(respBody))
		if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode < 500 {
			return lastErr
		}
	}

	return lastErr
}
