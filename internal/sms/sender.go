package sms

import (
	"context"
	"fmt"

	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/config"
)

// Sender delivers one SMS. Implementations: Twilio REST, AWS SNS.
type Sender interface {
	Send(ctx context.Context, to, body string) error
	Provider() string
}

// NewSender picks the provider from config.
func NewSender(ctx context.Context, cfg *config.Config) (Sender, error) {
	switch cfg.SMSProvider {
	case "twilio":
		return NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber), nil
	case "sns":
		return NewSNSSender(ctx, cfg.AWSRegion)
	default:
		return nil, fmt.Errorf("unknown SMS provider %q", cfg.SMSProvider)
	}
}
