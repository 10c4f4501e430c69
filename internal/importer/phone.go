package importer

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhone parses a raw number and returns its E.164 form. The region
// is used for numbers written without a country code.
func NormalizePhone(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty phone number")
	}
	if region == "" {
		region = "US"
	}

	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", fmt.Errorf("unparseable phone number %q: %w", raw, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("invalid phone number %q", raw)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
