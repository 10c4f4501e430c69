package models

import "encoding/json"

// WebhookPayload is the JSON body the conversational-AI platform posts to a
// campaign's webhook endpoint after a call, SMS, web form or chatbot event.
type WebhookPayload struct {
	SourceType  string          `json:"source_type"` // call, sms, web_form, chatbot
	CallStatus  string          `json:"call_status,omitempty"`
	DurationSec int             `json:"duration_sec,omitempty"`
	From        string          `json:"from,omitempty"`
	To          string          `json:"to,omitempty"`
	CallerName  string          `json:"caller_name,omitempty"`
	Transcript  string          `json:"transcript,omitempty"`
	AIExtracted json.RawMessage `json:"ai_extracted,omitempty"`
	Timestamp   string          `json:"timestamp,omitempty"`
}

var validSourceTypes = map[string]bool{
	"call":     true,
	"sms":      true,
	"web_form": true,
	"chatbot":  true,
}

func (p *WebhookPayload) Validate() bool {
	return validSourceTypes[p.SourceType]
}
