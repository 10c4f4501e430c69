package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhookReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_payloads_received_total",
			Help: "Total webhook payloads received per campaign",
		},
		[]string{"campaign", "source_type"},
	)

	WebhookDuplicates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_payloads_duplicate_total",
			Help: "Webhook payloads skipped because the payload hash was already recorded",
		},
		[]string{"campaign"},
	)

	WebhookRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_payloads_rejected_total",
			Help: "Webhook payloads rejected before recording",
		},
		[]string{"reason"},
	)

	WebhookDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "webhook_processing_duration_seconds",
			Help: "Duration of webhook payload processing",
		},
	)

	SmsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sms_sent_total",
			Help: "SMS send attempts by provider and outcome",
		},
		[]string{"provider", "status"},
	)

	ContactsImported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contacts_imported_total",
			Help: "Contact import rows by outcome",
		},
		[]string{"outcome"},
	)

	NurtureStepsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nurture_steps_sent_total",
			Help: "Nurture campaign steps delivered by the scheduler",
		},
	)
)
