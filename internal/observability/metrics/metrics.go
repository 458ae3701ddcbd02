// Package metrics exposes Prometheus counters for billing operations.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeApplied   = "applied"
	OutcomeIgnored   = "ignored"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
)

type Metrics struct {
	webhookEvents *prometheus.CounterVec
	sessions      *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		webhookEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "billgate",
			Subsystem: "webhooks",
			Name:      "events_total",
			Help:      "Webhook events ingested, by provider, event type and outcome.",
		}, []string{"provider", "event_type", "outcome"}),
		sessions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "billgate",
			Subsystem: "sessions",
			Name:      "created_total",
			Help:      "Vendor-hosted sessions created, by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}
}

func (m *Metrics) RecordWebhookEvent(provider, eventType, outcome string) {
	if m == nil {
		return
	}
	m.webhookEvents.WithLabelValues(normalize(provider), normalize(eventType), normalize(outcome)).Inc()
}

func (m *Metrics) RecordSession(kind, outcome string) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues(normalize(kind), normalize(outcome)).Inc()
}

func normalize(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "unknown"
	}
	return value
}
