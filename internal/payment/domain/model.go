// Package domain contains the webhook ingestion contracts shared by the
// provider adapters and the ingest service.
package domain

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	subscriptiondomain "github.com/helioslabs/billgate/internal/subscription/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WebhookEventRecord is the dedupe ledger for delivered webhook events.
// (provider, provider_event_id) is unique; redeliveries land on the existing
// row and are acknowledged without reprocessing once processed_at is set.
type WebhookEventRecord struct {
	ID              snowflake.ID   `json:"id" gorm:"primaryKey"`
	Provider        string         `json:"provider" gorm:"type:text;not null;uniqueIndex:ux_webhook_events_provider_event,priority:1"`
	ProviderEventID string         `json:"provider_event_id" gorm:"type:text;not null;uniqueIndex:ux_webhook_events_provider_event,priority:2"`
	EventType       string         `json:"event_type" gorm:"type:text;not null"`
	OrgID           string         `json:"org_id" gorm:"not null;index"`
	Payload         datatypes.JSON `json:"payload" gorm:"type:jsonb;not null"`
	ReceivedAt      time.Time      `json:"received_at" gorm:"not null"`
	ProcessedAt     *time.Time     `json:"processed_at"`
}

// TableName sets the database table name.
func (WebhookEventRecord) TableName() string { return "webhook_events" }

// AdapterConfig carries provider credentials for adapter construction.
type AdapterConfig struct {
	WebhookSecret string
}

// PaymentAdapter verifies and decodes one provider's webhook payloads into
// the canonical billing event vocabulary.
type PaymentAdapter interface {
	// Verify checks payload authenticity against the provider signature.
	Verify(ctx context.Context, payload []byte, headers http.Header) error

	// Parse maps the provider event taxonomy onto a BillingEvent. Vendor
	// event types outside the vocabulary return ErrEventIgnored.
	Parse(ctx context.Context, payload []byte) (subscriptiondomain.BillingEvent, error)
}

// AdapterFactory builds adapters for a named provider.
type AdapterFactory interface {
	Provider() string
	NewAdapter(cfg AdapterConfig) (PaymentAdapter, error)
}

type Repository interface {
	InsertEvent(ctx context.Context, db *gorm.DB, event *WebhookEventRecord) (bool, error)
	FindEvent(ctx context.Context, db *gorm.DB, provider string, providerEventID string) (*WebhookEventRecord, error)
	MarkProcessed(ctx context.Context, db *gorm.DB, id snowflake.ID, processedAt time.Time) error
}

// Service ingests raw webhook deliveries. Only a successfully stored
// projection acknowledges an event; any earlier failure leaves the delivery
// unacknowledged so the vendor retries.
type Service interface {
	IngestWebhook(ctx context.Context, provider string, payload []byte, headers http.Header) error
}

var (
	ErrInvalidProvider       = errors.New("invalid_provider")
	ErrProviderNotFound      = errors.New("provider_not_found")
	ErrInvalidConfig         = errors.New("invalid_provider_config")
	ErrInvalidPayload        = errors.New("invalid_payload")
	ErrInvalidSignature      = errors.New("invalid_signature")
	ErrInvalidEvent          = errors.New("invalid_event")
	ErrEventIgnored          = errors.New("event_ignored")
	ErrEventAlreadyProcessed = errors.New("event_already_processed")
)
