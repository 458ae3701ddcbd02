package stripe

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/helioslabs/billgate/internal/payment/domain"
	subscriptiondomain "github.com/helioslabs/billgate/internal/subscription/domain"
	"github.com/stripe/stripe-go/v79/webhook"
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Provider() string {
	return "stripe"
}

func (f *Factory) NewAdapter(cfg domain.AdapterConfig) (domain.PaymentAdapter, error) {
	secret := strings.TrimSpace(cfg.WebhookSecret)
	if secret == "" {
		return nil, domain.ErrInvalidConfig
	}
	return &Adapter{webhookSecret: secret}, nil
}

type Adapter struct {
	webhookSecret string
}

func (a *Adapter) Verify(ctx context.Context, payload []byte, headers http.Header) error {
	_ = ctx
	sigHeader := strings.TrimSpace(headers.Get("Stripe-Signature"))
	if sigHeader == "" {
		return domain.ErrInvalidSignature
	}
	if err := webhook.ValidatePayload(payload, sigHeader, a.webhookSecret); err != nil {
		return domain.ErrInvalidSignature
	}
	return nil
}

func (a *Adapter) Parse(ctx context.Context, payload []byte) (subscriptiondomain.BillingEvent, error) {
	_ = ctx
	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, domain.ErrInvalidPayload
	}
	if strings.TrimSpace(event.ID) == "" {
		return nil, domain.ErrInvalidEvent
	}

	switch strings.TrimSpace(event.Type) {
	case "checkout.session.completed":
		return a.parseCheckoutSession(event)
	case "customer.subscription.created", "customer.subscription.updated":
		return a.parseSubscriptionUpdated(event)
	case "customer.subscription.deleted":
		return a.parseSubscriptionDeleted(event)
	default:
		return nil, domain.ErrEventIgnored
	}
}

type stripeEvent struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Created int64           `json:"created"`
	Data    stripeEventData `json:"data"`
}

type stripeEventData struct {
	Object json.RawMessage `json:"object"`
}

type stripeCheckoutSession struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata"`
}

type stripeSubscription struct {
	ID       string            `json:"id"`
	Status   string            `json:"status"`
	Metadata map[string]string `json:"metadata"`
}

func (a *Adapter) parseCheckoutSession(event stripeEvent) (subscriptiondomain.BillingEvent, error) {
	var session stripeCheckoutSession
	if err := json.Unmarshal(event.Data.Object, &session); err != nil {
		return nil, domain.ErrInvalidPayload
	}

	orgID := metadataValue(session.Metadata, "org_id")
	plan := metadataValue(session.Metadata, "plan")
	if orgID == "" || plan == "" {
		return nil, domain.ErrInvalidEvent
	}

	return subscriptiondomain.CheckoutCompleted{
		EventMeta: meta(event, orgID),
		Plan:      subscriptiondomain.Plan(plan),
	}, nil
}

func (a *Adapter) parseSubscriptionUpdated(event stripeEvent) (subscriptiondomain.BillingEvent, error) {
	sub, err := decodeSubscription(event)
	if err != nil {
		return nil, err
	}

	orgID := metadataValue(sub.Metadata, "org_id")
	plan := metadataValue(sub.Metadata, "plan")
	if orgID == "" || plan == "" {
		return nil, domain.ErrInvalidEvent
	}

	// Vendor statuses outside the known set are carried verbatim.
	status := strings.ToLower(strings.TrimSpace(sub.Status))
	if status == "" {
		return nil, domain.ErrInvalidEvent
	}

	return subscriptiondomain.SubscriptionUpdated{
		EventMeta: meta(event, orgID),
		Plan:      subscriptiondomain.Plan(plan),
		Status:    subscriptiondomain.Status(status),
	}, nil
}

func (a *Adapter) parseSubscriptionDeleted(event stripeEvent) (subscriptiondomain.BillingEvent, error) {
	sub, err := decodeSubscription(event)
	if err != nil {
		return nil, err
	}

	orgID := metadataValue(sub.Metadata, "org_id")
	if orgID == "" {
		return nil, domain.ErrInvalidEvent
	}

	return subscriptiondomain.SubscriptionDeleted{
		EventMeta: meta(event, orgID),
	}, nil
}

func decodeSubscription(event stripeEvent) (stripeSubscription, error) {
	var sub stripeSubscription
	if err := json.Unmarshal(event.Data.Object, &sub); err != nil {
		return stripeSubscription{}, domain.ErrInvalidPayload
	}
	if strings.TrimSpace(sub.ID) == "" {
		return stripeSubscription{}, domain.ErrInvalidEvent
	}
	return sub, nil
}

func meta(event stripeEvent, orgID string) subscriptiondomain.EventMeta {
	return subscriptiondomain.EventMeta{
		EventID:  event.ID,
		OrgID:    orgID,
		Sequence: event.Created,
	}
}

func metadataValue(metadata map[string]string, key string) string {
	if metadata == nil {
		return ""
	}
	return strings.TrimSpace(metadata[key])
}
