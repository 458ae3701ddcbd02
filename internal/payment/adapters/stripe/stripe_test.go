package stripe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	paymentdomain "github.com/helioslabs/billgate/internal/payment/domain"
	subscriptiondomain "github.com/helioslabs/billgate/internal/subscription/domain"
)

func TestVerifySignature(t *testing.T) {
	secret := "whsec_test"
	payload := []byte(`{"id":"evt_123","type":"customer.subscription.updated","data":{"object":{}}}`)
	timestamp := time.Now().Unix()

	header := buildStripeSignatureHeader(secret, payload, timestamp)
	reqHeader := http.Header{}
	reqHeader.Set("Stripe-Signature", header)

	adapter := &Adapter{webhookSecret: secret}
	if err := adapter.Verify(context.Background(), payload, reqHeader); err != nil {
		t.Fatalf("expected valid signature, got error: %v", err)
	}

	reqHeader.Set("Stripe-Signature", buildStripeSignatureHeader("wrong", payload, timestamp))
	if err := adapter.Verify(context.Background(), payload, reqHeader); !errors.Is(err, paymentdomain.ErrInvalidSignature) {
		t.Fatalf("expected invalid signature error, got %v", err)
	}

	reqHeader.Del("Stripe-Signature")
	if err := adapter.Verify(context.Background(), payload, reqHeader); !errors.Is(err, paymentdomain.ErrInvalidSignature) {
		t.Fatalf("expected missing signature error, got %v", err)
	}
}

func TestParseCheckoutCompleted(t *testing.T) {
	created := time.Now().UTC().Unix()
	payload := buildEventPayload(t, "evt_cs", "checkout.session.completed", created, map[string]any{
		"id": "cs_1",
		"metadata": map[string]any{
			"org_id": "org_42",
			"plan":   "pro",
		},
	})

	adapter := &Adapter{webhookSecret: "whsec_test"}
	event, err := adapter.Parse(context.Background(), payload)
	if err != nil {
		t.Fatalf("parse event: %v", err)
	}

	checkout, ok := event.(subscriptiondomain.CheckoutCompleted)
	if !ok {
		t.Fatalf("expected CheckoutCompleted, got %T", event)
	}
	if checkout.Plan != subscriptiondomain.PlanPro {
		t.Fatalf("expected plan pro, got %s", checkout.Plan)
	}
	meta := checkout.Meta()
	if meta.OrgID != "org_42" {
		t.Fatalf("expected org_42, got %s", meta.OrgID)
	}
	if meta.EventID != "evt_cs" {
		t.Fatalf("expected evt_cs, got %s", meta.EventID)
	}
	if meta.Sequence != created {
		t.Fatalf("expected sequence %d, got %d", created, meta.Sequence)
	}
}

func TestParseSubscriptionLifecycle(t *testing.T) {
	created := time.Now().UTC().Unix()

	tests := []struct {
		name       string
		eventType  string
		object     map[string]any
		wantKind   string
		wantPlan   subscriptiondomain.Plan
		wantStatus subscriptiondomain.Status
	}{{
		name:      "customer.subscription.created",
		eventType: "customer.subscription.created",
		object: map[string]any{
			"id":     "sub_1",
			"status": "trialing",
			"metadata": map[string]any{
				"org_id": "org_42",
				"plan":   "pro",
			},
		},
		wantKind:   "subscription_updated",
		wantPlan:   subscriptiondomain.PlanPro,
		wantStatus: subscriptiondomain.StatusTrialing,
	}, {
		name:      "customer.subscription.updated",
		eventType: "customer.subscription.updated",
		object: map[string]any{
			"id":     "sub_1",
			"status": "past_due",
			"metadata": map[string]any{
				"org_id": "org_42",
				"plan":   "business",
			},
		},
		wantKind:   "subscription_updated",
		wantPlan:   subscriptiondomain.PlanBusiness,
		wantStatus: subscriptiondomain.StatusPastDue,
	}, {
		name:      "vendor status outside known set is carried verbatim",
		eventType: "customer.subscription.updated",
		object: map[string]any{
			"id":     "sub_1",
			"status": "incomplete_expired",
			"metadata": map[string]any{
				"org_id": "org_42",
				"plan":   "pro",
			},
		},
		wantKind:   "subscription_updated",
		wantPlan:   subscriptiondomain.PlanPro,
		wantStatus: subscriptiondomain.Status("incomplete_expired"),
	}}

	adapter := &Adapter{webhookSecret: "whsec_test"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := buildEventPayload(t, "evt_sub", tt.eventType, created, tt.object)
			event, err := adapter.Parse(context.Background(), payload)
			if err != nil {
				t.Fatalf("parse event: %v", err)
			}
			if event.Kind() != tt.wantKind {
				t.Fatalf("expected kind %s, got %s", tt.wantKind, event.Kind())
			}
			updated, ok := event.(subscriptiondomain.SubscriptionUpdated)
			if !ok {
				t.Fatalf("expected SubscriptionUpdated, got %T", event)
			}
			if updated.Plan != tt.wantPlan {
				t.Fatalf("expected plan %s, got %s", tt.wantPlan, updated.Plan)
			}
			if updated.Status != tt.wantStatus {
				t.Fatalf("expected status %s, got %s", tt.wantStatus, updated.Status)
			}
		})
	}
}

func TestParseSubscriptionDeleted(t *testing.T) {
	created := time.Now().UTC().Unix()
	payload := buildEventPayload(t, "evt_del", "customer.subscription.deleted", created, map[string]any{
		"id":     "sub_1",
		"status": "canceled",
		"metadata": map[string]any{
			"org_id": "org_42",
		},
	})

	adapter := &Adapter{webhookSecret: "whsec_test"}
	event, err := adapter.Parse(context.Background(), payload)
	if err != nil {
		t.Fatalf("parse event: %v", err)
	}
	if _, ok := event.(subscriptiondomain.SubscriptionDeleted); !ok {
		t.Fatalf("expected SubscriptionDeleted, got %T", event)
	}
	if event.Meta().OrgID != "org_42" {
		t.Fatalf("expected org_42, got %s", event.Meta().OrgID)
	}
}

func TestParseUnknownEventTypeIsIgnored(t *testing.T) {
	created := time.Now().UTC().Unix()
	payload := buildEventPayload(t, "evt_inv", "invoice.payment_succeeded", created, map[string]any{
		"id": "in_1",
	})

	adapter := &Adapter{webhookSecret: "whsec_test"}
	if _, err := adapter.Parse(context.Background(), payload); !errors.Is(err, paymentdomain.ErrEventIgnored) {
		t.Fatalf("expected ErrEventIgnored, got %v", err)
	}
}

func TestParseMissingOrgMetadata(t *testing.T) {
	created := time.Now().UTC().Unix()
	payload := buildEventPayload(t, "evt_nometa", "customer.subscription.updated", created, map[string]any{
		"id":       "sub_1",
		"status":   "active",
		"metadata": map[string]any{},
	})

	adapter := &Adapter{webhookSecret: "whsec_test"}
	if _, err := adapter.Parse(context.Background(), payload); !errors.Is(err, paymentdomain.ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}
}

func TestNewAdapterRequiresSecret(t *testing.T) {
	factory := NewFactory()
	if factory.Provider() != "stripe" {
		t.Fatalf("expected provider stripe, got %s", factory.Provider())
	}
	if _, err := factory.NewAdapter(paymentdomain.AdapterConfig{}); !errors.Is(err, paymentdomain.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := factory.NewAdapter(paymentdomain.AdapterConfig{WebhookSecret: "whsec_test"}); err != nil {
		t.Fatalf("expected adapter, got error: %v", err)
	}
}

func buildEventPayload(t *testing.T, id, eventType string, created int64, object map[string]any) []byte {
	t.Helper()

	payload, err := json.Marshal(map[string]any{
		"id":      id,
		"type":    eventType,
		"created": created,
		"data": map[string]any{
			"object": object,
		},
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return payload
}

func buildStripeSignatureHeader(secret string, payload []byte, timestamp int64) string {
	signedPayload := fmt.Sprintf("%d.%s", timestamp, string(payload))
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(signedPayload))
	signature := hex.EncodeToString(mac.Sum(nil))
	return fmt.Sprintf("t=%d,v1=%s", timestamp, signature)
}
