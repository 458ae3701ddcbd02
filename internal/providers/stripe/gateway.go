// Package stripe wraps the vendor SDK calls for customers, checkout sessions
// and billing portal sessions.
package stripe

import (
	"context"
	"fmt"
	"strings"

	checkoutdomain "github.com/helioslabs/billgate/internal/checkout/domain"
	"github.com/helioslabs/billgate/internal/config"
	"github.com/stripe/stripe-go/v79"
	billingportalsession "github.com/stripe/stripe-go/v79/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/customer"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log *zap.Logger
	Cfg config.Config
}

type Gateway struct {
	log *zap.Logger
}

func New(p Params) *Gateway {
	stripe.Key = strings.TrimSpace(p.Cfg.StripeSecretKey)
	return &Gateway{
		log: p.Log.Named("providers.stripe"),
	}
}

// NewCustomer creates a vendor customer tagged with the organization
// identifier so webhook events can be routed back.
func (g *Gateway) NewCustomer(ctx context.Context, orgID string) (string, error) {
	params := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
	}
	params.AddMetadata("org_id", orgID)

	c, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create customer: %w", err)
	}
	return c.ID, nil
}

// NewCheckoutSession requests a vendor-hosted subscription checkout. Both the
// session and the subscription it creates carry org/plan metadata, which is
// the routing key for every later webhook event.
func (g *Gateway) NewCheckoutSession(ctx context.Context, spec checkoutdomain.CheckoutSessionSpec) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Params:   stripe.Params{Context: ctx},
		Customer: stripe.String(spec.CustomerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(spec.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(spec.SuccessURL),
		CancelURL:  stripe.String(spec.CancelURL),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"org_id": spec.OrgID,
				"plan":   spec.Plan,
			},
		},
	}
	if spec.TrialDays > 0 {
		params.SubscriptionData.TrialPeriodDays = stripe.Int64(spec.TrialDays)
	}
	params.AddMetadata("org_id", spec.OrgID)
	params.AddMetadata("plan", spec.Plan)

	sess, err := checkoutsession.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create checkout session: %w", err)
	}
	return sess.URL, nil
}

// NewPortalSession requests a vendor-hosted billing portal session.
func (g *Gateway) NewPortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Params:    stripe.Params{Context: ctx},
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}

	sess, err := billingportalsession.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create portal session: %w", err)
	}
	return sess.URL, nil
}
