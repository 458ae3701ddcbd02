package service

import (
	"context"
	"errors"
	"testing"

	"github.com/helioslabs/billgate/internal/checkout/domain"
	"github.com/helioslabs/billgate/internal/config"
	customerdomain "github.com/helioslabs/billgate/internal/customer/domain"
	"go.uber.org/zap"
)

type fakeDirectory struct {
	calls int
	err   error
}

func (f *fakeDirectory) Resolve(ctx context.Context, orgID string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "cus_" + orgID, nil
}

type fakeSessions struct {
	checkoutCalls int
	portalCalls   int
	err           error

	lastSpec      domain.CheckoutSessionSpec
	lastReturnURL string
}

func (f *fakeSessions) NewCheckoutSession(ctx context.Context, spec domain.CheckoutSessionSpec) (string, error) {
	f.checkoutCalls++
	f.lastSpec = spec
	if f.err != nil {
		return "", f.err
	}
	return "https://checkout.stripe.com/c/pay/cs_test", nil
}

func (f *fakeSessions) NewPortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	f.portalCalls++
	f.lastReturnURL = returnURL
	if f.err != nil {
		return "", f.err
	}
	return "https://billing.stripe.com/p/session/test", nil
}

func testCatalog() *config.PlanCatalogHolder {
	return config.NewStaticPlanCatalogHolder(config.PlanCatalog{
		TrialDays: 14,
		Prices: map[string]string{
			"pro":      "price_pro",
			"business": "price_business",
		},
	})
}

func newCheckout(directory customerdomain.Service, sessions domain.VendorSessions) domain.Service {
	return New(Params{
		Log:   zap.NewNop(),
		Cfg:   config.Config{CheckoutSuccessURL: "https://app.example.com/billing/success", CheckoutCancelURL: "https://app.example.com/billing/cancel", PortalReturnURL: "https://app.example.com/billing"},
		Plans: testCatalog(),

		Directory: directory,
		Sessions:  sessions,
	})
}

func TestCreateCheckoutSession(t *testing.T) {
	directory := &fakeDirectory{}
	sessions := &fakeSessions{}
	svc := newCheckout(directory, sessions)

	session, err := svc.CreateCheckoutSession(context.Background(), domain.CreateCheckoutSessionRequest{
		OrgID: "org_1",
		Plan:  "Pro",
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if session.URL == "" {
		t.Fatal("expected a redirect URL")
	}
	if sessions.checkoutCalls != 1 {
		t.Fatalf("expected one vendor call, got %d", sessions.checkoutCalls)
	}

	spec := sessions.lastSpec
	if spec.CustomerID != "cus_org_1" {
		t.Fatalf("expected customer cus_org_1, got %s", spec.CustomerID)
	}
	if spec.PriceID != "price_pro" {
		t.Fatalf("expected price_pro, got %s", spec.PriceID)
	}
	if spec.Plan != "pro" || spec.OrgID != "org_1" {
		t.Fatalf("expected org/plan metadata, got %s/%s", spec.OrgID, spec.Plan)
	}
	if spec.TrialDays != 14 {
		t.Fatalf("expected 14 trial days, got %d", spec.TrialDays)
	}
}

func TestCreateCheckoutSessionInvalidPlan(t *testing.T) {
	tests := []string{"enterprise", "free", ""}
	for _, plan := range tests {
		directory := &fakeDirectory{}
		sessions := &fakeSessions{}
		svc := newCheckout(directory, sessions)

		_, err := svc.CreateCheckoutSession(context.Background(), domain.CreateCheckoutSessionRequest{
			OrgID: "org_1",
			Plan:  plan,
		})
		if !errors.Is(err, domain.ErrInvalidPlan) {
			t.Fatalf("plan %q: expected ErrInvalidPlan, got %v", plan, err)
		}
		// The plan gate runs before any external call.
		if directory.calls != 0 || sessions.checkoutCalls != 0 {
			t.Fatalf("plan %q: expected no external calls, got directory=%d sessions=%d", plan, directory.calls, sessions.checkoutCalls)
		}
	}
}

func TestCreateCheckoutSessionDirectoryFailure(t *testing.T) {
	directory := &fakeDirectory{err: customerdomain.ErrLookupFailed}
	sessions := &fakeSessions{}
	svc := newCheckout(directory, sessions)

	_, err := svc.CreateCheckoutSession(context.Background(), domain.CreateCheckoutSessionRequest{
		OrgID: "org_1",
		Plan:  "pro",
	})
	if !errors.Is(err, customerdomain.ErrLookupFailed) {
		t.Fatalf("expected ErrLookupFailed, got %v", err)
	}
	if sessions.checkoutCalls != 0 {
		t.Fatalf("expected no vendor session call, got %d", sessions.checkoutCalls)
	}
}

func TestCreateCheckoutSessionVendorFailure(t *testing.T) {
	directory := &fakeDirectory{}
	sessions := &fakeSessions{err: errors.New("stripe: internal error")}
	svc := newCheckout(directory, sessions)

	_, err := svc.CreateCheckoutSession(context.Background(), domain.CreateCheckoutSessionRequest{
		OrgID: "org_1",
		Plan:  "pro",
	})
	if !errors.Is(err, domain.ErrSessionFailed) {
		t.Fatalf("expected ErrSessionFailed, got %v", err)
	}
}

func TestCreatePortalSession(t *testing.T) {
	directory := &fakeDirectory{}
	sessions := &fakeSessions{}
	svc := newCheckout(directory, sessions)

	url, err := svc.CreatePortalSession(context.Background(), "org_1")
	if err != nil {
		t.Fatalf("create portal session: %v", err)
	}
	if url == "" {
		t.Fatal("expected a redirect URL")
	}
	if sessions.lastReturnURL != "https://app.example.com/billing" {
		t.Fatalf("expected configured return URL, got %s", sessions.lastReturnURL)
	}
}

func TestCreatePortalSessionRejectsEmptyOrganization(t *testing.T) {
	svc := newCheckout(&fakeDirectory{}, &fakeSessions{})

	_, err := svc.CreatePortalSession(context.Background(), " ")
	if !errors.Is(err, domain.ErrInvalidOrganization) {
		t.Fatalf("expected ErrInvalidOrganization, got %v", err)
	}
}
