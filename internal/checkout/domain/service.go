// Package domain defines the checkout and billing portal initiator contracts.
package domain

import (
	"context"
	"errors"
)

// CheckoutSessionSpec carries everything the vendor needs to host a checkout.
type CheckoutSessionSpec struct {
	CustomerID string
	PriceID    string
	OrgID      string
	Plan       string
	TrialDays  int64
	SuccessURL string
	CancelURL  string
}

// VendorSessions creates vendor-hosted redirect sessions.
type VendorSessions interface {
	NewCheckoutSession(ctx context.Context, spec CheckoutSessionSpec) (string, error)
	NewPortalSession(ctx context.Context, customerID, returnURL string) (string, error)
}

type CreateCheckoutSessionRequest struct {
	OrgID string `json:"org_id"`
	Plan  string `json:"plan"`
}

type CheckoutSession struct {
	URL string `json:"url"`
}

// Service initiates vendor-hosted checkout and billing portal sessions.
type Service interface {
	CreateCheckoutSession(ctx context.Context, req CreateCheckoutSessionRequest) (CheckoutSession, error)
	CreatePortalSession(ctx context.Context, orgID string) (string, error)
}

var (
	ErrInvalidPlan         = errors.New("invalid_plan")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrSessionFailed       = errors.New("session_failed")
)
