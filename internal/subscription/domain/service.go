package domain

import "context"

// Service projects billing events into subscription records.
type Service interface {
	// Apply folds one verified billing event into the state store. It is
	// idempotent under redelivery and safe under concurrent invocation for
	// distinct organizations.
	Apply(ctx context.Context, event BillingEvent) error

	// Lookup returns the current record for an organization. When no event
	// has been seen the implicit free record is returned with found=false.
	Lookup(ctx context.Context, orgID string) (SubscriptionRecord, bool, error)
}
