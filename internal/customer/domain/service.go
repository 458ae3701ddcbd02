package domain

import "context"

// VendorCustomers creates customer handles on the payment vendor.
type VendorCustomers interface {
	NewCustomer(ctx context.Context, orgID string) (string, error)
}

// Service resolves organizations to vendor customer handles, creating the
// vendor customer on first use.
type Service interface {
	Resolve(ctx context.Context, orgID string) (string, error)
}
