package domain

import (
	"context"

	"gorm.io/gorm"
)

// Repository is the state store for subscription projections.
type Repository interface {
	// Find returns the stored record for orgID, or nil when absent.
	Find(ctx context.Context, db *gorm.DB, orgID string) (*SubscriptionRecord, error)

	// PutIfNewer writes record atomically unless the stored row carries a
	// higher VendorSeq. Returns false when the write was discarded as stale.
	PutIfNewer(ctx context.Context, db *gorm.DB, record *SubscriptionRecord) (bool, error)
}
