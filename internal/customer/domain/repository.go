package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// Insert stores the link unless one already exists for the org key.
	// Returns false when another writer got there first.
	Insert(ctx context.Context, db *gorm.DB, link *CustomerLink) (bool, error)

	// FindByOrg returns the stored link, or nil when absent.
	FindByOrg(ctx context.Context, db *gorm.DB, orgID string) (*CustomerLink, error)
}
