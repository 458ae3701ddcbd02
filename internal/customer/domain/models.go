// Package domain contains the customer directory: the durable mapping from
// organization identifiers to vendor-side customer handles.
package domain

import (
	"errors"
	"time"
)

// CustomerLink ties an organization to its vendor customer handle. One link
// per organization; creation is idempotent on the org key.
type CustomerLink struct {
	OrgID              string    `gorm:"primaryKey" json:"org_id"`
	Provider           string    `gorm:"type:text;not null" json:"provider"`
	ProviderCustomerID string    `gorm:"type:text;not null" json:"provider_customer_id"`
	CreatedAt          time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (CustomerLink) TableName() string { return "customer_links" }

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrLookupFailed        = errors.New("customer_lookup_failed")
)
