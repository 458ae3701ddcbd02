// Package domain contains the subscription projection model and the billing
// event vocabulary it is driven by.
package domain

import (
	"errors"
	"time"
)

// Plan is a commercial tier identifier.
type Plan string

const (
	PlanFree     Plan = "free"
	PlanPro      Plan = "pro"
	PlanBusiness Plan = "business"
)

// Status represents lifecycle states for a subscription. Vendor-defined
// statuses outside this set are stored verbatim.
type Status string

const (
	StatusTrialing Status = "trialing"
	StatusActive   Status = "active"
	StatusPastDue  Status = "past_due"
	StatusCanceled Status = "canceled"
)

// SubscriptionRecord is the current projection of an organization's
// subscription. Absence of a row means the organization is implicitly on the
// free plan. VendorSeq is the vendor-assigned event creation time of the last
// applied event; writes carrying an older sequence are discarded.
type SubscriptionRecord struct {
	OrgID     string    `gorm:"primaryKey" json:"org_id"`
	Plan      Plan      `gorm:"type:text;not null" json:"plan"`
	Status    Status    `gorm:"type:text;not null" json:"status"`
	VendorSeq int64     `gorm:"not null;default:0" json:"-"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (SubscriptionRecord) TableName() string { return "subscription_records" }

// FreeRecord is the implicit projection for organizations with no stored row.
func FreeRecord(orgID string) SubscriptionRecord {
	return SubscriptionRecord{OrgID: orgID, Plan: PlanFree}
}

var (
	ErrInvalidEvent        = errors.New("invalid_event")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrStoreUnavailable    = errors.New("store_unavailable")
)
