package repository

import (
	"context"

	"github.com/helioslabs/billgate/internal/subscription/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, orgID string) (*domain.SubscriptionRecord, error) {
	var item domain.SubscriptionRecord
	err := db.WithContext(ctx).Raw(
		`SELECT org_id, plan, status, vendor_seq, updated_at
		 FROM subscription_records
		 WHERE org_id = ?
		 LIMIT 1`,
		orgID,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.OrgID == "" {
		return nil, nil
	}
	return &item, nil
}

// PutIfNewer upserts the record in a single statement; the guard on
// vendor_seq makes the write a last-writer-wins merge keyed by the vendor
// sequence, so redeliveries and stale out-of-order events never regress the
// row. Ties go to the arriving event, which rewrites identical state on
// redelivery.
func (r *repo) PutIfNewer(ctx context.Context, db *gorm.DB, record *domain.SubscriptionRecord) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`INSERT INTO subscription_records (org_id, plan, status, vendor_seq, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (org_id) DO UPDATE SET
			plan = excluded.plan,
			status = excluded.status,
			vendor_seq = excluded.vendor_seq,
			updated_at = excluded.updated_at
		 WHERE excluded.vendor_seq >= subscription_records.vendor_seq`,
		record.OrgID,
		record.Plan,
		record.Status,
		record.VendorSeq,
		record.UpdatedAt,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
