package repository

import (
	"context"

	"github.com/helioslabs/billgate/internal/customer/domain"
	pkgdb "github.com/helioslabs/billgate/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, link *domain.CustomerLink) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`INSERT INTO customer_links (org_id, provider, provider_customer_id, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (org_id) DO NOTHING`,
		link.OrgID,
		link.Provider,
		link.ProviderCustomerID,
		link.CreatedAt,
	)
	if res.Error != nil {
		if pkgdb.IsDuplicateKeyErr(res.Error) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) FindByOrg(ctx context.Context, db *gorm.DB, orgID string) (*domain.CustomerLink, error) {
	var item domain.CustomerLink
	err := db.WithContext(ctx).Raw(
		`SELECT org_id, provider, provider_customer_id, created_at
		 FROM customer_links
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
