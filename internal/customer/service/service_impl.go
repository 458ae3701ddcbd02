package service

import (
	"context"
	"strings"
	"time"

	"github.com/helioslabs/billgate/internal/customer/domain"
	obslogger "github.com/helioslabs/billgate/internal/observability/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const provider = "stripe"

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Repo      domain.Repository
	Customers domain.VendorCustomers
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      domain.Repository
	customers domain.VendorCustomers
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("customer.directory"),
		repo:      p.Repo,
		customers: p.Customers,
	}
}

// Resolve returns the vendor customer handle for an organization, creating
// the vendor customer on first use. The persisted mapping makes repeated
// checkouts reuse one vendor customer per organization.
func (s *Service) Resolve(ctx context.Context, orgID string) (string, error) {
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return "", domain.ErrInvalidOrganization
	}

	existing, err := s.repo.FindByOrg(ctx, s.db, orgID)
	if err != nil {
		obslogger.WithOrg(s.log, orgID).Error("customer link lookup failed", zap.Error(err))
		return "", domain.ErrLookupFailed
	}
	if existing != nil {
		return existing.ProviderCustomerID, nil
	}

	customerID, err := s.customers.NewCustomer(ctx, orgID)
	if err != nil {
		obslogger.WithOrg(s.log, orgID).Error("vendor customer creation failed", zap.Error(err))
		return "", domain.ErrLookupFailed
	}

	link := domain.CustomerLink{
		OrgID:              orgID,
		Provider:           provider,
		ProviderCustomerID: customerID,
		CreatedAt:          time.Now().UTC(),
	}

	inserted, err := s.repo.Insert(ctx, s.db, &link)
	if err != nil {
		obslogger.WithOrg(s.log, orgID).Error("customer link insert failed", zap.Error(err))
		return "", domain.ErrLookupFailed
	}
	if !inserted {
		// Another request created the link concurrently; the vendor customer
		// made here is orphaned but harmless. Use the stored handle.
		stored, err := s.repo.FindByOrg(ctx, s.db, orgID)
		if err != nil || stored == nil {
			obslogger.WithOrg(s.log, orgID).Error("customer link re-read failed", zap.Error(err))
			return "", domain.ErrLookupFailed
		}
		obslogger.WithOrg(s.log, orgID).Warn("discarded racing vendor customer",
			zap.String("orphaned_customer_id", customerID),
			zap.String("customer_id", stored.ProviderCustomerID),
		)
		return stored.ProviderCustomerID, nil
	}

	obslogger.WithOrg(s.log, orgID).Info("vendor customer linked",
		zap.String("customer_id", customerID),
	)
	return customerID, nil
}
