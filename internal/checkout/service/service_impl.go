package service

import (
	"context"
	"strings"

	"github.com/helioslabs/billgate/internal/checkout/domain"
	"github.com/helioslabs/billgate/internal/config"
	customerdomain "github.com/helioslabs/billgate/internal/customer/domain"
	obslogger "github.com/helioslabs/billgate/internal/observability/logger"
	obsmetrics "github.com/helioslabs/billgate/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Cfg       config.Config
	Plans     *config.PlanCatalogHolder
	Directory customerdomain.Service
	Sessions  domain.VendorSessions
	Metrics   *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log       *zap.Logger
	cfg       config.Config
	plans     *config.PlanCatalogHolder
	directory customerdomain.Service
	sessions  domain.VendorSessions
	metrics   *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:       p.Log.Named("checkout.service"),
		cfg:       p.Cfg,
		plans:     p.Plans,
		directory: p.Directory,
		sessions:  p.Sessions,
		metrics:   p.Metrics,
	}
}

// CreateCheckoutSession resolves the plan's vendor price, ensures the org has
// a vendor customer, and requests a vendor-hosted checkout session. The plan
// is validated before any vendor call is made.
func (s *Service) CreateCheckoutSession(ctx context.Context, req domain.CreateCheckoutSessionRequest) (domain.CheckoutSession, error) {
	orgID := strings.TrimSpace(req.OrgID)
	if orgID == "" {
		return domain.CheckoutSession{}, domain.ErrInvalidOrganization
	}

	plan := strings.ToLower(strings.TrimSpace(req.Plan))
	catalog := s.plans.Get()
	priceID, ok := catalog.PriceID(plan)
	if !ok {
		return domain.CheckoutSession{}, domain.ErrInvalidPlan
	}

	customerID, err := s.directory.Resolve(ctx, orgID)
	if err != nil {
		s.metrics.RecordSession("checkout", obsmetrics.OutcomeFailed)
		return domain.CheckoutSession{}, err
	}

	url, err := s.sessions.NewCheckoutSession(ctx, domain.CheckoutSessionSpec{
		CustomerID: customerID,
		PriceID:    priceID,
		OrgID:      orgID,
		Plan:       plan,
		TrialDays:  catalog.TrialDays,
		SuccessURL: s.cfg.CheckoutSuccessURL,
		CancelURL:  s.cfg.CheckoutCancelURL,
	})
	if err != nil {
		s.metrics.RecordSession("checkout", obsmetrics.OutcomeFailed)
		obslogger.WithOrg(s.log, orgID).Error("checkout session creation failed",
			zap.String("plan", plan),
			zap.Error(err),
		)
		return domain.CheckoutSession{}, domain.ErrSessionFailed
	}

	s.metrics.RecordSession("checkout", obsmetrics.OutcomeApplied)
	obslogger.WithOrg(s.log, orgID).Info("checkout session created",
		zap.String("plan", plan),
	)
	return domain.CheckoutSession{URL: url}, nil
}

// CreatePortalSession returns a vendor-hosted billing portal redirect URL.
func (s *Service) CreatePortalSession(ctx context.Context, orgID string) (string, error) {
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return "", domain.ErrInvalidOrganization
	}

	customerID, err := s.directory.Resolve(ctx, orgID)
	if err != nil {
		s.metrics.RecordSession("portal", obsmetrics.OutcomeFailed)
		return "", err
	}

	url, err := s.sessions.NewPortalSession(ctx, customerID, s.cfg.PortalReturnURL)
	if err != nil {
		s.metrics.RecordSession("portal", obsmetrics.OutcomeFailed)
		obslogger.WithOrg(s.log, orgID).Error("portal session creation failed", zap.Error(err))
		return "", domain.ErrSessionFailed
	}

	s.metrics.RecordSession("portal", obsmetrics.OutcomeApplied)
	return url, nil
}
