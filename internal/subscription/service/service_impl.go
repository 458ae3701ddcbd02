package service

import (
	"context"
	"strings"
	"time"

	obslogger "github.com/helioslabs/billgate/internal/observability/logger"
	"github.com/helioslabs/billgate/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("subscription.projector"),
		repo: p.Repo,
	}
}

// Apply folds one billing event into the subscription projection. Each
// variant resolves to a single conditional store write; the write is atomic
// per organization, so concurrent events for the same key cannot interleave
// into a corrupted record.
func (s *Service) Apply(ctx context.Context, event domain.BillingEvent) error {
	if event == nil {
		return domain.ErrInvalidEvent
	}
	meta := event.Meta()
	if strings.TrimSpace(meta.OrgID) == "" {
		return domain.ErrInvalidOrganization
	}

	record := domain.SubscriptionRecord{
		OrgID:     meta.OrgID,
		VendorSeq: meta.Sequence,
		UpdatedAt: time.Now().UTC(),
	}

	switch ev := event.(type) {
	case domain.CheckoutCompleted:
		record.Plan = ev.Plan
		record.Status = domain.StatusTrialing
	case domain.SubscriptionUpdated:
		record.Plan = ev.Plan
		record.Status = ev.Status
	case domain.SubscriptionDeleted:
		record.Plan = domain.PlanFree
		record.Status = domain.StatusCanceled
	default:
		// Unknown kinds never fail the call; the event vocabulary evolves
		// independently of this projector.
		obslogger.WithOrg(s.log, meta.OrgID).Info("ignoring unhandled billing event",
			zap.String("kind", event.Kind()),
			zap.String("event_id", meta.EventID),
		)
		return nil
	}

	applied, err := s.repo.PutIfNewer(ctx, s.db, &record)
	if err != nil {
		obslogger.WithOrg(s.log, meta.OrgID).Error("subscription store write failed",
			zap.String("kind", event.Kind()),
			zap.String("event_id", meta.EventID),
			zap.Error(err),
		)
		return domain.ErrStoreUnavailable
	}
	if !applied {
		obslogger.WithOrg(s.log, meta.OrgID).Info("skipping stale billing event",
			zap.String("kind", event.Kind()),
			zap.String("event_id", meta.EventID),
			zap.Int64("sequence", meta.Sequence),
		)
		return nil
	}

	obslogger.WithOrg(s.log, meta.OrgID).Info("subscription record updated",
		zap.String("kind", event.Kind()),
		zap.String("plan", string(record.Plan)),
		zap.String("status", string(record.Status)),
	)
	return nil
}

func (s *Service) Lookup(ctx context.Context, orgID string) (domain.SubscriptionRecord, bool, error) {
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return domain.SubscriptionRecord{}, false, domain.ErrInvalidOrganization
	}

	record, err := s.repo.Find(ctx, s.db, orgID)
	if err != nil {
		return domain.SubscriptionRecord{}, false, domain.ErrStoreUnavailable
	}
	if record == nil {
		return domain.FreeRecord(orgID), false, nil
	}
	return *record, true, nil
}
