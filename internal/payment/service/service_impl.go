package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/helioslabs/billgate/internal/config"
	obslogger "github.com/helioslabs/billgate/internal/observability/logger"
	obsmetrics "github.com/helioslabs/billgate/internal/observability/metrics"
	"github.com/helioslabs/billgate/internal/payment/adapters"
	"github.com/helioslabs/billgate/internal/payment/domain"
	subscriptiondomain "github.com/helioslabs/billgate/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Cfg       config.Config
	Adapters  *adapters.Registry
	Repo      domain.Repository
	Projector subscriptiondomain.Service
	Metrics   *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	cfg       config.Config
	adapters  *adapters.Registry
	repo      domain.Repository
	projector subscriptiondomain.Service
	metrics   *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("payment.webhook"),
		genID:     p.GenID,
		cfg:       p.Cfg,
		adapters:  p.Adapters,
		repo:      p.Repo,
		projector: p.Projector,
		metrics:   p.Metrics,
	}
}

// IngestWebhook verifies, decodes, deduplicates and projects one webhook
// delivery. The event is only marked processed after the projection write
// succeeded; any failure before that point bubbles up so the HTTP layer
// refuses the acknowledgment and the vendor redelivers.
func (s *Service) IngestWebhook(ctx context.Context, provider string, payload []byte, headers http.Header) error {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return domain.ErrInvalidProvider
	}
	if s.adapters == nil || !s.adapters.ProviderExists(provider) {
		return domain.ErrProviderNotFound
	}
	if !json.Valid(payload) {
		return domain.ErrInvalidPayload
	}

	adapter, err := s.adapters.NewAdapter(provider, domain.AdapterConfig{
		WebhookSecret: s.cfg.StripeWebhookSecret,
	})
	if err != nil {
		return err
	}

	if err := adapter.Verify(ctx, payload, headers); err != nil {
		s.metrics.RecordWebhookEvent(provider, "unknown", obsmetrics.OutcomeFailed)
		return err
	}

	event, err := adapter.Parse(ctx, payload)
	if err != nil {
		if errors.Is(err, domain.ErrEventIgnored) {
			s.metrics.RecordWebhookEvent(provider, "unknown", obsmetrics.OutcomeIgnored)
			s.log.Info("ignoring webhook event outside vocabulary",
				zap.String("provider", provider),
			)
			return nil
		}
		return err
	}

	meta := event.Meta()
	now := time.Now().UTC()
	received := domain.WebhookEventRecord{
		ID:              s.genID.Generate(),
		Provider:        provider,
		ProviderEventID: meta.EventID,
		EventType:       event.Kind(),
		OrgID:           meta.OrgID,
		Payload:         datatypes.JSON(payload),
		ReceivedAt:      now,
	}

	inserted, err := s.repo.InsertEvent(ctx, s.db, &received)
	if err != nil {
		return err
	}
	stored := &received
	if !inserted {
		stored, err = s.repo.FindEvent(ctx, s.db, provider, meta.EventID)
		if err != nil {
			return err
		}
		if stored == nil {
			return domain.ErrInvalidEvent
		}
		if stored.ProcessedAt != nil {
			s.metrics.RecordWebhookEvent(provider, event.Kind(), obsmetrics.OutcomeDuplicate)
			return domain.ErrEventAlreadyProcessed
		}
	}

	if err := s.projector.Apply(ctx, event); err != nil {
		s.metrics.RecordWebhookEvent(provider, event.Kind(), obsmetrics.OutcomeFailed)
		return err
	}

	if err := s.repo.MarkProcessed(ctx, s.db, stored.ID, now); err != nil {
		return err
	}

	s.metrics.RecordWebhookEvent(provider, event.Kind(), obsmetrics.OutcomeApplied)
	obslogger.WithOrg(s.log, meta.OrgID).Info("webhook event processed",
		zap.String("provider", provider),
		zap.String("event_type", event.Kind()),
		zap.String("provider_event_id", meta.EventID),
	)
	return nil
}
