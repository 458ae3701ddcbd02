package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	checkoutpkg "github.com/helioslabs/billgate/internal/checkout"
	checkoutdomain "github.com/helioslabs/billgate/internal/checkout/domain"
	"github.com/helioslabs/billgate/internal/config"
	"github.com/helioslabs/billgate/internal/customer"
	"github.com/helioslabs/billgate/internal/observability"
	obsmiddleware "github.com/helioslabs/billgate/internal/observability/logger"
	"github.com/helioslabs/billgate/internal/payment"
	paymentdomain "github.com/helioslabs/billgate/internal/payment/domain"
	providerstripe "github.com/helioslabs/billgate/internal/providers/stripe"
	"github.com/helioslabs/billgate/internal/ratelimit"
	"github.com/helioslabs/billgate/internal/subscription"
	subscriptiondomain "github.com/helioslabs/billgate/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	customer.Module,
	subscription.Module,
	checkoutpkg.Module,
	payment.Module,
	providerstripe.Module,
	ratelimit.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterRoutes() }),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = ctx
			go func() {
				log.Named("http.server").Info("listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	log             *zap.Logger
	checkoutSvc     checkoutdomain.Service
	subscriptionSvc subscriptiondomain.Service
	paymentSvc      paymentdomain.Service
	billingLimiter  *ratelimit.BillingAPILimiter
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Log             *zap.Logger
	CheckoutSvc     checkoutdomain.Service
	SubscriptionSvc subscriptiondomain.Service
	PaymentSvc      paymentdomain.Service
	BillingLimiter  *ratelimit.BillingAPILimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		log:             p.Log.Named("http.server"),
		checkoutSvc:     p.CheckoutSvc,
		subscriptionSvc: p.SubscriptionSvc,
		paymentSvc:      p.PaymentSvc,
		billingLimiter:  p.BillingLimiter,
	}
}

func (s *Server) RegisterRoutes() {
	billing := s.engine.Group("/billing")
	billing.POST("/checkout", s.CreateCheckoutSession)
	billing.GET("/portal", s.RedirectToPortal)
	billing.POST("/webhooks", s.HandlePaymentWebhook)
	billing.POST("/webhooks/:provider", s.HandlePaymentWebhook)
	billing.GET("/subscriptions/:org_id", s.GetSubscription)
}
