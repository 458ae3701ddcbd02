package payment

import (
	"github.com/helioslabs/billgate/internal/payment/adapters"
	"github.com/helioslabs/billgate/internal/payment/adapters/stripe"
	"github.com/helioslabs/billgate/internal/payment/repository"
	paymentservice "github.com/helioslabs/billgate/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.webhook",
	fx.Provide(repository.Provide),
	fx.Provide(func() *adapters.Registry {
		return adapters.NewRegistry(
			stripe.NewFactory(),
		)
	}),
	fx.Provide(paymentservice.New),
)
