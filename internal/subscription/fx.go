package subscription

import (
	"github.com/helioslabs/billgate/internal/subscription/repository"
	"github.com/helioslabs/billgate/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription.projector",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
