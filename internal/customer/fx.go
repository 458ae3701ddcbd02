package customer

import (
	"github.com/helioslabs/billgate/internal/customer/repository"
	"github.com/helioslabs/billgate/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.directory",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
