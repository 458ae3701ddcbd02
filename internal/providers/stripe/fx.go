package stripe

import (
	checkoutdomain "github.com/helioslabs/billgate/internal/checkout/domain"
	customerdomain "github.com/helioslabs/billgate/internal/customer/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.stripe",
	fx.Provide(New),
	fx.Provide(func(g *Gateway) customerdomain.VendorCustomers { return g }),
	fx.Provide(func(g *Gateway) checkoutdomain.VendorSessions { return g }),
)
