package migration

import (
	"github.com/helioslabs/billgate/internal/config"
	customerdomain "github.com/helioslabs/billgate/internal/customer/domain"
	paymentdomain "github.com/helioslabs/billgate/internal/payment/domain"
	subscriptiondomain "github.com/helioslabs/billgate/internal/subscription/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// Dev databases (sqlite, mysql) are schema-managed by gorm.
			return conn.AutoMigrate(
				&subscriptiondomain.SubscriptionRecord{},
				&customerdomain.CustomerLink{},
				&paymentdomain.WebhookEventRecord{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
