package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PlanCatalog maps commercial plan identifiers to vendor price IDs.
// Plans absent from the catalog cannot be purchased through checkout.
type PlanCatalog struct {
	TrialDays int64             `mapstructure:"trialDays"`
	Prices    map[string]string `mapstructure:"prices"`
}

// PriceID resolves a plan identifier to its vendor price ID.
func (c PlanCatalog) PriceID(plan string) (string, bool) {
	price, ok := c.Prices[strings.ToLower(strings.TrimSpace(plan))]
	if !ok || strings.TrimSpace(price) == "" {
		return "", false
	}
	return price, true
}

func DefaultPlanCatalog() PlanCatalog {
	return PlanCatalog{
		TrialDays: 14,
		Prices: map[string]string{
			"pro":      getenv("STRIPE_PRICE_PRO", ""),
			"business": getenv("STRIPE_PRICE_BUSINESS", ""),
		},
	}
}

type PlanCatalogHolder struct {
	current atomic.Value // holds PlanCatalog
}

// NewPlanCatalogHolder loads billing.yml and keeps the catalog hot-reloaded.
func NewPlanCatalogHolder() (*PlanCatalogHolder, error) {
	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/billgate/config")
	v.AddConfigPath("/etc/billgate")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BILLGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultPlanCatalog()
		v.SetDefault("billing.trialDays", defaults.TrialDays)
		v.SetDefault("billing.prices", defaults.Prices)
	}

	var catalog PlanCatalog
	if err := v.UnmarshalKey("billing", &catalog); err != nil {
		return nil, err
	}
	if err := validatePlanCatalog(catalog); err != nil {
		return nil, err
	}

	holder := &PlanCatalogHolder{}
	holder.current.Store(catalog)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PlanCatalog
		if err := v.UnmarshalKey("billing", &updated); err != nil {
			log.Printf("[plan-catalog] reload failed: %v", err)
			return
		}
		if err := validatePlanCatalog(updated); err != nil {
			log.Printf("[plan-catalog] invalid catalog ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[plan-catalog] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *PlanCatalogHolder) Get() PlanCatalog {
	return h.current.Load().(PlanCatalog)
}

// NewStaticPlanCatalogHolder wraps a fixed catalog, primarily for tests.
func NewStaticPlanCatalogHolder(catalog PlanCatalog) *PlanCatalogHolder {
	holder := &PlanCatalogHolder{}
	holder.current.Store(catalog)
	return holder
}

func validatePlanCatalog(catalog PlanCatalog) error {
	if catalog.TrialDays < 0 {
		return errors.New("billing.trialDays cannot be negative")
	}
	if catalog.Prices == nil {
		return errors.New("billing.prices cannot be nil")
	}
	return nil
}
