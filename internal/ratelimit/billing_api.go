package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"

	"github.com/helioslabs/billgate/internal/config"
)

const keyBillingOrg = "billing:sessions:org:%s"

// BillingAPILimiter bounds how fast a single organization can request
// vendor-hosted sessions. Nil/disabled limiters allow everything, so the
// service runs without Redis when the limit is not configured.
type BillingAPILimiter struct {
	enabled bool

	bucket *TokenBucket

	orgRate  float64
	orgBurst int
}

func NewBillingAPILimiter(cfg config.Config) (*BillingAPILimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.OrgRate <= 0 || limitCfg.OrgBurst <= 0 {
		return nil, errors.New("billing org rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &BillingAPILimiter{
		enabled:  true,
		bucket:   NewTokenBucket(client),
		orgRate:  limitCfg.OrgRate,
		orgBurst: limitCfg.OrgBurst,
	}, nil
}

func (l *BillingAPILimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *BillingAPILimiter) AllowOrg(ctx context.Context, orgID string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyBillingOrg, strings.TrimSpace(orgID)), l.orgRate, l.orgBurst)
}
