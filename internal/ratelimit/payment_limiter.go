package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/hudumahub/huduma/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const keyPaymentStart = "payment:start:client:%s"

// PaymentLimiter throttles payment initiations per client so a stuck retry
// loop cannot flood the processor with charge attempts. A nil limiter allows
// everything; disabled deployments skip redis entirely.
type PaymentLimiter struct {
	enabled bool
	bucket  *TokenBucket
	rate    float64
	burst   int
}

func NewPaymentLimiter(cfg config.Config) (*PaymentLimiter, error) {
	if !cfg.RateLimitEnabled {
		return nil, nil
	}

	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if cfg.PaymentStartRate <= 0 || cfg.PaymentStartBurst <= 0 {
		return nil, errors.New("payment rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})

	return &PaymentLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		rate:    cfg.PaymentStartRate,
		burst:   cfg.PaymentStartBurst,
	}, nil
}

func (l *PaymentLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *PaymentLimiter) AllowStart(ctx context.Context, clientID snowflake.ID) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyPaymentStart, clientID.String()), l.rate, l.burst)
}
