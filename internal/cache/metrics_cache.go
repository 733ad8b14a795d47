// Package cache keeps computed dashboard metrics so repeated dashboard reads
// within a day skip the portfolio scan.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/segyhp/loan-ledger/internal/domain"
	customError "github.com/segyhp/loan-ledger/pkg/errors"
	"github.com/segyhp/loan-ledger/pkg/utils"
)

const metricsKey = "loan-ledger:metrics"

// MetricsCache stores the latest dashboard metrics for one calendar day.
// Loan dates are stored as midnights in the clock's zone, so accrued amounts
// only change when the day changes.
type MetricsCache interface {
	Get(ctx context.Context, asOf time.Time) (*domain.DashboardMetrics, bool, error)
	Set(ctx context.Context, metrics *domain.DashboardMetrics) error
	Invalidate(ctx context.Context) error
}

// redisCmdable is the subset of *redis.Client the cache uses.
type redisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type cachedMetrics struct {
	Day     string                  `json:"day"`
	Metrics domain.DashboardMetrics `json:"metrics"`
}

type RedisMetricsCache struct {
	client redisCmdable
	ttl    time.Duration
}

func NewRedisMetricsCache(client redisCmdable, ttl time.Duration) *RedisMetricsCache {
	return &RedisMetricsCache{client: client, ttl: ttl}
}

// Get returns the cached metrics when they were computed on the same day as asOf.
func (c *RedisMetricsCache) Get(ctx context.Context, asOf time.Time) (*domain.DashboardMetrics, bool, error) {
	raw, err := c.client.Get(ctx, metricsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, customError.WrapCacheError(err)
	}

	var entry cachedMetrics
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, err
	}
	if entry.Day != utils.FormatDate(asOf) {
		return nil, false, nil
	}
	return &entry.Metrics, true, nil
}

func (c *RedisMetricsCache) Set(ctx context.Context, metrics *domain.DashboardMetrics) error {
	payload, err := json.Marshal(cachedMetrics{
		Day:     utils.FormatDate(metrics.AsOf),
		Metrics: *metrics,
	})
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, metricsKey, payload, c.ttl).Err(); err != nil {
		return customError.WrapCacheError(err)
	}
	return nil
}

func (c *RedisMetricsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, metricsKey).Err(); err != nil {
		return customError.WrapCacheError(err)
	}
	return nil
}

// NopMetricsCache never holds anything. Used when Redis is not configured.
type NopMetricsCache struct{}

func (NopMetricsCache) Get(context.Context, time.Time) (*domain.DashboardMetrics, bool, error) {
	return nil, false, nil
}

func (NopMetricsCache) Set(context.Context, *domain.DashboardMetrics) error { return nil }

func (NopMetricsCache) Invalidate(context.Context) error { return nil }
